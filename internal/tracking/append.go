package tracking

import (
	"storefront/internal/domain"
)

// Append validates update against the order's current status and, if
// legal, records it: the update is appended to the history and the
// order's status is set to the update's status, both or neither.
//
// Allowed moves: re-logging the current status (idempotent), advancing
// forward in the canonical sequence, and cancelling from any non-terminal
// status. Everything else is ErrInvalidTransition and leaves the order
// untouched.
func Append(order *domain.Order, update domain.StatusUpdate) error {
	if err := validate(order.Status, update.Status); err != nil {
		return err
	}
	order.StatusUpdates = append(order.StatusUpdates, update)
	order.Status = update.Status
	return nil
}

func validate(current, next domain.OrderStatus) error {
	if current.Terminal() {
		return domain.ErrInvalidTransition
	}
	if next == current {
		return nil
	}
	if next == domain.StatusCancelled {
		// Cancellation is allowed from any non-terminal status, even
		// after physical pickup. Policy, not an oversight.
		return nil
	}
	ci, ok := StatusIndex(current)
	if !ok {
		return domain.ErrInvalidTransition
	}
	ni, ok := StatusIndex(next)
	if !ok || ni < ci {
		return domain.ErrInvalidTransition
	}
	return nil
}
