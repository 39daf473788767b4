package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storefront/internal/domain"
)

func orderAt(status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:     "order-1",
		Status: status,
		StatusUpdates: []domain.StatusUpdate{
			{Status: status, Timestamp: time.Now().Add(-time.Hour)},
		},
	}
}

func TestAppend(t *testing.T) {
	tests := []struct {
		name          string
		current       domain.OrderStatus
		next          domain.OrderStatus
		expectedError error
	}{
		{name: "forward one step", current: domain.StatusPending, next: domain.StatusConfirmed},
		{name: "forward skipping steps", current: domain.StatusConfirmed, next: domain.StatusEnRoute},
		{name: "re-log of current status", current: domain.StatusProcessing, next: domain.StatusProcessing},
		{name: "cancel from pending", current: domain.StatusPending, next: domain.StatusCancelled},
		{name: "cancel after pickup", current: domain.StatusEnRoute, next: domain.StatusCancelled},
		{name: "backward rejected", current: domain.StatusPicked, next: domain.StatusConfirmed, expectedError: domain.ErrInvalidTransition},
		{name: "backward to pending rejected", current: domain.StatusPicked, next: domain.StatusPending, expectedError: domain.ErrInvalidTransition},
		{name: "delivered is terminal", current: domain.StatusDelivered, next: domain.StatusCancelled, expectedError: domain.ErrInvalidTransition},
		{name: "cancelled is terminal", current: domain.StatusCancelled, next: domain.StatusDelivered, expectedError: domain.ErrInvalidTransition},
		{name: "cancelled rejects re-log", current: domain.StatusCancelled, next: domain.StatusCancelled, expectedError: domain.ErrInvalidTransition},
		{name: "unknown status rejected", current: domain.StatusPending, next: domain.OrderStatus("bogus"), expectedError: domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := orderAt(tt.current)
			update := domain.StatusUpdate{
				Status:    tt.next,
				Timestamp: time.Now(),
				Location:  "Depot 4",
			}

			err := Append(order, update)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				// Rejection is all-or-nothing.
				assert.Equal(t, tt.current, order.Status)
				assert.Len(t, order.StatusUpdates, 1)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.next, order.Status)
			assert.Len(t, order.StatusUpdates, 2)
			last := order.StatusUpdates[len(order.StatusUpdates)-1]
			assert.Equal(t, order.Status, last.Status,
				"order status must equal the newest history entry")
		})
	}
}

func TestAppend_LifecycleScenario(t *testing.T) {
	order := orderAt(domain.StatusProcessing)

	assert.NoError(t, Append(order, domain.StatusUpdate{Status: domain.StatusPicked, Timestamp: time.Now()}))
	assert.Equal(t, domain.StatusPicked, order.Status)

	err := Append(order, domain.StatusUpdate{Status: domain.StatusPending, Timestamp: time.Now()})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.StatusPicked, order.Status)
}

func TestAppend_CancelThenNothing(t *testing.T) {
	order := orderAt(domain.StatusEnRoute)

	assert.NoError(t, Append(order, domain.StatusUpdate{Status: domain.StatusCancelled, Timestamp: time.Now()}))
	assert.Equal(t, domain.StatusCancelled, order.Status)

	err := Append(order, domain.StatusUpdate{Status: domain.StatusDelivered, Timestamp: time.Now()})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, domain.StatusCancelled, order.Status)
	assert.Len(t, order.StatusUpdates, 2)
}
