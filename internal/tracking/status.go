package tracking

import (
	"storefront/internal/domain"
)

// sequence is the canonical delivery lifecycle. cancelled is deliberately
// absent: it is reachable from any non-terminal status but has no position
// on the progress bar.
var sequence = []domain.OrderStatus{
	domain.StatusPending,
	domain.StatusConfirmed,
	domain.StatusProcessing,
	domain.StatusPicked,
	domain.StatusEnRoute,
	domain.StatusDelivered,
}

// StatusIndex returns the position of s in the canonical sequence. The
// second return is false for cancelled and for unknown statuses.
func StatusIndex(s domain.OrderStatus) (int, bool) {
	for i, st := range sequence {
		if st == s {
			return i, true
		}
	}
	return -1, false
}

// ProgressFraction maps a status to a completion fraction in [0,1].
// Indeterminate (false) for cancelled: a terminated order has no progress.
func ProgressFraction(s domain.OrderStatus) (float64, bool) {
	i, ok := StatusIndex(s)
	if !ok {
		return 0, false
	}
	f := float64(i+1) / float64(len(sequence))
	if f > 1 {
		f = 1
	}
	return f, true
}

var labels = map[domain.OrderStatus]string{
	domain.StatusPending:    "Order Placed",
	domain.StatusConfirmed:  "Confirmed",
	domain.StatusProcessing: "Processing",
	domain.StatusPicked:     "Picked Up",
	domain.StatusEnRoute:    "On the Way",
	domain.StatusDelivered:  "Delivered",
	domain.StatusCancelled:  "Cancelled",
}

var colors = map[domain.OrderStatus]string{
	domain.StatusPending:    "#f59e0b",
	domain.StatusConfirmed:  "#3b82f6",
	domain.StatusProcessing: "#6366f1",
	domain.StatusPicked:     "#8b5cf6",
	domain.StatusEnRoute:    "#06b6d4",
	domain.StatusDelivered:  "#22c55e",
	domain.StatusCancelled:  "#ef4444",
}

// Label returns the display label for s. Every status in
// domain.AllStatuses has an entry; the test suite enforces completeness.
func Label(s domain.OrderStatus) string {
	return labels[s]
}

func Color(s domain.OrderStatus) string {
	return colors[s]
}
