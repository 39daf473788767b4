package domain

import "time"

type OrderCreatedEvent struct {
	EventID   string      `json:"eventId"`
	OrderID   string      `json:"orderId"`
	UserID    string      `json:"userId"`
	Items     []OrderItem `json:"items"`
	Total     int64       `json:"total"`
	CreatedAt time.Time   `json:"createdAt"`
}

type OrderStatusChangedEvent struct {
	EventID   string      `json:"eventId"`
	OrderID   string      `json:"orderId"`
	Status    OrderStatus `json:"status"`
	Location  string      `json:"location,omitempty"`
	Note      string      `json:"note,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
