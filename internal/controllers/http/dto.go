package http

import (
	"storefront/internal/domain"
	"storefront/internal/tracking"
)

type AddCartItemRequest struct {
	ProductID uint64 `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required"`
}

type UpdateCartItemRequest struct {
	Quantity *int64 `json:"quantity" binding:"required"`
}

type CartResponse struct {
	Items []domain.CartItem `json:"items"`
	Total int64             `json:"total"`
	Count int64             `json:"count"`
}

type CheckoutRequest struct {
	UserID          string               `json:"userId" binding:"required"`
	DeliveryAddress string               `json:"deliveryAddress" binding:"required"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod" binding:"required"`
	DeliveryFee     int64                `json:"deliveryFee"`
}

type StatusUpdateRequest struct {
	Status   domain.OrderStatus `json:"status" binding:"required"`
	Location string             `json:"location"`
	Note     string             `json:"note"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TrackingResponse struct {
	OrderID       string                `json:"orderId"`
	Status        domain.OrderStatus    `json:"status"`
	Label         string                `json:"label"`
	Color         string                `json:"color"`
	Progress      *float64              `json:"progress,omitempty"`
	StatusUpdates []domain.StatusUpdate `json:"statusUpdates"`
}

func NewTrackingResponse(order *domain.Order) TrackingResponse {
	resp := TrackingResponse{
		OrderID:       order.ID,
		Status:        order.Status,
		Label:         tracking.Label(order.Status),
		Color:         tracking.Color(order.Status),
		StatusUpdates: order.StatusUpdates,
	}
	// Progress stays null for cancelled orders: the bar has no meaning
	// once the order is terminated.
	if f, ok := tracking.ProgressFraction(order.Status); ok {
		resp.Progress = &f
	}
	return resp
}
