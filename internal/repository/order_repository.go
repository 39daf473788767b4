package repository

import (
	"context"

	"storefront/internal/domain"
)

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	AppendStatusUpdate(ctx context.Context, order *domain.Order, update domain.StatusUpdate) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Order, error)
}
