package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Save(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// AppendStatusUpdate persists one history row and the matching status
// column in a single transaction, so the stored order can never disagree
// with the newest entry of its history.
func (r *orderRepo) AppendStatusUpdate(ctx context.Context, order *domain.Order, update domain.StatusUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update.OrderID = order.ID
		if err := tx.Create(&update).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Order{}).
			Where("id = ?", order.ID).
			Update("status", update.Status).Error
	})
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusUpdates", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC, id ASC")
		}).
		First(&o, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
