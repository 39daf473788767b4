package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/domain"
	rabbit "storefront/internal/infra/rabbitmq"
	"storefront/internal/repository"
	"storefront/internal/tracking"
)

var ErrEmptyCart = errors.New("cart is empty")

const orderCacheTTL = 10 * time.Second

type OrderService struct {
	repo        repository.OrderRepository
	publisher   rabbit.PublisherInterface
	redisClient *redis.Client
	logger      *zap.Logger
}

func NewOrderService(r repository.OrderRepository, pub rabbit.PublisherInterface, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		repo:      r,
		publisher: pub,
		logger:    logger,
	}
}

func (s *OrderService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

// Checkout turns the given cart lines into a pending order. Each line is
// snapshotted at its effective price; the cart itself is cleared by the
// caller only after this succeeds.
func (s *OrderService) Checkout(ctx context.Context, userID string, items []domain.CartItem, address string, payment domain.PaymentMethod, deliveryFee int64) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now()
	order := &domain.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Status:          domain.StatusPending,
		Date:            now,
		DeliveryAddress: address,
		PaymentMethod:   payment,
		DeliveryFee:     deliveryFee,
		StatusUpdates: []domain.StatusUpdate{
			{Status: domain.StatusPending, Timestamp: now},
		},
	}

	var total int64
	for _, it := range items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Price:     it.Product.EffectivePrice(),
			Quantity:  it.Quantity,
		})
		total += it.Subtotal()
	}
	order.Total = total + deliveryFee

	if err := s.repo.Save(ctx, order); err != nil {
		s.logger.Error("failed to save order",
			zap.String("order_id", order.ID),
			zap.Error(err))
		return nil, err
	}

	go s.publishOrderCreated(context.Background(), order)

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int64("total", order.Total))

	return order, nil
}

// AppendStatusUpdate advances the order's lifecycle. Validation happens
// before anything is persisted: a rejected update leaves both the order
// and the database untouched.
func (s *OrderService) AppendStatusUpdate(ctx context.Context, orderID string, update domain.StatusUpdate) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	if update.Timestamp.IsZero() {
		update.Timestamp = time.Now()
	}

	if err := tracking.Append(order, update); err != nil {
		return nil, err
	}

	if err := s.repo.AppendStatusUpdate(ctx, order, update); err != nil {
		s.logger.Error("failed to persist status update",
			zap.String("order_id", orderID),
			zap.Error(err))
		return nil, err
	}

	if s.redisClient != nil {
		s.redisClient.Del(ctx, orderCacheKey(orderID))
	}

	go s.publishStatusChanged(context.Background(), order.ID, update)

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, orderCacheKey(id)).Result()
		if err == nil {
			var o domain.Order
			if err := json.Unmarshal([]byte(cached), &o); err == nil {
				return &o, nil
			}
		}
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(order); err == nil {
			s.redisClient.Set(ctx, orderCacheKey(id), data, orderCacheTTL)
		}
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.FindByUserID(ctx, userID)
}

func orderCacheKey(id string) string {
	return "order:" + id
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *domain.Order) {
	evt := domain.OrderCreatedEvent{
		EventID:   uuid.New().String(),
		OrderID:   order.ID,
		UserID:    order.UserID,
		Items:     order.Items,
		Total:     order.Total,
		CreatedAt: order.Date,
	}
	if err := s.publisher.Publish(ctx, "order.created", evt); err != nil {
		s.logger.Error("failed to publish order.created",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}

func (s *OrderService) publishStatusChanged(ctx context.Context, orderID string, update domain.StatusUpdate) {
	evt := domain.OrderStatusChangedEvent{
		EventID:   uuid.New().String(),
		OrderID:   orderID,
		Status:    update.Status,
		Location:  update.Location,
		Note:      update.Note,
		Timestamp: update.Timestamp,
	}
	if err := s.publisher.Publish(ctx, "order.status.changed", evt); err != nil {
		s.logger.Error("failed to publish order.status.changed",
			zap.String("order_id", orderID),
			zap.Error(err))
	}
}
