package domain

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusPicked     OrderStatus = "picked"
	StatusEnRoute    OrderStatus = "en-route"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// AllStatuses lists every status the domain knows about, linear chain
// first, cancelled last. Lookup tables are checked against this set.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusPicked,
	StatusEnRoute,
	StatusDelivered,
	StatusCancelled,
}

// Terminal reports whether no further status transitions are permitted.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentCard   PaymentMethod = "card"
	PaymentWallet PaymentMethod = "wallet"
)

// StatusUpdate is a historical fact about an order: once appended it is
// never mutated or removed.
type StatusUpdate struct {
	ID        uint64      `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID   string      `json:"-" gorm:"index;size:36"`
	Status    OrderStatus `json:"status" gorm:"size:16;not null"`
	Timestamp time.Time   `json:"timestamp" gorm:"not null"`
	Location  string      `json:"location,omitempty"`
	Note      string      `json:"note,omitempty"`
}

// Order holds the purchased lines and the append-only tracking history.
// Invariant: when StatusUpdates is non-empty, Status equals the status of
// its most recent entry.
type Order struct {
	ID              string         `json:"id" gorm:"primaryKey;size:36"`
	UserID          string         `json:"userId" gorm:"index;size:64"`
	Items           []OrderItem    `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Status          OrderStatus    `json:"status" gorm:"size:16;not null;default:'pending'"`
	Date            time.Time      `json:"date" gorm:"autoCreateTime"`
	DeliveryAddress string         `json:"deliveryAddress" gorm:"not null"`
	PaymentMethod   PaymentMethod  `json:"paymentMethod" gorm:"size:16;not null"`
	Total           int64          `json:"total" gorm:"not null"`
	DeliveryFee     int64          `json:"deliveryFee" gorm:"not null"`
	StatusUpdates   []StatusUpdate `json:"statusUpdates,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem snapshots a cart line at checkout time. Price is the
// effective (possibly discounted) unit price the line was charged at.
type OrderItem struct {
	ID        uint64 `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID   string `json:"-" gorm:"index;size:36"`
	ProductID uint64 `json:"productId" gorm:"not null"`
	Name      string `json:"name"`
	Price     int64  `json:"price" gorm:"not null"`
	Quantity  int64  `json:"quantity" gorm:"not null"`
}
