package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// Valid reports whether s is one of the known statuses. Transitions between
// valid statuses are not restricted.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is the aggregate produced by checkout. Items, addresses and the
// payment record share its lifecycle. TotalAmount equals the sum of the item
// totals at creation time and is never recomputed.
type Order struct {
	ID          uint64
	UserID      uint64
	Number      string
	Status      OrderStatus
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items    []OrderItem
	Billing  *Address
	Shipping *Address
	Payment  *PaymentRecord
}

// OrderItem references its product by id only. UnitPrice is the effective
// price snapshotted at checkout; later catalog price changes do not touch it.
type OrderItem struct {
	ID         uint64
	OrderID    uint64
	ProductID  uint64
	Quantity   int32
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
}

// CheckoutItem is one requested (product, quantity) line.
type CheckoutItem struct {
	ProductID uint64
	Quantity  int32
}

// CardDetails is raw payment input. It is sealed by the card vault before it
// ever reaches the repository.
type CardDetails struct {
	Number     string
	ExpiryDate string
	CVV        string
	HolderName string
}

// Checkout is the full input of the order-creation workflow. Shipping is
// optional; when nil no shipping address is recorded.
type Checkout struct {
	Billing  Address
	Shipping *Address
	Payment  CardDetails
	Items    []CheckoutItem
}
