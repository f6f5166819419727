package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusProcessing     OrderStatus = "processing"
	StatusReadyForPickup OrderStatus = "ready_for_pickup"
	StatusCompleted      OrderStatus = "completed"
	StatusCancelled      OrderStatus = "cancelled"
)

// ValidStatuses are the states an administrator may move an order into.
var ValidStatuses = map[OrderStatus]bool{
	StatusPending:        true,
	StatusConfirmed:      true,
	StatusProcessing:     true,
	StatusReadyForPickup: true,
	StatusCompleted:      true,
	StatusCancelled:      true,
}

// Order is created once at checkout with a snapshot of totals and customer
// contact fields. Only status changes afterwards, and only by an admin.
type Order struct {
	ID            string          `json:"id"`
	Reference     string          `json:"reference"`
	UserID        uint            `json:"user_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	CustomerEmail *string         `json:"customer_email,omitempty"`
	Address       string          `json:"address"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        OrderStatus     `json:"status"`
	CheckoutKey   string          `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem is written as a batch alongside its order and never mutated.
type OrderItem struct {
	OrderID     string          `json:"order_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Color       *string         `json:"color,omitempty"`
}

// Subtotal is price times quantity.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type ListOptions struct {
	Status *OrderStatus
	Limit  int32
	Page   int32
}
