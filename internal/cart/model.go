package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one line of a user's active cart. Price is snapshotted at add
// time; Stock carries the cached advisory figure when one is known.
type CartItem struct {
	ID            string          `json:"id"`
	CartID        string          `json:"cart_id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"name"`
	PriceSnapshot decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Color         *string         `json:"color,omitempty"`
	ImagePath     *string         `json:"image_path,omitempty"`
	Stock         *int            `json:"stock,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Subtotal is price snapshot times quantity.
func (i *CartItem) Subtotal() decimal.Decimal {
	return i.PriceSnapshot.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type AddToCartParams struct {
	UserID    uint
	ProductID string
	Quantity  int
	Color     *string
	ImagePath *string
}

type CreateItemParams struct {
	CartID        string
	ProductID     string
	Quantity      int
	Color         *string
	ImagePath     *string
	PriceSnapshot decimal.Decimal
}

// AddResult reports what the mutation actually did, including whether the
// stock gate clamped the requested quantity.
type AddResult struct {
	Item    *CartItem `json:"item"`
	Clamped bool      `json:"clamped"`
}
