package order

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrCartEmpty     = errors.New("cart is empty")
	ErrInvalidStatus = errors.New("invalid order status")
	ErrForbidden     = errors.New("cannot access others' orders")
)

// OutOfStockItem names a cart line the advisory gate rejected.
type OutOfStockItem struct {
	ProductID string
	Name      string
	Requested int
	Stock     int
}

// OutOfStockError blocks checkout before any order row is written and names
// every offending item so the customer can adjust quantities.
type OutOfStockError struct {
	Items []OutOfStockItem
}

func (e *OutOfStockError) Error() string {
	names := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		names = append(names, fmt.Sprintf(
			"%s (stock: %d, requested: %d)",
			item.Name, item.Stock, item.Requested,
		))
	}
	return "not enough stock for: " + strings.Join(names, ", ")
}

// StockConflictError signals that the authoritative conditional decrement
// found less stock than the snapshot promised; the whole checkout
// transaction rolls back.
type StockConflictError struct {
	ProductID   string
	ProductName string
}

func (e *StockConflictError) Error() string {
	return "stock changed during checkout for product " + e.ProductName
}
