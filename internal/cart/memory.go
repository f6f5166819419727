package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memoryService keeps carts for the lifetime of the process only. It
// satisfies the same Service contract as the persisted cart so the checkout
// flow does not care which holder it was handed.
type memoryService struct {
	mu    sync.Mutex
	carts map[uint][]*CartItem

	prices func(ctx context.Context, productID string) (decimal.Decimal, string, *int, error)
}

// NewMemoryService builds the in-process holder. The lookup callback supplies
// price, name and cached stock for a product id.
func NewMemoryService(
	lookup func(ctx context.Context, productID string) (decimal.Decimal, string, *int, error),
) Service {
	return &memoryService{
		carts:  make(map[uint][]*CartItem),
		prices: lookup,
	}
}

func (s *memoryService) AddToCart(ctx context.Context, params AddToCartParams) (*AddResult, error) {
	if params.UserID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if params.Quantity < 1 {
		params.Quantity = 1
	}

	price, name, stock, err := s.prices(ctx, params.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if OutOfStock(stock) {
		return nil, ErrInsufficientStock
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[params.UserID]
	for _, item := range items {
		if item.ProductID == params.ProductID &&
			ptrEq(item.Color, params.Color) &&
			ptrEq(item.ImagePath, params.ImagePath) {

			qty, clamped := Clamp(item.Quantity+params.Quantity, stock)
			item.Quantity = qty
			item.Stock = stock
			item.UpdatedAt = time.Now()
			return &AddResult{Item: item, Clamped: clamped}, nil
		}
	}

	qty, clamped := Clamp(params.Quantity, stock)
	item := &CartItem{
		ID:            uuid.New().String(),
		ProductID:     params.ProductID,
		ProductName:   name,
		PriceSnapshot: price,
		Quantity:      qty,
		Color:         params.Color,
		ImagePath:     params.ImagePath,
		Stock:         stock,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	s.carts[params.UserID] = append(items, item)

	return &AddResult{Item: item, Clamped: clamped}, nil
}

func (s *memoryService) GetCart(ctx context.Context, userID uint) ([]*CartItem, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	out := make([]*CartItem, len(items))
	copy(out, items)
	return out, nil
}

func (s *memoryService) UpdateQuantity(ctx context.Context, userID uint, itemID string, quantity int) (*AddResult, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.carts[userID] {
		if item.ID == itemID {
			if OutOfStock(item.Stock) {
				return nil, ErrInsufficientStock
			}
			qty, clamped := Clamp(quantity, item.Stock)
			item.Quantity = qty
			item.UpdatedAt = time.Now()
			return &AddResult{Item: item, Clamped: clamped}, nil
		}
	}

	return nil, ErrCartItemNotFound
}

func (s *memoryService) RemoveFromCart(ctx context.Context, userID uint, itemID string) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i, item := range items {
		if item.ID == itemID {
			s.carts[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}

	return ErrCartItemNotFound
}

func (s *memoryService) ClearCart(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
	return nil
}

func ptrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
