package cart

import (
	"context"
	"errors"

	"speego-be/internal/logger"
	"speego-be/internal/product"
	"speego-be/internal/stockcache"

	"go.uber.org/zap"
)

// Service defines the cart contract. The remote-persisted implementation
// below is the authoritative one; anything satisfying this interface can own
// the checkout flow's cart.
type Service interface {
	AddToCart(ctx context.Context, params AddToCartParams) (*AddResult, error)
	GetCart(ctx context.Context, userID uint) ([]*CartItem, error)
	UpdateQuantity(ctx context.Context, userID uint, itemID string, quantity int) (*AddResult, error)
	RemoveFromCart(ctx context.Context, userID uint, itemID string) error
	ClearCart(ctx context.Context, userID uint) error
}

type service struct {
	repo        Repository
	productRepo product.Repository
	stocks      stockcache.Cache
}

func NewService(repo Repository, productRepo product.Repository, stocks stockcache.Cache) Service {
	return &service{repo: repo, productRepo: productRepo, stocks: stocks}
}

// cachedStock reads the advisory stock figure through the snapshot cache,
// refilling it from the database on a miss. Cache trouble degrades to "no
// figure known" rather than failing the mutation.
func (s *service) cachedStock(ctx context.Context, productID string) *int {
	stock, ok, err := s.stocks.Get(ctx, productID)
	if err != nil {
		logger.FromCtx(ctx).Warn("stock snapshot read failed",
			zap.String("product_id", productID),
			zap.Error(err),
		)
	}
	if ok {
		return &stock
	}

	stock, err = s.productRepo.GetStock(ctx, productID)
	if err != nil {
		return nil
	}

	_ = s.stocks.Set(ctx, productID, stock)
	return &stock
}

// AddToCart merges by (product, color, image) and clamps the final quantity
// against the cached stock figure.
func (s *service) AddToCart(ctx context.Context, params AddToCartParams) (*AddResult, error) {
	if params.UserID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if params.Quantity < 1 {
		params.Quantity = 1
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddToCart"),
		zap.Uint("user_id", params.UserID),
		zap.String("product_id", params.ProductID),
	)

	p, err := s.productRepo.GetByID(ctx, params.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	stock := s.cachedStock(ctx, params.ProductID)
	if OutOfStock(stock) {
		return nil, ErrInsufficientStock
	}

	cartID, err := s.repo.GetOrCreateActiveCart(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindItem(ctx, cartID, params.ProductID, params.Color, params.ImagePath)
	if err != nil {
		return nil, err
	}

	finalQty := params.Quantity
	if existing != nil {
		finalQty += existing.Quantity
	}

	finalQty, clamped := Clamp(finalQty, stock)
	if clamped {
		log.Info("quantity clamped to cached stock",
			zap.Int("stock", *stock),
		)
	}

	var item *CartItem
	if existing == nil {
		item, err = s.repo.CreateItem(ctx, CreateItemParams{
			CartID:        cartID,
			ProductID:     params.ProductID,
			Quantity:      finalQty,
			Color:         params.Color,
			ImagePath:     params.ImagePath,
			PriceSnapshot: p.Price,
		})
	} else {
		err = s.repo.UpdateItemQuantity(ctx, cartID, existing.ID, finalQty)
		if err == nil {
			existing.Quantity = finalQty
			item = existing
		}
	}
	if err != nil {
		return nil, err
	}

	item.ProductName = p.Name
	item.Stock = stock

	return &AddResult{Item: item, Clamped: clamped}, nil
}

func (s *service) GetCart(ctx context.Context, userID uint) ([]*CartItem, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}

	cartID, err := s.repo.GetOrCreateActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, cartID)
	if err != nil {
		return nil, err
	}

	// refresh the snapshot from the joined live figures
	for _, item := range items {
		if item.Stock != nil {
			_ = s.stocks.Set(ctx, item.ProductID, *item.Stock)
		}
	}

	return items, nil
}

// UpdateQuantity sets a line's quantity, clamped to [1, stock].
func (s *service) UpdateQuantity(ctx context.Context, userID uint, itemID string, quantity int) (*AddResult, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if itemID == "" {
		return nil, ErrCartItemNotFound
	}

	cartID, err := s.repo.GetOrCreateActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, cartID)
	if err != nil {
		return nil, err
	}

	var target *CartItem
	for _, item := range items {
		if item.ID == itemID {
			target = item
			break
		}
	}
	if target == nil {
		return nil, ErrCartItemNotFound
	}
	if OutOfStock(target.Stock) {
		return nil, ErrInsufficientStock
	}

	finalQty, clamped := Clamp(quantity, target.Stock)

	if err := s.repo.UpdateItemQuantity(ctx, cartID, itemID, finalQty); err != nil {
		return nil, err
	}

	target.Quantity = finalQty
	return &AddResult{Item: target, Clamped: clamped}, nil
}

func (s *service) RemoveFromCart(ctx context.Context, userID uint, itemID string) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}
	if itemID == "" {
		return ErrCartItemNotFound
	}

	cartID, err := s.repo.GetOrCreateActiveCart(ctx, userID)
	if err != nil {
		return err
	}

	return s.repo.RemoveItem(ctx, cartID, itemID)
}

func (s *service) ClearCart(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}

	cartID, err := s.repo.GetOrCreateActiveCart(ctx, userID)
	if err != nil {
		return err
	}

	return s.repo.ClearItems(ctx, cartID)
}
