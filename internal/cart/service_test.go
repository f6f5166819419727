package cart

import (
	"context"
	"testing"

	"speego-be/internal/product"
	"speego-be/internal/stockcache"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetOrCreateActiveCart(ctx context.Context, userID uint) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) GetItems(ctx context.Context, cartID string) ([]*CartItem, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*CartItem), args.Error(1)
}

func (m *MockRepository) FindItem(ctx context.Context, cartID, productID string, color, imagePath *string) (*CartItem, error) {
	args := m.Called(ctx, cartID, productID, color, imagePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) CreateItem(ctx context.Context, params CreateItemParams) (*CartItem, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error {
	args := m.Called(ctx, cartID, itemID, quantity)
	return args.Error(0)
}

func (m *MockRepository) RemoveItem(ctx context.Context, cartID, itemID string) error {
	args := m.Called(ctx, cartID, itemID)
	return args.Error(0)
}

func (m *MockRepository) ClearItems(ctx context.Context, cartID string) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

// MockProductRepository is a mock for the product repository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetList(ctx context.Context, opts product.ListOptions) ([]*product.Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, productID string) (*product.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetStock(ctx context.Context, productID string) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, input product.NewProductInput) (*product.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, input product.UpdateProductInput) (*product.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func TestAddToCart(t *testing.T) {
	ctx := context.Background()

	falcon := &product.Product{
		ID:    "p1",
		Name:  "SPEEGO Falcon",
		Price: decimal.NewFromInt(45000),
		Stock: 5,
	}

	t.Run("Unauthenticated", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductRepository), stockcache.NewMemory())

		_, err := svc.AddToCart(ctx, AddToCartParams{ProductID: "p1", Quantity: 1})
		assert.ErrorIs(t, err, ErrUserNotAuthenticated)
	})

	t.Run("ProductNotFound", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		svc := NewService(repo, productRepo, stockcache.NewMemory())

		productRepo.On("GetByID", ctx, "missing").Return(nil, product.ErrProductNotFound)

		_, err := svc.AddToCart(ctx, AddToCartParams{UserID: 1, ProductID: "missing", Quantity: 1})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("CreatesNewLine", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		stocks := stockcache.NewMemory()
		svc := NewService(repo, productRepo, stocks)

		productRepo.On("GetByID", ctx, "p1").Return(falcon, nil)
		productRepo.On("GetStock", ctx, "p1").Return(5, nil)
		repo.On("GetOrCreateActiveCart", ctx, uint(1)).Return("cart-1", nil)
		repo.On("FindItem", ctx, "cart-1", "p1", (*string)(nil), (*string)(nil)).Return(nil, nil)
		repo.On("CreateItem", ctx, CreateItemParams{
			CartID:        "cart-1",
			ProductID:     "p1",
			Quantity:      2,
			PriceSnapshot: falcon.Price,
		}).Return(&CartItem{ID: "ci-1", CartID: "cart-1", ProductID: "p1", Quantity: 2, PriceSnapshot: falcon.Price}, nil)

		res, err := svc.AddToCart(ctx, AddToCartParams{UserID: 1, ProductID: "p1", Quantity: 2})
		assert.NoError(t, err)
		assert.False(t, res.Clamped)
		assert.Equal(t, 2, res.Item.Quantity)
		assert.Equal(t, "SPEEGO Falcon", res.Item.ProductName)

		// stock figure is cached after the miss
		cached, ok, _ := stocks.Get(ctx, "p1")
		assert.True(t, ok)
		assert.Equal(t, 5, cached)
	})

	t.Run("MergesAndClamps", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		stocks := stockcache.NewMemory()
		svc := NewService(repo, productRepo, stocks)

		assert.NoError(t, stocks.Set(ctx, "p1", 5))

		productRepo.On("GetByID", ctx, "p1").Return(falcon, nil)
		repo.On("GetOrCreateActiveCart", ctx, uint(1)).Return("cart-1", nil)
		repo.On("FindItem", ctx, "cart-1", "p1", (*string)(nil), (*string)(nil)).
			Return(&CartItem{ID: "ci-1", Quantity: 4}, nil)
		// 4 existing + 3 requested, clamped to stock 5
		repo.On("UpdateItemQuantity", ctx, "cart-1", "ci-1", 5).Return(nil)

		res, err := svc.AddToCart(ctx, AddToCartParams{UserID: 1, ProductID: "p1", Quantity: 3})
		assert.NoError(t, err)
		assert.True(t, res.Clamped)
		assert.Equal(t, 5, res.Item.Quantity)
	})

	t.Run("OutOfStock", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepository)
		stocks := stockcache.NewMemory()
		svc := NewService(repo, productRepo, stocks)

		assert.NoError(t, stocks.Set(ctx, "p1", 0))
		productRepo.On("GetByID", ctx, "p1").Return(falcon, nil)

		_, err := svc.AddToCart(ctx, AddToCartParams{UserID: 1, ProductID: "p1", Quantity: 1})
		assert.ErrorIs(t, err, ErrInsufficientStock)
		repo.AssertNotCalled(t, "CreateItem")
	})
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("ClampsToStock", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepository), stockcache.NewMemory())

		repo.On("GetOrCreateActiveCart", ctx, uint(1)).Return("cart-1", nil)
		repo.On("GetItems", ctx, "cart-1").Return([]*CartItem{
			{ID: "ci-1", ProductID: "p1", Quantity: 2, Stock: intPtr(3)},
		}, nil)
		repo.On("UpdateItemQuantity", ctx, "cart-1", "ci-1", 3).Return(nil)

		res, err := svc.UpdateQuantity(ctx, 1, "ci-1", 10)
		assert.NoError(t, err)
		assert.True(t, res.Clamped)
		assert.Equal(t, 3, res.Item.Quantity)
	})

	t.Run("FloorsAtOne", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepository), stockcache.NewMemory())

		repo.On("GetOrCreateActiveCart", ctx, uint(1)).Return("cart-1", nil)
		repo.On("GetItems", ctx, "cart-1").Return([]*CartItem{
			{ID: "ci-1", ProductID: "p1", Quantity: 2, Stock: intPtr(3)},
		}, nil)
		repo.On("UpdateItemQuantity", ctx, "cart-1", "ci-1", 1).Return(nil)

		res, err := svc.UpdateQuantity(ctx, 1, "ci-1", -5)
		assert.NoError(t, err)
		assert.Equal(t, 1, res.Item.Quantity)
	})

	t.Run("UnknownLine", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepository), stockcache.NewMemory())

		repo.On("GetOrCreateActiveCart", ctx, uint(1)).Return("cart-1", nil)
		repo.On("GetItems", ctx, "cart-1").Return([]*CartItem{}, nil)

		_, err := svc.UpdateQuantity(ctx, 1, "nope", 2)
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})

	t.Run("StockGone", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockProductRepository), stockcache.NewMemory())

		repo.On("GetOrCreateActiveCart", ctx, uint(1)).Return("cart-1", nil)
		repo.On("GetItems", ctx, "cart-1").Return([]*CartItem{
			{ID: "ci-1", ProductID: "p1", Quantity: 2, Stock: intPtr(0)},
		}, nil)

		_, err := svc.UpdateQuantity(ctx, 1, "ci-1", 5)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		repo.AssertNotCalled(t, "UpdateItemQuantity", ctx, "cart-1", "ci-1", 5)
	})
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo, new(MockProductRepository), stockcache.NewMemory())

	repo.On("GetOrCreateActiveCart", ctx, uint(1)).Return("cart-1", nil)
	repo.On("ClearItems", ctx, "cart-1").Return(nil)

	assert.NoError(t, svc.ClearCart(ctx, 1))
	repo.AssertExpectations(t)
}

func TestMemoryServiceMatchesContract(t *testing.T) {
	ctx := context.Background()

	stock := 3
	svc := NewMemoryService(func(ctx context.Context, productID string) (decimal.Decimal, string, *int, error) {
		return decimal.NewFromInt(1000), "Falcon", &stock, nil
	})

	res, err := svc.AddToCart(ctx, AddToCartParams{UserID: 1, ProductID: "p1", Quantity: 2})
	assert.NoError(t, err)
	assert.Equal(t, 2, res.Item.Quantity)

	// merge then clamp at stock 3
	res, err = svc.AddToCart(ctx, AddToCartParams{UserID: 1, ProductID: "p1", Quantity: 2})
	assert.NoError(t, err)
	assert.True(t, res.Clamped)
	assert.Equal(t, 3, res.Item.Quantity)

	items, err := svc.GetCart(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, items, 1)

	assert.NoError(t, svc.ClearCart(ctx, 1))
	items, _ = svc.GetCart(ctx, 1)
	assert.Empty(t, items)
}
