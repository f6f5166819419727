package product

import (
	"context"
	"testing"

	"speego-be/internal/stockcache"
	"speego-be/internal/storage"
	"speego-be/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetList(ctx context.Context, opts ListOptions) ([]*Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Product), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, productID string) (*Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) GetStock(ctx context.Context, productID string) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, input NewProductInput) (*Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, input UpdateProductInput) (*Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func newTestService(repo Repository) Service {
	resolver := storage.NewResolver("https://cdn.example.com", "product-images")
	return NewService(repo, resolver, stockcache.NewMemory())
}

func TestGetByID_ResolvesImages(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(repo)

	repo.On("GetByID", ctx, "p1").Return(&Product{
		ID:           "p1",
		Name:         "SPEEGO Falcon",
		ImageURL:     utils.StrPtr("falcon/main.jpg"),
		GalleryPaths: []string{"falcon/red.jpg", "https://other.example.com/x.jpg"},
	}, nil)

	p, err := svc.GetByID(ctx, "p1")
	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/product-images/falcon/main.jpg", *p.ImageURL)
	assert.Equal(t, "https://cdn.example.com/product-images/falcon/red.jpg", p.GalleryPaths[0])
	assert.Equal(t, "https://other.example.com/x.jpg", p.GalleryPaths[1])
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(repo)

	t.Run("EmptyName", func(t *testing.T) {
		_, err := svc.Create(ctx, NewProductInput{Name: "  "})
		assert.ErrorIs(t, err, ErrNameRequired)
	})

	t.Run("NegativePrice", func(t *testing.T) {
		_, err := svc.Create(ctx, NewProductInput{
			Name:  "Falcon",
			Price: decimal.NewFromInt(-1),
		})
		assert.ErrorIs(t, err, ErrNegativePrice)
	})

	t.Run("NegativeStock", func(t *testing.T) {
		_, err := svc.Create(ctx, NewProductInput{
			Name:  "Falcon",
			Price: decimal.NewFromInt(1000),
			Stock: -1,
		})
		assert.ErrorIs(t, err, ErrNegativeStock)
	})

	t.Run("Success", func(t *testing.T) {
		input := NewProductInput{
			Name:  "Falcon",
			Price: decimal.NewFromInt(1000),
			Stock: 5,
		}
		repo.On("Create", ctx, input).Return(&Product{ID: "p1", Name: "Falcon"}, nil)

		p, err := svc.Create(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, "p1", p.ID)
	})
}

func TestUpdate_InvalidatesStockSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)

	resolver := storage.NewResolver("https://cdn.example.com", "product-images")
	stocks := stockcache.NewMemory()
	svc := NewService(repo, resolver, stocks)

	assert.NoError(t, stocks.Set(ctx, "p1", 3))

	newStock := 10
	input := UpdateProductInput{ID: "p1", Stock: &newStock}
	repo.On("Update", ctx, input).Return(&Product{ID: "p1", Stock: 10}, nil)

	_, err := svc.Update(ctx, input)
	assert.NoError(t, err)

	_, ok, _ := stocks.Get(ctx, "p1")
	assert.False(t, ok, "snapshot should be dropped after a stock edit")
}
