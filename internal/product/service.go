package product

import (
	"context"
	"strings"
	"time"

	"speego-be/internal/logger"
	"speego-be/internal/stockcache"
	"speego-be/internal/storage"

	"go.uber.org/zap"
)

type Service interface {
	GetList(ctx context.Context, opts ListOptions) ([]*Product, error)
	GetByID(ctx context.Context, productID string) (*Product, error)
	Create(ctx context.Context, input NewProductInput) (*Product, error)
	Update(ctx context.Context, input UpdateProductInput) (*Product, error)
	Delete(ctx context.Context, productID string) error
}

type service struct {
	repo    Repository
	storage storage.Resolver
	stocks  stockcache.Cache
}

func NewService(repo Repository, resolver storage.Resolver, stocks stockcache.Cache) Service {
	return &service{repo: repo, storage: resolver, stocks: stocks}
}

// resolveImages rewrites stored paths into public URLs before the product
// leaves the service.
func (s *service) resolveImages(p *Product) *Product {
	if p == nil {
		return nil
	}
	if p.ImageURL != nil {
		resolved := s.storage.PublicURL(*p.ImageURL)
		p.ImageURL = &resolved
	}
	for i, g := range p.GalleryPaths {
		p.GalleryPaths[i] = s.storage.PublicURL(g)
	}
	return p
}

func (s *service) GetList(ctx context.Context, opts ListOptions) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetList"),
	)

	start := time.Now()

	products, err := s.repo.GetList(ctx, opts)
	if err != nil {
		log.Error("failed to fetch product list",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}

	for _, p := range products {
		s.resolveImages(p)
	}

	log.Info("get product list success",
		zap.Int("count", len(products)),
		zap.Duration("duration", time.Since(start)),
	)

	return products, nil
}

func (s *service) GetByID(ctx context.Context, productID string) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.resolveImages(p), nil
}

func (s *service) Create(ctx context.Context, input NewProductInput) (*Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if input.Price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if input.Stock < 0 {
		return nil, ErrNegativeStock
	}

	return s.repo.Create(ctx, input)
}

func (s *service) Update(ctx context.Context, input UpdateProductInput) (*Product, error) {
	if input.ID == "" {
		return nil, ErrProductNotFound
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, ErrNameRequired
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if input.Stock != nil && *input.Stock < 0 {
		return nil, ErrNegativeStock
	}

	p, err := s.repo.Update(ctx, input)
	if err != nil {
		return nil, err
	}

	if input.Stock != nil && s.stocks != nil {
		// drop the advisory snapshot so the gate sees the edited figure
		_ = s.stocks.Invalidate(ctx, input.ID)
	}

	return p, nil
}

func (s *service) Delete(ctx context.Context, productID string) error {
	if productID == "" {
		return ErrProductNotFound
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}

	if s.stocks != nil {
		_ = s.stocks.Invalidate(ctx, productID)
	}

	return nil
}
