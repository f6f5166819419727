package order

import (
	"context"
	"time"

	"speego-be/internal/cart"
	"speego-be/internal/events"
	"speego-be/internal/logger"
	"speego-be/internal/metrics"
	"speego-be/internal/stockcache"
	"speego-be/internal/user"
	"speego-be/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	PlaceOrder(ctx context.Context, userID uint, checkoutKey string) (*Order, error)
	GetOrderDetail(ctx context.Context, userID uint, orderID string, isAdmin bool) (*Order, error)
	GetMyOrders(ctx context.Context, email string) ([]*Order, error)
	GetOrders(ctx context.Context, opts ListOptions) ([]*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) error
}

type service struct {
	repo      Repository
	cartSvc   cart.Service
	userSvc   user.Service
	stocks    stockcache.Cache
	publisher events.Publisher
}

func NewService(
	repo Repository,
	cartSvc cart.Service,
	userSvc user.Service,
	stocks stockcache.Cache,
	publisher events.Publisher,
) Service {
	return &service{
		repo:      repo,
		cartSvc:   cartSvc,
		userSvc:   userSvc,
		stocks:    stocks,
		publisher: publisher,
	}
}

// PlaceOrder runs the checkout sequence: profile gate, advisory stock gate,
// then one transaction committing the order, its items, and the stock
// decrement together. The checkout key makes retries and double-clicks
// idempotent: a key that already produced an order returns that order.
func (s *service) PlaceOrder(ctx context.Context, userID uint, checkoutKey string) (*Order, error) {
	metrics.CheckoutAttempts.Inc()
	timer := metrics.StartTimer()

	if checkoutKey == "" {
		checkoutKey = uuid.New().String()
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.Uint("user_id", userID),
		zap.String("checkout_key", checkoutKey),
	)

	// 1. Idempotency check. A replay only counts when the key belongs to
	// the caller; someone else's key must never hand out their order.
	existing, err := s.repo.GetByCheckoutKey(ctx, checkoutKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.UserID != userID {
			metrics.CheckoutRejected.Inc()
			log.Warn("checkout key already used by another customer",
				zap.Uint("owner_id", existing.UserID),
			)
			return nil, ErrForbidden
		}
		log.Info("checkout key replayed, returning existing order",
			zap.String("order_id", existing.ID),
		)
		return existing, nil
	}

	// 2. Profile gate (fails closed)
	profile, err := s.userSvc.RequireCompleteProfile(ctx, userID)
	if err != nil {
		metrics.CheckoutRejected.Inc()
		log.Info("checkout blocked by profile gate", zap.Error(err))
		return nil, err
	}

	// 3. Load cart
	items, err := s.cartSvc.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		metrics.CheckoutRejected.Inc()
		return nil, ErrCartEmpty
	}

	// 4. Advisory stock gate, naming every offending item
	var outOfStock []OutOfStockItem
	for _, item := range items {
		if item.Stock != nil && item.Quantity > *item.Stock {
			outOfStock = append(outOfStock, OutOfStockItem{
				ProductID: item.ProductID,
				Name:      item.ProductName,
				Requested: item.Quantity,
				Stock:     *item.Stock,
			})
		}
	}
	if len(outOfStock) > 0 {
		metrics.CheckoutRejected.Inc()
		err := &OutOfStockError{Items: outOfStock}
		log.Info("checkout blocked by stock gate", zap.Error(err))
		return nil, err
	}

	// 5. Snapshot totals and contact fields
	email := utils.GetUserEmailFromContext(ctx)
	o := &Order{
		ID:            uuid.New().String(),
		Reference:     utils.GenerateOrderReference(),
		UserID:        userID,
		CustomerName:  profile.FullName,
		CustomerPhone: profile.Phone,
		Address:       profile.Address,
		Status:        StatusPending,
		CheckoutKey:   checkoutKey,
	}
	if email != "" {
		o.CustomerEmail = &email
	}

	total := decimal.Zero
	productIDs := make([]string, 0, len(items))
	for _, item := range items {
		o.Items = append(o.Items, OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.PriceSnapshot,
			Quantity:    item.Quantity,
			Color:       item.Color,
		})
		total = total.Add(item.Subtotal())
		productIDs = append(productIDs, item.ProductID)
	}
	o.TotalAmount = total

	// 6. One transaction: order + items + conditional stock decrement
	if err := s.repo.CreateOrderTx(ctx, o); err != nil {
		metrics.CheckoutRejected.Inc()
		log.Warn("checkout transaction failed", zap.Error(err))
		return nil, err
	}

	// 7. Post-commit housekeeping, all best-effort
	if err := s.cartSvc.ClearCart(ctx, userID); err != nil {
		log.Warn("failed to clear cart after checkout", zap.Error(err))
	}

	_ = s.stocks.Invalidate(ctx, productIDs...)

	_ = s.publisher.Publish(ctx, events.OrderEvent{
		Type:       events.TypeOrderPlaced,
		OrderID:    o.ID,
		Status:     string(o.Status),
		Total:      o.TotalAmount.String(),
		OccurredAt: time.Now().UTC(),
	})

	metrics.CheckoutCompleted.Inc()
	log.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("reference", o.Reference),
		zap.String("total", o.TotalAmount.String()),
		zap.Duration("duration", timer.Duration()),
	)

	return o, nil
}

// GetOrderDetail backs the confirmation screen; customers only see their own
// orders.
func (s *service) GetOrderDetail(ctx context.Context, userID uint, orderID string, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && o.UserID != userID {
		return nil, ErrForbidden
	}

	return o, nil
}

func (s *service) GetMyOrders(ctx context.Context, email string) ([]*Order, error) {
	if email == "" {
		return nil, ErrForbidden
	}
	return s.repo.GetOrdersByEmail(ctx, email)
}

func (s *service) GetOrders(ctx context.Context, opts ListOptions) ([]*Order, error) {
	return s.repo.GetOrders(ctx, opts)
}

// UpdateOrderStatus is the admin operation. Moving into cancelled restores
// the order's stock inside the same transaction as the status change.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) error {
	if !ValidStatuses[status] {
		return ErrInvalidStatus
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderStatus"),
		zap.String("order_id", orderID),
	)

	prev, err := s.repo.UpdateStatusTx(ctx, orderID, status)
	if err != nil {
		return err
	}

	if prev != StatusCancelled && status == StatusCancelled {
		metrics.OrdersCancelled.Inc()

		// restored stock makes every cached figure for this order stale
		if o, derr := s.repo.GetOrderDetail(ctx, orderID); derr == nil {
			ids := make([]string, 0, len(o.Items))
			for _, item := range o.Items {
				ids = append(ids, item.ProductID)
			}
			_ = s.stocks.Invalidate(ctx, ids...)
		}
	}

	_ = s.publisher.Publish(ctx, events.OrderEvent{
		Type:       events.TypeOrderStatusChanged,
		OrderID:    orderID,
		Status:     string(status),
		PrevStatus: string(prev),
		OccurredAt: time.Now().UTC(),
	})

	log.Info("status change applied", zap.String("prev_status", string(prev)))
	return nil
}
