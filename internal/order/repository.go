package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"speego-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	CreateOrderTx(ctx context.Context, o *Order) error
	GetByCheckoutKey(ctx context.Context, key string) (*Order, error)
	GetOrderDetail(ctx context.Context, orderID string) (*Order, error)
	GetOrdersByEmail(ctx context.Context, email string) ([]*Order, error)
	GetOrders(ctx context.Context, opts ListOptions) ([]*Order, error)
	UpdateStatusTx(ctx context.Context, orderID string, status OrderStatus) (OrderStatus, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, reference, user_id, customer_name, customer_phone,
	customer_email, address, total_amount, status, checkout_key, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.Reference, &o.UserID, &o.CustomerName, &o.CustomerPhone,
		&o.CustomerEmail, &o.Address, &o.TotalAmount, &o.Status,
		&o.CheckoutKey, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrderTx commits the order row, its line items, and the conditional
// stock decrements as one transaction. Either everything lands or nothing
// does; an order can never exist without its items.
func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_id", o.ID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Insert order
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			id, reference, user_id, customer_name, customer_phone,
			customer_email, address, total_amount, status, checkout_key
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at
	`,
		o.ID, o.Reference, o.UserID, o.CustomerName, o.CustomerPhone,
		o.CustomerEmail, o.Address, o.TotalAmount, o.Status, o.CheckoutKey,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	// 2. Insert line items + conditionally deduct stock
	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, product_name, price, quantity, color
			) VALUES ($1,$2,$3,$4,$5,$6)
		`,
			item.OrderID, item.ProductID, item.ProductName,
			item.Price, item.Quantity, item.Color,
		)
		if err != nil {
			log.Error("failed to insert order item",
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1
			WHERE id = $2 AND stock >= $1
		`, item.Quantity, item.ProductID)
		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			// snapshot lied; abort the whole checkout
			return &StockConflictError{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info("order committed",
		zap.String("reference", o.Reference),
		zap.Int("items", len(o.Items)),
	)

	return nil
}

// GetByCheckoutKey powers the idempotency check: nil, nil means the key has
// never been used.
func (r *repository) GetByCheckoutKey(ctx context.Context, key string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE checkout_key = $1`, key,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) GetOrderDetail(ctx context.Context, orderID string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, []*Order{o}); err != nil {
		return nil, err
	}

	return o, nil
}

func (r *repository) GetOrdersByEmail(ctx context.Context, email string) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE customer_email = $1
		 ORDER BY created_at DESC`, email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectWithItems(ctx, rows)
}

func (r *repository) GetOrders(ctx context.Context, opts ListOptions) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetOrders"),
	)

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	where := []string{"1=1"}
	args := []any{}

	if opts.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *opts.Status)
	}

	query := `SELECT ` + orderColumns + ` FROM orders
	WHERE ` + strings.Join(where, " AND ") + `
	ORDER BY created_at DESC
	LIMIT $` + fmt.Sprint(len(args)+1) + `
	OFFSET $` + fmt.Sprint(len(args)+2)

	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return r.collectWithItems(ctx, rows)
}

func (r *repository) collectWithItems(ctx context.Context, rows *sql.Rows) ([]*Order, error) {
	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachItems batch-loads line items for a page of orders.
func (r *repository) attachItems(ctx context.Context, orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orders))
	byID := make(map[string]*Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, product_name, price, quantity, color
		FROM order_items
		WHERE order_id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.OrderID, &item.ProductID, &item.ProductName,
			&item.Price, &item.Quantity, &item.Color,
		); err != nil {
			return err
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	return rows.Err()
}

// UpdateStatusTx moves an order to a new status and, when the transition is
// into cancelled, restores the stock its items had consumed — all in one
// transaction. Returns the previous status.
func (r *repository) UpdateStatusTx(ctx context.Context, orderID string, status OrderStatus) (OrderStatus, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateStatusTx"),
		zap.String("order_id", orderID),
		zap.String("status", string(status)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var prev OrderStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID,
	).Scan(&prev)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, orderID)
	if err != nil {
		return "", err
	}

	if prev != StatusCancelled && status == StatusCancelled {
		_, err = tx.ExecContext(ctx, `
			UPDATE products p
			SET stock = p.stock + oi.quantity
			FROM order_items oi
			WHERE oi.order_id = $1 AND oi.product_id = p.id
		`, orderID)
		if err != nil {
			log.Error("failed to restore stock for cancelled order", zap.Error(err))
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	log.Info("order status updated", zap.String("prev_status", string(prev)))
	return prev, nil
}
