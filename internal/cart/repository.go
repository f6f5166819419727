package cart

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"speego-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetOrCreateActiveCart(ctx context.Context, userID uint) (string, error)
	GetItems(ctx context.Context, cartID string) ([]*CartItem, error)
	FindItem(ctx context.Context, cartID, productID string, color, imagePath *string) (*CartItem, error)
	CreateItem(ctx context.Context, params CreateItemParams) (*CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID string) error
	ClearItems(ctx context.Context, cartID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// GetOrCreateActiveCart returns the user's single active cart row, creating
// one on first use. The partial unique index on (user_id) WHERE status =
// 'active' makes the upsert race-safe across tabs and devices.
func (r *repository) GetOrCreateActiveCart(ctx context.Context, userID uint) (string, error) {
	var cartID string

	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM carts
		WHERE user_id = $1 AND status = 'active'
		LIMIT 1
	`, userID).Scan(&cartID)

	if err == nil {
		return cartID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO carts (user_id, status)
		VALUES ($1, 'active')
		ON CONFLICT (user_id) WHERE status = 'active'
		DO UPDATE SET status = 'active'
		RETURNING id
	`, userID).Scan(&cartID)

	return cartID, err
}

func (r *repository) GetItems(ctx context.Context, cartID string) ([]*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetItems"),
		zap.String("cart_id", cartID),
	)

	start := time.Now()

	query := `
	SELECT
		ci.id,
		ci.cart_id,
		ci.product_id,
		p.name,
		COALESCE(ci.price_snapshot, p.price),
		ci.quantity,
		ci.color,
		ci.image_path,
		p.stock,
		ci.created_at,
		ci.updated_at
	FROM cart_items ci
	JOIN products p ON ci.product_id = p.id
	WHERE ci.cart_id = $1
	ORDER BY ci.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		log.Error("query failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}
	defer rows.Close()

	var items []*CartItem
	for rows.Next() {
		var item CartItem
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.ProductName,
			&item.PriceSnapshot,
			&item.Quantity,
			&item.Color,
			&item.ImagePath,
			&item.Stock,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Debug("query success",
		zap.Int("rows", len(items)),
		zap.Duration("duration", time.Since(start)),
	)

	return items, nil
}

// FindItem locates a line by its merge identity: product + color + image.
func (r *repository) FindItem(
	ctx context.Context,
	cartID, productID string,
	color, imagePath *string,
) (*CartItem, error) {

	query := `
	SELECT id, cart_id, product_id, quantity, price_snapshot, created_at, updated_at
	FROM cart_items
	WHERE cart_id = $1
	  AND product_id = $2
	  AND color IS NOT DISTINCT FROM $3
	  AND image_path IS NOT DISTINCT FROM $4
	`

	var item CartItem
	err := r.db.QueryRowContext(ctx, query, cartID, productID, color, imagePath).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.PriceSnapshot,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	item.Color = color
	item.ImagePath = imagePath
	return &item, nil
}

func (r *repository) CreateItem(ctx context.Context, params CreateItemParams) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateItem"),
		zap.String("cart_id", params.CartID),
		zap.String("product_id", params.ProductID),
	)

	query := `
	INSERT INTO cart_items (cart_id, product_id, quantity, color, image_path, price_snapshot)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, cart_id, product_id, quantity, price_snapshot, created_at, updated_at
	`

	var item CartItem
	err := r.db.QueryRowContext(ctx, query,
		params.CartID,
		params.ProductID,
		params.Quantity,
		params.Color,
		params.ImagePath,
		params.PriceSnapshot,
	).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.Quantity,
		&item.PriceSnapshot,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create cart item", zap.Error(err))
		return nil, err
	}

	log.Info("cart item created", zap.String("cart_item_id", item.ID))

	item.Color = params.Color
	item.ImagePath = params.ImagePath
	return &item, nil
}

func (r *repository) UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_items
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2 AND cart_id = $3
	`, quantity, itemID, cartID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *repository) RemoveItem(ctx context.Context, cartID, itemID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE id = $1 AND cart_id = $2
	`, itemID, cartID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *repository) ClearItems(ctx context.Context, cartID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = $1
	`, cartID)
	return err
}
