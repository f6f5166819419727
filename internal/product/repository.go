package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"speego-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetList(ctx context.Context, opts ListOptions) ([]*Product, error)
	GetByID(ctx context.Context, productID string) (*Product, error)
	GetStock(ctx context.Context, productID string) (int, error)
	Create(ctx context.Context, input NewProductInput) (*Product, error)
	Update(ctx context.Context, input UpdateProductInput) (*Product, error)
	Delete(ctx context.Context, productID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, price, stock, colors, description, image_url, gallery_paths, created_at`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	var colors, gallery pq.StringArray
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.Stock, &colors,
		&p.Description, &p.ImageURL, &gallery, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Colors = colors
	p.GalleryPaths = gallery
	return &p, nil
}

func (r *repository) GetList(ctx context.Context, opts ListOptions) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetList"),
	)

	start := time.Now()

	// ---------- pagination ----------
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	// ---------- where ----------
	where := []string{"1=1"}
	args := []any{}

	if opts.Search != nil && *opts.Search != "" {
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+*opts.Search+"%")
	}

	if opts.InStock != nil {
		if *opts.InStock {
			where = append(where, "stock > 0")
		} else {
			where = append(where, "stock = 0")
		}
	}

	query := `
	SELECT ` + productColumns + `
	FROM products
	WHERE ` + strings.Join(where, " AND ") + `
	ORDER BY created_at DESC
	LIMIT $` + fmt.Sprint(len(args)+1) + `
	OFFSET $` + fmt.Sprint(len(args)+2)

	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("query failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, err
	}
	defer rows.Close()

	result := make([]*Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	log.Debug("query success",
		zap.Int("rows", len(result)),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}

func (r *repository) GetByID(ctx context.Context, productID string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, productID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetStock reads the live stock figure, used to refill the advisory cache.
func (r *repository) GetStock(ctx context.Context, productID string) (int, error) {
	var stock int
	err := r.db.QueryRowContext(ctx,
		`SELECT stock FROM products WHERE id = $1`, productID,
	).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	return stock, err
}

func (r *repository) Create(ctx context.Context, input NewProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("name", input.Name),
	)

	query := `
	INSERT INTO products (name, price, stock, colors, description, image_url, gallery_paths)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + productColumns

	p, err := scanProduct(r.db.QueryRowContext(ctx, query,
		input.Name, input.Price, input.Stock,
		pq.Array(input.Colors), input.Description, input.ImageURL,
		pq.Array(input.GalleryPaths),
	))
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.String("product_id", p.ID))
	return p, nil
}

func (r *repository) Update(ctx context.Context, input UpdateProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Update"),
		zap.String("product_id", input.ID),
	)

	// COALESCE keeps existing values when the input leaves them nil
	query := `
	UPDATE products
	SET name = COALESCE($2, name),
		price = COALESCE($3, price),
		stock = COALESCE($4, stock),
		colors = COALESCE($5, colors),
		description = COALESCE($6, description),
		image_url = COALESCE($7, image_url),
		gallery_paths = COALESCE($8, gallery_paths)
	WHERE id = $1
	RETURNING ` + productColumns

	var colors, gallery any
	if input.Colors != nil {
		colors = pq.Array(input.Colors)
	}
	if input.GalleryPaths != nil {
		gallery = pq.Array(input.GalleryPaths)
	}

	p, err := scanProduct(r.db.QueryRowContext(ctx, query,
		input.ID, input.Name, input.Price, input.Stock,
		colors, input.Description, input.ImageURL, gallery,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		log.Error("failed to update product", zap.Error(err))
		return nil, err
	}

	return p, nil
}

func (r *repository) Delete(ctx context.Context, productID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}

	return nil
}
