package contact

import (
	"context"
	"database/sql"

	"speego-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, params CreateMessageParams) (*Message, error)
	GetAll(ctx context.Context) ([]*Message, error)
	MarkRead(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, params CreateMessageParams) (*Message, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
	)

	var m Message
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO contact_messages (name, phone, email, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, phone, email, message, is_read, created_at
	`, params.Name, params.Phone, params.Email, params.Body).Scan(
		&m.ID, &m.Name, &m.Phone, &m.Email, &m.Body, &m.IsRead, &m.CreatedAt,
	)
	if err != nil {
		log.Error("failed to insert contact message", zap.Error(err))
		return nil, err
	}

	return &m, nil
}

func (r *repository) GetAll(ctx context.Context) ([]*Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone, email, message, is_read, created_at
		FROM contact_messages
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Phone, &m.Email, &m.Body, &m.IsRead, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}

	return messages, rows.Err()
}

func (r *repository) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contact_messages SET is_read = TRUE WHERE id = $1`, id,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMessageNotFound
	}

	return nil
}
