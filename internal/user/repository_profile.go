package user

import (
	"context"
	"database/sql"
	"errors"

	"speego-be/internal/logger"

	"go.uber.org/zap"
)

// GetProfile fetches a user's profile by user ID.
func (r *repository) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetProfile"),
		zap.Uint("user_id", userID),
	)

	query := `
		SELECT user_id, full_name, phone, address, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	row := r.db.QueryRowContext(ctx, query, userID)

	var p Profile
	err := row.Scan(
		&p.UserID, &p.FullName, &p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("profile not found")
			return nil, ErrProfileNotFound
		}
		log.Error("failed to scan profile", zap.Error(err))
		return nil, err
	}

	return &p, nil
}

// UpsertProfile creates or replaces a user's profile in one statement.
func (r *repository) UpsertProfile(ctx context.Context, params UpsertProfileParams) (*Profile, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpsertProfile"),
		zap.Uint("user_id", params.UserID),
	)

	query := `
		INSERT INTO profiles (user_id, full_name, phone, address)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			updated_at = NOW()
		RETURNING user_id, full_name, phone, address, created_at, updated_at
	`

	var p Profile
	err := r.db.QueryRowContext(ctx, query,
		params.UserID, params.FullName, params.Phone, params.Address,
	).Scan(
		&p.UserID, &p.FullName, &p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to upsert profile", zap.Error(err))
		return nil, err
	}

	log.Info("profile saved")
	return &p, nil
}
