package contact

import (
	"context"
	"strings"

	"speego-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Submit(ctx context.Context, params CreateMessageParams) (*Message, error)
	ListMessages(ctx context.Context) ([]*Message, error)
	MarkRead(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Submit stores a contact form submission. No authentication required,
// abuse is handled by the rate limiter in front of the handler.
func (s *service) Submit(ctx context.Context, params CreateMessageParams) (*Message, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Phone = strings.TrimSpace(params.Phone)
	params.Body = strings.TrimSpace(params.Body)
	if params.Email != nil {
		if trimmed := strings.TrimSpace(*params.Email); trimmed == "" {
			params.Email = nil
		} else {
			params.Email = &trimmed
		}
	}

	if params.Name == "" {
		return nil, ErrNameRequired
	}
	if params.Phone == "" {
		return nil, ErrPhoneRequired
	}
	if params.Body == "" {
		return nil, ErrMessageRequired
	}

	m, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("contact message received",
		zap.String("message_id", m.ID),
	)

	return m, nil
}

func (s *service) ListMessages(ctx context.Context) ([]*Message, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}
