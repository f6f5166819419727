package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"speego-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, email, password string) (string, User, error)
	Login(ctx context.Context, email, password string) (string, User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)

	GetProfile(ctx context.Context, userID uint) (*Profile, error)
	SaveProfile(ctx context.Context, params UpsertProfileParams) (*Profile, error)
	RequireCompleteProfile(ctx context.Context, userID uint) (*Profile, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, email, password string) (string, User, error) {
	log := logger.FromCtx(ctx)

	hashed, err := HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return "", User{}, err
	}

	u, err := s.repo.Create(ctx, email, hashed, string(RoleUser))
	if err != nil {
		log.Error("failed to create user", zap.String("email", email), zap.Error(err))
		if strings.Contains(err.Error(), "users_email_key") {
			return "", User{}, ErrEmailExists
		}
		return "", User{}, err
	}

	token, err := GenerateJWT(u.ID, string(u.Role), email)
	if err != nil {
		log.Error("failed to generate jwt", zap.String("user_id", fmt.Sprint(u.ID)), zap.Error(err))
		return "", User{}, err
	}

	log.Info("register service completed",
		zap.String("user_id", fmt.Sprint(u.ID)),
		zap.String("email", email),
	)

	return token, u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, User, error) {
	log := logger.FromCtx(ctx)

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		log.Info("login failed: email not found", zap.String("email", email))
		return "", User{}, ErrInvalidCredentials
	}

	if !CheckPasswordHash(password, u.Password) {
		log.Info("login failed: password mismatch", zap.String("email", email))
		return "", User{}, ErrInvalidCredentials
	}

	token, err := GenerateJWT(u.ID, string(u.Role), email)
	return token, u, err
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *service) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	return s.repo.GetProfile(ctx, userID)
}

func (s *service) SaveProfile(ctx context.Context, params UpsertProfileParams) (*Profile, error) {
	if params.UserID == 0 {
		return nil, ErrUserNotAuthenticated
	}

	params.FullName = strings.TrimSpace(params.FullName)
	params.Phone = strings.TrimSpace(params.Phone)
	params.Address = strings.TrimSpace(params.Address)

	if params.FullName == "" || params.Phone == "" || params.Address == "" {
		return nil, ErrProfileFields
	}

	return s.repo.UpsertProfile(ctx, params)
}

// RequireCompleteProfile is the checkout profile gate. It fails closed:
// no session yields ErrUserNotAuthenticated, a missing or partially filled
// profile yields ErrProfileIncomplete. RedirectFor maps either to a route.
func (s *service) RequireCompleteProfile(ctx context.Context, userID uint) (*Profile, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}

	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileIncomplete
		}
		return nil, err
	}

	if !p.Complete() {
		return nil, ErrProfileIncomplete
	}

	return p, nil
}
