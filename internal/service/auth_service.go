package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/restaurant-site/internal/auth"
	"github.com/spec-kit/restaurant-site/internal/config"
	"github.com/spec-kit/restaurant-site/internal/domain"
	"github.com/spec-kit/restaurant-site/internal/repository"
	apperrors "github.com/spec-kit/restaurant-site/pkg/util/errorutil"
)

// AuthService coordinates admin login and logout.
type AuthService struct {
	admins      repository.AdminRepository
	revocations auth.Revocations
	tokenMgr    *auth.TokenManager
	bcryptCost  int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	AdminRepo   repository.AdminRepository
	Revocations auth.Revocations
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		admins:      deps.AdminRepo,
		revocations: deps.Revocations,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// EnsureAdmin creates the admin account or resets its password.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (*domain.Admin, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("admin email and password required", nil)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	admin := &domain.Admin{Email: email, PasswordHash: hash}
	if err := s.admins.Upsert(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Login authenticates an admin and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.AccessToken, error) {
	admin, err := s.admins.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.AccessToken{}, apperrors.NewUnauthorized("invalid email or password")
		}
		return "", domain.AccessToken{}, err
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return "", domain.AccessToken{}, apperrors.NewUnauthorized("invalid email or password")
	}
	return s.tokenMgr.GenerateToken(admin)
}

// Logout revokes the token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token *domain.AccessToken) error {
	if s.revocations == nil || token == nil {
		return nil
	}
	return s.revocations.Revoke(ctx, token.ID, token.ExpiresAt)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
