package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/leak-ticket-service/internal/auth"
	"github.com/spec-kit/leak-ticket-service/internal/config"
	"github.com/spec-kit/leak-ticket-service/internal/domain"
	"github.com/spec-kit/leak-ticket-service/internal/repository"
	apperrors "github.com/spec-kit/leak-ticket-service/pkg/util"
)

// AuthService coordinates login and account provisioning.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, accounts repository.AccountRepository) *AuthService {
	return &AuthService{
		accounts:   accounts,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Login authenticates an account by id and password. Both inputs are
// trimmed before comparison. Unknown id and wrong password produce the
// same generic error so callers cannot probe for valid account names.
func (s *AuthService) Login(ctx context.Context, id, password string) (*domain.Account, string, time.Time, error) {
	id = strings.TrimSpace(id)
	password = strings.TrimSpace(password)
	if id == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	role := domain.NormalizeRole(string(account.Role))
	token, exp, err := s.tokenMgr.GenerateToken(account.ID, role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	account.Role = role
	return account, token, exp, nil
}

// ListAccounts returns all accounts for the login picker. Callers must
// strip credentials before exposing the result.
func (s *AuthService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.List(ctx)
}

// ProvisionAccount creates a new outlet or admin account.
func (s *AuthService) ProvisionAccount(ctx context.Context, id, password, role, email string) (*domain.Account, error) {
	id = strings.TrimSpace(id)
	password = strings.TrimSpace(password)
	if id == "" || password == "" {
		return nil, apperrors.NewValidationError("id and password required", nil)
	}

	if _, err := s.accounts.GetByID(ctx, id); err == nil {
		return nil, apperrors.NewConflict("account already exists", map[string]any{"id": id})
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:           id,
		PasswordHash: hash,
		Role:         domain.NormalizeRole(role),
		Email:        strings.TrimSpace(email),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
