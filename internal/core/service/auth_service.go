package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/canvord/blog-api/internal/core/domain"
	"github.com/canvord/blog-api/internal/core/ports"
)

// AuthService implements admin seeding and login.
type AuthService struct {
	repo   ports.AuthRepository
	tokens ports.TokenIssuer
	logger zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, tokens ports.TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, logger: logger}
}

var _ ports.AuthService = (*AuthService)(nil)

// EnsureAdmin creates the admin account, or resets its password when it
// already exists, so the configured credentials are always the live ones.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (*domain.Admin, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()
	admin, err := s.repo.Upsert(ctx, &domain.Admin{
		Username:     username,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", username).Msg("admin account ready")
	return admin, nil
}

// Login checks the credentials and issues a bearer token. Unknown users and
// wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Admin, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	admin, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(admin.Username, admin.Role)
	if err != nil {
		return "", nil, err
	}

	return token, admin, nil
}
