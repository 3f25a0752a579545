// Package auth issues and verifies the HS256 bearer tokens that guard the
// editor endpoints.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/canvord/blog-api/internal/core/domain"
)

const (
	// DefaultTokenTTL is how long an issued token stays valid.
	DefaultTokenTTL = time.Hour

	bearerPrefix = "Bearer "
)

var (
	ErrMissingSecret    = errors.New("auth: signing secret is empty")
	ErrMissingToken     = errors.New("auth: missing bearer token")
	ErrInvalidSignature = errors.New("auth: invalid token signature")
	ErrExpired          = errors.New("auth: token expired")
)

// Claims is the token payload: sub, role and exp, plus iat and jti.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates tokens with a single HMAC secret.
// It holds no mutable state and is safe for concurrent use.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customises a TokenManager.
type Option func(*TokenManager)

// WithClock replaces time.Now. Used by tests to move past expiry.
func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) { m.now = now }
}

// WithTTL overrides DefaultTokenTTL.
func WithTTL(ttl time.Duration) Option {
	return func(m *TokenManager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// NewTokenManager returns a TokenManager for secret. An empty secret is a
// configuration error and is reported here, never per request.
func NewTokenManager(secret string, opts ...Option) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	m := &TokenManager{
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue signs a token for userID carrying role, expiring after the TTL.
func (m *TokenManager) Issue(userID, role string) (string, error) {
	now := m.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Authenticate extracts the bearer token from r and verifies it.
func (m *TokenManager) Authenticate(r *http.Request) (domain.Identity, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return domain.Identity{}, ErrMissingToken
	}
	raw := strings.TrimPrefix(header, bearerPrefix)
	if raw == "" || strings.ContainsAny(raw, " \t") {
		return domain.Identity{}, ErrMissingToken
	}
	return m.Verify(raw)
}

// Verify validates a raw token string.
//
// Expiry is checked on the unverified payload first: an expired token is
// unusable whatever its signature, and is always reported as ErrExpired.
func (m *TokenManager) Verify(raw string) (domain.Identity, error) {
	now := m.now()
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)

	var peek Claims
	if _, _, err := parser.ParseUnverified(raw, &peek); err != nil {
		return domain.Identity{}, ErrInvalidSignature
	}
	if peek.ExpiresAt != nil && !now.Before(peek.ExpiresAt.Time) {
		return domain.Identity{}, ErrExpired
	}

	var claims Claims
	_, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.Identity{}, ErrExpired
	default:
		return domain.Identity{}, ErrInvalidSignature
	}

	return domain.Identity{UserID: claims.Subject, Role: claims.Role}, nil
}
