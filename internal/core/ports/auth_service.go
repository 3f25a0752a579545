package ports

import (
	"context"

	"github.com/canvord/blog-api/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.Admin, error)
}

// TokenIssuer signs bearer tokens for authenticated admins.
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}
