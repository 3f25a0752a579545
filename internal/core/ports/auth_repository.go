package ports

import (
	"context"

	"github.com/canvord/blog-api/internal/core/domain"
)

// AuthRepository defines persistence for admin accounts.
type AuthRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Admin, error)
	// Upsert creates the admin or replaces its password hash and role.
	Upsert(ctx context.Context, admin *domain.Admin) (*domain.Admin, error)
}
