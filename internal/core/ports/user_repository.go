package ports

import (
	"context"

	"github.com/recordkeep/records-system/internal/core/domain"
)

// UserRepository defines the interface for user credential persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
