package ports

import (
	"context"

	"github.com/atelierbois/portfolio/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Emails are passed already normalized.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateRole(ctx context.Context, id, role string) error
}
