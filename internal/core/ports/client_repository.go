package ports

import (
	"context"

	"github.com/atelierbois/portfolio/internal/core/domain"
)

// ClientRepository defines persistence operations for clients.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	// NameExists reports whether a client other than excludeID already
	// uses nameKey (see domain.ClientNameKey).
	NameExists(ctx context.Context, nameKey, excludeID string) (bool, error)
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter domain.ClientFilter) ([]*domain.Client, int64, error)
}
