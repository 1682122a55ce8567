package ports

import (
	"context"

	"github.com/atelierbois/portfolio/internal/core/domain"
)

// ClientFields carries the text fields of a client.
type ClientFields struct {
	Name         string
	Website      string
	Description  string
	ContactEmail string
	ContactPhone string
	Address      string
}

// ClientPatch is an optional-field update plus logo operations.
type ClientPatch struct {
	Name         *string
	Website      *string
	Description  *string
	ContactEmail *string
	ContactPhone *string
	Address      *string
	RemoveLogo   bool
	Logo         *Upload
}

// ClientService defines use-case operations for clients.
type ClientService interface {
	Create(ctx context.Context, fields ClientFields, logo *Upload) (*domain.Client, error)
	Update(ctx context.Context, id string, patch ClientPatch) (*domain.Client, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, filter domain.ClientFilter) (*Page[*domain.Client], error)
}
