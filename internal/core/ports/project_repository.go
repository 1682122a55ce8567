package ports

import (
	"context"

	"github.com/atelierbois/portfolio/internal/core/domain"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Project, error)
	// SlugExists reports whether another project than excludeID owns slug.
	// An empty excludeID checks every project.
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	// FolderInUse reports whether any project stores assets under folder.
	FolderInUse(ctx context.Context, folder string) (bool, error)
	// Update replaces the stored document with p. Last write wins.
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	// List returns a page of projects matching filter and the total count.
	List(ctx context.Context, filter domain.ProjectFilter) ([]*domain.Project, int64, error)
}
