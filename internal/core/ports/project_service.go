package ports

import (
	"context"

	"github.com/atelierbois/portfolio/internal/core/domain"
)

// ProjectFields carries the text fields of a project on create.
type ProjectFields struct {
	Title        string
	Description  string
	Client       string
	Tags         string
	Year         string
	Materials    string
	Techniques   string
	Technologies string
}

// CreateProjectInput carries a new project with its uploads.
type CreateProjectInput struct {
	Fields           ProjectFields
	MainImage        *Upload
	ClientLogo       *Upload
	AdditionalImages []Upload
	CreatedBy        string
}

// ProjectPatch is an optional-field update: nil fields are left untouched.
type ProjectPatch struct {
	Title        *string
	Description  *string
	Client       *string
	Tags         *string
	Year         *string
	Materials    *string
	Techniques   *string
	Technologies *string
}

// ProjectFileChanges describes the file operations of an update. Removal
// flags apply before a replacement upload of the same slot.
type ProjectFileChanges struct {
	RemoveMainImage  bool
	RemoveClientLogo bool
	// RemoveAdditional holds indices into the additional-images view
	// (Images without the main image), in original order.
	RemoveAdditional []int
	MainImage        *Upload
	ClientLogo       *Upload
	AdditionalImages []Upload
}

// Empty reports whether no file operation was requested.
func (c *ProjectFileChanges) Empty() bool {
	return c == nil || (!c.RemoveMainImage && !c.RemoveClientLogo && len(c.RemoveAdditional) == 0 &&
		c.MainImage == nil && c.ClientLogo == nil && len(c.AdditionalImages) == 0)
}

// ProjectDetail is a project with its creator resolved.
type ProjectDetail struct {
	Project *domain.Project
	Creator *domain.UserSummary
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ProjectService defines use-case operations for projects.
type ProjectService interface {
	Create(ctx context.Context, in CreateProjectInput) (*domain.Project, error)
	Update(ctx context.Context, id string, patch ProjectPatch, files *ProjectFileChanges) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*ProjectDetail, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Project, error)
	List(ctx context.Context, filter domain.ProjectFilter) (*Page[*domain.Project], error)
}
