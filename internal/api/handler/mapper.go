package handler

import (
	"github.com/atelierbois/portfolio/internal/core/domain"
	"github.com/atelierbois/portfolio/internal/core/ports"
)

// --- Request → Service input ---

func (r updateProjectRequest) toPatch() ports.ProjectPatch {
	patch := ports.ProjectPatch{
		Title:        r.Title,
		Description:  r.Description,
		Client:       r.Client,
		Year:         r.Year,
		Materials:    r.Materials,
		Techniques:   r.Techniques,
		Technologies: r.Technologies,
	}
	if r.Tags != nil {
		tags := string(*r.Tags)
		patch.Tags = &tags
	}
	return patch
}

// --- Service result → HTTP response ---

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:               p.ID,
		Title:            p.Title,
		Slug:             p.Slug,
		Description:      p.Description,
		Client:           p.Client,
		ClientLogo:       p.ClientLogo,
		MainImage:        p.MainImage(),
		AdditionalImages: p.AdditionalImages(),
		Images:           nonNil(p.Images),
		Tags:             nonNil(p.Tags),
		Year:             p.Year,
		Materials:        p.Materials,
		Techniques:       p.Techniques,
		Technologies:     p.Technologies,
		CreatedBy:        p.CreatedBy,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		PublishedAt:      p.PublishedAt,
	}
}

func toProjectDetailResponse(d *ports.ProjectDetail) projectDetailResponse {
	return projectDetailResponse{
		projectResponse: toProjectResponse(d.Project),
		Creator:         d.Creator,
	}
}

func toPageResponse[T, R any](page *ports.Page[T], conv func(T) R) pageResponse[R] {
	items := make([]R, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, conv(it))
	}
	return pageResponse[R]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
