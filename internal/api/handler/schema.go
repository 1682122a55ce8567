package handler

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/atelierbois/portfolio/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=128"`
	Name     string `json:"name"     validate:"required,max=120"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user"`
}

// --- Projects ---

// tagList accepts either a comma-separated string or an array of strings
// and keeps the comma-separated form.
type tagList string

func (t *tagList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*t = tagList(strings.Join(items, ","))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = tagList(s)
	return nil
}

// updateProjectRequest is the JSON form of a text-only project update.
// Absent fields are left untouched.
type updateProjectRequest struct {
	Title        *string  `json:"title"        validate:"omitempty,max=200"`
	Description  *string  `json:"description"`
	Client       *string  `json:"client"`
	Tags         *tagList `json:"tags"`
	Year         *string  `json:"year"         validate:"omitempty,max=16"`
	Materials    *string  `json:"materials"`
	Techniques   *string  `json:"techniques"`
	Technologies *string  `json:"technologies"`
}

type projectResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Description      string     `json:"description"`
	Client           string     `json:"client"`
	ClientLogo       string     `json:"clientLogo"`
	MainImage        string     `json:"mainImage"`
	AdditionalImages []string   `json:"additionalImages"`
	Images           []string   `json:"images"`
	Tags             []string   `json:"tags"`
	Year             string     `json:"year"`
	Materials        string     `json:"materials"`
	Techniques       string     `json:"techniques"`
	Technologies     string     `json:"technologies"`
	CreatedBy        string     `json:"createdBy"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	PublishedAt      *time.Time `json:"publishedAt,omitempty"`
}

type projectDetailResponse struct {
	projectResponse
	Creator *domain.UserSummary `json:"creator"`
}

// pageResponse is the envelope of every paginated listing.
type pageResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// --- Uploads ---

type uploadResponse struct {
	Path      string `json:"path"`
	Thumbnail string `json:"thumbnail,omitempty"`
}
