package service

import "github.com/atelierbois/portfolio/internal/core/ports"

const (
	DefaultPageLimit = 12
	MaxPageLimit     = 100
	// MaxPage bounds the requested page so the skip offset stays small.
	MaxPage = 1_000_000
)

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

func newPage[T any](items []T, total int64, page, limit int) *ports.Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.Page[T]{Items: items, Total: total, Page: page, Limit: limit, TotalPages: pages}
}
