package domain

import (
	"strings"
	"time"
)

// Client is a referenced customer or partner shown on the site.
type Client struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	NameKey      string    `json:"-"`
	Logo         string    `json:"logo,omitempty"`
	Website      string    `json:"website"`
	Description  string    `json:"description"`
	ContactEmail string    `json:"contactEmail"`
	ContactPhone string    `json:"contactPhone"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ClientNameKey is the case-insensitive uniqueness key of a client name.
func ClientNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ClientFilter carries the list query for clients.
type ClientFilter struct {
	Search string
	Page   int
	Limit  int
}
