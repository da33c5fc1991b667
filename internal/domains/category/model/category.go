package model

import (
	"strings"
	"time"

	"bookstore-catalog/internal/shared/utils"
)

type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description *string
	IsActive    bool
	BooksCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// CheckInvariants is called right before every insert or update.
func (c *Category) CheckInvariants() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvariant("name must not be empty")
	}
	if c.Slug == "" {
		return ErrInvariant("slug must not be empty")
	}
	return nil
}

// CategoryFilter - admin listing filters
type CategoryFilter struct {
	Search string
	// Status: "active" | "inactive"; anything else means no filter.
	Status string
	Page   int
}

// IsActive maps Status to a column value, nil when unfiltered.
func (f CategoryFilter) IsActive() *bool {
	switch strings.ToLower(f.Status) {
	case "active":
		v := true
		return &v
	case "inactive":
		v := false
		return &v
	}
	return nil
}

// Option is the compact form used by the book form's category select.
type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	BooksCount  int       `json:"books_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Category) ToResponse() *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: utils.Deref(c.Description),
		IsActive:    c.IsActive,
		BooksCount:  c.BooksCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
