package model

import (
	"time"

	"bookstore-catalog/internal/shared/utils"
)

type Author struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Bio         *string    `json:"bio,omitempty"`
	Email       *string    `json:"email,omitempty"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Nationality *string    `json:"nationality,omitempty"`
	BooksCount  int        `json:"books_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

// Suggestion is one row of the author autocomplete.
type Suggestion struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type AuthorFilter struct {
	Search string
	Page   int
}

type AuthorResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Bio         string    `json:"bio,omitempty"`
	Email       string    `json:"email,omitempty"`
	BirthDate   string    `json:"birth_date,omitempty"`
	Nationality string    `json:"nationality,omitempty"`
	BooksCount  int       `json:"books_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (a *Author) ToResponse() *AuthorResponse {
	return &AuthorResponse{
		ID:          a.ID,
		Name:        a.Name,
		Slug:        a.Slug,
		Bio:         utils.Deref(a.Bio),
		Email:       utils.Deref(a.Email),
		BirthDate:   utils.FormatDate(a.BirthDate),
		Nationality: utils.Deref(a.Nationality),
		BooksCount:  a.BooksCount,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
