package service

import (
	"context"

	"bookstore-catalog/internal/domains/author/model"
)

// ServiceInterface - author business logic
type ServiceInterface interface {
	Create(ctx context.Context, in *model.AuthorInput) (*model.Author, error)
	Update(ctx context.Context, id int64, in *model.AuthorInput) (*model.Author, error)
	Get(ctx context.Context, id int64) (*model.Author, error)
	List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int, error)
	Delete(ctx context.Context, id int64) error
	// Suggest returns up to SuggestLimit authors whose name contains query.
	Suggest(ctx context.Context, query string) ([]model.Suggestion, error)
	// InvalidateSuggestions drops cached suggestions after authors change
	// outside this service (authors created from the book form).
	InvalidateSuggestions(ctx context.Context)
}
