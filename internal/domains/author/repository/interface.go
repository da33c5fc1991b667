package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"bookstore-catalog/internal/domains/author/model"
)

// RepositoryInterface - author data access
type RepositoryInterface interface {
	Create(ctx context.Context, a *model.Author) error
	// CreateWithTx inserts inside a caller owned transaction (book create).
	CreateWithTx(ctx context.Context, tx pgx.Tx, a *model.Author) error
	GetByID(ctx context.Context, id int64) (*model.Author, error)
	Update(ctx context.Context, a *model.Author) error
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID *int64) (bool, error)
	Suggest(ctx context.Context, query string, limit int) ([]model.Suggestion, error)
}
