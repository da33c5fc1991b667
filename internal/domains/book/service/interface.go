package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	authorModel "bookstore-catalog/internal/domains/author/model"
	"bookstore-catalog/internal/domains/book/model"
)

// ServiceInterface - book business logic
type ServiceInterface interface {
	Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error)
	Update(ctx context.Context, id int64, req *model.UpdateBookRequest) (*model.Book, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.Book, error)
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error)
	// BulkAction applies one action to the selection and returns the
	// confirmation message ("Selected books deleted.").
	BulkAction(ctx context.Context, action string, ids []int64) (string, error)
	// Export renders the filtered listing as an XLSX workbook.
	Export(ctx context.Context, filter model.BookFilter) ([]byte, error)
	SuggestAuthors(ctx context.Context, query string) ([]authorModel.Suggestion, error)
	MediaURL(path string) string
}

// AuthorStore is the slice of the author repository used when a book
// form creates a new author.
type AuthorStore interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, a *authorModel.Author) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID *int64) (bool, error)
}

// AuthorSuggester serves the author autocomplete on the book form.
type AuthorSuggester interface {
	Suggest(ctx context.Context, query string) ([]authorModel.Suggestion, error)
	InvalidateSuggestions(ctx context.Context)
}

type CategoryLookup interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}
