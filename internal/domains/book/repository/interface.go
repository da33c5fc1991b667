package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"bookstore-catalog/internal/domains/book/model"
)

// RepositoryInterface - book data access
type RepositoryInterface interface {
	Create(ctx context.Context, b *model.Book) error
	CreateWithTx(ctx context.Context, tx pgx.Tx, b *model.Book) error
	// GetByID joins the author and category names.
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	Update(ctx context.Context, b *model.Book) error
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error)

	ExistsBySlug(ctx context.Context, slug string, excludeID *int64) (bool, error)
	ExistsByTitle(ctx context.Context, title string, excludeID *int64) (bool, error)
	ExistsByISBN(ctx context.Context, isbn string, excludeID *int64) (bool, error)

	// FindByIDs returns the live books among ids; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []int64) ([]model.Book, error)
	BulkSetActive(ctx context.Context, ids []int64, active bool) (int64, error)
	BulkSetFeatured(ctx context.Context, ids []int64, featured bool) (int64, error)
	BulkSoftDelete(ctx context.Context, ids []int64) (int64, error)

	// ListAllForExport is List without pagination.
	ListAllForExport(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	// ListMediaPaths returns every cover/preview path referenced by a live book.
	ListMediaPaths(ctx context.Context) ([]string, error)
}
