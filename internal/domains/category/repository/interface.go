package repository

import (
	"context"

	"bookstore-catalog/internal/domains/category/model"
)

// RepositoryInterface - category data access
type RepositoryInterface interface {
	Create(ctx context.Context, c *model.Category) error
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	Update(ctx context.Context, c *model.Category) error
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, filter model.CategoryFilter) ([]model.Category, int, error)
	ListActive(ctx context.Context) ([]model.Option, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID *int64) (bool, error)
	ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// FindByIDs returns the live categories among ids; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []int64) ([]model.Category, error)
	BulkSetActive(ctx context.Context, ids []int64, active bool) (int64, error)
	BulkSoftDelete(ctx context.Context, ids []int64) (int64, error)
}
