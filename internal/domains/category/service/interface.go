package service

import (
	"context"

	"bookstore-catalog/internal/domains/category/model"
)

type ServiceInterface interface {
	Create(ctx context.Context, in *model.CategoryInput) (*model.Category, error)
	Update(ctx context.Context, id int64, in *model.CategoryInput) (*model.Category, error)
	Get(ctx context.Context, id int64) (*model.Category, error)
	List(ctx context.Context, filter model.CategoryFilter) ([]model.Category, int, error)
	ListActive(ctx context.Context) ([]model.Option, error)
	Delete(ctx context.Context, id int64) error
	// BulkAction applies activate, deactivate or delete to ids and returns
	// the confirmation message.
	BulkAction(ctx context.Context, action string, ids []int64) (string, error)
}
