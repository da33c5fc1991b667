package service

import (
	"context"
	"fmt"
	"strings"

	"bookstore-catalog/internal/domains/category/model"
	"bookstore-catalog/internal/domains/category/repository"
	"bookstore-catalog/internal/shared/bulk"
	"bookstore-catalog/internal/shared/slug"
	"bookstore-catalog/internal/shared/validation"
	"bookstore-catalog/pkg/cache"
	"bookstore-catalog/pkg/logger"
)

// bookListCachePattern matches cached book listings, which embed category names.
const bookListCachePattern = "books:list:*"

var bulkActions = []bulk.Action{bulk.Activate, bulk.Deactivate, bulk.Delete}

type CategoryService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
}

func NewService(repo repository.RepositoryInterface, cache cache.Cache) ServiceInterface {
	return &CategoryService{repo: repo, cache: cache}
}

func (s *CategoryService) Create(ctx context.Context, in *model.CategoryInput) (*model.Category, error) {
	if err := s.validate(ctx, in, nil); err != nil {
		return nil, err
	}

	category := model.NewCategory()
	in.Apply(category)

	var err error
	category.Slug, err = slug.MakeUnique(ctx, category.Name, s.repo.ExistsBySlug, nil)
	if err != nil {
		return nil, s.saveFailed("create", category, err)
	}

	if err := category.CheckInvariants(); err != nil {
		return nil, s.saveFailed("create", category, err)
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, s.saveFailed("create", category, err)
	}

	s.invalidate(ctx)
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, in *model.CategoryInput) (*model.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validate(ctx, in, &id); err != nil {
		return nil, err
	}

	oldName := category.Name
	in.Apply(category)

	if category.Name != oldName {
		category.Slug, err = slug.MakeUnique(ctx, category.Name, s.repo.ExistsBySlug, &id)
		if err != nil {
			return nil, s.saveFailed("update", category, err)
		}
	}

	if err := category.CheckInvariants(); err != nil {
		return nil, s.saveFailed("update", category, err)
	}
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, s.saveFailed("update", category, err)
	}

	s.invalidate(ctx)
	return category, nil
}

// validate runs field rules plus the name uniqueness lookup.
func (s *CategoryService) validate(ctx context.Context, in *model.CategoryInput, excludeID *int64) error {
	in.Normalize()
	errs, err := in.Validate()
	if err != nil {
		return err
	}

	if _, bad := errs["name"]; !bad {
		taken, err := s.repo.ExistsByName(ctx, in.Name, excludeID)
		if err != nil {
			return fmt.Errorf("check category name: %w", err)
		}
		if taken {
			errs.Add("name", "has already been taken")
		}
	}

	return errs.OrNil()
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*model.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context, filter model.CategoryFilter) ([]model.Category, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

func (s *CategoryService) ListActive(ctx context.Context) ([]model.Option, error) {
	options, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if options == nil {
		options = []model.Option{}
	}
	return options, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CategoryService) BulkAction(ctx context.Context, rawAction string, ids []int64) (string, error) {
	action, err := bulk.Parse(rawAction, bulkActions...)
	if err != nil {
		return "", err
	}

	ids = bulk.UniqueIDs(ids)
	if len(ids) == 0 {
		return "", validation.Errors{"ids": "Please select at least one item."}
	}

	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return "", fmt.Errorf("resolve categories: %w", err)
	}

	matched := make([]int64, 0, len(found))
	for _, c := range found {
		matched = append(matched, c.ID)
	}

	if len(matched) > 0 {
		switch action {
		case bulk.Activate, bulk.Deactivate:
			_, err = s.repo.BulkSetActive(ctx, matched, action == bulk.Activate)
		case bulk.Delete:
			_, err = s.repo.BulkSoftDelete(ctx, matched)
		}
		if err != nil {
			logger.ErrorWithFields("Category bulk action error", err, map[string]interface{}{
				"action": string(action),
				"ids":    matched,
			})
			return "", err
		}
		s.invalidate(ctx)
	}

	return bulk.Message("categories", action), nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, bookListCachePattern); err != nil {
		logger.Warn("book list cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *CategoryService) saveFailed(action string, c *model.Category, err error) error {
	logger.ErrorWithFields("Category "+action+" error", err, map[string]interface{}{
		"category_id": c.ID,
		"name":        c.Name,
	})
	return &model.SaveError{Action: action, Err: err}
}
