package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-catalog/internal/domains/category/model"
	"bookstore-catalog/internal/shared/bulk"
	"bookstore-catalog/internal/shared/validation"
	"bookstore-catalog/internal/testutil"
)

// memRepo is a small in-memory category store.
type memRepo struct {
	rows       map[int64]*model.Category
	nextID     int64
	bulkCalled bool
	CreateFn   func(ctx context.Context, c *model.Category) error
}

func newMemRepo(seed ...model.Category) *memRepo {
	r := &memRepo{rows: map[int64]*model.Category{}, nextID: 1}
	for i := range seed {
		c := seed[i]
		r.rows[c.ID] = &c
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
	}
	return r
}

func (r *memRepo) Create(ctx context.Context, c *model.Category) error {
	if r.CreateFn != nil {
		return r.CreateFn(ctx, c)
	}
	c.ID = r.nextID
	r.nextID++
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*model.Category, error) {
	c, ok := r.rows[id]
	if !ok {
		return nil, model.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, c *model.Category) error {
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *memRepo) SoftDelete(_ context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return model.ErrCategoryNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memRepo) List(context.Context, model.CategoryFilter) ([]model.Category, int, error) {
	return nil, 0, nil
}

func (r *memRepo) ListActive(context.Context) ([]model.Option, error) { return nil, nil }

func (r *memRepo) ExistsBySlug(_ context.Context, slug string, excludeID *int64) (bool, error) {
	for id, c := range r.rows {
		if c.Slug == slug && (excludeID == nil || *excludeID != id) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) ExistsByName(_ context.Context, name string, excludeID *int64) (bool, error) {
	for id, c := range r.rows {
		if c.Name == name && (excludeID == nil || *excludeID != id) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) ExistsByID(_ context.Context, id int64) (bool, error) {
	_, ok := r.rows[id]
	return ok, nil
}

func (r *memRepo) FindByIDs(_ context.Context, ids []int64) ([]model.Category, error) {
	var out []model.Category
	for _, id := range ids {
		if c, ok := r.rows[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memRepo) BulkSetActive(_ context.Context, ids []int64, active bool) (int64, error) {
	r.bulkCalled = true
	for _, id := range ids {
		r.rows[id].IsActive = active
	}
	return int64(len(ids)), nil
}

func (r *memRepo) BulkSoftDelete(_ context.Context, ids []int64) (int64, error) {
	r.bulkCalled = true
	for _, id := range ids {
		delete(r.rows, id)
	}
	return int64(len(ids)), nil
}

func TestCreate_SlugAndDefaults(t *testing.T) {
	repo := newMemRepo(model.Category{ID: 1, Name: "Science Fiction", Slug: "science-fiction"})
	svc := NewService(repo, testutil.NewCache())

	c, err := svc.Create(context.Background(), &model.CategoryInput{Name: "Science-Fiction"})
	require.NoError(t, err)
	assert.Equal(t, "science-fiction-1", c.Slug)
	assert.True(t, c.IsActive)
}

func TestCreate_DuplicateName(t *testing.T) {
	repo := newMemRepo(model.Category{ID: 1, Name: "Fantasy", Slug: "fantasy"})
	svc := NewService(repo, testutil.NewCache())

	_, err := svc.Create(context.Background(), &model.CategoryInput{Name: " Fantasy ", IsActive: "maybe"})

	errs, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "has already been taken", errs["name"])
	assert.Equal(t, "must be true or false", errs["is_active"])
}

func TestCreate_SaveError(t *testing.T) {
	repo := newMemRepo()
	repo.CreateFn = func(context.Context, *model.Category) error {
		return errors.New("category already exists: duplicate key")
	}
	svc := NewService(repo, testutil.NewCache())

	_, err := svc.Create(context.Background(), &model.CategoryInput{Name: "Poetry"})

	var saveErr *model.SaveError
	require.ErrorAs(t, err, &saveErr)
	assert.Equal(t, "create", saveErr.Action)
}

func TestUpdate_KeepsSlugWhenNameUnchanged(t *testing.T) {
	repo := newMemRepo(
		model.Category{ID: 1, Name: "History", Slug: "history-1", IsActive: true},
		model.Category{ID: 2, Name: "Old History", Slug: "history"},
	)
	svc := NewService(repo, testutil.NewCache())

	c, err := svc.Update(context.Background(), 1, &model.CategoryInput{Name: "History", IsActive: "0"})
	require.NoError(t, err)
	assert.Equal(t, "history-1", c.Slug)
	assert.False(t, c.IsActive)
}

func TestUpdate_OwnNameIsNotADuplicate(t *testing.T) {
	repo := newMemRepo(model.Category{ID: 1, Name: "History", Slug: "history"})
	svc := NewService(repo, testutil.NewCache())

	_, err := svc.Update(context.Background(), 1, &model.CategoryInput{Name: "History", Description: "Past"})
	assert.NoError(t, err)
}

func TestBulkAction(t *testing.T) {
	t.Run("unknown action touches nothing", func(t *testing.T) {
		repo := newMemRepo(model.Category{ID: 1, Name: "A", Slug: "a"})
		svc := NewService(repo, testutil.NewCache())

		_, err := svc.BulkAction(context.Background(), "feature", []int64{1})
		assert.ErrorIs(t, err, bulk.ErrUnknownAction)
		assert.False(t, repo.bulkCalled)
	})

	t.Run("empty selection", func(t *testing.T) {
		svc := NewService(newMemRepo(), testutil.NewCache())

		_, err := svc.BulkAction(context.Background(), "delete", nil)
		errs, ok := validation.AsErrors(err)
		require.True(t, ok)
		assert.Equal(t, "Please select at least one item.", errs["ids"])
	})

	t.Run("deactivate skips missing ids", func(t *testing.T) {
		repo := newMemRepo(model.Category{ID: 1, Name: "A", Slug: "a", IsActive: true})
		svc := NewService(repo, testutil.NewCache())

		msg, err := svc.BulkAction(context.Background(), "deactivate", []int64{1, 42})
		require.NoError(t, err)
		assert.Equal(t, "Selected categories deactivated.", msg)
		assert.False(t, repo.rows[1].IsActive)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newMemRepo(model.Category{ID: 1, Name: "A", Slug: "a"}, model.Category{ID: 2, Name: "B", Slug: "b"})
		c := testutil.NewCache()
		svc := NewService(repo, c)

		msg, err := svc.BulkAction(context.Background(), "delete", []int64{2})
		require.NoError(t, err)
		assert.Equal(t, "Selected categories deleted.", msg)
		assert.Len(t, repo.rows, 1)
		assert.Contains(t, c.Deleted, "books:list:*")
	})
}
