package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-catalog/internal/domains/author/model"
	"bookstore-catalog/internal/shared/validation"
	"bookstore-catalog/internal/testutil"
)

type fakeRepo struct {
	CreateFn       func(ctx context.Context, a *model.Author) error
	GetByIDFn      func(ctx context.Context, id int64) (*model.Author, error)
	UpdateFn       func(ctx context.Context, a *model.Author) error
	SoftDeleteFn   func(ctx context.Context, id int64) error
	ExistsBySlugFn func(ctx context.Context, slug string, excludeID *int64) (bool, error)
	SuggestFn      func(ctx context.Context, query string, limit int) ([]model.Suggestion, error)
	suggestCalls   int
}

func (f *fakeRepo) Create(ctx context.Context, a *model.Author) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, a)
	}
	a.ID = 1
	return nil
}

func (f *fakeRepo) CreateWithTx(ctx context.Context, _ pgx.Tx, a *model.Author) error {
	return f.Create(ctx, a)
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	if f.GetByIDFn != nil {
		return f.GetByIDFn(ctx, id)
	}
	return nil, model.ErrAuthorNotFound
}

func (f *fakeRepo) Update(ctx context.Context, a *model.Author) error {
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, a)
	}
	return nil
}

func (f *fakeRepo) SoftDelete(ctx context.Context, id int64) error {
	if f.SoftDeleteFn != nil {
		return f.SoftDeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeRepo) List(context.Context, model.AuthorFilter) ([]model.Author, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) ExistsByID(context.Context, int64) (bool, error) { return true, nil }

func (f *fakeRepo) ExistsBySlug(ctx context.Context, slug string, excludeID *int64) (bool, error) {
	if f.ExistsBySlugFn != nil {
		return f.ExistsBySlugFn(ctx, slug, excludeID)
	}
	return false, nil
}

func (f *fakeRepo) Suggest(ctx context.Context, query string, limit int) ([]model.Suggestion, error) {
	f.suggestCalls++
	if f.SuggestFn != nil {
		return f.SuggestFn(ctx, query, limit)
	}
	return []model.Suggestion{}, nil
}

func newService(repo *fakeRepo, c *testutil.Cache) *AuthorService {
	svc := NewService(repo, c).(*AuthorService)
	svc.now = func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreate_GeneratesUniqueSlug(t *testing.T) {
	repo := &fakeRepo{
		ExistsBySlugFn: func(_ context.Context, s string, _ *int64) (bool, error) {
			return s == "frank-herbert", nil
		},
	}
	svc := newService(repo, testutil.NewCache())

	a, err := svc.Create(context.Background(), &model.AuthorInput{Name: "  Frank Herbert "})
	require.NoError(t, err)
	assert.Equal(t, "Frank Herbert", a.Name)
	assert.Equal(t, "frank-herbert-1", a.Slug)
}

func TestCreate_ValidationErrors(t *testing.T) {
	svc := newService(&fakeRepo{}, testutil.NewCache())

	_, err := svc.Create(context.Background(), &model.AuthorInput{
		Email:     "not-an-email",
		BirthDate: "2030-01-01",
	})

	errs, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "is required", errs["name"])
	assert.Equal(t, "must be a valid email address", errs["email"])
	assert.Equal(t, "must not be in the future", errs["birth_date"])
}

func TestCreate_RepoFailureIsSaveError(t *testing.T) {
	repo := &fakeRepo{
		CreateFn: func(context.Context, *model.Author) error { return errors.New("connection reset") },
	}
	svc := newService(repo, testutil.NewCache())

	_, err := svc.Create(context.Background(), &model.AuthorInput{Name: "Ursula K. Le Guin"})

	var saveErr *model.SaveError
	require.ErrorAs(t, err, &saveErr)
	assert.Equal(t, "Failed to create author. connection reset", err.Error())
}

func TestUpdate_SlugOnlyChangesWithName(t *testing.T) {
	stored := &model.Author{ID: 7, Name: "Frank Herbert", Slug: "frank-herbert"}
	repo := &fakeRepo{
		GetByIDFn: func(context.Context, int64) (*model.Author, error) {
			cp := *stored
			return &cp, nil
		},
		ExistsBySlugFn: func(_ context.Context, _ string, excludeID *int64) (bool, error) {
			require.NotNil(t, excludeID)
			assert.Equal(t, int64(7), *excludeID)
			return false, nil
		},
	}
	svc := newService(repo, testutil.NewCache())

	a, err := svc.Update(context.Background(), 7, &model.AuthorInput{Name: "Frank Herbert", Nationality: "American"})
	require.NoError(t, err)
	assert.Equal(t, "frank-herbert", a.Slug)

	a, err = svc.Update(context.Background(), 7, &model.AuthorInput{Name: "Brian Herbert"})
	require.NoError(t, err)
	assert.Equal(t, "brian-herbert", a.Slug)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newService(&fakeRepo{}, testutil.NewCache())
	_, err := svc.Update(context.Background(), 99, &model.AuthorInput{Name: "X"})
	assert.ErrorIs(t, err, model.ErrAuthorNotFound)
}

func TestSuggest_ShortQuerySkipsRepoAndCache(t *testing.T) {
	repo := &fakeRepo{}
	c := testutil.NewCache()
	c.GetErr = errors.New("cache must not be read")
	svc := newService(repo, c)

	for _, q := range []string{"", " ", "a", " é "} {
		got, err := svc.Suggest(context.Background(), q)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
	assert.Equal(t, 0, repo.suggestCalls)
}

func TestSuggest_CachesByLowercasedQuery(t *testing.T) {
	repo := &fakeRepo{
		SuggestFn: func(_ context.Context, q string, limit int) ([]model.Suggestion, error) {
			assert.Equal(t, SuggestLimit, limit)
			return []model.Suggestion{{ID: 3, Name: "J.R.R. Tolkien"}}, nil
		},
	}
	svc := newService(repo, testutil.NewCache())

	first, err := svc.Suggest(context.Background(), "Tolk")
	require.NoError(t, err)
	second, err := svc.Suggest(context.Background(), "tolk")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.suggestCalls)
}

func TestSuggest_CacheErrorFallsBackToRepo(t *testing.T) {
	repo := &fakeRepo{
		SuggestFn: func(context.Context, string, int) ([]model.Suggestion, error) {
			return []model.Suggestion{{ID: 1, Name: "Tolkien"}}, nil
		},
	}
	c := testutil.NewCache()
	c.GetErr = errors.New("redis down")
	svc := newService(repo, c)

	got, err := svc.Suggest(context.Background(), "tol")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSuggest_RepoError(t *testing.T) {
	repo := &fakeRepo{
		SuggestFn: func(context.Context, string, int) ([]model.Suggestion, error) {
			return nil, errors.New("boom")
		},
	}
	svc := newService(repo, testutil.NewCache())

	_, err := svc.Suggest(context.Background(), "tol")
	assert.Error(t, err)
}

func TestMutationsInvalidateSuggestions(t *testing.T) {
	ctx := context.Background()
	c := testutil.NewCache()
	svc := newService(&fakeRepo{}, c)
	require.NoError(t, c.Set(ctx, "authors:suggest:tol", []model.Suggestion{}, time.Minute))
	require.NoError(t, c.Set(ctx, "books:list:page=1", []string{"The Hobbit"}, time.Minute))

	require.NoError(t, svc.Delete(ctx, 1))

	_, found := c.Items["authors:suggest:tol"]
	assert.False(t, found)
	_, found = c.Items["books:list:page=1"]
	assert.False(t, found, "book listings embed author names")
	assert.Contains(t, c.Deleted, "books:list:*")
}

func TestUpdateInvalidatesBookLists(t *testing.T) {
	ctx := context.Background()
	c := testutil.NewCache()
	repo := &fakeRepo{
		GetByIDFn: func(context.Context, int64) (*model.Author, error) {
			return &model.Author{ID: 3, Name: "Frank Herbert", Slug: "frank-herbert"}, nil
		},
	}
	svc := newService(repo, c)
	require.NoError(t, c.Set(ctx, "books:list:search=dune", []string{"Dune"}, time.Minute))
	require.NoError(t, c.Set(ctx, "authors:suggest:fra", []model.Suggestion{}, time.Minute))

	_, err := svc.Update(ctx, 3, &model.AuthorInput{Name: "Franklin Herbert"})
	require.NoError(t, err)

	assert.Empty(t, c.Items)
	assert.ElementsMatch(t, []string{"authors:suggest:*", "books:list:*"}, c.Deleted)
}
