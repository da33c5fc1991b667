package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authorModel "bookstore-catalog/internal/domains/author/model"
	authorRepo "bookstore-catalog/internal/domains/author/repository"
	categoryModel "bookstore-catalog/internal/domains/category/model"
	categoryRepo "bookstore-catalog/internal/domains/category/repository"
	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/testutil"
)

type fixture struct {
	repo     RepositoryInterface
	tolkien  int64
	herbert  int64
	fantasy  int64
	classics int64
}

func setup(t *testing.T) *fixture {
	t.Helper()
	pool := testutil.NewTestPool(t)
	ctx := context.Background()

	authors := authorRepo.NewPostgresRepository(pool)
	categories := categoryRepo.NewPostgresRepository(pool)

	tolkien := &authorModel.Author{Name: "J.R.R. Tolkien", Slug: "jrr-tolkien"}
	herbert := &authorModel.Author{Name: "Frank Herbert", Slug: "frank-herbert"}
	require.NoError(t, authors.Create(ctx, tolkien))
	require.NoError(t, authors.Create(ctx, herbert))

	fantasy := &categoryModel.Category{Name: "Fantasy", Slug: "fantasy", IsActive: true}
	classics := &categoryModel.Category{Name: "Classics", Slug: "classics", IsActive: true}
	require.NoError(t, categories.Create(ctx, fantasy))
	require.NoError(t, categories.Create(ctx, classics))

	return &fixture{
		repo:     NewPostgresRepository(pool),
		tolkien:  tolkien.ID,
		herbert:  herbert.ID,
		fantasy:  fantasy.ID,
		classics: classics.ID,
	}
}

func (f *fixture) book(t *testing.T, title, slug string, authorID, categoryID int64, active bool) *model.Book {
	t.Helper()
	b := model.NewBook()
	b.Title = title
	b.Slug = slug
	b.Price = decimal.RequireFromString("10.00")
	b.AuthorID = authorID
	b.CategoryID = categoryID
	b.IsActive = active
	require.NoError(t, f.repo.Create(context.Background(), b))
	return b
}

func titles(books []model.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestList_Filters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.book(t, "The Hobbit", "the-hobbit", f.tolkien, f.fantasy, true)
	f.book(t, "The Silmarillion", "the-silmarillion", f.tolkien, f.fantasy, false)
	f.book(t, "Dune", "dune", f.herbert, f.classics, true)

	books, total, err := f.repo.List(ctx, model.BookFilter{Status: "active", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.ElementsMatch(t, []string{"The Hobbit", "Dune"}, titles(books))

	books, total, err = f.repo.List(ctx, model.BookFilter{Search: "Tolkien", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.ElementsMatch(t, []string{"The Hobbit", "The Silmarillion"}, titles(books))
	assert.Equal(t, "J.R.R. Tolkien", books[0].AuthorName)

	books, _, err = f.repo.List(ctx, model.BookFilter{Search: "classics", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune"}, titles(books))

	books, _, err = f.repo.List(ctx, model.BookFilter{Search: "100%", Page: 1})
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestList_OrdersNewestFirst(t *testing.T) {
	f := setup(t)

	f.book(t, "First", "first", f.tolkien, f.fantasy, true)
	f.book(t, "Second", "second", f.tolkien, f.fantasy, true)

	books, _, err := f.repo.List(context.Background(), model.BookFilter{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Second", "First"}, titles(books))
}

func TestSoftDelete_HidesAndFreesSlug(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	b := f.book(t, "Dune", "dune", f.herbert, f.classics, true)
	require.NoError(t, f.repo.SoftDelete(ctx, b.ID))

	_, err := f.repo.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, model.ErrBookNotFound)

	taken, err := f.repo.ExistsBySlug(ctx, "dune", nil)
	require.NoError(t, err)
	assert.False(t, taken)

	assert.ErrorIs(t, f.repo.SoftDelete(ctx, b.ID), model.ErrBookNotFound)
}

func TestDuplicateSlugIsErrDuplicate(t *testing.T) {
	f := setup(t)

	f.book(t, "Dune", "dune", f.herbert, f.classics, true)

	b := model.NewBook()
	b.Title = "Dune (reprint)"
	b.Slug = "dune"
	b.Price = decimal.NewFromInt(5)
	b.AuthorID = f.herbert
	b.CategoryID = f.classics
	err := f.repo.Create(context.Background(), b)
	assert.ErrorIs(t, err, model.ErrDuplicate)
}

func TestBulkAndMediaPaths(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := f.book(t, "A", "a", f.tolkien, f.fantasy, true)
	b := f.book(t, "B", "b", f.tolkien, f.fantasy, true)

	cover := "books/covers/a.png"
	a.CoverImage = &cover
	require.NoError(t, f.repo.Update(ctx, a))

	found, err := f.repo.FindByIDs(ctx, []int64{a.ID, 999})
	require.NoError(t, err)
	require.Len(t, found, 1)

	n, err := f.repo.BulkSetFeatured(ctx, []int64{a.ID, b.ID}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	paths, err := f.repo.ListMediaPaths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{cover}, paths)

	n, err = f.repo.BulkSoftDelete(ctx, []int64{a.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	paths, err = f.repo.ListMediaPaths(ctx)
	require.NoError(t, err)
	assert.Empty(t, paths)
}
