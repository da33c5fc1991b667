package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstore-catalog/internal/domains/author/model"
	"bookstore-catalog/internal/testutil"
)

func TestAuthors_BooksCountAndSuggest(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	repo := NewPostgresRepository(pool)

	tolkien := &model.Author{Name: "J.R.R. Tolkien", Slug: "jrr-tolkien"}
	christopher := &model.Author{Name: "Christopher Tolkien", Slug: "christopher-tolkien"}
	herbert := &model.Author{Name: "Frank Herbert", Slug: "frank-herbert"}
	for _, a := range []*model.Author{tolkien, christopher, herbert} {
		require.NoError(t, repo.Create(ctx, a))
	}

	var categoryID int64
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO categories (name, slug) VALUES ('Fantasy', 'fantasy') RETURNING id`,
	).Scan(&categoryID))

	_, err := pool.Exec(ctx, `
		INSERT INTO books (title, slug, price, author_id, category_id, deleted_at) VALUES
			('The Hobbit', 'the-hobbit', 10, $1, $2, NULL),
			('The Silmarillion', 'the-silmarillion', 12, $1, $2, NULL),
			('Lost Tales', 'lost-tales', 9, $1, $2, NOW())`,
		tolkien.ID, categoryID)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, tolkien.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.BooksCount, "soft-deleted books are not counted")

	list, total, err := repo.List(ctx, model.AuthorFilter{Search: "tolkien", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)

	suggestions, err := repo.Suggest(ctx, "TOLK", 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "Christopher Tolkien", suggestions[0].Name)
	assert.Equal(t, "J.R.R. Tolkien", suggestions[1].Name)

	suggestions, err = repo.Suggest(ctx, "%", 10)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestAuthors_SoftDeleteFreesSlug(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	repo := NewPostgresRepository(pool)

	first := &model.Author{Name: "Ursula K. Le Guin", Slug: "ursula-k-le-guin"}
	require.NoError(t, repo.Create(ctx, first))

	dup := &model.Author{Name: "Ursula K. Le Guin", Slug: "ursula-k-le-guin"}
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, model.ErrDuplicate)

	require.NoError(t, repo.SoftDelete(ctx, first.ID))
	assert.ErrorIs(t, repo.SoftDelete(ctx, first.ID), model.ErrAuthorNotFound)

	exists, err := repo.ExistsBySlug(ctx, "ursula-k-le-guin", nil)
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, repo.Create(ctx, dup))
}
