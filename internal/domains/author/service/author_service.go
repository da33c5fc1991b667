package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"bookstore-catalog/internal/domains/author/model"
	"bookstore-catalog/internal/domains/author/repository"
	"bookstore-catalog/internal/shared/slug"
	"bookstore-catalog/pkg/cache"
	"bookstore-catalog/pkg/logger"
)

const (
	SuggestLimit    = 10
	SuggestMinRunes = 2

	suggestCachePrefix = "authors:suggest:"
	suggestCacheTTL    = 10 * time.Minute

	// Cached book listings embed author names.
	bookListCachePattern = "books:list:*"
)

type AuthorService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
	now   func() time.Time
}

func NewService(repo repository.RepositoryInterface, cache cache.Cache) ServiceInterface {
	return &AuthorService{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

func (s *AuthorService) Create(ctx context.Context, in *model.AuthorInput) (*model.Author, error) {
	in.Normalize()
	errs, err := in.Validate(s.now())
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}

	author := &model.Author{}
	in.Apply(author)

	author.Slug, err = slug.MakeUnique(ctx, author.Name, s.repo.ExistsBySlug, nil)
	if err != nil {
		return nil, s.saveFailed("create", author, err)
	}

	if err := s.repo.Create(ctx, author); err != nil {
		return nil, s.saveFailed("create", author, err)
	}

	s.InvalidateSuggestions(ctx)
	return author, nil
}

func (s *AuthorService) Update(ctx context.Context, id int64, in *model.AuthorInput) (*model.Author, error) {
	author, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Normalize()
	errs, err := in.Validate(s.now())
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}

	oldName := author.Name
	in.Apply(author)

	if author.Name != oldName {
		author.Slug, err = slug.MakeUnique(ctx, author.Name, s.repo.ExistsBySlug, &id)
		if err != nil {
			return nil, s.saveFailed("update", author, err)
		}
	}

	if err := s.repo.Update(ctx, author); err != nil {
		return nil, s.saveFailed("update", author, err)
	}

	s.InvalidateSuggestions(ctx)
	s.invalidateBookLists(ctx)
	return author, nil
}

func (s *AuthorService) Get(ctx context.Context, id int64) (*model.Author, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AuthorService) List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

func (s *AuthorService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.InvalidateSuggestions(ctx)
	s.invalidateBookLists(ctx)
	return nil
}

// Suggest never touches the repository or cache for queries shorter than
// SuggestMinRunes.
func (s *AuthorService) Suggest(ctx context.Context, query string) ([]model.Suggestion, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < SuggestMinRunes {
		return []model.Suggestion{}, nil
	}

	cacheKey := suggestCachePrefix + url.QueryEscape(strings.ToLower(query))

	var cached []model.Suggestion
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		logger.Warn("author suggestion cache read failed", map[string]interface{}{"error": err.Error()})
	}
	if found {
		return cached, nil
	}

	suggestions, err := s.repo.Suggest(ctx, query, SuggestLimit)
	if err != nil {
		return nil, fmt.Errorf("suggest authors: %w", err)
	}

	if err := s.cache.Set(ctx, cacheKey, suggestions, suggestCacheTTL); err != nil {
		logger.Warn("author suggestion cache write failed", map[string]interface{}{"error": err.Error()})
	}
	return suggestions, nil
}

func (s *AuthorService) InvalidateSuggestions(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, suggestCachePrefix+"*"); err != nil {
		logger.Warn("author suggestion cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *AuthorService) invalidateBookLists(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, bookListCachePattern); err != nil {
		logger.Warn("book list cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *AuthorService) saveFailed(action string, a *model.Author, err error) error {
	logger.ErrorWithFields("Author "+action+" error", err, map[string]interface{}{
		"author_id": a.ID,
		"name":      a.Name,
	})
	return &model.SaveError{Action: action, Err: err}
}
