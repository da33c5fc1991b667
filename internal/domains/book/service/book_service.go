package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	authorModel "bookstore-catalog/internal/domains/author/model"
	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/domains/book/repository"
	"bookstore-catalog/internal/infrastructure/queue"
	"bookstore-catalog/internal/infrastructure/storage"
	"bookstore-catalog/internal/shared/bulk"
	"bookstore-catalog/internal/shared/slug"
	"bookstore-catalog/internal/shared/utils"
	"bookstore-catalog/internal/shared/validation"
	"bookstore-catalog/pkg/cache"
	"bookstore-catalog/pkg/database"
	"bookstore-catalog/pkg/logger"
)

const (
	listCachePrefix = "books:list:"
	listCacheTTL    = 5 * time.Minute
)

var bulkActions = []bulk.Action{bulk.Activate, bulk.Deactivate, bulk.Feature, bulk.Unfeature, bulk.Delete}

// BookService - implements ServiceInterface
type BookService struct {
	repo       repository.RepositoryInterface
	authors    AuthorStore
	suggester  AuthorSuggester
	categories CategoryLookup
	tx         database.Transactor
	media      *storage.MediaStore
	uploads    *storage.UploadValidator
	queue      queue.Client
	cache      cache.Cache
}

// NewService - constructor with DI
func NewService(
	repo repository.RepositoryInterface,
	authors AuthorStore,
	suggester AuthorSuggester,
	categories CategoryLookup,
	tx database.Transactor,
	media *storage.MediaStore,
	uploads *storage.UploadValidator,
	queueClient queue.Client,
	cache cache.Cache,
) ServiceInterface {
	return &BookService{
		repo:       repo,
		authors:    authors,
		suggester:  suggester,
		categories: categories,
		tx:         tx,
		media:      media,
		uploads:    uploads,
		queue:      queueClient,
		cache:      cache,
	}
}

// Create validates the form, optionally creates the author, assigns a unique
// slug, stores media and inserts the book in one transaction.
func (s *BookService) Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
	req.Normalize()
	errs, err := req.Validate()
	if err != nil {
		return nil, err
	}

	cover, preview := s.validateMedia(req.CoverImage, req.PreviewPDF, errs)
	if err := s.checkReferences(ctx, &req.BookInput, req.NewAuthorName, nil, errs); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}

	book := model.NewBook()
	req.Apply(book)

	var stored []string
	err = s.tx.WithTransaction(ctx, func(tx pgx.Tx) error {
		if req.NewAuthorName != "" {
			author, err := s.createAuthor(ctx, tx, req.NewAuthorName)
			if err != nil {
				return err
			}
			book.AuthorID = author.ID
			book.AuthorName = author.Name
		}

		var err error
		book.Slug, err = slug.MakeUnique(ctx, book.Title, s.repo.ExistsBySlug, nil)
		if err != nil {
			return err
		}

		if cover != nil {
			p, err := s.media.Store(ctx, cover, storage.BucketCovers)
			if err != nil {
				return fmt.Errorf("store cover image: %w", err)
			}
			stored = append(stored, p)
			book.CoverImage = &p
		}
		if preview != nil {
			p, err := s.media.Store(ctx, preview, storage.BucketPreviews)
			if err != nil {
				return fmt.Errorf("store preview pdf: %w", err)
			}
			stored = append(stored, p)
			book.PreviewPDF = &p
		}

		if err := book.CheckInvariants(); err != nil {
			return err
		}
		return s.repo.CreateWithTx(ctx, tx, book)
	})
	if err != nil {
		for _, p := range stored {
			s.releaseMedia(ctx, p)
		}
		logger.ErrorWithFields("Book creation error", err, map[string]interface{}{
			"title":           book.Title,
			"new_author_name": req.NewAuthorName,
		})
		return nil, &model.SaveError{Action: "create", Err: err}
	}

	if req.NewAuthorName != "" {
		s.suggester.InvalidateSuggestions(ctx)
	}
	s.invalidateList(ctx)

	if fresh, err := s.repo.GetByID(ctx, book.ID); err == nil {
		return fresh, nil
	}
	return book, nil
}

func (s *BookService) createAuthor(ctx context.Context, tx pgx.Tx, name string) (*authorModel.Author, error) {
	author := &authorModel.Author{Name: name}

	var err error
	author.Slug, err = slug.MakeUnique(ctx, name, s.authors.ExistsBySlug, nil)
	if err != nil {
		return nil, err
	}
	if err := s.authors.CreateWithTx(ctx, tx, author); err != nil {
		return nil, fmt.Errorf("create author %q: %w", name, err)
	}
	return author, nil
}

// Update recomputes the slug only when the title changes. Replaced or
// removed media is deleted after the row is saved.
func (s *BookService) Update(ctx context.Context, id int64, req *model.UpdateBookRequest) (*model.Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Normalize()
	errs, err := req.Validate()
	if err != nil {
		return nil, err
	}

	cover, preview := s.validateMedia(req.CoverImage, req.PreviewPDF, errs)
	if err := s.checkReferences(ctx, &req.BookInput, "", &id, errs); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}

	oldTitle := book.Title
	oldCover := utils.Deref(book.CoverImage)
	oldPreview := utils.Deref(book.PreviewPDF)

	req.Apply(book)

	var stored []string
	fail := func(err error) (*model.Book, error) {
		for _, p := range stored {
			s.releaseMedia(ctx, p)
		}
		logger.ErrorWithFields("Book update error", err, map[string]interface{}{
			"book_id": id,
			"title":   book.Title,
		})
		return nil, &model.SaveError{Action: "update", Err: err}
	}

	if book.Title != oldTitle {
		book.Slug, err = slug.MakeUnique(ctx, book.Title, s.repo.ExistsBySlug, &id)
		if err != nil {
			return fail(err)
		}
	}

	switch {
	case cover != nil:
		p, err := s.media.Store(ctx, cover, storage.BucketCovers)
		if err != nil {
			return fail(fmt.Errorf("store cover image: %w", err))
		}
		stored = append(stored, p)
		book.CoverImage = &p
	case validation.BoolOr(req.RemoveCoverImage, false):
		book.CoverImage = nil
	}

	switch {
	case preview != nil:
		p, err := s.media.Store(ctx, preview, storage.BucketPreviews)
		if err != nil {
			return fail(fmt.Errorf("store preview pdf: %w", err))
		}
		stored = append(stored, p)
		book.PreviewPDF = &p
	case validation.BoolOr(req.RemovePreviewPDF, false):
		book.PreviewPDF = nil
	}

	if err := book.CheckInvariants(); err != nil {
		return fail(err)
	}
	if err := s.repo.Update(ctx, book); err != nil {
		return fail(err)
	}

	if oldCover != "" && oldCover != utils.Deref(book.CoverImage) {
		s.releaseMedia(ctx, oldCover)
	}
	if oldPreview != "" && oldPreview != utils.Deref(book.PreviewPDF) {
		s.releaseMedia(ctx, oldPreview)
	}

	s.invalidateList(ctx)

	if fresh, err := s.repo.GetByID(ctx, id); err == nil {
		return fresh, nil
	}
	return book, nil
}

// Delete soft-deletes the book, then removes its cover and preview.
func (s *BookService) Delete(ctx context.Context, id int64) error {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		logger.ErrorWithFields("Book delete error", err, map[string]interface{}{"book_id": id})
		return err
	}

	for _, p := range book.MediaPaths() {
		s.releaseMedia(ctx, p)
	}

	s.invalidateList(ctx)
	return nil
}

func (s *BookService) Get(ctx context.Context, id int64) (*model.Book, error) {
	return s.repo.GetByID(ctx, id)
}

// List serves one page of books, cached per filter set.
func (s *BookService) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	cacheKey := listCacheKey(filter)

	var cached model.ListResult
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		logger.Warn("book list cache read failed", map[string]interface{}{"key": cacheKey, "error": err.Error()})
	}
	if found {
		return cached.Books, cached.Total, nil
	}

	books, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	if err := s.cache.Set(ctx, cacheKey, model.ListResult{Books: books, Total: total}, listCacheTTL); err != nil {
		logger.Warn("book list cache write failed", map[string]interface{}{"key": cacheKey, "error": err.Error()})
	}
	return books, total, nil
}

func listCacheKey(f model.BookFilter) string {
	q := url.Values{}
	q.Set("search", strings.ToLower(f.Search))
	q.Set("status", strings.ToLower(f.Status))
	q.Set("featured", strings.ToLower(f.Featured))
	q.Set("page", strconv.Itoa(f.Page))
	return listCachePrefix + q.Encode()
}

// BulkAction validates the action before touching any record. Unknown ids
// are skipped.
func (s *BookService) BulkAction(ctx context.Context, rawAction string, ids []int64) (string, error) {
	action, err := bulk.Parse(rawAction, bulkActions...)
	if err != nil {
		return "", err
	}

	ids = bulk.UniqueIDs(ids)
	if len(ids) == 0 {
		return "", validation.Errors{"ids": "Please select at least one item."}
	}

	books, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return "", fmt.Errorf("resolve books: %w", err)
	}
	if len(books) == 0 {
		return bulk.Message("books", action), nil
	}

	matched := make([]int64, 0, len(books))
	var media []string
	for i := range books {
		matched = append(matched, books[i].ID)
		media = append(media, books[i].MediaPaths()...)
	}

	switch action {
	case bulk.Activate, bulk.Deactivate:
		_, err = s.repo.BulkSetActive(ctx, matched, action == bulk.Activate)
	case bulk.Feature, bulk.Unfeature:
		_, err = s.repo.BulkSetFeatured(ctx, matched, action == bulk.Feature)
	case bulk.Delete:
		_, err = s.repo.BulkSoftDelete(ctx, matched)
	}
	if err != nil {
		logger.ErrorWithFields("Book bulk action error", err, map[string]interface{}{
			"action": string(action),
			"ids":    matched,
		})
		return "", err
	}

	if action == bulk.Delete {
		for _, p := range media {
			s.releaseMedia(ctx, p)
		}
	}

	s.invalidateList(ctx)
	return bulk.Message("books", action), nil
}

func (s *BookService) SuggestAuthors(ctx context.Context, query string) ([]authorModel.Suggestion, error) {
	return s.suggester.Suggest(ctx, query)
}

func (s *BookService) MediaURL(path string) string {
	return s.media.URL(path)
}

// validateMedia runs the upload policy and records failures as field errors.
func (s *BookService) validateMedia(cover, preview *storage.Upload, errs validation.Errors) (*storage.Upload, *storage.Upload) {
	var okCover, okPreview *storage.Upload
	var err error

	if cover != nil {
		if okCover, err = s.uploads.Cover(cover); err != nil {
			errs.Add("cover_image", err.Error())
		}
	}
	if preview != nil {
		if okPreview, err = s.uploads.Preview(preview); err != nil {
			errs.Add("preview_pdf", err.Error())
		}
	}
	return okCover, okPreview
}

// checkReferences adds uniqueness and foreign reference failures to errs.
// Fields that already failed static rules are not looked up.
func (s *BookService) checkReferences(ctx context.Context, in *model.BookInput, newAuthorName string, excludeID *int64, errs validation.Errors) error {
	if _, bad := errs["title"]; !bad {
		taken, err := s.repo.ExistsByTitle(ctx, in.Title, excludeID)
		if err != nil {
			return fmt.Errorf("check title: %w", err)
		}
		if taken {
			errs.Add("title", "has already been taken")
		}
	}

	if _, bad := errs["isbn"]; !bad && in.ISBN != "" {
		taken, err := s.repo.ExistsByISBN(ctx, in.ISBN, excludeID)
		if err != nil {
			return fmt.Errorf("check isbn: %w", err)
		}
		if taken {
			errs.Add("isbn", "has already been taken")
		}
	}

	if _, bad := errs["category_id"]; !bad {
		ok, err := s.categories.ExistsByID(ctx, in.ParsedCategoryID())
		if err != nil {
			return fmt.Errorf("check category: %w", err)
		}
		if !ok {
			errs.Add("category_id", "selected category is invalid")
		}
	}

	if newAuthorName != "" {
		return nil
	}
	if in.AuthorID == "" {
		errs.Add("author_id", "An author must be selected or created.")
		return nil
	}
	if _, bad := errs["author_id"]; !bad {
		ok, err := s.authors.ExistsByID(ctx, in.ParsedAuthorID())
		if err != nil {
			return fmt.Errorf("check author: %w", err)
		}
		if !ok {
			errs.Add("author_id", "selected author is invalid")
		}
	}
	return nil
}

// releaseMedia deletes a stored file. A failure never fails the caller: it
// is logged and handed to the worker for retry.
func (s *BookService) releaseMedia(ctx context.Context, path string) {
	if err := s.media.Delete(ctx, path); err != nil {
		logger.ErrorWithFields("Media delete failed, scheduling retry", err, map[string]interface{}{"path": path})
		if qerr := s.queue.EnqueueMediaDelete(ctx, path); qerr != nil {
			logger.ErrorWithFields("Failed to enqueue media delete", qerr, map[string]interface{}{"path": path})
		}
	}
}

func (s *BookService) invalidateList(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, listCachePrefix+"*"); err != nil {
		logger.Warn("book list cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}
