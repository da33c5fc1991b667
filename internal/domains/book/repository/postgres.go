package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-catalog/internal/domains/book/model"
	"bookstore-catalog/internal/shared/pagination"
	"bookstore-catalog/internal/shared/utils"
	"bookstore-catalog/pkg/database"
)

// postgresRepository - raw SQL with pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const bookColumns = `
	b.id, b.title, b.slug, b.description, b.price, b.stock_quantity, b.isbn,
	b.page_count, b.publication_date, b.language, b.discount_percentage,
	b.author_id, COALESCE(a.name, ''), b.category_id, COALESCE(c.name, ''),
	b.is_featured, b.is_active, b.cover_image, b.preview_pdf,
	b.created_at, b.updated_at`

const bookJoins = `
	FROM books b
	LEFT JOIN authors a ON a.id = b.author_id
	LEFT JOIN categories c ON c.id = b.category_id`

func scanBook(row pgx.Row, b *model.Book) error {
	return row.Scan(
		&b.ID, &b.Title, &b.Slug, &b.Description, &b.Price, &b.StockQuantity, &b.ISBN,
		&b.PageCount, &b.PublicationDate, &b.Language, &b.DiscountPercentage,
		&b.AuthorID, &b.AuthorName, &b.CategoryID, &b.CategoryName,
		&b.IsFeatured, &b.IsActive, &b.CoverImage, &b.PreviewPDF,
		&b.CreatedAt, &b.UpdatedAt,
	)
}

func collectBooks(rows pgx.Rows) ([]model.Book, error) {
	defer rows.Close()

	books := make([]model.Book, 0, pagination.PerPage)
	for rows.Next() {
		var b model.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const insertBook = `
	INSERT INTO books (
		title, slug, description, price, stock_quantity, isbn, page_count,
		publication_date, language, discount_percentage, author_id, category_id,
		is_featured, is_active, cover_image, preview_pdf
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	RETURNING id, created_at, updated_at`

func (r *postgresRepository) insert(ctx context.Context, q querier, b *model.Book) error {
	err := q.QueryRow(ctx, insertBook,
		b.Title, b.Slug, b.Description, b.Price, b.StockQuantity, b.ISBN, b.PageCount,
		b.PublicationDate, b.Language, b.DiscountPercentage, b.AuthorID, b.CategoryID,
		b.IsFeatured, b.IsActive, b.CoverImage, b.PreviewPDF,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", model.ErrDuplicate, err)
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *postgresRepository) Create(ctx context.Context, b *model.Book) error {
	return r.insert(ctx, r.pool, b)
}

func (r *postgresRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, b *model.Book) error {
	return r.insert(ctx, tx, b)
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	query := `SELECT ` + bookColumns + bookJoins + ` WHERE b.id = $1 AND b.deleted_at IS NULL`

	var b model.Book
	if err := scanBook(r.pool.QueryRow(ctx, query, id), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return &b, nil
}

func (r *postgresRepository) Update(ctx context.Context, b *model.Book) error {
	query := `
		UPDATE books SET
			title = $2, slug = $3, description = $4, price = $5, stock_quantity = $6,
			isbn = $7, page_count = $8, publication_date = $9, language = $10,
			discount_percentage = $11, author_id = $12, category_id = $13,
			is_featured = $14, is_active = $15, cover_image = $16, preview_pdf = $17,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		b.ID, b.Title, b.Slug, b.Description, b.Price, b.StockQuantity,
		b.ISBN, b.PageCount, b.PublicationDate, b.Language,
		b.DiscountPercentage, b.AuthorID, b.CategoryID,
		b.IsFeatured, b.IsActive, b.CoverImage, b.PreviewPDF,
	).Scan(&b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrBookNotFound
		}
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", model.ErrDuplicate, err)
		}
		return fmt.Errorf("update book %d: %w", b.ID, err)
	}
	return nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

// buildWhere translates the listing filters. Filters are additive.
func buildWhere(filter model.BookFilter) *utils.WhereBuilder {
	where := utils.NewWhere("b.deleted_at IS NULL")

	if filter.Search != "" {
		p := where.Arg(utils.EscapeLike(filter.Search))
		like := "ILIKE '%' || " + p + " || '%'"
		where.Add("(" + utils.JoinWithOr([]string{
			"b.title " + like,
			"b.isbn " + like,
			"a.name " + like,
			"c.name " + like,
		}) + ")")
	}
	if active := filter.IsActive(); active != nil {
		where.Add("b.is_active = " + where.Arg(*active))
	}
	if featured := filter.IsFeatured(); featured != nil {
		where.Add("b.is_featured = " + where.Arg(*featured))
	}
	return where
}

func (r *postgresRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	where := buildWhere(filter)

	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*)"+bookJoins+" WHERE "+where.SQL(), where.Args()...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	args := append(where.Args(), pagination.PerPage, pagination.Offset(filter.Page))
	query := fmt.Sprintf(`SELECT %s %s WHERE %s
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $%d OFFSET $%d`, bookColumns, bookJoins, where.SQL(), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	books, err := collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *postgresRepository) ListAllForExport(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	where := buildWhere(filter)
	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY b.created_at DESC, b.id DESC`,
		bookColumns, bookJoins, where.SQL())

	rows, err := r.pool.Query(ctx, query, where.Args()...)
	if err != nil {
		return nil, fmt.Errorf("export books: %w", err)
	}
	return collectBooks(rows)
}

func (r *postgresRepository) exists(ctx context.Context, column, value string, excludeID *int64) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS(
			SELECT 1 FROM books
			WHERE %s = $1 AND deleted_at IS NULL AND ($2::BIGINT IS NULL OR id <> $2)
		)`, column)

	var exists bool
	if err := r.pool.QueryRow(ctx, query, value, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check book %s: %w", column, err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *int64) (bool, error) {
	return r.exists(ctx, "slug", slug, excludeID)
}

func (r *postgresRepository) ExistsByTitle(ctx context.Context, title string, excludeID *int64) (bool, error) {
	return r.exists(ctx, "title", title, excludeID)
}

func (r *postgresRepository) ExistsByISBN(ctx context.Context, isbn string, excludeID *int64) (bool, error) {
	return r.exists(ctx, "isbn", isbn, excludeID)
}

func (r *postgresRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + bookJoins + ` WHERE b.id = ANY($1) AND b.deleted_at IS NULL`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	return collectBooks(rows)
}

func (r *postgresRepository) bulkSet(ctx context.Context, column string, ids []int64, value bool) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE books SET %s = $2, updated_at = NOW()
		WHERE id = ANY($1) AND deleted_at IS NULL`, column)

	tag, err := r.pool.Exec(ctx, query, ids, value)
	if err != nil {
		return 0, fmt.Errorf("bulk set %s: %w", column, err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepository) BulkSetActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	return r.bulkSet(ctx, "is_active", ids, active)
}

func (r *postgresRepository) BulkSetFeatured(ctx context.Context, ids []int64, featured bool) (int64, error) {
	return r.bulkSet(ctx, "is_featured", ids, featured)
}

func (r *postgresRepository) BulkSoftDelete(ctx context.Context, ids []int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE books SET deleted_at = NOW()
		WHERE id = ANY($1) AND deleted_at IS NULL`, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete books: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepository) ListMediaPaths(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT cover_image FROM books WHERE deleted_at IS NULL AND cover_image IS NOT NULL
		UNION
		SELECT preview_pdf FROM books WHERE deleted_at IS NULL AND preview_pdf IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("list media paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
