package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-catalog/internal/domains/author/model"
	"bookstore-catalog/internal/shared/pagination"
	"bookstore-catalog/internal/shared/utils"
	"bookstore-catalog/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const insertAuthor = `
	INSERT INTO authors (name, slug, bio, email, birth_date, nationality)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at, updated_at`

func (r *postgresRepository) insert(ctx context.Context, q querier, a *model.Author) error {
	err := q.QueryRow(ctx, insertAuthor,
		a.Name, a.Slug, a.Bio, a.Email, a.BirthDate, a.Nationality,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", model.ErrDuplicate, err)
		}
		return fmt.Errorf("insert author: %w", err)
	}
	return nil
}

func (r *postgresRepository) Create(ctx context.Context, a *model.Author) error {
	return r.insert(ctx, r.pool, a)
}

func (r *postgresRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, a *model.Author) error {
	return r.insert(ctx, tx, a)
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	query := `
		SELECT a.id, a.name, a.slug, a.bio, a.email, a.birth_date, a.nationality,
		       (SELECT COUNT(*) FROM books b WHERE b.author_id = a.id AND b.deleted_at IS NULL),
		       a.created_at, a.updated_at
		FROM authors a
		WHERE a.id = $1 AND a.deleted_at IS NULL`

	var a model.Author
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.Slug, &a.Bio, &a.Email, &a.BirthDate, &a.Nationality,
		&a.BooksCount, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("get author %d: %w", id, err)
	}
	return &a, nil
}

func (r *postgresRepository) Update(ctx context.Context, a *model.Author) error {
	query := `
		UPDATE authors
		SET name = $2, slug = $3, bio = $4, email = $5, birth_date = $6, nationality = $7,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		a.ID, a.Name, a.Slug, a.Bio, a.Email, a.BirthDate, a.Nationality,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrAuthorNotFound
		}
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", model.ErrDuplicate, err)
		}
		return fmt.Errorf("update author %d: %w", a.ID, err)
	}
	return nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE authors SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete author %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.AuthorFilter) ([]model.Author, int, error) {
	where := utils.NewWhere("a.deleted_at IS NULL")
	if filter.Search != "" {
		where.Add("a.name ILIKE '%' || " + where.Arg(utils.EscapeLike(filter.Search)) + " || '%'")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM authors a WHERE " + where.SQL()
	if err := r.pool.QueryRow(ctx, countQuery, where.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count authors: %w", err)
	}

	args := append(where.Args(), pagination.PerPage, pagination.Offset(filter.Page))
	query := fmt.Sprintf(`
		SELECT a.id, a.name, a.slug, a.bio, a.email, a.birth_date, a.nationality,
		       (SELECT COUNT(*) FROM books b WHERE b.author_id = a.id AND b.deleted_at IS NULL),
		       a.created_at, a.updated_at
		FROM authors a
		WHERE %s
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $%d OFFSET $%d`, where.SQL(), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	authors := make([]model.Author, 0, pagination.PerPage)
	for rows.Next() {
		var a model.Author
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Slug, &a.Bio, &a.Email, &a.BirthDate, &a.Nationality,
			&a.BooksCount, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, total, rows.Err()
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM authors WHERE id = $1 AND deleted_at IS NULL)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check author %d: %w", id, err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM authors
			WHERE slug = $1 AND deleted_at IS NULL AND ($2::BIGINT IS NULL OR id <> $2)
		)`, slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check author slug: %w", err)
	}
	return exists, nil
}

// Suggest matches name case-insensitively anywhere in the string.
func (r *postgresRepository) Suggest(ctx context.Context, query string, limit int) ([]model.Suggestion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name
		FROM authors
		WHERE deleted_at IS NULL AND name ILIKE '%' || $1 || '%'
		ORDER BY name ASC, id ASC
		LIMIT $2`, utils.EscapeLike(query), limit)
	if err != nil {
		return nil, fmt.Errorf("suggest authors: %w", err)
	}
	defer rows.Close()

	out := make([]model.Suggestion, 0, limit)
	for rows.Next() {
		var s model.Suggestion
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
