package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-catalog/internal/domains/category/model"
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

const categoryColumns = `
	c.id, c.name, c.slug, c.description, c.is_active,
	(SELECT COUNT(*) FROM books b WHERE b.category_id = c.id AND b.deleted_at IS NULL),
	c.created_at, c.updated_at`

func scanCategory(row pgx.Row, c *model.Category) error {
	return row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.IsActive,
		&c.BooksCount, &c.CreatedAt, &c.UpdatedAt,
	)
}

func (r *postgresRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
		INSERT INTO categories (name, slug, description, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, c.Name, c.Slug, c.Description, c.IsActive).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", model.ErrDuplicate, err)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories c WHERE c.id = $1 AND c.deleted_at IS NULL`

	var c model.Category
	if err := scanCategory(r.pool.QueryRow(ctx, query, id), &c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return &c, nil
}

func (r *postgresRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
		UPDATE categories
		SET name = $2, slug = $3, description = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, c.ID, c.Name, c.Slug, c.Description, c.IsActive).
		Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrCategoryNotFound
		}
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", model.ErrDuplicate, err)
		}
		return fmt.Errorf("update category %d: %w", c.ID, err)
	}
	return nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.CategoryFilter) ([]model.Category, int, error) {
	where := utils.NewWhere("c.deleted_at IS NULL")
	if filter.Search != "" {
		p := where.Arg(utils.EscapeLike(filter.Search))
		where.Add(fmt.Sprintf("(c.name ILIKE '%%' || %s || '%%' OR c.description ILIKE '%%' || %s || '%%')", p, p))
	}
	if active := filter.IsActive(); active != nil {
		where.Add("c.is_active = " + where.Arg(*active))
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM categories c WHERE "+where.SQL(), where.Args()...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	args := append(where.Args(), pagination.PerPage, pagination.Offset(filter.Page))
	query := fmt.Sprintf(`
		SELECT %s
		FROM categories c
		WHERE %s
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $%d OFFSET $%d`, categoryColumns, where.SQL(), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0, pagination.PerPage)
	for rows.Next() {
		var c model.Category
		if err := scanCategory(rows, &c); err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, total, rows.Err()
}

func (r *postgresRepository) ListActive(ctx context.Context) ([]model.Option, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name FROM categories
		WHERE deleted_at IS NULL AND is_active = TRUE
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list active categories: %w", err)
	}
	defer rows.Close()

	var out []model.Option
	for rows.Next() {
		var o model.Option
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *postgresRepository) exists(ctx context.Context, column, value string, excludeID *int64) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS(
			SELECT 1 FROM categories
			WHERE %s = $1 AND deleted_at IS NULL AND ($2::BIGINT IS NULL OR id <> $2)
		)`, column)

	var exists bool
	if err := r.pool.QueryRow(ctx, query, value, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check category %s: %w", column, err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *int64) (bool, error) {
	return r.exists(ctx, "slug", slug, excludeID)
}

func (r *postgresRepository) ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error) {
	return r.exists(ctx, "name", name, excludeID)
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1 AND deleted_at IS NULL)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category %d: %w", id, err)
	}
	return exists, nil
}

func (r *postgresRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories c WHERE c.id = ANY($1) AND c.deleted_at IS NULL`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := scanCategory(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *postgresRepository) BulkSetActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE categories SET is_active = $2, updated_at = NOW()
		WHERE id = ANY($1) AND deleted_at IS NULL`, ids, active)
	if err != nil {
		return 0, fmt.Errorf("bulk set category active: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepository) BulkSoftDelete(ctx context.Context, ids []int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE categories SET deleted_at = NOW()
		WHERE id = ANY($1) AND deleted_at IS NULL`, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete categories: %w", err)
	}
	return tag.RowsAffected(), nil
}
