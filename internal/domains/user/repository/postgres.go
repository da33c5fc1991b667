package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-catalog/internal/domains/user"
	"bookstore-catalog/pkg/database"
)

// postgresRepository - concrete user.Repository
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

const userColumns = `
	id, login_identifier, password_hash, name, email, phone, address,
	birth_date, gender, role, profile_completed, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.LoginIdentifier, &u.PasswordHash, &u.Name, &u.Email, &u.Phone, &u.Address,
		&u.BirthDate, &u.Gender, &u.Role, &u.ProfileCompleted, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (login_identifier, password_hash, name, email, phone, role, profile_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		u.LoginIdentifier, u.PasswordHash, u.Name, u.Email, u.Phone, u.Role, u.ProfileCompleted,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", user.ErrDuplicate, err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return u, err
}

func (r *postgresRepository) FindByLoginIdentifier(ctx context.Context, identifier string) (*user.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(login_identifier) = LOWER($1)`, identifier))
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("find user by login: %w", err)
	}
	return u, err
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users SET
			name = $2, email = $3, phone = $4, address = $5, birth_date = $6,
			gender = $7, profile_completed = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		u.ID, u.Name, u.Email, u.Phone, u.Address, u.BirthDate, u.Gender, u.ProfileCompleted,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.ErrUserNotFound
		}
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", user.ErrDuplicate, err)
		}
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return nil
}

func (r *postgresRepository) exists(ctx context.Context, where string, args ...any) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE `+where+`)`, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsByLoginIdentifier(ctx context.Context, identifier string) (bool, error) {
	return r.exists(ctx, `LOWER(login_identifier) = LOWER($1)`, identifier)
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string, excludeID *int64) (bool, error) {
	return r.exists(ctx, `LOWER(email) = LOWER($1) AND ($2::BIGINT IS NULL OR id <> $2)`, email, excludeID)
}

func (r *postgresRepository) ExistsByPhone(ctx context.Context, phone string, excludeID *int64) (bool, error) {
	return r.exists(ctx, `phone = $1 AND ($2::BIGINT IS NULL OR id <> $2)`, phone, excludeID)
}
