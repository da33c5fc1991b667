package user

import "context"

// Repository is the users data access contract.
type Repository interface {
	Create(ctx context.Context, u *User) error
	// FindByID returns ErrUserNotFound when no row matches.
	FindByID(ctx context.Context, id int64) (*User, error)
	// FindByLoginIdentifier matches case-insensitively.
	FindByLoginIdentifier(ctx context.Context, identifier string) (*User, error)
	UpdateProfile(ctx context.Context, u *User) error

	ExistsByLoginIdentifier(ctx context.Context, identifier string) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *int64) (bool, error)
	ExistsByPhone(ctx context.Context, phone string, excludeID *int64) (bool, error)
}
