package user

import "context"

// Service is the account business logic contract.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	GetProfile(ctx context.Context, userID int64) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*UserDTO, error)
	// CreateAdmin seeds a staff account; used by cmd/migrate.
	CreateAdmin(ctx context.Context, identifier, password, name string) (*User, error)
}
