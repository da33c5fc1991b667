package user

import "errors"

// Repository-level errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrDuplicate    = errors.New("user already exists")
)

// Service-level errors
var (
	ErrInvalidCredentials = errors.New("invalid login or password")
)
