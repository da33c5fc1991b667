package model

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrDuplicate        = errors.New("category already exists")
)

// ErrInvariant is a broken pre-persist invariant.
type ErrInvariant string

func (e ErrInvariant) Error() string { return "category invariant violated: " + string(e) }

// SaveError wraps a failed write: "Failed to create category. <cause>".
type SaveError struct {
	Action string
	Err    error
}

func (e *SaveError) Error() string {
	return "Failed to " + e.Action + " category. " + e.Err.Error()
}

func (e *SaveError) Unwrap() error { return e.Err }
