package model

import "errors"

var (
	ErrBookNotFound = errors.New("book not found")
	ErrDuplicate    = errors.New("book already exists")
)

// ErrInvariant is a broken pre-persist invariant.
type ErrInvariant string

func (e ErrInvariant) Error() string { return "book invariant violated: " + string(e) }

// SaveError is a failed create/update after validation passed: a commit
// conflict, a storage failure or a database error.
type SaveError struct {
	Action string
	Err    error
}

func (e *SaveError) Error() string {
	return "Failed to " + e.Action + " book. " + e.Err.Error()
}

func (e *SaveError) Unwrap() error { return e.Err }
