package model

import "errors"

var (
	ErrAuthorNotFound = errors.New("author not found")
	ErrDuplicate      = errors.New("author already exists")
)

// SaveError wraps a failed write so handlers can answer with the
// "Failed to create author. ..." message.
type SaveError struct {
	Action string
	Err    error
}

func (e *SaveError) Error() string {
	return "Failed to " + e.Action + " author. " + e.Err.Error()
}

func (e *SaveError) Unwrap() error { return e.Err }
