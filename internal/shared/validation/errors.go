package validation

import (
	"errors"
	"sort"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

// Errors maps a request field to its first validation message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// Add records msg for field unless the field already carries a message.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

func (e Errors) Merge(other Errors) {
	for k, v := range other {
		e.Add(k, v)
	}
}

// OrNil returns nil for an empty set so callers can `return errs.OrNil()`.
func (e Errors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// FromOzzo converts the result of ozzo's ValidateStruct into Errors.
// Internal errors (a rule that failed to run) are returned untouched.
func FromOzzo(err error) (Errors, error) {
	if err == nil {
		return Errors{}, nil
	}

	var internal ozzo.InternalError
	if errors.As(err, &internal) {
		return nil, internal.InternalError()
	}

	var fieldErrs ozzo.Errors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}

	out := Errors{}
	for field, fe := range fieldErrs {
		if fe == nil {
			continue
		}
		out[field] = fe.Error()
	}
	return out, nil
}

// AsErrors unwraps err into Errors when it is a validation failure.
func AsErrors(err error) (Errors, bool) {
	var ve Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
