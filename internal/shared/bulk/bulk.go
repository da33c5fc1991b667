// Package bulk holds the closed set of actions that can be applied to a
// selection of catalog records at once.
package bulk

import (
	"errors"
	"fmt"
	"strings"
)

type Action string

const (
	Activate   Action = "activate"
	Deactivate Action = "deactivate"
	Feature    Action = "feature"
	Unfeature  Action = "unfeature"
	Delete     Action = "delete"
)

var ErrUnknownAction = errors.New("invalid bulk action")

var pastTense = map[Action]string{
	Activate:   "activated",
	Deactivate: "deactivated",
	Feature:    "featured",
	Unfeature:  "unfeatured",
	Delete:     "deleted",
}

// Parse resolves raw against the allowed actions for a resource.
// Anything outside allowed yields ErrUnknownAction.
func Parse(raw string, allowed ...Action) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(raw)))
	for _, candidate := range allowed {
		if a == candidate {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, raw)
}

// Message renders the flash style confirmation, e.g. "Selected books featured."
func Message(resource string, a Action) string {
	return fmt.Sprintf("Selected %s %s.", resource, pastTense[a])
}

// UniqueIDs drops non-positive and duplicate ids while keeping input order.
func UniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Request is the payload accepted by the bulk endpoints.
type Request struct {
	Action string  `json:"action" form:"action"`
	IDs    []int64 `json:"ids" form:"ids"`
}
