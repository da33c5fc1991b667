package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// JoinWithOr joins a slice of strings with OR operator
func JoinWithOr(clauses []string) string {
	return strings.Join(clauses, " OR ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike neutralises LIKE wildcards in a user supplied search term.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// WhereBuilder collects conditions and their positional arguments.
type WhereBuilder struct {
	conds []string
	args  []any
}

func NewWhere(base ...string) *WhereBuilder {
	return &WhereBuilder{conds: append([]string{}, base...)}
}

// Arg appends v to the argument list and returns its placeholder ($n).
func (w *WhereBuilder) Arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *WhereBuilder) Add(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *WhereBuilder) Args() []any {
	return w.args
}

// SQL renders the conditions joined by AND, or "TRUE" when there are none.
func (w *WhereBuilder) SQL() string {
	if len(w.conds) == 0 {
		return "TRUE"
	}
	return JoinWithAnd(w.conds)
}
