// Package query renders typed predicate trees into parameterized SQL.
//
// List endpoints build a conjunction of field predicates (equality,
// membership, range) plus an optional keyset bound, and stores render the
// tree against their own column names. Predicates are ANDed; membership
// tests OR their values.
package query

import (
	"strconv"
	"strings"
)

// Predicate is one node in the filter conjunction.
type Predicate interface {
	render(b *builder)
}

// Eq matches rows where Field equals Value.
type Eq struct {
	Field string
	Value any
}

// In matches rows where Field equals any of Values.
type In struct {
	Field  string
	Values []string
}

// GtEq matches rows where Field >= Value.
type GtEq struct {
	Field string
	Value any
}

// Lt matches rows where Field < Value.
type Lt struct {
	Field string
	Value any
}

// PrefixMatch matches rows where Field starts with Value (case-insensitive).
type PrefixMatch struct {
	Field string
	Value string
}

// AnyPrefix matches rows where at least one of Fields starts with Value
// (case-insensitive). All fields compare against a single bound argument.
type AnyPrefix struct {
	Fields []string
	Value  string
}

// KeysetBefore bounds a descending traversal strictly below the cursor
// position: (SortField, IDField) < (Sort, ID) row-wise. The strict
// comparison guarantees the boundary record is never repeated.
type KeysetBefore struct {
	SortField string
	IDField   string
	Sort      any
	ID        any
}

type builder struct {
	conds []string
	args  []any
	start int
}

// arg registers a query argument and returns its placeholder.
func (b *builder) arg(v any) string {
	b.args = append(b.args, v)

	return "$" + strconv.Itoa(b.start+len(b.args)-1)
}

func (e Eq) render(b *builder) {
	b.conds = append(b.conds, e.Field+" = "+b.arg(e.Value))
}

func (i In) render(b *builder) {
	if len(i.Values) == 0 {
		return
	}
	if len(i.Values) == 1 {
		b.conds = append(b.conds, i.Field+" = "+b.arg(i.Values[0]))

		return
	}
	b.conds = append(b.conds, i.Field+" = ANY("+b.arg(i.Values)+")")
}

func (g GtEq) render(b *builder) {
	b.conds = append(b.conds, g.Field+" >= "+b.arg(g.Value))
}

func (l Lt) render(b *builder) {
	b.conds = append(b.conds, l.Field+" < "+b.arg(l.Value))
}

func (p PrefixMatch) render(b *builder) {
	b.conds = append(b.conds, p.Field+" ILIKE "+b.arg(escapeLike(p.Value)+"%"))
}

func (p AnyPrefix) render(b *builder) {
	if len(p.Fields) == 0 {
		return
	}

	ph := b.arg(escapeLike(p.Value) + "%")
	parts := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		parts[i] = f + " ILIKE " + ph
	}
	b.conds = append(b.conds, "("+strings.Join(parts, " OR ")+")")
}

func (k KeysetBefore) render(b *builder) {
	b.conds = append(b.conds, "("+k.SortField+", "+k.IDField+") < ("+b.arg(k.Sort)+", "+b.arg(k.ID)+")")
}

// escapeLike neutralizes LIKE metacharacters in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

	return r.Replace(s)
}

// Where renders the conjunction of preds into an "AND ..." SQL fragment and
// its arguments. Placeholders start at $start so callers can prepend their
// own bound parameters (the workspace scope is always $1..$start-1).
// An empty tree renders to an empty fragment: no filter, no constraint.
func Where(start int, preds ...Predicate) (string, []any) {
	b := &builder{start: start}
	for _, p := range preds {
		p.render(b)
	}

	if len(b.conds) == 0 {
		return "", nil
	}

	return " AND " + strings.Join(b.conds, " AND "), b.args
}
