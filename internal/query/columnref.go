package query

import (
	"strings"

	"github.com/undefinedsco/drizzle-solid/internal/schema"
)

// ColumnRef identifies a column, optionally qualified by a join alias
// ("alias.column"). Builders accept either a *schema.Column or a dotted
// alias-qualified string wherever a ColumnRef is expected; toColumnRef
// resolves either form.
type ColumnRef struct {
	Alias string // join alias; empty means "the primary table" or unqualified
	Name  string
	Col   *schema.Column // resolved column, set when a *schema.Column was passed directly
}

// IsID reports whether this reference names the reserved "id" pseudo-column.
func (r ColumnRef) IsID() bool { return r.Name == "id" }

// Qualified reports whether the reference carries a join alias.
func (r ColumnRef) Qualified() bool { return r.Alias != "" }

// String renders "alias.column" or "column".
func (r ColumnRef) String() string {
	if r.Alias != "" {
		return r.Alias + "." + r.Name
	}
	return r.Name
}

// toColumnRef resolves the column argument accepted throughout the
// builder API. Accepted forms: *schema.Column, schema.Column, or a
// string ("column" or "alias.column"). Any other type is a programmer
// mistake — the kind of caller bug spec.md describes as "thrown
// synchronously from the builder" — so this panics rather than
// threading an error through every call site that merely wants to name
// a column.
func toColumnRef(v interface{}) ColumnRef {
	switch c := v.(type) {
	case ColumnRef:
		return c
	case *schema.Column:
		return ColumnRef{Name: c.Name, Col: c}
	case schema.Column:
		return ColumnRef{Name: c.Name, Col: &c}
	case string:
		if idx := strings.IndexByte(c, '.'); idx >= 0 {
			return ColumnRef{Alias: c[:idx], Name: c[idx+1:]}
		}
		return ColumnRef{Name: c}
	default:
		panic("query: invalid column reference; expected *schema.Column or a string")
	}
}
