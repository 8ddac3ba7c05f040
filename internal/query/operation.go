package query

// OpType identifies the kind of statement an Operation represents.
type OpType string

const (
	OpSelect OpType = "select"
	OpInsert OpType = "insert"
	OpUpdate OpType = "update"
	OpDelete OpType = "delete"
)

// SortDir is the direction of one OrderItem.
type SortDir string

const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

// OrderItem is one entry of an ORDER BY clause.
type OrderItem struct {
	Column ColumnRef
	Dir    SortDir
}

// Operation is the fully-assembled intermediate representation
// produced by a builder's Execute call (insert compilation writes any
// minted id back into Values). The Pod dialect
// (native path) and the fallback planner both consume this same
// struct; dispatch between them is decided from its shape (joins,
// GroupBy, or Aggregates present means the native path can't satisfy
// it alone).
type Operation struct {
	Type OpType

	Table string
	Alias string

	Fields     []SelectField
	Aggregates []*Aggregate
	GroupBy    []ColumnRef

	Joins []*Join
	Where Condition

	OrderBy  []OrderItem
	Distinct bool
	Limit    int
	Offset   int

	// Insert/update payloads, one row per entry for insert (bulk
	// insert), exactly one for update.
	Values []map[string]interface{}

	// ReturnFields names columns for an insert/update/delete to report
	// back. The Pod dialect does not read it: insert and update result
	// rows carry the subject plus every written value, delete rows the
	// subject only.
	ReturnFields []string
}

// HasAggregation reports whether this operation requires relational
// reduction (aggregates or an explicit group-by) beyond a plain
// per-row projection.
func (o *Operation) HasAggregation() bool {
	return len(o.Aggregates) > 0 || len(o.GroupBy) > 0
}

// RequiresFallback reports whether the native single-resource SPARQL
// path cannot satisfy this operation alone (spec §4.4.6): joins,
// aggregation, or a group-by all require the client-side planner.
func (o *Operation) RequiresFallback() bool {
	return len(o.Joins) > 0 || o.HasAggregation()
}
