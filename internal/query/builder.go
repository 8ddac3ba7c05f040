package query

import (
	"context"

	"github.com/undefinedsco/drizzle-solid/internal/drizzleerr"
	"github.com/undefinedsco/drizzle-solid/internal/row"
	"github.com/undefinedsco/drizzle-solid/internal/schema"
)

// Executor runs an assembled Operation and returns the resulting rows.
// The Pod dialect implements it and itself dispatches between native
// and fallback execution; builders are executor-agnostic.
type Executor interface {
	Execute(ctx context.Context, op *Operation) ([]row.Row, error)
}

// SelectBuilder assembles a SELECT operation. Validation errors are
// deferred: each method records the first error it encounters and
// Execute returns it rather than panicking, since builder chains are
// typically constructed across several statements and the caller
// expects one place to check for a mistake.
type SelectBuilder struct {
	table *schema.Table
	exec  Executor
	err   error

	alias      string
	fields     []SelectField
	groupBy    []ColumnRef
	joins      []*Join
	where      Condition
	orderBy    []OrderItem
	distinct   bool
	limit      int
	offset     int
	limitSet   bool
	offsetSet  bool
}

// NewSelect starts a SELECT builder over table, executed by exec.
func NewSelect(table *schema.Table, exec Executor) *SelectBuilder {
	return &SelectBuilder{table: table, exec: exec}
}

func (b *SelectBuilder) fail(err error) *SelectBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// As sets the alias this table is referred to by in joins/conditions.
func (b *SelectBuilder) As(alias string) *SelectBuilder {
	b.alias = alias
	return b
}

// Select sets the projected fields. Each argument accepts anything
// toSelectField understands: a column, an *Aggregate, or a
// query.As(...) result.
func (b *SelectBuilder) Select(fields ...interface{}) *SelectBuilder {
	b.fields = make([]SelectField, 0, len(fields))
	for _, f := range fields {
		b.fields = append(b.fields, toSelectField(f))
	}
	return b
}

// Where sets the filter condition. v may be a Condition or a plain
// map[string]interface{} of column=value equalities.
func (b *SelectBuilder) Where(v interface{}) *SelectBuilder {
	b.where = normalizeWhere(v)
	return b
}

// Join adds an inner join against another table.
func (b *SelectBuilder) Join(table, alias string, cond Condition) *SelectBuilder {
	j, err := newJoin(table, alias, JoinInner, cond)
	if err != nil {
		return b.fail(err)
	}
	b.joins = append(b.joins, j)
	return b
}

// LeftJoin adds a left outer join against another table.
func (b *SelectBuilder) LeftJoin(table, alias string, cond Condition) *SelectBuilder {
	j, err := newJoin(table, alias, JoinLeft, cond)
	if err != nil {
		return b.fail(err)
	}
	b.joins = append(b.joins, j)
	return b
}

// GroupBy sets the group-by columns.
func (b *SelectBuilder) GroupBy(cols ...interface{}) *SelectBuilder {
	b.groupBy = make([]ColumnRef, 0, len(cols))
	for _, c := range cols {
		b.groupBy = append(b.groupBy, toColumnRef(c))
	}
	return b
}

// OrderBy appends one ORDER BY term.
func (b *SelectBuilder) OrderBy(col interface{}, dir SortDir) *SelectBuilder {
	b.orderBy = append(b.orderBy, OrderItem{Column: toColumnRef(col), Dir: dir})
	return b
}

// Distinct marks the result set as requiring duplicate-row removal.
func (b *SelectBuilder) Distinct() *SelectBuilder {
	b.distinct = true
	return b
}

// Limit caps the number of returned rows.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	b.limitSet = true
	return b
}

// Offset skips the first n rows of the (ordered) result.
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	b.offset = n
	b.offsetSet = true
	return b
}

// Execute validates the accumulated builder state and runs it through
// the bound Executor.
func (b *SelectBuilder) Execute(ctx context.Context) ([]row.Row, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.table == nil {
		return nil, drizzleerr.NewProgrammerError("select: no table bound")
	}
	if b.limitSet && b.limit < 0 {
		return nil, drizzleerr.NewProgrammerError("select: negative limit %d", b.limit)
	}
	if b.offsetSet && b.offset < 0 {
		return nil, drizzleerr.NewProgrammerError("select: negative offset %d", b.offset)
	}
	if len(collectAggregates(b.fields)) > 0 && len(b.groupBy) == 0 {
		for _, f := range b.fields {
			if f.Aggregate == nil {
				// mixing bare columns with aggregates outside a group-by
				// is ambiguous: there is no implicit single-row collapse.
				return nil, drizzleerr.NewProgrammerError("select: column %q mixed with aggregates without a group-by", f.OutputName())
			}
		}
	}

	fields := b.fields
	if len(fields) == 0 {
		fields = defaultFields(b.table)
	}

	op := &Operation{
		Type:     OpSelect,
		Table:    b.table.Name,
		Alias:    b.alias,
		Fields:   fields,
		GroupBy:  b.groupBy,
		Joins:    b.joins,
		Where:    b.where,
		OrderBy:  b.orderBy,
		Distinct: b.distinct,
		Limit:    b.limit,
		Offset:   b.offset,
	}
	op.Aggregates = collectAggregates(fields)
	return b.exec.Execute(ctx, op)
}

func collectAggregates(fields []SelectField) []*Aggregate {
	var out []*Aggregate
	for _, f := range fields {
		if f.Aggregate != nil {
			out = append(out, f.Aggregate)
		}
	}
	return out
}

// defaultFields implements the unqualified select() default: every
// declared column except the synthetic "id" pseudo-column, which is
// always derivable from the row's subject URI rather than stored.
func defaultFields(t *schema.Table) []SelectField {
	cols := t.Columns()
	fields := make([]SelectField, 0, len(cols))
	for _, c := range cols {
		if c.Name == "id" {
			continue
		}
		fields = append(fields, fieldFromColumn(c))
	}
	return fields
}

// InsertBuilder assembles an INSERT operation for one or more rows.
type InsertBuilder struct {
	table  *schema.Table
	exec   Executor
	err    error
	values []map[string]interface{}
}

// NewInsert starts an INSERT builder over table.
func NewInsert(table *schema.Table, exec Executor) *InsertBuilder {
	return &InsertBuilder{table: table, exec: exec}
}

// Values appends one or more rows to insert.
func (b *InsertBuilder) Values(rows ...map[string]interface{}) *InsertBuilder {
	b.values = append(b.values, rows...)
	return b
}

// Execute validates the accumulated rows against required columns and
// runs the insert through the bound Executor.
func (b *InsertBuilder) Execute(ctx context.Context) ([]row.Row, error) {
	if b.table == nil {
		return nil, drizzleerr.NewProgrammerError("insert: no table bound")
	}
	if len(b.values) == 0 {
		return nil, drizzleerr.NewProgrammerError("insert: no values supplied")
	}
	for _, v := range b.values {
		for _, c := range b.table.Columns() {
			if c.Required {
				if _, ok := v[c.Name]; !ok {
					if c.DefaultValue != nil {
						continue
					}
					return nil, drizzleerr.NewProgrammerError("insert: missing required column %q", c.Name)
				}
			}
		}
	}
	op := &Operation{Type: OpInsert, Table: b.table.Name, Values: b.values}
	return b.exec.Execute(ctx, op)
}

// UpdateBuilder assembles an UPDATE operation.
type UpdateBuilder struct {
	table *schema.Table
	exec  Executor
	err   error
	set   map[string]interface{}
	where Condition
}

// NewUpdate starts an UPDATE builder over table.
func NewUpdate(table *schema.Table, exec Executor) *UpdateBuilder {
	return &UpdateBuilder{table: table, exec: exec}
}

// Set sets the column=value assignments to apply.
func (b *UpdateBuilder) Set(values map[string]interface{}) *UpdateBuilder {
	b.set = values
	return b
}

// Where sets the filter selecting which rows to update. v may be a
// Condition or a plain map[string]interface{} of equalities.
func (b *UpdateBuilder) Where(v interface{}) *UpdateBuilder {
	b.where = normalizeWhere(v)
	return b
}

// Execute validates the accumulated builder state and runs the update
// through the bound Executor.
func (b *UpdateBuilder) Execute(ctx context.Context) ([]row.Row, error) {
	if b.table == nil {
		return nil, drizzleerr.NewProgrammerError("update: no table bound")
	}
	if len(b.set) == 0 {
		return nil, drizzleerr.NewProgrammerError("update: no values to set")
	}
	if pk := b.table.PrimaryKey(); pk != nil {
		if _, ok := b.set[pk.Name]; ok {
			return nil, drizzleerr.NewProgrammerError("update: primary key %q cannot be modified", pk.Name)
		}
	}
	op := &Operation{Type: OpUpdate, Table: b.table.Name, Values: []map[string]interface{}{b.set}, Where: b.where}
	return b.exec.Execute(ctx, op)
}

// DeleteBuilder assembles a DELETE operation.
type DeleteBuilder struct {
	table *schema.Table
	exec  Executor
	where Condition
}

// NewDelete starts a DELETE builder over table.
func NewDelete(table *schema.Table, exec Executor) *DeleteBuilder {
	return &DeleteBuilder{table: table, exec: exec}
}

// Where sets the filter selecting which rows to delete. v may be a
// Condition or a plain map[string]interface{} of equalities. An unset
// Where deletes every row in the table, matching spec §4.2's
// unconditional-delete semantics.
func (b *DeleteBuilder) Where(v interface{}) *DeleteBuilder {
	b.where = normalizeWhere(v)
	return b
}

// Execute runs the delete through the bound Executor.
func (b *DeleteBuilder) Execute(ctx context.Context) ([]row.Row, error) {
	if b.table == nil {
		return nil, drizzleerr.NewProgrammerError("delete: no table bound")
	}
	op := &Operation{Type: OpDelete, Table: b.table.Name, Where: b.where}
	return b.exec.Execute(ctx, op)
}

// SplitByAlias partitions a condition tree's leaf conditions by which
// join alias they reference, so the fallback planner can apply
// per-table post-filters (spec §4.4.6: conditions qualified by a
// secondary alias are evaluated after that table's rows are joined
// in, not pushed into its own per-table SELECT). Conditions with no
// alias (referring to the primary/base table) are keyed under "".
//
// Only top-level AND conjuncts are split; an OR or NOT at the top is
// kept whole under "" since it may mix aliases and cannot be safely
// decomposed per-table.
func SplitByAlias(cond Condition) map[string][]Condition {
	out := map[string][]Condition{}
	if cond == nil {
		return out
	}
	var conjuncts []Condition
	if lc, ok := cond.(*LogicalCondition); ok && lc.Op == OpAnd {
		conjuncts = lc.Children
	} else {
		conjuncts = []Condition{cond}
	}
	for _, c := range conjuncts {
		alias := conditionAlias(c)
		out[alias] = append(out[alias], c)
	}
	return out
}

func conditionAlias(c Condition) string {
	switch v := c.(type) {
	case *BinaryCondition:
		return v.Column.Alias
	case *UnaryCondition:
		if v.Child != nil {
			return ""
		}
		return v.Column.Alias
	default:
		return ""
	}
}
