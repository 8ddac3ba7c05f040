// Package query implements the condition/aggregate algebra (spec C2/C3)
// and the fluent select/insert/update/delete builders (C4) that
// assemble an Operation IR for the Pod dialect to execute.
//
// The condition tree uses a sealed-interface tagged union (one struct
// per variant, each with a private marker method) instead of a single
// struct with a Kind field, following the pattern in the queryir
// example pack's Query/Predicate types: it lets both the SPARQL
// translator and the fallback planner exhaustively type-switch over
// the tree without a runtime "kind" string to keep in sync.
package query

// BinaryOp is a comparison operator used in a BinaryCondition.
type BinaryOp string

const (
	OpEq    BinaryOp = "eq"
	OpNe    BinaryOp = "ne"
	OpLt    BinaryOp = "lt"
	OpLte   BinaryOp = "lte"
	OpGt    BinaryOp = "gt"
	OpGte   BinaryOp = "gte"
	OpLike  BinaryOp = "like"
	OpIn    BinaryOp = "in"
	OpNotIn BinaryOp = "notin"
)

// UnaryOp is a single-operand operator: a null test or negation.
type UnaryOp string

const (
	OpIsNull    UnaryOp = "isnull"
	OpIsNotNull UnaryOp = "isnotnull"
	OpNot       UnaryOp = "not"
)

// LogicalOp combines child conditions.
type LogicalOp string

const (
	OpAnd LogicalOp = "and"
	OpOr  LogicalOp = "or"
)

// Condition is the sealed interface implemented by BinaryCondition,
// UnaryCondition, and LogicalCondition. No other package may add a
// variant; the translator and fallback planner exhaustively switch on
// these three.
type Condition interface {
	conditionNode()
}

// BinaryCondition compares a column against a literal value or (for
// IN/NOT IN) a literal list.
type BinaryCondition struct {
	Op     BinaryOp
	Column ColumnRef
	Value  interface{}
}

func (*BinaryCondition) conditionNode() {}

// UnaryCondition is a null test (Column set, Child nil) or a negation
// (Child set, Column zero).
type UnaryCondition struct {
	Op     UnaryOp
	Column ColumnRef
	Child  Condition
}

func (*UnaryCondition) conditionNode() {}

// LogicalCondition is an AND/OR of an ordered list of child conditions.
type LogicalCondition struct {
	Op       LogicalOp
	Children []Condition
}

func (*LogicalCondition) conditionNode() {}

// Eq builds a column = value condition. col accepts *schema.Column or a
// (possibly alias-qualified) column name string.
func Eq(col interface{}, value interface{}) Condition {
	return &BinaryCondition{Op: OpEq, Column: toColumnRef(col), Value: value}
}

// Ne builds a column <> value condition.
func Ne(col interface{}, value interface{}) Condition {
	return &BinaryCondition{Op: OpNe, Column: toColumnRef(col), Value: value}
}

// Lt builds a column < value condition.
func Lt(col interface{}, value interface{}) Condition {
	return &BinaryCondition{Op: OpLt, Column: toColumnRef(col), Value: value}
}

// Lte builds a column <= value condition.
func Lte(col interface{}, value interface{}) Condition {
	return &BinaryCondition{Op: OpLte, Column: toColumnRef(col), Value: value}
}

// Gt builds a column > value condition.
func Gt(col interface{}, value interface{}) Condition {
	return &BinaryCondition{Op: OpGt, Column: toColumnRef(col), Value: value}
}

// Gte builds a column >= value condition.
func Gte(col interface{}, value interface{}) Condition {
	return &BinaryCondition{Op: OpGte, Column: toColumnRef(col), Value: value}
}

// Like builds a LIKE condition. pattern uses SQL-style wildcards: "%"
// matches any run of characters, "_" matches exactly one.
func Like(col interface{}, pattern string) Condition {
	return &BinaryCondition{Op: OpLike, Column: toColumnRef(col), Value: pattern}
}

// InArray builds a column IN (values...) condition.
func InArray(col interface{}, values []interface{}) Condition {
	return &BinaryCondition{Op: OpIn, Column: toColumnRef(col), Value: values}
}

// NotInArray builds a column NOT IN (values...) condition.
func NotInArray(col interface{}, values []interface{}) Condition {
	return &BinaryCondition{Op: OpNotIn, Column: toColumnRef(col), Value: values}
}

// IsNull builds a column IS NULL condition.
func IsNull(col interface{}) Condition {
	return &UnaryCondition{Op: OpIsNull, Column: toColumnRef(col)}
}

// IsNotNull builds a column IS NOT NULL condition.
func IsNotNull(col interface{}) Condition {
	return &UnaryCondition{Op: OpIsNotNull, Column: toColumnRef(col)}
}

// Not negates a child condition.
func Not(child Condition) Condition {
	return &UnaryCondition{Op: OpNot, Child: child}
}

// And combines children with AND.
func And(children ...Condition) Condition {
	return &LogicalCondition{Op: OpAnd, Children: children}
}

// Or combines children with OR.
func Or(children ...Condition) Condition {
	return &LogicalCondition{Op: OpOr, Children: children}
}
