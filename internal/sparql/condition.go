package sparql

import (
	"fmt"
	"strings"

	"github.com/undefinedsco/drizzle-solid/internal/drizzleerr"
	"github.com/undefinedsco/drizzle-solid/internal/query"
	"github.com/undefinedsco/drizzle-solid/internal/schema"
)

// renderCondition compiles a condition tree into a SPARQL boolean
// expression body (the argument of a FILTER(...)). Conditions on the
// "id" pseudo-column are rewritten against ?subject and the derived
// subject URI, per spec §4.3.
func (t *Translator) renderCondition(cond query.Condition, table *schema.Table, base string) (string, error) {
	switch c := cond.(type) {
	case *query.BinaryCondition:
		return t.renderBinary(c, table, base)
	case *query.UnaryCondition:
		return t.renderUnary(c, table, base)
	case *query.LogicalCondition:
		return t.renderLogical(c, table, base)
	default:
		return "", drizzleerr.NewProgrammerError("sparql: unknown condition node %T", cond)
	}
}

func (t *Translator) renderBinary(c *query.BinaryCondition, table *schema.Table, base string) (string, error) {
	if c.Column.IsID() {
		return t.renderIDBinary(c, table, base)
	}

	varExpr, col, err := t.columnVar(c.Column, table)
	if err != nil {
		return "", err
	}

	switch c.Op {
	case query.OpEq:
		return fmt.Sprintf("%s = %s", varExpr, formatLiteral(col, c.Value)), nil
	case query.OpNe:
		return fmt.Sprintf("%s != %s", varExpr, formatLiteral(col, c.Value)), nil
	case query.OpLt:
		return fmt.Sprintf("%s < %s", varExpr, formatLiteral(col, c.Value)), nil
	case query.OpLte:
		return fmt.Sprintf("%s <= %s", varExpr, formatLiteral(col, c.Value)), nil
	case query.OpGt:
		return fmt.Sprintf("%s > %s", varExpr, formatLiteral(col, c.Value)), nil
	case query.OpGte:
		return fmt.Sprintf("%s >= %s", varExpr, formatLiteral(col, c.Value)), nil
	case query.OpLike:
		pattern, _ := c.Value.(string)
		return fmt.Sprintf(`regex(str(%s), "%s", "i")`, varExpr, likeToRegex(pattern)), nil
	case query.OpIn:
		lits, err := literalList(col, c.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s IN (%s)", varExpr, strings.Join(lits, ", ")), nil
	case query.OpNotIn:
		lits, err := literalList(col, c.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s NOT IN (%s)", varExpr, strings.Join(lits, ", ")), nil
	default:
		return "", drizzleerr.NewProgrammerError("sparql: unsupported binary operator %q", c.Op)
	}
}

// renderIDBinary rewrites a condition on the "id" pseudo-column
// against ?subject and the derived subject URI(s).
func (t *Translator) renderIDBinary(c *query.BinaryCondition, table *schema.Table, base string) (string, error) {
	subjectOf := func(v interface{}) string {
		return fmt.Sprintf("<%s>", table.SubjectURI(base, fmt.Sprintf("%v", v)))
	}
	switch c.Op {
	case query.OpEq:
		return fmt.Sprintf("?subject = %s", subjectOf(c.Value)), nil
	case query.OpNe:
		return fmt.Sprintf("?subject != %s", subjectOf(c.Value)), nil
	case query.OpIn, query.OpNotIn:
		values, ok := c.Value.([]interface{})
		if !ok {
			return "", drizzleerr.NewProgrammerError("sparql: id IN/NOT IN requires a value list")
		}
		subs := make([]string, 0, len(values))
		for _, v := range values {
			subs = append(subs, subjectOf(v))
		}
		kw := "IN"
		if c.Op == query.OpNotIn {
			kw = "NOT IN"
		}
		return fmt.Sprintf("?subject %s (%s)", kw, strings.Join(subs, ", ")), nil
	default:
		return "", drizzleerr.NewProgrammerError("sparql: unsupported operator %q on id", c.Op)
	}
}

func (t *Translator) renderUnary(c *query.UnaryCondition, table *schema.Table, base string) (string, error) {
	switch c.Op {
	case query.OpNot:
		inner, err := t.renderCondition(c.Child, table, base)
		if err != nil {
			return "", err
		}
		return "!(" + inner + ")", nil
	case query.OpIsNull, query.OpIsNotNull:
		varExpr, _, err := t.columnVar(c.Column, table)
		if err != nil {
			return "", err
		}
		if c.Op == query.OpIsNull {
			return "!BOUND(" + varExpr + ")", nil
		}
		return "BOUND(" + varExpr + ")", nil
	default:
		return "", drizzleerr.NewProgrammerError("sparql: unsupported unary operator %q", c.Op)
	}
}

func (t *Translator) renderLogical(c *query.LogicalCondition, table *schema.Table, base string) (string, error) {
	if len(c.Children) == 0 {
		return "", drizzleerr.NewProgrammerError("sparql: logical condition has no children")
	}
	parts := make([]string, 0, len(c.Children))
	for _, child := range c.Children {
		rendered, err := t.renderCondition(child, table, base)
		if err != nil {
			return "", err
		}
		parts = append(parts, "("+rendered+")")
	}
	joiner := " && "
	if c.Op == query.OpOr {
		joiner = " || "
	}
	return strings.Join(parts, joiner), nil
}

// columnVar resolves a ColumnRef to its SPARQL variable expression and
// underlying schema column (nil for "id", which binds to ?subject).
func (t *Translator) columnVar(ref query.ColumnRef, table *schema.Table) (string, *schema.Column, error) {
	if ref.IsID() {
		return "?subject", nil, nil
	}
	col := ref.Col
	if col == nil {
		col = table.Column(ref.Name)
	}
	if col == nil {
		return "", nil, drizzleerr.NewProgrammerError("sparql: unknown column %q on table %q", ref.Name, table.Name)
	}
	return "?" + col.Name, col, nil
}

func literalList(col *schema.Column, value interface{}) ([]string, error) {
	values, ok := value.([]interface{})
	if !ok {
		return nil, drizzleerr.NewProgrammerError("sparql: IN/NOT IN requires a value list")
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, formatLiteral(col, v))
	}
	return out, nil
}
