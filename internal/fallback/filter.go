package fallback

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/undefinedsco/drizzle-solid/internal/drizzleerr"
	"github.com/undefinedsco/drizzle-solid/internal/query"
	"github.com/undefinedsco/drizzle-solid/internal/row"
)

// matches evaluates cond against a merged row in memory. Operator
// semantics mirror the SPARQL translator's (spec §4.5 "post-filters"):
// LIKE is a case-insensitive regex match, IN/NOT IN test membership,
// IS NULL is true for a missing key or an explicit nil.
func matches(cond query.Condition, r row.Row) (bool, error) {
	switch c := cond.(type) {
	case *query.BinaryCondition:
		return matchBinary(c, r)
	case *query.UnaryCondition:
		return matchUnary(c, r)
	case *query.LogicalCondition:
		return matchLogical(c, r)
	default:
		return false, drizzleerr.NewProgrammerError("fallback: unknown condition type %T", cond)
	}
}

func matchBinary(c *query.BinaryCondition, r row.Row) (bool, error) {
	left := columnValue(r, c.Column.Alias, c.Column.Name)

	switch c.Op {
	case query.OpEq:
		return compareEqual(left, c.Value), nil
	case query.OpNe:
		return !compareEqual(left, c.Value), nil
	case query.OpLt, query.OpLte, query.OpGt, query.OpGte:
		return compareOrdered(c.Op, left, c.Value), nil
	case query.OpLike:
		pattern, ok := c.Value.(string)
		if !ok {
			return false, drizzleerr.NewProgrammerError("fallback: LIKE value must be a string")
		}
		re, err := regexp.Compile("(?is)" + likeToRegex(pattern))
		if err != nil {
			return false, err
		}
		return re.MatchString(fmt.Sprintf("%v", left)), nil
	case query.OpIn, query.OpNotIn:
		values, ok := c.Value.([]interface{})
		if !ok {
			return false, drizzleerr.NewProgrammerError("fallback: IN/NOT IN value must be a slice")
		}
		in := false
		for _, v := range values {
			if compareEqual(left, v) {
				in = true
				break
			}
		}
		if c.Op == query.OpNotIn {
			return !in, nil
		}
		return in, nil
	default:
		return false, drizzleerr.NewProgrammerError("fallback: unsupported binary operator %q", c.Op)
	}
}

func matchUnary(c *query.UnaryCondition, r row.Row) (bool, error) {
	switch c.Op {
	case query.OpNot:
		inner, err := matches(c.Child, r)
		if err != nil {
			return false, err
		}
		return !inner, nil
	case query.OpIsNull:
		return isNull(columnValue(r, c.Column.Alias, c.Column.Name)), nil
	case query.OpIsNotNull:
		return !isNull(columnValue(r, c.Column.Alias, c.Column.Name)), nil
	default:
		return false, drizzleerr.NewProgrammerError("fallback: unsupported unary operator %q", c.Op)
	}
}

func matchLogical(c *query.LogicalCondition, r row.Row) (bool, error) {
	switch c.Op {
	case query.OpAnd:
		for _, child := range c.Children {
			ok, err := matches(child, r)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case query.OpOr:
		for _, child := range c.Children {
			ok, err := matches(child, r)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, drizzleerr.NewProgrammerError("fallback: unsupported logical operator %q", c.Op)
	}
}

func isNull(v interface{}) bool { return v == nil }

func compareEqual(a, b interface{}) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func compareOrdered(op query.BinaryOp, a, b interface{}) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return compareFloats(op, af, bf)
		}
	}
	as, bs := fmt.Sprintf("%v", a), fmt.Sprintf("%v", b)
	switch op {
	case query.OpLt:
		return as < bs
	case query.OpLte:
		return as <= bs
	case query.OpGt:
		return as > bs
	case query.OpGte:
		return as >= bs
	}
	return false
}

func compareFloats(op query.BinaryOp, a, b float64) bool {
	switch op {
	case query.OpLt:
		return a < b
	case query.OpLte:
		return a <= b
	case query.OpGt:
		return a > b
	case query.OpGte:
		return a >= b
	}
	return false
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// likeToRegex mirrors the SPARQL translator's LIKE-to-regex transform:
// "%" becomes ".*", "_" becomes ".", everything else is escaped and
// the whole pattern is anchored.
func likeToRegex(pattern string) string {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	return b.String()
}
