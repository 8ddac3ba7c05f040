package query

import "github.com/undefinedsco/drizzle-solid/internal/drizzleerr"

// JoinType selects join semantics. Only inner and left joins are
// supported by the fallback planner (spec §4.3); right and full outer
// joins are rejected at build time rather than silently reinterpreted.
type JoinType string

const (
	JoinInner JoinType = "inner"
	JoinLeft  JoinType = "left"
)

// Join describes one join clause: the table being joined in (under
// Alias), its join type, and the condition linking it back to an
// already-bound alias.
type Join struct {
	Table     string
	Alias     string
	Type      JoinType
	Condition Condition
}

// newJoin validates and constructs a Join. table and alias must be
// non-empty; cond must not be nil.
func newJoin(table, alias string, jt JoinType, cond Condition) (*Join, error) {
	if table == "" {
		return nil, drizzleerr.NewProgrammerError("join: table name is required")
	}
	if alias == "" {
		return nil, drizzleerr.NewProgrammerError("join: alias is required")
	}
	if cond == nil {
		return nil, drizzleerr.NewProgrammerError("join: condition is required")
	}
	switch jt {
	case JoinInner, JoinLeft:
	default:
		return nil, drizzleerr.NewProgrammerError("join: unsupported join type %q (only inner and left are supported)", jt)
	}
	return &Join{Table: table, Alias: alias, Type: jt, Condition: cond}, nil
}
