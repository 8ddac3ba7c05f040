package fallback

import (
	"strings"

	"github.com/undefinedsco/drizzle-solid/internal/drizzleerr"
	"github.com/undefinedsco/drizzle-solid/internal/query"
	"github.com/undefinedsco/drizzle-solid/internal/row"
)

// joinKey is the (alias, column) pair the first join condition binds
// on one side.
type joinKey struct {
	alias string
	name  string
}

// splitJoinKey resolves "alias.column" or a bare "column" (meaning the
// unaliased primary table) into a joinKey.
func splitJoinKey(s string) joinKey {
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		return joinKey{alias: s[:idx], name: s[idx+1:]}
	}
	return joinKey{name: s}
}

// firstEquality extracts the lead equality condition from a join's
// condition tree: the condition itself if it's a bare equality, or the
// first child of a top-level AND. Any remaining children are returned
// as extra post-filter conditions (spec §4.5: "only the first
// condition... participates in the hash; remaining conditions are
// evaluated as post-filters").
func firstEquality(cond query.Condition) (*query.BinaryCondition, []query.Condition, error) {
	switch c := cond.(type) {
	case *query.BinaryCondition:
		if c.Op != query.OpEq {
			return nil, nil, drizzleerr.NewProgrammerError("fallback: join condition must be an equality")
		}
		return c, nil, nil
	case *query.LogicalCondition:
		if c.Op != query.OpAnd || len(c.Children) == 0 {
			return nil, nil, drizzleerr.NewProgrammerError("fallback: join condition must be an equality or AND of equalities")
		}
		head, ok := c.Children[0].(*query.BinaryCondition)
		if !ok || head.Op != query.OpEq {
			return nil, nil, drizzleerr.NewProgrammerError("fallback: join condition's first clause must be an equality")
		}
		return head, c.Children[1:], nil
	default:
		return nil, nil, drizzleerr.NewProgrammerError("fallback: unsupported join condition shape")
	}
}

// resolveJoinKeys extracts the lead equality's two sides from j and
// identifies which one names the joined alias (localKey) versus the
// base/previously-joined side (otherKey): head.Column names the
// joined alias's side only by convention when it matches j.Alias;
// otherwise the condition was written reversed and the two keys are
// swapped. Also returns any remaining AND-conjunct conditions to be
// evaluated as per-row post-filters after the hash join.
func resolveJoinKeys(j *query.Join) (localKey, otherKey joinKey, extra []query.Condition, err error) {
	head, extra, err := firstEquality(j.Condition)
	if err != nil {
		return joinKey{}, joinKey{}, nil, err
	}

	localKey = joinKey{alias: head.Column.Alias, name: head.Column.Name}
	otherKey = splitJoinKey(valueAsString(head.Value))
	if localKey.alias != j.Alias {
		localKey, otherKey = otherKey, localKey
	}
	return localKey, otherKey, extra, nil
}

// collectJoinValues gathers the distinct, non-nil values of column
// (alias, name) across rows, in first-seen order, for narrowing the
// joined table's fetch to an IN-list (spec §4.5 step 2) instead of
// pulling the whole table.
func collectJoinValues(rows []row.Row, alias, name string) []interface{} {
	seen := make(map[interface{}]bool)
	var out []interface{}
	for _, r := range rows {
		v := columnValue(r, alias, name)
		if v == nil || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// applyJoin merges joinedRows (already alias-qualified via withAlias)
// into base per j, using the first equality condition as the hash key
// and evaluating any remaining conditions as per-row post-filters.
func applyJoin(base []row.Row, j *query.Join, joinedRows []row.Row) ([]row.Row, error) {
	localKey, otherKey, extra, err := resolveJoinKeys(j)
	if err != nil {
		return nil, err
	}

	buckets := make(map[interface{}][]row.Row)
	for _, jr := range joinedRows {
		k := columnValue(jr, localKey.alias, localKey.name)
		buckets[k] = append(buckets[k], jr)
	}
	missing := emptyJoinedRow(j.Alias, joinedRows)

	var out []row.Row
	for _, br := range base {
		k := columnValue(br, otherKey.alias, otherKey.name)
		candidates := buckets[k]

		filtered := candidates
		if len(extra) > 0 {
			filtered = nil
			for _, jr := range candidates {
				merged := mergeRows(br, jr)
				ok := true
				for _, cond := range extra {
					m, err := matches(cond, merged)
					if err != nil {
						return nil, err
					}
					if !m {
						ok = false
						break
					}
				}
				if ok {
					filtered = append(filtered, jr)
				}
			}
		}

		if len(filtered) == 0 {
			if j.Type == query.JoinLeft {
				out = append(out, mergeRows(br, missing))
			}
			continue
		}
		for _, jr := range filtered {
			out = append(out, mergeRows(br, jr))
		}
	}
	return out, nil
}

func mergeRows(base, joined row.Row) row.Row {
	out := base.Clone()
	for k, v := range joined {
		out[k] = v
	}
	return out
}

// emptyJoinedRow is the row a left join emits for an unmatched base
// row: every alias-qualified column the joined table produced is
// explicitly nil, plus alias.id/alias.subject (spec §4.5). sample, a
// row already fetched for this alias, supplies the key set; when no
// rows were fetched at all only id/subject are known.
func emptyJoinedRow(alias string, sample []row.Row) row.Row {
	out := row.Row{alias + ".id": nil, alias + ".subject": nil}
	prefix := alias + "."
	if len(sample) > 0 {
		for k := range sample[0] {
			if strings.HasPrefix(k, prefix) {
				out[k] = nil
			}
		}
	}
	return out
}

func valueAsString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
