package fallback

import (
	"context"

	"github.com/undefinedsco/drizzle-solid/internal/query"
	"github.com/undefinedsco/drizzle-solid/internal/result"
	"github.com/undefinedsco/drizzle-solid/internal/row"
)

// Execute runs the client-side planner over op: fetch the primary
// table, apply joins in registration order, evaluate post-filters,
// reduce group-by/aggregates, then apply distinct/orderBy/offset/limit
// (spec C7). It is invoked whenever op.RequiresFallback() is true.
func Execute(ctx context.Context, op *query.Operation, fetch TableFetcher) ([]row.Row, error) {
	parts := query.SplitByAlias(op.Where)
	own := parts[op.Alias]
	delete(parts, op.Alias)
	var extraFilters []query.Condition
	for _, conds := range parts {
		extraFilters = append(extraFilters, conds...)
	}

	baseWhereCond := andAll(own)
	rows, err := fetch.FetchTable(ctx, op.Table, baseWhereCond)
	if err != nil {
		return nil, err
	}
	rows = withAlias(rows, op.Alias)

	for _, j := range op.Joins {
		localKey, otherKey, _, err := resolveJoinKeys(j)
		if err != nil {
			return nil, err
		}

		// Narrow the joined table's fetch to the key values the base
		// side actually produced (spec §4.5 step 2), instead of
		// pulling the whole table and discarding non-matches locally.
		values := collectJoinValues(rows, otherKey.alias, otherKey.name)
		var joinedRows []row.Row
		if len(values) > 0 {
			joinedRows, err = fetch.FetchTable(ctx, j.Table, query.InArray(localKey.name, values))
			if err != nil {
				return nil, err
			}
		}

		joinedRows = withAlias(joinedRows, j.Alias)
		merged, err := applyJoin(rows, j, joinedRows)
		if err != nil {
			return nil, err
		}
		rows = merged
	}

	if len(extraFilters) > 0 {
		rows, err = applyFilters(rows, extraFilters)
		if err != nil {
			return nil, err
		}
	}

	var projected []row.Row
	if op.HasAggregation() {
		projected, err = reduce(rows, op)
		if err != nil {
			return nil, err
		}
	} else {
		projected = result.Project(rows, op.Fields)
	}

	return finalize(projected, op)
}

func applyFilters(rows []row.Row, conds []query.Condition) ([]row.Row, error) {
	out := make([]row.Row, 0, len(rows))
	for _, r := range rows {
		keep := true
		for _, c := range conds {
			ok, err := matches(c, r)
			if err != nil {
				return nil, err
			}
			if !ok {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out, nil
}

func andAll(conds []query.Condition) query.Condition {
	switch len(conds) {
	case 0:
		return nil
	case 1:
		return conds[0]
	default:
		return query.And(conds...)
	}
}
