package fallback

import (
	"context"

	"github.com/undefinedsco/drizzle-solid/internal/query"
	"github.com/undefinedsco/drizzle-solid/internal/row"
)

// fakeFetcher is a hand-rolled TableFetcher backed by static per-table
// row sets, for exercising the planner without a Pod round trip.
type fakeFetcher struct {
	tables map[string][]row.Row
	calls  []fetchCall
}

type fetchCall struct {
	table string
	where query.Condition
}

func newFakeFetcher(tables map[string][]row.Row) *fakeFetcher {
	return &fakeFetcher{tables: tables}
}

func (f *fakeFetcher) FetchTable(ctx context.Context, tableName string, where query.Condition) ([]row.Row, error) {
	f.calls = append(f.calls, fetchCall{table: tableName, where: where})
	rows := f.tables[tableName]
	if where == nil {
		out := make([]row.Row, len(rows))
		copy(out, rows)
		return out, nil
	}
	var out []row.Row
	for _, r := range rows {
		ok, err := matches(where, r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}
