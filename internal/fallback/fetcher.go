// Package fallback implements the client-side query planner (spec C7):
// joins, post-filtering, group-by/aggregate reduction, and the final
// order/distinct/limit/offset pass, all evaluated in memory over rows
// fetched one table at a time through TableFetcher. It never imports
// internal/pod or internal/schema — the Pod dialect satisfies
// TableFetcher structurally, keeping this package a leaf that only
// depends on internal/query and internal/row.
package fallback

import (
	"context"

	"github.com/undefinedsco/drizzle-solid/internal/query"
	"github.com/undefinedsco/drizzle-solid/internal/row"
)

// TableFetcher fetches the plain (unfiltered-by-join) rows of one
// named table, already narrowed by the portion of a where clause that
// applies to that table alone. Implemented by *pod.Dialect.
type TableFetcher interface {
	FetchTable(ctx context.Context, tableName string, where query.Condition) ([]row.Row, error)
}
