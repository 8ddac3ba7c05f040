package fallback

import (
	"encoding/json"
	"sort"

	"github.com/undefinedsco/drizzle-solid/internal/query"
	"github.com/undefinedsco/drizzle-solid/internal/row"
)

// finalize applies distinct, then orderBy, then offset, then limit, in
// that order (spec §4.5 "ordering / distinct / limit / offset").
func finalize(rows []row.Row, op *query.Operation) ([]row.Row, error) {
	if op.Distinct {
		rows = distinctRows(rows)
	}
	if len(op.OrderBy) > 0 {
		sorted, err := sortRows(rows, op.OrderBy)
		if err != nil {
			return nil, err
		}
		rows = sorted
	}
	if op.Offset > 0 {
		if op.Offset >= len(rows) {
			rows = nil
		} else {
			rows = rows[op.Offset:]
		}
	}
	if op.Limit > 0 && op.Limit < len(rows) {
		rows = rows[:op.Limit]
	}
	return rows, nil
}

func distinctRows(rows []row.Row) []row.Row {
	seen := map[string]bool{}
	out := make([]row.Row, 0, len(rows))
	for _, r := range rows {
		b, err := json.Marshal(r)
		key := string(b)
		if err != nil {
			// Unmarshalable rows can't be deduped meaningfully; keep them.
			out = append(out, r)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

func sortRows(rows []row.Row, orderBy []query.OrderItem) ([]row.Row, error) {
	out := make([]row.Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		for _, o := range orderBy {
			a := columnValue(out[i], o.Column.Alias, o.Column.Name)
			b := columnValue(out[j], o.Column.Alias, o.Column.Name)
			if compareEqual(a, b) {
				continue
			}
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			less := compareOrdered(query.OpLt, a, b)
			if o.Dir == query.Desc {
				return !less
			}
			return less
		}
		return false
	})
	return out, nil
}
