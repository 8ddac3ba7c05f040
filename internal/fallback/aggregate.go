package fallback

import (
	"encoding/json"

	"github.com/undefinedsco/drizzle-solid/internal/drizzleerr"
	"github.com/undefinedsco/drizzle-solid/internal/query"
	"github.com/undefinedsco/drizzle-solid/internal/row"
)

// reduce partitions rows by op.GroupBy and projects each group through
// op.Fields, computing any aggregates along the way (spec §4.5
// "group-by + aggregation"). With no group-by it treats all rows as a
// single group (the pure-aggregate case).
func reduce(rows []row.Row, op *query.Operation) ([]row.Row, error) {
	if err := validateGroupBy(op); err != nil {
		return nil, err
	}

	type group struct {
		key  string
		rows []row.Row
	}
	order := []string{}
	groups := map[string]*group{}
	for _, r := range rows {
		key, err := groupKey(r, op.GroupBy)
		if err != nil {
			return nil, err
		}
		g, ok := groups[key]
		if !ok {
			g = &group{key: key}
			groups[key] = g
			order = append(order, key)
		}
		g.rows = append(g.rows, r)
	}
	if len(rows) == 0 && len(op.GroupBy) == 0 {
		// A pure aggregate over zero rows still yields one group: count=0,
		// sum/avg/min/max=null.
		groups[""] = &group{}
		order = []string{""}
	}

	out := make([]row.Row, 0, len(order))
	for _, key := range order {
		g := groups[key]
		projected := row.Row{}
		for _, f := range op.Fields {
			if f.Aggregate != nil {
				v, err := computeAggregate(f.Aggregate, g.rows)
				if err != nil {
					return nil, err
				}
				projected[f.OutputName()] = v
				continue
			}
			var v interface{}
			if len(g.rows) > 0 {
				v = columnValue(g.rows[0], f.Column.Alias, f.Column.Name)
			}
			projected[f.OutputName()] = v
		}
		out = append(out, projected)
	}
	return out, nil
}

// validateGroupBy enforces that every non-aggregate output column is
// one of the group-by columns.
func validateGroupBy(op *query.Operation) error {
	if len(op.GroupBy) == 0 {
		return nil
	}
	grouped := map[string]bool{}
	for _, g := range op.GroupBy {
		grouped[g.String()] = true
	}
	for _, f := range op.Fields {
		if f.Aggregate != nil || f.Column == nil {
			continue
		}
		if !grouped[f.Column.String()] {
			return drizzleerr.NewProgrammerError("fallback: output column %q must be part of group by", f.Column.String())
		}
	}
	return nil
}

func groupKey(r row.Row, groupBy []query.ColumnRef) (string, error) {
	if len(groupBy) == 0 {
		return "", nil
	}
	values := make([]interface{}, len(groupBy))
	for i, g := range groupBy {
		values[i] = columnValue(r, g.Alias, g.Name)
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func computeAggregate(agg *query.Aggregate, rows []row.Row) (interface{}, error) {
	if agg.Func == query.AggCount && agg.Column == nil {
		return int64(len(rows)), nil
	}

	var values []interface{}
	seen := map[string]bool{}
	for _, r := range rows {
		v := columnValue(r, agg.Column.Alias, agg.Column.Name)
		if v == nil {
			continue
		}
		if agg.Distinct {
			b, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			if seen[string(b)] {
				continue
			}
			seen[string(b)] = true
		}
		values = append(values, v)
	}

	switch agg.Func {
	case query.AggCount:
		return int64(len(values)), nil
	case query.AggSum, query.AggAvg, query.AggMin, query.AggMax:
		nums := numericValues(values)
		if len(nums) == 0 {
			return nil, nil
		}
		switch agg.Func {
		case query.AggSum:
			var sum float64
			for _, n := range nums {
				sum += n
			}
			return sum, nil
		case query.AggAvg:
			var sum float64
			for _, n := range nums {
				sum += n
			}
			return sum / float64(len(nums)), nil
		case query.AggMin:
			min := nums[0]
			for _, n := range nums[1:] {
				if n < min {
					min = n
				}
			}
			return min, nil
		case query.AggMax:
			max := nums[0]
			for _, n := range nums[1:] {
				if n > max {
					max = n
				}
			}
			return max, nil
		}
	}
	return nil, drizzleerr.NewProgrammerError("fallback: unsupported aggregate function %q", agg.Func)
}

func numericValues(values []interface{}) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := asFloat(v); ok {
			out = append(out, f)
		}
	}
	return out
}

