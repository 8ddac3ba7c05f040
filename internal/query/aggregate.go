package query

import "github.com/undefinedsco/drizzle-solid/internal/drizzleerr"

// AggFunc is an aggregate function (spec C3).
type AggFunc string

const (
	AggCount AggFunc = "count"
	AggSum   AggFunc = "sum"
	AggAvg   AggFunc = "avg"
	AggMin   AggFunc = "min"
	AggMax   AggFunc = "max"
)

// Aggregate describes one aggregate projection. Column is nil only for
// count() with no argument (count-all).
type Aggregate struct {
	Func     AggFunc
	Column   *ColumnRef
	Distinct bool
}

// NewAggregate validates and constructs an aggregate descriptor. Every
// function but count requires a column; constructing sum/avg/min/max
// without one is a programmer error (spec §4.1).
func NewAggregate(fn AggFunc, col interface{}, distinct bool) (*Aggregate, error) {
	if col == nil {
		if fn != AggCount {
			return nil, drizzleerr.NewProgrammerError("aggregate %q requires a column", fn)
		}
		return &Aggregate{Func: fn, Distinct: distinct}, nil
	}
	ref := toColumnRef(col)
	return &Aggregate{Func: fn, Column: &ref, Distinct: distinct}, nil
}

func mustAggregate(fn AggFunc, col interface{}, distinct bool) *Aggregate {
	agg, err := NewAggregate(fn, col, distinct)
	if err != nil {
		panic(err)
	}
	return agg
}

// Count builds a count(*) aggregate (counts all rows).
func Count() *Aggregate { return mustAggregate(AggCount, nil, false) }

// CountColumn builds a count(column) aggregate (non-null values only).
func CountColumn(col interface{}) *Aggregate { return mustAggregate(AggCount, col, false) }

// CountDistinct builds a count(distinct column) aggregate.
func CountDistinct(col interface{}) *Aggregate { return mustAggregate(AggCount, col, true) }

// Sum builds a sum(column) aggregate.
func Sum(col interface{}) *Aggregate { return mustAggregate(AggSum, col, false) }

// Avg builds an avg(column) aggregate.
func Avg(col interface{}) *Aggregate { return mustAggregate(AggAvg, col, false) }

// Min builds a min(column) aggregate.
func Min(col interface{}) *Aggregate { return mustAggregate(AggMin, col, false) }

// Max builds a max(column) aggregate.
func Max(col interface{}) *Aggregate { return mustAggregate(AggMax, col, false) }
