package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/undefinedsco/drizzle-solid/internal/drizzleerr"
)

func TestNewAggregateCountAllHasNoColumn(t *testing.T) {
	agg, err := NewAggregate(AggCount, nil, false)
	assert.NoError(t, err)
	assert.Nil(t, agg.Column)
}

func TestNewAggregateNonCountRequiresColumn(t *testing.T) {
	_, err := NewAggregate(AggSum, nil, false)
	assert.True(t, drizzleerr.IsProgrammerError(err))
}

func TestAggregateConvenienceConstructors(t *testing.T) {
	assert.Equal(t, AggCount, Count().Func)
	assert.Nil(t, Count().Column)

	cc := CountColumn("age")
	assert.Equal(t, "age", cc.Column.Name)
	assert.False(t, cc.Distinct)

	cd := CountDistinct("age")
	assert.True(t, cd.Distinct)

	assert.Equal(t, AggSum, Sum("total").Func)
	assert.Equal(t, AggAvg, Avg("total").Func)
	assert.Equal(t, AggMin, Min("total").Func)
	assert.Equal(t, AggMax, Max("total").Func)
}

func TestSumWithoutColumnPanics(t *testing.T) {
	assert.Panics(t, func() { mustAggregate(AggSum, nil, false) })
}
