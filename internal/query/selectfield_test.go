package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectFieldOutputNamePrecedence(t *testing.T) {
	plain := fieldFromColumn("age")
	assert.Equal(t, "age", plain.OutputName())

	aliased := As("years", "age")
	assert.Equal(t, "years", aliased.OutputName())

	agg := fieldFromAggregate(Count())
	assert.Equal(t, "count", agg.OutputName())
}

func TestToSelectFieldAcceptsAggregateAndString(t *testing.T) {
	f1 := toSelectField(Sum("amount"))
	assert.NotNil(t, f1.Aggregate)

	f2 := toSelectField("name")
	assert.NotNil(t, f2.Column)
	assert.Equal(t, "name", f2.Column.Name)
}
