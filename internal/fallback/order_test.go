package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/undefinedsco/drizzle-solid/internal/query"
	"github.com/undefinedsco/drizzle-solid/internal/row"
)

func TestFinalizeDistinctOrderLimitOffset(t *testing.T) {
	rows := []row.Row{
		{"name": "Bob"},
		{"name": "Alice"},
		{"name": "Alice"},
		{"name": "Carol"},
	}
	op := &query.Operation{
		Distinct: true,
		OrderBy:  []query.OrderItem{{Column: query.ColumnRef{Name: "name"}, Dir: query.Desc}},
		Offset:   1,
		Limit:    1,
	}

	out, err := finalize(rows, op)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Bob", out[0]["name"])
}

func TestFinalizeSortsNullsLast(t *testing.T) {
	rows := []row.Row{
		{"age": nil},
		{"age": int64(20)},
		{"age": int64(10)},
	}
	op := &query.Operation{
		OrderBy: []query.OrderItem{{Column: query.ColumnRef{Name: "age"}, Dir: query.Asc}},
	}

	out, err := finalize(rows, op)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.EqualValues(t, 10, out[0]["age"])
	assert.EqualValues(t, 20, out[1]["age"])
	assert.Nil(t, out[2]["age"])
}
