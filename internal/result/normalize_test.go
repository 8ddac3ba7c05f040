package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/undefinedsco/drizzle-solid/internal/query"
	"github.com/undefinedsco/drizzle-solid/internal/row"
)

func TestFromBindingsConvertsByDatatype(t *testing.T) {
	bindings := []row.Binding{
		{
			"subject": {Type: "uri", Value: "https://pod.example/alice/data/people#p1"},
			"name":    {Type: "literal", Value: "Alice"},
			"age":     {Type: "literal", Value: "30", Datatype: xsdInteger},
			"score":   {Type: "literal", Value: "1.5", Datatype: xsdDecimal},
			"active":  {Type: "literal", Value: "true", Datatype: xsdBoolean},
			"joined":  {Type: "literal", Value: "2024-01-01T00:00:00Z", Datatype: xsdDateTime},
			"tags":    {Type: "literal", Value: `["a","b"]`, Datatype: xsdJSON},
		},
	}

	rows := FromBindings(bindings)
	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, "p1", r["id"])
	assert.Equal(t, "https://pod.example/alice/data/people#p1", r["subject"])
	assert.Equal(t, "Alice", r["name"])
	assert.EqualValues(t, 30, r["age"])
	assert.InDelta(t, 1.5, r["score"], 0.0001)
	assert.Equal(t, true, r["active"])
	assert.Equal(t, "2024-01-01T00:00:00Z", r["joined"])
	assert.Equal(t, []interface{}{"a", "b"}, r["tags"])
}

func TestFromBindingsFallsBackToRawStringOnParseFailure(t *testing.T) {
	bindings := []row.Binding{
		{
			"subject": {Type: "uri", Value: "https://pod.example/alice/data/people#p1"},
			"age":     {Type: "literal", Value: "not-a-number", Datatype: xsdInteger},
		},
	}
	rows := FromBindings(bindings)
	require.Len(t, rows, 1)
	assert.Equal(t, "not-a-number", rows[0]["age"])
}

func TestFromBindingsURITypeReturnsRawValue(t *testing.T) {
	bindings := []row.Binding{
		{
			"subject": {Type: "uri", Value: "https://pod.example/alice/data/people#p1"},
			"friend":  {Type: "uri", Value: "https://pod.example/bob/profile/card#me"},
		},
	}
	rows := FromBindings(bindings)
	require.Len(t, rows, 1)
	assert.Equal(t, "https://pod.example/bob/profile/card#me", rows[0]["friend"])
}

func TestDeriveIDTakesSegmentAfterLastSlashOrHash(t *testing.T) {
	bindings := []row.Binding{
		{"subject": {Type: "uri", Value: "https://pod.example/alice/data/people/p1"}},
	}
	rows := FromBindings(bindings)
	assert.Equal(t, "p1", rows[0]["id"])

	bindings = []row.Binding{
		{"subject": {Type: "uri", Value: "https://pod.example/alice/data/people#p2"}},
	}
	rows = FromBindings(bindings)
	assert.Equal(t, "p2", rows[0]["id"])
}

func TestProjectResolvesByExactAliasQualifiedThenPlainColumn(t *testing.T) {
	rows := []row.Row{
		{"id": "p1", "subject": "s1", "name": "Alice", "o.amount": int64(42)},
	}
	fields := []query.SelectField{
		{Column: &query.ColumnRef{Name: "name"}},
		{Column: &query.ColumnRef{Alias: "o", Name: "amount"}},
		{As: "missing", Column: &query.ColumnRef{Name: "nope"}},
	}
	out := Project(rows, fields)
	require.Len(t, out, 1)
	assert.Equal(t, "p1", out[0]["id"])
	assert.Equal(t, "s1", out[0]["subject"])
	assert.Equal(t, "Alice", out[0]["name"])
	assert.EqualValues(t, 42, out[0]["amount"])
	assert.Nil(t, out[0]["missing"])
}

func TestProjectPassesThroughUnchangedWhenNoFields(t *testing.T) {
	rows := []row.Row{{"name": "Alice"}}
	out := Project(rows, nil)
	assert.Equal(t, rows, out)
}
