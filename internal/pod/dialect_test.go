package pod

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/undefinedsco/drizzle-solid/internal/drizzleerr"
	"github.com/undefinedsco/drizzle-solid/internal/podtest"
	"github.com/undefinedsco/drizzle-solid/internal/query"
	"github.com/undefinedsco/drizzle-solid/internal/row"
	"github.com/undefinedsco/drizzle-solid/internal/schema"
	"github.com/undefinedsco/drizzle-solid/internal/sparql"
)

func peopleSchema(t *testing.T) *schema.Table {
	t.Helper()
	table, err := schema.NewTable("people", "data/people/", "http://xmlns.com/foaf/0.1/Person")
	require.NoError(t, err)
	_, err = table.AddColumn(schema.Column{Name: "id", Type: schema.TypeString, PrimaryKey: true, Required: true})
	require.NoError(t, err)
	_, err = table.AddColumn(schema.Column{Name: "name", Type: schema.TypeString, Required: true})
	require.NoError(t, err)
	_, err = table.AddColumn(schema.Column{Name: "age", Type: schema.TypeInteger})
	require.NoError(t, err)
	return table
}

func ordersSchema(t *testing.T) *schema.Table {
	t.Helper()
	table, err := schema.NewTable("orders", "data/orders/", "http://schema.org/Order")
	require.NoError(t, err)
	_, err = table.AddColumn(schema.Column{Name: "id", Type: schema.TypeString, PrimaryKey: true, Required: true})
	require.NoError(t, err)
	_, err = table.AddColumn(schema.Column{Name: "personId", Type: schema.TypeString, Required: true})
	require.NoError(t, err)
	_, err = table.AddColumn(schema.Column{Name: "amount", Type: schema.TypeInteger})
	require.NoError(t, err)
	return table
}

func newFixture(t *testing.T) (*Dialect, *podtest.FakeSession, *podtest.FakeEngine) {
	t.Helper()
	fake := podtest.NewFakeSession("https://pod.example/alice/profile/card#me")
	engine := podtest.NewFakeEngine()
	cache := NewResponseCache(podtest.NewMemStore(), 0)
	d, err := NewDialect(fake, engine, cache, RetryPolicy{ConflictRetries: 2, PUTFallback: true}, sparql.NewTranslator())
	require.NoError(t, err)
	return d, fake, engine
}

func TestNewDialectRejectsLoggedOutSession(t *testing.T) {
	fake := podtest.NewFakeSession("https://pod.example/alice/profile/card#me")
	fake.SetLoggedIn(false)
	engine := podtest.NewFakeEngine()
	cache := NewResponseCache(podtest.NewMemStore(), 0)

	_, err := NewDialect(fake, engine, cache, RetryPolicy{}, sparql.NewTranslator())
	assert.True(t, drizzleerr.IsNotLoggedIn(err))
}

func TestExecuteNativeSelectProjectsFields(t *testing.T) {
	d, _, engine := newFixture(t)
	table := peopleSchema(t)
	d.RegisterTable(table)

	engine.Respond("", []row.Binding{
		{
			"subject": {Type: "uri", Value: "https://pod.example/alice/data/people#p1"},
			"name":    {Type: "literal", Value: "Alice"},
			"age":     {Type: "literal", Value: "30", Datatype: "http://www.w3.org/2001/XMLSchema#integer"},
		},
	})

	op := &query.Operation{
		Type:   query.OpSelect,
		Table:  "people",
		Fields: []query.SelectField{{Column: &query.ColumnRef{Name: "name"}}, {Column: &query.ColumnRef{Name: "age"}}},
	}
	out, err := d.Execute(context.Background(), op)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Alice", out[0]["name"])
	assert.EqualValues(t, 30, out[0]["age"])
	assert.Equal(t, "p1", out[0]["id"])
}

func TestExecuteSelectUnregisteredTableFails(t *testing.T) {
	d, _, _ := newFixture(t)
	op := &query.Operation{Type: query.OpSelect, Table: "ghosts"}
	_, err := d.Execute(context.Background(), op)
	assert.True(t, drizzleerr.IsProgrammerError(err))
}

func TestExecuteInsertCreatesContainerAndResource(t *testing.T) {
	d, fake, _ := newFixture(t)
	table := peopleSchema(t)
	d.RegisterTable(table)

	op := &query.Operation{
		Type:  query.OpInsert,
		Table: "people",
		Values: []map[string]interface{}{
			{"id": "p1", "name": "Alice", "age": int64(30)},
		},
	}
	out, err := d.Execute(context.Background(), op)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "https://pod.example/alice/data/people#p1", out[0]["subject"])

	assert.True(t, fake.Exists("https://pod.example/alice/data/people/"))
	assert.True(t, fake.Exists("https://pod.example/alice/data/people/people.ttl"))
	assert.Contains(t, string(fake.Body("https://pod.example/alice/data/people/people.ttl")), "p1")
}

func TestExecuteInsertRejectsExistingSubject(t *testing.T) {
	d, fake, _ := newFixture(t)
	table := peopleSchema(t)
	d.RegisterTable(table)

	resourceURL := table.ResourceURL(d.base)
	fake.Seed(resourceURL, []byte("<https://pod.example/alice/data/people#p1> a <http://xmlns.com/foaf/0.1/Person> ."))

	op := &query.Operation{
		Type:   query.OpInsert,
		Table:  "people",
		Values: []map[string]interface{}{{"id": "p1", "name": "Alice"}},
	}
	_, err := d.Execute(context.Background(), op)
	assert.True(t, drizzleerr.IsResourceExists(err))
}

func TestExecuteUpdateFailsOnMissingResource(t *testing.T) {
	d, _, _ := newFixture(t)
	table := peopleSchema(t)
	d.RegisterTable(table)

	op := &query.Operation{
		Type:   query.OpUpdate,
		Table:  "people",
		Where:  query.Eq("id", "p1"),
		Values: []map[string]interface{}{{"name": "Alicia"}},
	}
	_, err := d.Execute(context.Background(), op)
	assert.True(t, drizzleerr.IsNotFound(err))
}

func TestExecuteUpdateByIDBypassesDiscovery(t *testing.T) {
	d, fake, engine := newFixture(t)
	table := peopleSchema(t)
	d.RegisterTable(table)
	resourceURL := table.ResourceURL(d.base)
	fake.Seed(resourceURL, []byte("seed"))

	op := &query.Operation{
		Type:   query.OpUpdate,
		Table:  "people",
		Where:  query.Eq("id", "p1"),
		Values: []map[string]interface{}{{"name": "Alicia"}},
	}
	out, err := d.Execute(context.Background(), op)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "https://pod.example/alice/data/people#p1", out[0]["subject"])
	assert.Empty(t, engine.Queries(), "id equality should bypass the discovery read entirely")
}

func TestExecuteUpdateNonIDWhereUsesDiscovery(t *testing.T) {
	d, fake, engine := newFixture(t)
	table := peopleSchema(t)
	d.RegisterTable(table)
	resourceURL := table.ResourceURL(d.base)
	fake.Seed(resourceURL, []byte("seed"))

	engine.Respond("", []row.Binding{
		{"subject": {Type: "uri", Value: "https://pod.example/alice/data/people#p1"}},
	})

	op := &query.Operation{
		Type:   query.OpUpdate,
		Table:  "people",
		Where:  query.Eq("name", "Alice"),
		Values: []map[string]interface{}{{"name": "Alicia"}},
	}
	out, err := d.Execute(context.Background(), op)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.NotEmpty(t, engine.Queries())
}

func TestExecuteDeleteNoOpOnMissingResource(t *testing.T) {
	d, _, _ := newFixture(t)
	table := peopleSchema(t)
	d.RegisterTable(table)

	op := &query.Operation{Type: query.OpDelete, Table: "people", Where: query.Eq("id", "p1")}
	out, err := d.Execute(context.Background(), op)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestExecuteDeleteWholeTable(t *testing.T) {
	d, fake, _ := newFixture(t)
	table := peopleSchema(t)
	d.RegisterTable(table)
	resourceURL := table.ResourceURL(d.base)
	fake.Seed(resourceURL, []byte("seed"))

	op := &query.Operation{Type: query.OpDelete, Table: "people"}
	out, err := d.Execute(context.Background(), op)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestExecuteSelectWithJoinDispatchesToFallback(t *testing.T) {
	d, _, engine := newFixture(t)
	people := peopleSchema(t)
	orders := ordersSchema(t)
	d.RegisterTable(people)
	d.RegisterTable(orders)

	engine.Respond("http://xmlns.com/foaf/0.1/Person", []row.Binding{
		{
			"subject": {Type: "uri", Value: "https://pod.example/alice/data/people#p1"},
			"name":    {Type: "literal", Value: "Alice"},
		},
	})
	engine.Respond("http://schema.org/Order", []row.Binding{
		{
			"subject":  {Type: "uri", Value: "https://pod.example/alice/data/orders#o1"},
			"personId": {Type: "literal", Value: "p1"},
			"amount":   {Type: "literal", Value: "42", Datatype: "http://www.w3.org/2001/XMLSchema#integer"},
		},
	})

	op := &query.Operation{
		Type:  query.OpSelect,
		Table: "people",
		Alias: "p",
		Joins: []*query.Join{
			{Table: "orders", Alias: "o", Type: query.JoinInner, Condition: query.Eq("o.personId", "p.id")},
		},
		Fields: []query.SelectField{
			{Column: &query.ColumnRef{Alias: "p", Name: "name"}},
			{Column: &query.ColumnRef{Alias: "o", Name: "amount"}},
		},
	}
	out, err := d.Execute(context.Background(), op)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Alice", out[0]["name"])
	assert.EqualValues(t, 42, out[0]["amount"])
}

func TestFetchTableExcludesIDColumn(t *testing.T) {
	d, _, engine := newFixture(t)
	table := peopleSchema(t)
	d.RegisterTable(table)

	engine.Respond("", []row.Binding{
		{
			"subject": {Type: "uri", Value: "https://pod.example/alice/data/people#p1"},
			"name":    {Type: "literal", Value: "Alice"},
		},
	})

	rows, err := d.FetchTable(context.Background(), "people", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Alice", rows[0]["name"])
	queries := engine.Queries()
	require.NotEmpty(t, queries)
	assert.NotContains(t, queries[0], "?subject <http://example.org/id>")
}
