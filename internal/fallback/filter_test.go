package fallback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/undefinedsco/drizzle-solid/internal/query"
	"github.com/undefinedsco/drizzle-solid/internal/row"
)

func TestMatchesBinaryOperators(t *testing.T) {
	r := row.Row{"age": int64(30), "name": "Alice"}

	cases := []struct {
		cond query.Condition
		want bool
	}{
		{query.Eq("age", 30), true},
		{query.Ne("age", 30), false},
		{query.Lt("age", 31), true},
		{query.Gte("age", 30), true},
		{query.Like("name", "Al%"), true},
		{query.Like("name", "bob%"), false},
		{query.InArray("age", []interface{}{1, 30, 99}), true},
		{query.NotInArray("age", []interface{}{1, 2}), true},
	}
	for _, c := range cases {
		got, err := matches(c.cond, r)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestMatchesIsNull(t *testing.T) {
	r := row.Row{"age": nil}
	ok, err := matches(query.IsNull("age"), r)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = matches(query.IsNotNull("age"), r)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchesNot(t *testing.T) {
	r := row.Row{"age": int64(30)}
	ok, err := matches(query.Not(query.Eq("age", 30)), r)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMatchesAndOr(t *testing.T) {
	r := row.Row{"age": int64(30), "name": "Alice"}
	ok, err := matches(query.And(query.Eq("age", 30), query.Eq("name", "Alice")), r)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = matches(query.Or(query.Eq("age", 99), query.Eq("name", "Alice")), r)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLikeToRegexTranslatesWildcards(t *testing.T) {
	assert.Equal(t, "^foo.*$", likeToRegex("foo%"))
	assert.Equal(t, "^a.b$", likeToRegex("a_b"))
}
