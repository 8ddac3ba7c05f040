package pod

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/undefinedsco/drizzle-solid/internal/drizzleerr"
	"github.com/undefinedsco/drizzle-solid/internal/podtest"
)

func newTestDialectRetry(t *testing.T, fake *podtest.FakeSession, retry RetryPolicy) *Dialect {
	t.Helper()
	cache := NewResponseCache(podtest.NewMemStore(), 0)
	d := &Dialect{
		session: fake,
		queries: fake,
		cache:   cache,
		retry:   retry,
		base:    "https://pod.example/alice/",
	}
	return d
}

func TestSparqlUpdateSucceedsImmediately(t *testing.T) {
	fake := podtest.NewFakeSession("https://pod.example/alice/profile/card#me")
	fake.Seed("https://pod.example/alice/data/people.ttl", []byte("seed"))
	d := newTestDialectRetry(t, fake, RetryPolicy{ConflictRetries: 2, PUTFallback: true})

	err := d.sparqlUpdate(context.Background(), "https://pod.example/alice/data/people.ttl", "INSERT DATA { }")
	require.NoError(t, err)
}

func TestSparqlUpdateRetriesThenSucceeds(t *testing.T) {
	fake := podtest.NewFakeSession("https://pod.example/alice/profile/card#me")
	fake.Seed("https://pod.example/alice/data/people.ttl", []byte("seed"))
	fake.ScriptConflicts("https://pod.example/alice/data/people.ttl", 2)
	d := newTestDialectRetry(t, fake, RetryPolicy{ConflictRetries: 3, PUTFallback: true})

	err := d.sparqlUpdate(context.Background(), "https://pod.example/alice/data/people.ttl", "INSERT DATA { }")
	require.NoError(t, err)
}

func TestSparqlUpdateFallsBackToPUTAfterRetriesExhausted(t *testing.T) {
	fake := podtest.NewFakeSession("https://pod.example/alice/profile/card#me")
	fake.Seed("https://pod.example/alice/data/people.ttl", []byte("seed"))
	// More conflicts scripted than ConflictRetries covers, so the PATCH
	// ladder is exhausted and the PUT fallback (which doesn't share the
	// PATCH conflict counter) must be the one that succeeds.
	fake.ScriptConflicts("https://pod.example/alice/data/people.ttl", 1)
	d := newTestDialectRetry(t, fake, RetryPolicy{ConflictRetries: 0, PUTFallback: true})

	err := d.sparqlUpdate(context.Background(), "https://pod.example/alice/data/people.ttl", "INSERT DATA { }")
	require.NoError(t, err)
}

func TestSparqlUpdateFailsWhenNoFallbackConfigured(t *testing.T) {
	fake := podtest.NewFakeSession("https://pod.example/alice/profile/card#me")
	fake.Seed("https://pod.example/alice/data/people.ttl", []byte("seed"))
	fake.ScriptConflicts("https://pod.example/alice/data/people.ttl", 5)
	d := newTestDialectRetry(t, fake, RetryPolicy{ConflictRetries: 1, PUTFallback: false})

	err := d.sparqlUpdate(context.Background(), "https://pod.example/alice/data/people.ttl", "INSERT DATA { }")
	assert.Error(t, err)
}

func TestSparqlUpdatePropagatesOtherTransportErrors(t *testing.T) {
	fake := podtest.NewFakeSession("https://pod.example/alice/profile/card#me")
	fake.Seed("https://pod.example/alice/data/people.ttl", []byte("seed"))
	fake.ScriptFailure("https://pod.example/alice/data/people.ttl", 500)
	d := newTestDialectRetry(t, fake, RetryPolicy{})

	err := d.sparqlUpdate(context.Background(), "https://pod.example/alice/data/people.ttl", "INSERT DATA { }")
	assert.Error(t, err)
	assert.True(t, drizzleerr.IsTransportError(err))
}
