// Package pod implements the Pod dialect and executor (spec C6): it
// derives resource URLs from a webId, preflights containers/resources,
// executes the native SPARQL path directly and dispatches the
// fallback path (joins, group-by, aggregates) to internal/fallback,
// applies the 409-conflict retry ladder on SPARQL UPDATE transport,
// and caches GET responses with TTL + write invalidation.
//
// It is grounded on the teacher's internal/database package: the
// Executor/AdminExecutor interface split becomes the Session/
// SparqlEngine split below, and SchemaCache's TTL+explicit-invalidate
// shape becomes the response cache in cache.go.
package pod

import (
	"context"

	"github.com/undefinedsco/drizzle-solid/internal/row"
)

// Session is the authentication/transport contract consumed from the
// host application (spec §6). It is deliberately small: DPoP, cookie
// jars, and token refresh are transparent to this package.
type Session interface {
	IsLoggedIn() bool
	WebID() string
	Fetch(ctx context.Context, method, url string, headers map[string]string, body []byte) (*HTTPResponse, error)
}

// HTTPResponse is the shape returned by Session.Fetch.
type HTTPResponse struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

// SparqlEngine is the query contract consumed from the host
// application (spec §6): SELECT execution and the boolean ASK form.
// Update transport (PATCH) does not go through this interface — it is
// a plain authenticated HTTP call issued via Session.Fetch. Bindings
// use row.Binding/row.BindingValue rather than types local to this
// package so that internal/result can normalize them without either
// package importing the other.
type SparqlEngine interface {
	QueryBindings(ctx context.Context, sparqlText, sourceURL string, session Session) ([]row.Binding, error)
	QueryBoolean(ctx context.Context, sparqlText, sourceURL string, session Session) (bool, error)
}
