package podtest

import (
	"context"
	"strings"

	"github.com/undefinedsco/drizzle-solid/internal/pod"
	"github.com/undefinedsco/drizzle-solid/internal/row"
)

// scriptedResponse is one scripted rule: QueryBindings answers with the
// first rule whose match substring is contained in the compiled SPARQL
// text.
type scriptedResponse struct {
	contains string
	bindings []row.Binding
}

// FakeEngine is a scripted pod.SparqlEngine: tests register the
// bindings a query containing a given substring should yield, instead
// of this fake re-implementing a SPARQL evaluator.
type FakeEngine struct {
	rules   []scriptedResponse
	queries []string
}

// NewFakeEngine constructs an empty scripted engine.
func NewFakeEngine() *FakeEngine { return &FakeEngine{} }

// Respond registers bindings to return for every QueryBindings call
// whose sparqlText contains substr (an empty substr matches every
// query). Rules are never consumed; the first registered matching rule
// wins.
func (e *FakeEngine) Respond(substr string, bindings []row.Binding) {
	e.rules = append(e.rules, scriptedResponse{contains: substr, bindings: bindings})
}

// Queries returns every sparqlText passed to QueryBindings, in order,
// for assertions on what the dialect actually compiled.
func (e *FakeEngine) Queries() []string { return e.queries }

func (e *FakeEngine) QueryBindings(ctx context.Context, sparqlText, sourceURL string, session pod.Session) ([]row.Binding, error) {
	e.queries = append(e.queries, sparqlText)
	for _, r := range e.rules {
		if r.contains == "" || strings.Contains(sparqlText, r.contains) {
			return r.bindings, nil
		}
	}
	return nil, nil
}

func (e *FakeEngine) QueryBoolean(ctx context.Context, sparqlText, sourceURL string, session pod.Session) (bool, error) {
	e.queries = append(e.queries, sparqlText)
	return len(e.rules) > 0, nil
}
