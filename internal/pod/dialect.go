package pod

import (
	"context"
	"fmt"
	"strings"

	"github.com/undefinedsco/drizzle-solid/internal/drizzleerr"
	"github.com/undefinedsco/drizzle-solid/internal/fallback"
	"github.com/undefinedsco/drizzle-solid/internal/query"
	"github.com/undefinedsco/drizzle-solid/internal/result"
	"github.com/undefinedsco/drizzle-solid/internal/row"
	"github.com/undefinedsco/drizzle-solid/internal/schema"
	"github.com/undefinedsco/drizzle-solid/internal/sparql"
)

// Dialect is the Pod query.Executor (spec C6): it compiles an
// Operation to SPARQL, preflights the target container/resource,
// executes the native single-resource path directly, and dispatches
// anything requiring joins/group-by/aggregates to internal/fallback,
// supplying itself as the fallback's TableFetcher.
type Dialect struct {
	session Session
	queries Session // session wrapped with the response cache, used for engine reads
	engine  SparqlEngine
	tr      *sparql.Translator
	cache   *ResponseCache
	retry   RetryPolicy
	base    string // podBase + userPath, derived once from session.WebID()

	tables map[string]*schema.Table
}

// NewDialect constructs a Dialect bound to an authenticated session.
// It derives the pod base from the session's webId (spec §3) and fails
// with a drizzleerr.NotLoggedInError if the session isn't logged in or
// carries no webId.
func NewDialect(session Session, engine SparqlEngine, cache *ResponseCache, retry RetryPolicy, tr *sparql.Translator) (*Dialect, error) {
	if !session.IsLoggedIn() {
		return nil, &drizzleerr.NotLoggedInError{Msg: "session is not logged in"}
	}
	if session.WebID() == "" {
		return nil, &drizzleerr.NotLoggedInError{Msg: "session has no webId"}
	}
	base, err := podBaseFromWebID(session.WebID())
	if err != nil {
		return nil, &drizzleerr.NotLoggedInError{Msg: "session webId is not a valid URL: " + err.Error()}
	}
	return &Dialect{
		session: session,
		queries: &cachingSession{Session: session, cache: cache},
		engine:  engine,
		tr:      tr,
		cache:   cache,
		retry:   retry,
		base:    base,
		tables:  make(map[string]*schema.Table),
	}, nil
}

// RegisterTable makes table visible to dialect execution by name.
func (d *Dialect) RegisterTable(table *schema.Table) {
	d.tables[table.Name] = table
}

func (d *Dialect) table(name string) (*schema.Table, error) {
	t, ok := d.tables[name]
	if !ok {
		return nil, drizzleerr.NewProgrammerError("pod: table %q is not registered", name)
	}
	return t, nil
}

// Execute implements query.Executor, dispatching to the native path or
// the fallback planner per spec §4.4.6.
func (d *Dialect) Execute(ctx context.Context, op *query.Operation) ([]row.Row, error) {
	table, err := d.table(op.Table)
	if err != nil {
		return nil, err
	}

	switch op.Type {
	case query.OpSelect:
		if op.RequiresFallback() {
			return fallback.Execute(ctx, op, d)
		}
		return d.executeNativeSelect(ctx, op, table)
	case query.OpInsert:
		return d.executeInsert(ctx, op, table)
	case query.OpUpdate:
		return d.executeUpdate(ctx, op, table)
	case query.OpDelete:
		return d.executeDelete(ctx, op, table)
	default:
		return nil, drizzleerr.NewProgrammerError("pod: unsupported operation type %q", op.Type)
	}
}

// FetchTable implements fallback.TableFetcher: a plain, unfiltered
// select of every declared column of tableName, narrowed by where,
// dispatched through the native path (RequiresFallback is always false
// for this shape since it carries no joins/aggregation of its own).
func (d *Dialect) FetchTable(ctx context.Context, tableName string, where query.Condition) ([]row.Row, error) {
	table, err := d.table(tableName)
	if err != nil {
		return nil, err
	}
	op := &query.Operation{
		Type:  query.OpSelect,
		Table: tableName,
		Where: where,
	}
	for _, col := range table.Columns() {
		if col.Name == "id" {
			continue
		}
		ref := query.ColumnRef{Name: col.Name, Col: col}
		op.Fields = append(op.Fields, query.SelectField{Column: &ref})
	}
	return d.executeNativeSelect(ctx, op, table)
}

func (d *Dialect) executeNativeSelect(ctx context.Context, op *query.Operation, table *schema.Table) ([]row.Row, error) {
	sparqlText, err := d.tr.CompileSelect(op, table, d.base)
	if err != nil {
		return nil, err
	}
	resourceURL := table.ResourceURL(d.base)
	bindings, err := d.engine.QueryBindings(ctx, sparqlText, resourceURL, d.queries)
	if err != nil {
		return nil, err
	}
	return result.Project(result.FromBindings(bindings), op.Fields), nil
}

// executeInsert preflights the container and resource, checks for a
// pre-existing subject per row, then issues one INSERT DATA covering
// the whole batch (spec §4.4.1/§4.4.2).
func (d *Dialect) executeInsert(ctx context.Context, op *query.Operation, table *schema.Table) ([]row.Row, error) {
	if err := d.ensureContainer(ctx, table); err != nil {
		return nil, err
	}
	resourceURL := table.ResourceURL(d.base)
	created, err := d.ensureResource(ctx, resourceURL)
	if err != nil {
		return nil, err
	}

	if !created {
		if err := d.rejectExistingSubjects(ctx, table, resourceURL, op.Values); err != nil {
			return nil, err
		}
	}

	sparqlText, subjects, err := d.tr.CompileInsert(op, table, d.base)
	if err != nil {
		return nil, err
	}
	if err := d.sparqlUpdate(ctx, resourceURL, sparqlText); err != nil {
		return nil, err
	}

	out := make([]row.Row, 0, len(op.Values))
	for i, values := range op.Values {
		r := row.Row{"subject": subjects[i], "id": values["id"]}
		for k, v := range values {
			r[k] = v
		}
		out = append(out, r)
	}
	return out, nil
}

func (d *Dialect) rejectExistingSubjects(ctx context.Context, table *schema.Table, resourceURL string, rows []map[string]interface{}) error {
	resp, err := d.session.Fetch(ctx, "GET", resourceURL, nil, nil)
	if err != nil {
		return err
	}
	if resp.Status != 200 {
		return nil
	}
	body := string(resp.Body)
	for _, values := range rows {
		idStr := stringifyID(values["id"])
		if idStr == "" {
			continue
		}
		subject := table.SubjectURI(d.base, idStr)
		if strings.Contains(body, "<"+subject+">") {
			return &drizzleerr.ResourceExistsError{Subject: subject}
		}
	}
	return nil
}

// executeUpdate applies a read-modify-write: discover matching
// subjects, then issue one native update per subject (spec §4.4.3).
// When the where clause is a single id equality or membership test the
// discovery read is skipped and the subjects are derived directly.
func (d *Dialect) executeUpdate(ctx context.Context, op *query.Operation, table *schema.Table) ([]row.Row, error) {
	if len(op.Values) != 1 {
		return nil, drizzleerr.NewProgrammerError("pod: update requires exactly one value set")
	}
	resourceURL := table.ResourceURL(d.base)
	if err := d.requireResource(ctx, resourceURL); err != nil {
		return nil, err
	}

	subjects, err := d.resolveSubjects(ctx, op.Where, table, resourceURL)
	if err != nil {
		return nil, err
	}

	set := op.Values[0]
	out := make([]row.Row, 0, len(subjects))
	for _, subject := range subjects {
		sparqlText, err := d.tr.CompileUpdateNative(table, subject, set)
		if err != nil {
			return nil, err
		}
		if err := d.sparqlUpdate(ctx, resourceURL, sparqlText); err != nil {
			return nil, err
		}
		r := row.Row{"subject": subject}
		for k, v := range set {
			r[k] = v
		}
		out = append(out, r)
	}
	return out, nil
}

// executeDelete mirrors executeUpdate: discover matching subjects (or
// bypass to the whole-table form when op.Where is nil), then issue one
// native delete per subject. Per spec §4.4.4, a missing target
// resource is a no-op success, not a NotFoundError.
func (d *Dialect) executeDelete(ctx context.Context, op *query.Operation, table *schema.Table) ([]row.Row, error) {
	resourceURL := table.ResourceURL(d.base)
	exists, err := d.resourceExists(ctx, resourceURL)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	if op.Where == nil {
		sparqlText := d.tr.CompileDeleteNative(table, "")
		if err := d.sparqlUpdate(ctx, resourceURL, sparqlText); err != nil {
			return nil, err
		}
		return nil, nil
	}

	subjects, err := d.resolveSubjects(ctx, op.Where, table, resourceURL)
	if err != nil {
		return nil, err
	}
	out := make([]row.Row, 0, len(subjects))
	for _, subject := range subjects {
		sparqlText := d.tr.CompileDeleteNative(table, subject)
		if err := d.sparqlUpdate(ctx, resourceURL, sparqlText); err != nil {
			return nil, err
		}
		out = append(out, row.Row{"subject": subject})
	}
	return out, nil
}

// resolveSubjects returns the subject URIs a where clause matches.
// Single id equality/membership is rewritten to subject URIs directly,
// bypassing the discovery read; anything else runs CompileDiscoverySelect.
func (d *Dialect) resolveSubjects(ctx context.Context, where query.Condition, table *schema.Table, resourceURL string) ([]string, error) {
	if ids, ok := idLiteralsFromCondition(where); ok {
		subjects := make([]string, len(ids))
		for i, id := range ids {
			subjects[i] = table.SubjectURI(d.base, id)
		}
		return subjects, nil
	}

	sparqlText, err := d.tr.CompileDiscoverySelect(where, table, d.base)
	if err != nil {
		return nil, err
	}
	bindings, err := d.engine.QueryBindings(ctx, sparqlText, resourceURL, d.queries)
	if err != nil {
		return nil, err
	}
	subjects := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if v, ok := b["subject"]; ok {
			subjects = append(subjects, v.Value)
		}
	}
	return subjects, nil
}

// idLiteralsFromCondition recognizes `id = v` and `id IN (v...)` at the
// top of a where clause, the cheap bypass case spec §4.4.3/4.4.4 calls
// out explicitly. Anything more complex (AND/OR, other columns) falls
// through to the discovery read.
func idLiteralsFromCondition(where query.Condition) ([]string, bool) {
	bc, ok := where.(*query.BinaryCondition)
	if !ok || !bc.Column.IsID() {
		return nil, false
	}
	switch bc.Op {
	case query.OpEq:
		return []string{stringifyID(bc.Value)}, true
	case query.OpIn:
		values, ok := bc.Value.([]interface{})
		if !ok {
			return nil, false
		}
		ids := make([]string, len(values))
		for i, v := range values {
			ids[i] = stringifyID(v)
		}
		return ids, true
	default:
		return nil, false
	}
}

func stringifyID(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
