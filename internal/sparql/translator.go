// Package sparql implements the SPARQL 1.1 translator (spec C5): it
// renders the query-builder's Operation IR into SELECT/INSERT
// DATA/DELETE WHERE statement text against one table's resource, in
// the same Build*/*Clause shape the teacher's SQL query builder uses,
// adapted from placeholder-bound SQL to inline-literal SPARQL (SPARQL
// UPDATE carries no server-side bind parameters over HTTP PATCH).
package sparql

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/undefinedsco/drizzle-solid/internal/drizzleerr"
	"github.com/undefinedsco/drizzle-solid/internal/query"
	"github.com/undefinedsco/drizzle-solid/internal/schema"
)

// nowMillis is the clock CompileInsert reads to mint an id when a row
// omits one (spec §3 "A missing id uses the system time in
// milliseconds"). It's a package variable so tests can simulate a
// stopped/unavailable clock and exercise the uuid fallback below.
var nowMillis = func() int64 { return time.Now().UnixMilli() }

// generateID mints an id for a row that didn't supply one: the
// current time in milliseconds, or a uuid if the clock reads zero
// (the "system clock unavailable" case nowMillis can be stubbed to in
// tests).
func generateID() string {
	if ms := nowMillis(); ms != 0 {
		return strconv.FormatInt(ms, 10)
	}
	return uuid.New().String()
}

// CompileSelect renders a SELECT statement scoped to table's resource.
// base is the pod-base-plus-user-path prefix (see schema.Table.SubjectURI).
func (t *Translator) CompileSelect(op *query.Operation, table *schema.Table, base string) (string, error) {
	if op.Type != query.OpSelect {
		return "", drizzleerr.NewProgrammerError("sparql: CompileSelect requires a select operation")
	}

	fields := op.Fields
	if len(fields) == 0 {
		return "", drizzleerr.NewProgrammerError("sparql: select has no fields")
	}

	var vars []string
	var bgps []string
	bgps = append(bgps, fmt.Sprintf("?subject a <%s> .", table.RDFClass))

	seen := map[string]bool{}
	emitColumnBGP := func(ref query.ColumnRef) (*schema.Column, error) {
		if ref.IsID() {
			return nil, nil
		}
		col := ref.Col
		if col == nil {
			col = table.Column(ref.Name)
		}
		if col == nil {
			return nil, drizzleerr.NewProgrammerError("sparql: unknown column %q on table %q", ref.Name, table.Name)
		}
		if !seen[col.Name] {
			seen[col.Name] = true
			triple := fmt.Sprintf("?subject <%s> ?%s .", col.ResolvedPredicate(), col.Name)
			if col.Required {
				bgps = append(bgps, triple)
			} else {
				bgps = append(bgps, "OPTIONAL { "+triple+" }")
			}
		}
		return col, nil
	}

	for _, f := range fields {
		switch {
		case f.Aggregate != nil:
			expr, err := compileAggregateExpr(f.Aggregate, table, emitColumnBGP)
			if err != nil {
				return "", err
			}
			vars = append(vars, fmt.Sprintf("(%s AS ?%s)", expr, f.OutputName()))
		case f.Column != nil:
			if f.Column.IsID() {
				vars = append(vars, "?subject")
				continue
			}
			col, err := emitColumnBGP(*f.Column)
			if err != nil {
				return "", err
			}
			vars = append(vars, "?"+col.Name)
		}
	}
	if !containsVar(vars, "?subject") {
		vars = append([]string{"?subject"}, vars...)
	}

	if op.Where != nil {
		filter, err := t.renderCondition(op.Where, table, base)
		if err != nil {
			return "", err
		}
		bgps = append(bgps, "FILTER("+filter+")")
	}

	var b strings.Builder
	b.WriteString(t.prefixHeader())
	b.WriteString("SELECT ")
	if op.Distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(strings.Join(vars, " "))
	b.WriteString(" WHERE {\n  ")
	b.WriteString(strings.Join(bgps, "\n  "))
	b.WriteString("\n}")

	if len(op.GroupBy) > 0 {
		groupVars := make([]string, 0, len(op.GroupBy))
		for _, g := range op.GroupBy {
			groupVars = append(groupVars, "?"+g.Name)
		}
		b.WriteString(" GROUP BY " + strings.Join(groupVars, " "))
	}
	if len(op.OrderBy) > 0 {
		items := make([]string, 0, len(op.OrderBy))
		for _, o := range op.OrderBy {
			v := "?" + o.Column.Name
			if o.Dir == query.Desc {
				items = append(items, "DESC("+v+")")
			} else {
				items = append(items, "ASC("+v+")")
			}
		}
		b.WriteString(" ORDER BY " + strings.Join(items, " "))
	}
	if op.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", op.Limit)
	}
	if op.Offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", op.Offset)
	}

	return b.String(), nil
}

// CompileDiscoverySelect renders a bare "SELECT ?subject WHERE {...}"
// statement scoped to table's resource — the read step of the
// read-modify-write conditional update/delete path (spec §4.4.3/4.4.4).
func (t *Translator) CompileDiscoverySelect(where query.Condition, table *schema.Table, base string) (string, error) {
	bgps := []string{fmt.Sprintf("?subject a <%s> .", table.RDFClass)}
	if where != nil {
		filter, err := t.renderCondition(where, table, base)
		if err != nil {
			return "", err
		}
		bgps = append(bgps, "FILTER("+filter+")")
	}
	var b strings.Builder
	b.WriteString(t.prefixHeader())
	b.WriteString("SELECT ?subject WHERE {\n  ")
	b.WriteString(strings.Join(bgps, "\n  "))
	b.WriteString("\n}")
	return b.String(), nil
}

// compileAggregateExpr renders one aggregate as a SPARQL aggregate
// expression body (without the "AS ?alias" suffix), emitting the
// underlying column's BGP via emit if the aggregate references one.
func compileAggregateExpr(agg *query.Aggregate, table *schema.Table, emit func(query.ColumnRef) (*schema.Column, error)) (string, error) {
	if agg.Column == nil {
		return "COUNT(*)", nil
	}
	col, err := emit(*agg.Column)
	if err != nil {
		return "", err
	}
	var varExpr string
	if agg.Column.IsID() {
		varExpr = "?subject"
	} else {
		varExpr = "?" + col.Name
	}
	distinct := ""
	if agg.Distinct {
		distinct = "DISTINCT "
	}
	return fmt.Sprintf("%s(%s%s)", strings.ToUpper(string(agg.Func)), distinct, varExpr), nil
}

func containsVar(vars []string, target string) bool {
	for _, v := range vars {
		if v == target {
			return true
		}
	}
	return false
}

// CompileInsert renders a single INSERT DATA statement covering every
// value row on op, generating a subject URI per row. Returns the statement text
// and the subject URIs assigned, in row order. Raises a duplicate-ID
// programmer error if two rows in the batch share the same id.
func (t *Translator) CompileInsert(op *query.Operation, table *schema.Table, base string) (string, []string, error) {
	if op.Type != query.OpInsert {
		return "", nil, drizzleerr.NewProgrammerError("sparql: CompileInsert requires an insert operation")
	}
	if len(op.Values) == 0 {
		return "", nil, drizzleerr.NewProgrammerError("sparql: insert has no values")
	}

	seenIDs := map[string]bool{}
	subjects := make([]string, 0, len(op.Values))
	var triples []string

	for _, row := range op.Values {
		id, ok := row["id"]
		var idStr string
		if !ok || id == nil {
			idStr = generateID()
			row["id"] = idStr
		} else {
			idStr = fmt.Sprintf("%v", id)
		}
		if seenIDs[idStr] {
			return "", nil, drizzleerr.NewProgrammerError("sparql: duplicate id %q in insert batch", idStr)
		}
		seenIDs[idStr] = true

		subject := table.SubjectURI(base, idStr)
		subjects = append(subjects, subject)

		triples = append(triples, fmt.Sprintf("<%s> a <%s> .", subject, table.RDFClass))

		keys := make([]string, 0, len(row))
		for k := range row {
			if k == "id" {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v := row[k]
			if v == nil {
				continue
			}
			col := table.Column(k)
			if col == nil {
				return "", nil, drizzleerr.NewProgrammerError("sparql: unknown column %q on table %q", k, table.Name)
			}
			triples = append(triples, fmt.Sprintf("<%s> <%s> %s .", subject, col.ResolvedPredicate(), formatLiteral(col, v)))
		}
	}

	var b strings.Builder
	b.WriteString(t.prefixHeader())
	b.WriteString("INSERT DATA {\n  ")
	b.WriteString(strings.Join(triples, "\n  "))
	b.WriteString("\n}")
	return b.String(), subjects, nil
}

// CompileUpdateNative renders the native bypass update for a single
// known subject: one DELETE WHERE per changed predicate followed by
// one INSERT DATA for the new triples, separated by ";" (spec §4.3).
func (t *Translator) CompileUpdateNative(table *schema.Table, subject string, set map[string]interface{}) (string, error) {
	if len(set) == 0 {
		return "", drizzleerr.NewProgrammerError("sparql: update has no set values")
	}

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var stmts []string
	var inserts []string
	for _, k := range keys {
		col := table.Column(k)
		if col == nil {
			return "", drizzleerr.NewProgrammerError("sparql: unknown column %q on table %q", k, table.Name)
		}
		pred := col.ResolvedPredicate()
		stmts = append(stmts, fmt.Sprintf("%sDELETE WHERE { <%s> <%s> ?old%s . }", t.prefixHeader(), subject, pred, col.Name))

		v := set[k]
		if v != nil {
			inserts = append(inserts, fmt.Sprintf("<%s> <%s> %s .", subject, pred, formatLiteral(col, v)))
		}
	}
	if len(inserts) > 0 {
		stmts = append(stmts, fmt.Sprintf("%sINSERT DATA {\n  %s\n}", t.prefixHeader(), strings.Join(inserts, "\n  ")))
	}
	return strings.Join(stmts, " ;\n"), nil
}

// CompileDeleteNative renders the native delete for a single known
// subject (DELETE WHERE { <subj> ?p ?o . }), or — when subject is
// empty — the rdfClass-scoped delete-everything form.
func (t *Translator) CompileDeleteNative(table *schema.Table, subject string) string {
	var b strings.Builder
	b.WriteString(t.prefixHeader())
	if subject != "" {
		fmt.Fprintf(&b, "DELETE WHERE { <%s> ?p ?o . }", subject)
		return b.String()
	}
	fmt.Fprintf(&b, "DELETE WHERE { ?subject a <%s> . ?subject ?p ?o . }", table.RDFClass)
	return b.String()
}
