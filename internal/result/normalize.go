// Package result implements the result normalizer (spec C8): typed
// conversion of SPARQL bindings into row.Row values by xsd datatype,
// subject-to-id derivation, and select-projection aliasing. It sits
// between the Pod dialect / fallback planner and the caller, and
// imports neither of those producers (only internal/row,
// internal/query, internal/drizzleerr and internal/logging), so both
// can import it.
package result

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/undefinedsco/drizzle-solid/internal/drizzleerr"
	"github.com/undefinedsco/drizzle-solid/internal/logging"
	"github.com/undefinedsco/drizzle-solid/internal/query"
	"github.com/undefinedsco/drizzle-solid/internal/row"
)

const (
	xsdInteger  = "http://www.w3.org/2001/XMLSchema#integer"
	xsdDecimal  = "http://www.w3.org/2001/XMLSchema#decimal"
	xsdDouble   = "http://www.w3.org/2001/XMLSchema#double"
	xsdBoolean  = "http://www.w3.org/2001/XMLSchema#boolean"
	xsdDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"
	xsdJSON     = "http://www.w3.org/2001/XMLSchema#json"
)

// FromBindings converts one SPARQL result set into rows: each bound
// variable becomes a column keyed by its variable name, typed per its
// xsd datatype, and "id" is derived from "subject"'s last "/" or "#"
// segment.
func FromBindings(bindings []row.Binding) []row.Row {
	out := make([]row.Row, 0, len(bindings))
	for _, b := range bindings {
		r := row.Row{}
		for name, v := range b {
			r[name] = typedValue(v)
		}
		if subj, ok := b["subject"]; ok {
			r["subject"] = subj.Value
			r["id"] = deriveID(subj.Value)
		}
		out = append(out, r)
	}
	return out
}

// deriveID takes the substring of subject after its last "/" or "#".
func deriveID(subject string) string {
	idx := strings.LastIndexAny(subject, "/#")
	if idx < 0 {
		return subject
	}
	return subject[idx+1:]
}

// typedValue converts one binding value per its xsd datatype (spec
// §4.6). Parse failures are not fatal: they surface as the raw string
// and are logged, per the ParseError contract in internal/drizzleerr.
func typedValue(v row.BindingValue) interface{} {
	if v.Type == "uri" {
		return v.Value
	}
	switch v.Datatype {
	case xsdInteger:
		n, err := strconv.ParseInt(v.Value, 10, 64)
		if err != nil {
			logParseError(v, err)
			return v.Value
		}
		return n
	case xsdDecimal, xsdDouble:
		f, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			logParseError(v, err)
			return v.Value
		}
		return f
	case xsdBoolean:
		b, err := strconv.ParseBool(v.Value)
		if err != nil {
			logParseError(v, err)
			return v.Value
		}
		return b
	case xsdDateTime:
		return v.Value
	case xsdJSON:
		var parsed interface{}
		if err := json.Unmarshal([]byte(v.Value), &parsed); err != nil {
			logParseError(v, err)
			return v.Value
		}
		return parsed
	default:
		if v.Datatype != "" && v.Datatype != "http://www.w3.org/2001/XMLSchema#string" {
			logParseError(v, nil)
		}
		return v.Value
	}
}

func logParseError(v row.BindingValue, cause error) {
	err := &drizzleerr.ParseError{Value: v.Value, Datatype: v.Datatype}
	logging.Get().Warn().Err(cause).Str("value", v.Value).Str("datatype", v.Datatype).Msg(err.Error())
}

// Project reshapes rows per fields' output aliases: for each field,
// the value is drawn by exact alias match, then "alias.column"
// qualified key, then the plain column name, else the key is set to
// nil (spec §4.6). The row's "id" and "subject" are carried over when
// present. An empty fields list passes rows through unchanged.
func Project(rows []row.Row, fields []query.SelectField) []row.Row {
	if len(fields) == 0 {
		return rows
	}
	out := make([]row.Row, 0, len(rows))
	for _, r := range rows {
		projected := row.Row{}
		if id, ok := r["id"]; ok {
			projected["id"] = id
		}
		if subj, ok := r["subject"]; ok {
			projected["subject"] = subj
		}
		for _, f := range fields {
			name := f.OutputName()
			projected[name] = resolveField(r, f, name)
		}
		out = append(out, projected)
	}
	return out
}

func resolveField(r row.Row, f query.SelectField, outputName string) interface{} {
	if v, ok := r[outputName]; ok {
		return v
	}
	if f.Column != nil && f.Column.Qualified() {
		if v, ok := r[f.Column.Alias+"."+f.Column.Name]; ok {
			return v
		}
	}
	if f.Column != nil {
		if v, ok := r[f.Column.Name]; ok {
			return v
		}
	}
	return nil
}
