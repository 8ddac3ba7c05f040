package sparql

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/undefinedsco/drizzle-solid/internal/schema"
)

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// formatLiteral renders value as a SPARQL literal or IRI, dispatching
// on the column's declared type (spec §4.3). A nil value has no
// literal form; callers must check for it before calling.
func formatLiteral(col *schema.Column, value interface{}) string {
	if col != nil && col.ReferenceTarget != "" {
		if n, ok := numericLiteral(value); ok {
			return fmt.Sprintf("<%s/%s>", strings.TrimSuffix(col.ReferenceTarget, "/"), n)
		}
	}

	var typ schema.ColumnType
	if col != nil {
		typ = col.Type
	}

	switch typ {
	case schema.TypeInteger:
		if n, ok := numericLiteral(value); ok {
			return n
		}
		return quotedString(fmt.Sprintf("%v", value))
	case schema.TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			b, _ = strconv.ParseBool(fmt.Sprintf("%v", value))
		}
		return fmt.Sprintf(`"%t"^^xsd:boolean`, b)
	case schema.TypeDateTime:
		return fmt.Sprintf(`"%s"^^xsd:dateTime`, fmt.Sprintf("%v", value))
	case schema.TypeJSON, schema.TypeObject:
		encoded, err := json.Marshal(value)
		if err != nil {
			encoded = []byte(fmt.Sprintf("%v", value))
		}
		return fmt.Sprintf(`"%s"^^xsd:json`, literalEscaper.Replace(string(encoded)))
	case schema.TypeString:
		return quotedString(fmt.Sprintf("%v", value))
	default:
		return quotedString(fmt.Sprintf("%v", value))
	}
}

func quotedString(s string) string {
	return `"` + literalEscaper.Replace(s) + `"`
}

// numericLiteral renders value as a bare numeric literal if it is
// already a Go numeric type or a string that parses as one.
func numericLiteral(value interface{}) (string, bool) {
	switch v := value.(type) {
	case int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", v), true
	case string:
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			return v, true
		}
	}
	return "", false
}

// likeToRegex converts a SQL-style LIKE pattern ("%" = any run, "_" =
// one character) into an anchored regex body suitable for SPARQL's
// regex() function, per spec §4.3.
func likeToRegex(pattern string) string {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteByte('.')
		default:
			if strings.ContainsRune(`.\+*?()[]{}|^$`, r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('$')
	return b.String()
}
