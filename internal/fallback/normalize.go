package fallback

import "github.com/undefinedsco/drizzle-solid/internal/row"

// withAlias clones each row, adding "alias.col" (and "alias.id",
// "alias.subject") entries alongside the existing plain keys, per the
// row-normalization step (spec §4.5). Rows belonging to the unaliased
// primary table are returned unchanged.
func withAlias(rows []row.Row, alias string) []row.Row {
	if alias == "" {
		return rows
	}
	out := make([]row.Row, len(rows))
	for i, r := range rows {
		nr := r.Clone()
		for k, v := range r {
			nr[alias+"."+k] = v
		}
		out[i] = nr
	}
	return out
}

// columnValue resolves a ColumnRef against a (possibly alias-qualified)
// merged row.
func columnValue(r row.Row, alias, name string) interface{} {
	if alias == "" {
		return r[name]
	}
	return r[alias+"."+name]
}
