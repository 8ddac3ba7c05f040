package query

import "sort"

// conditionFromMap converts the plain-map form of .where() into a
// Condition tree: an implicit AND of equalities, where a nil value
// means IS NULL and a slice value means IN. Keys are sorted so the
// generated condition tree (and therefore the SPARQL text) is
// deterministic across runs for the same map.
func conditionFromMap(m map[string]interface{}) Condition {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	children := make([]Condition, 0, len(keys))
	for _, k := range keys {
		v := m[k]
		switch val := v.(type) {
		case nil:
			children = append(children, IsNull(k))
		case []interface{}:
			children = append(children, InArray(k, val))
		default:
			children = append(children, Eq(k, v))
		}
	}
	if len(children) == 1 {
		return children[0]
	}
	return And(children...)
}

// normalizeWhere accepts either a Condition or a plain
// map[string]interface{} (as .where() does throughout spec §4.2) and
// returns a Condition tree.
func normalizeWhere(v interface{}) Condition {
	switch c := v.(type) {
	case nil:
		return nil
	case Condition:
		return c
	case map[string]interface{}:
		return conditionFromMap(c)
	default:
		panic("query: where() accepts a Condition or map[string]interface{}")
	}
}
