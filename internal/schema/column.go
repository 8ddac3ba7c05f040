package schema

import "fmt"

// ColumnType is the semantic type of a column's values. Six variants are
// supported; literal formatting and default predicate resolution both
// dispatch on this tag.
type ColumnType string

const (
	TypeString   ColumnType = "string"
	TypeInteger  ColumnType = "integer"
	TypeBoolean  ColumnType = "boolean"
	TypeDateTime ColumnType = "datetime"
	TypeJSON     ColumnType = "json"
	TypeObject   ColumnType = "object"
)

// defaultPredicates maps well-known field names to a built-in predicate
// URI, used when a column declares neither an explicit predicate nor a
// namespace.
var defaultPredicates = map[string]string{
	"name":        "http://xmlns.com/foaf/0.1/name",
	"title":       "http://purl.org/dc/elements/1.1/title",
	"description": "http://purl.org/dc/elements/1.1/description",
	"content":     "http://purl.org/dc/elements/1.1/description",
	"createdAt":   "http://schema.org/dateCreated",
	"updatedAt":   "http://schema.org/dateModified",
	"email":       "http://xmlns.com/foaf/0.1/mbox",
	"url":         "http://xmlns.com/foaf/0.1/homepage",
	"homepage":    "http://xmlns.com/foaf/0.1/homepage",
}

// Column describes one field of a Table.
type Column struct {
	Name            string
	Type            ColumnType
	Predicate       string // explicit override; empty means "resolve it"
	ReferenceTarget string // advisory URI base used for reference-typed literals
	PrimaryKey      bool
	Required        bool
	DefaultValue    interface{}

	table *Table // back reference, assigned once by Table.AddColumn
}

// Table returns the owning table. Columns always belong to exactly one
// table, assigned when the column is added to it.
func (c *Column) Table() *Table {
	return c.table
}

// ResolvedPredicate resolves the column's predicate URI following the
// order defined in spec §3: explicit predicate > namespace.uri+name >
// built-in default > http://example.org/<name>.
func (c *Column) ResolvedPredicate() string {
	if c.Predicate != "" {
		return c.Predicate
	}
	if c.table != nil && c.table.Namespace != nil {
		return c.table.Namespace.URI + c.Name
	}
	if p, ok := defaultPredicates[c.Name]; ok {
		return p
	}
	return "http://example.org/" + c.Name
}

func (c *Column) validate() error {
	if c.Name == "" {
		return fmt.Errorf("schema: column must have a name")
	}
	if c.PrimaryKey && !c.Required {
		return fmt.Errorf("schema: primary key column %q must be required", c.Name)
	}
	switch c.Type {
	case TypeString, TypeInteger, TypeBoolean, TypeDateTime, TypeJSON, TypeObject:
	case "":
		c.Type = TypeString
	default:
		return fmt.Errorf("schema: column %q has unknown type %q", c.Name, c.Type)
	}
	return nil
}
