package schema

import (
	"fmt"
	"strings"
)

// Namespace is a prefix/URI pair used as the default predicate base for
// a table's columns when a column doesn't declare its own predicate.
type Namespace struct {
	Prefix string
	URI    string
}

// Table is the identity-by-name schema model for one RDF resource type.
// Tables are constructed once at schema registration and are immutable
// afterward: containerPath never changes, and columns are only added
// during construction.
type Table struct {
	Name          string
	ContainerPath string
	RDFClass      string
	Namespace     *Namespace
	AutoRegister  bool

	order   []string
	columns map[string]*Column
}

// TableOption configures a Table at construction time.
type TableOption func(*Table)

// WithNamespace sets the table's default predicate namespace.
func WithNamespace(prefix, uri string) TableOption {
	return func(t *Table) { t.Namespace = &Namespace{Prefix: prefix, URI: uri} }
}

// WithAutoRegister sets the autoRegister hint (external to the core;
// carried through for callers that do their own TypeIndex bookkeeping).
func WithAutoRegister(v bool) TableOption {
	return func(t *Table) { t.AutoRegister = v }
}

// NewTable constructs a table. containerPath must end with "/" (an
// absolute containerPath, i.e. one that already starts with a scheme or
// leading slash, is accepted as-is). rdfClass must be an absolute URI.
func NewTable(name, containerPath, rdfClass string, opts ...TableOption) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("schema: table name must not be empty")
	}
	if !strings.HasSuffix(containerPath, "/") {
		return nil, fmt.Errorf("schema: table %q containerPath %q must end with \"/\"", name, containerPath)
	}
	if !isAbsoluteURI(rdfClass) {
		return nil, fmt.Errorf("schema: table %q rdfClass %q must be an absolute URI", name, rdfClass)
	}

	t := &Table{
		Name:          name,
		ContainerPath: containerPath,
		RDFClass:      rdfClass,
		columns:       make(map[string]*Column),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// AddColumn appends a column to the table, validating it and assigning
// the column's table back-reference. Returns an error if the column is
// invalid or a second primary key is declared.
func (t *Table) AddColumn(col Column) (*Column, error) {
	if err := col.validate(); err != nil {
		return nil, err
	}
	if _, exists := t.columns[col.Name]; exists {
		return nil, fmt.Errorf("schema: table %q already has a column %q", t.Name, col.Name)
	}
	if col.PrimaryKey {
		if pk := t.PrimaryKey(); pk != nil {
			return nil, fmt.Errorf("schema: table %q already has a primary key %q", t.Name, pk.Name)
		}
	}

	c := col
	c.table = t
	t.columns[c.Name] = &c
	t.order = append(t.order, c.Name)
	return &c, nil
}

// Column returns the named column, or nil if it doesn't exist.
func (t *Table) Column(name string) *Column {
	return t.columns[name]
}

// Columns returns the table's columns in declaration order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.columns[name])
	}
	return out
}

// PrimaryKey returns the table's primary key column, or nil if none was
// declared.
func (t *Table) PrimaryKey() *Column {
	for _, name := range t.order {
		if c := t.columns[name]; c.PrimaryKey {
			return c
		}
	}
	return nil
}

func isAbsoluteURI(uri string) bool {
	idx := strings.Index(uri, "://")
	return idx > 0
}
