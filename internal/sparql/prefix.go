package sparql

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// fixedPrefixes are always declared on every compiled statement,
// regardless of whether the table/query at hand uses them.
var fixedPrefixes = []struct {
	Prefix string
	URI    string
}{
	{"rdf", "http://www.w3.org/1999/02/22-rdf-syntax-ns#"},
	{"rdfs", "http://www.w3.org/2000/01/rdf-schema#"},
	{"schema", "http://schema.org/"},
	{"foaf", "http://xmlns.com/foaf/0.1/"},
	{"dc", "http://purl.org/dc/elements/1.1/"},
	{"solid", "http://www.w3.org/ns/solid/terms#"},
	{"ldp", "http://www.w3.org/ns/ldp#"},
	{"xsd", "http://www.w3.org/2001/XMLSchema#"},
}

// Translator renders Operation IR into SPARQL 1.1 statement text. It
// carries a mutable prefix registry: AddPrefix registers additional
// prefixes that take effect on every statement compiled afterward.
type Translator struct {
	extra      []string // insertion order
	extraURIs  map[string]string
}

// NewTranslator returns a Translator seeded with the fixed prefixes.
func NewTranslator() *Translator {
	return &Translator{extraURIs: make(map[string]string)}
}

// AddPrefix registers a custom prefix for subsequent compilations.
// Re-registering an existing prefix overwrites its URI without
// changing its declaration order.
func (t *Translator) AddPrefix(prefix, uri string) {
	if _, exists := t.extraURIs[prefix]; !exists {
		t.extra = append(t.extra, prefix)
	}
	t.extraURIs[prefix] = uri
}

// allPrefixes returns the fixed prefixes followed by custom ones in
// registration order.
func (t *Translator) allPrefixes() []struct{ Prefix, URI string } {
	out := make([]struct{ Prefix, URI string }, 0, len(fixedPrefixes)+len(t.extra))
	for _, p := range fixedPrefixes {
		out = append(out, struct{ Prefix, URI string }{p.Prefix, p.URI})
	}
	for _, p := range t.extra {
		out = append(out, struct{ Prefix, URI string }{p, t.extraURIs[p]})
	}
	return out
}

// prefixHeader renders one "PREFIX p: <uri>" line per known prefix.
func (t *Translator) prefixHeader() string {
	var b strings.Builder
	for _, p := range t.allPrefixes() {
		fmt.Fprintf(&b, "PREFIX %s: <%s>\n", p.Prefix, p.URI)
	}
	return b.String()
}

var prefixRefPattern = regexp.MustCompile(`(?:^|[\s(,{^])([A-Za-z][A-Za-z0-9_-]*):[A-Za-z_]`)

// UsedPrefixes scans compiled SPARQL text for prefix:local references
// (outside of the PREFIX declaration lines themselves) and returns the
// sorted, deduplicated list of prefix names actually referenced. Tests
// use this to check the prefix-closure property: every prefix the body
// references must have a corresponding PREFIX declaration.
func UsedPrefixes(sparqlText string) []string {
	seen := map[string]struct{}{}
	for _, line := range strings.Split(sparqlText, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "PREFIX ") {
			continue
		}
		for _, m := range prefixRefPattern.FindAllStringSubmatch(line, -1) {
			seen[m[1]] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
