package sparql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixHeaderIncludesFixedPrefixes(t *testing.T) {
	tr := NewTranslator()
	header := tr.prefixHeader()
	for _, p := range []string{"rdf", "rdfs", "schema", "foaf", "dc", "solid", "ldp", "xsd"} {
		assert.Contains(t, header, "PREFIX "+p+":")
	}
}

func TestAddPrefixAppendsAndPreservesOrder(t *testing.T) {
	tr := NewTranslator()
	tr.AddPrefix("ex", "http://example.org/")
	tr.AddPrefix("ex2", "http://example.org/2/")
	header := tr.prefixHeader()

	exIdx := indexOf(header, "PREFIX ex:")
	ex2Idx := indexOf(header, "PREFIX ex2:")
	assert.True(t, exIdx >= 0 && ex2Idx >= 0 && exIdx < ex2Idx)
}

func TestAddPrefixOverwritesURIWithoutReordering(t *testing.T) {
	tr := NewTranslator()
	tr.AddPrefix("ex", "http://first.example/")
	tr.AddPrefix("ex", "http://second.example/")
	header := tr.prefixHeader()
	assert.Contains(t, header, "PREFIX ex: <http://second.example/>")
	assert.NotContains(t, header, "first.example")
}

func TestUsedPrefixesIgnoresDeclarationLines(t *testing.T) {
	text := "PREFIX foaf: <http://xmlns.com/foaf/0.1/>\nSELECT ?x WHERE { ?x foaf:name \"Alice\" . }"
	used := UsedPrefixes(text)
	assert.Equal(t, []string{"foaf"}, used)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
