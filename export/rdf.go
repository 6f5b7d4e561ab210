// Package export serializes parsed ontology term graphs to RDF.
package export

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/c360studio/ontodag/dag"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"
)

// TermNamespace is the IRI prefix for exported term individuals.
const TermNamespace = "http://c360studio.io/ontodag/term/"

// Well-known predicate IRIs.
const (
	iriType       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	iriOWLClass   = "http://www.w3.org/2002/07/owl#Class"
	iriLabel      = "http://www.w3.org/2000/01/rdf-schema#label"
	iriSubClassOf = "http://www.w3.org/2000/01/rdf-schema#subClassOf"
	iriAltLabel   = "http://www.w3.org/2004/02/skos/core#altLabel"

	// BFO "part of" relation, the standard reading of the DAG format's
	// part-of edges.
	iriPartOf = "http://purl.obolibrary.org/obo/BFO_0000050"
)

// defaultPrefixes returns the namespace prefixes written in Turtle output.
func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":     "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs":    "http://www.w3.org/2000/01/rdf-schema#",
		"owl":     "http://www.w3.org/2002/07/owl#",
		"skos":    "http://www.w3.org/2004/02/skos/core#",
		"obo":     "http://purl.obolibrary.org/obo/",
		"ontodag": TermNamespace,
	}
}

// RDFExporter exports a term DAG to RDF. Every distinct term becomes one
// owl:Class; is-a edges become rdfs:subClassOf and part-of edges become
// obo:BFO_0000050 assertions on the child/component side.
type RDFExporter struct {
	prefixes map[string]string
}

// NewRDFExporter creates an exporter with the default prefix table.
func NewRDFExporter() *RDFExporter {
	return &RDFExporter{prefixes: defaultPrefixes()}
}

// Export serializes every term reachable from roots to the given format.
// Shared nodes are written once regardless of how many parents or wholes
// reference them.
func (e *RDFExporter) Export(roots []*dag.Term, format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return e.toTurtle(roots), nil
	case FormatNTriples:
		return e.toNTriples(roots), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// reverseEdges maps each term to its parents (is-a) and wholes (part-of),
// in visit order, so edge assertions can be written on the subject side.
func reverseEdges(roots []*dag.Term) (parents, wholes map[*dag.Term][]*dag.Term) {
	parents = make(map[*dag.Term][]*dag.Term)
	wholes = make(map[*dag.Term][]*dag.Term)
	dag.Walk(roots, func(t *dag.Term) {
		for _, child := range t.Children {
			parents[child] = append(parents[child], t)
		}
		for _, component := range t.Components {
			wholes[component] = append(wholes[component], t)
		}
	})
	return parents, wholes
}

// TermIRI returns the IRI minted for a term ID.
func TermIRI(id string) string {
	return TermNamespace + url.PathEscape(id)
}

// toTurtle serializes to Turtle format.
func (e *RDFExporter) toTurtle(roots []*dag.Term) string {
	var sb strings.Builder

	// Write prefixes in stable order.
	names := make([]string, 0, len(e.prefixes))
	for prefix := range e.prefixes {
		names = append(names, prefix)
	}
	sort.Strings(names)
	for _, prefix := range names {
		fmt.Fprintf(&sb, "@prefix %s: <%s> .\n", prefix, e.prefixes[prefix])
	}
	sb.WriteString("\n")

	parents, wholes := reverseEdges(roots)
	dag.Walk(roots, func(t *dag.Term) {
		fmt.Fprintf(&sb, "<%s>\n", TermIRI(t.ID))
		fmt.Fprintf(&sb, "    a owl:Class ;\n")

		lines := []string{
			fmt.Sprintf("    rdfs:label %s", turtleLiteral(t.Name)),
		}
		for _, synonym := range t.Synonyms {
			lines = append(lines, fmt.Sprintf("    skos:altLabel %s", turtleLiteral(synonym)))
		}
		for _, parent := range parents[t] {
			lines = append(lines, fmt.Sprintf("    rdfs:subClassOf <%s>", TermIRI(parent.ID)))
		}
		for _, whole := range wholes[t] {
			lines = append(lines, fmt.Sprintf("    obo:BFO_0000050 <%s>", TermIRI(whole.ID)))
		}

		for i, line := range lines {
			sb.WriteString(line)
			if i < len(lines)-1 {
				sb.WriteString(" ;\n")
			} else {
				sb.WriteString(" .\n")
			}
		}
		sb.WriteString("\n")
	})

	return sb.String()
}

// toNTriples serializes to N-Triples format.
func (e *RDFExporter) toNTriples(roots []*dag.Term) string {
	var sb strings.Builder

	parents, wholes := reverseEdges(roots)
	dag.Walk(roots, func(t *dag.Term) {
		iri := TermIRI(t.ID)
		fmt.Fprintf(&sb, "<%s> <%s> <%s> .\n", iri, iriType, iriOWLClass)
		fmt.Fprintf(&sb, "<%s> <%s> %s .\n", iri, iriLabel, turtleLiteral(t.Name))
		for _, synonym := range t.Synonyms {
			fmt.Fprintf(&sb, "<%s> <%s> %s .\n", iri, iriAltLabel, turtleLiteral(synonym))
		}
		for _, parent := range parents[t] {
			fmt.Fprintf(&sb, "<%s> <%s> <%s> .\n", iri, iriSubClassOf, TermIRI(parent.ID))
		}
		for _, whole := range wholes[t] {
			fmt.Fprintf(&sb, "<%s> <%s> <%s> .\n", iri, iriPartOf, TermIRI(whole.ID))
		}
	})

	return sb.String()
}

// turtleLiteral quotes and escapes a string literal.
func turtleLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}
