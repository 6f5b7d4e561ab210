// Package dag parses the indentation-delimited DAG ontology format into a
// shared graph of concept terms linked by is-a and part-of relations.
package dag

// Term is a node in the parsed ontology graph. A term is identified by its
// id and name together; the parser guarantees that every descriptor with
// the same identity resolves to the same Term instance within one parse.
//
// Edges are non-owning: the graph is a DAG, not a tree, so the same term
// may appear under any number of parents and wholes.
type Term struct {
	ID   string
	Name string

	// Synonyms accumulate in document order. Repeated declarations are
	// kept as parsed, not deduplicated.
	Synonyms []string

	// Children holds is-a edges: this term generalizes each child.
	Children []*Term

	// Components holds part-of edges: this term contains each component.
	Components []*Term
}

// NewTerm creates a term with no relations.
func NewTerm(id, name string) *Term {
	return &Term{ID: id, Name: name}
}

// AddChild records an is-a edge from t to child. Re-declaring an edge that
// is already present is a no-op.
func (t *Term) AddChild(child *Term) {
	for _, c := range t.Children {
		if c == child {
			return
		}
	}
	t.Children = append(t.Children, child)
}

// AddComponent records a part-of edge from t to component. Re-declaring an
// edge that is already present is a no-op.
func (t *Term) AddComponent(component *Term) {
	for _, c := range t.Components {
		if c == component {
			return
		}
	}
	t.Components = append(t.Components, component)
}

// AddSynonym appends a synonym. Duplicates are permitted.
func (t *Term) AddSynonym(synonym string) {
	t.Synonyms = append(t.Synonyms, synonym)
}
