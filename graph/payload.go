// Package graph publishes parsed ontology terms to the knowledge graph.
package graph

import (
	"errors"
	"strings"
	"time"

	"github.com/c360studio/ontodag/dag"
)

// Subject for graph ingestion.
const TermIngestSubject = "graph.ingest.term"

// Source tag attached to every triple produced by the ingest pipeline.
const tripleSource = "ontodag.ingest"

// Predicates used for term entities.
const (
	PredicateName      = "ontodag.term.name"
	PredicateSynonym   = "ontodag.term.synonym"
	PredicateChild     = "ontodag.term.child"
	PredicateComponent = "ontodag.term.component"
	PredicateRoot      = "ontodag.term.root"
)

// Triple is one subject-predicate-object assertion about a term.
type Triple struct {
	Subject    string    `json:"subject"`
	Predicate  string    `json:"predicate"`
	Object     any       `json:"object"`
	Source     string    `json:"source"`
	Timestamp  time.Time `json:"timestamp"`
	Confidence float64   `json:"confidence"`
}

// TermEntity is the message format for graph ingestion: one entity per
// term, carrying all triples about it.
type TermEntity struct {
	ID        string    `json:"id"`
	Triples   []Triple  `json:"triples"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate reports whether the entity is publishable.
func (e *TermEntity) Validate() error {
	if e.ID == "" {
		return errors.New("entity ID is required")
	}
	return nil
}

// NewTermEntity builds the ingest entity for one term. Edge triples point
// at the entity IDs of the term's children and components.
func NewTermEntity(term *dag.Term, isRoot bool, now time.Time) TermEntity {
	entityID := TermEntityID(term.ID)

	triples := []Triple{
		{
			Subject:    entityID,
			Predicate:  PredicateName,
			Object:     term.Name,
			Source:     tripleSource,
			Timestamp:  now,
			Confidence: 1.0,
		},
	}

	if isRoot {
		triples = append(triples, Triple{
			Subject:    entityID,
			Predicate:  PredicateRoot,
			Object:     true,
			Source:     tripleSource,
			Timestamp:  now,
			Confidence: 1.0,
		})
	}

	for _, synonym := range term.Synonyms {
		triples = append(triples, Triple{
			Subject:    entityID,
			Predicate:  PredicateSynonym,
			Object:     synonym,
			Source:     tripleSource,
			Timestamp:  now,
			Confidence: 1.0,
		})
	}

	for _, child := range term.Children {
		triples = append(triples, Triple{
			Subject:    entityID,
			Predicate:  PredicateChild,
			Object:     TermEntityID(child.ID),
			Source:     tripleSource,
			Timestamp:  now,
			Confidence: 1.0,
		})
	}

	for _, component := range term.Components {
		triples = append(triples, Triple{
			Subject:    entityID,
			Predicate:  PredicateComponent,
			Object:     TermEntityID(component.ID),
			Source:     tripleSource,
			Timestamp:  now,
			Confidence: 1.0,
		})
	}

	return TermEntity{
		ID:        entityID,
		Triples:   triples,
		UpdatedAt: now,
	}
}

// TermEntityID generates a consistent entity ID for a term.
// Format: ontodag.local.term.<sanitized id>
func TermEntityID(id string) string {
	return "ontodag.local.term." + sanitizeID(id)
}

// sanitizeID makes a term ID safe for use as an entity ID segment.
func sanitizeID(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
