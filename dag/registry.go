package dag

import (
	"fmt"
	"strings"
)

const (
	// fieldDelimiter separates descriptor fields: name, id, then any
	// number of optional fields.
	fieldDelimiter = " ; "

	// synonymPrefix marks an optional field whose remainder is appended
	// to the term's synonym list. Other optional fields are ignored.
	synonymPrefix = "synonym:"
)

// identity is the composite registry key. Two descriptors resolve to the
// same Term only when both id and name match; the same id under a
// different name (or vice versa) is a distinct node.
type identity struct {
	id   string
	name string
}

// registry owns all Term allocation for a single parse and deduplicates
// nodes by identity, so every reference to a term shares one instance.
type registry struct {
	terms map[identity]*Term
}

func newRegistry() *registry {
	return &registry{terms: make(map[identity]*Term)}
}

// resolve parses a descriptor ("name ; id [; field]...") and returns the
// shared Term for its identity, creating and registering it on first
// reference. Synonym fields are appended on every occurrence, including
// occurrences of an already-registered term.
func (r *registry) resolve(descriptor string) (*Term, error) {
	descriptor = strings.TrimSpace(descriptor)
	fields := strings.Split(descriptor, fieldDelimiter)
	if len(fields) < 2 {
		return nil, fmt.Errorf("descriptor %q: %w", descriptor, ErrMissingIdentifier)
	}

	name := unescape(fields[0])
	id := fields[1]

	key := identity{id: id, name: name}
	term, ok := r.terms[key]
	if !ok {
		term = NewTerm(id, name)
		r.terms[key] = term
	}

	for _, field := range fields[2:] {
		if synonym, ok := strings.CutPrefix(field, synonymPrefix); ok {
			term.AddSynonym(synonym)
		}
	}

	return term, nil
}
