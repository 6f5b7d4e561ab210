package dag

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Line and relation markers of the DAG format.
const (
	commentMarker = "!"
	rootMarker    = "$"
	isaMarker     = "%"
	partOfMarker  = "<"
)

// Parser builds a shared term graph from one document in DAG format.
//
// A Parser holds per-document state (ancestor stack, term registry, root
// set), so it is single-use and not safe for concurrent sharing: construct
// a fresh Parser per document. Independent Parsers may run in parallel.
type Parser struct {
	registry *registry
	stack    []stackEntry
	roots    []*Term
	line     int
}

// stackEntry pairs a pushed term with the indentation width of its line.
// Keeping the width on the stack makes unwinding correct for indentation
// steps of any size, not just one whitespace unit per level.
type stackEntry struct {
	indent int
	term   *Term
}

// New returns a Parser ready to consume a single document.
func New() *Parser {
	return &Parser{registry: newRegistry()}
}

// Parse reads input line by line and returns the terms introduced with the
// root marker, in document order. Children, components and synonyms are
// reachable by traversal from the returned roots; the parser retains no
// reference to them after returning. Any error aborts the parse and no
// partial result is returned.
func Parse(r io.Reader) ([]*Term, error) {
	return New().Parse(r)
}

// Parse consumes the whole input. See the package-level Parse.
func (p *Parser) Parse(r io.Reader) ([]*Term, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read after line %d: %w", p.line, err)
	}

	return p.roots, nil
}

// parseLine classifies one raw line and, for term lines, builds the term
// and updates the ancestor stack.
func (p *Parser) parseLine(raw string) error {
	if raw == "" || strings.HasPrefix(raw, commentMarker) {
		return nil
	}

	content := strings.TrimLeftFunc(raw, unicode.IsSpace)
	if content == "" {
		// Whitespace-only lines carry no term.
		return nil
	}
	indent := utf8.RuneCountInString(raw) - utf8.RuneCountInString(content)

	// Unwind to the enclosing level: entries at or beyond the current
	// width are finished siblings or deeper subtrees. The stack top left
	// after unwinding is this line's parent.
	for len(p.stack) > 0 && p.stack[len(p.stack)-1].indent >= indent {
		p.stack = p.stack[:len(p.stack)-1]
	}

	term, err := p.buildTerm(content)
	if err != nil {
		return fmt.Errorf("line %d: %w", p.line, err)
	}

	p.stack = append(p.stack, stackEntry{indent: indent, term: term})
	return nil
}

// buildTerm parses one term line: a primary marker, a primary descriptor,
// then zero or more inline marker+descriptor pairs. Inline pairs attach
// additional parents or wholes to this line's term, which is what makes
// the result a DAG rather than a tree.
func (p *Parser) buildTerm(content string) (*Term, error) {
	marker := content[:1]
	tokens := splitMarkers(content[1:])
	if len(tokens) == 0 {
		return nil, fmt.Errorf("descriptor %q: %w", "", ErrMissingIdentifier)
	}

	term, err := p.registry.resolve(tokens[0])
	if err != nil {
		return nil, err
	}

	switch marker {
	case rootMarker:
		p.addRoot(term)
	case isaMarker:
		parent, ok := p.enclosing()
		if !ok {
			return nil, fmt.Errorf("is-a %q: %w", term.Name, ErrNoEnclosingTerm)
		}
		parent.AddChild(term)
	case partOfMarker:
		whole, ok := p.enclosing()
		if !ok {
			return nil, fmt.Errorf("part-of %q: %w", term.Name, ErrNoEnclosingTerm)
		}
		whole.AddComponent(term)
	}

	// Remaining tokens are inline cross-references. Only is-a and part-of
	// markers attach relations; anything else is skipped.
	for i := 1; i < len(tokens); i++ {
		switch tokens[i] {
		case isaMarker:
			if i+1 < len(tokens) {
				i++
				parent, err := p.registry.resolve(tokens[i])
				if err != nil {
					return nil, err
				}
				parent.AddChild(term)
			}
		case partOfMarker:
			if i+1 < len(tokens) {
				i++
				whole, err := p.registry.resolve(tokens[i])
				if err != nil {
					return nil, err
				}
				whole.AddComponent(term)
			}
		}
	}

	return term, nil
}

// enclosing returns the current parent: the stack top before this line's
// own term is pushed.
func (p *Parser) enclosing() (*Term, bool) {
	if len(p.stack) == 0 {
		return nil, false
	}
	return p.stack[len(p.stack)-1].term, true
}

// addRoot records a root term, keeping set semantics on membership while
// preserving document order.
func (p *Parser) addRoot(term *Term) {
	for _, r := range p.roots {
		if r == term {
			return
		}
	}
	p.roots = append(p.roots, term)
}

// splitMarkers tokenizes s on the three relation markers, keeping each
// marker as its own token, so the token stream alternates descriptor,
// marker, descriptor. Empty descriptors between adjacent markers are
// dropped.
func splitMarkers(s string) []string {
	var tokens []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '$', '%', '<':
			if i > start {
				tokens = append(tokens, s[start:i])
			}
			tokens = append(tokens, s[i:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		tokens = append(tokens, s[start:])
	}
	return tokens
}
