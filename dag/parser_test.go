package dag

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, input string) []*Term {
	t.Helper()
	roots, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	return roots
}

func TestParse_Nesting(t *testing.T) {
	roots := parseString(t, "$ root ; 0001\n % childA ; 0002\n % childB ; 0003\n")

	require.Len(t, roots, 1)
	root := roots[0]
	assert.Equal(t, "0001", root.ID)
	assert.Equal(t, "root", root.Name)

	require.Len(t, root.Children, 2)
	assert.Equal(t, "childA", root.Children[0].Name)
	assert.Equal(t, "0002", root.Children[0].ID)
	assert.Equal(t, "childB", root.Children[1].Name)
	assert.Equal(t, "0003", root.Children[1].ID)
}

func TestParse_SiblingsShareParent(t *testing.T) {
	input := "$ top ; 1\n % a ; 2\n % b ; 3\n"
	roots := parseString(t, input)

	require.Len(t, roots, 1)
	top := roots[0]
	require.Len(t, top.Children, 2)

	// b must be a sibling of a, not nested under it.
	a := top.Children[0]
	assert.Empty(t, a.Children)
}

func TestParse_Synonyms(t *testing.T) {
	roots := parseString(t, "$ root ; 0001 ; synonym:alias1\n")

	require.Len(t, roots, 1)
	assert.Equal(t, []string{"alias1"}, roots[0].Synonyms)
}

func TestParse_SynonymsAccumulateWithoutDedup(t *testing.T) {
	input := "$ root ; 1 ; synonym:x ; synonym:x\n % root ; 1 ; synonym:y\n"
	roots := parseString(t, input)

	// The second line re-declares the same (id, name): synonyms keep
	// accumulating on the shared node, duplicates included.
	require.Len(t, roots, 1)
	assert.Equal(t, []string{"x", "x", "y"}, roots[0].Synonyms)
}

func TestParse_InlinePartOfCrossReference(t *testing.T) {
	input := "$ gear ; 0001\n < wheel ; 0002 % vehicle ; 0003\n"

	p := New()
	roots, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, roots, 1)
	gear := roots[0]
	require.Len(t, gear.Components, 1)

	wheel := gear.Components[0]
	assert.Equal(t, "0002", wheel.ID)
	assert.Equal(t, "wheel", wheel.Name)

	// The inline is-a gives wheel an additional parent outside the
	// indentation hierarchy.
	vehicle, err := p.registry.resolve("vehicle ; 0003")
	require.NoError(t, err)
	require.Len(t, vehicle.Children, 1)
	assert.Same(t, wheel, vehicle.Children[0])
}

func TestParse_InlineIsaTargetsTermNotAncestor(t *testing.T) {
	input := "$ a ; 1\n % b ; 2 % c ; 3\n"

	p := New()
	roots, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)

	a := roots[0]
	require.Len(t, a.Children, 1)
	b := a.Children[0]

	c, err := p.registry.resolve("c ; 3")
	require.NoError(t, err)

	// c gains b as a child; c does not become a parent of a.
	require.Len(t, c.Children, 1)
	assert.Same(t, b, c.Children[0])
}

func TestParse_IdentityStability(t *testing.T) {
	input := "$ a ; 1\n % b ; 2\n % c ; 3 < b ; 2\n"
	roots := parseString(t, input)

	a := roots[0]
	require.Len(t, a.Children, 2)
	b := a.Children[0]
	c := a.Children[1]

	// The inline reference to (2, b) resolves to the very same node.
	require.Len(t, b.Components, 1)
	assert.Same(t, c, b.Components[0])
}

func TestParse_DedupAcrossRedeclaration(t *testing.T) {
	input := "$ a ; 1\n % b ; 2\n % b ; 2\n"
	roots := parseString(t, input)

	// Declaring (2, b) twice under the same parent yields one shared node
	// and one edge.
	require.Len(t, roots[0].Children, 1)
}

func TestParse_SameIDDifferentNameIsDistinct(t *testing.T) {
	input := "$ a ; 1\n % b ; 2\n % c ; 2\n"
	roots := parseString(t, input)

	require.Len(t, roots[0].Children, 2)
	assert.NotSame(t, roots[0].Children[0], roots[0].Children[1])
}

func TestParse_RootCompletenessAtAnyDepth(t *testing.T) {
	input := "$ a ; 1\n % b ; 2\n $ c ; 3\n"
	roots := parseString(t, input)

	require.Len(t, roots, 2)
	assert.Equal(t, "a", roots[0].Name)
	assert.Equal(t, "c", roots[1].Name)

	// The root marker never attaches the term to the enclosing level.
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "b", roots[0].Children[0].Name)
}

func TestParse_DuplicateRootKeepsSetSemantics(t *testing.T) {
	input := "$ a ; 1\n$ a ; 1\n"
	roots := parseString(t, input)
	assert.Len(t, roots, 1)
}

func TestParse_MultiUnitIndentSteps(t *testing.T) {
	input := "$ a ; 1\n" +
		"    % b ; 2\n" +
		"        % c ; 3\n" +
		"    % d ; 4\n"
	roots := parseString(t, input)

	a := roots[0]
	require.Len(t, a.Children, 2)
	b := a.Children[0]
	d := a.Children[1]
	assert.Equal(t, "d", d.Name)

	require.Len(t, b.Children, 1)
	assert.Equal(t, "c", b.Children[0].Name)
	assert.Empty(t, d.Children)
}

func TestParse_UnwindSeveralLevels(t *testing.T) {
	input := "$ a ; 1\n" +
		" % b ; 2\n" +
		"  % c ; 3\n" +
		"   % d ; 4\n" +
		" % e ; 5\n"
	roots := parseString(t, input)

	a := roots[0]
	require.Len(t, a.Children, 2)
	assert.Equal(t, "b", a.Children[0].Name)
	assert.Equal(t, "e", a.Children[1].Name)
}

func TestParse_CommentsAndBlankLinesSkipped(t *testing.T) {
	input := "! header comment\n" +
		"\n" +
		"$ a ; 1\n" +
		"! mid comment\n" +
		"\n" +
		" % b ; 2\n"
	roots := parseString(t, input)

	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "b", roots[0].Children[0].Name)
}

func TestParse_UnknownInlineMarkerIgnored(t *testing.T) {
	input := "$ a ; 1 $ b ; 2\n"
	roots := parseString(t, input)

	// The inline root marker and its descriptor are skipped entirely.
	require.Len(t, roots, 1)
	assert.Empty(t, roots[0].Children)
	assert.Empty(t, roots[0].Components)
}

func TestParse_MissingIdentifier(t *testing.T) {
	roots, err := Parse(strings.NewReader("$ incomplete\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingIdentifier)
	assert.Nil(t, roots)
	assert.Contains(t, err.Error(), "line 1")
}

func TestParse_MissingIdentifierOnInlineReference(t *testing.T) {
	input := "$ a ; 1\n % b ; 2 % broken\n"
	roots, err := Parse(strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingIdentifier)
	assert.Nil(t, roots)
}

func TestParse_NoEnclosingTerm(t *testing.T) {
	roots, err := Parse(strings.NewReader("% orphan ; 1\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoEnclosingTerm)
	assert.Nil(t, roots)
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestParse_ReadFailurePropagates(t *testing.T) {
	readErr := errors.New("disk gone")
	roots, err := Parse(failingReader{err: readErr})
	require.Error(t, err)
	assert.ErrorIs(t, err, readErr)
	assert.Nil(t, roots)
}

func TestParse_FreshParserPerDocument(t *testing.T) {
	first := parseString(t, "$ a ; 1\n")

	// A second document with the same identity gets its own node from its
	// own parser.
	second := parseString(t, "$ a ; 1\n")
	assert.NotSame(t, first[0], second[0])
}

func TestSplitMarkers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "descriptor only",
			input: " a ; 1",
			want:  []string{" a ; 1"},
		},
		{
			name:  "one inline pair",
			input: " a ; 1 % b ; 2",
			want:  []string{" a ; 1 ", "%", " b ; 2"},
		},
		{
			name:  "mixed markers",
			input: " a ; 1 % b ; 2 < c ; 3",
			want:  []string{" a ; 1 ", "%", " b ; 2 ", "<", " c ; 3"},
		},
		{
			name:  "adjacent markers drop empty tokens",
			input: "%<",
			want:  []string{"%", "<"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitMarkers(tt.input))
		})
	}
}

func TestWalk_VisitsSharedNodesOnce(t *testing.T) {
	input := "$ a ; 1\n % b ; 2\n % c ; 3 < b ; 2\n"
	roots := parseString(t, input)

	var names []string
	Walk(roots, func(term *Term) { names = append(names, term.Name) })

	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.Equal(t, 3, Count(roots))
}
