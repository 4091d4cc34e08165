package reconcile

import (
	"testing"

	"github.com/brodo/bundlefmt/internal/diff"
	"github.com/brodo/bundlefmt/internal/editbuf"
	"github.com/brodo/bundlefmt/internal/sourcemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func added(s string) diff.Span     { return diff.Span{Kind: diff.Added, Count: len(s), Text: s} }
func removed(s string) diff.Span   { return diff.Span{Kind: diff.Removed, Count: len(s), Text: s} }
func unchanged(s string) diff.Span { return diff.Span{Kind: diff.Unchanged, Count: len(s), Text: s} }

func TestMachine_CursorStaysInOriginalSpace(t *testing.T) {
	m := &machine{buf: editbuf.New("var foo=    0;")}
	steps := []struct {
		span   diff.Span
		cursor int
	}{
		{unchanged("var foo"), 7},
		{added(" "), 7},
		{unchanged("="), 8},
		{removed("    "), 12},
		{added(" "), 12},
		{unchanged("0;"), 14},
	}
	for _, s := range steps {
		require.NoError(t, m.step(s.span))
		assert.Equal(t, s.cursor, m.cursor, "after %s %q", s.span.Kind, s.span.Text)
	}
	assert.Equal(t, "var foo = 0;", m.buf.String())
}

func TestReplay_SyntheticSpans(t *testing.T) {
	cases := []struct {
		name     string
		original string
		spans    []diff.Span
		want     string
	}{
		{
			name:     "insert at start",
			original: "b",
			spans:    []diff.Span{added("a"), unchanged("b")},
			want:     "ab",
		},
		{
			name:     "insert at end",
			original: "a",
			spans:    []diff.Span{unchanged("a"), added("\n")},
			want:     "a\n",
		},
		{
			name:     "removed then added",
			original: "a  b",
			spans:    []diff.Span{unchanged("a"), removed("  "), added("\n"), unchanged("b")},
			want:     "a\nb",
		},
		{
			name:     "added then removed",
			original: "a  b",
			spans:    []diff.Span{unchanged("a"), added("\n"), removed("  "), unchanged("b")},
			want:     "a\nb",
		},
		{
			name:     "everything replaced",
			original: "xyz",
			spans:    []diff.Span{removed("xyz"), added("abc")},
			want:     "abc",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf, err := Replay(tc.original, tc.spans)
			require.NoError(t, err)
			assert.Equal(t, tc.want, buf.String())
		})
	}
}

func TestReplay_SpansPastTheEnd(t *testing.T) {
	_, err := Replay("ab", []diff.Span{unchanged("ab"), removed("c")})
	assert.Error(t, err)
}

func TestReconcile(t *testing.T) {
	original := `var foo    =    0;var test = "hello world";`
	formatted := "var foo = 0;\nvar test = \"hello world\";"

	m, err := Reconcile(original, formatted, Options{File: "out.js", Source: "in.js"})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, []string{"in.js"}, m.Sources)

	// "test" on the second output line comes from column 22 of the input.
	pos, ok := m.Lookup(1, 4)
	require.True(t, ok)
	assert.Equal(t, sourcemap.Position{Source: "in.js", Line: 0, Column: 22}, pos)

	// "0" keeps its identity across the removed padding.
	pos, ok = m.Lookup(0, 10)
	require.True(t, ok)
	assert.Equal(t, 16, pos.Column)
}

func TestReconcile_InvalidUTF8(t *testing.T) {
	original := "var s='\xff';var x=1;"
	formatted := "var s = '\xff';\nvar x = 1;"

	m, err := Reconcile(original, formatted, Options{File: "out.js", Source: "in.js"})
	require.NoError(t, err)

	pos, ok := m.Lookup(1, 4)
	require.True(t, ok)
	assert.Equal(t, 0, pos.Line)
	assert.Equal(t, 15, pos.Column)
}

func TestReconcile_Identity(t *testing.T) {
	text := "var foo = 0;\nvar bar = 1;"
	m, err := Reconcile(text, text, Options{Source: "in.js"})
	require.NoError(t, err)
	for line, col := range map[int]int{0: 4, 1: 8} {
		pos, ok := m.Lookup(line, col)
		require.True(t, ok)
		assert.Equal(t, line, pos.Line)
		assert.Equal(t, col, pos.Column)
	}
}
