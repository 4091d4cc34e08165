package editbuf_test

import (
	"testing"

	"github.com/brodo/bundlefmt/internal/editbuf"
	"github.com/brodo/bundlefmt/internal/sourcemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_Edits(t *testing.T) {
	b := editbuf.New("var a=1;")
	require.NoError(t, b.PrependLeft(5, " "))
	require.NoError(t, b.PrependLeft(6, " "))
	require.NoError(t, b.Remove(7, 8))
	require.NoError(t, b.PrependLeft(8, ";\n"))

	assert.Equal(t, "var a = 1;\n", b.String())
	assert.Equal(t, "var a=1;", b.Original())
}

func TestBuffer_PrependLeftOrder(t *testing.T) {
	b := editbuf.New("ab")
	require.NoError(t, b.PrependLeft(1, "1"))
	require.NoError(t, b.PrependLeft(1, "2"))
	assert.Equal(t, "a21b", b.String())
}

func TestBuffer_InsertSurvivesRemoval(t *testing.T) {
	b := editbuf.New("abcd")
	require.NoError(t, b.PrependLeft(1, "X"))
	require.NoError(t, b.Remove(1, 3))
	require.NoError(t, b.PrependLeft(3, "Y"))
	assert.Equal(t, "aXYd", b.String())
}

func TestBuffer_OutOfRange(t *testing.T) {
	b := editbuf.New("abc")
	assert.Error(t, b.PrependLeft(4, "x"))
	assert.Error(t, b.PrependLeft(-1, "x"))
	assert.Error(t, b.Remove(2, 4))
	assert.Error(t, b.Remove(2, 1))
	assert.NoError(t, b.PrependLeft(3, "x"))
	assert.NoError(t, b.Remove(3, 3))
}

func TestBuffer_GenerateMap(t *testing.T) {
	// "var a=1;var b=2;" -> "var a = 1;\nvar b = 2;"
	b := editbuf.New("var a=1;var b=2;")
	require.NoError(t, b.PrependLeft(5, " "))
	require.NoError(t, b.PrependLeft(6, " "))
	require.NoError(t, b.PrependLeft(8, "\n"))
	require.NoError(t, b.PrependLeft(13, " "))
	require.NoError(t, b.PrependLeft(14, " "))
	require.Equal(t, "var a = 1;\nvar b = 2;", b.String())

	m := b.GenerateMap(editbuf.MapOptions{File: "out.js", Source: "in.js", IncludeContent: true})
	assert.Equal(t, 3, m.Version)
	assert.Equal(t, "out.js", m.File)
	assert.Equal(t, []string{"in.js"}, m.Sources)
	assert.Equal(t, []string{"var a=1;var b=2;"}, m.SourcesContent)

	cases := []struct {
		genLine, genCol   int
		origLine, origCol int
	}{
		{0, 0, 0, 0},  // v
		{0, 4, 0, 4},  // a
		{0, 5, 0, 5},  // inserted space before '='
		{0, 6, 0, 5},  // =
		{0, 8, 0, 6},  // 1
		{0, 9, 0, 7},  // ;
		{1, 0, 0, 8},  // second v
		{1, 4, 0, 12}, // b
		{1, 8, 0, 14}, // 2
	}
	for _, tc := range cases {
		pos, ok := m.Lookup(tc.genLine, tc.genCol)
		require.True(t, ok, "%d:%d", tc.genLine, tc.genCol)
		assert.Equal(t, sourcemap.Position{Source: "in.js", Line: tc.origLine, Column: tc.origCol}, pos,
			"%d:%d", tc.genLine, tc.genCol)
	}
}

func TestBuffer_GenerateMapMultiline(t *testing.T) {
	b := editbuf.New("a\nb")
	require.NoError(t, b.Remove(1, 2))
	require.NoError(t, b.PrependLeft(3, "\n  c"))
	require.Equal(t, "ab\n  c", b.String())

	m := b.GenerateMap(editbuf.MapOptions{Source: "in"})
	assert.Nil(t, m.SourcesContent)

	pos, ok := m.Lookup(0, 1)
	require.True(t, ok)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 0, pos.Column)

	// The inserted line maps to the insertion point, the end of the input.
	pos, ok = m.Lookup(1, 3)
	require.True(t, ok)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 1, pos.Column)
}

func TestBuffer_GenerateMapUTF16Columns(t *testing.T) {
	b := editbuf.New("x='😀';y")
	require.NoError(t, b.PrependLeft(1, " "))
	require.NoError(t, b.PrependLeft(2, " "))

	m := b.GenerateMap(editbuf.MapOptions{Source: "in"})
	// "x = '😀';y": the emoji takes two UTF-16 units, so y sits at column 9.
	pos, ok := m.Lookup(0, 9)
	require.True(t, ok)
	assert.Equal(t, 7, pos.Column)
}
