// Package editbuf records insertions and removals against an original text
// and derives both the edited text and a source map back to the original.
package editbuf

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/brodo/bundlefmt/internal/sourcemap"
)

// Buffer is a single-use edit buffer. All offsets are byte offsets into the
// original text, regardless of edits recorded earlier.
type Buffer struct {
	original string
	removed  []bool
	inserts  map[int]string
}

func New(original string) *Buffer {
	return &Buffer{
		original: original,
		removed:  make([]bool, len(original)),
		inserts:  make(map[int]string),
	}
}

func (b *Buffer) Original() string {
	return b.original
}

// PrependLeft inserts content at offset without consuming any original text.
// Content inserted later at the same offset lands before earlier content.
// Insertions survive removal of the range that follows them.
func (b *Buffer) PrependLeft(offset int, content string) error {
	if offset < 0 || offset > len(b.original) {
		return fmt.Errorf("insert offset %d out of range [0, %d]", offset, len(b.original))
	}
	if content == "" {
		return nil
	}
	b.inserts[offset] = content + b.inserts[offset]
	return nil
}

// Remove drops the original range [start, end).
func (b *Buffer) Remove(start, end int) error {
	if start < 0 || end > len(b.original) || start > end {
		return fmt.Errorf("remove range [%d, %d) out of range [0, %d]", start, end, len(b.original))
	}
	for i := start; i < end; i++ {
		b.removed[i] = true
	}
	return nil
}

// String materializes the edited text.
func (b *Buffer) String() string {
	var sb strings.Builder
	sb.Grow(len(b.original))
	for i := 0; i <= len(b.original); i++ {
		sb.WriteString(b.inserts[i])
		if i < len(b.original) && !b.removed[i] {
			sb.WriteByte(b.original[i])
		}
	}
	return sb.String()
}

type MapOptions struct {
	// File is the name of the generated file.
	File string
	// Source is the name of the original text in the map.
	Source string
	// IncludeContent embeds the original text as sourcesContent.
	IncludeContent bool
}

// GenerateMap builds a high resolution map: every kept rune maps to itself,
// every inserted run maps to the original position it was inserted at, both
// where it starts and at each line it starts. Columns count UTF-16 units.
func (b *Buffer) GenerateMap(opts MapOptions) *sourcemap.Map {
	var (
		bld               sourcemap.Builder
		genLine, genCol   int
		origLine, origCol int
	)

	mapHere := func() {
		bld.Add(genLine, sourcemap.Segment{
			GeneratedColumn: genCol,
			SourceIndex:     0,
			OriginalLine:    origLine,
			OriginalColumn:  origCol,
			NameIndex:       -1,
		})
	}

	for i := 0; i <= len(b.original); {
		if ins := b.inserts[i]; ins != "" {
			lineStart := true
			for _, r := range ins {
				if lineStart {
					mapHere()
					lineStart = false
				}
				if r == '\n' {
					genLine++
					genCol = 0
					lineStart = true
				} else {
					genCol += utf16Len(r)
				}
			}
		}
		if i == len(b.original) {
			break
		}

		r, size := utf8.DecodeRuneInString(b.original[i:])
		if !b.removed[i] {
			if r == '\n' {
				genLine++
				genCol = 0
			} else {
				mapHere()
				genCol += utf16Len(r)
			}
		}
		if r == '\n' {
			origLine++
			origCol = 0
		} else {
			origCol += utf16Len(r)
		}
		i += size
	}
	bld.Grow(genLine + 1)

	m := &sourcemap.Map{
		Version:  3,
		File:     opts.File,
		Sources:  []string{opts.Source},
		Names:    []string{},
		Mappings: bld.String(),
	}
	if opts.IncludeContent {
		m.SourcesContent = []string{b.original}
	}
	return m
}

func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
