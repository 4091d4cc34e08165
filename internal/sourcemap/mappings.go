package sourcemap

import (
	"fmt"
	"strings"
)

// Segment is one decoded mapping entry. Indexes and positions are zero-based
// and absolute, not relative to the previous segment.
type Segment struct {
	GeneratedColumn int
	// SourceIndex is -1 for segments that map to nothing.
	SourceIndex    int
	OriginalLine   int
	OriginalColumn int
	// NameIndex is -1 when the segment carries no name.
	NameIndex int
}

// Decode expands a "mappings" string into segments grouped by generated line.
func Decode(mappings string) ([][]Segment, error) {
	var (
		lines                       [][]Segment
		line                        []Segment
		col, src, origLine, origCol int
		name                        int
	)
	for i := 0; i <= len(mappings); {
		if i == len(mappings) || mappings[i] == ';' {
			lines = append(lines, line)
			line = nil
			col = 0
			i++
			continue
		}
		if mappings[i] == ',' {
			i++
			continue
		}

		var fields [5]int
		n := 0
		for i < len(mappings) && mappings[i] != ',' && mappings[i] != ';' {
			if n == len(fields) {
				return nil, fmt.Errorf("segment on line %d has too many fields", len(lines))
			}
			v, next, err := DecodeVLQ(mappings, i)
			if err != nil {
				return nil, err
			}
			fields[n] = v
			n++
			i = next
		}

		seg := Segment{SourceIndex: -1, NameIndex: -1}
		switch n {
		case 1, 4, 5:
		default:
			return nil, fmt.Errorf("segment on line %d has %d fields", len(lines), n)
		}
		col += fields[0]
		seg.GeneratedColumn = col
		if n >= 4 {
			src += fields[1]
			origLine += fields[2]
			origCol += fields[3]
			seg.SourceIndex = src
			seg.OriginalLine = origLine
			seg.OriginalColumn = origCol
		}
		if n == 5 {
			name += fields[4]
			seg.NameIndex = name
		}
		line = append(line, seg)
	}
	return lines, nil
}

// Encode is the inverse of Decode. Segments within a line must be sorted by
// generated column.
func Encode(lines [][]Segment) string {
	var (
		sb                     strings.Builder
		src, origLine, origCol int
		name                   int
	)
	for l, line := range lines {
		if l > 0 {
			sb.WriteByte(';')
		}
		col := 0
		for s, seg := range line {
			if s > 0 {
				sb.WriteByte(',')
			}
			EncodeVLQ(&sb, seg.GeneratedColumn-col)
			col = seg.GeneratedColumn
			if seg.SourceIndex < 0 {
				continue
			}
			EncodeVLQ(&sb, seg.SourceIndex-src)
			EncodeVLQ(&sb, seg.OriginalLine-origLine)
			EncodeVLQ(&sb, seg.OriginalColumn-origCol)
			src, origLine, origCol = seg.SourceIndex, seg.OriginalLine, seg.OriginalColumn
			if seg.NameIndex >= 0 {
				EncodeVLQ(&sb, seg.NameIndex-name)
				name = seg.NameIndex
			}
		}
	}
	return sb.String()
}

// Builder collects segments in generated order.
type Builder struct {
	lines [][]Segment
}

// Add records seg on generated line genLine. A segment at the same generated
// position as the previous one on that line replaces it.
func (b *Builder) Add(genLine int, seg Segment) {
	for len(b.lines) <= genLine {
		b.lines = append(b.lines, nil)
	}
	line := b.lines[genLine]
	if n := len(line); n > 0 && line[n-1].GeneratedColumn == seg.GeneratedColumn {
		line[n-1] = seg
		return
	}
	b.lines[genLine] = append(line, seg)
}

// Grow makes sure the mapping covers at least n generated lines.
func (b *Builder) Grow(n int) {
	for len(b.lines) < n {
		b.lines = append(b.lines, nil)
	}
}

func (b *Builder) Lines() [][]Segment {
	return b.lines
}

func (b *Builder) String() string {
	return Encode(b.lines)
}
