package sourcemap

import "fmt"

// Compose chains two maps. outer maps a final text to an intermediate text and
// inner maps that intermediate text to the real sources. The result maps the
// final text straight to inner's sources. Positions that inner does not cover
// are dropped.
func Compose(outer, inner *Map) (*Map, error) {
	outerLines, err := Decode(outer.Mappings)
	if err != nil {
		return nil, fmt.Errorf("outer map: %w", err)
	}
	innerLines, err := Decode(inner.Mappings)
	if err != nil {
		return nil, fmt.Errorf("inner map: %w", err)
	}

	var b Builder
	b.Grow(len(outerLines))
	for genLine, line := range outerLines {
		for _, seg := range line {
			if seg.SourceIndex < 0 || seg.OriginalLine < 0 || seg.OriginalLine >= len(innerLines) {
				continue
			}
			target, ok := find(innerLines[seg.OriginalLine], seg.OriginalColumn)
			if !ok || target.SourceIndex < 0 {
				continue
			}
			b.Add(genLine, Segment{
				GeneratedColumn: seg.GeneratedColumn,
				SourceIndex:     target.SourceIndex,
				OriginalLine:    target.OriginalLine,
				OriginalColumn:  target.OriginalColumn,
				NameIndex:       target.NameIndex,
			})
		}
	}

	return &Map{
		Version:        3,
		File:           outer.File,
		SourceRoot:     inner.SourceRoot,
		Sources:        inner.Sources,
		SourcesContent: inner.SourcesContent,
		Names:          inner.Names,
		Mappings:       b.String(),
	}, nil
}
