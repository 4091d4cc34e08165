// Package reconcile derives a source map for a reformatted text purely from a
// character diff between the text before and after formatting.
package reconcile

import (
	"errors"
	"fmt"

	"github.com/brodo/bundlefmt/internal/diff"
	"github.com/brodo/bundlefmt/internal/editbuf"
	"github.com/brodo/bundlefmt/internal/sourcemap"
)

// ErrReplayMismatch is returned when replaying the diff onto the original
// text does not reproduce the formatted text.
var ErrReplayMismatch = errors.New("replayed edits do not reproduce the formatted text")

type Options = editbuf.MapOptions

// Reconcile maps every position of formatted back to original.
func Reconcile(original, formatted string, opts Options) (*sourcemap.Map, error) {
	buf, err := Replay(original, diff.Chars(original, formatted))
	if err != nil {
		return nil, err
	}
	if buf.String() != formatted {
		return nil, ErrReplayMismatch
	}
	return buf.GenerateMap(opts), nil
}

// Replay applies spans to a fresh buffer seeded with original.
func Replay(original string, spans []diff.Span) (*editbuf.Buffer, error) {
	m := &machine{buf: editbuf.New(original)}
	for i, span := range spans {
		if err := m.step(span); err != nil {
			return nil, fmt.Errorf("span %d (%s): %w", i, span.Kind, err)
		}
	}
	return m.buf, nil
}

// machine walks diff spans. cursor is always an offset into the original
// text, never into the output being built.
type machine struct {
	buf    *editbuf.Buffer
	cursor int
}

func (m *machine) step(span diff.Span) error {
	switch span.Kind {
	case diff.Added:
		if err := m.buf.PrependLeft(m.cursor, span.Text); err != nil {
			return err
		}
		// Inserted text consumes no original bytes; undo the advance below.
		m.cursor -= span.Count
	case diff.Removed:
		if err := m.buf.Remove(m.cursor, m.cursor+span.Count); err != nil {
			return err
		}
	}
	m.cursor += span.Count
	return nil
}
