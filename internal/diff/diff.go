// Package diff computes character-level differences between two texts.
package diff

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type Kind int

const (
	Unchanged Kind = iota
	Added
	Removed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unchanged"
	}
}

// Span is one contiguous run of a diff. Count is measured in bytes and always
// equals len(Text).
type Span struct {
	Kind  Kind
	Count int
	Text  string
}

// Chars diffs a against b rune by rune. Bytes that are not valid UTF-8 are
// diffed one by one. The returned spans cover both inputs completely and span
// boundaries never split a UTF-8 sequence.
func Chars(a, b string) []Span {
	if a == b {
		if a == "" {
			return nil
		}
		return []Span{{Kind: Unchanged, Count: len(a), Text: a}}
	}

	ua, ub := units(a), units(b)
	dmp := diffmatchpatch.New()
	// No deadline: a timed out diff is still valid but far less minimal.
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMainRunes(ua.runes, ub.runes, false)

	// Span text is cut from the inputs, not taken from the diff, so bytes
	// that are not valid UTF-8 survive unchanged.
	var ia, ib int
	spans := make([]Span, 0, len(diffs))
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		if n == 0 {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			spans = appendSpan(spans, Added, ub.slice(b, ib, n))
			ib += n
		case diffmatchpatch.DiffDelete:
			spans = appendSpan(spans, Removed, ua.slice(a, ia, n))
			ia += n
		default:
			left, right := ua.slice(a, ia, n), ub.slice(b, ib, n)
			if left == right {
				spans = appendSpan(spans, Unchanged, left)
			} else {
				// an invalid byte collided with a real private use rune
				spans = appendSpan(spans, Removed, left)
				spans = appendSpan(spans, Added, right)
			}
			ia += n
			ib += n
		}
	}
	return spans
}

func appendSpan(spans []Span, kind Kind, text string) []Span {
	return append(spans, Span{Kind: kind, Count: len(text), Text: text})
}

// invalidBase is where bytes that are not valid UTF-8 are placed for
// diffing, one rune per byte value in supplementary private use area B.
const invalidBase = 0x10FF00

// unitText is a string split into diff units: one per rune, or one per byte
// where the string is not valid UTF-8. offsets has one extra entry for the end.
type unitText struct {
	runes   []rune
	offsets []int
}

func units(s string) unitText {
	u := unitText{
		runes:   make([]rune, 0, len(s)),
		offsets: make([]int, 0, len(s)+1),
	}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			r = invalidBase + rune(s[i])
		}
		u.runes = append(u.runes, r)
		u.offsets = append(u.offsets, i)
		i += size
	}
	u.offsets = append(u.offsets, len(s))
	return u
}

func (u unitText) slice(s string, from, n int) string {
	return s[u.offsets[from]:u.offsets[from+n]]
}

// Original rebuilds the left-hand text from unchanged and removed spans.
func Original(spans []Span) string {
	return join(spans, Removed)
}

// Formatted rebuilds the right-hand text from unchanged and added spans.
func Formatted(spans []Span) string {
	return join(spans, Added)
}

func join(spans []Span, side Kind) string {
	var sb strings.Builder
	for _, s := range spans {
		if s.Kind == Unchanged || s.Kind == side {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}
