// Package sourcemap reads, writes and chains version 3 source maps.
package sourcemap

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Map is a version 3 source map.
type Map struct {
	Version        int      `json:"version"`
	File           string   `json:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Position is a zero-based location in one of the map's sources.
type Position struct {
	Source string
	Line   int
	Column int
	Name   string
}

// Parse decodes source map JSON.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse sourcemap JSON: %w", err)
	}
	if m.Version != 3 {
		return nil, fmt.Errorf("unsupported sourcemap version %d", m.Version)
	}
	return &m, nil
}

func (m *Map) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// DataURL returns the map as a base64 data URL suitable for an inline
// sourceMappingURL comment.
func (m *Map) DataURL() (string, error) {
	data, err := m.JSON()
	if err != nil {
		return "", err
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(data), nil
}

const dataURLPrefix = "data:application/json;base64,"

// ParseDataURL decodes an inline map produced by DataURL or by a bundler.
func ParseDataURL(url string) (*Map, error) {
	if !strings.HasPrefix(url, "data:application/json") {
		return nil, fmt.Errorf("not a JSON data URL")
	}
	i := strings.Index(url, ";base64,")
	if i < 0 {
		return nil, fmt.Errorf("sourcemap data URL is not base64 encoded")
	}
	decoded, err := base64.StdEncoding.DecodeString(url[i+len(";base64,"):])
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 sourcemap: %w", err)
	}
	return Parse(decoded)
}

// Lookup returns the original position of the generated position (line,
// column), both zero-based. Column is in UTF-16 code units.
func (m *Map) Lookup(line, column int) (Position, bool) {
	lines, err := Decode(m.Mappings)
	if err != nil || line < 0 || line >= len(lines) {
		return Position{}, false
	}
	seg, ok := find(lines[line], column)
	if !ok || seg.SourceIndex < 0 || seg.SourceIndex >= len(m.Sources) {
		return Position{}, false
	}
	pos := Position{
		Source: m.Sources[seg.SourceIndex],
		Line:   seg.OriginalLine,
		Column: seg.OriginalColumn,
	}
	if seg.NameIndex >= 0 && seg.NameIndex < len(m.Names) {
		pos.Name = m.Names[seg.NameIndex]
	}
	return pos, true
}

// find returns the last segment starting at or before column.
func find(line []Segment, column int) (Segment, bool) {
	i := sort.Search(len(line), func(i int) bool {
		return line[i].GeneratedColumn > column
	})
	if i == 0 {
		return Segment{}, false
	}
	return line[i-1], true
}
