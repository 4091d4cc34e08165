// Package formatter wraps the external code formatters the plugin can pipe
// bundler output through.
package formatter

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
)

// Formatter reformats source text. opts is the forwarded option bag; nil
// means the formatter's own defaults.
type Formatter interface {
	Name() string
	// Extensions lists the file extensions ForFile picks this formatter for.
	Extensions() []string
	Format(source string, opts map[string]any) (string, error)
}

// DefaultName is the formatter used when none is configured.
const DefaultName = "jsbeautify"

var ErrUnknown = errors.New("unknown formatter")

var (
	mu       sync.RWMutex
	registry = map[string]Formatter{}
	byExt    = map[string]Formatter{}
)

// Register adds a formatter to the global registry. The first formatter to
// claim an extension keeps it.
func Register(f Formatter) {
	mu.Lock()
	defer mu.Unlock()
	registry[f.Name()] = f
	for _, ext := range f.Extensions() {
		if _, taken := byExt[ext]; !taken {
			byExt[ext] = f
		}
	}
}

func Get(name string) (Formatter, error) {
	if name == "" {
		name = DefaultName
	}
	mu.RLock()
	defer mu.RUnlock()
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	return f, nil
}

// ForFile picks a formatter by the extension of path.
func ForFile(path string) (Formatter, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mu.RLock()
	defer mu.RUnlock()
	f, ok := byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w for %q", ErrUnknown, path)
	}
	return f, nil
}

func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// decode fills out from an option bag. Keys match fields case-insensitively,
// unknown keys are ignored.
func decode(opts map[string]any, out any) error {
	if len(opts) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(opts)
}

// keepTrailingNewline makes formatted end in a newline exactly when source
// does.
func keepTrailingNewline(source, formatted string) string {
	switch {
	case !strings.HasSuffix(source, "\n"):
		return strings.TrimSuffix(formatted, "\n")
	case formatted != "" && !strings.HasSuffix(formatted, "\n"):
		return formatted + "\n"
	}
	return formatted
}
