// Package plugin is the host-agnostic core of bundlefmt: it formats bundler
// output and, when asked to, derives a source map for the formatting changes.
package plugin

import (
	"path"
	"strings"
	"sync/atomic"

	"github.com/brodo/bundlefmt/internal/formatter"
	"github.com/brodo/bundlefmt/internal/options"
	"github.com/brodo/bundlefmt/internal/reconcile"
	"github.com/brodo/bundlefmt/internal/sourcemap"
	"github.com/sirupsen/logrus"
)

const DefaultName = "bundlefmt"

// Result is what a host hook hands back to the bundler. Map is nil when no
// map was requested.
type Result struct {
	Code string
	Map  *sourcemap.Map
}

type Plugin struct {
	name      string
	formatter formatter.Formatter
	options   map[string]any
	// sourcemap holds an options.Preference. It leaves Unset at most once.
	sourcemap atomic.Int32
	log       logrus.FieldLogger
}

type Option func(*Plugin)

func WithFormatter(f formatter.Formatter) Option {
	return func(p *Plugin) { p.formatter = f }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Plugin) { p.log = l }
}

func WithName(name string) Option {
	return func(p *Plugin) { p.name = name }
}

// New builds a plugin from raw user options. The sourcemap keys configure the
// plugin itself, every other key is forwarded to the formatter.
func New(raw map[string]any, opts ...Option) *Plugin {
	n := options.Normalize(raw)
	p := &Plugin{
		name:      DefaultName,
		formatter: formatter.JSBeautify{},
		options:   n.Formatter,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.sourcemap.Store(int32(n.Sourcemap))
	if n.Deprecated {
		p.warn("The sourceMap option is deprecated, please use sourcemap instead.")
	}
	return p
}

func (p *Plugin) Name() string {
	return p.name
}

func (p *Plugin) Formatter() formatter.Formatter {
	return p.formatter
}

// FormatOptions returns the bag forwarded to the formatter, nil when empty.
func (p *Plugin) FormatOptions() map[string]any {
	return p.options
}

func (p *Plugin) Sourcemap() options.Preference {
	return options.Preference(p.sourcemap.Load())
}

// LatchSourcemap records pref unless a preference is already cached. It
// reports whether pref was stored.
func (p *Plugin) LatchSourcemap(pref options.Preference) bool {
	if !pref.IsSet() {
		return false
	}
	return p.sourcemap.CompareAndSwap(int32(options.Unset), int32(pref))
}

// Reformat formats source. override, when set, decides over the cached
// preference whether a map is produced.
func (p *Plugin) Reformat(source string, override options.Preference) (Result, error) {
	return p.ReformatFile("", source, override)
}

// ReformatFile is Reformat with name recorded as both the generated file and
// the single source of the map.
func (p *Plugin) ReformatFile(name, source string, override options.Preference) (Result, error) {
	output, err := p.formatter.Format(source, p.options)
	if err != nil {
		return Result{}, err
	}

	if !options.Resolve(override, p.Sourcemap()) {
		return Result{Code: output}, nil
	}

	p.warn("Sourcemap is enabled, computing diff is required")
	p.warn("This may take a moment (depends on the size of your bundle)")

	m, err := reconcile.Reconcile(source, output, reconcile.Options{
		File:           name,
		Source:         SourceName(name),
		IncludeContent: true,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Code: output, Map: m}, nil
}

// SourceName is the name a map gives the text of file as it was before
// formatting. The text itself is embedded in the map, since it exists
// nowhere on disk.
func SourceName(file string) string {
	if file == "" {
		return "unformatted"
	}
	ext := path.Ext(file)
	return strings.TrimSuffix(file, ext) + ".unformatted" + ext
}

func (p *Plugin) warn(msg string) {
	p.log.Warnf("[%s] %s", p.name, msg)
}
