// Package host adapts the plugin core to the hook shapes of the bundler
// generations it supports.
package host

import (
	"github.com/Masterminds/semver/v3"
	"github.com/brodo/bundlefmt/internal/options"
	"github.com/brodo/bundlefmt/internal/plugin"
)

// Config is a bundler settings object.
type Config = options.Config

// Chunk describes one unit of bundler output.
type Chunk struct {
	FileName string
	IsEntry  bool
	Modules  []string
}

// Hooks is the plugin object a host generation expects. Hooks a generation
// does not know are nil.
type Hooks struct {
	Name string
	// Options is the legacy announcement of the resolved global settings.
	Options func(global Config)
	// TransformBundle is the legacy whole-bundle hook.
	TransformBundle func(source string, output Config) (plugin.Result, error)
	// RenderChunk is the per-chunk hook of stable hosts.
	RenderChunk func(source string, chunk Chunk, output Config) (plugin.Result, error)
}

// Legacy adapts p to hosts before 1.0.
func Legacy(p *plugin.Plugin) Hooks {
	return Hooks{
		Name: p.Name(),
		Options: func(global Config) {
			if p.Sourcemap().IsSet() {
				return
			}
			if options.Announced(global) {
				p.LatchSourcemap(options.Enabled)
			}
		},
		TransformBundle: func(source string, output Config) (plugin.Result, error) {
			return p.Reformat(source, options.OutputPreference(output))
		},
	}
}

// Stable adapts p to hosts from 1.0 on.
func Stable(p *plugin.Plugin) Hooks {
	return Hooks{
		Name: p.Name(),
		RenderChunk: func(source string, chunk Chunk, output Config) (plugin.Result, error) {
			return p.ReformatFile(chunk.FileName, source, options.PreferenceOf(output[options.KeySourcemap]))
		},
	}
}

var generations = []struct {
	constraint string
	adapt      func(*plugin.Plugin) Hooks
}{
	{"< 1.0.0", Legacy},
	{">= 1.0.0", Stable},
}

// ForVersion picks the adapter matching a host version. Versions that cannot
// be parsed are treated as 0.x.
func ForVersion(version string, p *plugin.Plugin) Hooks {
	v, err := semver.NewVersion(version)
	if err != nil {
		return Legacy(p)
	}
	core, err := v.SetPrerelease("")
	if err == nil {
		v = &core
	}
	for _, g := range generations {
		c, err := semver.NewConstraint(g.constraint)
		if err != nil {
			continue
		}
		if c.Check(v) {
			return g.adapt(p)
		}
	}
	return Legacy(p)
}

// Invoke runs one render the way the host generation of h would: announce
// the global settings if h listens for them, then call the bundle or chunk
// hook.
func Invoke(h Hooks, global Config, source string, chunk Chunk, output Config) (plugin.Result, error) {
	if h.Options != nil {
		h.Options(global)
	}
	if h.TransformBundle != nil {
		return h.TransformBundle(source, output)
	}
	return h.RenderChunk(source, chunk, output)
}
