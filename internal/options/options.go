// Package options resolves the formatter configuration and the sourcemap
// preference from plugin, global and per-output settings.
package options

import (
	"github.com/spf13/cast"
)

const (
	KeySourcemap = "sourcemap"
	// KeySourceMap is the deprecated spelling of KeySourcemap.
	KeySourceMap = "sourceMap"
)

// Config is a loosely typed settings object as handed over by a bundler.
type Config map[string]any

// Preference is a tri-state sourcemap decision. Unset defers to the next
// source of truth, Disabled does not.
type Preference int32

const (
	Unset Preference = iota
	Disabled
	Enabled
)

func (p Preference) String() string {
	switch p {
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	default:
		return "unset"
	}
}

func (p Preference) IsSet() bool {
	return p != Unset
}

func FromBool(b bool) Preference {
	if b {
		return Enabled
	}
	return Disabled
}

// PreferenceOf interprets an arbitrary config value. Unparseable non-empty
// strings such as "inline" count as enabled.
func PreferenceOf(v any) Preference {
	switch t := v.(type) {
	case nil:
		return Unset
	case Preference:
		return t
	case bool:
		return FromBool(t)
	case *bool:
		if t == nil {
			return Unset
		}
		return FromBool(*t)
	case string:
		if b, err := cast.ToBoolE(t); err == nil {
			return FromBool(b)
		}
		return FromBool(t != "")
	}
	return FromBool(cast.ToBool(v))
}

// Normalized is the outcome of Normalize.
type Normalized struct {
	// Formatter is nil when nothing but sourcemap keys was given, so the
	// formatter falls back to its own defaults.
	Formatter map[string]any
	Sourcemap Preference
	// Deprecated is set when the preference came from KeySourceMap.
	Deprecated bool
}

// Normalize splits raw plugin options into formatter options and the
// sourcemap preference. raw is never modified.
func Normalize(raw map[string]any) Normalized {
	var n Normalized
	for k, v := range raw {
		if k == KeySourcemap || k == KeySourceMap {
			continue
		}
		if n.Formatter == nil {
			n.Formatter = make(map[string]any, len(raw))
		}
		n.Formatter[k] = v
	}

	if v, ok := raw[KeySourcemap]; ok {
		n.Sourcemap = PreferenceOf(v)
	} else if v, ok := raw[KeySourceMap]; ok {
		n.Sourcemap = PreferenceOf(v)
		n.Deprecated = true
	}
	return n
}

// Resolve decides whether a map is emitted for one call: an explicit
// override wins, then the cached preference, then no map.
func Resolve(override, cached Preference) bool {
	if override.IsSet() {
		return override == Enabled
	}
	return cached == Enabled
}

// Announced inspects the global options of a legacy host. The flag may sit
// on the object itself or on its output entry, which is either a single
// object or a list of them; any enabled entry wins.
func Announced(global Config) bool {
	if enabled(global) {
		return true
	}
	switch out := global["output"].(type) {
	case []any:
		for _, o := range out {
			if enabled(asConfig(o)) {
				return true
			}
		}
	case []Config:
		for _, o := range out {
			if enabled(o) {
				return true
			}
		}
	case []map[string]any:
		for _, o := range out {
			if enabled(o) {
				return true
			}
		}
	default:
		return enabled(asConfig(out))
	}
	return false
}

// OutputPreference reads the per-output override of a legacy host. The
// preferred spelling wins whenever the key is present.
func OutputPreference(output Config) Preference {
	if v, ok := output[KeySourcemap]; ok {
		return PreferenceOf(v)
	}
	return PreferenceOf(output[KeySourceMap])
}

func enabled(c Config) bool {
	return PreferenceOf(c[KeySourcemap]) == Enabled || PreferenceOf(c[KeySourceMap]) == Enabled
}

func asConfig(v any) Config {
	switch t := v.(type) {
	case Config:
		return t
	case map[string]any:
		return t
	}
	return nil
}
