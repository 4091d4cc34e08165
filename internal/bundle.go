package internal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brodo/bundlefmt/internal/host"
	"github.com/brodo/bundlefmt/internal/plugin"
	"github.com/evanw/esbuild/pkg/api"
)

// BuildConfig is the subset of esbuild's options the build command exposes.
type BuildConfig struct {
	Entry     string
	Outfile   string
	Sourcemap string
	Format    string
	Platform  string
	Target    string
	External  []string
	Minify    bool
	Write     bool
}

var sourcemaps = map[string]api.SourceMap{
	"":         api.SourceMapNone,
	"none":     api.SourceMapNone,
	"linked":   api.SourceMapLinked,
	"inline":   api.SourceMapInline,
	"external": api.SourceMapExternal,
	"both":     api.SourceMapInlineAndExternal,
}

var formats = map[string]api.Format{
	"":     api.FormatDefault,
	"esm":  api.FormatESModule,
	"cjs":  api.FormatCommonJS,
	"iife": api.FormatIIFE,
}

var platforms = map[string]api.Platform{
	"":        api.PlatformBrowser,
	"browser": api.PlatformBrowser,
	"node":    api.PlatformNode,
	"neutral": api.PlatformNeutral,
}

var targets = map[string]api.Target{
	"":       api.ESNext,
	"esnext": api.ESNext,
	"es5":    api.ES5,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
}

func lookup[T any](kind string, table map[string]T, key string) (T, error) {
	v, ok := table[strings.ToLower(key)]
	if !ok {
		return v, fmt.Errorf("unknown %s %q", kind, key)
	}
	return v, nil
}

// Options translates cfg into esbuild build options with p installed as a
// plugin.
func (cfg BuildConfig) Options(p *plugin.Plugin) (api.BuildOptions, error) {
	sm, err := lookup("sourcemap mode", sourcemaps, cfg.Sourcemap)
	if err != nil {
		return api.BuildOptions{}, err
	}
	format, err := lookup("format", formats, cfg.Format)
	if err != nil {
		return api.BuildOptions{}, err
	}
	platform, err := lookup("platform", platforms, cfg.Platform)
	if err != nil {
		return api.BuildOptions{}, err
	}
	target, err := lookup("target", targets, cfg.Target)
	if err != nil {
		return api.BuildOptions{}, err
	}
	return api.BuildOptions{
		EntryPoints:       []string{cfg.Entry},
		Outfile:           cfg.Outfile,
		Bundle:            true,
		Write:             cfg.Write,
		Sourcemap:         sm,
		Format:            format,
		Platform:          platform,
		Target:            target,
		External:          cfg.External,
		MinifyIdentifiers: cfg.Minify,
		MinifySyntax:      cfg.Minify,
		Plugins:           []api.Plugin{host.Esbuild(p)},
	}, nil
}

// Bundle builds cfg.Entry and pipes the output through p. Whitespace is
// never minified since the formatter would undo it.
func Bundle(cfg BuildConfig, p *plugin.Plugin) ([]api.OutputFile, error) {
	opts, err := cfg.Options(p)
	if err != nil {
		return nil, err
	}
	result := api.Build(opts)
	errs := make([]error, len(result.Errors))
	for i, message := range result.Errors {
		if message.PluginName != "" {
			errs[i] = fmt.Errorf("[%s] %s", message.PluginName, message.Text)
			continue
		}
		errs[i] = fmt.Errorf("%s", message.Text)
	}
	return result.OutputFiles, errors.Join(errs...)
}
