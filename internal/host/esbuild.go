package host

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/brodo/bundlefmt/internal/options"
	"github.com/brodo/bundlefmt/internal/plugin"
	"github.com/brodo/bundlefmt/internal/sourcemap"
	"github.com/evanw/esbuild/pkg/api"
	"golang.org/x/sync/errgroup"
)

// Esbuild adapts p to esbuild. esbuild has one output configuration, so its
// Sourcemap option is both the global announcement and the per-output
// override. Output is kept in memory until it is formatted; if the caller
// asked for Write the plugin writes the files itself.
func Esbuild(p *plugin.Plugin) api.Plugin {
	return api.Plugin{
		Name: p.Name(),
		Setup: func(build api.PluginBuild) {
			opts := build.InitialOptions
			override := options.Unset
			if opts.Sourcemap != api.SourceMapNone {
				override = options.Enabled
				p.LatchSourcemap(options.Enabled)
			}
			write := opts.Write
			opts.Write = false

			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				if len(result.Errors) > 0 {
					return api.OnEndResult{}, nil
				}
				if err := rewriteOutputs(p, override, result); err != nil {
					return api.OnEndResult{Errors: []api.Message{{PluginName: p.Name(), Text: err.Error()}}}, nil
				}
				if write {
					if err := writeOutputs(result.OutputFiles); err != nil {
						return api.OnEndResult{Errors: []api.Message{{PluginName: p.Name(), Text: err.Error()}}}, nil
					}
				}
				return api.OnEndResult{}, nil
			})
		},
	}
}

func isScript(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".mjs", ".cjs":
		return true
	}
	return false
}

// rewriteOutputs formats every script in result concurrently. Each script
// touches only its own file and its own map file.
func rewriteOutputs(p *plugin.Plugin, override options.Preference, result *api.BuildResult) error {
	files := result.OutputFiles
	index := make(map[string]int, len(files))
	for i, f := range files {
		index[f.Path] = i
	}

	var (
		mu    sync.Mutex
		added []api.OutputFile
		g     errgroup.Group
	)
	g.SetLimit(runtime.NumCPU())
	for i := range files {
		if !isScript(files[i].Path) {
			continue
		}
		i := i
		g.Go(func() error {
			js := &files[i]
			var mapFile *api.OutputFile
			if j, ok := index[js.Path+".map"]; ok {
				mapFile = &files[j]
			}
			created, err := rewriteScript(p, override, js, mapFile)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(js.Path), err)
			}
			if created != nil {
				mu.Lock()
				added = append(added, *created)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	result.OutputFiles = append(result.OutputFiles, added...)
	return nil
}

// rewriteScript formats js in place and keeps its source map in sync. It
// returns a new map file when js had none but a map was produced.
func rewriteScript(p *plugin.Plugin, override options.Preference, js, mapFile *api.OutputFile) (*api.OutputFile, error) {
	body, url := sourcemap.SplitComment(string(js.Contents))
	name := filepath.Base(js.Path)
	res, err := p.ReformatFile(name, body, override)
	if err != nil {
		return nil, err
	}

	code := res.Code
	if code != "" && !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	inline := sourcemap.IsDataURL(url)

	if res.Map == nil {
		if url != "" {
			code += sourcemap.Comment(url)
		}
		js.Contents = []byte(code)
		return nil, nil
	}

	var inner *sourcemap.Map
	switch {
	case mapFile != nil:
		inner, err = sourcemap.Parse(mapFile.Contents)
	case inline:
		inner, err = sourcemap.ParseDataURL(url)
	}
	if err != nil {
		return nil, fmt.Errorf("reading bundler sourcemap: %w", err)
	}

	final := res.Map
	if inner != nil {
		if final, err = sourcemap.Compose(res.Map, inner); err != nil {
			return nil, err
		}
	}
	final.File = name
	data, err := final.JSON()
	if err != nil {
		return nil, err
	}

	var created *api.OutputFile
	switch {
	case mapFile != nil:
		mapFile.Contents = data
	case !inline:
		created = &api.OutputFile{Path: js.Path + ".map", Contents: data}
		url = name + ".map"
	}

	if inline {
		dataURL, err := final.DataURL()
		if err != nil {
			return nil, err
		}
		code += sourcemap.Comment(dataURL)
	} else if url != "" {
		code += sourcemap.Comment(url)
	}
	js.Contents = []byte(code)
	return created, nil
}

func writeOutputs(files []api.OutputFile) error {
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(f.Path, f.Contents, 0o644); err != nil {
			return err
		}
	}
	return nil
}
