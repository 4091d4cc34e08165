package formatter

import (
	"errors"
	"fmt"

	"github.com/evanw/esbuild/pkg/api"
)

// Esbuild reprints code with esbuild's printer. It normalizes whitespace the
// way esbuild's own unminified output looks and drops non-legal comments.
type Esbuild struct{}

func init() {
	Register(Esbuild{})
}

type esbuildOptions struct {
	Loader        string `mapstructure:"loader"`
	Target        string `mapstructure:"target"`
	Charset       string `mapstructure:"charset"`
	LegalComments string `mapstructure:"legalComments"`
	KeepNames     bool   `mapstructure:"keepNames"`
}

var (
	esbuildLoaders = map[string]api.Loader{
		"":    api.LoaderJS,
		"js":  api.LoaderJS,
		"jsx": api.LoaderJSX,
		"ts":  api.LoaderTS,
		"tsx": api.LoaderTSX,
		"css": api.LoaderCSS,
	}
	esbuildTargets = map[string]api.Target{
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
	esbuildCharsets = map[string]api.Charset{
		"":      api.CharsetUTF8,
		"utf8":  api.CharsetUTF8,
		"ascii": api.CharsetASCII,
	}
	esbuildLegalComments = map[string]api.LegalComments{
		"":       api.LegalCommentsDefault,
		"none":   api.LegalCommentsNone,
		"inline": api.LegalCommentsInline,
		"eof":    api.LegalCommentsEndOfFile,
	}
)

func (Esbuild) Name() string { return "esbuild" }

func (Esbuild) Extensions() []string {
	return []string{".ts", ".tsx", ".mts", ".cts", ".css"}
}

func (Esbuild) Format(source string, opts map[string]any) (string, error) {
	var o esbuildOptions
	if err := decode(opts, &o); err != nil {
		return "", fmt.Errorf("esbuild options: %w", err)
	}
	loader, ok := esbuildLoaders[o.Loader]
	if !ok {
		return "", fmt.Errorf("esbuild options: unknown loader %q", o.Loader)
	}
	target, ok := esbuildTargets[o.Target]
	if !ok {
		return "", fmt.Errorf("esbuild options: unknown target %q", o.Target)
	}
	charset, ok := esbuildCharsets[o.Charset]
	if !ok {
		return "", fmt.Errorf("esbuild options: unknown charset %q", o.Charset)
	}
	legal, ok := esbuildLegalComments[o.LegalComments]
	if !ok {
		return "", fmt.Errorf("esbuild options: unknown legalComments %q", o.LegalComments)
	}

	result := api.Transform(source, api.TransformOptions{
		Loader:        loader,
		Target:        target,
		Charset:       charset,
		LegalComments: legal,
		KeepNames:     o.KeepNames,
	})
	if len(result.Errors) > 0 {
		errs := make([]error, len(result.Errors))
		for i, message := range result.Errors {
			errs[i] = fmt.Errorf("%s", message.Text)
		}
		return "", errors.Join(errs...)
	}
	return keepTrailingNewline(source, string(result.Code)), nil
}
