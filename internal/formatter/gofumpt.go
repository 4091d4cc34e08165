package formatter

import (
	"fmt"

	"mvdan.cc/gofumpt/format"
)

// Gofumpt formats Go source with gofumpt's stricter gofmt rules.
type Gofumpt struct{}

func init() {
	Register(Gofumpt{})
}

type gofumptOptions struct {
	LangVersion string `mapstructure:"langVersion"`
	ModulePath  string `mapstructure:"modulePath"`
	ExtraRules  bool   `mapstructure:"extraRules"`
}

func (Gofumpt) Name() string { return "gofumpt" }

func (Gofumpt) Extensions() []string {
	return []string{".go"}
}

func (Gofumpt) Format(source string, opts map[string]any) (string, error) {
	var o gofumptOptions
	if err := decode(opts, &o); err != nil {
		return "", fmt.Errorf("gofumpt options: %w", err)
	}
	out, err := format.Source([]byte(source), format.Options{
		LangVersion: o.LangVersion,
		ModulePath:  o.ModulePath,
		ExtraRules:  o.ExtraRules,
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}
