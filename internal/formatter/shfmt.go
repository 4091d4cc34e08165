package formatter

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Shfmt formats shell scripts.
type Shfmt struct{}

func init() {
	Register(Shfmt{})
}

type shfmtOptions struct {
	Indent           uint   `mapstructure:"indent"`
	BinaryNextLine   bool   `mapstructure:"binaryNextLine"`
	SwitchCaseIndent bool   `mapstructure:"switchCaseIndent"`
	SpaceRedirects   bool   `mapstructure:"spaceRedirects"`
	FuncNextLine     bool   `mapstructure:"funcNextLine"`
	Variant          string `mapstructure:"variant"`
}

var shellVariants = map[string]syntax.LangVariant{
	"":      syntax.LangBash,
	"bash":  syntax.LangBash,
	"posix": syntax.LangPOSIX,
	"mksh":  syntax.LangMirBSDKorn,
	"bats":  syntax.LangBats,
}

func (Shfmt) Name() string { return "shfmt" }

func (Shfmt) Extensions() []string {
	return []string{".sh", ".bash", ".bats"}
}

func (Shfmt) Format(source string, opts map[string]any) (string, error) {
	var o shfmtOptions
	if err := decode(opts, &o); err != nil {
		return "", fmt.Errorf("shfmt options: %w", err)
	}
	variant, ok := shellVariants[o.Variant]
	if !ok {
		return "", fmt.Errorf("shfmt options: unknown variant %q", o.Variant)
	}

	parser := syntax.NewParser(syntax.Variant(variant))
	prog, err := parser.Parse(strings.NewReader(source), "")
	if err != nil {
		return "", err
	}

	printer := syntax.NewPrinter(
		syntax.Indent(o.Indent),
		syntax.BinaryNextLine(o.BinaryNextLine),
		syntax.SwitchCaseIndent(o.SwitchCaseIndent),
		syntax.SpaceRedirects(o.SpaceRedirects),
		syntax.FunctionNextLine(o.FuncNextLine),
	)
	var sb strings.Builder
	if err := printer.Print(&sb, prog); err != nil {
		return "", err
	}
	return keepTrailingNewline(source, sb.String()), nil
}
