package formatter

import (
	"fmt"
	"strings"

	"github.com/ditashi/jsbeautifier-go/jsbeautifier"
	"github.com/gobeam/stringy"
	"github.com/spf13/cast"
)

// JSBeautify pretty-prints JavaScript with jsbeautifier.
type JSBeautify struct{}

func init() {
	Register(JSBeautify{})
}

func (JSBeautify) Name() string { return "jsbeautify" }

func (JSBeautify) Extensions() []string {
	return []string{".js", ".mjs", ".cjs", ".jsx"}
}

// Format applies opts on top of jsbeautifier's defaults. camelCase keys are
// accepted for the snake_case ones jsbeautifier knows (indentSize for
// indent_size) and values are coerced to the type of the default.
func (JSBeautify) Format(source string, opts map[string]any) (string, error) {
	options := jsbeautifier.DefaultOptions()
	for k, v := range opts {
		key := k
		if strings.ToLower(k) != k {
			key = stringy.New(k).SnakeCase().ToLower()
		}
		def, known := options[key]
		if !known {
			options[key] = v
			continue
		}
		coerced, err := coerce(def, v)
		if err != nil {
			return "", fmt.Errorf("jsbeautify option %q: %w", k, err)
		}
		options[key] = coerced
	}
	in := source
	out, err := jsbeautifier.Beautify(&in, options)
	if err != nil {
		return "", err
	}
	return keepTrailingNewline(source, out), nil
}

func coerce(def, v any) (any, error) {
	switch def.(type) {
	case int:
		return cast.ToIntE(v)
	case bool:
		return cast.ToBoolE(v)
	case string:
		return cast.ToStringE(v)
	case float64:
		return cast.ToFloat64E(v)
	}
	return v, nil
}
