package formatter_test

import (
	"testing"

	"github.com/brodo/bundlefmt/internal/formatter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"esbuild", "gofumpt", "jsbeautify", "shfmt"}, formatter.Names())

	f, err := formatter.Get("")
	require.NoError(t, err)
	assert.Equal(t, formatter.DefaultName, f.Name())

	_, err = formatter.Get("prettier")
	assert.ErrorIs(t, err, formatter.ErrUnknown)

	for path, want := range map[string]string{
		"bundle.js":  "jsbeautify",
		"bundle.MJS": "jsbeautify",
		"app.tsx":    "esbuild",
		"style.css":  "esbuild",
		"run.sh":     "shfmt",
		"main.go":    "gofumpt",
	} {
		f, err := formatter.ForFile(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, f.Name(), path)
	}
	_, err = formatter.ForFile("README.md")
	assert.ErrorIs(t, err, formatter.ErrUnknown)
}

func TestJSBeautify(t *testing.T) {
	f := formatter.JSBeautify{}

	out, err := f.Format(`var foo=0;var test="hello world";`, nil)
	require.NoError(t, err)
	assert.Equal(t, "var foo = 0;\nvar test = \"hello world\";", out)

	out, err = f.Format("var foo = 0;\nvar test = \"hello world\";", nil)
	require.NoError(t, err)
	assert.Equal(t, "var foo = 0;\nvar test = \"hello world\";", out)
}

func TestJSBeautify_Options(t *testing.T) {
	f := formatter.JSBeautify{}
	code := "function f(){return 1}"

	out, err := f.Format(code, map[string]any{"indentSize": 2})
	require.NoError(t, err)
	assert.Contains(t, out, "\n  return 1")

	out, err = f.Format(code, map[string]any{"indent_size": "2"})
	require.NoError(t, err)
	assert.Contains(t, out, "\n  return 1")

	_, err = f.Format(code, map[string]any{"indent_size": "wide"})
	assert.Error(t, err)
}

func TestEsbuild(t *testing.T) {
	f := formatter.Esbuild{}

	out, err := f.Format("let x=1", nil)
	require.NoError(t, err)
	assert.Equal(t, "let x = 1;", out)

	out, err = f.Format("let x=1\n", nil)
	require.NoError(t, err)
	assert.Equal(t, "let x = 1;\n", out)

	out, err = f.Format("const a:number=1", map[string]any{"loader": "ts"})
	require.NoError(t, err)
	assert.Equal(t, "const a = 1;", out)

	_, err = f.Format("let = ;", nil)
	assert.Error(t, err)

	_, err = f.Format("let x", map[string]any{"loader": "coffee"})
	assert.Error(t, err)
}

func TestShfmt(t *testing.T) {
	f := formatter.Shfmt{}

	out, err := f.Format("foo(){\necho hi\n}\n", nil)
	require.NoError(t, err)
	assert.Equal(t, "foo() {\n\techo hi\n}\n", out)

	out, err = f.Format("foo(){\necho hi\n}\n", map[string]any{"indent": 2})
	require.NoError(t, err)
	assert.Equal(t, "foo() {\n  echo hi\n}\n", out)

	_, err = f.Format("if", nil)
	assert.Error(t, err)
}

func TestGofumpt(t *testing.T) {
	f := formatter.Gofumpt{}

	out, err := f.Format("package main\nfunc  main( ){ }\n", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "func main() {}")

	_, err = f.Format("package", nil)
	assert.Error(t, err)
}
