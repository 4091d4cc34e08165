package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/gobeam/stringy"
)

// OutfileVars are the variables available in an --outfile template.
type OutfileVars struct {
	Cwd        string
	Entry      string
	EntryDir   string
	EntryName  string
	EntryKebab string
	Time       time.Time

	// layouts for use with .Time.Format
	FormatRFC3339  string
	FormatDateOnly string
}

func NewOutfileVars(entry string, now time.Time) (OutfileVars, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return OutfileVars{}, err
	}
	dir, file := filepath.Split(entry)
	if dir == "" {
		dir = cwd
	}
	name := strings.TrimSuffix(file, filepath.Ext(file))
	return OutfileVars{
		Cwd:            filepath.Base(cwd),
		Entry:          file,
		EntryDir:       filepath.Base(filepath.Clean(dir)),
		EntryName:      name,
		EntryKebab:     stringy.New(name).KebabCase().ToLower(),
		Time:           now,
		FormatRFC3339:  time.RFC3339,
		FormatDateOnly: time.DateOnly,
	}, nil
}

// Expand renders tmpl, which may be a plain path.
func (vars OutfileVars) Expand(tmpl string) (string, error) {
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}
	t, err := template.New("outfile").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", err
	}
	out := new(bytes.Buffer)
	if err := t.Execute(out, vars); err != nil {
		return "", err
	}
	return out.String(), nil
}
