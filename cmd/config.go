package cmd

import (
	"fmt"
	"os"

	"github.com/brodo/bundlefmt/internal/formatter"
	"github.com/brodo/bundlefmt/internal/plugin"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// pluginOptions collects the option bag handed to the plugin. viper folds
// keys to lower case, which would break camelCase formatter options, so the
// options file is read with yaml directly and wins over the config file's
// options section.
func pluginOptions() (map[string]any, error) {
	raw := map[string]any{}
	for k, v := range viper.GetStringMap("options") {
		raw[k] = v
	}
	path := viper.GetString("options-file")
	if path == "" {
		return raw, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fromFile := map[string]any{}
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("reading options file %s: %w", path, err)
	}
	for k, v := range fromFile {
		raw[k] = v
	}
	return raw, nil
}

// newPlugin builds a plugin using the named formatter, or the configured one
// when name is empty.
func newPlugin(name string) (*plugin.Plugin, error) {
	if name == "" {
		name = viper.GetString("formatter")
	}
	f, err := formatter.Get(name)
	if err != nil {
		return nil, err
	}
	raw, err := pluginOptions()
	if err != nil {
		return nil, err
	}
	return plugin.New(raw, plugin.WithFormatter(f), plugin.WithLogger(log)), nil
}
