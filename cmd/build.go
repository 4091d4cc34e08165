package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/brodo/bundlefmt/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type buildFlags struct {
	internal.BuildConfig
	assets string
}

var buildConfig = buildFlags{}

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build [entry point]",
	Short: "Bundle an entry point with esbuild and format the output",
	Long: `Bundles a JavaScript or TypeScript entry point with esbuild, pipes every
emitted script through the configured formatter and keeps esbuild's source
map pointing at the original sources.
For example:

bundlefmt build src/main.ts --outfile dist/main.js --sourcemap linked
bundlefmt build src/main.ts --outfile 'dist/{{.EntryKebab}}.js' --assets static`,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadBuildConfig()
		cfg := buildConfig.BuildConfig
		cfg.Entry = args[0]
		cfg.Write = true

		vars, err := internal.NewOutfileVars(cfg.Entry, time.Now())
		if err != nil {
			return err
		}
		if cfg.Outfile, err = vars.Expand(cfg.Outfile); err != nil {
			return fmt.Errorf("expanding --outfile: %w", err)
		}

		p, err := newPlugin("")
		if err != nil {
			return err
		}
		log.Infof("Bundling %s...", cfg.Entry)
		files, err := internal.Bundle(cfg, p)
		if err != nil {
			return err
		}
		for _, f := range files {
			log.Infof("  %s (%d bytes)", f.Path, len(f.Contents))
		}

		if buildConfig.assets != "" {
			dest, err := internal.CopyAssets(buildConfig.assets, filepath.Dir(cfg.Outfile))
			if err != nil {
				return fmt.Errorf("copying assets: %w", err)
			}
			log.Infof("Copied assets to %s", dest)
		}
		return nil
	},
	Args: cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildConfig.Outfile, "outfile", "o", "dist/{{.EntryName}}.js",
		`output file. You can provide a go template string (https://pkg.go.dev/text/template) here. See the documentation for supported variables.`)
	buildCmd.Flags().StringVar(&buildConfig.Sourcemap, "sourcemap", "none", "esbuild sourcemap mode: none, linked, inline, external or both")
	buildCmd.Flags().StringVar(&buildConfig.Format, "format", "esm", "output format: esm, cjs or iife")
	buildCmd.Flags().StringVar(&buildConfig.Platform, "platform", "browser", "target platform: browser, node or neutral")
	buildCmd.Flags().StringVar(&buildConfig.Target, "target", "esnext", "language target, e.g. es2015")
	buildCmd.Flags().StringSliceVar(&buildConfig.External, "external", nil, "modules to leave out of the bundle")
	buildCmd.Flags().BoolVarP(&buildConfig.Minify, "minify", "m", false, "minify identifiers and syntax before formatting")
	buildCmd.Flags().StringVar(&buildConfig.assets, "assets", "", "directory copied next to the output file")

	for _, name := range []string{"outfile", "sourcemap", "format", "platform", "target", "external", "minify", "assets"} {
		cobra.CheckErr(viper.BindPFlag("build."+name, buildCmd.Flags().Lookup(name)))
	}
	viper.SetDefault("build.outfile", "dist/{{.EntryName}}.js")
	viper.SetDefault("build.sourcemap", "none")
	viper.SetDefault("build.format", "esm")
	viper.SetDefault("build.platform", "browser")
	viper.SetDefault("build.target", "esnext")
	viper.SetDefault("build.minify", false)
	viper.SetDefault("build.assets", "")
}

func loadBuildConfig() {
	buildConfig.Outfile = viper.GetString("build.outfile")
	buildConfig.Sourcemap = viper.GetString("build.sourcemap")
	buildConfig.Format = viper.GetString("build.format")
	buildConfig.Platform = viper.GetString("build.platform")
	buildConfig.Target = viper.GetString("build.target")
	buildConfig.External = viper.GetStringSlice("build.external")
	buildConfig.Minify = viper.GetBool("build.minify")
	buildConfig.assets = viper.GetString("build.assets")
}
