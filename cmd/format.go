package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	"github.com/brodo/bundlefmt/internal/formatter"
	"github.com/brodo/bundlefmt/internal/host"
	"github.com/brodo/bundlefmt/internal/plugin"
	"github.com/brodo/bundlefmt/internal/sourcemap"
	"github.com/brodo/bundlefmt/internal/watch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

type formatConfig struct {
	formatter   string
	hostVersion string
	sourcemap   string
	write       bool
	watch       bool
}

var fmtConfig = formatConfig{}

// formatCmd represents the format command
var formatCmd = &cobra.Command{
	Use:   "format [file...]",
	Short: "Format bundler output files in place or to stdout",
	Long: `Formats one or more files the way the bundler plugin would. The formatter is
picked by --formatter or by file extension. --host-version selects which bundler
generation's hooks are exercised.
For example:

bundlefmt format dist/main.js --sourcemap --write
bundlefmt format scripts/*.sh --write --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loadFormatConfig()

		results := make([]string, len(args))
		var g errgroup.Group
		g.SetLimit(runtime.NumCPU())
		for i, path := range args {
			i, path := i, path
			g.Go(func() error {
				out, err := formatFile(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				results[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if !fmtConfig.write {
			for _, out := range results {
				fmt.Fprint(cmd.OutOrStdout(), out)
			}
		}

		if !fmtConfig.watch {
			return nil
		}
		fw, err := watch.New(args...)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		log.Infof("Watching %d file(s) for changes...", len(args))
		err = watch.Run(ctx, fw, 100*time.Millisecond, func(path string) error {
			out, err := formatFile(path)
			if err != nil {
				log.Errorf("%s: %v", path, err)
				return nil
			}
			if !fmtConfig.write {
				fmt.Fprint(cmd.OutOrStdout(), out)
			}
			return nil
		})
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}

// formatFile formats path through the host hooks. With --write the file and
// its map are updated on disk and nothing is returned; otherwise the
// formatted text is returned with the map inlined.
func formatFile(path string) (string, error) {
	name := fmtConfig.formatter
	if name == "" {
		f, err := formatter.ForFile(path)
		if err != nil {
			return "", err
		}
		name = f.Name()
	}
	p, err := newPlugin(name)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	body, url := sourcemap.SplitComment(string(data))

	output := host.Config{}
	if fmtConfig.sourcemap != "" {
		output["sourcemap"] = fmtConfig.sourcemap
	}
	base := filepath.Base(path)
	hooks := host.ForVersion(fmtConfig.hostVersion, p)
	res, err := host.Invoke(hooks, viper.GetStringMap("global"), body, host.Chunk{FileName: base, IsEntry: true}, output)
	if err != nil {
		return "", err
	}

	code := res.Code
	if (res.Map != nil || url != "") && code != "" && code[len(code)-1] != '\n' {
		code += "\n"
	}
	var mapData []byte
	switch {
	case res.Map == nil && url != "":
		code += sourcemap.Comment(url)
	case res.Map != nil:
		res.Map.File = base
		res.Map.Sources = []string{plugin.SourceName(base)}
		if !fmtConfig.write {
			dataURL, err := res.Map.DataURL()
			if err != nil {
				return "", err
			}
			code += sourcemap.Comment(dataURL)
			break
		}
		if mapData, err = res.Map.JSON(); err != nil {
			return "", err
		}
		code += sourcemap.Comment(base + ".map")
	}

	if !fmtConfig.write {
		return code, nil
	}
	// An already formatted file keeps the map from its first pass.
	if code == string(data) {
		log.Debugf("%s is already formatted", path)
		return "", nil
	}
	if mapData != nil {
		if err := os.WriteFile(path+".map", mapData, 0o644); err != nil {
			return "", err
		}
	}
	return "", os.WriteFile(path, []byte(code), 0o644)
}

func init() {
	rootCmd.AddCommand(formatCmd)

	formatCmd.Flags().StringVarP(&fmtConfig.formatter, "formatter", "f", "",
		fmt.Sprintf("formatter to use, one of %v (default: by file extension)", formatter.Names()))
	formatCmd.Flags().StringVar(&fmtConfig.hostVersion, "host-version", "1.0.0", "bundler version whose plugin hooks are used; below 1.0.0 the legacy hooks run")
	formatCmd.Flags().StringVarP(&fmtConfig.sourcemap, "sourcemap", "s", "", "per-output sourcemap setting (true, false, inline, ...)")
	formatCmd.Flags().Lookup("sourcemap").NoOptDefVal = "true"
	formatCmd.Flags().BoolVarP(&fmtConfig.write, "write", "w", false, "write the result to the source file instead of stdout")
	formatCmd.Flags().BoolVar(&fmtConfig.watch, "watch", false, "keep running and format files again when they change")

	cobra.CheckErr(viper.BindPFlag("formatter", formatCmd.Flags().Lookup("formatter")))
	cobra.CheckErr(viper.BindPFlag("host-version", formatCmd.Flags().Lookup("host-version")))
	cobra.CheckErr(viper.BindPFlag("format.sourcemap", formatCmd.Flags().Lookup("sourcemap")))
	cobra.CheckErr(viper.BindPFlag("format.write", formatCmd.Flags().Lookup("write")))
	cobra.CheckErr(viper.BindPFlag("format.watch", formatCmd.Flags().Lookup("watch")))
	viper.SetDefault("host-version", "1.0.0")
}

func loadFormatConfig() {
	fmtConfig.formatter = viper.GetString("formatter")
	fmtConfig.hostVersion = viper.GetString("host-version")
	fmtConfig.sourcemap = viper.GetString("format.sourcemap")
	fmtConfig.write = viper.GetBool("format.write")
	fmtConfig.watch = viper.GetBool("format.watch")
}
