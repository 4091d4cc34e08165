package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// docsCmd represents the docs command
var docsCmd = &cobra.Command{
	Use:   "docs [dir]",
	Short: "Generate the markdown documentation for bundlefmt",
	Long: `Writes one markdown file per command into dir, ./docs by default.
For example:

bundlefmt docs
bundlefmt docs site/cli`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := filepath.Join(".", "docs")
		if len(args) > 0 {
			dir = args[0]
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
		return doc.GenMarkdownTree(rootCmd, dir)
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
