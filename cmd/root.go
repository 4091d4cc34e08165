/*
Copyright © 2026 ifm julian.dax@ifm.com
*/
package cmd

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Used for flags.
	cfgFile  string
	logLevel string
	// set using ldflags
	version = "dev"
)

var log = logrus.New()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bundlefmt",
	Short: "Pretty-print bundler output and keep its source maps accurate",
	Long: `bundlefmt pipes JavaScript bundles through a code formatter. When source maps
are enabled it maps every formatted character back to the bundle, so debuggers
still land on the right line.
For example:

bundlefmt build src/main.js --outfile dist/main.js --sourcemap linked
bundlefmt format dist/*.js --write
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(viper.GetString("log-level"))
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// plainFormatter prints only the message, so plugin warnings read the same
// as they would in a bundler's console.
type plainFormatter struct{}

func (plainFormatter) Format(e *logrus.Entry) ([]byte, error) {
	return append([]byte(e.Message), '\n'), nil
}

func init() {
	cobra.OnInitialize(initConfig)

	log.SetOutput(os.Stderr)
	log.SetFormatter(plainFormatter{})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "bundlefmt config file path (default is $CWD/.bundlefmt.yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "one of debug, info, warn, error")
	cobra.CheckErr(viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")))
	rootCmd.Version = version

	viper.SetDefault("log-level", "info")
	viper.SetEnvPrefix("BUNDLEFMT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find cwd directory.
		cwd, err := os.Getwd()
		cobra.CheckErr(err)
		viper.AddConfigPath(cwd)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".bundlefmt")
	}

	err := viper.ReadInConfig()
	if err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
		return
	}
	if _, notFound := err.(viper.ConfigFileNotFoundError); notFound && cfgFile == "" {
		return
	}
	cobra.CheckErr(err)
}
