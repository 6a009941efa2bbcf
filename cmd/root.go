// Package cmd holds the propcalc command line: the web server and offline
// access to the calculator catalogue.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"propcalc/calculator"
	"propcalc/config"
	"propcalc/logging"
	"propcalc/service"
	"propcalc/tools"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "propcalc",
	Short:         "Real estate calculators, AI writing tools and a blog",
	Long:          "propcalc serves a catalogue of real estate investing calculators, a few AI-assisted writing tools and a small blog. The calc and list commands use the catalogue offline.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(calcCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "propcalc %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// newLogger builds the logger for cfg; --verbose forces debug.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	if flagVerbose {
		cfg.Level = "debug"
	}
	return logging.New(cfg.Level, cfg.Format)
}

// cliLogger is the quiet console logger used by the offline commands.
func cliLogger() (*zap.Logger, error) {
	return newLogger(config.LoggingConfig{Level: "warn", Format: "console"})
}

func newCalculatorService(logger *zap.Logger) (*service.CalculatorService, error) {
	registry, err := calculator.NewRegistryFrom(tools.All()...)
	if err != nil {
		return nil, fmt.Errorf("building calculator registry: %w", err)
	}
	return service.NewCalculatorService(registry, logger), nil
}
