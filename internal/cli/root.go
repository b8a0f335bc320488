// Package cli defines the lifelog command tree.
package cli

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"lifelog/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "lifelog",
	Short: "Conversational wellness logging assistant",
	Long: "Lifelog turns free-text messages into structured sleep, exercise and " +
		"wellness records, asking follow-up questions until an entry is complete.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (YAML)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(msgCmd)
	rootCmd.AddCommand(digestCmd)
}

// loadConfig reads the config file (if any) with env overrides applied.
func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

// newLogger builds the process logger from config.
func newLogger(cfg config.Config) *log.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          "lifelog",
	}
	if cfg.Log.Format == "json" {
		opts.Formatter = log.JSONFormatter
	}
	logger := log.NewWithOptions(os.Stderr, opts)
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}
