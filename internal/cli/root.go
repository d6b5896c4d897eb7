// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/nagmodel/internal/config"
	"github.com/aidanlsb/nagmodel/internal/logging"
	"github.com/aidanlsb/nagmodel/internal/ui"
)

var (
	// Global flags
	configPath   string
	snapshotFlag string
	databaseFlag string
	logLevelFlag string

	// Resolved values
	resolvedConfigPath string
	cfg                *config.Config
	logger             *logrus.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nagmodel",
	Short: "nagmodel - query and edit monitoring object definitions",
	Long: `nagmodel loads host, service, contact and group definitions and answers
questions about them the way the monitoring engine would: template
inheritance with additive "+" lists, macro expansion and group membership.

Definitions come from a YAML snapshot or a SQLite database built with
"nagmodel import".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "completion", "help", "config":
			return nil
		}
		// config subcommands must work while config.toml is invalid.
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}

		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return handleError(ErrConfigInvalid, fmt.Errorf("failed to load config: %w", err), "Check the file or run 'nagmodel config init'")
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureCodeTheme(cfg.UI.CodeTheme)

		level := cfg.LogLevel
		if strings.TrimSpace(logLevelFlag) != "" {
			level = logLevelFlag
		}
		if level == "" {
			level = "warn"
		}
		logger, err = logging.New(level, os.Stderr, jsonOutput)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Use one of: debug, info, warn, error")
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&snapshotFlag, "snapshot", "", "YAML snapshot to load (selects the yaml store)")
	rootCmd.PersistentFlags().StringVar(&databaseFlag, "db", "", "SQLite database to load (selects the sqlite store)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

// getLogger returns the process logger, discarding output before setup.
func getLogger() *logrus.Logger {
	if logger == nil {
		return logging.Discard()
	}
	return logger
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)
	loadedCfg, err := config.LoadPath(resolvedPath)
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}
	return loadedCfg, resolvedPath, nil
}
