// Package commands implements the filevault CLI.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"filevault/internal/config"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "filevault",
	Short: "Filesystem-backed blob store with a static HTTP surface",
	Long: `filevault stores uploaded files under a single root directory and
serves them back read-only over HTTP with long-lived cache headers.

Mutation (put, rm) happens only through this CLI or the in-process API;
the HTTP surface never writes.

Examples:
  # Serve blobs at http://localhost:8080/files/...
  filevault serve --config filevault.yaml

  # Store a blob and print its public URL
  filevault put users/7/avatar.png avatar.png

  # Drop everything belonging to one user
  filevault rm --prefix users/7
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug|info|warn|error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(urlCmd)
	rootCmd.AddCommand(lsCmd)
}

// loadConfig loads the configuration, applies the log-level flag override and
// installs the process default logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	return cfg, nil
}
