package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathgenius/internal/config"
	"github.com/abhisek/mathgenius/internal/logging"
	"github.com/abhisek/mathgenius/internal/store"
)

// Loaded by the root PersistentPreRunE before any subcommand runs.
var (
	cfg      *config.Config
	logger   *logrus.Logger
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "mathgenius",
	Short: "Adaptive math practice",
	Long: "Math Genius generates multiple-choice math questions for grades Pre-K to 12 " +
		"and adapts their difficulty to how the learner is doing.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	RunE: runPlay,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/mathgenius/config.yaml)")
	flags.String("db", "", "Path to SQLite database file (overrides MATHGENIUS_DB env var)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("learner", "", "Learner ID (overrides config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(distractorsCmd)
	rootCmd.AddCommand(calibrateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// setup loads configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetString("db"); v != "" {
		c.Database.Path = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		c.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("learner"); v != "" {
		c.Learner = v
	}
	if err := c.Validate(); err != nil {
		return err
	}

	l, closer, err := logging.New(c.Log)
	if err != nil {
		return err
	}
	cfg, logger, closeLog = c, l, closer
	return nil
}

// resolveDBPath returns the configured database path (the --db flag lands
// there), then MATHGENIUS_DB, then the default XDG path.
func resolveDBPath() (string, error) {
	if p := cfg.Database.Path; p != "" {
		return p, os.MkdirAll(filepath.Dir(p), 0o755)
	}
	return store.DefaultDBPath()
}

func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.WithField("path", dbPath).Debug("store opened")
	return st, nil
}
