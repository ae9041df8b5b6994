package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/abhisek/coursewiz/internal/config"
	"github.com/abhisek/coursewiz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "coursewiz",
	Short: "AI-assisted course planning wizard",
	Long: `coursewiz walks you through planning an online course: purpose, context,
an AI-suggested module structure, manual revision and content options.
Submitted courses are stored locally and can be exported as YAML, JSON or
Markdown.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the command tree with fang's styled help and errors.
func Execute(ctx context.Context) error {
	return fang.Execute(ctx, rootCmd, fang.WithVersion(version))
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides COURSEWIZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (replaces global and project config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(submissionsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration and applies the --db flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db or the configured
// path first, then COURSEWIZ_DB, then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return s, cfg, nil
}
