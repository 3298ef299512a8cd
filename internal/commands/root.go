// Package commands wires the tallybook CLI.
package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tallybook-dev/tallybook/internal/buildinfo"
	"github.com/tallybook-dev/tallybook/internal/config"
	"github.com/tallybook-dev/tallybook/internal/store"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var dir string

	rootCmd := &cobra.Command{
		Use:     "tallybook",
		Short:   "Personal double-entry bookkeeping",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&dir, "dir", "d", ".", "ledger directory")

	rootCmd.AddCommand(
		newInitCommand(),
		newAccountCommand(&dir),
		newRecordCommand(&dir),
		newReportCommand(&dir),
		newTaxCommand(&dir),
		newCardCommand(&dir),
		newExportCommand(&dir),
	)
	return rootCmd
}

// env is the per-invocation application context: config, logger and an
// open store.
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	store *store.Store
}

func openEnv(dir string) (*env, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading config (run 'tallybook init' first?): %w", err)
	}
	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Ledger.Dir == "" {
		cfg.Ledger.Dir = absDir
	}
	st, err := store.Open(cfg.Ledger.Dir, log)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	return &env{cfg: cfg, log: log, store: st}, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	log, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return log, nil
}

// parseDate accepts YYYY-MM-DD; empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}
