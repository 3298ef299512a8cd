package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tallybook-dev/tallybook/internal/config"
	"github.com/tallybook-dev/tallybook/internal/store"
)

func newInitCommand() *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new tallybook ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(absDir, currency)
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "BRL", "ledger base currency")
	return cmd
}

func runInit(dir, currency string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	cfg := config.Default(dir, currency)
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		return err
	}

	st, err := store.Open(dir, log)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}

	chart, err := store.DefaultChart(currency)
	if err != nil {
		return fmt.Errorf("building default chart: %w", err)
	}
	err = st.With(func(u *store.Unit) error {
		for _, a := range chart {
			if err := u.AddAccount(a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seeding chart of accounts: %w", err)
	}
	if err := st.Flush(); err != nil {
		return fmt.Errorf("writing ledger files: %w", err)
	}

	fmt.Printf("Initialized tallybook ledger at %s (%s, %d accounts)\n", dir, currency, len(chart))
	return nil
}
