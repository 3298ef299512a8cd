package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tallybook-dev/tallybook/internal/export"
	"github.com/tallybook-dev/tallybook/internal/store"
)

func newExportCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export ledger data",
	}
	cmd.AddCommand(newExportBeancountCommand(dir))
	return cmd
}

func newExportBeancountCommand(dir *string) *cobra.Command {
	var (
		output   string
		currency string
	)

	cmd := &cobra.Command{
		Use:   "beancount",
		Short: "Write the full ledger as a Beancount journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openEnv(*dir)
			if err != nil {
				return err
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			return app.store.With(func(u *store.Unit) error {
				return export.WriteBeancount(out, u, pickCurrency(currency, app))
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to stdout)")
	cmd.Flags().StringVar(&currency, "currency", "", "operating currency (defaults to ledger currency)")
	return cmd
}
