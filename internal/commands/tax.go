package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tallybook-dev/tallybook/internal/store"
	"github.com/tallybook-dev/tallybook/internal/tax"
)

var hundred = decimal.NewFromInt(100)

func newTaxCommand(dir *string) *cobra.Command {
	var (
		month    string
		currency string
	)

	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Monthly capital gains tax summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openEnv(*dir)
			if err != nil {
				return err
			}
			target, err := parseMonth(month)
			if err != nil {
				return err
			}
			if currency == "" {
				currency = app.cfg.Tax.Currency
			}

			return app.store.With(func(u *store.Unit) error {
				b, err := tax.NewEngine(u, app.log).MonthlyBreakdown(tax.Command{
					Month:    target,
					Currency: currency,
				})
				if err != nil {
					return err
				}
				printBreakdown(b)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "target month (YYYY-MM, defaults to the current month)")
	cmd.Flags().StringVar(&currency, "currency", "", "currency (defaults to the configured tax currency)")
	return cmd
}

func parseMonth(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return d, nil
}

func printBreakdown(b *tax.Breakdown) {
	fmt.Printf("Tax summary for %s (%s)\n\n", b.Month.Format("2006-01"), b.Currency)
	fmt.Printf("  total sales        %15s\n", b.TotalSales.StringFixed(2))
	fmt.Printf("  exempt sales       %15s\n", b.ExemptSales.StringFixed(2))
	fmt.Printf("  gains              %15s\n", b.Gains.StringFixed(2))
	fmt.Printf("  losses             %15s\n", b.Losses.StringFixed(2))
	fmt.Printf("  carryover in       %15s\n", b.LossCarryIn.StringFixed(2))
	fmt.Printf("  carryover applied  %15s\n", b.LossCarryApplied.StringFixed(2))
	fmt.Printf("  carryover out      %15s\n", b.LossCarryOut.StringFixed(2))
	fmt.Printf("  taxable base       %15s\n", b.TaxableBase.StringFixed(2))
	fmt.Printf("  tax due (%s%%)    %15s\n", b.Rate.Mul(hundred).StringFixed(0), b.TaxDue.StringFixed(2))
	fmt.Printf("  withheld           %15s\n", b.Withheld.StringFixed(2))
	fmt.Printf("  tax payable        %15s\n", b.TaxPayable.StringFixed(2))
	fmt.Printf("  dividends          %15s\n", b.Dividends.StringFixed(2))
	fmt.Printf("  jcp                %15s\n", b.JCP.StringFixed(2))
}
