package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tallybook-dev/tallybook/internal/report"
	"github.com/tallybook-dev/tallybook/internal/store"
)

func newReportCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate financial statements",
	}
	cmd.AddCommand(
		newBalanceSheetCommand(dir),
		newIncomeStatementCommand(dir),
		newCashflowCommand(dir),
	)
	return cmd
}

func newBalanceSheetCommand(dir *string) *cobra.Command {
	var (
		asOf      string
		currency  string
		compare   string
		compareTo string
	)

	cmd := &cobra.Command{
		Use:   "balance-sheet",
		Short: "Assets, liabilities and equity as of a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openEnv(*dir)
			if err != nil {
				return err
			}
			cutoff, err := parseDate(asOf)
			if err != nil {
				return err
			}
			rc := report.BalanceSheetCommand{
				AsOf:     cutoff,
				Currency: pickCurrency(currency, app),
			}
			switch compare {
			case "", "none":
				rc.Comparison = report.BalanceCompareNone
			case "previous-month":
				rc.Comparison = report.BalanceComparePreviousMonth
			case "custom":
				rc.Comparison = report.BalanceCompareCustomDate
				rc.CompareTo, err = parseDate(compareTo)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown comparison %q (none, previous-month, custom)", compare)
			}

			return app.store.With(func(u *store.Unit) error {
				rep, err := report.NewService(u, app.log).BalanceSheet(rc)
				if err != nil {
					return err
				}
				printBalanceSheet(rep)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "report date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&currency, "currency", "", "currency (defaults to ledger currency)")
	cmd.Flags().StringVar(&compare, "compare", "none", "comparison: none, previous-month, custom")
	cmd.Flags().StringVar(&compareTo, "compare-to", "", "comparison date for --compare=custom")
	return cmd
}

func printBalanceSheet(rep *report.BalanceSheetReport) {
	fmt.Printf("Balance Sheet as of %s (%s)\n\n", rep.AsOf.Format("2006-01-02"), rep.Currency)
	printBalanceSection("ASSETS", rep.Assets, rep.AssetsTotal)
	printBalanceSection("LIABILITIES", rep.Liabilities, rep.LiabilitiesTotal)
	printBalanceSection("EQUITY", rep.Equity, rep.EquityTotal)
	fmt.Printf("NET WORTH %50s\n", rep.NetWorth.StringFixed(2))
}

func printBalanceSection(title string, rows []report.BalanceSheetRow, total decimal.Decimal) {
	fmt.Println(title)
	for _, row := range rows {
		line := fmt.Sprintf("  %-40s %15s", row.AccountCode, row.Balance.StringFixed(2))
		if row.ChangeAmount != nil {
			line += fmt.Sprintf("  (%s", row.ChangeAmount.StringFixed(2))
			if row.ChangePercent != nil {
				line += fmt.Sprintf(", %s%%", row.ChangePercent.StringFixed(1))
			}
			line += ")"
		}
		fmt.Println(line)
	}
	fmt.Printf("  %-40s %15s\n\n", "Total", total.StringFixed(2))
}

func newIncomeStatementCommand(dir *string) *cobra.Command {
	var (
		from     string
		to       string
		currency string
		compare  string
	)

	cmd := &cobra.Command{
		Use:   "income",
		Short: "Revenue and expenses over a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openEnv(*dir)
			if err != nil {
				return err
			}
			fromDate, toDate, err := parsePeriod(from, to)
			if err != nil {
				return err
			}
			rc := report.IncomeStatementCommand{
				From:     fromDate,
				To:       toDate,
				Currency: pickCurrency(currency, app),
			}
			switch compare {
			case "", "none":
				rc.Comparison = report.PeriodCompareNone
			case "previous-period":
				rc.Comparison = report.PeriodComparePrevious
			case "year-over-year":
				rc.Comparison = report.PeriodCompareYoY
			default:
				return fmt.Errorf("unknown comparison %q (none, previous-period, year-over-year)", compare)
			}

			return app.store.With(func(u *store.Unit) error {
				rep, err := report.NewService(u, app.log).IncomeStatement(rc)
				if err != nil {
					return err
				}
				printIncomeStatement(rep)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "period start (YYYY-MM-DD, defaults to first of this month)")
	cmd.Flags().StringVar(&to, "to", "", "period end (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&currency, "currency", "", "currency (defaults to ledger currency)")
	cmd.Flags().StringVar(&compare, "compare", "none", "comparison: none, previous-period, year-over-year")
	return cmd
}

func printIncomeStatement(rep *report.IncomeStatementReport) {
	fmt.Printf("Income Statement %s to %s (%s)\n\n",
		rep.From.Format("2006-01-02"), rep.To.Format("2006-01-02"), rep.Currency)
	printIncomeSection("REVENUE", rep.Revenue, rep.RevenueTotal)
	printIncomeSection("EXPENSES", rep.Expenses, rep.ExpensesTotal)
	fmt.Printf("NET INCOME %49s\n", rep.NetIncome.StringFixed(2))
}

func printIncomeSection(title string, rows []report.IncomeStatementRow, total decimal.Decimal) {
	fmt.Println(title)
	for _, row := range rows {
		line := fmt.Sprintf("  %-40s %15s", row.AccountCode, row.Amount.StringFixed(2))
		if row.ChangeAmount != nil {
			line += fmt.Sprintf("  (%s", row.ChangeAmount.StringFixed(2))
			if row.ChangePercent != nil {
				line += fmt.Sprintf(", %s%%", row.ChangePercent.StringFixed(1))
			}
			line += ")"
		}
		fmt.Println(line)
	}
	fmt.Printf("  %-40s %15s\n\n", "Total", total.StringFixed(2))
}

func newCashflowCommand(dir *string) *cobra.Command {
	var (
		from     string
		to       string
		currency string
		prefix   string
	)

	cmd := &cobra.Command{
		Use:   "cashflow",
		Short: "Money in, money out and asset positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openEnv(*dir)
			if err != nil {
				return err
			}
			fromDate, toDate, err := parsePeriod(from, to)
			if err != nil {
				return err
			}
			rc := report.CashflowCommand{
				From:              fromDate,
				To:                toDate,
				Currency:          pickCurrency(currency, app),
				AccountCodePrefix: prefix,
			}

			return app.store.With(func(u *store.Unit) error {
				rep, err := report.NewService(u, app.log).Cashflow(rc)
				if err != nil {
					return err
				}
				fmt.Printf("Cashflow %s to %s (%s)\n\n",
					rep.From.Format("2006-01-02"), rep.To.Format("2006-01-02"), rep.Currency)
				printCashflowSection("MONEY IN", rep.Income)
				printCashflowSection("MONEY OUT", rep.Expenses)
				printCashflowSection("ASSET BALANCES", rep.AssetBalances)
				fmt.Printf("NET CASHFLOW %47s\n", rep.NetCashflow.StringFixed(2))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "period start (YYYY-MM-DD, defaults to first of this month)")
	cmd.Flags().StringVar(&to, "to", "", "period end (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&currency, "currency", "", "currency (defaults to ledger currency)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "restrict rows to one account-code subtree")
	return cmd
}

func printCashflowSection(title string, rows []report.CashflowRow) {
	fmt.Println(title)
	for _, row := range rows {
		fmt.Printf("  %-40s %15s\n", row.AccountCode, row.Amount.StringFixed(2))
	}
	fmt.Println()
}

func pickCurrency(flag string, app *env) string {
	if flag != "" {
		return flag
	}
	return app.cfg.Ledger.Currency
}

// parsePeriod defaults to the current month to date.
func parsePeriod(from, to string) (time.Time, time.Time, error) {
	toDate, err := parseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from == "" {
		first := time.Date(toDate.Year(), toDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first, toDate, nil
	}
	fromDate, err := parseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return fromDate, toDate, nil
}
