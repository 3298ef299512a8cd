package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallybook-dev/tallybook/internal/card"
	"github.com/tallybook-dev/tallybook/internal/model"
	"github.com/tallybook-dev/tallybook/internal/store"
)

func newCardCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Credit card statements and payments",
	}
	cmd.AddCommand(
		newCardStatementCommand(dir),
		newCardPayCommand(dir),
	)
	return cmd
}

func newCardStatementCommand(dir *string) *cobra.Command {
	var (
		cardCode string
		month    string
		currency string
	)

	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Build one billing cycle's statement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openEnv(*dir)
			if err != nil {
				return err
			}
			anchor, err := parseMonth(month)
			if err != nil {
				return err
			}

			return app.store.With(func(u *store.Unit) error {
				st, err := card.NewBuilder(u, app.log).Build(card.Command{
					CardAccountCode: cardCode,
					Month:           anchor,
					Currency:        pickCurrency(currency, app),
				})
				if err != nil {
					return err
				}
				printStatement(st)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&cardCode, "card", "c", "", "card account code (required)")
	_ = cmd.MarkFlagRequired("card")
	cmd.Flags().StringVar(&month, "month", "", "cycle anchor month (YYYY-MM, defaults to the current month)")
	cmd.Flags().StringVar(&currency, "currency", "", "currency (defaults to ledger currency)")
	return cmd
}

func printStatement(st *card.Statement) {
	fmt.Printf("%s statement (%s)\n", st.CardAccountName, st.Issuer)
	fmt.Printf("Cycle %s to %s, due %s\n\n",
		st.Period.Start.Format("2006-01-02"),
		st.Period.End.Format("2006-01-02"),
		st.Period.DueDate.Format("2006-01-02"))

	for _, item := range st.Items {
		line := fmt.Sprintf("  %s  %-30s %12s  %s",
			item.Date.Format("2006-01-02"), item.Description,
			item.Amount.StringFixed(2), item.CategoryCode)
		if item.Installment != nil {
			line += fmt.Sprintf("  [%d/%d]", item.Installment.Number, item.Installment.Total)
		}
		fmt.Println(line)
	}

	fmt.Printf("\nPrevious balance %12s %s\n", st.PreviousBalance.StringFixed(2), st.Currency)
	fmt.Printf("New charges      %12s %s (%d purchases)\n", st.ChargesTotal.StringFixed(2), st.Currency, len(st.Items))
	fmt.Printf("TOTAL DUE        %12s %s\n", st.TotalDue.StringFixed(2), st.Currency)
}

func newCardPayCommand(dir *string) *cobra.Command {
	var (
		cardCode string
		fromCode string
		amount   string
		date     string
	)

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Record a card invoice payment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openEnv(*dir)
			if err != nil {
				return err
			}
			d, err := parseDate(date)
			if err != nil {
				return err
			}

			err = app.store.With(func(u *store.Unit) error {
				cardAcct, err := u.AccountByCode(cardCode)
				if err != nil {
					return fmt.Errorf("looking up card account: %w", err)
				}
				if cardAcct.Type != model.AccountTypeLiability {
					return fmt.Errorf("%s is not a liability account", cardCode)
				}
				funding, err := u.AccountByCode(fromCode)
				if err != nil {
					return fmt.Errorf("looking up funding account: %w", err)
				}

				m, err := model.MoneyFromString(amount, app.cfg.Ledger.Currency)
				if err != nil {
					return err
				}
				// Payment debits the card (reduces the debt) and
				// credits the funding asset.
				dp, err := model.NewPosting(cardAcct.ID, m)
				if err != nil {
					return err
				}
				cp, err := model.NewPosting(funding.ID, m.Neg())
				if err != nil {
					return err
				}
				txn, err := model.NewTransaction(model.TransactionParams{
					Date:        d,
					Description: fmt.Sprintf("Payment %s", cardAcct.Name),
					Postings:    []model.Posting{dp, cp},
				})
				if err != nil {
					return err
				}
				if err := u.AddTransaction(txn); err != nil {
					return err
				}
				fmt.Printf("Paid %s %s to %s from %s\n",
					m.Amount().StringFixed(2), m.Currency(), cardAcct.Code, funding.Code)
				return nil
			})
			if err != nil {
				return err
			}
			return app.store.Flush()
		},
	}

	cmd.Flags().StringVarP(&cardCode, "card", "c", "", "card account code (required)")
	_ = cmd.MarkFlagRequired("card")
	cmd.Flags().StringVar(&fromCode, "from", "", "funding account code (required)")
	_ = cmd.MarkFlagRequired("from")
	cmd.Flags().StringVar(&amount, "amount", "", "payment amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&date, "date", "", "payment date (YYYY-MM-DD, defaults to today)")
	return cmd
}
