package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tallybook-dev/tallybook/internal/model"
	"github.com/tallybook-dev/tallybook/internal/store"
)

func newRecordCommand(dir *string) *cobra.Command {
	var (
		date        string
		description string
		debitCode   string
		creditCode  string
		amount      string
		postings    []string
		tags        []string
		notes       string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a balanced transaction",
		Long: `Record a transaction. The common case is a two-leg entry:
a debit account, a credit account and an amount. Multi-leg entries use
repeated --posting code:amount flags (signed amounts, must sum to zero).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openEnv(*dir)
			if err != nil {
				return err
			}
			d, err := parseDate(date)
			if err != nil {
				return err
			}
			currency := app.cfg.Ledger.Currency

			err = app.store.With(func(u *store.Unit) error {
				var legs []model.Posting
				switch {
				case len(postings) > 0:
					legs, err = parsePostingFlags(u, postings, currency)
					if err != nil {
						return err
					}
				case debitCode != "" && creditCode != "" && amount != "":
					legs, err = twoLegPostings(u, debitCode, creditCode, amount, currency)
					if err != nil {
						return err
					}
				default:
					return fmt.Errorf("either --debit/--credit/--amount or repeated --posting flags are required")
				}

				txn, err := model.NewTransaction(model.TransactionParams{
					Date:        d,
					Description: description,
					Postings:    legs,
					Tags:        tags,
					Notes:       notes,
				})
				if err != nil {
					return err
				}
				if err := u.AddTransaction(txn); err != nil {
					return err
				}
				fmt.Printf("Recorded %s on %s (%s)\n",
					txn.Description(), txn.Date().Format("2006-01-02"), txn.ID())
				return nil
			})
			if err != nil {
				return err
			}
			return app.store.Flush()
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVarP(&description, "description", "m", "", "description (required)")
	_ = cmd.MarkFlagRequired("description")
	cmd.Flags().StringVar(&debitCode, "debit", "", "account code to debit")
	cmd.Flags().StringVar(&creditCode, "credit", "", "account code to credit")
	cmd.Flags().StringVar(&amount, "amount", "", "amount for the two-leg form")
	cmd.Flags().StringArrayVar(&postings, "posting", nil, "signed leg as code:amount (repeatable)")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func twoLegPostings(u *store.Unit, debitCode, creditCode, amount, currency string) ([]model.Posting, error) {
	debit, err := u.AccountByCode(debitCode)
	if err != nil {
		return nil, fmt.Errorf("looking up debit account: %w", err)
	}
	credit, err := u.AccountByCode(creditCode)
	if err != nil {
		return nil, fmt.Errorf("looking up credit account: %w", err)
	}
	m, err := model.MoneyFromString(amount, currency)
	if err != nil {
		return nil, err
	}
	dp, err := model.NewPosting(debit.ID, m)
	if err != nil {
		return nil, err
	}
	cp, err := model.NewPosting(credit.ID, m.Neg())
	if err != nil {
		return nil, err
	}
	return []model.Posting{dp, cp}, nil
}

func parsePostingFlags(u *store.Unit, flags []string, currency string) ([]model.Posting, error) {
	legs := make([]model.Posting, 0, len(flags))
	for _, flag := range flags {
		code, amt, ok := cutLast(flag, ":")
		if !ok {
			return nil, fmt.Errorf("invalid posting %q, expected code:amount", flag)
		}
		acct, err := u.AccountByCode(code)
		if err != nil {
			return nil, fmt.Errorf("looking up account %q: %w", code, err)
		}
		m, err := model.MoneyFromString(amt, currency)
		if err != nil {
			return nil, fmt.Errorf("parsing amount in %q: %w", flag, err)
		}
		p, err := model.NewPosting(acct.ID, m)
		if err != nil {
			return nil, err
		}
		legs = append(legs, p)
	}
	return legs, nil
}

// cutLast splits on the last separator so colon-delimited account codes
// survive in code:amount flags.
func cutLast(s, sep string) (string, string, bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}
