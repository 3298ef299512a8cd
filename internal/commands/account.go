package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tallybook-dev/tallybook/internal/model"
	"github.com/tallybook-dev/tallybook/internal/report"
	"github.com/tallybook-dev/tallybook/internal/store"
)

func newAccountCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the chart of accounts",
	}
	cmd.AddCommand(
		newAccountAddCommand(dir),
		newAccountListCommand(dir),
		newAccountRenameCommand(dir),
		newAccountReparentCommand(dir),
		newAccountDeactivateCommand(dir),
		newAccountReactivateCommand(dir),
		newAccountBalanceCommand(dir),
	)
	return cmd
}

func newAccountAddCommand(dir *string) *cobra.Command {
	var (
		accountType string
		currency    string
		name        string
		parentCode  string
		cardIssuer  string
		cardClosing int
		cardDue     int
	)

	cmd := &cobra.Command{
		Use:   "add <code>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openEnv(*dir)
			if err != nil {
				return err
			}
			at, err := model.ParseAccountType(accountType)
			if err != nil {
				return err
			}
			if currency == "" {
				currency = app.cfg.Ledger.Currency
			}

			params := model.NewAccountParams{
				Code:     args[0],
				Name:     name,
				Type:     at,
				Currency: currency,
			}
			if cardIssuer != "" || cardClosing > 0 || cardDue > 0 {
				params.Card = &model.CardDetails{
					Issuer:     cardIssuer,
					ClosingDay: cardClosing,
					DueDay:     cardDue,
				}
			}

			err = app.store.With(func(u *store.Unit) error {
				if parentCode != "" {
					parent, err := u.AccountByCode(parentCode)
					if err != nil {
						return fmt.Errorf("looking up parent: %w", err)
					}
					params.ParentID = parent.ID
				}
				acct, err := model.NewAccount(params)
				if err != nil {
					return err
				}
				if err := u.AddAccount(*acct); err != nil {
					return err
				}
				fmt.Printf("Created %s account %s (%s)\n", acct.Type, acct.Code, acct.ID)
				return nil
			})
			if err != nil {
				return err
			}
			return app.store.Flush()
		},
	}

	cmd.Flags().StringVarP(&accountType, "type", "t", "", "account type (asset, liability, equity, income, expense)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&currency, "currency", "", "account currency (defaults to ledger currency)")
	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to last code segment)")
	cmd.Flags().StringVar(&parentCode, "parent", "", "parent account code")
	cmd.Flags().StringVar(&cardIssuer, "card-issuer", "", "card issuer name")
	cmd.Flags().IntVar(&cardClosing, "card-closing-day", 0, "card statement closing day (1-31)")
	cmd.Flags().IntVar(&cardDue, "card-due-day", 0, "card payment due day (1-31)")
	return cmd
}

func newAccountListCommand(dir *string) *cobra.Command {
	var typeFilter string
	var includeInactive bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openEnv(*dir)
			if err != nil {
				return err
			}
			return app.store.With(func(u *store.Unit) error {
				accounts := u.Accounts()
				if typeFilter != "" {
					at, err := model.ParseAccountType(typeFilter)
					if err != nil {
						return err
					}
					accounts = u.AccountsByType(at)
				}
				for _, a := range accounts {
					if !a.Active && !includeInactive {
						continue
					}
					status := ""
					if !a.Active {
						status = " [inactive]"
					}
					indent := strings.Repeat("  ", a.Depth()-1)
					fmt.Printf("%-9s %s%s (%s)%s\n", a.Type, indent, a.Code, a.Currency, status)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&typeFilter, "type", "t", "", "filter by account type")
	cmd.Flags().BoolVar(&includeInactive, "all", false, "include deactivated accounts")
	return cmd
}

func newAccountRenameCommand(dir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <code> <new-code>",
		Short: "Change an account's code",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateAccount(*dir, args[0], func(a *model.Account) error {
				return a.Rename(args[1])
			})
		},
	}
	return cmd
}

func newAccountReparentCommand(dir *string) *cobra.Command {
	var parentCode string

	cmd := &cobra.Command{
		Use:   "reparent <code>",
		Short: "Move an account under a new parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openEnv(*dir)
			if err != nil {
				return err
			}
			err = app.store.With(func(u *store.Unit) error {
				acct, err := u.AccountByCode(args[0])
				if err != nil {
					return err
				}
				parentID := ""
				if parentCode != "" {
					parent, err := u.AccountByCode(parentCode)
					if err != nil {
						return fmt.Errorf("looking up parent: %w", err)
					}
					parentID = parent.ID
				}
				if err := acct.ChangeParent(parentID); err != nil {
					return err
				}
				if err := u.UpdateAccount(acct); err != nil {
					return err
				}
				fmt.Printf("Moved %s\n", acct.Code)
				return nil
			})
			if err != nil {
				return err
			}
			return app.store.Flush()
		},
	}

	cmd.Flags().StringVar(&parentCode, "parent", "", "new parent code (empty detaches)")
	return cmd
}

func newAccountDeactivateCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <code>",
		Short: "Soft-delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateAccount(*dir, args[0], func(a *model.Account) error {
				a.Deactivate()
				return nil
			})
		},
	}
}

func newAccountReactivateCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reactivate <code>",
		Short: "Restore a deactivated account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutateAccount(*dir, args[0], func(a *model.Account) error {
				a.Reactivate()
				return nil
			})
		},
	}
}

func newAccountBalanceCommand(dir *string) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "balance <code>",
		Short: "Show one account's balance as of a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openEnv(*dir)
			if err != nil {
				return err
			}
			cutoff, err := parseDate(asOf)
			if err != nil {
				return err
			}
			return app.store.With(func(u *store.Unit) error {
				bal, err := report.NewService(u, app.log).Balance(args[0], cutoff)
				if err != nil {
					return err
				}
				fmt.Printf("%s (%s) as of %s\n", bal.AccountCode, bal.AccountType, bal.AsOf.Format("2006-01-02"))
				fmt.Printf("  balance: %s %s (raw %s, %d postings)\n",
					bal.Balance.StringFixed(2), bal.Currency, bal.RawBalance.StringFixed(2), bal.TransactionCount)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "cutoff date (YYYY-MM-DD, defaults to today)")
	return cmd
}

func mutateAccount(dir, code string, mutate func(*model.Account) error) error {
	app, err := openEnv(dir)
	if err != nil {
		return err
	}
	err = app.store.With(func(u *store.Unit) error {
		acct, err := u.AccountByCode(code)
		if err != nil {
			return err
		}
		if err := mutate(&acct); err != nil {
			return err
		}
		if err := u.UpdateAccount(acct); err != nil {
			return err
		}
		fmt.Printf("Updated %s\n", acct.Code)
		return nil
	})
	if err != nil {
		return err
	}
	return app.store.Flush()
}
