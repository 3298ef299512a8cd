// Package export renders ledger history as a Beancount journal.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybook-dev/tallybook/internal/model"
)

var earliestDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Ledger supplies the chart and history to export.
type Ledger interface {
	Accounts() []model.Account
	TransactionsInRange(from, to time.Time) []model.Transaction
}

// WriteBeancount writes the full chart and transaction history in
// Beancount journal syntax: option headers, one open directive per
// account, then one entry per transaction with indented postings.
func WriteBeancount(w io.Writer, ledger Ledger, operatingCurrency string) error {
	currency := strings.ToUpper(operatingCurrency)
	if err := model.ValidateCurrency(currency); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "option \"title\" \"Tallybook Ledger\"\noption \"operating_currency\" %q\n\n", currency); err != nil {
		return err
	}

	accounts := ledger.Accounts()
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	for _, a := range accounts {
		opened := model.DateOnly(a.CreatedAt)
		if _, err := fmt.Fprintf(w, "%s open %s %s\n",
			opened.Format(time.DateOnly), a.Code, a.Currency); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	codesByID := make(map[string]string, len(accounts))
	for _, a := range accounts {
		codesByID[a.ID] = a.Code
	}

	txns := ledger.TransactionsInRange(earliestDate, model.DateOnly(time.Now().AddDate(100, 0, 0)))
	sort.SliceStable(txns, func(i, j int) bool {
		if !txns[i].Date().Equal(txns[j].Date()) {
			return txns[i].Date().Before(txns[j].Date())
		}
		return txns[i].ID() < txns[j].ID()
	})

	for _, txn := range txns {
		if _, err := fmt.Fprintf(w, "%s * %q\n",
			txn.Date().Format(time.DateOnly), txn.Description()); err != nil {
			return err
		}
		for _, p := range txn.Postings() {
			code := codesByID[p.AccountID]
			if code == "" {
				code = p.AccountID
			}
			if _, err := fmt.Fprintf(w, "  %-40s %s %s\n",
				code, formatDecimal(p.Amount.Amount()), p.Amount.Currency()); err != nil {
				return err
			}
		}
		for _, tag := range txn.Tags() {
			if _, err := fmt.Fprintf(w, "  ; tag: %s\n", tag); err != nil {
				return err
			}
		}
		if notes := txn.Notes(); notes != "" {
			if _, err := fmt.Fprintf(w, "  ; note: %s\n", notes); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// formatDecimal renders an amount rounded half-up to 4 places with
// trailing zeros trimmed.
func formatDecimal(d decimal.Decimal) string {
	text := d.Round(4).StringFixed(4)
	text = strings.TrimRight(text, "0")
	text = strings.TrimRight(text, ".")
	if text == "" || text == "-" {
		return "0"
	}
	return text
}
