package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tallybook-dev/tallybook/internal/model"
)

// fakeLedger is an in-memory Ledger for generator tests.
type fakeLedger struct {
	accounts []model.Account
	txns     []model.Transaction
}

func (f *fakeLedger) Accounts() []model.Account { return f.accounts }

func (f *fakeLedger) AccountByCode(code string) (model.Account, error) {
	for _, a := range f.accounts {
		if a.Code == code {
			return a, nil
		}
	}
	return model.Account{}, fmt.Errorf("account code %q not found", code)
}

func (f *fakeLedger) TransactionsInRange(from, to time.Time) []model.Transaction {
	from, to = model.DateOnly(from), model.DateOnly(to)
	var out []model.Transaction
	for _, txn := range f.txns {
		if txn.Date().Before(from) || txn.Date().After(to) {
			continue
		}
		out = append(out, txn)
	}
	return out
}

func (f *fakeLedger) addAccount(t *testing.T, code string, at model.AccountType) model.Account {
	t.Helper()
	a, err := model.NewAccount(model.NewAccountParams{Code: code, Type: at, Currency: "BRL"})
	require.NoError(t, err)
	f.accounts = append(f.accounts, *a)
	return *a
}

// addTxn records a balanced two-leg transaction: +amount on debitAcct,
// -amount on creditAcct.
func (f *fakeLedger) addTxn(t *testing.T, d time.Time, desc, debitAcct, creditAcct, amount string) model.Transaction {
	t.Helper()
	m, err := model.MoneyFromString(amount, "BRL")
	require.NoError(t, err)
	dp, err := model.NewPosting(debitAcct, m)
	require.NoError(t, err)
	cp, err := model.NewPosting(creditAcct, m.Neg())
	require.NoError(t, err)
	txn, err := model.NewTransaction(model.TransactionParams{
		Date:        d,
		Description: desc,
		Postings:    []model.Posting{dp, cp},
	})
	require.NoError(t, err)
	f.txns = append(f.txns, txn)
	return txn
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
