// Package report derives financial statements from transaction history.
// All three generators are policies over the same balance aggregator, so
// period-boundary and currency semantics live in exactly one place.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybook-dev/tallybook/internal/model"
)

// earliestDate bounds full-history replays.
var earliestDate = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// Ledger supplies account and transaction snapshots for one report
// computation. Implementations are read-only views; the report never
// writes back.
type Ledger interface {
	Accounts() []model.Account
	AccountByCode(code string) (model.Account, error)
	TransactionsInRange(from, to time.Time) []model.Transaction
}

// Aggregation holds per-account raw signed sums and posting counts.
type Aggregation struct {
	Balances map[string]decimal.Decimal
	Counts   map[string]int
}

// Balance returns the raw sum for an account, zero when absent.
func (a Aggregation) Balance(accountID string) decimal.Decimal {
	if b, ok := a.Balances[accountID]; ok {
		return b
	}
	return decimal.Zero
}

// Count returns the posting count for an account.
func (a Aggregation) Count(accountID string) int {
	return a.Counts[accountID]
}

// AggregateAsOf sums postings for transactions dated on or before asOf.
func AggregateAsOf(txns []model.Transaction, accounts map[string]model.Account, currency string, asOf time.Time) Aggregation {
	cutoff := model.DateOnly(asOf)
	return aggregate(txns, accounts, currency, func(d time.Time) bool {
		return !d.After(cutoff)
	})
}

// AggregateWindow sums postings for transactions in the half-open window
// [from, to).
func AggregateWindow(txns []model.Transaction, accounts map[string]model.Account, currency string, from, to time.Time) Aggregation {
	start := model.DateOnly(from)
	end := model.DateOnly(to)
	return aggregate(txns, accounts, currency, func(d time.Time) bool {
		return !d.Before(start) && d.Before(end)
	})
}

// aggregate walks the transaction set once, skipping postings whose
// currency mismatches the filter and whose account is outside the map.
func aggregate(txns []model.Transaction, accounts map[string]model.Account, currency string, include func(time.Time) bool) Aggregation {
	agg := Aggregation{
		Balances: make(map[string]decimal.Decimal, len(accounts)),
		Counts:   make(map[string]int, len(accounts)),
	}
	for accountID := range accounts {
		agg.Balances[accountID] = decimal.Zero
		agg.Counts[accountID] = 0
	}
	for _, txn := range txns {
		if !include(txn.Date()) {
			continue
		}
		for _, p := range txn.Postings() {
			if p.Amount.Currency() != currency {
				continue
			}
			if _, tracked := accounts[p.AccountID]; !tracked {
				continue
			}
			agg.Balances[p.AccountID] = agg.Balances[p.AccountID].Add(p.Amount.Amount())
			agg.Counts[p.AccountID]++
		}
	}
	return agg
}

// filterAccounts keeps accounts passing the predicate and matching the
// currency, keyed by id.
func filterAccounts(accounts []model.Account, currency string, keep func(model.AccountType) bool) map[string]model.Account {
	out := make(map[string]model.Account)
	for _, a := range accounts {
		if !keep(a.Type) {
			continue
		}
		if a.Currency != currency {
			continue
		}
		out[a.ID] = a
	}
	return out
}
