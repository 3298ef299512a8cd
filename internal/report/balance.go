package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tallybook-dev/tallybook/internal/model"
)

// AccountBalance is the point-in-time position of a single account.
type AccountBalance struct {
	AccountCode      string
	AccountName      string
	AccountType      model.AccountType
	Currency         string
	AsOf             time.Time
	RawBalance       decimal.Decimal
	Balance          decimal.Decimal // normalized by sign multiplier
	TransactionCount int
}

// Balance computes one account's raw and normalized balance as of a date.
func (s *Service) Balance(accountCode string, asOf time.Time) (*AccountBalance, error) {
	acct, err := s.ledger.AccountByCode(accountCode)
	if err != nil {
		return nil, fmt.Errorf("looking up account: %w", err)
	}
	cutoff := model.DateOnly(asOf)

	accounts := map[string]model.Account{acct.ID: acct}
	txns := s.ledger.TransactionsInRange(earliestDate, cutoff)
	agg := AggregateAsOf(txns, accounts, acct.Currency, cutoff)

	raw := agg.Balance(acct.ID)
	return &AccountBalance{
		AccountCode:      acct.Code,
		AccountName:      acct.Name,
		AccountType:      acct.Type,
		Currency:         acct.Currency,
		AsOf:             cutoff,
		RawBalance:       raw,
		Balance:          normalize(raw, acct.Type),
		TransactionCount: agg.Count(acct.ID),
	}, nil
}
