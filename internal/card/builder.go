// Package card produces credit card statements. A card is a LIABILITY
// account carrying issuer and cycle metadata; purchases credit the card
// and payments debit it.
package card

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tallybook-dev/tallybook/internal/model"
)

var (
	// ErrNotLiability is returned when the statement target is not a
	// LIABILITY account.
	ErrNotLiability = errors.New("card account must be a liability")
	// ErrMissingCardDetails is returned when the account carries no
	// cycle metadata.
	ErrMissingCardDetails = errors.New("account has no card metadata")

	earliestDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Ledger supplies the account and transaction views the builder needs.
type Ledger interface {
	Accounts() []model.Account
	AccountByCode(code string) (model.Account, error)
	TransactionsInRange(from, to time.Time) []model.Transaction
}

// Command selects a card and the anchor month of the cycle to build.
type Command struct {
	CardAccountCode string
	Month           time.Time
	Currency        string
}

// StatementItem is one purchase on the statement. Amount is always
// positive; Category comes from the first non-card leg of the purchase.
type StatementItem struct {
	TransactionID string
	Date          time.Time
	Description   string
	Amount        decimal.Decimal
	CategoryCode  string
	CategoryName  string
	Installment   *Installment
}

// Statement is one billing cycle's charges and balance.
type Statement struct {
	CardAccountCode string
	CardAccountName string
	Issuer          string
	Period          Period
	Currency        string
	Items           []StatementItem
	ChargesTotal    decimal.Decimal
	PreviousBalance decimal.Decimal
	TotalDue        decimal.Decimal
}

// Builder assembles card statements from ledger history.
type Builder struct {
	ledger Ledger
	log    *zap.Logger
}

// NewBuilder creates a statement Builder.
func NewBuilder(ledger Ledger, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{ledger: ledger, log: log}
}

// Build produces the statement for the cycle anchored at cmd.Month.
// Previous balance replays every card posting dated strictly before the
// period start and negates the sum, so an owed balance reads positive.
func (b *Builder) Build(cmd Command) (*Statement, error) {
	currency := strings.ToUpper(cmd.Currency)
	if err := model.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	acct, err := b.ledger.AccountByCode(cmd.CardAccountCode)
	if err != nil {
		return nil, fmt.Errorf("looking up card account: %w", err)
	}
	if acct.Type != model.AccountTypeLiability {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotLiability, acct.Code, acct.Type)
	}
	if !acct.IsCard() {
		return nil, fmt.Errorf("%w: %s", ErrMissingCardDetails, acct.Code)
	}

	period := ComputePeriod(model.DateOnly(cmd.Month), acct.Card.ClosingDay, acct.Card.DueDay)

	namesByID := make(map[string]model.Account)
	for _, a := range b.ledger.Accounts() {
		namesByID[a.ID] = a
	}

	var items []StatementItem
	charges := decimal.Zero
	for _, txn := range b.ledger.TransactionsInRange(period.Start, period.End) {
		if !txn.HasAccount(acct.ID) {
			continue
		}
		for _, p := range txn.PostingsForAccount(acct.ID) {
			// Credits grow the debt: purchases. Debits are payments
			// and stay off the charge list.
			if !p.IsCredit() || p.Amount.Currency() != currency {
				continue
			}
			item := StatementItem{
				TransactionID: txn.ID(),
				Date:          txn.Date(),
				Description:   txn.Description(),
				Amount:        p.Amount.Amount().Abs(),
				CategoryCode:  "Unknown",
				CategoryName:  "Unknown Category",
			}
			for _, other := range txn.Postings() {
				if other.AccountID == acct.ID {
					continue
				}
				if cat, ok := namesByID[other.AccountID]; ok {
					item.CategoryCode = cat.Code
					item.CategoryName = cat.Name
				}
				break
			}
			if inst, ok := ParseInstallment(txn.Tags()); ok {
				item.Installment = &inst
			}
			items = append(items, item)
			charges = charges.Add(item.Amount)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.Before(items[j].Date)
	})

	previous := decimal.Zero
	for _, txn := range b.ledger.TransactionsInRange(earliestDate, period.Start.AddDate(0, 0, -1)) {
		for _, p := range txn.PostingsForAccount(acct.ID) {
			if p.Amount.Currency() != currency {
				continue
			}
			previous = previous.Add(p.Amount.Amount())
		}
	}
	previous = previous.Neg()

	b.log.Debug("card statement built",
		zap.String("card", acct.Code),
		zap.Time("period_end", period.End),
		zap.Int("items", len(items)),
		zap.String("charges", charges.String()))

	return &Statement{
		CardAccountCode: acct.Code,
		CardAccountName: acct.Name,
		Issuer:          acct.Card.Issuer,
		Period:          period,
		Currency:        currency,
		Items:           items,
		ChargesTotal:    charges,
		PreviousBalance: previous,
		TotalDue:        previous.Add(charges),
	}, nil
}
