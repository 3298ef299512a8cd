package report

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tallybook-dev/tallybook/internal/model"
)

// CashflowCommand describes one cashflow request. From and To are
// inclusive calendar dates; AccountCodePrefix optionally restricts rows to
// one subtree of the chart.
type CashflowCommand struct {
	From              time.Time
	To                time.Time
	Currency          string
	AccountCodePrefix string
}

// CashflowRow is one category or asset line.
type CashflowRow struct {
	AccountCode      string
	AccountName      string
	Amount           decimal.Decimal
	TransactionCount int
}

// CashflowReport shows money in, money out and asset positions for a
// period.
type CashflowReport struct {
	From          time.Time
	To            time.Time
	Currency      string
	Income        []CashflowRow
	Expenses      []CashflowRow
	AssetBalances []CashflowRow
	IncomeTotal   decimal.Decimal
	ExpensesTotal decimal.Decimal
	NetCashflow   decimal.Decimal
}

// Cashflow aggregates income and expense flows over [From, To] plus asset
// ending balances as of To. Flow rows are normalized to positive
// magnitude; asset rows keep their natural debit-positive sign.
func (s *Service) Cashflow(cmd CashflowCommand) (*CashflowReport, error) {
	currency := strings.ToUpper(cmd.Currency)
	if err := model.ValidateCurrency(currency); err != nil {
		return nil, err
	}
	from := model.DateOnly(cmd.From)
	to := model.DateOnly(cmd.To)
	if to.Before(from) {
		return nil, errors.New("period end precedes period start")
	}

	flowAccounts := filterAccounts(s.ledger.Accounts(), currency, model.AccountType.IsIncomeStatement)
	assetAccounts := filterAccounts(s.ledger.Accounts(), currency, func(at model.AccountType) bool {
		return at == model.AccountTypeAsset
	})

	windowTxns := s.ledger.TransactionsInRange(from, to)
	flows := AggregateWindow(windowTxns, flowAccounts, currency, from, to.AddDate(0, 0, 1))

	historyTxns := s.ledger.TransactionsInRange(earliestDate, to)
	assets := AggregateAsOf(historyTxns, assetAccounts, currency, to)

	var income, expenses, assetRows []CashflowRow
	for accountID, acct := range flowAccounts {
		raw := flows.Balance(accountID)
		count := flows.Count(accountID)
		if raw.IsZero() && count == 0 {
			continue
		}
		if cmd.AccountCodePrefix != "" && !strings.HasPrefix(acct.Code, cmd.AccountCodePrefix) {
			continue
		}
		row := CashflowRow{
			AccountCode:      acct.Code,
			AccountName:      acct.Name,
			Amount:           raw.Abs(),
			TransactionCount: count,
		}
		if acct.Type == model.AccountTypeIncome {
			income = append(income, row)
		} else {
			expenses = append(expenses, row)
		}
	}
	for accountID, acct := range assetAccounts {
		raw := assets.Balance(accountID)
		count := assets.Count(accountID)
		if raw.IsZero() && count == 0 {
			continue
		}
		if cmd.AccountCodePrefix != "" && !strings.HasPrefix(acct.Code, cmd.AccountCodePrefix) {
			continue
		}
		assetRows = append(assetRows, CashflowRow{
			AccountCode:      acct.Code,
			AccountName:      acct.Name,
			Amount:           raw,
			TransactionCount: count,
		})
	}

	sortCashflowRows(income)
	sortCashflowRows(expenses)
	sortCashflowRows(assetRows)

	incomeTotal := sumCashflow(income)
	expensesTotal := sumCashflow(expenses)

	s.log.Debug("cashflow generated",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.String("prefix", cmd.AccountCodePrefix))

	return &CashflowReport{
		From:          from,
		To:            to,
		Currency:      currency,
		Income:        income,
		Expenses:      expenses,
		AssetBalances: assetRows,
		IncomeTotal:   incomeTotal,
		ExpensesTotal: expensesTotal,
		NetCashflow:   incomeTotal.Sub(expensesTotal),
	}, nil
}

func sortCashflowRows(rows []CashflowRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].Amount.Abs(), rows[j].Amount.Abs()
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return rows[i].AccountCode > rows[j].AccountCode
	})
}

func sumCashflow(rows []CashflowRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Amount.Abs())
	}
	return total
}
