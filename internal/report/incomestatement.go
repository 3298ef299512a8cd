package report

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

// PeriodComparison selects the income statement comparison window.
type PeriodComparison string

const (
	PeriodCompareNone     PeriodComparison = "NONE"
	PeriodComparePrevious PeriodComparison = "PREVIOUS_PERIOD"
	PeriodCompareYoY      PeriodComparison = "YEAR_OVER_YEAR"
)

// IncomeStatementCommand describes one income statement request. From and
// To are inclusive calendar dates.
type IncomeStatementCommand struct {
	From       time.Time
	To         time.Time
	Currency   string
	Comparison PeriodComparison
}

// IncomeStatementRow is one account line, normalized to positive magnitude
// for both revenue and expenses. ChangePercent is nil when there is no
// comparison or its base is zero.
type IncomeStatementRow struct {
	AccountCode      string
	AccountName      string
	AccountType      model.AccountType
	Amount           decimal.Decimal
	RawAmount        decimal.Decimal
	TransactionCount int
	ComparisonAmount *decimal.Decimal
	ChangeAmount     *decimal.Decimal
	ChangePercent    *decimal.Decimal
}

// IncomeStatementReport is an immutable profit-and-loss statement.
type IncomeStatementReport struct {
	From                    time.Time
	To                      time.Time
	Currency                string
	Comparison              PeriodComparison
	ComparisonFrom          *time.Time
	ComparisonTo            *time.Time
	Revenue                 []IncomeStatementRow
	Expenses                []IncomeStatementRow
	RevenueTotal            decimal.Decimal
	ExpensesTotal           decimal.Decimal
	NetIncome               decimal.Decimal
	ComparisonRevenueTotal  *decimal.Decimal
	ComparisonExpensesTotal *decimal.Decimal
	ComparisonNetIncome     *decimal.Decimal
}

// IncomeStatement aggregates income and expense accounts over [From, To].
// Net income is always revenue total minus expenses total.
func (s *Service) IncomeStatement(cmd IncomeStatementCommand) (*IncomeStatementReport, error) {
	currency := strings.ToUpper(cmd.Currency)
	if err := model.ValidateCurrency(currency); err != nil {
		return nil, err
	}
	from := model.DateOnly(cmd.From)
	to := model.DateOnly(cmd.To)
	if to.Before(from) {
		return nil, errors.New("period end precedes period start")
	}

	var compFrom, compTo *time.Time
	switch cmd.Comparison {
	case PeriodCompareNone, "":
	case PeriodComparePrevious:
		// Shift back by the window's own length: non-overlapping,
		// identical day count.
		length := int(to.Sub(from).Hours()/24) + 1
		ct := from.AddDate(0, 0, -1)
		cf := ct.AddDate(0, 0, -(length - 1))
		compFrom, compTo = &cf, &ct
	case PeriodCompareYoY:
		cf := previousYear(from)
		ct := previousYear(to)
		compFrom, compTo = &cf, &ct
	default:
		return nil, fmt.Errorf("unsupported comparison mode %q", string(cmd.Comparison))
	}

	accounts := filterAccounts(s.ledger.Accounts(), currency, model.AccountType.IsIncomeStatement)

	current := AggregateWindow(
		s.ledger.TransactionsInRange(from, to),
		accounts, currency, from, to.AddDate(0, 0, 1))

	var comparison *Aggregation
	if compFrom != nil {
		agg := AggregateWindow(
			s.ledger.TransactionsInRange(*compFrom, *compTo),
			accounts, currency, *compFrom, compTo.AddDate(0, 0, 1))
		comparison = &agg
	}

	sections := map[model.AccountType][]IncomeStatementRow{}
	for accountID, acct := range accounts {
		raw := current.Balance(accountID)
		count := current.Count(accountID)

		active := !raw.IsZero() || count > 0
		var compAmount *decimal.Decimal
		if comparison != nil {
			compRaw := comparison.Balance(accountID)
			if !compRaw.IsZero() || comparison.Count(accountID) > 0 {
				active = true
			}
			abs := compRaw.Abs()
			compAmount = &abs
		}
		if !active {
			continue
		}

		row := IncomeStatementRow{
			AccountCode:      acct.Code,
			AccountName:      acct.Name,
			AccountType:      acct.Type,
			Amount:           raw.Abs(),
			RawAmount:        raw,
			TransactionCount: count,
			ComparisonAmount: compAmount,
		}
		if compAmount != nil {
			change := row.Amount.Sub(*compAmount)
			row.ChangeAmount = &change
			if !compAmount.IsZero() {
				pct := change.Div(*compAmount).Mul(decimal.NewFromInt(100))
				row.ChangePercent = &pct
			}
		}
		sections[acct.Type] = append(sections[acct.Type], row)
	}

	for _, rows := range sections {
		sortIncomeRows(rows)
	}

	revenueTotal := sumAmounts(sections[model.AccountTypeIncome])
	expensesTotal := sumAmounts(sections[model.AccountTypeExpense])
	netIncome := revenueTotal.Sub(expensesTotal)

	rep := &IncomeStatementReport{
		From:           from,
		To:             to,
		Currency:       currency,
		Comparison:     cmd.Comparison,
		ComparisonFrom: compFrom,
		ComparisonTo:   compTo,
		Revenue:        sections[model.AccountTypeIncome],
		Expenses:       sections[model.AccountTypeExpense],
		RevenueTotal:   revenueTotal,
		ExpensesTotal:  expensesTotal,
		NetIncome:      netIncome,
	}
	if comparison != nil {
		compRevenue := sumComparisons(rep.Revenue)
		compExpenses := sumComparisons(rep.Expenses)
		compNet := compRevenue.Sub(compExpenses)
		rep.ComparisonRevenueTotal = &compRevenue
		rep.ComparisonExpensesTotal = &compExpenses
		rep.ComparisonNetIncome = &compNet
	}

	s.log.Debug("income statement generated",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.String("net_income", netIncome.String()))
	return rep, nil
}

func sortIncomeRows(rows []IncomeStatementRow) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Amount.Equal(rows[j].Amount) {
			return rows[i].Amount.GreaterThan(rows[j].Amount)
		}
		return rows[i].AccountCode > rows[j].AccountCode
	})
}

func sumAmounts(rows []IncomeStatementRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Amount)
	}
	return total
}

func sumComparisons(rows []IncomeStatementRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		if row.ComparisonAmount != nil {
			total = total.Add(*row.ComparisonAmount)
		}
	}
	return total
}
