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

// BalanceComparison selects the balance sheet comparison period.
type BalanceComparison string

const (
	BalanceCompareNone          BalanceComparison = "NONE"
	BalanceComparePreviousMonth BalanceComparison = "PREVIOUS_MONTH"
	BalanceCompareCustomDate    BalanceComparison = "CUSTOM_DATE"
)

// ErrComparisonDateRequired is returned when CUSTOM_DATE comparison is
// requested without an explicit date.
var ErrComparisonDateRequired = errors.New("custom comparison requires an explicit date")

// BalanceSheetCommand describes one balance sheet snapshot request.
type BalanceSheetCommand struct {
	AsOf       time.Time
	Currency   string
	Comparison BalanceComparison
	CompareTo  time.Time // required for CUSTOM_DATE
}

// BalanceSheetRow is one account line. Balance is normalized by the
// account type's sign multiplier; RawBalance is the plain posting sum.
type BalanceSheetRow struct {
	AccountCode       string
	AccountName       string
	AccountType       model.AccountType
	Balance           decimal.Decimal
	RawBalance        decimal.Decimal
	TransactionCount  int
	ComparisonBalance *decimal.Decimal
	ChangeAmount      *decimal.Decimal
	ChangePercent     *decimal.Decimal
}

// BalanceSheetReport is an immutable snapshot of financial position.
type BalanceSheetReport struct {
	AsOf             time.Time
	Currency         string
	Comparison       BalanceComparison
	CompareTo        *time.Time
	Assets           []BalanceSheetRow
	Liabilities      []BalanceSheetRow
	Equity           []BalanceSheetRow
	AssetsTotal      decimal.Decimal
	LiabilitiesTotal decimal.Decimal
	EquityTotal      decimal.Decimal
	NetWorth         decimal.Decimal
}

// BalanceSheet aggregates balance-sheet accounts as of a date. When no
// equity account carries postings, the equity total is derived as
// assets - liabilities (plug figure); net worth is always
// assets - liabilities.
func (s *Service) BalanceSheet(cmd BalanceSheetCommand) (*BalanceSheetReport, error) {
	currency := strings.ToUpper(cmd.Currency)
	if err := model.ValidateCurrency(currency); err != nil {
		return nil, err
	}
	asOf := model.DateOnly(cmd.AsOf)

	var compareTo *time.Time
	switch cmd.Comparison {
	case BalanceCompareNone, "":
	case BalanceComparePreviousMonth:
		d := previousMonth(asOf)
		compareTo = &d
	case BalanceCompareCustomDate:
		if cmd.CompareTo.IsZero() {
			return nil, ErrComparisonDateRequired
		}
		d := model.DateOnly(cmd.CompareTo)
		compareTo = &d
	default:
		return nil, fmt.Errorf("unsupported comparison mode %q", string(cmd.Comparison))
	}

	accounts := filterAccounts(s.ledger.Accounts(), currency, model.AccountType.IsBalanceSheet)
	// A custom comparison date may fall after the report date; fetch far
	// enough to cover both cutoffs.
	fetchUntil := asOf
	if compareTo != nil && compareTo.After(fetchUntil) {
		fetchUntil = *compareTo
	}
	txns := s.ledger.TransactionsInRange(earliestDate, fetchUntil)

	current := AggregateAsOf(txns, accounts, currency, asOf)
	var comparison *Aggregation
	if compareTo != nil {
		agg := AggregateAsOf(txns, accounts, currency, *compareTo)
		comparison = &agg
	}

	sections := map[model.AccountType][]BalanceSheetRow{}
	for accountID, acct := range accounts {
		balance := current.Balance(accountID)
		count := current.Count(accountID)

		active := !balance.IsZero() || count > 0
		var compRow *decimal.Decimal
		if comparison != nil {
			compBalance := comparison.Balance(accountID)
			if !compBalance.IsZero() || comparison.Count(accountID) > 0 {
				active = true
			}
			normalized := normalize(compBalance, acct.Type)
			compRow = &normalized
		}
		if !active {
			continue
		}

		row := BalanceSheetRow{
			AccountCode:       acct.Code,
			AccountName:       acct.Name,
			AccountType:       acct.Type,
			Balance:           normalize(balance, acct.Type),
			RawBalance:        balance,
			TransactionCount:  count,
			ComparisonBalance: compRow,
		}
		if compRow != nil {
			change := row.Balance.Sub(*compRow)
			row.ChangeAmount = &change
			if !compRow.IsZero() {
				pct := change.Div(compRow.Abs()).Mul(decimal.NewFromInt(100))
				row.ChangePercent = &pct
			}
		}
		sections[acct.Type] = append(sections[acct.Type], row)
	}

	for _, rows := range sections {
		sortBalanceRows(rows)
	}

	assetsTotal := sumBalances(sections[model.AccountTypeAsset])
	liabilitiesTotal := sumBalances(sections[model.AccountTypeLiability])
	equityRows := sections[model.AccountTypeEquity]
	equityTotal := sumBalances(equityRows)
	if len(equityRows) == 0 {
		// No equity activity: plug the accounting equation.
		equityTotal = assetsTotal.Sub(liabilitiesTotal)
	}
	netWorth := assetsTotal.Sub(liabilitiesTotal)

	s.log.Debug("balance sheet generated",
		zap.Time("as_of", asOf),
		zap.String("currency", currency),
		zap.String("net_worth", netWorth.String()))

	return &BalanceSheetReport{
		AsOf:             asOf,
		Currency:         currency,
		Comparison:       cmd.Comparison,
		CompareTo:        compareTo,
		Assets:           sections[model.AccountTypeAsset],
		Liabilities:      sections[model.AccountTypeLiability],
		Equity:           equityRows,
		AssetsTotal:      assetsTotal,
		LiabilitiesTotal: liabilitiesTotal,
		EquityTotal:      equityTotal,
		NetWorth:         netWorth,
	}, nil
}

func normalize(raw decimal.Decimal, at model.AccountType) decimal.Decimal {
	return raw.Mul(decimal.NewFromInt(int64(at.SignMultiplier())))
}

func sortBalanceRows(rows []BalanceSheetRow) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].Balance.Abs(), rows[j].Balance.Abs()
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return rows[i].AccountCode > rows[j].AccountCode
	})
}

func sumBalances(rows []BalanceSheetRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Balance)
	}
	return total
}
