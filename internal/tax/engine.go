// Package tax computes the Brazilian monthly capital gains (IR) summary:
// sales exemption, loss carryover and the DARF base. Carryover is a
// single scalar folded over every tagged month in chronological order,
// so each call replays full history up to the target month.
package tax

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tallybook-dev/tallybook/internal/model"
)

var (
	// exemptionThreshold is the monthly sales total at or below which
	// gains are fully exempt.
	exemptionThreshold = decimal.NewFromInt(20000)
	// darfRate is the capital gains tax rate.
	darfRate = decimal.RequireFromString("0.15")

	earliestDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Ledger supplies the transaction history the engine folds over.
type Ledger interface {
	TransactionsInRange(from, to time.Time) []model.Transaction
}

// Command selects the target month (any day within it) and currency.
type Command struct {
	Month    time.Time
	Currency string
}

// MonthKey identifies one calendar month of tagged activity.
type MonthKey struct {
	Year  int
	Month time.Month
}

func monthOf(d time.Time) MonthKey {
	return MonthKey{Year: d.Year(), Month: d.Month()}
}

func (k MonthKey) before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// Breakdown is the detailed tax calculation for one month.
type Breakdown struct {
	Month            time.Time
	Currency         string
	TotalSales       decimal.Decimal
	ExemptSales      decimal.Decimal
	Gains            decimal.Decimal
	Losses           decimal.Decimal
	LossCarryIn      decimal.Decimal
	LossCarryApplied decimal.Decimal
	LossCarryOut     decimal.Decimal
	TaxableBase      decimal.Decimal
	Rate             decimal.Decimal
	TaxDue           decimal.Decimal
	Withheld         decimal.Decimal
	TaxPayable       decimal.Decimal
	Dividends        decimal.Decimal
	JCP              decimal.Decimal
}

type monthlyEvents struct {
	sales     decimal.Decimal
	gains     decimal.Decimal
	losses    decimal.Decimal
	dividends decimal.Decimal
	jcp       decimal.Decimal
	withheld  decimal.Decimal
}

// Engine derives monthly tax breakdowns from tagged transactions.
type Engine struct {
	ledger Ledger
	log    *zap.Logger
}

// NewEngine creates a tax Engine.
func NewEngine(ledger Ledger, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{ledger: ledger, log: log}
}

// MonthlyBreakdown computes the target month's tax summary. Months are
// processed ascending with one running loss-carryover balance; a target
// month without tagged activity yields a zero breakdown carrying
// whatever balance accumulated before it.
func (e *Engine) MonthlyBreakdown(cmd Command) (*Breakdown, error) {
	currency := strings.ToUpper(cmd.Currency)
	if err := model.ValidateCurrency(currency); err != nil {
		return nil, err
	}
	target := monthOf(model.DateOnly(cmd.Month))
	monthStart := time.Date(target.Year, target.Month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	txns := e.ledger.TransactionsInRange(earliestDate, monthEnd)
	monthly := collectMonthlyEvents(txns, currency)

	keys := make([]MonthKey, 0, len(monthly))
	for k := range monthly {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].before(keys[j]) })

	carryover := decimal.Zero
	var breakdown *Breakdown

	for _, key := range keys {
		data := monthly[key]
		carryIn := carryover

		exemptSales := decimal.Zero
		taxableBase := decimal.Zero
		carryApplied := decimal.Zero

		if data.sales.LessThanOrEqual(exemptionThreshold) {
			exemptSales = data.sales
			carryover = carryover.Add(data.losses)
		} else {
			netGain := data.gains.Sub(data.losses)
			switch {
			case !netGain.IsPositive():
				carryover = carryover.Add(netGain.Abs())
			case carryover.GreaterThanOrEqual(netGain):
				carryApplied = netGain
				carryover = carryover.Sub(netGain)
			default:
				carryApplied = carryover
				taxableBase = netGain.Sub(carryover)
				carryover = decimal.Zero
			}
		}

		taxDue := taxableBase.Mul(darfRate).Round(2)
		taxPayable := taxDue.Sub(data.withheld)
		if taxPayable.IsNegative() {
			taxPayable = decimal.Zero
		}

		if key == target {
			breakdown = &Breakdown{
				Month:            monthStart,
				Currency:         currency,
				TotalSales:       data.sales,
				ExemptSales:      exemptSales,
				Gains:            data.gains,
				Losses:           data.losses,
				LossCarryIn:      carryIn,
				LossCarryApplied: carryApplied,
				LossCarryOut:     carryover,
				TaxableBase:      taxableBase,
				Rate:             darfRate,
				TaxDue:           taxDue,
				Withheld:         data.withheld,
				TaxPayable:       taxPayable,
				Dividends:        data.dividends,
				JCP:              data.jcp,
			}
		}
	}

	if breakdown == nil {
		breakdown = &Breakdown{
			Month:            monthStart,
			Currency:         currency,
			TotalSales:       decimal.Zero,
			ExemptSales:      decimal.Zero,
			Gains:            decimal.Zero,
			Losses:           decimal.Zero,
			LossCarryIn:      carryover,
			LossCarryApplied: decimal.Zero,
			LossCarryOut:     carryover,
			TaxableBase:      decimal.Zero,
			Rate:             darfRate,
			TaxDue:           decimal.Zero,
			Withheld:         decimal.Zero,
			TaxPayable:       decimal.Zero,
			Dividends:        decimal.Zero,
			JCP:              decimal.Zero,
		}
	}

	e.log.Debug("tax breakdown computed",
		zap.Time("month", monthStart),
		zap.String("currency", currency),
		zap.String("tax_payable", breakdown.TaxPayable.String()))
	return breakdown, nil
}

// collectMonthlyEvents groups tagged tax amounts by calendar month. A
// "tax:currency=XXX" tag scopes a transaction's figures to one currency;
// untagged currency defaults to the requested one.
func collectMonthlyEvents(txns []model.Transaction, currency string) map[MonthKey]monthlyEvents {
	monthly := make(map[MonthKey]monthlyEvents)
	for _, txn := range txns {
		parsed := parseTags(txn.Tags())
		if len(parsed) == 0 {
			continue
		}
		if c, ok := parsed["currency"]; ok && strings.ToUpper(c) != currency {
			continue
		}

		key := monthOf(txn.Date())
		events := monthly[key]
		if v, ok := parsed["sale"]; ok {
			events.sales = events.sales.Add(asDecimal(v))
		}
		if v, ok := parsed["gain"]; ok {
			events.gains = events.gains.Add(asDecimal(v))
		}
		if v, ok := parsed["loss"]; ok {
			events.losses = events.losses.Add(asDecimal(v))
		}
		if v, ok := parsed["dividend"]; ok {
			events.dividends = events.dividends.Add(asDecimal(v))
		}
		if v, ok := parsed["jcp"]; ok {
			events.jcp = events.jcp.Add(asDecimal(v))
		}
		if v, ok := parsed["withheld"]; ok {
			events.withheld = events.withheld.Add(asDecimal(v))
		}
		monthly[key] = events
	}
	return monthly
}
