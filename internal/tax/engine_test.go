package tax

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybook-dev/tallybook/internal/model"
)

type fakeLedger struct {
	txns []model.Transaction
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

// addTagged records a balanced placeholder transaction carrying the
// given tax tags.
func (f *fakeLedger) addTagged(t *testing.T, d time.Time, tags ...string) {
	t.Helper()
	m, err := model.MoneyFromString("1.00", "BRL")
	require.NoError(t, err)
	dp, err := model.NewPosting("acct-a", m)
	require.NoError(t, err)
	cp, err := model.NewPosting("acct-b", m.Neg())
	require.NoError(t, err)
	txn, err := model.NewTransaction(model.TransactionParams{
		Date:        d,
		Description: fmt.Sprintf("brokerage note %d", len(f.txns)+1),
		Postings:    []model.Posting{dp, cp},
		Tags:        tags,
	})
	require.NoError(t, err)
	f.txns = append(f.txns, txn)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthlyBreakdown_LossCarryoverAcrossMonths(t *testing.T) {
	ledger := &fakeLedger{}
	ledger.addTagged(t, day(2025, 1, 10),
		"tax:sale=25000", "tax:gain=1000", "tax:loss=4000")
	ledger.addTagged(t, day(2025, 2, 12),
		"tax:sale=25000", "tax:gain=5000")

	engine := NewEngine(ledger, nil)

	jan, err := engine.MonthlyBreakdown(Command{Month: day(2025, 1, 1), Currency: "BRL"})
	require.NoError(t, err)
	assert.Equal(t, "0", jan.LossCarryIn.String())
	assert.Equal(t, "3000", jan.LossCarryOut.String())
	assert.Equal(t, "0", jan.TaxableBase.String())
	assert.Equal(t, "0", jan.TaxDue.String())

	feb, err := engine.MonthlyBreakdown(Command{Month: day(2025, 2, 1), Currency: "BRL"})
	require.NoError(t, err)
	assert.Equal(t, "3000", feb.LossCarryIn.String())
	assert.Equal(t, "3000", feb.LossCarryApplied.String())
	assert.Equal(t, "2000", feb.TaxableBase.String())
	assert.Equal(t, "300", feb.TaxDue.String())
	assert.Equal(t, "300", feb.TaxPayable.String())
	assert.Equal(t, "0", feb.LossCarryOut.String())
}

func TestMonthlyBreakdown_ExemptionStillAccruesLosses(t *testing.T) {
	ledger := &fakeLedger{}
	ledger.addTagged(t, day(2025, 3, 5),
		"tax:sale=15000", "tax:gain=2000", "tax:loss=500")

	engine := NewEngine(ledger, nil)
	b, err := engine.MonthlyBreakdown(Command{Month: day(2025, 3, 15), Currency: "BRL"})
	require.NoError(t, err)

	assert.Equal(t, "15000", b.ExemptSales.String())
	assert.Equal(t, "0", b.TaxableBase.String())
	assert.Equal(t, "500", b.LossCarryOut.String(), "losses accrue even under the exemption")
}

func TestMonthlyBreakdown_CarryoverExceedsGain(t *testing.T) {
	ledger := &fakeLedger{}
	ledger.addTagged(t, day(2025, 1, 10), "tax:sale=30000", "tax:loss=8000")
	ledger.addTagged(t, day(2025, 2, 10), "tax:sale=30000", "tax:gain=5000")

	engine := NewEngine(ledger, nil)
	b, err := engine.MonthlyBreakdown(Command{Month: day(2025, 2, 1), Currency: "BRL"})
	require.NoError(t, err)

	assert.Equal(t, "5000", b.LossCarryApplied.String())
	assert.Equal(t, "0", b.TaxableBase.String())
	assert.Equal(t, "3000", b.LossCarryOut.String())
}

func TestMonthlyBreakdown_WithheldClampsToZero(t *testing.T) {
	ledger := &fakeLedger{}
	ledger.addTagged(t, day(2025, 4, 2),
		"tax:sale=25000", "tax:gain=1000", "tax:withheld=500")

	engine := NewEngine(ledger, nil)
	b, err := engine.MonthlyBreakdown(Command{Month: day(2025, 4, 1), Currency: "BRL"})
	require.NoError(t, err)

	assert.Equal(t, "150", b.TaxDue.String())
	assert.Equal(t, "0", b.TaxPayable.String(), "withholding above the due amount never refunds")
}

func TestMonthlyBreakdown_InactiveTargetMonthCarriesBalance(t *testing.T) {
	ledger := &fakeLedger{}
	ledger.addTagged(t, day(2025, 1, 10), "tax:sale=25000", "tax:loss=4000", "tax:gain=1000")

	engine := NewEngine(ledger, nil)
	b, err := engine.MonthlyBreakdown(Command{Month: day(2025, 6, 1), Currency: "BRL"})
	require.NoError(t, err)

	assert.True(t, b.TotalSales.IsZero())
	assert.True(t, b.TaxDue.IsZero())
	assert.Equal(t, "3000", b.LossCarryIn.String())
	assert.Equal(t, "3000", b.LossCarryOut.String())
}

func TestMonthlyBreakdown_CurrencyTagFilter(t *testing.T) {
	ledger := &fakeLedger{}
	ledger.addTagged(t, day(2025, 5, 3),
		"tax:sale=25000", "tax:gain=2000")
	ledger.addTagged(t, day(2025, 5, 4),
		"tax:sale=90000", "tax:gain=9000", "tax:currency=USD")

	engine := NewEngine(ledger, nil)
	b, err := engine.MonthlyBreakdown(Command{Month: day(2025, 5, 1), Currency: "BRL"})
	require.NoError(t, err)

	assert.Equal(t, "25000", b.TotalSales.String())
	assert.Equal(t, "2000", b.Gains.String())
}

func TestMonthlyBreakdown_MalformedPayloadTreatedAsZero(t *testing.T) {
	ledger := &fakeLedger{}
	ledger.addTagged(t, day(2025, 5, 3),
		"tax:sale=oops", "tax:gain=2000", "not-a-tax-tag", "tax:nopayload")

	engine := NewEngine(ledger, nil)
	b, err := engine.MonthlyBreakdown(Command{Month: day(2025, 5, 1), Currency: "BRL"})
	require.NoError(t, err)

	assert.Equal(t, "0", b.TotalSales.String())
	assert.Equal(t, "2000", b.Gains.String())
	assert.Equal(t, "0", b.ExemptSales.String())
	assert.Equal(t, "0", b.TaxableBase.String(), "zero sales fall under the exemption")
}

func TestMonthlyBreakdown_Deterministic(t *testing.T) {
	ledger := &fakeLedger{}
	ledger.addTagged(t, day(2024, 11, 5), "tax:sale=50000", "tax:loss=12000")
	ledger.addTagged(t, day(2024, 12, 5), "tax:sale=10000", "tax:loss=300")
	ledger.addTagged(t, day(2025, 1, 5), "tax:sale=40000", "tax:gain=20000")

	engine := NewEngine(ledger, nil)
	first, err := engine.MonthlyBreakdown(Command{Month: day(2025, 1, 1), Currency: "BRL"})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := engine.MonthlyBreakdown(Command{Month: day(2025, 1, 1), Currency: "BRL"})
		require.NoError(t, err)
		assert.True(t, first.LossCarryIn.Equal(again.LossCarryIn))
		assert.True(t, first.TaxDue.Equal(again.TaxDue))
		assert.True(t, first.LossCarryOut.Equal(again.LossCarryOut))
	}
	assert.Equal(t, "12300", first.LossCarryIn.String())
	assert.Equal(t, "7700", first.TaxableBase.String())
	assert.Equal(t, "1155", first.TaxDue.String())
}

func TestMonthlyBreakdown_RejectsBadCurrency(t *testing.T) {
	engine := NewEngine(&fakeLedger{}, nil)
	_, err := engine.MonthlyBreakdown(Command{Month: day(2025, 1, 1), Currency: "reais"})
	assert.Error(t, err)
}
