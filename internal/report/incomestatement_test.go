package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallybook-dev/tallybook/internal/model"
)

func TestIncomeStatement_AbsoluteAmountsAndNetIncome(t *testing.T) {
	ledger := &fakeLedger{}
	checking := ledger.addAccount(t, "Assets:Checking", model.AccountTypeAsset)
	food := ledger.addAccount(t, "Expenses:Food", model.AccountTypeExpense)
	salary := ledger.addAccount(t, "Income:Salary", model.AccountTypeIncome)
	ledger.addTxn(t, day(2025, 10, 1), "Salary", checking.ID, salary.ID, "1000.00")
	ledger.addTxn(t, day(2025, 10, 5), "Groceries", food.ID, checking.ID, "500.00")

	svc := NewService(ledger, nil)
	rep, err := svc.IncomeStatement(IncomeStatementCommand{
		From:     day(2025, 10, 1),
		To:       day(2025, 10, 31),
		Currency: "BRL",
	})
	require.NoError(t, err)

	require.Len(t, rep.Revenue, 1)
	assert.Equal(t, "1000", rep.Revenue[0].Amount.String())
	assert.Equal(t, "-1000", rep.Revenue[0].RawAmount.String())

	require.Len(t, rep.Expenses, 1)
	assert.Equal(t, "500", rep.Expenses[0].Amount.String())
	assert.Equal(t, "500", rep.Expenses[0].RawAmount.String())

	assert.Equal(t, "500", rep.NetIncome.String())
	assert.True(t, rep.NetIncome.Equal(rep.RevenueTotal.Sub(rep.ExpensesTotal)))
}

func TestIncomeStatement_WindowBoundsInclusive(t *testing.T) {
	ledger := &fakeLedger{}
	checking := ledger.addAccount(t, "Assets:Checking", model.AccountTypeAsset)
	salary := ledger.addAccount(t, "Income:Salary", model.AccountTypeIncome)
	ledger.addTxn(t, day(2025, 9, 30), "Before", checking.ID, salary.ID, "1.00")
	ledger.addTxn(t, day(2025, 10, 1), "First day", checking.ID, salary.ID, "10.00")
	ledger.addTxn(t, day(2025, 10, 31), "Last day", checking.ID, salary.ID, "100.00")
	ledger.addTxn(t, day(2025, 11, 1), "After", checking.ID, salary.ID, "1000.00")

	svc := NewService(ledger, nil)
	rep, err := svc.IncomeStatement(IncomeStatementCommand{
		From:     day(2025, 10, 1),
		To:       day(2025, 10, 31),
		Currency: "BRL",
	})
	require.NoError(t, err)
	assert.Equal(t, "110", rep.RevenueTotal.String())
}

func TestIncomeStatement_PreviousPeriodWindow(t *testing.T) {
	ledger := &fakeLedger{}
	checking := ledger.addAccount(t, "Assets:Checking", model.AccountTypeAsset)
	salary := ledger.addAccount(t, "Income:Salary", model.AccountTypeIncome)
	ledger.addTxn(t, day(2025, 9, 15), "Prev salary", checking.ID, salary.ID, "800.00")
	ledger.addTxn(t, day(2025, 10, 15), "Salary", checking.ID, salary.ID, "1000.00")

	svc := NewService(ledger, nil)
	rep, err := svc.IncomeStatement(IncomeStatementCommand{
		From:       day(2025, 10, 1),
		To:         day(2025, 10, 31),
		Currency:   "BRL",
		Comparison: PeriodComparePrevious,
	})
	require.NoError(t, err)

	// 31-day window shifted back by its own length: Aug 31 .. Sep 30.
	require.NotNil(t, rep.ComparisonFrom)
	require.NotNil(t, rep.ComparisonTo)
	assert.Equal(t, day(2025, 8, 31), *rep.ComparisonFrom)
	assert.Equal(t, day(2025, 9, 30), *rep.ComparisonTo)

	require.Len(t, rep.Revenue, 1)
	row := rep.Revenue[0]
	require.NotNil(t, row.ComparisonAmount)
	assert.Equal(t, "800", row.ComparisonAmount.String())
	require.NotNil(t, row.ChangeAmount)
	assert.Equal(t, "200", row.ChangeAmount.String())
	require.NotNil(t, row.ChangePercent)
	assert.Equal(t, "25", row.ChangePercent.String())

	require.NotNil(t, rep.ComparisonNetIncome)
	assert.Equal(t, "800", rep.ComparisonNetIncome.String())
}

func TestIncomeStatement_YearOverYearLeapDay(t *testing.T) {
	ledger := &fakeLedger{}
	checking := ledger.addAccount(t, "Assets:Checking", model.AccountTypeAsset)
	salary := ledger.addAccount(t, "Income:Salary", model.AccountTypeIncome)
	ledger.addTxn(t, day(2023, 2, 20), "Prior year", checking.ID, salary.ID, "700.00")
	ledger.addTxn(t, day(2024, 2, 29), "Leap day", checking.ID, salary.ID, "900.00")

	svc := NewService(ledger, nil)
	rep, err := svc.IncomeStatement(IncomeStatementCommand{
		From:       day(2024, 2, 1),
		To:         day(2024, 2, 29),
		Currency:   "BRL",
		Comparison: PeriodCompareYoY,
	})
	require.NoError(t, err)

	// Feb 29 has no counterpart in 2023; it clamps to Feb 28.
	assert.Equal(t, day(2023, 2, 1), *rep.ComparisonFrom)
	assert.Equal(t, day(2023, 2, 28), *rep.ComparisonTo)
	require.Len(t, rep.Revenue, 1)
	assert.Equal(t, "700", rep.Revenue[0].ComparisonAmount.String())
}

func TestIncomeStatement_ZeroComparisonBase(t *testing.T) {
	ledger := &fakeLedger{}
	checking := ledger.addAccount(t, "Assets:Checking", model.AccountTypeAsset)
	salary := ledger.addAccount(t, "Income:Salary", model.AccountTypeIncome)
	ledger.addTxn(t, day(2025, 10, 15), "First ever salary", checking.ID, salary.ID, "1000.00")

	svc := NewService(ledger, nil)
	rep, err := svc.IncomeStatement(IncomeStatementCommand{
		From:       day(2025, 10, 1),
		To:         day(2025, 10, 31),
		Currency:   "BRL",
		Comparison: PeriodComparePrevious,
	})
	require.NoError(t, err)

	require.Len(t, rep.Revenue, 1)
	row := rep.Revenue[0]
	require.NotNil(t, row.ChangeAmount)
	assert.Equal(t, "1000", row.ChangeAmount.String())
	assert.Nil(t, row.ChangePercent, "no percent against a zero base")
}

func TestIncomeStatement_SortsByAmountDesc(t *testing.T) {
	ledger := &fakeLedger{}
	checking := ledger.addAccount(t, "Assets:Checking", model.AccountTypeAsset)
	food := ledger.addAccount(t, "Expenses:Food", model.AccountTypeExpense)
	rent := ledger.addAccount(t, "Expenses:Rent", model.AccountTypeExpense)
	transport := ledger.addAccount(t, "Expenses:Transport", model.AccountTypeExpense)
	ledger.addTxn(t, day(2025, 10, 1), "Rent", rent.ID, checking.ID, "2000.00")
	ledger.addTxn(t, day(2025, 10, 2), "Groceries", food.ID, checking.ID, "500.00")
	ledger.addTxn(t, day(2025, 10, 3), "Bus pass", transport.ID, checking.ID, "500.00")

	svc := NewService(ledger, nil)
	rep, err := svc.IncomeStatement(IncomeStatementCommand{
		From:     day(2025, 10, 1),
		To:       day(2025, 10, 31),
		Currency: "BRL",
	})
	require.NoError(t, err)

	require.Len(t, rep.Expenses, 3)
	assert.Equal(t, "Expenses:Rent", rep.Expenses[0].AccountCode)
	assert.Equal(t, "Expenses:Transport", rep.Expenses[1].AccountCode, "ties break by code descending")
	assert.Equal(t, "Expenses:Food", rep.Expenses[2].AccountCode)
}

func TestIncomeStatement_RejectsInvertedPeriod(t *testing.T) {
	svc := NewService(&fakeLedger{}, nil)
	_, err := svc.IncomeStatement(IncomeStatementCommand{
		From:     day(2025, 10, 31),
		To:       day(2025, 10, 1),
		Currency: "BRL",
	})
	assert.Error(t, err)
}
