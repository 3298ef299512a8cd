package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountType_Classification(t *testing.T) {
	for _, at := range AccountTypes() {
		// Exactly one statement classification per type.
		assert.NotEqual(t, at.IsBalanceSheet(), at.IsIncomeStatement(), "type %s", at)
		// Debit-positive and credit-positive are mutually exclusive.
		assert.NotEqual(t, at.DebitPositive(), at.CreditPositive(), "type %s", at)
		// Sign multiplier is +1 iff debit-positive.
		if at.DebitPositive() {
			assert.Equal(t, 1, at.SignMultiplier(), "type %s", at)
		} else {
			assert.Equal(t, -1, at.SignMultiplier(), "type %s", at)
		}
	}
}

func TestAccountType_Table(t *testing.T) {
	assert.True(t, AccountTypeAsset.DebitPositive())
	assert.True(t, AccountTypeExpense.DebitPositive())
	assert.True(t, AccountTypeLiability.CreditPositive())
	assert.True(t, AccountTypeEquity.CreditPositive())
	assert.True(t, AccountTypeIncome.CreditPositive())

	assert.True(t, AccountTypeAsset.IsBalanceSheet())
	assert.True(t, AccountTypeLiability.IsBalanceSheet())
	assert.True(t, AccountTypeEquity.IsBalanceSheet())
	assert.True(t, AccountTypeIncome.IsIncomeStatement())
	assert.True(t, AccountTypeExpense.IsIncomeStatement())
}

func TestParseAccountType(t *testing.T) {
	at, err := ParseAccountType("asset")
	require.NoError(t, err)
	assert.Equal(t, AccountTypeAsset, at)

	at, err = ParseAccountType(" EXPENSE ")
	require.NoError(t, err)
	assert.Equal(t, AccountTypeExpense, at)

	_, err = ParseAccountType("revenue-ish")
	assert.Error(t, err)
}

func TestAccountType_Valid(t *testing.T) {
	assert.False(t, AccountType("").Valid())
	assert.False(t, AccountType("asset").Valid())
	assert.True(t, AccountTypeEquity.Valid())
}
