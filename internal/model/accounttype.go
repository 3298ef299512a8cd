package model

import (
	"fmt"
	"strings"
)

// AccountType classifies accounts in the chart of accounts. The set is
// closed: exactly the five fundamental double-entry types.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
)

type accountTypeTraits struct {
	debitPositive bool
	balanceSheet  bool
}

// traits is the single lookup table all classification methods read from.
// Every type appears exactly once.
var traits = map[AccountType]accountTypeTraits{
	AccountTypeAsset:     {debitPositive: true, balanceSheet: true},
	AccountTypeLiability: {debitPositive: false, balanceSheet: true},
	AccountTypeEquity:    {debitPositive: false, balanceSheet: true},
	AccountTypeIncome:    {debitPositive: false, balanceSheet: false},
	AccountTypeExpense:   {debitPositive: true, balanceSheet: false},
}

// AccountTypes returns all five types in statement order.
func AccountTypes() []AccountType {
	return []AccountType{
		AccountTypeAsset,
		AccountTypeLiability,
		AccountTypeEquity,
		AccountTypeIncome,
		AccountTypeExpense,
	}
}

// ParseAccountType parses a case-insensitive type name.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("invalid account type %q (must be one of ASSET, LIABILITY, EQUITY, INCOME, EXPENSE)", s)
	}
	return t, nil
}

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	_, ok := traits[t]
	return ok
}

// DebitPositive reports whether debits increase the balance (ASSET, EXPENSE).
func (t AccountType) DebitPositive() bool { return traits[t].debitPositive }

// CreditPositive reports whether credits increase the balance. Mutually
// exclusive with DebitPositive.
func (t AccountType) CreditPositive() bool { return !traits[t].debitPositive }

// IsBalanceSheet reports whether t belongs on the balance sheet
// (ASSET, LIABILITY, EQUITY).
func (t AccountType) IsBalanceSheet() bool { return traits[t].balanceSheet }

// IsIncomeStatement reports whether t belongs on the income statement
// (INCOME, EXPENSE). Exactly one of IsBalanceSheet/IsIncomeStatement holds.
func (t AccountType) IsIncomeStatement() bool { return !traits[t].balanceSheet }

// SignMultiplier is +1 for debit-positive types and -1 otherwise. It
// normalizes a raw posting sum into the type's natural-sign balance.
func (t AccountType) SignMultiplier() int {
	if traits[t].debitPositive {
		return 1
	}
	return -1
}
