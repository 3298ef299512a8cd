package store

import (
	"strings"

	"github.com/tallybook-dev/tallybook/internal/model"
)

// DefaultChart builds the starter chart of accounts for a personal ledger.
// Parents are wired by code prefix, so "Expenses:Food" becomes a child of
// "Expenses".
func DefaultChart(currency string) ([]model.Account, error) {
	specs := []struct {
		code string
		typ  model.AccountType
	}{
		{"Assets", model.AccountTypeAsset},
		{"Assets:Checking", model.AccountTypeAsset},
		{"Assets:Savings", model.AccountTypeAsset},
		{"Assets:Investments", model.AccountTypeAsset},
		{"Liabilities", model.AccountTypeLiability},
		{"Liabilities:CreditCard", model.AccountTypeLiability},
		{"Equity", model.AccountTypeEquity},
		{"Equity:OpeningBalances", model.AccountTypeEquity},
		{"Income", model.AccountTypeIncome},
		{"Income:Salary", model.AccountTypeIncome},
		{"Income:Dividends", model.AccountTypeIncome},
		{"Expenses", model.AccountTypeExpense},
		{"Expenses:Housing", model.AccountTypeExpense},
		{"Expenses:Food", model.AccountTypeExpense},
		{"Expenses:Transport", model.AccountTypeExpense},
		{"Expenses:Health", model.AccountTypeExpense},
	}

	byCode := make(map[string]string, len(specs))
	var accounts []model.Account
	for _, spec := range specs {
		parentID := ""
		if i := strings.LastIndex(spec.code, ":"); i >= 0 {
			parentID = byCode[spec.code[:i]]
		}
		acct, err := model.NewAccount(model.NewAccountParams{
			Code:     spec.code,
			Type:     spec.typ,
			Currency: currency,
			ParentID: parentID,
		})
		if err != nil {
			return nil, err
		}
		byCode[spec.code] = acct.ID
		accounts = append(accounts, *acct)
	}
	return accounts, nil
}
