package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tallybook-dev/tallybook/internal/model"
)

const (
	acctNumFields  = 10
	acctColID      = 0
	acctColCode    = 1
	acctColName    = 2
	acctColType    = 3
	acctColCcy     = 4
	acctColParent  = 5
	acctColActive  = 6
	acctColIssuer  = 7
	acctColClosing = 8
	acctColDue     = 9
)

var accountHeader = []string{
	"account_id", "code", "name", "type", "currency",
	"parent_id", "active", "card_issuer", "card_closing_day", "card_due_day",
}

// ReadAccounts reads accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = acctNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(accountHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(a model.Account) []string {
	row := make([]string, acctNumFields)
	row[acctColID] = a.ID
	row[acctColCode] = a.Code
	row[acctColName] = a.Name
	row[acctColType] = string(a.Type)
	row[acctColCcy] = a.Currency
	row[acctColParent] = a.ParentID
	row[acctColActive] = strconv.FormatBool(a.Active)
	if a.Card != nil {
		row[acctColIssuer] = a.Card.Issuer
		row[acctColClosing] = strconv.Itoa(a.Card.ClosingDay)
		row[acctColDue] = strconv.Itoa(a.Card.DueDay)
	}
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != acctNumFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", acctNumFields, len(record))
	}
	active, err := strconv.ParseBool(record[acctColActive])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing active %q: %w", record[acctColActive], err)
	}
	var card *model.CardDetails
	if record[acctColClosing] != "" || record[acctColDue] != "" || record[acctColIssuer] != "" {
		closing, err := strconv.Atoi(record[acctColClosing])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing card_closing_day %q: %w", record[acctColClosing], err)
		}
		due, err := strconv.Atoi(record[acctColDue])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing card_due_day %q: %w", record[acctColDue], err)
		}
		card = &model.CardDetails{Issuer: record[acctColIssuer], ClosingDay: closing, DueDay: due}
	}
	return model.Account{
		ID:       record[acctColID],
		Code:     record[acctColCode],
		Name:     record[acctColName],
		Type:     model.AccountType(record[acctColType]),
		Currency: record[acctColCcy],
		ParentID: record[acctColParent],
		Active:   active,
		Card:     card,
	}, nil
}

const (
	legNumFields = 8
	legColTxnID  = 0
	legColDate   = 1
	legColDesc   = 2
	legColAcct   = 3
	legColAmount = 4
	legColCcy    = 5
	legColTags   = 6
	legColNotes  = 7
)

var transactionHeader = []string{
	"txn_id", "date", "description", "account_id", "amount", "currency", "tags", "notes",
}

// WriteTransactions writes transactions.csv, one row per posting leg.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(transactionHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, txn := range txns {
		for _, p := range txn.Postings() {
			row := make([]string, legNumFields)
			row[legColTxnID] = txn.ID()
			row[legColDate] = txn.Date().Format("2006-01-02")
			row[legColDesc] = txn.Description()
			row[legColAcct] = p.AccountID
			row[legColAmount] = p.Amount.Amount().String()
			row[legColCcy] = p.Amount.Currency()
			row[legColTags] = strings.Join(txn.Tags(), ";")
			row[legColNotes] = txn.Notes()
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing transaction %s: %w", txn.ID(), err)
			}
		}
	}
	return cw.Error()
}

// ReadTransactions reads transactions.csv, regrouping posting legs by
// txn_id and rebuilding each transaction through the validating
// constructor.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = legNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	type group struct {
		params model.TransactionParams
	}
	groups := make(map[string]*group)
	var order []string

	for i, rec := range records[1:] {
		txnID := rec[legColTxnID]
		date, err := time.Parse("2006-01-02", rec[legColDate])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", i+2, rec[legColDate], err)
		}
		amount, err := model.MoneyFromString(rec[legColAmount], rec[legColCcy])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		posting, err := model.NewPosting(rec[legColAcct], amount)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		g, seen := groups[txnID]
		if !seen {
			var tags []string
			if rec[legColTags] != "" {
				tags = strings.Split(rec[legColTags], ";")
			}
			g = &group{params: model.TransactionParams{
				ID:          txnID,
				Date:        date,
				Description: rec[legColDesc],
				Tags:        tags,
				Notes:       rec[legColNotes],
			}}
			groups[txnID] = g
			order = append(order, txnID)
		}
		g.params.Postings = append(g.params.Postings, posting)
	}

	var txns []model.Transaction
	for _, txnID := range order {
		txn, err := model.NewTransaction(groups[txnID].params)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", txnID, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}
