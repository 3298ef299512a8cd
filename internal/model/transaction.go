package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tallybook-dev/tallybook/internal/id"
)

var (
	// ErrMixedCurrency is returned when a transaction's postings span more
	// than one currency.
	ErrMixedCurrency = errors.New("postings span multiple currencies")
	// ErrTooFewPostings is returned when fewer than two postings are supplied.
	ErrTooFewPostings = errors.New("transaction requires at least 2 postings")
)

// UnbalancedError reports a posting set that does not sum to zero.
type UnbalancedError struct {
	Total Money
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("postings do not balance: total is %s %s (expected 0)",
		e.Total.Currency(), e.Total.Amount().String())
}

// ValidateBalance enforces the double-entry invariant on a posting set:
// at least 2 postings, exactly one currency, and a zero sum.
func ValidateBalance(postings []Posting) error {
	if len(postings) < 2 {
		return fmt.Errorf("%w, got %d", ErrTooFewPostings, len(postings))
	}
	currency := postings[0].Amount.Currency()
	for _, p := range postings[1:] {
		if p.Amount.Currency() != currency {
			return fmt.Errorf("%w: %s and %s", ErrMixedCurrency, currency, p.Amount.Currency())
		}
	}
	total := Zero(currency)
	for _, p := range postings {
		sum, err := total.Add(p.Amount)
		if err != nil {
			return err
		}
		total = sum
	}
	if !total.IsZero() {
		return &UnbalancedError{Total: total}
	}
	return nil
}

// Transaction is an immutable aggregate of balanced postings. Once
// constructed the invariants cannot be violated: tag operations return new
// values and everything else is read-only.
type Transaction struct {
	id            string
	date          time.Time
	description   string
	postings      []Posting
	tags          []string
	notes         string
	importBatchID string
}

// TransactionParams holds parameters for creating a Transaction.
type TransactionParams struct {
	ID            string // generated when empty
	Date          time.Time
	Description   string
	Postings      []Posting
	Tags          []string
	Notes         string
	ImportBatchID string
}

// NewTransaction validates and creates a Transaction. Validation failure
// means no value is returned at all; there is no partially built state.
func NewTransaction(p TransactionParams) (Transaction, error) {
	description := strings.TrimSpace(p.Description)
	if description == "" {
		return Transaction{}, errors.New("transaction description cannot be empty")
	}
	if err := ValidateBalance(p.Postings); err != nil {
		return Transaction{}, err
	}
	txnID := p.ID
	if txnID == "" {
		txnID = id.New()
	}
	postings := make([]Posting, len(p.Postings))
	copy(postings, p.Postings)
	var tags []string
	for _, t := range p.Tags {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return Transaction{
		id:            txnID,
		date:          DateOnly(p.Date),
		description:   description,
		postings:      postings,
		tags:          tags,
		notes:         p.Notes,
		importBatchID: p.ImportBatchID,
	}, nil
}

// DateOnly truncates a timestamp to a UTC calendar date. Report boundaries
// are date-only; offsets are resolved upstream.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (t Transaction) ID() string            { return t.id }
func (t Transaction) Date() time.Time       { return t.date }
func (t Transaction) Description() string   { return t.description }
func (t Transaction) Notes() string         { return t.notes }
func (t Transaction) ImportBatchID() string { return t.importBatchID }

// Currency returns the single currency shared by all postings.
func (t Transaction) Currency() string {
	return t.postings[0].Amount.Currency()
}

// Postings returns a copy of the posting sequence.
func (t Transaction) Postings() []Posting {
	out := make([]Posting, len(t.postings))
	copy(out, t.postings)
	return out
}

// Tags returns a copy of the tag set.
func (t Transaction) Tags() []string {
	out := make([]string, len(t.tags))
	copy(out, t.tags)
	return out
}

// IsBalanced re-checks the double-entry invariant. Always true for values
// built through NewTransaction.
func (t Transaction) IsBalanced() bool {
	return ValidateBalance(t.postings) == nil
}

// TotalDebits sums the positive legs.
func (t Transaction) TotalDebits() Money {
	total := Zero(t.Currency())
	for _, p := range t.postings {
		if p.IsDebit() {
			total, _ = total.Add(p.Amount)
		}
	}
	return total
}

// TotalCredits sums the negative legs, reported as an absolute value.
func (t Transaction) TotalCredits() Money {
	total := Zero(t.Currency())
	for _, p := range t.postings {
		if p.IsCredit() {
			total, _ = total.Add(p.Amount.Abs())
		}
	}
	return total
}

// HasAccount reports whether any posting touches the account.
func (t Transaction) HasAccount(accountID string) bool {
	for _, p := range t.postings {
		if p.AccountID == accountID {
			return true
		}
	}
	return false
}

// PostingsForAccount returns the postings touching the account.
func (t Transaction) PostingsForAccount(accountID string) []Posting {
	var out []Posting
	for _, p := range t.postings {
		if p.AccountID == accountID {
			out = append(out, p)
		}
	}
	return out
}

// HasTag reports whether the tag is present (case-insensitive).
func (t Transaction) HasTag(tag string) bool {
	for _, existing := range t.tags {
		if strings.EqualFold(existing, tag) {
			return true
		}
	}
	return false
}

// AddTag returns a new Transaction with the tag appended. The receiver is
// returned unchanged when the tag is already present.
func (t Transaction) AddTag(tag string) Transaction {
	tag = strings.TrimSpace(tag)
	if tag == "" || t.HasTag(tag) {
		return t
	}
	out := t
	out.tags = append(append([]string(nil), t.tags...), tag)
	return out
}

// RemoveTag returns a new Transaction without the tag (case-insensitive).
func (t Transaction) RemoveTag(tag string) Transaction {
	if !t.HasTag(tag) {
		return t
	}
	out := t
	out.tags = nil
	for _, existing := range t.tags {
		if !strings.EqualFold(existing, tag) {
			out.tags = append(out.tags, existing)
		}
	}
	return out
}
