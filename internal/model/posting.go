package model

import "errors"

// Posting is one leg of a transaction: an account reference plus a signed
// Money amount. Positive amounts are debits, negative amounts credits,
// relative to the transaction that owns the leg.
type Posting struct {
	AccountID string
	Amount    Money
}

// NewPosting creates a Posting. Zero amounts are rejected: a leg that moves
// nothing carries no information.
func NewPosting(accountID string, amount Money) (Posting, error) {
	if accountID == "" {
		return Posting{}, errors.New("posting requires an account id")
	}
	if amount.IsZero() {
		return Posting{}, errors.New("posting amount cannot be zero")
	}
	return Posting{AccountID: accountID, Amount: amount}, nil
}

// IsDebit reports whether the raw amount is positive.
func (p Posting) IsDebit() bool { return p.Amount.IsPositive() }

// IsCredit reports whether the raw amount is negative.
func (p Posting) IsCredit() bool { return p.Amount.IsNegative() }

// Invert returns the posting with the sign flipped (for reversals).
func (p Posting) Invert() Posting {
	return Posting{AccountID: p.AccountID, Amount: p.Amount.Neg()}
}
