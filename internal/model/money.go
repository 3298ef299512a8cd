package model

import (
	"errors"
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	// ErrCurrencyMismatch is returned by binary operations on Money values
	// with different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrDivideByZero is returned by Div with a zero divisor.
	ErrDivideByZero = errors.New("divide money by zero")
)

// Money is an immutable amount + currency pair. All operations return new
// values; binary operations require equal currencies.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates a Money value. The currency must be a 3-letter uppercase
// ISO 4217 code.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if err := ValidateCurrency(currency); err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: currency}, nil
}

// MoneyFromString parses a decimal string into a Money value.
func MoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	return NewMoney(d, currency)
}

// Zero returns a zero Money in the given currency. The currency is assumed
// valid; use NewMoney for untrusted input.
func Zero(currency string) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// ValidateCurrency checks that a currency code is 3 uppercase ASCII letters.
func ValidateCurrency(currency string) error {
	if len(currency) != 3 {
		return fmt.Errorf("currency must be 3 uppercase letters, got %q", currency)
	}
	for _, c := range currency {
		if c < 'A' || c > 'Z' {
			return fmt.Errorf("currency must be 3 uppercase letters, got %q", currency)
		}
	}
	return nil
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the ISO 4217 code.
func (m Money) Currency() string { return m.currency }

// Add returns m + n. Fails on currency mismatch.
func (m Money) Add(n Money) (Money, error) {
	if err := m.checkCurrency(n); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(n.amount), currency: m.currency}, nil
}

// Sub returns m - n. Fails on currency mismatch.
func (m Money) Sub(n Money) (Money, error) {
	if err := m.checkCurrency(n); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(n.amount), currency: m.currency}, nil
}

// Mul returns m scaled by factor.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// Div returns m divided by divisor. Fails when divisor is zero.
func (m Money) Div(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, ErrDivideByZero
	}
	return Money{amount: m.amount.Div(divisor), currency: m.currency}, nil
}

// Neg returns m with the sign flipped.
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// Abs returns the absolute value of m.
func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs(), currency: m.currency}
}

// Cmp compares two Money values: -1 if m < n, 0 if equal, +1 if m > n.
// Fails on currency mismatch.
func (m Money) Cmp(n Money) (int, error) {
	if err := m.checkCurrency(n); err != nil {
		return 0, err
	}
	return m.amount.Cmp(n.amount), nil
}

// Equal reports whether both amount and currency match.
func (m Money) Equal(n Money) bool {
	return m.currency == n.currency && m.amount.Equal(n.amount)
}

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// Round rounds half-up to the given number of decimal places.
func (m Money) Round(places int32) Money {
	return Money{amount: m.amount.Round(places), currency: m.currency}
}

// MinorUnits converts the amount to integer minor units (e.g. cents),
// rounding half-up. The fraction count comes from the currency registry,
// defaulting to 2 for unknown codes.
func (m Money) MinorUnits() int64 {
	return m.amount.Shift(currencyFraction(m.currency)).Round(0).IntPart()
}

// FromMinorUnits builds a Money from integer minor units.
func FromMinorUnits(units int64, currency string) (Money, error) {
	if err := ValidateCurrency(currency); err != nil {
		return Money{}, err
	}
	amount := decimal.NewFromInt(units).Shift(-currencyFraction(currency))
	return Money{amount: amount, currency: currency}, nil
}

// String renders the value with the currency's display formatter,
// e.g. "$100.50" for USD. Codes missing from the registry fall back
// to the same 2-digit fraction MinorUnits assumes, e.g. "1.50 ZZZ".
func (m Money) String() string {
	if cur := gomoney.GetCurrency(m.currency); cur != nil {
		return cur.Formatter().Format(m.MinorUnits())
	}
	places := currencyFraction(m.currency)
	return m.amount.StringFixed(places) + " " + m.currency
}

func (m Money) checkCurrency(n Money) error {
	if m.currency != n.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, n.currency)
	}
	return nil
}

func currencyFraction(code string) int32 {
	if c := gomoney.GetCurrency(code); c != nil {
		return int32(c.Fraction)
	}
	return 2
}
