package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brl(t *testing.T, amount string) Money {
	t.Helper()
	m, err := MoneyFromString(amount, "BRL")
	require.NoError(t, err)
	return m
}

func TestNewMoney_RejectsBadCurrency(t *testing.T) {
	for _, currency := range []string{"", "BR", "BRLL", "brl", "B1L"} {
		_, err := NewMoney(decimal.Zero, currency)
		assert.Error(t, err, "currency %q", currency)
	}
}

func TestMoney_AddSub(t *testing.T) {
	a := brl(t, "100.50")
	b := brl(t, "49.50")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Equal(brl(t, "150.00")))

	diff, err := sum.Sub(b)
	require.NoError(t, err)
	assert.True(t, diff.Equal(a), "(a+b)-b should be a")
}

func TestMoney_AddCommutes(t *testing.T) {
	a := brl(t, "12.34")
	b := brl(t, "0.66")
	ab, err := a.Add(b)
	require.NoError(t, err)
	ba, err := b.Add(a)
	require.NoError(t, err)
	assert.True(t, ab.Equal(ba))
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	a := brl(t, "10")
	usd, err := MoneyFromString("10", "USD")
	require.NoError(t, err)

	_, err = a.Add(usd)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
	_, err = a.Sub(usd)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
	_, err = a.Cmp(usd)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMoney_MulDiv(t *testing.T) {
	a := brl(t, "100.00")

	doubled := a.Mul(decimal.NewFromInt(2))
	assert.True(t, doubled.Equal(brl(t, "200.00")))

	half, err := a.Div(decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.True(t, half.Equal(brl(t, "50.00")))

	_, err = a.Div(decimal.Zero)
	assert.ErrorIs(t, err, ErrDivideByZero)
}

func TestMoney_NegAbs(t *testing.T) {
	a := brl(t, "100.00")
	neg := a.Neg()
	assert.True(t, neg.IsNegative())
	assert.True(t, neg.Abs().Equal(a))
	assert.True(t, a.Abs().Equal(a))
}

func TestMoney_Cmp(t *testing.T) {
	small := brl(t, "1.00")
	big := brl(t, "2.00")

	c, err := small.Cmp(big)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = big.Cmp(small)
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = big.Cmp(brl(t, "2.00"))
	require.NoError(t, err)
	assert.Equal(t, 0, c)
}

func TestMoney_RoundHalfUp(t *testing.T) {
	assert.Equal(t, "100.13", brl(t, "100.125").Round(2).Amount().String())
	assert.Equal(t, "100.12", brl(t, "100.124").Round(2).Amount().String())
}

func TestMoney_MinorUnits(t *testing.T) {
	assert.Equal(t, int64(10050), brl(t, "100.50").MinorUnits())

	back, err := FromMinorUnits(10050, "BRL")
	require.NoError(t, err)
	assert.True(t, back.Equal(brl(t, "100.50")))

	// JPY has no fractional digits.
	jpy, err := FromMinorUnits(500, "JPY")
	require.NoError(t, err)
	assert.Equal(t, "500", jpy.Amount().String())
}

func TestMoney_String(t *testing.T) {
	usd, err := MoneyFromString("100.50", "USD")
	require.NoError(t, err)
	assert.Equal(t, "$100.50", usd.String())

	// Unregistered code: display and MinorUnits share the 2-digit default.
	zzz, err := MoneyFromString("1.50", "ZZZ")
	require.NoError(t, err)
	assert.Equal(t, "1.50 ZZZ", zzz.String())
	assert.Equal(t, int64(150), zzz.MinorUnits())
}

func TestZero(t *testing.T) {
	z := Zero("BRL")
	assert.True(t, z.IsZero())
	assert.False(t, z.IsPositive())
	assert.False(t, z.IsNegative())
}
