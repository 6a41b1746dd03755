package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plata-app/plata-core/internal/apperrors"
	"github.com/plata-app/plata-core/internal/core/domain"
)

func mustCurrency(t *testing.T, code string) domain.Currency {
	t.Helper()
	c, err := domain.DefaultRegistry().Get(code)
	require.NoError(t, err)
	return c
}

func TestMoney_MinorUnitsRoundTrip(t *testing.T) {
	m := domain.FromMinorUnits(123456, "MXN")
	assert.Equal(t, int64(123456), m.MinorUnits())
	assert.Equal(t, "MXN", m.CurrencyCode())

	mxn := mustCurrency(t, "MXN")
	assert.True(t, m.Major(mxn).Equal(decimal.RequireFromString("1234.56")))
	assert.True(t, domain.FromMajorUnits(m.Major(mxn), mxn).Equal(m))
}

func TestMoney_FromMajorUnits_BTCScale(t *testing.T) {
	btc := mustCurrency(t, "BTC")
	m := domain.FromMajorUnits(decimal.RequireFromString("0.00000001"), btc)
	assert.Equal(t, int64(1), m.MinorUnits())

	whole := domain.FromMajorUnits(decimal.NewFromInt(1), btc)
	assert.Equal(t, int64(100000000), whole.MinorUnits())
}

func TestMoney_AddSub_CurrencySafety(t *testing.T) {
	a := domain.NewMoney(1000, "MXN")
	b := domain.NewMoney(250, "MXN")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), sum.MinorUnits())

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int64(750), diff.MinorUnits())

	_, err = a.Add(domain.NewMoney(100, "USD"))
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)
	_, err = a.Sub(domain.NewMoney(100, "USD"))
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)

	// The operands are untouched.
	assert.Equal(t, int64(1000), a.MinorUnits())
	assert.Equal(t, int64(250), b.MinorUnits())
}

func TestMoney_MulScalar_RoundsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		factor string
		want   int64
	}{
		{"exact", 1000, "2", 2000},
		{"half rounds up", 5, "0.5", 3},		// 2.5 -> 3
		{"negative half rounds away", -5, "0.5", -3},	// -2.5 -> -3
		{"below half rounds down", 4, "0.6", 2},	// 2.4 -> 2
		{"above half rounds up", 4, "0.65", 3},		// 2.6 -> 3
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := domain.NewMoney(tt.amount, "MXN").MulScalar(decimal.RequireFromString(tt.factor))
			assert.Equal(t, tt.want, m.MinorUnits())
			assert.Equal(t, "MXN", m.CurrencyCode())
		})
	}
}

func TestMoney_DivScalar(t *testing.T) {
	m, err := domain.NewMoney(1000, "MXN").DivScalar(decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.Equal(t, int64(333), m.MinorUnits()) // 333.33... -> 333

	half, err := domain.NewMoney(5, "MXN").DivScalar(decimal.NewFromInt(2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), half.MinorUnits()) // 2.5 -> 3

	_, err = domain.NewMoney(1000, "MXN").DivScalar(decimal.Zero)
	assert.ErrorIs(t, err, apperrors.ErrDivisionByZero)
}

func TestMoney_Comparisons(t *testing.T) {
	a := domain.NewMoney(1000, "MXN")
	b := domain.NewMoney(500, "MXN")

	assert.True(t, a.Equal(domain.NewMoney(1000, "MXN")))
	assert.False(t, a.Equal(domain.NewMoney(1000, "USD")))

	gt, err := a.GreaterThan(b)
	require.NoError(t, err)
	assert.True(t, gt)

	lt, err := b.LessThan(a)
	require.NoError(t, err)
	assert.True(t, lt)

	_, err = a.GreaterThan(domain.NewMoney(1, "USD"))
	assert.ErrorIs(t, err, apperrors.ErrCurrencyMismatch)

	assert.True(t, domain.ZeroMoney("MXN").IsZero())
	assert.True(t, a.IsPositive())
	assert.True(t, a.Neg().IsNegative())
	assert.Equal(t, int64(1000), a.Neg().Abs().MinorUnits())
}

func TestMoney_Format(t *testing.T) {
	mxn := mustCurrency(t, "MXN")
	assert.Equal(t, "$1,234,567.89", domain.NewMoney(123456789, "MXN").Format(mxn))
	assert.Equal(t, "$-0.05", domain.NewMoney(-5, "MXN").Format(mxn))
	assert.Equal(t, "$0.00", domain.ZeroMoney("MXN").Format(mxn))

	jpy := mustCurrency(t, "JPY")
	assert.Equal(t, "¥1,234,567", domain.NewMoney(1234567, "JPY").Format(jpy))
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := domain.NewMoney(-4250, "USD")
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amountMinor":-4250,"currency":"USD"}`, string(data))

	var back domain.Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, m.Equal(back))
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "-4250 USD", domain.NewMoney(-4250, "USD").String())
}
