package finance

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/safeguard/internal/safeguard"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMarket_Rates(t *testing.T) {
	m := DefaultMarket()

	tests := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{name: "tax before start", got: m.TaxRateFor(2029), want: "0"},
		{name: "tax start year", got: m.TaxRateFor(2030), want: "15"},
		{name: "tax one year on", got: m.TaxRateFor(2031), want: "15.3"},
		{name: "tax two years on", got: m.TaxRateFor(2032), want: "15.606"},
		{name: "credit before start", got: m.CreditPriceFor(2023), want: "0"},
		{name: "credit start year", got: m.CreditPriceFor(2024), want: "35"},
		{name: "credit one year on", got: m.CreditPriceFor(2025), want: "36.05"},
		{name: "credit two years on", got: m.CreditPriceFor(2026), want: "37.1315"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, dec(tt.want).Equal(tt.got), "got %s want %s", tt.got, tt.want)
		})
	}
}

func TestEscalate(t *testing.T) {
	assert.True(t, dec("100").Equal(Escalate(dec("100"), dec("0.1"), 0)))
	assert.True(t, dec("100").Equal(Escalate(dec("100"), dec("0.1"), -3)))
	assert.True(t, dec("133.1").Equal(Escalate(dec("100"), dec("0.1"), 3)))
}

func TestMarket_Value(t *testing.T) {
	m := DefaultMarket()
	years := []YearInput{
		{FY: 2024, Scope1: 120000, SMC: -95700.5, SMCCumulative: -95700.5},
		{FY: 2029, Scope1: 90000, SMC: 1000, SMCCumulative: -94700.5},
		{FY: 2030, Scope1: 120000, SMC: 2000, SMCCumulative: -92700.5},
		{FY: 2031, Scope1: 100000, SMC: 0, SMCCumulative: -92700.5},
	}

	out := m.Value(context.Background(), years)
	require.Len(t, out, 4)

	assert.True(t, out[0].Tax.IsZero())
	assert.True(t, dec("-3349517.50").Equal(out[0].CreditValue), out[0].CreditValue.String())
	assert.True(t, out[0].CreditValue.Equal(out[0].CreditValueCumulative))

	assert.True(t, out[1].TaxCumulative.IsZero())

	assert.True(t, dec("1800000").Equal(out[2].Tax), out[2].Tax.String())
	assert.True(t, dec("1800000").Equal(out[2].TaxCumulative))
	assert.True(t, dec("1530000").Equal(out[3].Tax), out[3].Tax.String())
	assert.True(t, dec("3330000").Equal(out[3].TaxCumulative))

	price2030 := m.CreditPriceFor(2030)
	want := dec("-92700.5").Mul(price2030).Round(MoneyPlaces)
	assert.True(t, want.Equal(out[2].CreditValueCumulative))
	assert.True(t, out[3].CreditValue.IsZero())
}

func TestFromAnnual(t *testing.T) {
	in := []safeguard.AnnualRecord{
		{Baseline: safeguard.Baseline{FY: 2025}, Scope1: 10, SMC: 2, SMCCumulative: 3},
	}
	assert.Equal(t, []YearInput{{FY: 2025, Scope1: 10, SMC: 2, SMCCumulative: 3}}, FromAnnual(in))
}

func TestMarket_Validate(t *testing.T) {
	require.NoError(t, DefaultMarket().Validate())

	m := DefaultMarket()
	m.CreditPrice = dec("-1")
	assert.ErrorIs(t, m.Validate(), ErrInvalidMarket)

	m = DefaultMarket()
	m.TaxEscalation = dec("-1")
	assert.ErrorIs(t, m.Validate(), ErrInvalidMarket)
}
