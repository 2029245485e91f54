package finance

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rshade/safeguard/internal/logging"
	"github.com/rshade/safeguard/internal/safeguard"
)

// YearInput is one fiscal year of emissions and credit position.
type YearInput struct {
	FY            int
	Scope1        float64
	SMC           float64
	SMCCumulative float64
}

// FromAnnual converts engine annual records into valuation inputs.
func FromAnnual(years []safeguard.AnnualRecord) []YearInput {
	out := make([]YearInput, len(years))
	for i, y := range years {
		out[i] = YearInput{
			FY:            y.FY,
			Scope1:        y.Scope1,
			SMC:           y.SMC,
			SMCCumulative: y.SMCCumulative,
		}
	}
	return out
}

// YearValuation is one fiscal year's tax liability and credit value.
// Currency amounts are rounded to cents.
type YearValuation struct {
	FY     int             `json:"fy"`
	Scope1 decimal.Decimal `json:"scope1_tco2e"`

	TaxRate       decimal.Decimal `json:"tax_rate"`
	Tax           decimal.Decimal `json:"tax"`
	TaxCumulative decimal.Decimal `json:"tax_cumulative"`

	SMC                   decimal.Decimal `json:"smc"`
	SMCCumulative         decimal.Decimal `json:"smc_cumulative"`
	CreditPrice           decimal.Decimal `json:"credit_price"`
	CreditValue           decimal.Decimal `json:"credit_value"`
	CreditValueCumulative decimal.Decimal `json:"credit_value_cumulative"`
}

// Value prices each year. Tax applies to Scope 1 from the tax start year
// and accumulates from there. Annual credit value is that year's SMC at that
// year's price; cumulative value marks the whole credit bank to that year's
// price.
func (m Market) Value(ctx context.Context, years []YearInput) []YearValuation {
	logger := logging.FromContext(ctx).With().
		Str("component", "finance").
		Str("operation", "Value").
		Logger()

	out := make([]YearValuation, len(years))
	taxCum := decimal.Zero
	for i, y := range years {
		scope1 := decimal.NewFromFloat(y.Scope1)
		smc := decimal.NewFromFloat(y.SMC)
		smcCum := decimal.NewFromFloat(y.SMCCumulative)

		rate := m.TaxRateFor(y.FY)
		tax := scope1.Mul(rate)
		taxCum = taxCum.Add(tax)

		price := m.CreditPriceFor(y.FY)
		out[i] = YearValuation{
			FY:                    y.FY,
			Scope1:                scope1,
			TaxRate:               rate,
			Tax:                   tax.Round(MoneyPlaces),
			TaxCumulative:         taxCum.Round(MoneyPlaces),
			SMC:                   smc,
			SMCCumulative:         smcCum,
			CreditPrice:           price.Round(MoneyPlaces),
			CreditValue:           smc.Mul(price).Round(MoneyPlaces),
			CreditValueCumulative: smcCum.Mul(price).Round(MoneyPlaces),
		}
	}

	if n := len(out); n > 0 {
		logger.Debug().
			Int("years", n).
			Str("tax_cumulative", out[n-1].TaxCumulative.StringFixed(MoneyPlaces)).
			Str("credit_value_cumulative", out[n-1].CreditValueCumulative.StringFixed(MoneyPlaces)).
			Str("currency", m.Currency).
			Msg("valuation complete")
	}
	return out
}
