// Package finance values annual Safeguard positions: carbon tax on Scope 1
// emissions and the market value of SMC credits, in decimal currency.
package finance

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidMarket is returned by Market.Validate.
var ErrInvalidMarket = errors.New("invalid market parameters")

// MoneyPlaces is the rounding applied to currency amounts.
const MoneyPlaces = 2

// Market holds carbon price and tax assumptions. Rates are fractions
// (0.03 is 3% per year).
type Market struct {
	Currency string

	CreditPrice      decimal.Decimal
	CreditEscalation decimal.Decimal
	CreditStartFY    int

	TaxRate       decimal.Decimal
	TaxEscalation decimal.Decimal
	TaxStartFY    int
}

// DefaultMarket returns the modelled market defaults: credits at $35
// escalating 3% from FY2024, tax at $15 escalating 2% from FY2030.
func DefaultMarket() Market {
	return Market{
		Currency:         "AUD",
		CreditPrice:      decimal.NewFromInt(35),
		CreditEscalation: decimal.RequireFromString("0.03"),
		CreditStartFY:    2024,
		TaxRate:          decimal.NewFromInt(15),
		TaxEscalation:    decimal.RequireFromString("0.02"),
		TaxStartFY:       2030,
	}
}

// Validate rejects negative prices and escalations below -100%.
func (m Market) Validate() error {
	minusOne := decimal.NewFromInt(-1)
	switch {
	case m.CreditPrice.IsNegative():
		return fmt.Errorf("%w: credit price %s is negative", ErrInvalidMarket, m.CreditPrice)
	case m.TaxRate.IsNegative():
		return fmt.Errorf("%w: tax rate %s is negative", ErrInvalidMarket, m.TaxRate)
	case m.CreditEscalation.LessThanOrEqual(minusOne):
		return fmt.Errorf("%w: credit escalation %s", ErrInvalidMarket, m.CreditEscalation)
	case m.TaxEscalation.LessThanOrEqual(minusOne):
		return fmt.Errorf("%w: tax escalation %s", ErrInvalidMarket, m.TaxEscalation)
	}
	return nil
}

// Escalate returns base x (1+rate)^years. Negative years return base.
func Escalate(base, rate decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		return base
	}
	factor := decimal.NewFromInt(1).Add(rate).Pow(decimal.NewFromInt(int64(years)))
	return base.Mul(factor)
}

// TaxRateFor returns the tax rate per tCO2-e in fy, zero before the tax
// start year.
func (m Market) TaxRateFor(fy int) decimal.Decimal {
	if fy < m.TaxStartFY {
		return decimal.Zero
	}
	return Escalate(m.TaxRate, m.TaxEscalation, fy-m.TaxStartFY)
}

// CreditPriceFor returns the SMC price in fy, zero before the credit start
// year.
func (m Market) CreditPriceFor(fy int) decimal.Decimal {
	if fy < m.CreditStartFY {
		return decimal.Zero
	}
	return Escalate(m.CreditPrice, m.CreditEscalation, fy-m.CreditStartFY)
}
