package config

import (
	"github.com/shopspring/decimal"

	"github.com/rshade/safeguard/internal/calendar"
	"github.com/rshade/safeguard/internal/finance"
)

// MarketConfig holds carbon price and tax assumptions. Escalations are
// annual fractions.
type MarketConfig struct {
	Currency string `yaml:"currency" json:"currency"`

	// CreditPrice is the SMC price in the credit start year.
	CreditPrice      float64 `yaml:"credit_price"      json:"credit_price"`
	CreditEscalation float64 `yaml:"credit_escalation" json:"credit_escalation"`

	// TaxStart is the first day of the first taxed fiscal year.
	TaxStart      Date    `yaml:"tax_start"      json:"tax_start"`
	TaxRate       float64 `yaml:"tax_rate"       json:"tax_rate"`
	TaxEscalation float64 `yaml:"tax_escalation" json:"tax_escalation"`
}

// FinanceMarket converts the market section. Credit prices start in the
// fiscal year of the safeguard credit start date.
func (c *Config) FinanceMarket() finance.Market {
	m := c.Market
	return finance.Market{
		Currency:         m.Currency,
		CreditPrice:      decimal.NewFromFloat(m.CreditPrice),
		CreditEscalation: decimal.NewFromFloat(m.CreditEscalation),
		CreditStartFY:    calendar.FiscalYear(c.Safeguard.CreditStart.Time),
		TaxRate:          decimal.NewFromFloat(m.TaxRate),
		TaxEscalation:    decimal.NewFromFloat(m.TaxEscalation),
		TaxStartFY:       calendar.FiscalYear(m.TaxStart.Time),
	}
}
