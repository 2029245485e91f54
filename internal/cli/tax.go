package cli

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rshade/safeguard/internal/calendar"
	"github.com/rshade/safeguard/internal/finance"
	"github.com/rshade/safeguard/internal/logging"
	"github.com/rshade/safeguard/internal/projection"
	"github.com/rshade/safeguard/internal/units"
)

// taxHeader is the column order of the tax report.
//
//nolint:gochecknoglobals // fixed column order
var taxHeader = []string{
	"FY", "Scope1_tCO2e", "Tax_Rate", "Tax", "Tax_Cumulative",
	"SMC", "SMC_Cumulative", "Credit_Price", "Credit_Value", "Credit_Value_Cumulative",
}

// NewTaxCmd creates the tax command: the fiscal-year projection priced
// with the carbon tax and SMC credit market assumptions.
func NewTaxCmd() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Carbon tax liability and SMC credit value by fiscal year",
		Example: `  # Annual tax and credit value
  safeguard tax --ledger ledger.csv

  # As JSON for a spreadsheet import
  safeguard tax --ledger ledger.csv --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := *stateFrom(ctx).cfg
			in.apply(&cfg)

			format, err := ParseOutputFormat(cfg.Output.DefaultFormat)
			if err != nil {
				return err
			}
			market := cfg.FinanceMarket()
			if err = market.Validate(); err != nil {
				return err
			}

			store, rows, err := loadInputs(ctx, &cfg, in.ledger)
			if err != nil {
				return err
			}
			b, err := projection.NewBuilder(store, cfg.ProjectionOptions())
			if err != nil {
				return err
			}
			p, err := b.Build(ctx, rows)
			if err != nil {
				return err
			}

			vals := market.Value(ctx, finance.FromAnnual(p.Years))
			rep := taxReport(vals, format, cfg.Output.Precision)
			rep.Title = "Carbon tax and credit value (" + market.Currency + ")"
			rep.Meta = map[string]any{
				"currency":        market.Currency,
				"credit_start_fy": market.CreditStartFY,
				"tax_start_fy":    market.TaxStartFY,
			}

			return Render(cmd.OutOrStdout(), cmd.ErrOrStderr(), format, rep,
				logging.DiagnosticsFromContext(ctx).Items())
		},
	}

	in.register(cmd)
	return cmd
}

func taxReport(vals []finance.YearValuation, format OutputFormat, precision int) Report {
	money := func(d decimal.Decimal) string {
		if format == OutputTable {
			return units.FormatFloat(d.InexactFloat64(), finance.MoneyPlaces)
		}
		return d.StringFixed(finance.MoneyPlaces)
	}
	qty := func(d decimal.Decimal) string {
		if format == OutputTable {
			return units.FormatFloat(d.InexactFloat64(), precision)
		}
		return d.StringFixed(int32(precision)) //nolint:gosec // precision is validated to [0,10]
	}

	rep := Report{Header: taxHeader}
	for _, v := range vals {
		label := calendar.FY.Label(v.FY)
		if format != OutputTable {
			label = strconv.Itoa(v.FY)
		}
		rep.Rows = append(rep.Rows, []string{
			label, qty(v.Scope1), money(v.TaxRate), money(v.Tax), money(v.TaxCumulative),
			qty(v.SMC), qty(v.SMCCumulative), money(v.CreditPrice), money(v.CreditValue),
			money(v.CreditValueCumulative),
		})
		rep.Records = append(rep.Records, v)
	}
	return rep
}
