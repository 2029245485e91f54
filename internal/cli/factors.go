package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/safeguard/internal/factors"
	"github.com/rshade/safeguard/internal/logging"
	"github.com/rshade/safeguard/internal/units"
)

// factorPrecision is the number of decimals shown for factors.
const factorPrecision = 4

// NewFactorsResolveCmd creates the factors resolve command.
func NewFactorsResolveCmd() *cobra.Command {
	var (
		path, fuel, state, output string
		year, scope               int
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Look up one emission factor",
		Long: `Resolves a fuel name prefix to the published factor for a year and scope.
Years outside the table use the nearest published year and report it as a warning.
Pass --state for grid electricity.`,
		Example: `  safeguard factors resolve --year 2025 --fuel "Diesel oil" --scope 1
  safeguard factors resolve --year 2025 --fuel "Grid electricity" --scope 2 --state QLD`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := *stateFrom(ctx).cfg
			if path != "" {
				cfg.Factors.Path = path
			}
			if output != "" {
				cfg.Output.DefaultFormat = output
			}
			format, err := ParseOutputFormat(cfg.Output.DefaultFormat)
			if err != nil {
				return err
			}

			store, err := openStore(ctx, &cfg)
			if err != nil {
				return err
			}
			rec, err := store.Resolve(ctx, year, fuel, scope, state)
			if err != nil {
				return err
			}

			rep := Report{
				Header: []string{"Year", "Fuel_Name", "Scope", "Factor", "Unit", "Energy_Content", "Energy_Unit", "State", "Source"},
				Rows: [][]string{{
					strconv.Itoa(rec.Year), rec.FuelName, strconv.Itoa(rec.Scope),
					units.FormatFloat(rec.Factor, factorPrecision), rec.FactorUnit,
					units.FormatFloat(rec.EnergyContent, factorPrecision), rec.EnergyUnit,
					rec.State, rec.SourceTable,
				}},
				Records: []any{rec},
				Meta:    map[string]any{"requested_year": year},
			}
			return Render(cmd.OutOrStdout(), cmd.ErrOrStderr(), format, rep,
				logging.DiagnosticsFromContext(ctx).Items())
		},
	}

	cmd.Flags().StringVar(&path, "factors", "", "emission factor table (default factors.path)")
	cmd.Flags().IntVar(&year, "year", 0, "NGA publication year")
	cmd.Flags().StringVar(&fuel, "fuel", "", "fuel name or prefix")
	cmd.Flags().IntVar(&scope, "scope", factors.Scope1, "scope: 1, 2 or 3")
	cmd.Flags().StringVar(&state, "state", "", "state, for grid electricity")
	cmd.Flags().StringVar(&output, "output", "", "output format")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("fuel")

	return cmd
}

// NewFactorsSummaryCmd creates the factors summary command.
func NewFactorsSummaryCmd() *cobra.Command {
	var (
		path, state, output string
		year                int
	)

	cmd := &cobra.Command{
		Use:     "summary",
		Short:   "Show the diesel and electricity factors of a year",
		Example: `  safeguard factors summary --year 2025 --state QLD`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := *stateFrom(ctx).cfg
			if path != "" {
				cfg.Factors.Path = path
			}
			if output != "" {
				cfg.Output.DefaultFormat = output
			}
			if state == "" {
				state = cfg.Facility.State
			}
			format, err := ParseOutputFormat(cfg.Output.DefaultFormat)
			if err != nil {
				return err
			}

			store, err := openStore(ctx, &cfg)
			if err != nil {
				return err
			}
			sum, err := store.YearSummary(ctx, year, state)
			if err != nil {
				return err
			}

			f := func(v float64) string { return units.FormatFloat(v, factorPrecision) }
			rep := Report{
				Title:   "NGA " + strconv.Itoa(sum.Year) + " factors",
				Header:  []string{"Factor", "Value", "Unit"},
				Records: []any{sum},
			}
			rep.Rows = [][]string{
				{"Diesel energy content", f(sum.Diesel.EnergyContent), "GJ/kL"},
				{"Diesel Scope 1 stationary", f(sum.Diesel.Scope1Stationary), "kg CO2-e/kL"},
				{"Diesel Scope 1 transport", f(sum.Diesel.Scope1Transport), "kg CO2-e/kL"},
				{"Diesel Scope 3", f(sum.Diesel.Scope3), "kg CO2-e/kL"},
			}
			for _, st := range sum.States() {
				ef := sum.Electricity[st]
				rep.Rows = append(rep.Rows,
					[]string{st + " electricity Scope 2", f(ef.Scope2), "kg CO2-e/kWh"},
					[]string{st + " electricity Scope 3", f(ef.Scope3), "kg CO2-e/kWh"},
				)
			}
			return Render(cmd.OutOrStdout(), cmd.ErrOrStderr(), format, rep,
				logging.DiagnosticsFromContext(ctx).Items())
		},
	}

	cmd.Flags().StringVar(&path, "factors", "", "emission factor table (default factors.path)")
	cmd.Flags().IntVar(&year, "year", 0, "NGA publication year")
	cmd.Flags().StringVar(&state, "state", "", "state (default facility.state)")
	cmd.Flags().StringVar(&output, "output", "", "output format")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}
