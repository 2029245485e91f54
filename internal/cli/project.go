package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/safeguard/internal/calendar"
	"github.com/rshade/safeguard/internal/equivalents"
	"github.com/rshade/safeguard/internal/logging"
	"github.com/rshade/safeguard/internal/projection"
	"github.com/rshade/safeguard/internal/safeguard"
	"github.com/rshade/safeguard/internal/units"
)

// NewProjectCmd creates the project command: actuals plus budget fill run
// through the baseline and credit engine.
func NewProjectCmd() *cobra.Command {
	var (
		in          inputFlags
		annual      bool
		yearType    string
		phase2Rate  float64
		showSummary bool
	)

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project emissions, baselines and SMC credits",
		Long: `Builds the monthly projection: actual ledger rows, budget rows for the months
with no actuals, facility-wide monthly totals and the Safeguard baseline and
credit columns. Use --annual to roll the months up by fiscal or calendar year;
the year type comes from output.year_type unless --year-type is given.`,
		Example: `  # Monthly table
  safeguard project --ledger ledger.csv

  # Fiscal-year roll-up as CSV
  safeguard project --ledger ledger.csv --annual --output csv

  # Calendar-year roll-up
  safeguard project --ledger ledger.csv --annual --year-type CY

  # Faster phase 2 decline
  safeguard project --ledger ledger.csv --decline-rate-phase2 0.04`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			state := stateFrom(ctx)
			cfg := *state.cfg
			in.apply(&cfg)

			format, err := ParseOutputFormat(cfg.Output.DefaultFormat)
			if err != nil {
				return err
			}
			opts := cfg.ProjectionOptions()
			if cmd.Flags().Changed("decline-rate-phase2") {
				opts.Params.Decline.Phase2Rate = phase2Rate
			}

			store, rows, err := loadInputs(ctx, &cfg, in.ledger)
			if err != nil {
				return err
			}
			b, err := projection.NewBuilder(store, opts)
			if err != nil {
				return err
			}
			p, err := b.Build(ctx, rows)
			if err != nil {
				return err
			}

			numFmt := numberFormatter(format, cfg.Output.Precision)
			var rep Report
			if cmd.Flags().Changed("year-type") {
				cfg.Output.YearType = yearType
			}
			if annual {
				yt, ytErr := calendar.ParseYearType(cfg.Output.YearType)
				if ytErr != nil {
					return &ExitError{Code: ExitConfig, Err: ytErr}
				}
				at, aggErr := p.Annual(yt, nil)
				if aggErr != nil {
					return aggErr
				}
				rep = tableReport("Year", at.Labels, at.Table, numFmt)
			} else {
				t, tErr := p.Table()
				if tErr != nil {
					return tErr
				}
				rep = tableReport("Month", monthLabels(t.Dates), t, numFmt)
				rep.Records = make([]any, len(p.Months))
				for i := range p.Months {
					rep.Records[i] = p.Months[i]
				}
			}
			rep.Meta = projectionMeta(p)
			if showSummary {
				s := projectionSummary(cfg.Facility.Name, p)
				rep.Summary = &s
			}

			logger.Debug().Ctx(ctx).
				Int("months", len(p.Months)).
				Int("years", len(p.Years)).
				Msg("projection rendered")

			return Render(cmd.OutOrStdout(), cmd.ErrOrStderr(), format, rep,
				logging.DiagnosticsFromContext(ctx).Items())
		},
	}

	in.register(cmd)
	cmd.Flags().BoolVar(&annual, "annual", false, "roll up by year instead of monthly rows")
	cmd.Flags().StringVar(&yearType, "year-type", "", "FY or CY for --annual (default output.year_type)")
	cmd.Flags().Float64Var(&phase2Rate, "decline-rate-phase2", safeguard.DefaultPhase2Rate,
		"annual baseline decline rate from the year after phase 1 ends")
	cmd.Flags().BoolVar(&showSummary, "summary", true, "show the compliance summary above table output")

	return cmd
}

// projectionMeta is the JSON header of a projection.
func projectionMeta(p *projection.Projection) map[string]any {
	meta := map[string]any{
		"dataset":     p.DataSet,
		"actual_rows": p.Actuals,
		"fill_rows":   p.FillRows,
		"years":       p.Years,
		"exit_fy":     p.ExitFY,
	}
	if eq, err := equivalents.Calculate(totalScope1(p.Years)); err == nil && !eq.IsEmpty {
		meta["scope1_equivalents"] = eq
	}
	if !p.LastActual.IsZero() {
		meta["last_actual"] = p.LastActual.Format(time.DateOnly)
	}
	return meta
}

// projectionSummary condenses a projection to its compliance headline.
func projectionSummary(facility string, p *projection.Projection) Summary {
	title := "Safeguard projection"
	if facility != "" {
		title += ": " + facility
	}
	s := Summary{Title: title}
	add := func(label, value string, alert bool) {
		s.Lines = append(s.Lines, SummaryLine{Label: label, Value: value, Alert: alert})
	}

	add("Dataset", p.DataSet, false)
	if !p.LastActual.IsZero() {
		add("Last actual", p.LastActual.Format("Jan 2006"), false)
	}
	add("Ledger rows", fmt.Sprintf("%d actual, %d budget fill", p.Actuals, p.FillRows), false)
	if len(p.Years) == 0 {
		return s
	}

	first, last := p.Years[0], p.Years[len(p.Years)-1]
	add("Horizon", fmt.Sprintf("%s to %s", calendar.FY.Label(first.FY), calendar.FY.Label(last.FY)), false)

	covered := 0
	for _, y := range p.Years {
		if y.InSafeguard {
			covered++
		}
	}
	add("Covered years", fmt.Sprintf("%d of %d", covered, len(p.Years)), false)
	scope1 := totalScope1(p.Years)
	add("Scope 1 (tCO2-e)", units.FormatFloat(scope1, 0), false)
	if eq, err := equivalents.Calculate(scope1); err == nil && !eq.IsEmpty {
		add("Equivalent to", equivalentsLine(eq), false)
	}
	add("Closing SMC balance", units.FormatFloat(last.SMCCumulative, 0), last.SMCCumulative < 0)

	exit := "none"
	if p.ExitFY != 0 {
		exit = calendar.FY.Label(p.ExitFY)
	}
	add("Exit year", exit, false)
	return s
}

func totalScope1(years []safeguard.AnnualRecord) float64 {
	total := 0.0
	for _, y := range years {
		total += y.Scope1
	}
	return total
}

// equivalentsLine renders the car and home comparisons of eq on one line.
func equivalentsLine(eq equivalents.Output) string {
	cars, _ := eq.Find(equivalents.KindCarYears)
	homes, _ := eq.Find(equivalents.KindHomeYears)
	return fmt.Sprintf("%s car-years, %s home-years", cars.FormattedValue, homes.FormattedValue)
}
