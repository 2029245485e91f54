package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/safeguard/internal/calendar"
	"github.com/rshade/safeguard/internal/config"
	"github.com/rshade/safeguard/internal/logging"
	"github.com/rshade/safeguard/internal/projection"
	"github.com/rshade/safeguard/internal/units"
)

// scenarioHeader is the column order of the scenario comparison.
//
//nolint:gochecknoglobals // fixed column order
var scenarioHeader = []string{
	"Scenario", "Years", "Covered_Years", "Scope1_tCO2e", "Baseline", "SMC_Cumulative", "Exit_FY", "Warnings",
}

// scenarioRecord is one row of the scenario comparison.
type scenarioRecord struct {
	Name          string               `json:"name"`
	Years         int                  `json:"years"`
	CoveredYears  int                  `json:"covered_years"`
	Scope1        float64              `json:"scope1_tco2e"`
	Baseline      float64              `json:"baseline"`
	SMCCumulative float64              `json:"smc_cumulative"`
	ExitFY        int                  `json:"exit_fy,omitempty"`
	Diagnostics   []logging.Diagnostic `json:"diagnostics,omitempty"`
}

// NewScenariosCmd creates the scenarios command. Each --scenario file is
// overlaid section by section on the loaded configuration and built
// concurrently over the same ledger.
func NewScenariosCmd() *cobra.Command {
	var (
		in    inputFlags
		files []string
	)

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Compare projections under configuration overlays",
		Long: `Runs one projection per --scenario overlay file. Sections present in an overlay
replace the same section of the base configuration, including the facility's
transport cost centres and the factor aliases applied when the ledger is
aggregated. The base configuration is always included as "base".`,
		Example: `  safeguard scenarios --ledger ledger.csv --scenario slow-decline.yaml --scenario best-practice.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			base := *stateFrom(ctx).cfg
			in.apply(&base)

			format, err := ParseOutputFormat(base.Output.DefaultFormat)
			if err != nil {
				return err
			}

			scenarios := []projection.Scenario{{Name: "base", Options: base.ProjectionOptions()}}
			for _, path := range files {
				sc, scErr := loadScenario(&base, path)
				if scErr != nil {
					return scErr
				}
				scenarios = append(scenarios, sc)
			}

			store, entries, err := loadEntries(ctx, &base, in.ledger)
			if err != nil {
				return err
			}
			results, err := projection.RunScenarios(ctx, entries, store, scenarios)
			if err != nil {
				return err
			}

			rep := scenarioReport(results, format, base.Output.Precision)
			rep.Title = "Scenario comparison"
			return Render(cmd.OutOrStdout(), cmd.ErrOrStderr(), format, rep,
				logging.DiagnosticsFromContext(ctx).Items())
		},
	}

	in.register(cmd)
	cmd.Flags().StringArrayVar(&files, "scenario", nil, "scenario overlay YAML file (repeatable)")
	return cmd
}

// loadScenario applies the overlay at path to a copy of base.
func loadScenario(base *config.Config, path string) (projection.Scenario, error) {
	cfg := *base
	if err := config.ShallowMergeYAML(&cfg, path); err != nil {
		return projection.Scenario{}, &ExitError{Code: ExitConfig, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return projection.Scenario{}, fmt.Errorf("scenario %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return projection.Scenario{Name: name, Options: cfg.ProjectionOptions()}, nil
}

func scenarioReport(results []projection.ScenarioResult, format OutputFormat, precision int) Report {
	num := numberFormatter(format, precision)
	rep := Report{Header: scenarioHeader}
	for _, r := range results {
		rec := scenarioRecord{Name: r.Name, Diagnostics: r.Diagnostics}
		p := r.Projection
		rec.Years = len(p.Years)
		rec.ExitFY = p.ExitFY
		for _, y := range p.Years {
			rec.Scope1 += y.Scope1
			rec.Baseline += y.Floored
			if y.InSafeguard {
				rec.CoveredYears++
			}
		}
		if n := len(p.Years); n > 0 {
			rec.SMCCumulative = p.Years[n-1].SMCCumulative
		}

		exit := "-"
		if rec.ExitFY != 0 {
			exit = calendar.FY.Label(rec.ExitFY)
		}
		rep.Rows = append(rep.Rows, []string{
			rec.Name,
			units.FormatNumber(int64(rec.Years)),
			units.FormatNumber(int64(rec.CoveredYears)),
			num(rec.Scope1),
			num(rec.Baseline),
			num(rec.SMCCumulative),
			exit,
			units.FormatNumber(int64(len(rec.Diagnostics))),
		})
		rep.Records = append(rep.Records, rec)
	}
	return rep
}
