package safeguard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rshade/safeguard/internal/calendar"
	"github.com/rshade/safeguard/internal/logging"
	"github.com/rshade/safeguard/internal/units"
)

// ErrUnsortedMonths is returned when the monthly series is not strictly
// ascending by date.
var ErrUnsortedMonths = errors.New("months are not strictly ascending")

// Month is one calendar month of facility-wide production and emissions.
type Month struct {
	Date               time.Time `json:"date"`
	ROM                float64   `json:"rom_t"`
	SiteElectricityKWh float64   `json:"site_electricity_kwh"`
	GridElectricityKWh float64   `json:"grid_electricity_kwh"`
	Scope1             float64   `json:"scope1_tco2e"`
	Scope2             float64   `json:"scope2_tco2e"`
	Scope3             float64   `json:"scope3_tco2e"`
}

// MonthResult is a Month with its baseline and credit columns.
type MonthResult struct {
	Month

	FY                int     `json:"fy"`
	OperationalPhase  string  `json:"operational_phase"`
	Baseline          float64 `json:"baseline"`
	BaselineUnfloored float64 `json:"baseline_unfloored"`
	EmissionIntensity float64 `json:"emission_intensity"`
	BaselineIntensity float64 `json:"baseline_intensity"`
	IntensityExcess   float64 `json:"intensity_excess"`
	InSafeguard       bool    `json:"in_safeguard"`
	Phase             Phase   `json:"smc_phase"`
	SMCMonthly        float64 `json:"smc_monthly"`
	SMCCumulative     float64 `json:"smc_cumulative"`
	ExitFY            int     `json:"exit_fy,omitempty"`
}

// AnnualRecord is one fiscal year's regulatory state.
type AnnualRecord struct {
	Baseline

	Scope1        float64 `json:"scope1_tco2e"`
	Months        int     `json:"months"`
	InSafeguard   bool    `json:"in_safeguard"`
	Phase         Phase   `json:"smc_phase"`
	SMC           float64 `json:"smc"`
	SMCCumulative float64 `json:"smc_cumulative"`
}

// Result is the output of one engine run. Months and Years are owned by the
// caller.
type Result struct {
	Months []MonthResult  `json:"months"`
	Years  []AnnualRecord `json:"years"`
	ExitFY int            `json:"exit_fy,omitempty"`
}

// Engine runs the baseline and credit calculation for a parameter set.
// It holds no state between runs.
type Engine struct {
	params Params
}

// NewEngine validates p and returns an engine.
func NewEngine(p Params) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Engine{params: p}, nil
}

// Params returns the engine's parameters.
func (e *Engine) Params() Params {
	return e.params
}

// Calculate appends baseline, phase and credit columns to a monthly series.
// Months before the safeguard start date are dropped. Baselines are computed
// per fiscal year and distributed back to its months by production weight.
func (e *Engine) Calculate(ctx context.Context, months []Month) (*Result, error) {
	logger := logging.FromContext(ctx).With().
		Str("component", "safeguard").
		Str("operation", "Calculate").
		Logger()

	for i := 1; i < len(months); i++ {
		if !months[i].Date.After(months[i-1].Date) {
			return nil, fmt.Errorf("%w: %s follows %s", ErrUnsortedMonths,
				months[i].Date.Format(time.DateOnly), months[i-1].Date.Format(time.DateOnly))
		}
	}

	p := e.params
	res := &Result{}
	for _, m := range months {
		if m.Date.Before(p.SafeguardStart) {
			continue
		}
		res.Months = append(res.Months, MonthResult{
			Month:            m,
			FY:               calendar.FiscalYear(m.Date),
			OperationalPhase: p.Phases.Label(m.Date),
		})
	}
	if len(res.Months) == 0 {
		logger.Debug().Int("input_months", len(months)).Msg("no months on or after safeguard start")
		return res, nil
	}

	groups := groupByFY(res.Months)
	totals := make([]YearEmissions, len(groups))
	for gi, g := range groups {
		rows := res.Months[g.from:g.to]

		var rom, siteKWh, scope1 float64
		for _, r := range rows {
			rom += r.ROM
			siteKWh += r.SiteElectricityKWh
			scope1 += r.Scope1
		}
		b := p.AnnualBaseline(g.fy, rom, units.KWhToMWh(siteKWh))

		weights := make([]float64, len(rows))
		for i, r := range rows {
			weights[i] = b.HybridEI.Weight(r.ROM, r.SiteElectricityKWh)
		}
		floored := Distribute(b.Floored, weights)
		unfloored := Distribute(b.Unfloored, weights)
		if b.HybridEI.Weight(rom, siteKWh) <= 0 {
			logging.Report(ctx, logging.Diagnostic{
				Severity: logging.SeverityInfo,
				Code:     logging.CodeEvenDistribution,
				Message:  "no weighted production in fiscal year, baseline spread evenly across months",
				Fields:   map[string]string{"fy": strconv.Itoa(g.fy)},
			})
		}

		for i := range rows {
			r := &rows[i]
			r.Baseline = floored[i]
			r.BaselineUnfloored = unfloored[i]
			if r.ROM > 0 {
				r.EmissionIntensity = r.Scope1 / r.ROM
				r.BaselineIntensity = r.Baseline / r.ROM
			}
			r.IntensityExcess = r.EmissionIntensity - r.BaselineIntensity
			r.InSafeguard = p.Covered(scope1)
		}

		totals[gi] = YearEmissions{FY: g.fy, Scope1: scope1}
		res.Years = append(res.Years, AnnualRecord{
			Baseline:    b,
			Scope1:      scope1,
			Months:      len(rows),
			InSafeguard: p.Covered(scope1),
		})
	}

	phases, err := p.ClassifyPhases(totals)
	if err != nil {
		return nil, err
	}
	res.ExitFY = p.ExitFY(totals)

	cumulative := 0.0
	for gi, g := range groups {
		ph := phases[gi]
		year := &res.Years[gi]
		year.Phase = ph
		for i := g.from; i < g.to; i++ {
			r := &res.Months[i]
			r.Phase = ph
			r.ExitFY = res.ExitFY
			if !r.Date.Before(p.CreditStart) {
				r.SMCMonthly = ph.SMC(r.BaselineUnfloored - r.Scope1)
			}
			cumulative += r.SMCMonthly
			r.SMCCumulative = cumulative
			year.SMC += r.SMCMonthly
		}
		year.SMCCumulative = cumulative
	}

	logger.Debug().
		Int("months", len(res.Months)).
		Int("fiscal_years", len(res.Years)).
		Int("exit_fy", res.ExitFY).
		Float64("smc_cumulative", cumulative).
		Msg("safeguard metrics calculated")
	return res, nil
}

type fyGroup struct {
	fy       int
	from, to int
}

// groupByFY splits date-sorted months into contiguous fiscal-year runs.
func groupByFY(rows []MonthResult) []fyGroup {
	var groups []fyGroup
	for i, r := range rows {
		if len(groups) == 0 || groups[len(groups)-1].fy != r.FY {
			groups = append(groups, fyGroup{fy: r.FY, from: i, to: i + 1})
			continue
		}
		groups[len(groups)-1].to = i + 1
	}
	return groups
}
