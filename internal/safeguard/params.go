package safeguard

import (
	"errors"
	"fmt"
	"time"

	"github.com/rshade/safeguard/internal/calendar"
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("invalid safeguard parameters")

// Intensity is an emissions intensity pair for the two production
// variables: tCO2-e per tonne of ROM ore and tCO2-e per MWh of site
// generated electricity.
type Intensity struct {
	ROM         float64 `yaml:"rom"         json:"rom"`
	Electricity float64 `yaml:"electricity" json:"electricity"`
}

// Benchmark selects which industry intensity the hybrid blend moves toward.
type Benchmark string

// Benchmarks.
const (
	BenchmarkDefault      Benchmark = "default"
	BenchmarkBestPractice Benchmark = "best_practice"
)

// OptIn holds the below-threshold opt-in eligibility rule: from EarliestFY,
// a facility covered in at least MinCovered of the previous Lookback fiscal
// years may keep earning credits.
type OptIn struct {
	EarliestFY int `yaml:"earliest_fy" json:"earliest_fy"`
	Lookback   int `yaml:"lookback"    json:"lookback"`
	MinCovered int `yaml:"min_covered" json:"min_covered"`
}

// PhaseDates bound the operational phase labels. A zero GridConnection
// means the site never connects to the grid.
type PhaseDates struct {
	Start             time.Time
	EndMining         time.Time
	EndProcessing     time.Time
	EndRehabilitation time.Time
	GridConnection    time.Time
}

// Operational phase labels.
const (
	LabelMining         = "Mining"
	LabelMiningGrid     = "Mining (Grid)"
	LabelProcessing     = "Processing"
	LabelRehabilitation = "Rehabilitation"
	LabelClosed         = "Closed"
)

// Label returns the operational phase label for date. Boundaries are
// inclusive end dates.
func (d PhaseDates) Label(date time.Time) string {
	switch {
	case !date.After(d.EndMining):
		if !d.GridConnection.IsZero() && !date.Before(d.GridConnection) {
			return LabelMiningGrid
		}
		return LabelMining
	case !date.After(d.EndProcessing):
		return LabelProcessing
	case !date.After(d.EndRehabilitation):
		return LabelRehabilitation
	default:
		return LabelClosed
	}
}

// Params is the full parameter set of the baseline and credit engine.
type Params struct {
	FSEI           Intensity
	DefaultEI      Intensity
	BestPracticeEI Intensity
	Benchmark      Benchmark

	Decline    DeclineSchedule
	Transition TransitionSchedule

	// Threshold is the annual Scope 1 coverage threshold (tCO2-e).
	Threshold float64
	// MinimumBaseline is the annual baseline floor (tCO2-e).
	MinimumBaseline float64

	SafeguardStart time.Time
	CreditStart    time.Time

	OptIn  OptIn
	Phases PhaseDates
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DefaultParams returns the parameters of the modelled facility.
func DefaultParams() Params {
	return Params{
		FSEI:           Intensity{ROM: 0.0177, Electricity: 0.9081},
		DefaultEI:      Intensity{ROM: 0.00859, Electricity: 0.539},
		BestPracticeEI: Intensity{ROM: 0.00247, Electricity: 0.236},
		Benchmark:      BenchmarkDefault,

		Decline:    DefaultDecline(),
		Transition: DefaultTransition(),

		Threshold:       100000,
		MinimumBaseline: 100000,

		SafeguardStart: date(2023, time.July, 1),
		CreditStart:    date(2023, time.July, 1),

		OptIn: OptIn{EarliestFY: 2029, Lookback: 5, MinCovered: 3},
		Phases: PhaseDates{
			Start:             date(2023, time.July, 1),
			EndMining:         date(2037, time.March, 31),
			EndProcessing:     date(2039, time.December, 31),
			EndRehabilitation: date(2044, time.December, 31),
			GridConnection:    date(2027, time.July, 1),
		},
	}
}

// BenchmarkEI returns the industry intensity selected by Benchmark.
func (p Params) BenchmarkEI() Intensity {
	if p.Benchmark == BenchmarkBestPractice {
		return p.BestPracticeEI
	}
	return p.DefaultEI
}

// SafeguardStartFY is the fiscal year containing SafeguardStart.
func (p Params) SafeguardStartFY() int {
	return calendar.FiscalYear(p.SafeguardStart)
}

// Validate checks ranges and orderings.
func (p Params) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidParams}, args...)...))
	}

	for name, v := range map[string]float64{
		"fsei.rom":                     p.FSEI.ROM,
		"fsei.electricity":             p.FSEI.Electricity,
		"default_ei.rom":               p.DefaultEI.ROM,
		"default_ei.electricity":       p.DefaultEI.Electricity,
		"best_practice_ei.rom":         p.BestPracticeEI.ROM,
		"best_practice_ei.electricity": p.BestPracticeEI.Electricity,
	} {
		if v <= 0 {
			add("%s must be positive, got %g", name, v)
		}
	}
	switch p.Benchmark {
	case BenchmarkDefault, BenchmarkBestPractice, "":
	default:
		add("unknown benchmark %q", p.Benchmark)
	}

	if p.Decline.Phase1Rate < 0 || p.Decline.Phase2Rate < 0 {
		add("decline rates must not be negative")
	}
	if p.Decline.Phase1End < p.Decline.Phase1Start || p.Decline.Phase2End < p.Decline.Phase1End {
		add("decline phase years out of order: %d-%d-%d",
			p.Decline.Phase1Start, p.Decline.Phase1End, p.Decline.Phase2End)
	}

	for i, step := range p.Transition {
		if step.H < 0 || step.H > 1 {
			add("transition h for FY%d is %g, want [0,1]", step.FY, step.H)
		}
		if i > 0 {
			prev := p.Transition[i-1]
			if step.FY <= prev.FY {
				add("transition schedule not sorted at FY%d", step.FY)
			}
			if step.H < prev.H {
				add("transition schedule decreases at FY%d", step.FY)
			}
		}
	}

	if p.Threshold < 0 {
		add("threshold must not be negative")
	}
	if p.MinimumBaseline < 0 {
		add("minimum baseline must not be negative")
	}
	if p.OptIn.Lookback < p.OptIn.MinCovered {
		add("opt-in lookback %d is shorter than min covered %d", p.OptIn.Lookback, p.OptIn.MinCovered)
	}
	if p.OptIn.MinCovered < 0 {
		add("opt-in min covered must not be negative")
	}

	ph := p.Phases
	if ph.EndMining.After(ph.EndProcessing) || ph.EndProcessing.After(ph.EndRehabilitation) {
		add("phase end dates out of order")
	}
	if !ph.Start.IsZero() && ph.Start.After(ph.EndMining) {
		add("phase start is after end of mining")
	}

	return errors.Join(errs...)
}
