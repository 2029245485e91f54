package safeguard

import (
	"errors"
	"fmt"

	"github.com/rshade/safeguard/internal/calendar"
)

// Phase is a fiscal year's compliance phase.
type Phase string

// Compliance phases.
const (
	PhasePreSafeguard Phase = "Pre-Safeguard"
	PhaseSafeguard    Phase = "Safeguard"
	PhaseGap          Phase = "Gap"
	PhaseOptIn        Phase = "Opt-In"
	PhaseExited       Phase = "Exited"
)

// ErrUnsortedYears is returned when annual totals are not strictly
// ascending by fiscal year.
var ErrUnsortedYears = errors.New("fiscal years are not strictly ascending")

// YearEmissions is one fiscal year's Scope 1 total.
type YearEmissions struct {
	FY     int
	Scope1 float64
}

// Covered reports whether scope1 meets the coverage threshold.
func (p Params) Covered(scope1 float64) bool {
	return scope1 >= p.Threshold
}

// ClassifyPhases folds over fiscal years in order and assigns each a phase.
// A year is classified from its own Scope 1 total and the coverage of the
// years before it:
//
//   - Pre-Safeguard: the year starts before the credit start date
//   - Safeguard: Scope 1 at or above the threshold
//   - Opt-In: from the earliest opt-in year, when at least MinCovered of the
//     previous Lookback years were covered
//   - Exited: from the earliest opt-in year, covered at some point since the
//     safeguard start year but failing the lookback
//   - Gap: anything else
//
// Re-entry above the threshold always classifies as Safeguard.
func (p Params) ClassifyPhases(years []YearEmissions) ([]Phase, error) {
	if err := checkAscending(years); err != nil {
		return nil, err
	}

	covered := make(map[int]bool, len(years))
	for _, y := range years {
		if p.Covered(y.Scope1) {
			covered[y.FY] = true
		}
	}
	startFY := p.SafeguardStartFY()

	phases := make([]Phase, len(years))
	for i, y := range years {
		fyStart := calendar.FYStart(y.FY)
		switch {
		case fyStart.Before(p.CreditStart):
			phases[i] = PhasePreSafeguard
		case p.Covered(y.Scope1):
			phases[i] = PhaseSafeguard
		default:
			lookback := 0
			for fy := y.FY - p.OptIn.Lookback; fy < y.FY; fy++ {
				if covered[fy] {
					lookback++
				}
			}
			eligibleYear := y.FY >= p.OptIn.EarliestFY
			everCovered := false
			for fy := startFY; fy < y.FY; fy++ {
				if covered[fy] {
					everCovered = true
					break
				}
			}
			switch {
			case eligibleYear && lookback >= p.OptIn.MinCovered:
				phases[i] = PhaseOptIn
			case eligibleYear && everCovered:
				phases[i] = PhaseExited
			default:
				phases[i] = PhaseGap
			}
		}
	}
	return phases, nil
}

// ExitFY scans fiscal years from the safeguard start year. The first year
// below the threshold becomes the exit year; any later covered year clears
// it. Zero means no exit.
func (p Params) ExitFY(years []YearEmissions) int {
	exit := 0
	startFY := p.SafeguardStartFY()
	for _, y := range years {
		if y.FY < startFY {
			continue
		}
		if p.Covered(y.Scope1) {
			exit = 0
			continue
		}
		if exit == 0 {
			exit = y.FY
		}
	}
	return exit
}

// SMC applies a phase's credit rule to a raw (baseline - emissions) value.
func (ph Phase) SMC(raw float64) float64 {
	switch ph {
	case PhaseGap, PhaseExited:
		return 0
	case PhaseOptIn:
		if raw < 0 {
			return 0
		}
		return raw
	default:
		return raw
	}
}

func checkAscending(years []YearEmissions) error {
	for i := 1; i < len(years); i++ {
		if years[i].FY <= years[i-1].FY {
			return fmt.Errorf("%w: FY%d follows FY%d", ErrUnsortedYears, years[i].FY, years[i-1].FY)
		}
	}
	return nil
}
