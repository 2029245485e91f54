package safeguard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	above = 150000.0
	below = 50000.0
)

func series(start int, scope1 ...float64) []YearEmissions {
	out := make([]YearEmissions, len(scope1))
	for i, s := range scope1 {
		out[i] = YearEmissions{FY: start + i, Scope1: s}
	}
	return out
}

func TestClassifyPhases(t *testing.T) {
	S, G, O, E, P := PhaseSafeguard, PhaseGap, PhaseOptIn, PhaseExited, PhasePreSafeguard

	tests := []struct {
		name  string
		years []YearEmissions
		want  []Phase
	}{
		{
			name:  "before credit start",
			years: series(2022, above, below, above),
			want:  []Phase{P, P, S},
		},
		{
			name:  "early dip is a gap and re-entry is safeguard",
			years: series(2024, above, below, above),
			want:  []Phase{S, G, S},
		},
		{
			name:  "dip after long coverage opts in then re-enters",
			years: series(2024, above, above, above, above, above, below, above),
			want:  []Phase{S, S, S, S, S, O, S},
		},
		{
			name:  "opt-in lapses into exited",
			years: series(2024, above, above, above, above, above, below, below, below, below, below),
			want:  []Phase{S, S, S, S, S, O, O, O, E, E},
		},
		{
			name:  "short coverage exits once eligible",
			years: series(2024, above, above, below, below, below, below, below),
			want:  []Phase{S, S, G, G, G, E, E},
		},
		{
			name:  "never covered",
			years: series(2024, below, below, below, below, below, below, below),
			want:  []Phase{G, G, G, G, G, G, G},
		},
		{
			name:  "threshold is inclusive",
			years: series(2024, 100000, 99999.99),
			want:  []Phase{S, G},
		},
	}
	p := DefaultParams()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ClassifyPhases(tt.years)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyPhases_ReentryNeverExited(t *testing.T) {
	p := DefaultParams()
	for dip := 2024; dip <= 2040; dip++ {
		var years []YearEmissions
		for fy := 2024; fy <= 2042; fy++ {
			s := above
			if fy == dip {
				s = below
			}
			years = append(years, YearEmissions{FY: fy, Scope1: s})
		}
		phases, err := p.ClassifyPhases(years)
		require.NoError(t, err)
		rise := dip - 2024 + 1
		assert.Equal(t, PhaseSafeguard, phases[rise], "rise after dip in FY%d", dip)
		assert.NotEqual(t, PhaseSafeguard, phases[rise-1])
	}
}

func TestClassifyPhases_Unsorted(t *testing.T) {
	_, err := DefaultParams().ClassifyPhases([]YearEmissions{{FY: 2025}, {FY: 2024}})
	require.ErrorIs(t, err, ErrUnsortedYears)

	_, err = DefaultParams().ClassifyPhases([]YearEmissions{{FY: 2025}, {FY: 2025}})
	require.ErrorIs(t, err, ErrUnsortedYears)
}

func TestParams_ExitFY(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name  string
		years []YearEmissions
		want  int
	}{
		{name: "always covered", years: series(2024, above, above), want: 0},
		{name: "single exit", years: series(2024, above, below, below), want: 2025},
		{name: "re-entry clears exit", years: series(2024, above, below, above), want: 0},
		{name: "latest exit after re-entry", years: series(2024, above, below, above, below), want: 2027},
		{name: "years before safeguard start ignored", years: series(2021, below, below, above), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ExitFY(tt.years))
		})
	}
}

func TestPhase_SMC(t *testing.T) {
	tests := []struct {
		phase Phase
		raw   float64
		want  float64
	}{
		{PhaseSafeguard, 500, 500},
		{PhaseSafeguard, -500, -500},
		{PhaseOptIn, 500, 500},
		{PhaseOptIn, -500, 0},
		{PhaseGap, 500, 0},
		{PhaseExited, -500, 0},
		{PhasePreSafeguard, 500, 500},
	}
	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.phase.SMC(tt.raw), 1e-12)
		})
	}
}

func TestPhaseDates_Label(t *testing.T) {
	d := DefaultParams().Phases

	tests := []struct {
		date time.Time
		want string
	}{
		{date(2024, time.January, 1), LabelMining},
		{date(2027, time.June, 30), LabelMining},
		{date(2027, time.July, 1), LabelMiningGrid},
		{date(2037, time.March, 31), LabelMiningGrid},
		{date(2037, time.April, 1), LabelProcessing},
		{date(2039, time.December, 31), LabelProcessing},
		{date(2040, time.January, 1), LabelRehabilitation},
		{date(2045, time.January, 1), LabelClosed},
	}
	for _, tt := range tests {
		t.Run(tt.date.Format(time.DateOnly), func(t *testing.T) {
			assert.Equal(t, tt.want, d.Label(tt.date))
		})
	}

	d.GridConnection = time.Time{}
	assert.Equal(t, LabelMining, d.Label(date(2030, time.January, 1)))
}

func TestParams_Validate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{name: "h above one", mutate: func(p *Params) { p.Transition[2].H = 1.5 }},
		{name: "decreasing h", mutate: func(p *Params) { p.Transition[3].H = 0.05 }},
		{name: "unsorted schedule", mutate: func(p *Params) { p.Transition[1].FY = 2024 }},
		{name: "negative rate", mutate: func(p *Params) { p.Decline.Phase2Rate = -0.01 }},
		{name: "lookback shorter than min covered", mutate: func(p *Params) { p.OptIn.Lookback = 2 }},
		{name: "negative threshold", mutate: func(p *Params) { p.Threshold = -1 }},
		{name: "zero fsei", mutate: func(p *Params) { p.FSEI.ROM = 0 }},
		{name: "inverted phase dates", mutate: func(p *Params) { p.Phases.EndProcessing = date(2030, time.January, 1) }},
		{name: "unknown benchmark", mutate: func(p *Params) { p.Benchmark = "median" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
		})
	}
}
