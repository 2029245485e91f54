// Package safeguard computes Safeguard Mechanism baselines, compliance
// phases and credit (SMC) positions for a single facility.
//
// The regulatory tables (ERC decline phases and the hybrid transition
// schedule) are plain data on Params so that amendments are configuration
// changes.
package safeguard

import (
	"github.com/shopspring/decimal"
)

// DeclineSchedule describes the two-phase linear ERC decline.
//
//	fy < Phase1Start:               1
//	Phase1Start <= fy <= Phase1End: 1 - n*Phase1Rate, n = fy-Phase1Start+1
//	Phase1End < fy <= Phase2End:    ERC(Phase1End) - (fy-Phase1End)*Phase2Rate
//	fy > Phase2End:                 ERC(Phase2End)
//
// Every value is clamped at zero.
type DeclineSchedule struct {
	Phase1Start int     `yaml:"phase1_start" json:"phase1_start"`
	Phase1End   int     `yaml:"phase1_end"   json:"phase1_end"`
	Phase2End   int     `yaml:"phase2_end"   json:"phase2_end"`
	Phase1Rate  float64 `yaml:"phase1_rate"  json:"phase1_rate"`
	Phase2Rate  float64 `yaml:"phase2_rate"  json:"phase2_rate"`
}

// Legislated decline defaults. The phase 2 rate is indicative.
const (
	DefaultPhase1Start = 2024
	DefaultPhase1End   = 2030
	DefaultPhase2End   = 2050
	DefaultPhase1Rate  = 0.049
	DefaultPhase2Rate  = 0.03285
)

// DefaultDecline returns the legislated decline schedule.
func DefaultDecline() DeclineSchedule {
	return DeclineSchedule{
		Phase1Start: DefaultPhase1Start,
		Phase1End:   DefaultPhase1End,
		Phase2End:   DefaultPhase2End,
		Phase1Rate:  DefaultPhase1Rate,
		Phase2Rate:  DefaultPhase2Rate,
	}
}

// ERCDecimal returns the Emissions Reduction Contribution for fy in decimal
// arithmetic, so that table values such as 0.951 and 0.62415 are exact.
func (d DeclineSchedule) ERCDecimal(fy int) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if fy < d.Phase1Start {
		return one
	}

	rate1 := decimal.NewFromFloat(d.Phase1Rate)
	if fy <= d.Phase1End {
		n := decimal.NewFromInt(int64(fy - d.Phase1Start + 1))
		return nonNegative(one.Sub(n.Mul(rate1)))
	}

	phase1Years := decimal.NewFromInt(int64(d.Phase1End - d.Phase1Start + 1))
	endPhase1 := one.Sub(phase1Years.Mul(rate1))

	if fy > d.Phase2End {
		fy = d.Phase2End
	}
	rate2 := decimal.NewFromFloat(d.Phase2Rate)
	n := decimal.NewFromInt(int64(fy - d.Phase1End))
	return nonNegative(endPhase1.Sub(n.Mul(rate2)))
}

// ERC returns ERCDecimal(fy) as a float64.
func (d DeclineSchedule) ERC(fy int) float64 {
	v, _ := d.ERCDecimal(fy).Float64()
	return v
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// TransitionStep sets the transition proportion h from FY onwards.
type TransitionStep struct {
	FY int     `yaml:"fy" json:"fy"`
	H  float64 `yaml:"h"  json:"h"`
}

// TransitionSchedule is a breakpoint table sorted by FY. Before the first
// step h is 0; after the last step h is 1; otherwise h is the value of the
// latest step at or before the year.
type TransitionSchedule []TransitionStep

// DefaultTransition returns the legislated hybrid EI transition schedule.
func DefaultTransition() TransitionSchedule {
	return TransitionSchedule{
		{FY: 2024, H: 0.10},
		{FY: 2025, H: 0.20},
		{FY: 2026, H: 0.30},
		{FY: 2027, H: 0.40},
		{FY: 2028, H: 0.60},
		{FY: 2029, H: 0.80},
		{FY: 2030, H: 1.00},
	}
}

// H returns the transition proportion for fy.
func (s TransitionSchedule) H(fy int) float64 {
	if len(s) == 0 || fy < s[0].FY {
		return 0
	}
	if fy > s[len(s)-1].FY {
		return 1
	}
	h := 0.0
	for _, step := range s {
		if step.FY > fy {
			break
		}
		h = step.H
	}
	return h
}
