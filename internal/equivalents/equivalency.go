package equivalents

import (
	"fmt"
	"math"
	"strings"

	"github.com/rshade/safeguard/internal/units"
)

// Calculate returns the equivalencies of tonnes tCO2-e. Quantities below
// MinTonnes give an empty Output and no error.
func Calculate(tonnes float64) (Output, error) {
	if math.IsInf(tonnes, 0) || math.IsNaN(tonnes) {
		return Output{IsEmpty: true}, ErrCalculationOverflow
	}
	if tonnes < 0 {
		return Output{IsEmpty: true}, ErrNegativeValue
	}
	if tonnes < MinTonnes {
		return Output{Tonnes: tonnes, IsEmpty: true}, nil
	}

	results := []Result{
		newResult(KindCarYears, tonnes/CarYearFactor, "passenger cars for a year"),
		newResult(KindHomeYears, tonnes/HomeYearFactor, "homes' electricity for a year"),
		newResult(KindCarKilometres, tonnes/CarKilometreFactor, "kilometres driven"),
		newResult(KindTreeSeedlings, tonnes/TreeSeedlingFactor, "tree seedlings grown for 10 years"),
	}
	cars, homes := results[0].FormattedValue, results[1].FormattedValue

	return Output{
		Tonnes:  tonnes,
		Results: results,
		DisplayText: fmt.Sprintf("Equivalent to %s passenger cars for a year or %s homes' electricity for a year",
			approx(cars), approx(homes)),
		CompactText: fmt.Sprintf("(≈ %s car-yr, %s home-yr)", strings.TrimPrefix(cars, "~"), strings.TrimPrefix(homes, "~")),
	}, nil
}

// Find returns the result of kind k.
func (o Output) Find(k Kind) (Result, bool) {
	for _, r := range o.Results {
		if r.Kind == k {
			return r, true
		}
	}
	return Result{}, false
}

func newResult(k Kind, v float64, label string) Result {
	return Result{Kind: k, Value: v, FormattedValue: formatValue(v), Label: label}
}

// formatValue uses thousand separators, abbreviating millions and above.
func formatValue(v float64) string {
	return units.FormatLarge(v)
}

// approx prefixes s with "~" unless it already has one.
func approx(s string) string {
	if strings.HasPrefix(s, "~") {
		return s
	}
	return "~" + s
}
