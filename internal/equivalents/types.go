// Package equivalents turns tonnes of CO2-e into relatable comparisons
// such as years of passenger car use or household electricity.
package equivalents

import "fmt"

// Kind is a category of emissions equivalency.
type Kind int

const (
	// KindCarYears converts tCO2-e to years of average passenger car use.
	KindCarYears Kind = iota

	// KindCarKilometres converts tCO2-e to kilometres driven.
	KindCarKilometres

	// KindHomeYears converts tCO2-e to years of household electricity.
	KindHomeYears

	// KindTreeSeedlings converts tCO2-e to tree seedlings grown for 10 years.
	KindTreeSeedlings
)

// String returns the name of the Kind.
func (k Kind) String() string {
	switch k {
	case KindCarYears:
		return "CarYears"
	case KindCarKilometres:
		return "CarKilometres"
	case KindHomeYears:
		return "HomeYears"
	case KindTreeSeedlings:
		return "TreeSeedlings"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// MarshalText renders the Kind name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Result is a single calculated equivalency.
type Result struct {
	Kind           Kind    `json:"kind"`
	Value          float64 `json:"value"`
	FormattedValue string  `json:"formatted_value"`
	Label          string  `json:"label"`
}

// Output holds every equivalency for one emissions quantity.
type Output struct {
	// Tonnes is the input in tCO2-e.
	Tonnes float64 `json:"tco2e"`

	Results []Result `json:"results"`

	// DisplayText is the prose form, e.g.
	// "Equivalent to ~4,348 passenger cars for a year or ~2,817 homes' electricity for a year".
	DisplayText string `json:"display_text"`

	// CompactText is the short form, e.g. "(≈ 4,348 car-yr, 2,817 home-yr)".
	CompactText string `json:"compact_text"`

	IsEmpty bool `json:"is_empty"`
}
