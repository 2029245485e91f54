package factors

import "strings"

// Scopes.
const (
	Scope1 = 1
	Scope2 = 2
	Scope3 = 3
)

// FuelTypeElectricity is the Fuel_Type of grid electricity records.
const FuelTypeElectricity = "Electricity"

// Record is one published emission factor. Records are immutable once loaded.
type Record struct {
	Year          int     `json:"year"`
	FuelType      string  `json:"fuel_type"`
	FuelName      string  `json:"fuel_name"`
	Scope         int     `json:"scope"`
	Factor        float64 `json:"factor"`
	FactorUnit    string  `json:"factor_unit"`
	EnergyContent float64 `json:"energy_content,omitempty"`
	EnergyUnit    string  `json:"energy_unit,omitempty"`
	State         string  `json:"state,omitempty"`
	SourceTable   string  `json:"source_table,omitempty"`
}

// HasEnergyContent reports whether the record carries an energy content.
func (r Record) HasEnergyContent() bool {
	return r.EnergyContent > 0
}

// ExpectedUnit is the native quantity unit implied by the factor unit.
func (r Record) ExpectedUnit() string {
	return ExpectedUnit(r.FactorUnit)
}

// ExpectedUnit returns the text after the last "/" of a factor unit label,
// e.g. "kg CO2-e/kL" gives "kL". Labels without "/" give "".
func ExpectedUnit(label string) string {
	i := strings.LastIndex(label, "/")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(label[i+1:])
}

type recordKey struct {
	year  int
	name  string
	scope int
	state string
}

func (r Record) key() recordKey {
	return recordKey{year: r.Year, name: r.FuelName, scope: r.Scope, state: r.State}
}
