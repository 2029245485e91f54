package factors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/safeguard/internal/logging"
)

const (
	oilsFullName  = "Petroleum based oils (other than petroleum based oil used as fuel)"
	gasesFullName = "Gaseous fossil fuels other than those mentioned in the items above"
)

func fuel(year int, name string, scope int, factor float64, unit string, energy float64) Record {
	return Record{
		Year:          year,
		FuelType:      "Liquid fuels",
		FuelName:      name,
		Scope:         scope,
		Factor:        factor,
		FactorUnit:    unit,
		EnergyContent: energy,
		EnergyUnit:    "GJ/" + ExpectedUnit(unit),
		SourceTable:   "Table 8",
	}
}

func grid(year int, state string, scope int, factor float64) Record {
	return Record{
		Year:        year,
		FuelType:    FuelTypeElectricity,
		FuelName:    GridElectricityKey,
		Scope:       scope,
		Factor:      factor,
		FactorUnit:  "kg CO2-e/kWh",
		State:       state,
		SourceTable: "Table 1",
	}
}

// fixtureRecords publishes 2024 and 2025 factors; the 2025 diesel Scope 1
// factor differs so tests can tell the years apart.
func fixtureRecords() []Record {
	var recs []Record
	for _, year := range []int{2024, 2025} {
		dieselS1 := 69.9
		if year == 2025 {
			dieselS1 = 70.1
		}
		recs = append(recs,
			fuel(year, "Diesel oil", Scope1, dieselS1, "kg CO2-e/kL", 38.6),
			fuel(year, "Diesel oil", Scope3, 17.3, "kg CO2-e/kL", 38.6),
			fuel(year, DieselTransportKey, Scope1, 70.2, "kg CO2-e/kL", 38.6),
			fuel(year, DieselTransportKey, Scope3, 17.3, "kg CO2-e/kL", 38.6),
			fuel(year, "Liquefied petroleum gas (LPG)", Scope1, 38.5, "kg CO2-e/kL", 25.7),
			fuel(year, "Liquefied petroleum gas (LPG)", Scope3, 3.6, "kg CO2-e/kL", 25.7),
			fuel(year, oilsFullName, Scope1, 13.9, "kg CO2-e/kL", 38.8),
			fuel(year, "Petroleum based greases", Scope1, 3.5, "kg CO2-e/kL", 38.8),
			fuel(year, "Petroleum based greases", Scope3, 1.2, "kg CO2-e/kL", 38.8),
			fuel(year, gasesFullName, Scope1, 2.0, "kg CO2-e/m3", 0.0393),
			fuel(year, gasesFullName, Scope3, 0.2, "kg CO2-e/m3", 0.0393),
			grid(year, "QLD", Scope2, 0.71),
			grid(year, "QLD", Scope3, 0.09),
			grid(year, "NSW", Scope2, 0.64),
			grid(year, "NSW", Scope3, 0.08),
		)
	}
	return recs
}

func newFixtureStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(fixtureRecords())
	require.NoError(t, err)
	return s
}

func diagContext() (context.Context, *logging.Diagnostics) {
	d := logging.NewDiagnostics()
	return logging.ContextWithDiagnostics(context.Background(), d), d
}
