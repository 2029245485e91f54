package emissions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/safeguard/internal/factors"
	"github.com/rshade/safeguard/internal/ledger"
	"github.com/rshade/safeguard/internal/logging"
)

func testFactorMap(t *testing.T) *factors.FactorMap {
	t.Helper()
	var recs []factors.Record
	for _, year := range []int{2025, 2026} {
		s1 := 69.9
		if year == 2026 {
			s1 = 70.5
		}
		recs = append(recs,
			factors.Record{Year: year, FuelName: "Diesel oil", Scope: 1, Factor: s1, FactorUnit: "kg CO2-e/kL", EnergyContent: 38.6},
			factors.Record{Year: year, FuelName: "Diesel oil", Scope: 3, Factor: 17.3, FactorUnit: "kg CO2-e/kL", EnergyContent: 38.6},
			factors.Record{Year: year, FuelName: "Gaseous fossil fuels other than those mentioned", Scope: 1, Factor: 2.0, FactorUnit: "kg CO2-e/m3", EnergyContent: 0.0393},
			factors.Record{Year: year, FuelType: factors.FuelTypeElectricity, FuelName: factors.GridElectricityKey, Scope: 2, Factor: 0.71, FactorUnit: "kg CO2-e/kWh", State: "QLD"},
			factors.Record{Year: year, FuelType: factors.FuelTypeElectricity, FuelName: factors.GridElectricityKey, Scope: 3, Factor: 0.09, FactorUnit: "kg CO2-e/kWh", State: "QLD"},
		)
	}
	store, err := factors.NewStore(recs)
	require.NoError(t, err)

	fm, err := factors.BuildFactorMap(context.Background(), store, []int{2025, 2026},
		[]string{"Diesel oil", "Gaseous fossil fuels other than"}, "QLD")
	require.NoError(t, err)
	return fm
}

func TestApply(t *testing.T) {
	fm := testFactorMap(t)
	diags := logging.NewDiagnostics()
	ctx := logging.ContextWithDiagnostics(context.Background(), diags)

	rows := []ledger.Row{
		{FY: 2025, Description: "Diesel", UOM: "kL", FuelCategory: "Diesel oil", Quantity: 1000},
		{FY: 2026, Description: "Diesel", UOM: "KL", FuelCategory: "Diesel oil", Quantity: 1000},
		{FY: 2025, Description: "Grid electricity", UOM: "kWh", FuelCategory: factors.GridElectricityKey, Quantity: 500000},
		{FY: 2025, Description: "Ore mined", UOM: "t", Quantity: 90000, Scope1: 99},
		{FY: 2025, Description: "Kerosene", UOM: "kL", FuelCategory: "Kerosene", Quantity: 10},
		{FY: 2025, Description: "Kerosene", UOM: "kL", FuelCategory: "Kerosene", Quantity: 20},
		{FY: 2030, Description: "Diesel", UOM: "kL", FuelCategory: "Diesel oil", Quantity: 10},
	}

	out, sum := Apply(ctx, rows, fm)
	require.Len(t, out, len(rows))

	assert.InDelta(t, 69.9, out[0].Scope1, 1e-9, "1000 kL x 69.9 kg/kL / 1000")
	assert.InDelta(t, 17.3, out[0].Scope3, 1e-9)
	assert.Zero(t, out[0].Scope2)
	assert.InDelta(t, 38600, out[0].EnergyGJ, 1e-6)
	assert.Equal(t, "Diesel oil", out[0].FactorKey)
	assert.False(t, out[0].UnitMismatch, "unit comparison is case-insensitive")

	assert.InDelta(t, 70.5, out[1].Scope1, 1e-9, "2026 factors")

	assert.InDelta(t, 355.0, out[2].Scope2, 1e-9)
	assert.InDelta(t, 45.0, out[2].Scope3, 1e-9)
	assert.InDelta(t, 1800.0, out[2].EnergyGJ, 1e-9)

	assert.Zero(t, out[3].Scope1, "non-fuel rows are reset to zero")
	assert.Zero(t, out[4].Scope1)
	assert.Zero(t, out[6].Scope1)

	assert.Equal(t, 7, sum.Rows)
	assert.Equal(t, 6, sum.FuelRows)
	assert.Equal(t, 3, sum.Calculated)
	assert.Equal(t, 2, sum.Unmapped)
	assert.Equal(t, 1, sum.MissingYear)
	assert.InDelta(t, 69.9+70.5, sum.Scope1, 1e-9)

	assert.Equal(t, 1, diags.Count(logging.CodeUnmappedCategory))
	assert.Equal(t, 1, diags.Count(logging.CodeMissingYearFactors))

	assert.InDelta(t, 99.0, rows[3].Scope1, 1e-12, "input rows are not modified")
}

func TestApply_UnitMismatchStillCalculates(t *testing.T) {
	fm := testFactorMap(t)
	diags := logging.NewDiagnostics()
	ctx := logging.ContextWithDiagnostics(context.Background(), diags)

	rows := []ledger.Row{
		{FY: 2025, UOM: "km", FuelCategory: "Diesel oil", Quantity: 100},
		{FY: 2025, UOM: "km", FuelCategory: "Diesel oil", Quantity: 200},
	}
	out, sum := Apply(ctx, rows, fm)

	assert.True(t, out[0].UnitMismatch)
	assert.InDelta(t, 100*69.9/1000, out[0].Scope1, 1e-9)
	assert.Equal(t, 2, sum.UnitMismatches)

	items := diags.Items()
	require.Len(t, items, 1)
	assert.Equal(t, logging.CodeUnitMismatch, items[0].Code)
	assert.Equal(t, logging.SeverityError, items[0].Severity)
	assert.Equal(t, "kL", items[0].Fields["expected"])
}

func TestApply_PrefixAndYearFunc(t *testing.T) {
	fm := testFactorMap(t)
	rows := []ledger.Row{
		{FY: 2026, Year: 2025, UOM: "m3", FuelCategory: "Gaseous fossil fuels other than those mentioned", Quantity: 1000},
		{FY: 2026, Year: 2025, UOM: "kL", FuelCategory: "Diesel oil", Quantity: 1000},
	}

	out, _ := Apply(context.Background(), rows, fm, WithYearFunc(CalendarYearOf))
	assert.Equal(t, "Gaseous fossil fuels other than", out[0].FactorKey)
	assert.InDelta(t, 2.0, out[0].Scope1, 1e-12)
	assert.InDelta(t, 69.9, out[1].Scope1, 1e-9, "calendar year 2025 factors")
}

func TestApply_AmbiguousReverseReported(t *testing.T) {
	fm := testFactorMap(t)
	diags := logging.NewDiagnostics()
	ctx := logging.ContextWithDiagnostics(context.Background(), diags)

	rows := []ledger.Row{{FY: 2025, UOM: "kL", FuelCategory: "Diesel", Quantity: 1}}
	out, _ := Apply(ctx, rows, fm)
	assert.Equal(t, "Diesel oil", out[0].FactorKey)
	assert.Zero(t, diags.Count(logging.CodeAmbiguousCategory), "only one key starts with Diesel")

	out, _ = Apply(ctx, []ledger.Row{{FY: 2025, UOM: "kL", FuelCategory: "G", Quantity: 1}}, fm)
	assert.Equal(t, "Gaseous fossil fuels other than", out[0].FactorKey)
	assert.Equal(t, 1, diags.Count(logging.CodeAmbiguousCategory))
}
