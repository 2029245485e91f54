package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monthlyFixture spans May 2024 to August 2025 with value = month index + 1.
func monthlyFixture(t *testing.T) *Table {
	t.Helper()
	months := MonthsBetween(date(2024, time.May, 1), date(2025, time.August, 1))
	tbl := NewTable(months)

	vals := make([]float64, len(months))
	phases := make([]string, len(months))
	for i, m := range months {
		vals[i] = float64(i + 1)
		phases[i] = FYLabel(m) + "-" + m.Month().String()
	}
	require.NoError(t, tbl.AddNumeric("Scope1", vals))
	require.NoError(t, tbl.AddNumeric("Intensity", vals))
	require.NoError(t, tbl.AddText("Phase", phases))
	require.NoError(t, tbl.AddNumeric("Dropped", vals))
	return tbl
}

func TestAggregateByYear_FY(t *testing.T) {
	tbl := monthlyFixture(t)

	annual, err := AggregateByYear(tbl, FY, Rules{
		"Scope1":    Sum,
		"Intensity": Mean,
		"Phase":     Last,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"FY2024", "FY2025", "FY2026"}, annual.Labels)
	assert.Equal(t, []int{2024, 2025, 2026}, annual.Years)
	assert.Equal(t, date(2024, time.July, 1), annual.Dates[1])
	assert.Equal(t, []string{"Scope1", "Intensity", "Phase"}, annual.Columns())
	assert.False(t, annual.HasColumn("Dropped"))

	// FY2024: May, June -> 1+2
	assert.InDelta(t, 3.0, annual.Numeric["Scope1"][0], 1e-9)
	// FY2025: July 2024..June 2025 -> 3..14
	assert.InDelta(t, 102.0, annual.Numeric["Scope1"][1], 1e-9)
	assert.InDelta(t, 8.5, annual.Numeric["Intensity"][1], 1e-9)
	assert.Equal(t, "FY2025-June", annual.Text["Phase"][1])
	assert.Equal(t, "FY2026-August", annual.Text["Phase"][2])
}

func TestAggregateByYear_CY(t *testing.T) {
	tbl := monthlyFixture(t)

	annual, err := AggregateByYear(tbl, CY, Rules{"Scope1": Sum, "Phase": First})
	require.NoError(t, err)

	assert.Equal(t, []string{"CY2024", "CY2025"}, annual.Labels)
	// May..Dec 2024 -> 1..8
	assert.InDelta(t, 36.0, annual.Numeric["Scope1"][0], 1e-9)
	assert.Equal(t, "FY2024-May", annual.Text["Phase"][0])
}

func TestAggregateByYear_Errors(t *testing.T) {
	tbl := monthlyFixture(t)

	tests := []struct {
		name  string
		rules Rules
		want  error
	}{
		{name: "unknown column", rules: Rules{"Nope": Sum}, want: ErrUnknownColumn},
		{name: "sum of text", rules: Rules{"Phase": Sum}, want: ErrRuleNotApplicable},
		{name: "unknown rule", rules: Rules{"Scope1": Rule("median")}, want: ErrUnknownRule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AggregateByYear(tbl, FY, tt.rules)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	unsorted := NewTable([]time.Time{date(2025, time.February, 1), date(2025, time.January, 1)})
	require.NoError(t, unsorted.AddNumeric("x", []float64{1, 2}))
	_, err := AggregateByYear(unsorted, FY, Rules{"x": Sum})
	assert.ErrorIs(t, err, ErrUnsorted)
}

func TestTable_Filters(t *testing.T) {
	tbl := monthlyFixture(t)

	fy := tbl.FilterByFY(2025)
	assert.Equal(t, 12, fy.Len())
	assert.Equal(t, date(2024, time.July, 1), fy.Dates[0])
	assert.InDelta(t, 3.0, fy.Numeric["Scope1"][0], 1e-9)

	cy := tbl.FilterByCY(2025)
	assert.Equal(t, 8, cy.Len())

	rng := tbl.FilterByDateRange(date(2024, time.June, 1), date(2024, time.August, 1))
	assert.Equal(t, 3, rng.Len())
	assert.Equal(t, tbl.Columns(), rng.Columns())
}

func TestTable_AddColumnErrors(t *testing.T) {
	tbl := NewTable([]time.Time{date(2025, time.January, 1)})
	require.NoError(t, tbl.AddNumeric("a", []float64{1}))
	assert.ErrorIs(t, tbl.AddNumeric("a", []float64{2}), ErrDuplicateCol)
	assert.ErrorIs(t, tbl.AddText("b", []string{"x", "y"}), ErrColumnLength)
}
