package ledger

import (
	"sort"
	"time"

	"github.com/rshade/safeguard/internal/calendar"
)

// Row is one month of one ledger line after aggregation. The emissions
// fields are filled by the emissions calculator.
type Row struct {
	Date         time.Time `json:"date"`
	Year         int       `json:"year"`
	Month        int       `json:"month"`
	FY           int       `json:"fy"`
	DataSet      string    `json:"dataset"`
	Description  string    `json:"description"`
	Department   string    `json:"department,omitempty"`
	CostCentre   string    `json:"cost_centre,omitempty"`
	State        string    `json:"state,omitempty"`
	UOM          string    `json:"uom,omitempty"`
	FuelCategory string    `json:"fuel_category,omitempty"`
	Quantity     float64   `json:"quantity"`
	Source       string    `json:"source,omitempty"`

	Scope1       float64 `json:"scope1_tco2e"`
	Scope2       float64 `json:"scope2_tco2e"`
	Scope3       float64 `json:"scope3_tco2e"`
	EnergyGJ     float64 `json:"energy_gj"`
	FactorKey    string  `json:"factor_key,omitempty"`
	UnitMismatch bool    `json:"unit_mismatch,omitempty"`
}

// MergeKey identifies a ledger line within a month for actual/budget merging.
type MergeKey struct {
	Date        time.Time
	Description string
}

// Key returns the row's merge key.
func (r Row) Key() MergeKey {
	return MergeKey{Date: r.Date, Description: r.Description}
}

// HasFuel reports whether the row carries a fuel category.
func (r Row) HasFuel() bool {
	return r.FuelCategory != ""
}

// ClearEmissions zeroes the calculated fields.
func (r *Row) ClearEmissions() {
	r.Scope1, r.Scope2, r.Scope3, r.EnergyGJ = 0, 0, 0, 0
	r.FactorKey = ""
	r.UnitMismatch = false
}

type groupKey struct {
	year, month, fy int
	dataSet         string
	description     string
	department      string
	costCentre      string
	state           string
	uom             string
	fuel            string
}

// Aggregate sums entries per (month, dataset, description, department,
// cost centre, state, unit, fuel category), keeping the first Source seen.
// Row dates are the first of the month. The result is sorted with SortRows.
func Aggregate(entries []Entry) []Row {
	index := make(map[groupKey]int)
	var rows []Row
	for _, e := range entries {
		k := groupKey{
			year:        e.Date.Year(),
			month:       int(e.Date.Month()),
			fy:          calendar.FiscalYear(e.Date),
			dataSet:     e.DataSet,
			description: e.Description,
			department:  e.Department,
			costCentre:  e.CostCentre,
			state:       e.State,
			uom:         e.UOM,
			fuel:        e.FuelCategory,
		}
		if i, ok := index[k]; ok {
			rows[i].Quantity += e.Quantity
			continue
		}
		index[k] = len(rows)
		rows = append(rows, Row{
			Date:         calendar.MonthStart(e.Date),
			Year:         k.year,
			Month:        k.month,
			FY:           k.fy,
			DataSet:      e.DataSet,
			Description:  e.Description,
			Department:   e.Department,
			CostCentre:   e.CostCentre,
			State:        e.State,
			UOM:          e.UOM,
			FuelCategory: e.FuelCategory,
			Quantity:     e.Quantity,
			Source:       e.Source,
		})
	}
	SortRows(rows)
	return rows
}

// SortRows orders rows by dataset, year, month and description, breaking
// remaining ties on the other grouping columns so the order is total.
func SortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.DataSet != b.DataSet:
			return a.DataSet < b.DataSet
		case a.Year != b.Year:
			return a.Year < b.Year
		case a.Month != b.Month:
			return a.Month < b.Month
		case a.Description != b.Description:
			return a.Description < b.Description
		case a.Department != b.Department:
			return a.Department < b.Department
		case a.CostCentre != b.CostCentre:
			return a.CostCentre < b.CostCentre
		case a.UOM != b.UOM:
			return a.UOM < b.UOM
		case a.FuelCategory != b.FuelCategory:
			return a.FuelCategory < b.FuelCategory
		default:
			return a.State < b.State
		}
	})
}

// FiscalYears returns the distinct fiscal years of rows, ascending.
func FiscalYears(rows []Row) []int {
	seen := make(map[int]bool)
	var out []int
	for _, r := range rows {
		if !seen[r.FY] {
			seen[r.FY] = true
			out = append(out, r.FY)
		}
	}
	sort.Ints(out)
	return out
}

// DataSets returns the distinct dataset tags, sorted.
func DataSets(rows []Row) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		if !seen[r.DataSet] {
			seen[r.DataSet] = true
			out = append(out, r.DataSet)
		}
	}
	sort.Strings(out)
	return out
}

// Split partitions rows by dataset tag into the requested dataset and budget.
func Split(rows []Row, dataSet string) (actual, budget []Row) {
	for _, r := range rows {
		switch r.DataSet {
		case dataSet:
			actual = append(actual, r)
		case DataSetBudget:
			budget = append(budget, r)
		}
	}
	return actual, budget
}
