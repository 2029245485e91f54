package projection

import (
	"strings"
	"time"

	"github.com/rshade/safeguard/internal/calendar"
	"github.com/rshade/safeguard/internal/ledger"
	"github.com/rshade/safeguard/internal/safeguard"
)

// AggregateMonthly collapses detail rows into exactly one Month per
// calendar month from the earliest to the latest row. Months without rows,
// or without a given category, are zero.
func AggregateMonthly(rows []ledger.Row, opts Options) []safeguard.Month {
	if len(rows) == 0 {
		return nil
	}

	first, last := rows[0].Date, rows[0].Date
	for _, r := range rows[1:] {
		if r.Date.Before(first) {
			first = r.Date
		}
		if r.Date.After(last) {
			last = r.Date
		}
	}

	dates := calendar.MonthsBetween(first, last)
	months := make([]safeguard.Month, len(dates))
	index := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		months[i].Date = d
		index[d] = i
	}

	keyword := strings.ToLower(opts.ROMKeyword)
	for _, r := range rows {
		m := &months[index[calendar.MonthStart(r.Date)]]
		m.Scope1 += r.Scope1
		m.Scope2 += r.Scope2
		m.Scope3 += r.Scope3

		switch {
		case r.CostCentre == opts.ROMCostCentre && strings.Contains(strings.ToLower(r.Description), keyword):
			m.ROM += r.Quantity
		case r.Description == opts.SiteElectricity:
			m.SiteElectricityKWh += r.Quantity
		case r.Description == opts.GridElectricity:
			m.GridElectricityKWh += r.Quantity
		}
	}
	return months
}
