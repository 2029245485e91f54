package ledger

import (
	"strings"
	"time"
)

// RepairDayAsMonth fixes fuel rows exported with the month encoded in the
// day field: a year of fuel data stored as January 1..12. For every
// (fuel category, calendar year) group with a fuel category, if all dates
// fall in January, at least two distinct days are used and no day exceeds
// 12, each date (Y, 1, D) becomes (Y, D, 1). It returns the number of
// entries remapped.
func RepairDayAsMonth(entries []Entry) int {
	type groupKey struct {
		fuel string
		year int
	}
	type groupStats struct {
		allJanuary bool
		days       map[int]bool
		maxDay     int
	}

	groups := make(map[groupKey]*groupStats)
	for _, e := range entries {
		if e.FuelCategory == "" {
			continue
		}
		k := groupKey{fuel: e.FuelCategory, year: e.Date.Year()}
		g, ok := groups[k]
		if !ok {
			g = &groupStats{allJanuary: true, days: make(map[int]bool)}
			groups[k] = g
		}
		if e.Date.Month() != time.January {
			g.allJanuary = false
		}
		g.days[e.Date.Day()] = true
		if e.Date.Day() > g.maxDay {
			g.maxDay = e.Date.Day()
		}
	}

	remapped := 0
	for i := range entries {
		e := &entries[i]
		if e.FuelCategory == "" {
			continue
		}
		g := groups[groupKey{fuel: e.FuelCategory, year: e.Date.Year()}]
		if !g.allJanuary || len(g.days) < 2 || g.maxDay > 12 {
			continue
		}
		e.Date = time.Date(e.Date.Year(), time.Month(e.Date.Day()), 1, 0, 0, 0, 0, time.UTC)
		remapped++
	}
	return remapped
}

// ReclassifyTransport assigns transportKey to diesel rows booked against
// one of the transport cost centres. It returns the number of rows changed.
func ReclassifyTransport(rows []Row, costCentres []string, transportKey string) int {
	if transportKey == "" || len(costCentres) == 0 {
		return 0
	}
	set := make(map[string]bool, len(costCentres))
	for _, cc := range costCentres {
		set[cc] = true
	}

	n := 0
	for i := range rows {
		r := &rows[i]
		if strings.HasPrefix(r.FuelCategory, dieselPrefix) && set[r.CostCentre] && r.FuelCategory != transportKey {
			r.FuelCategory = transportKey
			n++
		}
	}
	return n
}

const dieselPrefix = "Diesel oil"
