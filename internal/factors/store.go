package factors

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rshade/safeguard/internal/logging"
)

// Store answers (year, name prefix, scope, state) queries over an immutable
// snapshot of factor records. It is safe for concurrent readers.
type Store struct {
	records map[recordKey]Record
	years   []int

	// namesByYear lists the distinct fuel names per year, shortest first.
	namesByYear map[int][]string
	byYear      map[int][]Record
}

// NewStore indexes records. It rejects an empty table and duplicate
// (year, name, scope, state) keys.
func NewStore(records []Record) (*Store, error) {
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}

	s := &Store{
		records:     make(map[recordKey]Record, len(records)),
		namesByYear: make(map[int][]string),
		byYear:      make(map[int][]Record),
	}

	seenName := make(map[int]map[string]bool)
	for _, r := range records {
		r.FuelName = strings.TrimSpace(r.FuelName)
		r.State = strings.TrimSpace(r.State)
		k := r.key()
		if _, dup := s.records[k]; dup {
			return nil, fmt.Errorf("%w: %q scope %d state %q in NGA %d",
				ErrDuplicateFactor, r.FuelName, r.Scope, r.State, r.Year)
		}
		s.records[k] = r
		s.byYear[r.Year] = append(s.byYear[r.Year], r)

		if seenName[r.Year] == nil {
			seenName[r.Year] = make(map[string]bool)
			s.years = append(s.years, r.Year)
		}
		if !seenName[r.Year][r.FuelName] {
			seenName[r.Year][r.FuelName] = true
			s.namesByYear[r.Year] = append(s.namesByYear[r.Year], r.FuelName)
		}
	}

	sort.Ints(s.years)
	for _, names := range s.namesByYear {
		sort.Slice(names, func(i, j int) bool {
			if len(names[i]) != len(names[j]) {
				return len(names[i]) < len(names[j])
			}
			return names[i] < names[j]
		})
	}
	return s, nil
}

// Years returns the publication years present, ascending.
func (s *Store) Years() []int {
	out := make([]int, len(s.years))
	copy(out, s.years)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// ResolveYear maps a requested year to the year whose factors apply: the
// year itself when published, the first or last year outside the published
// range, otherwise the nearest year with ties going to the earlier one.
func (s *Store) ResolveYear(year int) (resolved int, exact bool) {
	i := sort.SearchInts(s.years, year)
	if i < len(s.years) && s.years[i] == year {
		return year, true
	}
	switch {
	case i == 0:
		return s.years[0], false
	case i == len(s.years):
		return s.years[len(s.years)-1], false
	}
	lower, upper := s.years[i-1], s.years[i]
	if upper-year < year-lower {
		return upper, false
	}
	return lower, false
}

// resolveName applies exact-then-shortest-superset matching.
func (s *Store) resolveName(year int, prefix string) (string, bool) {
	names := s.namesByYear[year]
	for _, n := range names {
		if n == prefix {
			return n, true
		}
	}
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			return n, true
		}
	}
	return "", false
}

// Resolve finds the factor for a fuel name prefix. Electricity queries pass
// a state; fuel queries leave it blank and only match records without one.
// A substituted year is reported as a diagnostic on ctx. Failure returns a
// *LookupError wrapping ErrFactorNotFound.
func (s *Store) Resolve(ctx context.Context, year int, prefix string, scope int, state string) (Record, error) {
	state = strings.TrimSpace(state)
	notFound := &LookupError{Year: year, Category: prefix, Scope: scope, State: state, Err: ErrFactorNotFound}

	resolved, exact := s.ResolveYear(year)
	name, ok := s.resolveName(resolved, prefix)
	if !ok {
		return Record{}, notFound
	}
	rec, ok := s.records[recordKey{year: resolved, name: name, scope: scope, state: state}]
	if !ok {
		return Record{}, notFound
	}

	if !exact {
		logging.Report(ctx, logging.Diagnostic{
			Severity: logging.SeverityWarning,
			Code:     logging.CodeFactorYearSubstituted,
			Message:  "emission factors for requested year not published, using nearest year",
			Fields: map[string]string{
				"requested_year": strconv.Itoa(year),
				"resolved_year":  strconv.Itoa(resolved),
			},
		})
	}
	return rec, nil
}

// ElectricityFactor returns the grid electricity factor (kg CO2-e/kWh) for a
// state and scope.
func (s *Store) ElectricityFactor(ctx context.Context, year int, state string, scope int) (float64, error) {
	rec, err := s.Resolve(ctx, year, GridElectricityKey, scope, state)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMissingElectricityFactor, err)
	}
	return rec.Factor, nil
}
