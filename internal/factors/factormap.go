package factors

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/rshade/safeguard/internal/logging"
	"github.com/rshade/safeguard/internal/units"
)

// GridElectricityKey is the fixed factor-map key for purchased electricity.
const GridElectricityKey = "Grid electricity"

// DefaultFuelCategories are the fuel name prefixes used in the consumption
// ledger. The transport diesel entry precedes plain diesel so that the more
// specific key is tried first.
//
//nolint:gochecknoglobals // fixed category list, copied by callers
var DefaultFuelCategories = []string{
	"Diesel oil-Cars and light commercial vehicles",
	"Diesel oil",
	"Liquefied petroleum gas (LPG)",
	"Petroleum based oils",
	"Petroleum based greases",
	"Gaseous fossil fuels other than",
}

// Bundle holds the resolved factors for one (year, category).
// Factors are kg CO2-e per native unit; energy is GJ per native unit.
type Bundle struct {
	Key           string  `json:"key"`
	ResolvedName  string  `json:"resolved_name"`
	Scope1        float64 `json:"scope1"`
	Scope2        float64 `json:"scope2"`
	Scope3        float64 `json:"scope3"`
	EnergyPerUnit float64 `json:"energy_per_unit"`
	ExpectedUnit  string  `json:"expected_unit"`
}

// FactorMap is a dense per-year lookup from known category keys to factor
// bundles. It is read-only once built.
type FactorMap struct {
	state string
	keys  []string
	years map[int]map[string]Bundle
}

// BuildFactorMap resolves every (year, category) pair plus grid electricity
// for state. A missing Scope 1 factor, missing energy content or missing
// Scope 2 electricity factor is an error; a missing Scope 3 factor counts as
// zero and is reported as a diagnostic.
func BuildFactorMap(ctx context.Context, store *Store, years []int, categories []string, state string) (*FactorMap, error) {
	logger := logging.FromContext(ctx).With().
		Str("component", "factors").
		Str("operation", "BuildFactorMap").
		Logger()

	keys := make([]string, 0, len(categories)+1)
	for _, c := range categories {
		if c != GridElectricityKey {
			keys = append(keys, c)
		}
	}
	keys = append(keys, GridElectricityKey)

	uniq := make(map[int]bool, len(years))
	sorted := make([]int, 0, len(years))
	for _, y := range years {
		if !uniq[y] {
			uniq[y] = true
			sorted = append(sorted, y)
		}
	}
	sort.Ints(sorted)

	fm := &FactorMap{
		state: state,
		keys:  keys,
		years: make(map[int]map[string]Bundle, len(sorted)),
	}

	for _, year := range sorted {
		yf := make(map[string]Bundle, len(keys))
		for _, cat := range keys[:len(keys)-1] {
			b, err := resolveFuel(ctx, store, year, cat)
			if err != nil {
				return nil, err
			}
			yf[cat] = b
		}

		elec, err := resolveElectricity(ctx, store, year, state)
		if err != nil {
			return nil, err
		}
		yf[GridElectricityKey] = elec
		fm.years[year] = yf
	}

	logger.Debug().
		Ints("years", sorted).
		Int("categories", len(keys)).
		Str("state", state).
		Msg("factor map built")
	return fm, nil
}

func resolveFuel(ctx context.Context, store *Store, year int, category string) (Bundle, error) {
	s1, err := store.Resolve(ctx, year, category, Scope1, "")
	if err != nil {
		return Bundle{}, fmt.Errorf("building factor map for FY%d: %w", year, err)
	}
	if !s1.HasEnergyContent() {
		return Bundle{}, fmt.Errorf("building factor map for FY%d: %w", year,
			&LookupError{Year: year, Category: category, Scope: Scope1, Err: ErrMissingEnergyContent})
	}

	var s3Factor float64
	s3, err := store.Resolve(ctx, year, category, Scope3, "")
	switch {
	case err == nil:
		s3Factor = s3.Factor
	case errors.Is(err, ErrFactorNotFound):
		logging.Report(ctx, logging.Diagnostic{
			Severity: logging.SeverityWarning,
			Code:     logging.CodeMissingScope3,
			Message:  "no Scope 3 factor published, Scope 3 counted as zero",
			Fields:   map[string]string{"category": category, "year": strconv.Itoa(year)},
		})
	default:
		return Bundle{}, err
	}

	return Bundle{
		Key:           category,
		ResolvedName:  s1.FuelName,
		Scope1:        s1.Factor,
		Scope3:        s3Factor,
		EnergyPerUnit: s1.EnergyContent,
		ExpectedUnit:  s1.ExpectedUnit(),
	}, nil
}

func resolveElectricity(ctx context.Context, store *Store, year int, state string) (Bundle, error) {
	s2, err := store.ElectricityFactor(ctx, year, state, Scope2)
	if err != nil {
		return Bundle{}, fmt.Errorf("building factor map for FY%d: %w", year, err)
	}
	s3, err := store.ElectricityFactor(ctx, year, state, Scope3)
	if err != nil {
		s3 = 0
		logging.Report(ctx, logging.Diagnostic{
			Severity: logging.SeverityWarning,
			Code:     logging.CodeMissingScope3,
			Message:  "no Scope 3 electricity factor published, Scope 3 counted as zero",
			Fields:   map[string]string{"category": GridElectricityKey, "state": state, "year": strconv.Itoa(year)},
		})
	}
	return Bundle{
		Key:           GridElectricityKey,
		ResolvedName:  GridElectricityKey,
		Scope2:        s2,
		Scope3:        s3,
		EnergyPerUnit: units.GJPerKWh,
		ExpectedUnit:  units.KWh,
	}, nil
}

// Keys returns the known category keys in resolution order, grid
// electricity last.
func (m *FactorMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Years returns the years covered, ascending.
func (m *FactorMap) Years() []int {
	out := make([]int, 0, len(m.years))
	for y := range m.years {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// State returns the jurisdiction used for electricity factors.
func (m *FactorMap) State() string {
	return m.state
}

// HasYear reports whether the map covers year.
func (m *FactorMap) HasYear(year int) bool {
	_, ok := m.years[year]
	return ok
}

// Lookup returns the bundle for (year, key).
func (m *FactorMap) Lookup(year int, key string) (Bundle, bool) {
	yf, ok := m.years[year]
	if !ok {
		return Bundle{}, false
	}
	b, ok := yf[key]
	return b, ok
}
