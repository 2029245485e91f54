package emissions

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/rshade/safeguard/internal/factors"
	"github.com/rshade/safeguard/internal/ledger"
	"github.com/rshade/safeguard/internal/logging"
	"github.com/rshade/safeguard/internal/units"
)

// YearFunc picks the factor year for a row.
type YearFunc func(ledger.Row) int

// FiscalYearOf uses the row's fiscal year. It is the default.
func FiscalYearOf(r ledger.Row) int { return r.FY }

// CalendarYearOf uses the row's calendar year.
func CalendarYearOf(r ledger.Row) int { return r.Year }

// Calculator applies a factor map to ledger rows.
type Calculator struct {
	fm      *factors.FactorMap
	aliases map[string]string
	yearOf  YearFunc
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithYearFunc selects which year column drives factor lookup.
func WithYearFunc(f YearFunc) Option {
	return func(c *Calculator) { c.yearOf = f }
}

// WithAliases installs explicit category-to-key mappings that take
// precedence over prefix matching.
func WithAliases(aliases map[string]string) Option {
	return func(c *Calculator) { c.aliases = aliases }
}

// NewCalculator creates a calculator over fm.
func NewCalculator(fm *factors.FactorMap, opts ...Option) *Calculator {
	c := &Calculator{fm: fm, yearOf: FiscalYearOf}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Summary totals one Apply call.
type Summary struct {
	Rows           int
	FuelRows       int
	Calculated     int
	Unmapped       int
	MissingYear    int
	UnitMismatches int
	Scope1         float64
	Scope2         float64
	Scope3         float64
	EnergyGJ       float64
}

// Apply returns a copy of rows with emissions populated. Every row starts
// from zero emissions. Rows without a fuel category stay at zero. Rows whose
// category maps to no key, or whose year is absent from the map, stay at
// zero and are reported. A unit that differs from the factor's native unit
// is reported at error severity, and the row is still calculated with its
// stated quantity and flagged.
func (c *Calculator) Apply(ctx context.Context, rows []ledger.Row) ([]ledger.Row, Summary) {
	logger := logging.FromContext(ctx).With().
		Str("component", "emissions").
		Str("operation", "Apply").
		Logger()

	out := make([]ledger.Row, len(rows))
	copy(out, rows)

	sum := Summary{Rows: len(out)}
	keys := c.fm.Keys()
	matches := make(map[string]*Match)
	misses := make(map[string]bool)

	for i := range out {
		r := &out[i]
		r.ClearEmissions()
		if !r.HasFuel() {
			continue
		}
		sum.FuelRows++

		m, ok := matches[r.FuelCategory]
		if !ok && !misses[r.FuelCategory] {
			resolved, found := ResolveKey(r.FuelCategory, keys, c.aliases)
			if found {
				m = &resolved
				matches[r.FuelCategory] = m
				if resolved.Ambiguous() {
					reportAmbiguous(ctx, r.FuelCategory, resolved)
				}
			} else {
				misses[r.FuelCategory] = true
			}
		}
		if m == nil {
			sum.Unmapped++
			logging.Report(ctx, logging.Diagnostic{
				Severity: logging.SeverityWarning,
				Code:     logging.CodeUnmappedCategory,
				Message:  "no emission factor key matches fuel category, emissions left at zero",
				Fields:   map[string]string{"category": r.FuelCategory},
			})
			continue
		}

		year := c.yearOf(*r)
		b, ok := c.fm.Lookup(year, m.Key)
		if !ok {
			sum.MissingYear++
			logging.Report(ctx, logging.Diagnostic{
				Severity: logging.SeverityWarning,
				Code:     logging.CodeMissingYearFactors,
				Message:  "no factors built for year, emissions left at zero",
				Fields:   map[string]string{"category": m.Key, "year": strconv.Itoa(year)},
			})
			continue
		}

		if b.ExpectedUnit != "" && !units.SameUnit(r.UOM, b.ExpectedUnit) {
			r.UnitMismatch = true
			sum.UnitMismatches++
			logging.Report(ctx, logging.Diagnostic{
				Severity: logging.SeverityError,
				Code:     logging.CodeUnitMismatch,
				Message:  "ledger unit differs from the factor's native unit; emissions for these rows are dimensionally wrong",
				Fields: map[string]string{
					"category": r.FuelCategory,
					"uom":      r.UOM,
					"expected": b.ExpectedUnit,
				},
			})
		}

		r.FactorKey = m.Key
		r.Scope1 = units.KgToTonnes(r.Quantity * b.Scope1)
		r.Scope2 = units.KgToTonnes(r.Quantity * b.Scope2)
		r.Scope3 = units.KgToTonnes(r.Quantity * b.Scope3)
		r.EnergyGJ = r.Quantity * b.EnergyPerUnit

		sum.Calculated++
		sum.Scope1 += r.Scope1
		sum.Scope2 += r.Scope2
		sum.Scope3 += r.Scope3
		sum.EnergyGJ += r.EnergyGJ
	}

	logger.Debug().
		Int("rows", sum.Rows).
		Int("calculated", sum.Calculated).
		Int("unmapped", sum.Unmapped).
		Int("unit_mismatches", sum.UnitMismatches).
		Float64("scope1_tco2e", sum.Scope1).
		Float64("scope2_tco2e", sum.Scope2).
		Float64("scope3_tco2e", sum.Scope3).
		Msg("emissions applied")
	return out, sum
}

func reportAmbiguous(ctx context.Context, category string, m Match) {
	candidates := append([]string(nil), m.Candidates...)
	sort.Strings(candidates)
	logging.Report(ctx, logging.Diagnostic{
		Severity: logging.SeverityWarning,
		Code:     logging.CodeAmbiguousCategory,
		Message:  "truncated fuel category matches several factor keys; add an alias to pin it",
		Fields: map[string]string{
			"category":   category,
			"chosen":     m.Key,
			"candidates": strings.Join(candidates, "; "),
		},
	})
}

// Apply is NewCalculator(fm, opts...).Apply(ctx, rows).
func Apply(ctx context.Context, rows []ledger.Row, fm *factors.FactorMap, opts ...Option) ([]ledger.Row, Summary) {
	return NewCalculator(fm, opts...).Apply(ctx, rows)
}
