package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rshade/safeguard/internal/cache"
	"github.com/rshade/safeguard/internal/calendar"
	"github.com/rshade/safeguard/internal/emissions"
	"github.com/rshade/safeguard/internal/factors"
	"github.com/rshade/safeguard/internal/logging"
)

// Output formats accepted by output.default_format.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
	FormatCSV    = "csv"
)

// OutputFormats lists the supported output formats.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var OutputFormats = []string{FormatTable, FormatJSON, FormatNDJSON, FormatCSV}

// maxPrecision bounds output.precision.
const maxPrecision = 10

// Validate checks every section and joins all problems into one error
// wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	add(CheckVersion(c.Version))
	add(c.SafeguardParams().Validate())
	add(c.FinanceMarket().Validate())
	if c.Market.TaxStart.IsZero() {
		add(errors.New("market.tax_start is required"))
	}

	if strings.TrimSpace(c.Facility.State) == "" {
		add(errors.New("facility.state is required"))
	}
	if strings.TrimSpace(c.Facility.ROMCostCentre) == "" {
		add(errors.New("facility.rom_cost_centre is required"))
	}

	add(c.validateFactors())
	add(c.validateOutput())
	add(c.validateLogging())

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func (c *Config) validateFactors() error {
	f := c.Factors
	var errs []error
	if len(f.Categories) == 0 {
		errs = append(errs, errors.New("factors.categories must not be empty"))
	}
	seen := make(map[string]bool, len(f.Categories))
	for _, cat := range f.Categories {
		if strings.TrimSpace(cat) == "" {
			errs = append(errs, errors.New("factors.categories contains an empty key"))
			continue
		}
		if seen[cat] {
			errs = append(errs, fmt.Errorf("factors.categories lists %q twice", cat))
		}
		seen[cat] = true
	}

	keys := append(append([]string(nil), f.Categories...), factors.GridElectricityKey, c.Facility.TransportFuelKey)
	if bad := emissions.ValidateAliases(f.Aliases, keys); len(bad) > 0 {
		sort.Strings(bad)
		errs = append(errs, fmt.Errorf("factors.aliases target unknown keys: %s", strings.Join(bad, ", ")))
	}

	if f.Cache.Enabled {
		if err := cache.ValidateTTL(f.Cache.TTLSeconds); err != nil {
			errs = append(errs, fmt.Errorf("factors.cache.ttl_seconds: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) validateOutput() error {
	o := c.Output
	var errs []error
	if !isOutputFormat(o.DefaultFormat) {
		errs = append(errs, fmt.Errorf("output.default_format %q must be one of %s",
			o.DefaultFormat, strings.Join(OutputFormats, ", ")))
	}
	if o.Precision < 0 || o.Precision > maxPrecision {
		errs = append(errs, fmt.Errorf("output.precision must be between 0 and %d, got %d", maxPrecision, o.Precision))
	}
	if _, err := calendar.ParseYearType(o.YearType); err != nil {
		errs = append(errs, fmt.Errorf("output.year_type: %w", err))
	}
	if strings.TrimSpace(o.DataSet) == "" {
		errs = append(errs, errors.New("output.dataset is required"))
	}
	return errors.Join(errs...)
}

func (c *Config) validateLogging() error {
	l := c.Logging
	var errs []error
	if _, err := zerolog.ParseLevel(strings.ToLower(l.Level)); err != nil || l.Level == "" {
		errs = append(errs, fmt.Errorf("logging.level %q is not a log level", l.Level))
	}
	if l.Format != logging.FormatConsole && l.Format != logging.FormatJSON {
		errs = append(errs, fmt.Errorf("logging.format %q must be %s or %s",
			l.Format, logging.FormatConsole, logging.FormatJSON))
	}
	return errors.Join(errs...)
}

func isOutputFormat(s string) bool {
	for _, f := range OutputFormats {
		if s == f {
			return true
		}
	}
	return false
}
