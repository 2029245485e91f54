// Package config loads the safeguard YAML configuration: facility
// intensities, regulatory schedule, operational phase dates, carbon market
// assumptions, factor table location, output and logging.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rshade/safeguard/internal/cache"
	"github.com/rshade/safeguard/internal/factors"
	"github.com/rshade/safeguard/internal/safeguard"
)

// Schema versions.
const (
	CurrentVersion    = "1.0.0"
	VersionConstraint = "^1.0.0"
)

// Environment overrides.
const (
	EnvLogLevel     = "SAFEGUARD_LOG_LEVEL"
	EnvLogFormat    = "SAFEGUARD_LOG_FORMAT"
	EnvFactorsPath  = "SAFEGUARD_FACTORS_PATH"
	EnvState        = "SAFEGUARD_STATE"
	EnvOutputFormat = "SAFEGUARD_OUTPUT_FORMAT"
)

// Config errors.
var (
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrUnsupportedVersion = errors.New("unsupported configuration version")
)

// Config is the root configuration document.
type Config struct {
	Version   string          `yaml:"version"   json:"version"`
	Facility  FacilityConfig  `yaml:"facility"  json:"facility"`
	Safeguard SafeguardConfig `yaml:"safeguard" json:"safeguard"`
	Phases    PhasesConfig    `yaml:"phases"    json:"phases"`
	Market    MarketConfig    `yaml:"market"    json:"market"`
	Factors   FactorsConfig   `yaml:"factors"   json:"factors"`
	Output    OutputConfig    `yaml:"output"    json:"output"`
	Logging   LoggingConfig   `yaml:"logging"   json:"logging"`
}

// FacilityConfig describes the site and how its ledger is read.
type FacilityConfig struct {
	Name  string `yaml:"name"  json:"name"`
	State string `yaml:"state" json:"state"`

	FSEI           safeguard.Intensity `yaml:"fsei"             json:"fsei"`
	DefaultEI      safeguard.Intensity `yaml:"default_ei"       json:"default_ei"`
	BestPracticeEI safeguard.Intensity `yaml:"best_practice_ei" json:"best_practice_ei"`

	ROMCostCentre   string `yaml:"rom_cost_centre"  json:"rom_cost_centre"`
	ROMKeyword      string `yaml:"rom_keyword"      json:"rom_keyword"`
	SiteElectricity string `yaml:"site_electricity" json:"site_electricity"`
	GridElectricity string `yaml:"grid_electricity" json:"grid_electricity"`

	TransportCostCentres []string `yaml:"transport_cost_centres" json:"transport_cost_centres"`
	TransportFuelKey     string   `yaml:"transport_fuel_key"     json:"transport_fuel_key"`
}

// SafeguardConfig holds the regulatory parameters.
type SafeguardConfig struct {
	Threshold       float64 `yaml:"threshold"        json:"threshold"`
	MinimumBaseline float64 `yaml:"minimum_baseline" json:"minimum_baseline"`
	SafeguardStart  Date    `yaml:"safeguard_start"  json:"safeguard_start"`
	CreditStart     Date    `yaml:"credit_start"     json:"credit_start"`

	// Benchmark is "default" or "best_practice".
	Benchmark string `yaml:"benchmark" json:"benchmark"`

	Decline    safeguard.DeclineSchedule    `yaml:"decline"    json:"decline"`
	Transition safeguard.TransitionSchedule `yaml:"transition" json:"transition"`
	OptIn      safeguard.OptIn              `yaml:"opt_in"     json:"opt_in"`
}

// PhasesConfig holds the operational phase boundaries.
type PhasesConfig struct {
	Start             Date `yaml:"start"              json:"start"`
	EndMining         Date `yaml:"end_mining"         json:"end_mining"`
	EndProcessing     Date `yaml:"end_processing"     json:"end_processing"`
	EndRehabilitation Date `yaml:"end_rehabilitation" json:"end_rehabilitation"`
	GridConnection    Date `yaml:"grid_connection"    json:"grid_connection"`
}

// FactorsConfig locates the emission factor table.
type FactorsConfig struct {
	Path  string `yaml:"path"  json:"path"`
	Sheet string `yaml:"sheet" json:"sheet"`

	// Categories are the fuel category keys known to the ledger, most
	// specific first.
	Categories []string `yaml:"categories" json:"categories"`

	// Aliases pin ledger fuel categories to factor keys.
	Aliases map[string]string `yaml:"aliases,omitempty" json:"aliases,omitempty"`

	Cache CacheConfig `yaml:"cache" json:"cache"`
}

// CacheConfig controls the parsed workbook cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"     json:"enabled"`
	Directory  string `yaml:"directory"   json:"directory"`
	TTLSeconds int    `yaml:"ttl_seconds" json:"ttl_seconds"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	Precision     int    `yaml:"precision"      json:"precision"`
	YearType      string `yaml:"year_type"      json:"year_type"`
	DataSet       string `yaml:"dataset"        json:"dataset"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"  json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file"   json:"file"`
}

// Date is a calendar date written as YYYY-MM-DD. The zero Date is written
// as an empty string.
type Date struct {
	time.Time
}

// NewDate returns the Date for y-m-d.
func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// MarshalYAML implements yaml.Marshaler.
func (d Date) MarshalYAML() (interface{}, error) {
	if d.IsZero() {
		return "", nil
	}
	return d.Format(time.DateOnly), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	s := strings.TrimSpace(value.Value)
	if s == "" || s == "~" || value.Tag == "!!null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("line %d: date %q must be YYYY-MM-DD: %w", value.Line, s, err)
	}
	d.Time = t
	return nil
}

// New returns the configuration of the modelled facility.
func New() *Config {
	p := safeguard.DefaultParams()
	return &Config{
		Version: CurrentVersion,
		Facility: FacilityConfig{
			Name:                 "Ravenswood Gold Mine",
			State:                "QLD",
			FSEI:                 p.FSEI,
			DefaultEI:            p.DefaultEI,
			BestPracticeEI:       p.BestPracticeEI,
			ROMCostCentre:        "ROM",
			ROMKeyword:           "Ore",
			SiteElectricity:      "Site electricity",
			GridElectricity:      "Grid electricity",
			TransportCostCentres: []string{"Light Vehicles"},
			TransportFuelKey:     factors.DieselTransportKey,
		},
		Safeguard: SafeguardConfig{
			Threshold:       p.Threshold,
			MinimumBaseline: p.MinimumBaseline,
			SafeguardStart:  Date{p.SafeguardStart},
			CreditStart:     Date{p.CreditStart},
			Benchmark:       string(p.Benchmark),
			Decline:         p.Decline,
			Transition:      p.Transition,
			OptIn:           p.OptIn,
		},
		Phases: PhasesConfig{
			Start:             Date{p.Phases.Start},
			EndMining:         Date{p.Phases.EndMining},
			EndProcessing:     Date{p.Phases.EndProcessing},
			EndRehabilitation: Date{p.Phases.EndRehabilitation},
			GridConnection:    Date{p.Phases.GridConnection},
		},
		Market: MarketConfig{
			Currency:         "AUD",
			CreditPrice:      35,
			CreditEscalation: 0.03,
			TaxStart:         NewDate(2029, time.July, 1),
			TaxRate:          15,
			TaxEscalation:    0.02,
		},
		Factors: FactorsConfig{
			Path:       "nga-factors.csv",
			Categories: append([]string(nil), factors.DefaultFuelCategories...),
			Cache: CacheConfig{
				Enabled:    true,
				TTLSeconds: cache.DefaultTTLSeconds,
			},
		},
		Output: OutputConfig{
			DefaultFormat: "table",
			Precision:     2,
			YearType:      "FY",
			DataSet:       "Actual",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults, merges each overlay section by
// section, applies environment overrides and validates the result. An
// empty path loads the defaults. Missing overlays are skipped.
func Load(path string, overlays ...string) (*Config, error) {
	cfg := New()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %w", ErrInvalidConfig, path, err)
		}
		if err = CheckVersion(cfg.Version); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	for _, overlay := range overlays {
		if _, err := os.Stat(overlay); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := ShallowMergeYAML(cfg, overlay); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err = os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating config directory %s: %w", dir, err)
		}
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// CheckVersion accepts an empty version or one satisfying
// VersionConstraint.
func CheckVersion(version string) error {
	if version == "" {
		return nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: version %q is not semver: %w", ErrInvalidConfig, version, err)
	}
	constraint, err := semver.NewConstraint(VersionConstraint)
	if err != nil {
		return fmt.Errorf("parsing version constraint: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, v, VersionConstraint)
	}
	return nil
}

// ApplyEnv applies SAFEGUARD_* environment overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvFactorsPath); v != "" {
		c.Factors.Path = v
	}
	if v := os.Getenv(EnvState); v != "" {
		c.Facility.State = v
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = v
	}
	c.Factors.Cache.Enabled = cache.EnabledFromEnv(c.Factors.Cache.Enabled)
	c.Factors.Cache.TTLSeconds = cache.TTLFromEnv(c.Factors.Cache.TTLSeconds)
	if v := os.Getenv(cache.EnvCacheDir); v != "" {
		c.Factors.Cache.Directory = v
	}
}
