package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rshade/safeguard/internal/config"
	"github.com/rshade/safeguard/internal/finance"
	"github.com/rshade/safeguard/internal/logging"
	"github.com/rshade/safeguard/internal/safeguard"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNew_MatchesEngineDefaults(t *testing.T) {
	cfg := config.New()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, safeguard.DefaultParams(), cfg.SafeguardParams())

	want := finance.DefaultMarket()
	got := cfg.FinanceMarket()
	assert.Equal(t, want.Currency, got.Currency)
	assert.Equal(t, want.CreditStartFY, got.CreditStartFY)
	assert.Equal(t, want.TaxStartFY, got.TaxStartFY)
	assert.True(t, want.CreditPrice.Equal(got.CreditPrice))
	assert.True(t, want.CreditEscalation.Equal(got.CreditEscalation))
	assert.True(t, want.TaxRate.Equal(got.TaxRate))
	assert.True(t, want.TaxEscalation.Equal(got.TaxEscalation))
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.CurrentVersion, cfg.Version)
	assert.Equal(t, "QLD", cfg.Facility.State)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
version: 1.2.0
facility:
  state: NSW
  rom_cost_centre: ROM
safeguard:
  threshold: 50000
  credit_start: 2024-07-01
  benchmark: best_practice
market:
  credit_price: 40.5
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "NSW", cfg.Facility.State)
	// Unset fields inside a section keep their defaults.
	assert.Equal(t, "Ore", cfg.Facility.ROMKeyword)
	assert.InDelta(t, 50000, cfg.Safeguard.Threshold, 1e-9)

	p := cfg.SafeguardParams()
	assert.Equal(t, safeguard.BenchmarkBestPractice, p.Benchmark)
	assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), p.CreditStart)

	m := cfg.FinanceMarket()
	assert.Equal(t, 2025, m.CreditStartFY)
	assert.True(t, decimal.RequireFromString("40.5").Equal(m.CreditPrice))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "major version",
			content: "version: 2.0.0\n",
			wantErr: config.ErrUnsupportedVersion,
		},
		{
			name:    "version not semver",
			content: "version: latest\n",
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "bad date",
			content: "safeguard:\n  credit_start: 01/07/2023\n",
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "unknown output format",
			content: "output:\n  default_format: xml\n",
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "negative intensity",
			content: "facility:\n  state: QLD\n  rom_cost_centre: ROM\n  fsei:\n    rom: -1\n    electricity: 0.9\n",
			wantErr: safeguard.ErrInvalidParams,
		},
		{
			name:    "negative credit price",
			content: "market:\n  credit_price: -1\n",
			wantErr: finance.ErrInvalidMarket,
		},
		{
			name:    "alias to unknown key",
			content: "factors:\n  aliases:\n    Diesel: Kerosene\n",
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "debug")
	t.Setenv(config.EnvState, "WA")
	t.Setenv(config.EnvOutputFormat, "json")
	t.Setenv(config.EnvFactorsPath, "/data/nga.xlsx")

	cfg, err := config.Load(writeConfig(t, "facility:\n  state: NSW\n  rom_cost_centre: ROM\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "WA", cfg.Facility.State)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	assert.Equal(t, "/data/nga.xlsx", cfg.Factors.Path)
}

func TestLoad_OverlayReplacesSection(t *testing.T) {
	base := writeConfig(t, `
output:
  default_format: csv
  precision: 3
  year_type: CY
  dataset: Actual
`)
	overlay := writeConfig(t, `
output:
  default_format: json
  precision: 1
  year_type: FY
  dataset: Budget
`)
	missing := filepath.Join(t.TempDir(), "none.yaml")

	cfg, err := config.Load(base, missing, overlay)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	assert.Equal(t, "Budget", cfg.Output.DataSet)
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := config.New()
	cfg.Facility.Name = "Test Site"
	cfg.Factors.Aliases = map[string]string{"Automotive diesel": "Diesel oil"}
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, cfg.Save(path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Test Site", loaded.Facility.Name)
	assert.Equal(t, cfg.SafeguardParams(), loaded.SafeguardParams())
	assert.Equal(t, "Diesel oil", loaded.Factors.Aliases["Automotive diesel"])
}

func TestDate_YAML(t *testing.T) {
	var v struct {
		D config.Date `yaml:"d"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("d: 2027-07-01\n"), &v))
	assert.Equal(t, config.NewDate(2027, time.July, 1), v.D)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(out), "2027-07-01")

	require.NoError(t, yaml.Unmarshal([]byte("d:\n"), &v))
	assert.True(t, v.D.IsZero())
}

func TestCheckVersion(t *testing.T) {
	assert.NoError(t, config.CheckVersion(""))
	assert.NoError(t, config.CheckVersion("1.0.0"))
	assert.NoError(t, config.CheckVersion("1.9.3"))
	assert.ErrorIs(t, config.CheckVersion("0.9.0"), config.ErrUnsupportedVersion)
	assert.ErrorIs(t, config.CheckVersion("2.0.0"), config.ErrUnsupportedVersion)
}

func TestProjectionOptions(t *testing.T) {
	cfg := config.New()
	cfg.Output.DataSet = "Budget"
	cfg.Factors.Aliases = map[string]string{"Automotive diesel": "Diesel oil"}

	opts := cfg.ProjectionOptions()
	assert.Equal(t, "Budget", opts.DataSet)
	assert.Equal(t, "ROM", opts.ROMCostCentre)
	assert.Equal(t, "QLD", opts.State)
	assert.Equal(t, cfg.Factors.Categories, opts.Categories)
	assert.Equal(t, []string{"Light Vehicles"}, opts.Ledger.TransportCostCentres)

	// Options own their slices and maps.
	opts.Categories[0] = "changed"
	opts.Aliases["Automotive diesel"] = "changed"
	assert.NotEqual(t, "changed", cfg.Factors.Categories[0])
	assert.Equal(t, "Diesel oil", cfg.Factors.Aliases["Automotive diesel"])
}

func TestFactorLoadOptions(t *testing.T) {
	cfg := config.New()
	cfg.Factors.Sheet = "Table 8"
	cfg.Factors.Cache.Directory = t.TempDir()

	opts, err := cfg.FactorLoadOptions()
	require.NoError(t, err)
	assert.Equal(t, "Table 8", opts.Sheet)
	require.NotNil(t, opts.Cache)
}

func TestToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "debug", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputStderr, got.Output)

	lc.File = "/var/log/safeguard.log"
	got = lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, got.Output)
	assert.Equal(t, "/var/log/safeguard.log", got.File)
	assert.Equal(t, "debug", got.Level)
}

func TestPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)

	dir, err := config.GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, home, dir)

	path, err := config.DefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "config.yaml"), path)

	assert.Equal(t, filepath.Join("proj", ".safeguard", "config.yaml"), config.ProjectConfigPath("proj"))
	require.NoError(t, config.EnsureConfigDir())

	cfg := config.New()
	cfg.Logging.File = filepath.Join(home, "logs", "safeguard.log")
	require.NoError(t, cfg.EnsureLogDir())
	_, err = os.Stat(filepath.Join(home, "logs"))
	assert.NoError(t, err)
}
