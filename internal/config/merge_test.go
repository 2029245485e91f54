package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/safeguard/internal/config"
)

// writeOverlay is a test helper that writes YAML content to a temp file
// and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := config.New()
	overlay := writeOverlay(t, `
output:
  default_format: json
  precision: 4
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "json", target.Output.DefaultFormat)
	assert.Equal(t, 4, target.Output.Precision)
	// The whole section is replaced, so unset fields are zero.
	assert.Empty(t, target.Output.YearType)

	assert.Equal(t, "info", target.Logging.Level)
	assert.Equal(t, "QLD", target.Facility.State)
}

func TestShallowMergeYAML_MultipleKeys(t *testing.T) {
	target := config.New()
	overlay := writeOverlay(t, `
logging:
  level: debug
  format: json
phases:
  start: 2024-01-01
  end_mining: 2030-06-30
  end_processing: 2031-06-30
  end_rehabilitation: 2035-06-30
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "debug", target.Logging.Level)
	assert.Equal(t, 2030, target.Phases.EndMining.Year())
	assert.True(t, target.Phases.GridConnection.IsZero())
}

func TestShallowMergeYAML_MapReplacedNotMerged(t *testing.T) {
	target := config.New()
	target.Factors.Aliases = map[string]string{"ULP": "Gasoline"}
	overlay := writeOverlay(t, `
factors:
  path: other.xlsx
  categories: [Diesel oil]
  aliases:
    Fuel: Diesel oil
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, map[string]string{"Fuel": "Diesel oil"}, target.Factors.Aliases)
	assert.Equal(t, []string{"Diesel oil"}, target.Factors.Categories)
}

func TestShallowMergeYAML_UnknownKeysIgnored(t *testing.T) {
	target := config.New()
	overlay := writeOverlay(t, `
plugins:
  aws: {}
market:
  currency: USD
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, "USD", target.Market.Currency)
}

func TestShallowMergeYAML_EmptyFile(t *testing.T) {
	target := config.New()
	before := *target

	require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, "# nothing here\n")))
	assert.Equal(t, before.Output, target.Output)
	assert.Equal(t, before.Facility.State, target.Facility.State)
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	t.Run("nil target", func(t *testing.T) {
		assert.Error(t, config.ShallowMergeYAML(nil, writeOverlay(t, "output: {}\n")))
	})

	t.Run("missing file", func(t *testing.T) {
		err := config.ShallowMergeYAML(config.New(), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		assert.Error(t, config.ShallowMergeYAML(config.New(), writeOverlay(t, "output: [unclosed\n")))
	})

	t.Run("type mismatch", func(t *testing.T) {
		assert.Error(t, config.ShallowMergeYAML(config.New(), writeOverlay(t, "output:\n  precision: many\n")))
	})

	t.Run("unsupported version", func(t *testing.T) {
		err := config.ShallowMergeYAML(config.New(), writeOverlay(t, "version: 3.0.0\n"))
		assert.ErrorIs(t, err, config.ErrUnsupportedVersion)
	})
}
