package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/safeguard/internal/cli"
	"github.com/rshade/safeguard/internal/config"
	"github.com/rshade/safeguard/internal/ledger"
	"github.com/rshade/safeguard/internal/logging"
)

func sampleReport() cli.Report {
	return cli.Report{
		Title:   "Sample",
		Header:  []string{"FY", "Value"},
		Rows:    [][]string{{"FY2024", "1,000.00"}, {"FY2025", "2,000.00"}},
		Records: []any{map[string]any{"fy": 2024}, map[string]any{"fy": 2025}},
		Meta:    map[string]any{"currency": "AUD"},
	}
}

func sampleDiagnostics() []logging.Diagnostic {
	return []logging.Diagnostic{{
		Severity: logging.SeverityWarning,
		Code:     logging.CodeFactorYearSubstituted,
		Message:  "using nearest year",
	}}
}

func TestParseOutputFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", " ndjson ", "csv"} {
		_, err := cli.ParseOutputFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := cli.ParseOutputFormat("yaml")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRender_Table(t *testing.T) {
	var out, errOut bytes.Buffer
	rep := sampleReport()
	rep.Summary = &cli.Summary{
		Title: "Headline",
		Lines: []cli.SummaryLine{{Label: "Exit year", Value: "none"}, {Label: "SMC", Value: "-10", Alert: true}},
	}

	require.NoError(t, cli.Render(&out, &errOut, cli.OutputTable, rep, sampleDiagnostics()))
	s := out.String()
	assert.Contains(t, s, "Headline")
	assert.Contains(t, s, "-10 (!)")
	assert.Contains(t, s, "FY2025")
	assert.Contains(t, s, "WARNINGS (1)")
	assert.Contains(t, s, "[WARNING] factor_year_substituted")
	assert.Less(t, strings.Index(s, "FY2025"), strings.Index(s, "WARNINGS"))
	assert.Empty(t, errOut.String())
}

func TestRender_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cli.Render(&out, &bytes.Buffer{}, cli.OutputJSON, sampleReport(), nil))

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.JSONEq(t, `"AUD"`, string(doc["currency"]))
	assert.JSONEq(t, `[{"fy":2024},{"fy":2025}]`, string(doc["results"]))
	assert.JSONEq(t, `[]`, string(doc["diagnostics"]))
}

func TestRender_NDJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cli.Render(&out, &bytes.Buffer{}, cli.OutputNDJSON, sampleReport(), sampleDiagnostics()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"fy":2024}`, lines[0])
	assert.Contains(t, lines[2], `"diagnostics":[`)
	assert.Contains(t, lines[2], logging.CodeFactorYearSubstituted)
}

func TestRender_CSVWarningsGoToStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, cli.Render(&out, &errOut, cli.OutputCSV, sampleReport(), sampleDiagnostics()))

	assert.Equal(t, "FY,Value\nFY2024,\"1,000.00\"\nFY2025,\"2,000.00\"\n", out.String())
	assert.Contains(t, errOut.String(), "WARNINGS (1)")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, cli.ExitOK},
		{"generic", errors.New("boom"), cli.ExitGeneral},
		{"explicit", &cli.ExitError{Code: 7, Err: errors.New("x")}, 7},
		{"wrapped config", fmt.Errorf("loading: %w", config.ErrInvalidConfig), cli.ExitConfig},
		{"ledger date", fmt.Errorf("reading: %w", ledger.ErrInvalidDate), cli.ExitConfig},
		{"joined", errors.Join(errors.New("a"), ledger.ErrInvalidQuantity), cli.ExitConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}
