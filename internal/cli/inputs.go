package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/safeguard/internal/calendar"
	"github.com/rshade/safeguard/internal/config"
	"github.com/rshade/safeguard/internal/factors"
	"github.com/rshade/safeguard/internal/ledger"
	"github.com/rshade/safeguard/internal/projection"
	"github.com/rshade/safeguard/internal/units"
)

// inputFlags are the flags shared by the ledger-driven commands.
type inputFlags struct {
	ledger  string
	factors string
	dataset string
	output  string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ledger, "ledger", "", "consolidated consumption ledger CSV (required)")
	cmd.Flags().StringVar(&f.factors, "factors", "", "emission factor table, .csv or .xlsx (default factors.path)")
	cmd.Flags().StringVar(&f.dataset, "dataset", "", "dataset treated as actuals (default output.dataset)")
	cmd.Flags().StringVar(&f.output, "output", "", "output format: table, json, ndjson or csv (default output.default_format)")
	_ = cmd.MarkFlagRequired("ledger")
}

// apply copies flag overrides onto cfg.
func (f *inputFlags) apply(cfg *config.Config) {
	if f.factors != "" {
		cfg.Factors.Path = f.factors
	}
	if f.dataset != "" {
		cfg.Output.DataSet = f.dataset
	}
	if f.output != "" {
		cfg.Output.DefaultFormat = f.output
	}
}

// errNoLedger is returned when --ledger is blank.
var errNoLedger = errors.New("--ledger is required")

// openStore loads the configured factor table.
func openStore(ctx context.Context, cfg *config.Config) (*factors.Store, error) {
	loadOpts, err := cfg.FactorLoadOptions()
	if err != nil {
		return nil, fmt.Errorf("opening factor cache: %w", err)
	}
	store, err := factors.LoadFile(ctx, cfg.Factors.Path, loadOpts)
	if err != nil {
		return nil, fmt.Errorf("loading factor table: %w", err)
	}
	return store, nil
}

// loadInputs opens the factor table and reads the ledger with emissions
// computed for every row.
func loadInputs(ctx context.Context, cfg *config.Config, ledgerPath string) (*factors.Store, []ledger.Row, error) {
	if ledgerPath == "" {
		return nil, nil, &ExitError{Code: ExitConfig, Err: errNoLedger}
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	rows, _, err := projection.LoadLedger(ctx, ledgerPath, store, cfg.ProjectionOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("loading ledger: %w", err)
	}
	return store, rows, nil
}

// loadEntries opens the factor table and reads the raw ledger entries.
func loadEntries(ctx context.Context, cfg *config.Config, ledgerPath string) (*factors.Store, []ledger.Entry, error) {
	if ledgerPath == "" {
		return nil, nil, &ExitError{Code: ExitConfig, Err: errNoLedger}
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	entries, err := ledger.ReadFile(ledgerPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading ledger: %w", err)
	}
	return store, entries, nil
}

// numberFormatter returns thousands-separated numbers for tables and plain
// numbers for machine-readable formats.
func numberFormatter(f OutputFormat, precision int) func(float64) string {
	if f == OutputTable {
		return func(v float64) string { return units.FormatFloat(v, precision) }
	}
	return func(v float64) string { return strconv.FormatFloat(v, 'f', precision, 64) }
}

// tableReport converts a column table into report rows and records. The
// first column holds labels.
func tableReport(labelHeader string, labels []string, t *calendar.Table, format func(float64) string) Report {
	cols := t.Columns()
	rep := Report{
		Header:  append([]string{labelHeader}, cols...),
		Rows:    make([][]string, t.Len()),
		Records: make([]any, t.Len()),
	}
	for i := 0; i < t.Len(); i++ {
		row := make([]string, 0, len(cols)+1)
		row = append(row, labels[i])
		rec := map[string]any{labelHeader: labels[i]}
		for _, c := range cols {
			if vals, ok := t.Numeric[c]; ok {
				row = append(row, format(vals[i]))
				rec[c] = vals[i]
				continue
			}
			row = append(row, t.Text[c][i])
			rec[c] = t.Text[c][i]
		}
		rep.Rows[i] = row
		rep.Records[i] = rec
	}
	return rep
}

// monthLabels renders row dates as YYYY-MM.
func monthLabels(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format("2006-01")
	}
	return out
}
