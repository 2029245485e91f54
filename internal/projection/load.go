package projection

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rshade/safeguard/internal/emissions"
	"github.com/rshade/safeguard/internal/factors"
	"github.com/rshade/safeguard/internal/ledger"
)

// ReadLedger prepares ledger rows from r and calculates emissions for all
// of them, using a factor map built for every fiscal year present.
func ReadLedger(ctx context.Context, r io.Reader, store *factors.Store, opts Options) ([]ledger.Row, emissions.Summary, error) {
	entries, err := ledger.ReadCSV(r)
	if err != nil {
		return nil, emissions.Summary{}, err
	}
	return PrepareLedger(ctx, entries, store, opts)
}

// PrepareLedger aggregates entries under opts.Ledger and calculates
// emissions with opts' categories, state and aliases.
func PrepareLedger(ctx context.Context, entries []ledger.Entry, store *factors.Store, opts Options) ([]ledger.Row, emissions.Summary, error) {
	rows := ledger.PrepareEntries(ctx, entries, opts.Ledger)
	if len(rows) == 0 {
		return rows, emissions.Summary{}, nil
	}

	fm, err := factors.BuildFactorMap(ctx, store, ledger.FiscalYears(rows), opts.Categories, opts.State)
	if err != nil {
		return nil, emissions.Summary{}, err
	}
	rows, sum := emissions.Apply(ctx, rows, fm, emissions.WithAliases(opts.Aliases))
	return rows, sum, nil
}

// LoadLedger is ReadLedger over a file path.
func LoadLedger(ctx context.Context, path string, store *factors.Store, opts Options) ([]ledger.Row, emissions.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, emissions.Summary{}, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	rows, sum, err := ReadLedger(ctx, f, store, opts)
	if err != nil {
		return nil, emissions.Summary{}, fmt.Errorf("loading ledger %s: %w", path, err)
	}
	return rows, sum, nil
}
