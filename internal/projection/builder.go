package projection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rshade/safeguard/internal/emissions"
	"github.com/rshade/safeguard/internal/factors"
	"github.com/rshade/safeguard/internal/ledger"
	"github.com/rshade/safeguard/internal/logging"
	"github.com/rshade/safeguard/internal/safeguard"
)

// Build errors for an unusable dataset split.
var (
	ErrNoActuals = errors.New("no rows for requested dataset")
	ErrNoBudget  = errors.New("no budget rows")
)

// Projection is the output of one build. All slices are owned by the
// caller.
type Projection struct {
	DataSet    string
	LastActual time.Time

	// Rows are the merged detail rows: actuals followed by budget fill,
	// sorted.
	Rows      []ledger.Row
	Actuals   int
	FillRows  int
	Emissions emissions.Summary

	Months []safeguard.MonthResult
	Years  []safeguard.AnnualRecord
	ExitFY int
}

// Builder builds projections against a read-only factor store.
type Builder struct {
	store  *factors.Store
	opts   Options
	engine *safeguard.Engine
}

// NewBuilder validates opts and returns a builder.
func NewBuilder(store *factors.Store, opts Options) (*Builder, error) {
	engine, err := safeguard.NewEngine(opts.Params)
	if err != nil {
		return nil, err
	}
	if opts.DataSet == "" {
		opts.DataSet = ledger.DataSetActual
	}
	return &Builder{store: store, opts: opts, engine: engine}, nil
}

// Options returns the builder's options.
func (b *Builder) Options() Options {
	return b.opts
}

// Build merges the requested dataset with budget rows, recalculates
// emissions for the budget fill, aggregates to months and runs the
// safeguard engine. Actual rows win over budget rows with the same date and
// description. A split with no actual or no budget rows returns an empty
// projection together with ErrNoActuals or ErrNoBudget. Any factor
// configuration error aborts the build.
func (b *Builder) Build(ctx context.Context, rows []ledger.Row) (*Projection, error) {
	logger := logging.FromContext(ctx).With().
		Str("component", "projection").
		Str("operation", "Build").
		Str("dataset", b.opts.DataSet).
		Logger()

	out := &Projection{DataSet: b.opts.DataSet}

	actuals, budget := ledger.Split(rows, b.opts.DataSet)
	if len(actuals) == 0 {
		reportEmpty(ctx, b.opts.DataSet)
		return out, fmt.Errorf("%w: %q", ErrNoActuals, b.opts.DataSet)
	}
	if len(budget) == 0 {
		reportEmpty(ctx, ledger.DataSetBudget)
		return out, ErrNoBudget
	}

	have := make(map[ledger.MergeKey]bool, len(actuals))
	for _, r := range actuals {
		have[r.Key()] = true
		if r.Date.After(out.LastActual) {
			out.LastActual = r.Date
		}
	}
	var fill []ledger.Row
	for _, r := range budget {
		if !have[r.Key()] {
			fill = append(fill, r)
		}
	}

	if len(fill) > 0 {
		fm, err := factors.BuildFactorMap(ctx, b.store, ledger.FiscalYears(fill), b.opts.Categories, b.opts.State)
		if err != nil {
			return nil, fmt.Errorf("building projection for %s: %w", b.opts.DataSet, err)
		}
		fill, out.Emissions = emissions.Apply(ctx, fill, fm, emissions.WithAliases(b.opts.Aliases))
	}

	merged := make([]ledger.Row, 0, len(actuals)+len(fill))
	merged = append(merged, actuals...)
	merged = append(merged, fill...)
	ledger.SortRows(merged)

	res, err := b.engine.Calculate(ctx, AggregateMonthly(merged, b.opts))
	if err != nil {
		return nil, fmt.Errorf("building projection for %s: %w", b.opts.DataSet, err)
	}

	out.Rows = merged
	out.Actuals = len(actuals)
	out.FillRows = len(fill)
	out.Months = res.Months
	out.Years = res.Years
	out.ExitFY = res.ExitFY

	logger.Info().
		Int("actual_rows", len(actuals)).
		Int("budget_rows", len(budget)).
		Int("fill_rows", len(fill)).
		Time("last_actual", out.LastActual).
		Int("months", len(out.Months)).
		Int("exit_fy", out.ExitFY).
		Msg("projection built")
	return out, nil
}

func reportEmpty(ctx context.Context, dataSet string) {
	logging.Report(ctx, logging.Diagnostic{
		Severity: logging.SeverityError,
		Code:     logging.CodeEmptyDataset,
		Message:  "dataset has no rows, projection not built",
		Fields:   map[string]string{"dataset": dataSet},
	})
}
