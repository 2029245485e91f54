package projection

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/safeguard/internal/factors"
	"github.com/rshade/safeguard/internal/ledger"
	"github.com/rshade/safeguard/internal/logging"
)

// Scenario is a named set of build options.
type Scenario struct {
	Name    string
	Options Options
}

// ScenarioResult is one scenario's projection and the diagnostics raised
// while building it.
type ScenarioResult struct {
	Name        string
	Projection  *Projection
	Diagnostics []logging.Diagnostic
}

// RunScenarios builds every scenario concurrently over the same ledger
// entries. Each scenario aggregates and calculates the entries under its
// own options, so ledger options, categories and aliases may differ. The
// store is shared read-only; each build gets its own factor map, output and
// diagnostics sink. Results are returned in input order. The first failing
// scenario cancels the rest.
func RunScenarios(ctx context.Context, entries []ledger.Entry, store *factors.Store, scenarios []Scenario) ([]ScenarioResult, error) {
	logger := logging.FromContext(ctx).With().
		Str("component", "projection").
		Str("operation", "RunScenarios").
		Logger()

	results := make([]ScenarioResult, len(scenarios))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, sc := range scenarios {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			diags := logging.NewDiagnostics()
			sctx := logging.ContextWithDiagnostics(gCtx, diags)

			b, err := NewBuilder(store, sc.Options)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			rows, _, err := PrepareLedger(sctx, entries, store, sc.Options)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			p, err := b.Build(sctx, rows)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			results[i] = ScenarioResult{Name: sc.Name, Projection: p, Diagnostics: diags.Items()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug().Int("scenarios", len(scenarios)).Msg("scenarios built")
	return results, nil
}
