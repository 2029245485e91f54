package ledger

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rshade/safeguard/internal/logging"
)

// Options controls PrepareEntries.
type Options struct {
	// TransportCostCentres lists cost centres whose diesel is transport use.
	TransportCostCentres []string

	// TransportFuelKey is the fuel category assigned to transport diesel.
	TransportFuelKey string
}

// PrepareEntries repairs day-as-month encoded fuel rows, aggregates to
// monthly rows and reclassifies transport diesel. Emissions are not yet
// calculated. entries is not modified, so one read ledger can be prepared
// under several option sets.
func PrepareEntries(ctx context.Context, entries []Entry, opts Options) []Row {
	logger := logging.FromContext(ctx).With().
		Str("component", "ledger").
		Str("operation", "PrepareEntries").
		Logger()

	entries = append([]Entry(nil), entries...)
	if n := RepairDayAsMonth(entries); n > 0 {
		logging.Report(ctx, logging.Diagnostic{
			Severity: logging.SeverityInfo,
			Code:     logging.CodeDayAsMonthRepaired,
			Message:  "fuel rows stored as January day N remapped to month N",
			Fields:   map[string]string{"rows": strconv.Itoa(n)},
		})
	}

	rows := Aggregate(entries)

	if n := ReclassifyTransport(rows, opts.TransportCostCentres, opts.TransportFuelKey); n > 0 {
		logging.Report(ctx, logging.Diagnostic{
			Severity: logging.SeverityInfo,
			Code:     logging.CodeTransportReclassified,
			Message:  "diesel rows reclassified to the transport factor",
			Fields: map[string]string{
				"rows":         strconv.Itoa(n),
				"cost_centres": strings.Join(opts.TransportCostCentres, ","),
			},
		})
	}

	logger.Info().
		Int("entries", len(entries)).
		Int("rows", len(rows)).
		Strs("datasets", DataSets(rows)).
		Msg("ledger aggregated to monthly rows")
	return rows
}

// ReadFile is ReadCSV over a file path.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	entries, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("loading ledger %s: %w", path, err)
	}
	return entries, nil
}
