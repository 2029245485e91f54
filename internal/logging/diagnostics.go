package logging

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Severity grades a diagnostic.
type Severity string

// Diagnostic severities.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic codes recorded by the calculation packages.
const (
	CodeFactorYearSubstituted = "factor_year_substituted"
	CodeUnitMismatch          = "unit_mismatch"
	CodeUnmappedCategory      = "unmapped_fuel_category"
	CodeAmbiguousCategory     = "ambiguous_fuel_category"
	CodeMissingYearFactors    = "missing_year_factors"
	CodeMissingScope3         = "missing_scope3_factor"
	CodeDayAsMonthRepaired    = "day_as_month_repaired"
	CodeTransportReclassified = "transport_reclassified"
	CodeEmptyDataset          = "empty_dataset"
	CodeEvenDistribution      = "even_distribution"
)

// Diagnostic is one recoverable data-quality finding.
type Diagnostic struct {
	Severity Severity          `json:"severity"`
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// Diagnostics is a thread-safe, de-duplicating collector of diagnostics.
// The zero value is ready to use.
type Diagnostics struct {
	mu    sync.Mutex
	items []Diagnostic
	seen  map[string]struct{}
}

// NewDiagnostics returns an empty collector.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// Add appends d unless an identical diagnostic was already recorded.
func (d *Diagnostics) Add(diag Diagnostic) bool {
	if d == nil {
		return false
	}
	key := dedupKey(diag)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen == nil {
		d.seen = make(map[string]struct{})
	}
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	d.items = append(d.items, diag)
	return true
}

// Items returns a copy of the recorded diagnostics in insertion order.
func (d *Diagnostics) Items() []Diagnostic {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Diagnostic, len(d.items))
	copy(out, d.items)
	return out
}

// Len returns the number of recorded diagnostics.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// Count returns how many diagnostics carry the given code.
func (d *Diagnostics) Count(code string) int {
	n := 0
	for _, item := range d.Items() {
		if item.Code == code {
			n++
		}
	}
	return n
}

func dedupKey(diag Diagnostic) string {
	keys := make([]string, 0, len(diag.Fields))
	for k := range diag.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	key := string(diag.Severity) + "|" + diag.Code + "|" + diag.Message
	for _, k := range keys {
		key += "|" + k + "=" + diag.Fields[k]
	}
	return key
}

type diagnosticsKey struct{}

// ContextWithDiagnostics attaches a diagnostics sink to ctx.
func ContextWithDiagnostics(ctx context.Context, d *Diagnostics) context.Context {
	return context.WithValue(ctx, diagnosticsKey{}, d)
}

// DiagnosticsFromContext returns the sink attached to ctx, or nil.
func DiagnosticsFromContext(ctx context.Context) *Diagnostics {
	if ctx == nil {
		return nil
	}
	d, _ := ctx.Value(diagnosticsKey{}).(*Diagnostics)
	return d
}

// Report records a diagnostic in the context's sink and logs it at a level
// matching its severity. Repeated identical diagnostics are logged once.
func Report(ctx context.Context, diag Diagnostic) {
	sink := DiagnosticsFromContext(ctx)
	if sink != nil && !sink.Add(diag) {
		return
	}

	logger := FromContext(ctx)
	var evt *zerolog.Event
	switch diag.Severity {
	case SeverityError:
		evt = logger.Error()
	case SeverityInfo:
		evt = logger.Info()
	default:
		evt = logger.Warn()
	}
	evt = evt.Ctx(ctx).Str("code", diag.Code)
	for k, v := range diag.Fields {
		evt = evt.Str(k, v)
	}
	evt.Msg(diag.Message)
}
