package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rshade/safeguard/internal/config"
	"github.com/rshade/safeguard/internal/logging"
)

// OutputFormat selects a renderer.
type OutputFormat string

// Supported output formats.
const (
	OutputTable  OutputFormat = config.FormatTable
	OutputJSON   OutputFormat = config.FormatJSON
	OutputNDJSON OutputFormat = config.FormatNDJSON
	OutputCSV    OutputFormat = config.FormatCSV
)

// tabwriterPadding is the minimum padding between table columns.
const tabwriterPadding = 2

// ParseOutputFormat accepts table, json, ndjson or csv in any case.
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case OutputTable, OutputJSON, OutputNDJSON, OutputCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown output format %q (want %s)",
			config.ErrInvalidConfig, s, strings.Join(config.OutputFormats, ", "))
	}
}

// Report is one command's output. Header and Rows feed the table and CSV
// renderers; Records feed JSON and NDJSON.
type Report struct {
	Title   string
	Header  []string
	Rows    [][]string
	Records []any

	// Meta is merged into the JSON document next to the results.
	Meta map[string]any

	// Summary, when set, is drawn before the table.
	Summary *Summary
}

// Render writes rep in format f. Diagnostics follow table output under a
// WARNINGS heading, are embedded in JSON, end NDJSON as a final
// {"diagnostics":[...]} line, and go to errW for CSV.
func Render(w, errW io.Writer, f OutputFormat, rep Report, diags []logging.Diagnostic) error {
	switch f {
	case OutputJSON:
		return renderJSON(w, rep, diags)
	case OutputNDJSON:
		return renderNDJSON(w, rep, diags)
	case OutputCSV:
		if err := renderCSV(w, rep); err != nil {
			return err
		}
		return renderWarnings(errW, diags)
	default:
		if rep.Summary != nil {
			if err := RenderSummary(w, *rep.Summary); err != nil {
				return err
			}
		}
		if err := renderTable(w, rep); err != nil {
			return err
		}
		return renderWarnings(w, diags)
	}
}

func renderTable(w io.Writer, rep Report) error {
	if rep.Title != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", rep.Title); err != nil {
			return err
		}
	}
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(rep.Header, "\t")+"\t")
	for _, row := range rep.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}

func renderCSV(w io.Writer, rep Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rep.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(rep.Rows); err != nil {
		return err
	}
	return cw.Error()
}

func renderJSON(w io.Writer, rep Report, diags []logging.Diagnostic) error {
	doc := make(map[string]any, len(rep.Meta)+2)
	for k, v := range rep.Meta {
		doc[k] = v
	}
	records := rep.Records
	if records == nil {
		records = []any{}
	}
	doc["results"] = records
	if diags == nil {
		diags = []logging.Diagnostic{}
	}
	doc["diagnostics"] = diags

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func renderNDJSON(w io.Writer, rep Report, diags []logging.Diagnostic) error {
	enc := json.NewEncoder(w)
	for _, rec := range rep.Records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	if diags == nil {
		diags = []logging.Diagnostic{}
	}
	return enc.Encode(struct {
		Diagnostics []logging.Diagnostic `json:"diagnostics"`
	}{diags})
}

func renderWarnings(w io.Writer, diags []logging.Diagnostic) error {
	if len(diags) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\nWARNINGS (%d)\n", len(diags)); err != nil {
		return err
	}
	for _, d := range diags {
		line := fmt.Sprintf("  [%s] %s: %s", strings.ToUpper(string(d.Severity)), d.Code, d.Message)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
