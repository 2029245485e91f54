// Package ledger reads the consolidated consumption ledger, repairs known
// encoding defects and aggregates it to one row per month and ledger line.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Ledger column names.
const (
	ColDate        = "Date"
	ColDataSet     = "DataSet"
	ColDescription = "Description"
	ColDepartment  = "Department"
	ColCostCentre  = "CostCentre"
	ColState       = "State"
	ColUOM         = "UOM"
	ColQuantity    = "Quantity"
	ColFuel        = "NGAFuel"
	ColSource      = "Source"
)

// Dataset tags with fixed meaning.
const (
	DataSetActual = "Actual"
	DataSetBudget = "Budget"
)

//nolint:gochecknoglobals // fixed ledger schema
var requiredColumns = []string{ColDate, ColDataSet, ColDescription, ColQuantity}

// dateLayouts are tried in order; all are day-first.
//
//nolint:gochecknoglobals // fixed parse table
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2/1/06",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04",
	"2/1/2006 15:04",
	"02-01-2006",
	"2-1-2006",
}

// Entry is one raw ledger line.
type Entry struct {
	Line         int
	Date         time.Time
	DataSet      string
	Description  string
	Department   string
	CostCentre   string
	State        string
	UOM          string
	Quantity     float64
	FuelCategory string
	Source       string
}

// ParseDate parses a day-first ledger date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// ReadCSV parses the ledger. Any unparseable date or quantity fails the
// whole read with a *RowError quoting the first offending rows; dates are
// checked before quantities.
func ReadCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumns)
		}
		return nil, fmt.Errorf("reading ledger header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	get := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	badDates := &RowError{Err: ErrInvalidDate}
	badQty := &RowError{Err: ErrInvalidQuantity}

	var entries []Entry
	line := 1
	for {
		row, readErr := cr.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		line++
		if readErr != nil {
			return nil, fmt.Errorf("reading ledger line %d: %w", line, readErr)
		}
		if blank(row) {
			continue
		}

		bad := BadRow{
			Line:        line,
			Date:        get(row, ColDate),
			Description: get(row, ColDescription),
			Quantity:    get(row, ColQuantity),
		}
		date, dateErr := ParseDate(bad.Date)
		if dateErr != nil {
			badDates.add(bad)
		}
		qty, qtyErr := strconv.ParseFloat(bad.Quantity, 64)
		if qtyErr == nil && (math.IsNaN(qty) || math.IsInf(qty, 0)) {
			qtyErr = strconv.ErrSyntax
		}
		if qtyErr != nil {
			badQty.add(bad)
		}
		if dateErr != nil || qtyErr != nil {
			continue
		}

		entries = append(entries, Entry{
			Line:         line,
			Date:         date,
			DataSet:      get(row, ColDataSet),
			Description:  bad.Description,
			Department:   get(row, ColDepartment),
			CostCentre:   get(row, ColCostCentre),
			State:        get(row, ColState),
			UOM:          get(row, ColUOM),
			Quantity:     qty,
			FuelCategory: get(row, ColFuel),
			Source:       get(row, ColSource),
		})
	}

	if badDates.Total > 0 {
		return nil, badDates
	}
	if badQty.Total > 0 {
		return nil, badQty
	}
	return entries, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
