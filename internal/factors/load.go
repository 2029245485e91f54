package factors

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"

	"github.com/rshade/safeguard/internal/cache"
	"github.com/rshade/safeguard/internal/logging"
)

// Column names of the flat factor table.
const (
	ColYear          = "NGA_Year"
	ColFuelType      = "Fuel_Type"
	ColFuelName      = "Fuel_Name"
	ColScope         = "Scope"
	ColFactor        = "EF_kgCO2e_per_unit"
	ColFactorUnit    = "EF_Unit"
	ColEnergyContent = "Energy_Content"
	ColEnergyUnit    = "Energy_Unit"
	ColState         = "State"
	ColSourceTable   = "Source_Table"
)

//nolint:gochecknoglobals // fixed table schema
var requiredColumns = []string{ColYear, ColFuelName, ColScope, ColFactor}

// LoadOptions controls LoadFile.
type LoadOptions struct {
	// Sheet selects the worksheet of an .xlsx table; empty means the first.
	Sheet string

	// Cache, when non-nil and enabled, stores parsed workbooks.
	Cache *cache.FileStore
}

// LoadFile reads a factor table from a .csv or .xlsx file and indexes it.
func LoadFile(ctx context.Context, path string, opts LoadOptions) (*Store, error) {
	logger := logging.FromContext(ctx).With().
		Str("component", "factors").
		Str("operation", "LoadFile").
		Str("path", path).
		Logger()

	var (
		records []Record
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = loadWorkbook(ctx, path, opts)
	case ".csv", "":
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening factor table: %w", err)
		}
		defer f.Close()
		records, err = ReadCSV(f)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrMalformedTable, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("loading factor table %s: %w", path, err)
	}

	store, err := NewStore(records)
	if err != nil {
		return nil, fmt.Errorf("loading factor table %s: %w", path, err)
	}
	logger.Info().
		Int("records", store.Len()).
		Ints("years", store.Years()).
		Msg("emission factors loaded")
	return store, nil
}

// ReadCSV parses a factor table in CSV form. Columns are matched by header
// name; extra columns are ignored.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyTable
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	p, err := newRowParser(header)
	if err != nil {
		return nil, err
	}

	var records []Record
	line := 1
	for {
		row, readErr := cr.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		line++
		if readErr != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, readErr)
		}
		if blankRow(row) {
			continue
		}
		rec, parseErr := p.parse(row)
		if parseErr != nil {
			return nil, fmt.Errorf("line %d: %w", line, parseErr)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadWorkbook parses a factor table stored in an .xlsx workbook. The first
// row of the sheet is the header.
func ReadWorkbook(data []byte, sheetName string) ([]Record, error) {
	wb, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}

	var sheet *xlsx.Sheet
	if sheetName == "" {
		if len(wb.Sheets) == 0 {
			return nil, ErrEmptyTable
		}
		sheet = wb.Sheets[0]
	} else {
		var ok bool
		if sheet, ok = wb.Sheet[sheetName]; !ok {
			return nil, fmt.Errorf("%w: sheet %q not found", ErrMalformedTable, sheetName)
		}
	}
	if len(sheet.Rows) == 0 {
		return nil, ErrEmptyTable
	}

	p, err := newRowParser(cellValues(sheet.Rows[0]))
	if err != nil {
		return nil, err
	}

	var records []Record
	for i, row := range sheet.Rows[1:] {
		values := cellValues(row)
		if blankRow(values) {
			continue
		}
		rec, parseErr := p.parse(values)
		if parseErr != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", sheet.Name, i+2, parseErr)
		}
		records = append(records, rec)
	}
	return records, nil
}

func loadWorkbook(ctx context.Context, path string, opts LoadOptions) ([]Record, error) {
	logger := logging.FromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}

	useCache := opts.Cache != nil && opts.Cache.IsEnabled()
	key := cache.ContentKey(append([]byte(opts.Sheet+"\x00"), data...))
	if useCache {
		entry, getErr := opts.Cache.Get(key)
		if getErr == nil {
			var records []Record
			if decodeErr := entry.Decode(&records); decodeErr == nil {
				logger.Debug().Str("cache_key", key).Msg("factor workbook served from cache")
				return records, nil
			}
		} else if !errors.Is(getErr, cache.ErrCacheNotFound) && !errors.Is(getErr, cache.ErrCacheExpired) {
			logger.Warn().Err(getErr).Msg("factor cache read failed")
		}
	}

	records, err := ReadWorkbook(data, opts.Sheet)
	if err != nil {
		return nil, err
	}

	if useCache {
		if setErr := opts.Cache.Set(key, filepath.Base(path), records); setErr != nil {
			logger.Warn().Err(setErr).Msg("factor cache write failed")
		}
	}
	return records, nil
}

func cellValues(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.Value
	}
	return out
}

func blankRow(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

type rowParser struct {
	idx map[string]int
}

func newRowParser(header []string) (*rowParser, error) {
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
		return nil, fmt.Errorf("%w: missing columns %s", ErrMalformedTable, strings.Join(missing, ", "))
	}
	return &rowParser{idx: idx}, nil
}

func (p *rowParser) get(row []string, col string) string {
	i, ok := p.idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (p *rowParser) parse(row []string) (Record, error) {
	year, err := parseInt(p.get(row, ColYear))
	if err != nil {
		return Record{}, fmt.Errorf("%w: %s: %w", ErrMalformedTable, ColYear, err)
	}
	scope, err := parseInt(p.get(row, ColScope))
	if err != nil {
		return Record{}, fmt.Errorf("%w: %s: %w", ErrMalformedTable, ColScope, err)
	}
	if scope < Scope1 || scope > Scope3 {
		return Record{}, fmt.Errorf("%w: scope %d out of range", ErrMalformedTable, scope)
	}
	factor, err := parseFinite(p.get(row, ColFactor))
	if err != nil {
		return Record{}, fmt.Errorf("%w: %s: %w", ErrMalformedTable, ColFactor, err)
	}

	var energy float64
	if raw := p.get(row, ColEnergyContent); raw != "" {
		if energy, err = parseFinite(raw); err != nil {
			return Record{}, fmt.Errorf("%w: %s: %w", ErrMalformedTable, ColEnergyContent, err)
		}
	}

	name := p.get(row, ColFuelName)
	if name == "" {
		return Record{}, fmt.Errorf("%w: blank %s", ErrMalformedTable, ColFuelName)
	}

	return Record{
		Year:          year,
		FuelType:      p.get(row, ColFuelType),
		FuelName:      name,
		Scope:         scope,
		Factor:        factor,
		FactorUnit:    p.get(row, ColFactorUnit),
		EnergyContent: energy,
		EnergyUnit:    p.get(row, ColEnergyUnit),
		State:         p.get(row, ColState),
		SourceTable:   p.get(row, ColSourceTable),
	}, nil
}

// parseInt accepts "2025" and spreadsheet-style "2025.0".
// parseFinite parses s as a float, rejecting NaN and infinities.
func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return f, nil
}

func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return int(f), nil
}

// WriteCSV writes records in the flat table layout ReadCSV accepts.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	header := []string{
		ColYear, ColFuelType, ColFuelName, ColScope, ColFactor,
		ColFactorUnit, ColEnergyContent, ColEnergyUnit, ColState, ColSourceTable,
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		energy := ""
		if r.HasEnergyContent() {
			energy = strconv.FormatFloat(r.EnergyContent, 'f', -1, 64)
		}
		if err := cw.Write([]string{
			strconv.Itoa(r.Year), r.FuelType, r.FuelName, strconv.Itoa(r.Scope),
			strconv.FormatFloat(r.Factor, 'f', -1, 64), r.FactorUnit, energy,
			r.EnergyUnit, r.State, r.SourceTable,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
