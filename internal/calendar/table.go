package calendar

import (
	"errors"
	"fmt"
	"time"
)

// Table errors.
var (
	ErrColumnLength = errors.New("column length does not match row count")
	ErrDuplicateCol = errors.New("duplicate column")
)

// Table is a column-oriented monthly table keyed by row date. Numeric and
// text columns share one namespace; Columns preserves insertion order.
type Table struct {
	Dates   []time.Time
	Numeric map[string][]float64
	Text    map[string][]string

	order []string
}

// NewTable creates an empty table over the given row dates.
func NewTable(dates []time.Time) *Table {
	return &Table{
		Dates:   dates,
		Numeric: make(map[string][]float64),
		Text:    make(map[string][]string),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Dates)
}

// Columns returns column names in insertion order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// HasColumn reports whether name is a numeric or text column.
func (t *Table) HasColumn(name string) bool {
	_, num := t.Numeric[name]
	_, txt := t.Text[name]
	return num || txt
}

// AddNumeric appends a numeric column.
func (t *Table) AddNumeric(name string, values []float64) error {
	if err := t.checkNew(name, len(values)); err != nil {
		return err
	}
	t.Numeric[name] = values
	t.order = append(t.order, name)
	return nil
}

// AddText appends a text column.
func (t *Table) AddText(name string, values []string) error {
	if err := t.checkNew(name, len(values)); err != nil {
		return err
	}
	t.Text[name] = values
	t.order = append(t.order, name)
	return nil
}

func (t *Table) checkNew(name string, n int) error {
	if t.HasColumn(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateCol, name)
	}
	if n != len(t.Dates) {
		return fmt.Errorf("%w: %s has %d values, table has %d rows", ErrColumnLength, name, n, len(t.Dates))
	}
	return nil
}

// Filter returns a new table holding the rows whose date satisfies keep.
func (t *Table) Filter(keep func(time.Time) bool) *Table {
	var idx []int
	for i, d := range t.Dates {
		if keep(d) {
			idx = append(idx, i)
		}
	}

	out := NewTable(make([]time.Time, len(idx)))
	for j, i := range idx {
		out.Dates[j] = t.Dates[i]
	}
	for _, name := range t.order {
		if vals, ok := t.Numeric[name]; ok {
			sub := make([]float64, len(idx))
			for j, i := range idx {
				sub[j] = vals[i]
			}
			out.Numeric[name] = sub
		} else {
			vals := t.Text[name]
			sub := make([]string, len(idx))
			for j, i := range idx {
				sub[j] = vals[i]
			}
			out.Text[name] = sub
		}
		out.order = append(out.order, name)
	}
	return out
}

// FilterByFY keeps rows inside fiscal year fy.
func (t *Table) FilterByFY(fy int) *Table {
	start, end := FYRange(fy)
	return t.FilterByDateRange(start, end)
}

// FilterByCY keeps rows inside calendar year cy.
func (t *Table) FilterByCY(cy int) *Table {
	start, end := CYRange(cy)
	return t.FilterByDateRange(start, end)
}

// FilterByDateRange keeps rows dated within [start, end], both inclusive.
func (t *Table) FilterByDateRange(start, end time.Time) *Table {
	return t.Filter(func(d time.Time) bool { return InRange(d, start, end) })
}
