package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// Input errors. Both are fatal: the ledger must be fixed at the source.
var (
	ErrInvalidDate     = errors.New("ledger dates failed to parse")
	ErrInvalidQuantity = errors.New("ledger quantities are not numeric")
	ErrMissingColumns  = errors.New("ledger is missing required columns")
)

// maxSampleRows bounds the offending rows quoted in a RowError.
const maxSampleRows = 5

// BadRow is one offending ledger line.
type BadRow struct {
	Line        int
	Date        string
	Description string
	Quantity    string
}

// RowError reports every offending row count and quotes the first few.
type RowError struct {
	Err     error
	Total   int
	Samples []BadRow
}

func (e *RowError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d rows: %v. Fix the source file.\nFirst bad rows:", e.Total, e.Err)
	for _, r := range e.Samples {
		fmt.Fprintf(&b, "\n  line %d: Date=%q Description=%q Quantity=%q", r.Line, r.Date, r.Description, r.Quantity)
	}
	return b.String()
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// add records a bad row, keeping only the first maxSampleRows samples.
func (e *RowError) add(r BadRow) {
	e.Total++
	if len(e.Samples) < maxSampleRows {
		e.Samples = append(e.Samples, r)
	}
}
