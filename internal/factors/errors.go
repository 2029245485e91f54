package factors

import (
	"errors"
	"fmt"
)

// Sentinel errors. All of them indicate a problem with the factor table that
// has to be fixed at the source.
var (
	ErrFactorNotFound           = errors.New("emission factor not found")
	ErrMissingEnergyContent     = errors.New("emission factor has no energy content")
	ErrMissingElectricityFactor = errors.New("no grid electricity factor for state")
	ErrDuplicateFactor          = errors.New("duplicate emission factor record")
	ErrEmptyTable               = errors.New("factor table is empty")
	ErrMalformedTable           = errors.New("malformed factor table")
)

// LookupError identifies the query that failed to resolve.
type LookupError struct {
	Year     int
	Category string
	Scope    int
	State    string
	Err      error
}

func (e *LookupError) Error() string {
	state := ""
	if e.State != "" {
		state = ", state " + e.State
	}
	return fmt.Sprintf("%v: %q scope %d in NGA %d%s", e.Err, e.Category, e.Scope, e.Year, state)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
