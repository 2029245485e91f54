package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rshade/safeguard/internal/config"
	"github.com/rshade/safeguard/internal/factors"
	"github.com/rshade/safeguard/internal/finance"
	"github.com/rshade/safeguard/internal/ledger"
	"github.com/rshade/safeguard/internal/projection"
	"github.com/rshade/safeguard/internal/safeguard"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitGeneral = 1
	ExitConfig  = 2
)

// ExitError carries an explicit exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// inputErrors are failures caused by configuration or input files rather
// than by the program.
//
//nolint:gochecknoglobals // fixed classification table
var inputErrors = []error{
	config.ErrInvalidConfig,
	config.ErrUnsupportedVersion,
	safeguard.ErrInvalidParams,
	finance.ErrInvalidMarket,
	factors.ErrFactorNotFound,
	factors.ErrMissingEnergyContent,
	factors.ErrMissingElectricityFactor,
	factors.ErrDuplicateFactor,
	factors.ErrEmptyTable,
	factors.ErrMalformedTable,
	ledger.ErrInvalidDate,
	ledger.ErrInvalidQuantity,
	ledger.ErrMissingColumns,
	projection.ErrNoActuals,
	projection.ErrNoBudget,
	os.ErrNotExist,
}

// ExitCode maps an error returned by the root command to a process exit
// code: 0 for nil, 2 for configuration and input errors, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	for _, target := range inputErrors {
		if errors.Is(err, target) {
			return ExitConfig
		}
	}
	return ExitGeneral
}
