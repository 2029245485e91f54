package equivalents

type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for equivalency calculations.
var (
	// ErrNegativeValue indicates negative emissions, e.g. a net credit position.
	ErrNegativeValue = constError("negative emissions value")

	// ErrCalculationOverflow indicates an infinite or NaN input or result.
	ErrCalculationOverflow = constError("calculation overflow")
)
