// Package units holds the physical unit constants used by the emissions
// calculation, ledger unit-of-measure normalisation and locale-aware number
// formatting for reports.
package units

// Canonical unit-of-measure labels.
const (
	KWh    = "kWh"
	MWh    = "MWh"
	KL     = "kL"
	L      = "L"
	M3     = "m3"
	GJ     = "GJ"
	Tonnes = "t"
	Kg     = "kg"
)

// Conversion factors.
const (
	// GJPerKWh is the energy content of one kilowatt hour.
	GJPerKWh = 0.0036

	KWhPerMWh  = 1000.0
	KgPerTonne = 1000.0
)

// Display thresholds for FormatLarge.
const (
	LargeNumberThreshold = 1_000_000.0
	BillionThreshold     = 1_000_000_000.0
)
