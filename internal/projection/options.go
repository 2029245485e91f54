// Package projection merges actual and budget ledger data into a monthly
// facility series and runs the Safeguard baseline and credit engine over it.
package projection

import (
	"github.com/rshade/safeguard/internal/factors"
	"github.com/rshade/safeguard/internal/ledger"
	"github.com/rshade/safeguard/internal/safeguard"
)

// Options configures a projection build.
type Options struct {
	// DataSet is the tag of the rows that take precedence over budget.
	DataSet string

	// ROMCostCentre and ROMKeyword select the ore tonnage rows: the cost
	// centre must match exactly and the description must contain the keyword
	// case-insensitively.
	ROMCostCentre string
	ROMKeyword    string

	// SiteElectricity and GridElectricity are the ledger descriptions of
	// generated and purchased electricity (kWh).
	SiteElectricity string
	GridElectricity string

	// State selects grid electricity factors.
	State string

	// Categories are the known fuel category keys, most specific first.
	Categories []string

	// Aliases map ledger fuel categories to factor keys explicitly.
	Aliases map[string]string

	// Ledger controls transport diesel reclassification on load.
	Ledger ledger.Options

	Params safeguard.Params
}

// DefaultOptions returns options for the modelled site.
func DefaultOptions() Options {
	return Options{
		DataSet:         ledger.DataSetActual,
		ROMCostCentre:   "ROM",
		ROMKeyword:      "Ore",
		SiteElectricity: "Site electricity",
		GridElectricity: "Grid electricity",
		State:           "QLD",
		Categories:      append([]string(nil), factors.DefaultFuelCategories...),
		Ledger: ledger.Options{
			TransportCostCentres: []string{"Light Vehicles"},
			TransportFuelKey:     factors.DieselTransportKey,
		},
		Params: safeguard.DefaultParams(),
	}
}
