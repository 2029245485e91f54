package safeguard

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/rshade/safeguard/internal/units"
)

// Hybrid blends a benchmark and a facility-specific intensity:
// h*benchmark + (1-h)*fsei, per production variable.
func Hybrid(h float64, benchmark, fsei Intensity) Intensity {
	return Intensity{
		ROM:         h*benchmark.ROM + (1-h)*fsei.ROM,
		Electricity: h*benchmark.Electricity + (1-h)*fsei.Electricity,
	}
}

// HybridEI returns the hybrid intensities for fy.
func (p Params) HybridEI(fy int) Intensity {
	return Hybrid(p.Transition.H(fy), p.BenchmarkEI(), p.FSEI)
}

// Weight is a month's production-weighted share basis:
// ROM tonnes x hybrid ROM EI + site MWh x hybrid electricity EI.
func (i Intensity) Weight(romT, siteKWh float64) float64 {
	return romT*i.ROM + units.KWhToMWh(siteKWh)*i.Electricity
}

// Baseline is one fiscal year's baseline calculation.
type Baseline struct {
	FY        int       `json:"fy"`
	ERC       float64   `json:"erc"`
	H         float64   `json:"h"`
	HybridEI  Intensity `json:"hybrid_ei"`
	ROM       float64   `json:"rom_t"`
	SiteMWh   float64   `json:"site_mwh"`
	Unfloored float64   `json:"unfloored"`
	Floored   float64   `json:"floored"`
}

// AnnualBaseline computes ERC x (hybridROM x ROM + hybridElec x MWh) for fy.
// Floored applies the minimum baseline; Unfloored is the credit basis.
func (p Params) AnnualBaseline(fy int, romT, siteMWh float64) Baseline {
	hyb := p.HybridEI(fy)
	erc := p.Decline.ERC(fy)
	unfloored := erc * (hyb.ROM*romT + hyb.Electricity*siteMWh)
	return Baseline{
		FY:        fy,
		ERC:       erc,
		H:         p.Transition.H(fy),
		HybridEI:  hyb,
		ROM:       romT,
		SiteMWh:   siteMWh,
		Unfloored: unfloored,
		Floored:   math.Max(unfloored, p.MinimumBaseline),
	}
}

// Distribute splits total across weights proportionally. When the weights
// do not sum to a positive value the total is split evenly. The returned
// values sum to total within floating-point rounding.
func Distribute(total float64, weights []float64) []float64 {
	n := len(weights)
	if n == 0 {
		return nil
	}
	out := make([]float64, n)
	sum := floats.Sum(weights)
	if sum > 0 {
		copy(out, weights)
		floats.Scale(total/sum, out)
		return out
	}
	even := total / float64(n)
	for i := range out {
		out[i] = even
	}
	return out
}
