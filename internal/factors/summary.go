package factors

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Diesel category prefixes used by the year summary.
const (
	DieselStationaryKey = "Diesel oil"
	DieselTransportKey  = "Diesel oil-Cars and light commercial vehicles"
)

// ElectricityFactors are grid factors for one state, kg CO2-e/kWh.
type ElectricityFactors struct {
	Scope2 float64 `json:"scope2"`
	Scope3 float64 `json:"scope3"`
}

// DieselFactors are diesel factors in kg CO2-e/kL and GJ/kL.
type DieselFactors struct {
	EnergyContent    float64 `json:"energy_content_gj_per_kl"`
	Scope1Stationary float64 `json:"scope1_stationary"`
	Scope1Transport  float64 `json:"scope1_transport"`
	Scope3           float64 `json:"scope3"`
}

// YearSummary is the reference view of one publication year.
type YearSummary struct {
	RequestedYear int                           `json:"requested_year"`
	Year          int                           `json:"year"`
	State         string                        `json:"state"`
	Electricity   map[string]ElectricityFactors `json:"electricity"`
	Diesel        DieselFactors                 `json:"diesel"`
}

// States returns the states with electricity factors, sorted.
func (y YearSummary) States() []string {
	out := make([]string, 0, len(y.Electricity))
	for st := range y.Electricity {
		out = append(out, st)
	}
	sort.Strings(out)
	return out
}

// StateElectricity returns the electricity factors of the summary's state.
func (y YearSummary) StateElectricity() ElectricityFactors {
	return y.Electricity[y.State]
}

// YearSummary gathers the electricity factors of every state and the diesel
// factors for a year. Diesel Scope 1, Scope 3 and energy content and the
// requested state's electricity factors are required. Transport diesel falls
// back to the stationary factor when not published.
func (s *Store) YearSummary(ctx context.Context, year int, state string) (YearSummary, error) {
	resolved, _ := s.ResolveYear(year)
	sum := YearSummary{
		RequestedYear: year,
		Year:          resolved,
		State:         state,
		Electricity:   make(map[string]ElectricityFactors),
	}

	for _, r := range s.byYear[resolved] {
		if r.FuelType != FuelTypeElectricity || r.State == "" {
			continue
		}
		ef := sum.Electricity[r.State]
		switch r.Scope {
		case Scope2:
			ef.Scope2 = r.Factor
		case Scope3:
			ef.Scope3 = r.Factor
		}
		sum.Electricity[r.State] = ef
	}

	stationary, err := s.Resolve(ctx, year, DieselStationaryKey, Scope1, "")
	if err != nil {
		return YearSummary{}, err
	}
	scope3, err := s.Resolve(ctx, year, DieselStationaryKey, Scope3, "")
	if err != nil {
		return YearSummary{}, err
	}
	if !stationary.HasEnergyContent() {
		return YearSummary{}, &LookupError{Year: resolved, Category: DieselStationaryKey, Scope: Scope1, Err: ErrMissingEnergyContent}
	}
	transport, err := s.Resolve(ctx, year, DieselTransportKey, Scope1, "")
	switch {
	case err == nil:
	case errors.Is(err, ErrFactorNotFound):
		transport = stationary
	default:
		return YearSummary{}, err
	}

	sum.Diesel = DieselFactors{
		EnergyContent:    stationary.EnergyContent,
		Scope1Stationary: stationary.Factor,
		Scope1Transport:  transport.Factor,
		Scope3:           scope3.Factor,
	}

	if _, ok := sum.Electricity[state]; !ok {
		return YearSummary{}, fmt.Errorf("%w: %s in NGA %d (available: %v)",
			ErrMissingElectricityFactor, state, resolved, sum.States())
	}
	return sum, nil
}
