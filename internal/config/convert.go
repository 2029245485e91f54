package config

import (
	"github.com/rshade/safeguard/internal/cache"
	"github.com/rshade/safeguard/internal/factors"
	"github.com/rshade/safeguard/internal/ledger"
	"github.com/rshade/safeguard/internal/projection"
	"github.com/rshade/safeguard/internal/safeguard"
)

// SafeguardParams converts the facility, safeguard and phases sections.
func (c *Config) SafeguardParams() safeguard.Params {
	s := c.Safeguard
	return safeguard.Params{
		FSEI:            c.Facility.FSEI,
		DefaultEI:       c.Facility.DefaultEI,
		BestPracticeEI:  c.Facility.BestPracticeEI,
		Benchmark:       safeguard.Benchmark(s.Benchmark),
		Decline:         s.Decline,
		Transition:      append(safeguard.TransitionSchedule(nil), s.Transition...),
		Threshold:       s.Threshold,
		MinimumBaseline: s.MinimumBaseline,
		SafeguardStart:  s.SafeguardStart.Time,
		CreditStart:     s.CreditStart.Time,
		OptIn:           s.OptIn,
		Phases: safeguard.PhaseDates{
			Start:             c.Phases.Start.Time,
			EndMining:         c.Phases.EndMining.Time,
			EndProcessing:     c.Phases.EndProcessing.Time,
			EndRehabilitation: c.Phases.EndRehabilitation.Time,
			GridConnection:    c.Phases.GridConnection.Time,
		},
	}
}

// ProjectionOptions converts the configuration into projection build
// options for the configured dataset.
func (c *Config) ProjectionOptions() projection.Options {
	f := c.Facility
	aliases := make(map[string]string, len(c.Factors.Aliases))
	for k, v := range c.Factors.Aliases {
		aliases[k] = v
	}
	return projection.Options{
		DataSet:         c.Output.DataSet,
		ROMCostCentre:   f.ROMCostCentre,
		ROMKeyword:      f.ROMKeyword,
		SiteElectricity: f.SiteElectricity,
		GridElectricity: f.GridElectricity,
		State:           f.State,
		Categories:      append([]string(nil), c.Factors.Categories...),
		Aliases:         aliases,
		Ledger: ledger.Options{
			TransportCostCentres: append([]string(nil), f.TransportCostCentres...),
			TransportFuelKey:     f.TransportFuelKey,
		},
		Params: c.SafeguardParams(),
	}
}

// FactorLoadOptions opens the workbook cache and returns factor table
// load options.
func (c *Config) FactorLoadOptions() (factors.LoadOptions, error) {
	dir := c.Factors.Cache.Directory
	if dir == "" {
		dir = cache.DefaultDirectory()
	}
	store, err := cache.NewFileStore(dir, c.Factors.Cache.Enabled, c.Factors.Cache.TTLSeconds)
	if err != nil {
		return factors.LoadOptions{}, err
	}
	return factors.LoadOptions{Sheet: c.Factors.Sheet, Cache: store}, nil
}
