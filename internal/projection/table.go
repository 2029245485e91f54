package projection

import (
	"fmt"
	"time"

	"github.com/rshade/safeguard/internal/calendar"
)

// Monthly table columns.
const (
	ColScope1            = "Scope1_tCO2e"
	ColScope2            = "Scope2_tCO2e"
	ColScope3            = "Scope3_tCO2e"
	ColROM               = "ROM_t"
	ColSiteElectricity   = "Site_Electricity_kWh"
	ColGridElectricity   = "Grid_Electricity_kWh"
	ColPhase             = "Phase"
	ColBaseline          = "Baseline"
	ColBaselineUnfloored = "Baseline_Unfloored"
	ColEmissionIntensity = "Emission_Intensity"
	ColBaselineIntensity = "Baseline_Intensity"
	ColIntensityExcess   = "Intensity_Excess"
	ColInSafeguard       = "In_Safeguard"
	ColSMCMonthly        = "SMC_Monthly"
	ColSMCCumulative     = "SMC_Cumulative"
	ColSMCPhase          = "SMC_Phase"
	ColExitFY            = "Exit_FY"
)

// Columns lists the monthly table columns in output order.
//
//nolint:gochecknoglobals // fixed column order
var Columns = []string{
	ColScope1, ColScope2, ColScope3,
	ColROM, ColSiteElectricity, ColGridElectricity,
	ColPhase,
	ColBaseline, ColBaselineUnfloored,
	ColEmissionIntensity, ColBaselineIntensity, ColIntensityExcess,
	ColInSafeguard,
	ColSMCMonthly, ColSMCCumulative, ColSMCPhase,
	ColExitFY,
}

// DefaultAnnualRules returns the annual roll-up of the monthly table:
// flows are summed, intensities averaged, states take the last month and
// the exit year takes the first.
func DefaultAnnualRules() calendar.Rules {
	return calendar.Rules{
		ColScope1:            calendar.Sum,
		ColScope2:            calendar.Sum,
		ColScope3:            calendar.Sum,
		ColROM:               calendar.Sum,
		ColSiteElectricity:   calendar.Sum,
		ColGridElectricity:   calendar.Sum,
		ColBaseline:          calendar.Sum,
		ColBaselineUnfloored: calendar.Sum,
		ColSMCMonthly:        calendar.Sum,
		ColEmissionIntensity: calendar.Mean,
		ColBaselineIntensity: calendar.Mean,
		ColIntensityExcess:   calendar.Mean,
		ColPhase:             calendar.Last,
		ColSMCCumulative:     calendar.Last,
		ColInSafeguard:       calendar.Last,
		ColSMCPhase:          calendar.Last,
		ColExitFY:            calendar.First,
	}
}

// Table returns the monthly projection as a column table. In_Safeguard is
// 1 or 0.
func (p *Projection) Table() (*calendar.Table, error) {
	n := len(p.Months)
	dates := make([]time.Time, n)
	num := make(map[string][]float64)
	text := map[string][]string{
		ColPhase:    make([]string, n),
		ColSMCPhase: make([]string, n),
	}
	for _, c := range Columns {
		if _, ok := text[c]; !ok {
			num[c] = make([]float64, n)
		}
	}

	for i, m := range p.Months {
		dates[i] = m.Date
		num[ColScope1][i] = m.Scope1
		num[ColScope2][i] = m.Scope2
		num[ColScope3][i] = m.Scope3
		num[ColROM][i] = m.ROM
		num[ColSiteElectricity][i] = m.SiteElectricityKWh
		num[ColGridElectricity][i] = m.GridElectricityKWh
		text[ColPhase][i] = m.OperationalPhase
		num[ColBaseline][i] = m.Baseline
		num[ColBaselineUnfloored][i] = m.BaselineUnfloored
		num[ColEmissionIntensity][i] = m.EmissionIntensity
		num[ColBaselineIntensity][i] = m.BaselineIntensity
		num[ColIntensityExcess][i] = m.IntensityExcess
		if m.InSafeguard {
			num[ColInSafeguard][i] = 1
		}
		num[ColSMCMonthly][i] = m.SMCMonthly
		num[ColSMCCumulative][i] = m.SMCCumulative
		text[ColSMCPhase][i] = string(m.Phase)
		num[ColExitFY][i] = float64(m.ExitFY)
	}

	t := calendar.NewTable(dates)
	for _, c := range Columns {
		var err error
		if v, ok := text[c]; ok {
			err = t.AddText(c, v)
		} else {
			err = t.AddNumeric(c, num[c])
		}
		if err != nil {
			return nil, fmt.Errorf("monthly table: %w", err)
		}
	}
	return t, nil
}

// Annual rolls the monthly table up to fiscal or calendar years.
func (p *Projection) Annual(yt calendar.YearType, rules calendar.Rules) (*calendar.AnnualTable, error) {
	if rules == nil {
		rules = DefaultAnnualRules()
	}
	t, err := p.Table()
	if err != nil {
		return nil, err
	}
	return calendar.AggregateByYear(t, yt, rules)
}
