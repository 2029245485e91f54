package equivalents

// Equivalency factors in tCO2-e per unit of activity. Equivalency is
// tCO2e / factor.
const (
	// CarYearFactor is one average Australian passenger car driven for a
	// year (about 12,100 km at 190 gCO2-e/km).
	CarYearFactor = 2.3

	// CarKilometreFactor is one kilometre in an average passenger car.
	CarKilometreFactor = 0.00019

	// HomeYearFactor is one year of average household grid electricity
	// (about 5.2 MWh at 0.68 tCO2-e/MWh).
	HomeYearFactor = 3.55

	// TreeSeedlingFactor is the CO2-e absorbed by one seedling over 10
	// years.
	TreeSeedlingFactor = 0.06
)

// MinTonnes is the smallest quantity given equivalencies.
const MinTonnes = 1.0
