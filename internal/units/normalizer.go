package units

import "strings"

// Canonical returns the canonical spelling of a unit-of-measure label so
// that "KWH", "kwh" and "kWh" compare equal. Unknown labels are returned
// trimmed but otherwise unchanged.
func Canonical(uom string) string {
	trimmed := strings.TrimSpace(uom)
	switch strings.ToLower(trimmed) {
	case "kwh":
		return KWh
	case "mwh":
		return MWh
	case "kl":
		return KL
	case "l", "litre", "litres", "liter", "liters":
		return L
	case "m3", "m³", "cubic metres":
		return M3
	case "gj":
		return GJ
	case "t", "tonne", "tonnes":
		return Tonnes
	case "kg":
		return Kg
	default:
		return trimmed
	}
}

// SameUnit reports whether two unit labels name the same unit.
func SameUnit(a, b string) bool {
	return Canonical(a) == Canonical(b)
}

// KWhToMWh converts kilowatt hours to megawatt hours.
func KWhToMWh(kwh float64) float64 {
	return kwh / KWhPerMWh
}

// KgToTonnes converts kilograms to tonnes.
func KgToTonnes(kg float64) float64 {
	return kg / KgPerTonne
}
