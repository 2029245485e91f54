package units

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats numbers with English thousands separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats a float with the given precision and thousand separators.
// Example: FormatFloat(-1234.567, 2) returns "-1,234.57".
func FormatFloat(f float64, precision int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprintf("%v", f)
	}
	if precision < 0 {
		precision = 0
	}

	formatted := fmt.Sprintf("%.*f", precision, math.Abs(f))
	intPart, fracPart, hasFrac := strings.Cut(formatted, ".")

	var n int64
	for _, c := range intPart {
		n = n*10 + int64(c-'0')
	}

	out := FormatNumber(n)
	if hasFrac {
		out += "." + fracPart
	}
	if f < 0 && strings.Trim(formatted, "0.") != "" {
		out = "-" + out
	}
	return out
}

// FormatLarge abbreviates values of a million or more, e.g. "~1.5 million".
func FormatLarge(n float64) string {
	abs := math.Abs(n)
	sign := ""
	if n < 0 {
		sign = "-"
	}
	switch {
	case abs >= BillionThreshold:
		return fmt.Sprintf("%s~%.1f billion", sign, abs/BillionThreshold)
	case abs >= LargeNumberThreshold:
		return fmt.Sprintf("%s~%.1f million", sign, abs/LargeNumberThreshold)
	default:
		return FormatNumber(int64(math.Round(n)))
	}
}
