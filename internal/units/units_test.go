package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "KWH", want: KWh},
		{in: " kl ", want: KL},
		{in: "m³", want: M3},
		{in: "Litres", want: L},
		{in: "tonnes", want: Tonnes},
		{in: "km", want: "km"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.in))
		})
	}
	assert.True(t, SameUnit("kL", "KL"))
	assert.False(t, SameUnit("kL", "km"))
}

func TestKWhToMWh(t *testing.T) {
	assert.InDelta(t, 12.0, KWhToMWh(12000), 1e-12)
	assert.InDelta(t, 2.68, KgToTonnes(2680), 1e-12)
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name      string
		in        float64
		precision int
		want      string
	}{
		{name: "thousands", in: 1234.567, precision: 2, want: "1,234.57"},
		{name: "negative", in: -1234.567, precision: 2, want: "-1,234.57"},
		{name: "negative below one", in: -0.5, precision: 2, want: "-0.50"},
		{name: "negative rounds to zero", in: -0.001, precision: 2, want: "0.00"},
		{name: "integer", in: 100000, precision: 0, want: "100,000"},
		{name: "millions", in: 1234567.891, precision: 1, want: "1,234,567.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFloat(tt.in, tt.precision))
		})
	}
}

func TestFormatLarge(t *testing.T) {
	assert.Equal(t, "~1.5 billion", FormatLarge(1.5e9))
	assert.Equal(t, "~2.3 million", FormatLarge(2.3e6))
	assert.Equal(t, "-~2.3 million", FormatLarge(-2.3e6))
	assert.Equal(t, "24,300", FormatLarge(24300.4))
	assert.Equal(t, "18,248", FormatNumber(18248))
}
