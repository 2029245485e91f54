package emissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/safeguard/internal/factors"
)

func TestResolveKey(t *testing.T) {
	keys := append(append([]string(nil), factors.DefaultFuelCategories...), factors.GridElectricityKey)

	tests := []struct {
		name          string
		category      string
		aliases       map[string]string
		wantKey       string
		wantVia       string
		wantAmbiguous bool
		wantFound     bool
	}{
		{name: "exact", category: "Diesel oil", wantKey: "Diesel oil", wantVia: "exact", wantFound: true},
		{name: "exact transport", category: factors.DieselTransportKey, wantKey: factors.DieselTransportKey, wantVia: "exact", wantFound: true},
		{
			name:      "longest prefix",
			category:  "Gaseous fossil fuels other than those mentioned in the items above",
			wantKey:   "Gaseous fossil fuels other than",
			wantVia:   "prefix",
			wantFound: true,
		},
		{
			name:      "longest prefix prefers transport",
			category:  "Diesel oil-Cars and light commercial vehicles (post-2004)",
			wantKey:   factors.DieselTransportKey,
			wantVia:   "prefix",
			wantFound: true,
		},
		{name: "reverse unique", category: "Liquefied petroleum", wantKey: "Liquefied petroleum gas (LPG)", wantVia: "reverse", wantFound: true},
		{
			name:          "reverse ambiguous prefers longest",
			category:      "Diesel",
			wantKey:       factors.DieselTransportKey,
			wantVia:       "reverse",
			wantAmbiguous: true,
			wantFound:     true,
		},
		{
			name:      "alias wins",
			category:  "Diesel",
			aliases:   map[string]string{"Diesel": "Diesel oil"},
			wantKey:   "Diesel oil",
			wantVia:   "alias",
			wantFound: true,
		},
		{
			name:          "alias to unknown key ignored",
			category:      "Diesel",
			aliases:       map[string]string{"Diesel": "Kerosene"},
			wantKey:       factors.DieselTransportKey,
			wantVia:       "reverse",
			wantAmbiguous: true,
			wantFound:     true,
		},
		{name: "no match", category: "Kerosene", wantFound: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, found := ResolveKey(tt.category, keys, tt.aliases)
			assert.Equal(t, tt.wantFound, found)
			if !tt.wantFound {
				return
			}
			assert.Equal(t, tt.wantKey, m.Key)
			assert.Equal(t, tt.wantVia, m.Via)
			assert.Equal(t, tt.wantAmbiguous, m.Ambiguous())
		})
	}
}

func TestValidateAliases(t *testing.T) {
	keys := []string{"Diesel oil", factors.GridElectricityKey}
	assert.Empty(t, ValidateAliases(map[string]string{"Diesel": "Diesel oil"}, keys))
	assert.Equal(t, []string{"Kero -> Kerosene"}, ValidateAliases(map[string]string{"Kero": "Kerosene"}, keys))
}
