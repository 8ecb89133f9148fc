package blanket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seededRanges mirrors what the store hands back after seeding: the default
// set ordered by display order, with row ids assigned.
func seededRanges() []TemperatureRange {
	ranges := make([]TemperatureRange, 0, len(DefaultRanges))
	for i, r := range DefaultRanges {
		ranges = append(ranges, TemperatureRange{
			ID:           int64(i + 1),
			MinTemp:      r.MinTemp,
			MaxTemp:      r.MaxTemp,
			ColorName:    r.ColorName,
			ColorHex:     r.ColorHex,
			DisplayOrder: r.DisplayOrder,
		})
	}
	return ranges
}

func TestResolveColorBoundaries(t *testing.T) {
	ranges := seededRanges()

	tests := []struct {
		name string
		temp int
		want string
	}{
		{"sentinel top", 200, "Bright Orange"},
		{"hottest bucket low edge", 100, "Bright Orange"},
		{"yellow high edge", 99, "Yellow"},
		{"yellow low edge", 90, "Yellow"},
		{"pink high edge", 89, "Pink"},
		{"pink low edge", 79, "Pink"},
		{"turquoise", 72, "Turquoise"},
		{"purple", 60, "Purple"},
		{"light pink", 50, "Light Pink"},
		{"dark green", 40, "Dark Green"},
		{"light purple", 30, "Light Purple"},
		{"blue low edge", 1, "Blue"},
		{"freezing", 0, "Light Blue"},
		{"sentinel bottom", -50, "Light Blue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveColor(ranges, tt.temp)
			assert.Equal(t, tt.want, got.ColorName)
		})
	}
}

func TestResolveColorCoversWholeDomain(t *testing.T) {
	ranges := seededRanges()

	// Every integer in the sentinel-bounded domain resolves to exactly one
	// range, and that range actually contains the temperature.
	for temp := -999; temp <= 999; temp++ {
		got := ResolveColor(ranges, temp)
		require.NotEqual(t, FallbackColor, got, "temp %d fell through to fallback", temp)

		matched := false
		for _, r := range ranges {
			if got.ColorName == r.ColorName {
				require.GreaterOrEqual(t, temp, r.MinTemp)
				require.LessOrEqual(t, temp, r.MaxTemp)
				matched = true
				break
			}
		}
		require.True(t, matched, "temp %d resolved to unseeded color %q", temp, got.ColorName)
	}
}

func TestResolveColorSameBucketSameColor(t *testing.T) {
	ranges := seededRanges()

	// All temperatures within one bucket map to the same color.
	for _, r := range ranges {
		want := ResolveColor(ranges, r.MinTemp)
		assert.Equal(t, want, ResolveColor(ranges, r.MaxTemp), "bucket %q", r.ColorName)
	}
}

func TestResolveColorOverlapLowestDisplayOrderWins(t *testing.T) {
	ranges := []TemperatureRange{
		{MinTemp: 50, MaxTemp: 60, ColorName: "First", ColorHex: "#111111", DisplayOrder: 1},
		{MinTemp: 55, MaxTemp: 70, ColorName: "Second", ColorHex: "#222222", DisplayOrder: 2},
	}

	assert.Equal(t, "First", ResolveColor(ranges, 57).ColorName)
	assert.Equal(t, "Second", ResolveColor(ranges, 65).ColorName)
}

func TestResolveColorFallback(t *testing.T) {
	got := ResolveColor(nil, 42)
	assert.Equal(t, "Unknown", got.ColorName)
	assert.Equal(t, "#000000", got.ColorHex)
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{72.4, 72},
		{72.5, 73},
		{72.6, 73},
		{-0.5, 0},
		{-0.6, -1},
		{0.0, 0},
		{99.5, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundHalfUp(tt.in), "RoundHalfUp(%v)", tt.in)
	}
}
