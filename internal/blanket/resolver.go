package blanket

import "math"

// FallbackColor is returned when no range matches a temperature. With the
// sentinel top and bottom buckets seeded this should never be hit; it exists
// so an unmapped reading degrades to a visible "Unknown" instead of failing.
var FallbackColor = ColorMapping{ColorName: "Unknown", ColorHex: "#000000"}

// DefaultRanges is the seed set: contiguous hottest-to-coldest coverage with
// sentinel bounds at 999 and -999.
var DefaultRanges = []RangeInsert{
	{MinTemp: 100, MaxTemp: 999, ColorName: "Bright Orange", ColorHex: "#FF6600", DisplayOrder: 1},
	{MinTemp: 90, MaxTemp: 99, ColorName: "Yellow", ColorHex: "#FFD700", DisplayOrder: 2},
	{MinTemp: 79, MaxTemp: 89, ColorName: "Pink", ColorHex: "#FF69B4", DisplayOrder: 3},
	{MinTemp: 68, MaxTemp: 78, ColorName: "Turquoise", ColorHex: "#40E0D0", DisplayOrder: 4},
	{MinTemp: 55, MaxTemp: 67, ColorName: "Purple", ColorHex: "#800080", DisplayOrder: 5},
	{MinTemp: 45, MaxTemp: 54, ColorName: "Light Pink", ColorHex: "#FFB6C1", DisplayOrder: 6},
	{MinTemp: 34, MaxTemp: 44, ColorName: "Dark Green", ColorHex: "#006400", DisplayOrder: 7},
	{MinTemp: 22, MaxTemp: 33, ColorName: "Light Purple", ColorHex: "#9370DB", DisplayOrder: 8},
	{MinTemp: 1, MaxTemp: 21, ColorName: "Blue", ColorHex: "#0000FF", DisplayOrder: 9},
	{MinTemp: -999, MaxTemp: 0, ColorName: "Light Blue", ColorHex: "#ADD8E6", DisplayOrder: 10},
}

// ResolveColor maps an integer temperature to a color by scanning ranges in
// ascending display order and picking the first inclusive match. Overlapping
// ranges resolve to the lowest display order. The ranges slice must already
// be sorted by display order, which is how the store returns it.
func ResolveColor(ranges []TemperatureRange, temp int) ColorMapping {
	for _, r := range ranges {
		if temp >= r.MinTemp && temp <= r.MaxTemp {
			return ColorMapping{ColorName: r.ColorName, ColorHex: r.ColorHex}
		}
	}
	return FallbackColor
}

// RoundHalfUp rounds to the nearest integer with halves going up, so 0.5
// rounds to 1 and -0.5 rounds to 0.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
