package charts

import "math"

// Shortage levels shown in the shortage chart tooltip.
const (
	LevelShortage = "shortage"
	LevelLow      = "low"
	LevelOK       = "ok"

	lowStockThreshold = 3.0
)

// ShortageLevel classifies a projected stock value.
func ShortageLevel(v float64) string {
	switch {
	case v < 0:
		return LevelShortage
	case v < lowStockThreshold:
		return LevelLow
	default:
		return LevelOK
	}
}

// CategoryShare is values[i] as a rounded percentage of the sum of values.
// It is 0 when the sum is 0 or i is out of range.
func CategoryShare(values []float64, i int) int {
	if i < 0 || i >= len(values) {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	if total == 0 {
		return 0
	}
	return int(math.Floor(values[i]/total*100 + 0.5))
}
