package formulas

import (
	"github.com/markcheno/go-talib"
)

// RollingHigh returns the highest close over the trailing period (252
// sessions approximates 52 weeks). Uses the full series when it is shorter
// than the period. nil for an empty series.
func RollingHigh(closes []float64, period int) *float64 {
	if len(closes) == 0 {
		return nil
	}
	if len(closes) < period {
		period = len(closes)
	}
	if period < 2 {
		v := closes[len(closes)-1]
		return &v
	}

	highs := talib.Max(closes, period)
	v := highs[len(highs)-1]
	if isNaN(v) {
		return nil
	}
	return &v
}

func isNaN(f float64) bool {
	return f != f
}
