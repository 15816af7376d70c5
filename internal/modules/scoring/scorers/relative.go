package scorers

import (
	"github.com/pkaradimas/factordash/internal/modules/scoring/domain"
)

// MinConstituents is the smallest usable constituent population for the
// constituent-percentile strategy. A metric with fewer non-nil values than
// this in the benchmark's membership falls back to the ratio strategy.
const MinConstituents = 10

// ConstituentPercentile ranks one metric against the benchmark's constituent
// distribution. ok reports whether the population was deep enough for this
// metric; when ok is false the caller should fall back to the ratio strategy.
// A nil score with ok == true means the security itself has no value for the
// metric.
func ConstituentPercentile(metricID string, value *float64, population []*domain.IndividualMetrics) (score *float64, ok bool) {
	values := make([]*float64, 0, len(population))
	usable := 0
	for _, m := range population {
		v := m.Value(metricID)
		if v != nil {
			usable++
		}
		values = append(values, v)
	}
	if usable < MinConstituents {
		return nil, false
	}
	return PercentileRank(value, values, domain.LowerIsBetter[metricID]), true
}

// BenchmarkRatioScore maps a metric onto 0-100 by comparing it with the
// benchmark instrument's own value. Parity with the benchmark scores 50 and
// the mapping is monotonic in "better than benchmark":
//
//	rel   = (value - bench) / |bench|, sign-flipped for lower-is-better metrics
//	score = clamp(50 + 50*rel, 0, 100)
//
// Returns nil when the security's value or the benchmark's value (after the
// default policy) is unavailable or zero-denominated.
func BenchmarkRatioScore(metricID string, value *float64, benchmark *domain.IndividualMetrics) *float64 {
	if value == nil || benchmark == nil {
		return nil
	}

	bench := benchmark.Value(metricID)
	if bench == nil {
		if d, hasDefault := ratioDefaults[metricID]; hasDefault {
			bench = &d
		} else {
			return nil
		}
	}
	if *bench == 0 {
		return nil
	}

	denom := *bench
	if denom < 0 {
		denom = -denom
	}
	rel := (*value - *bench) / denom
	if domain.LowerIsBetter[metricID] {
		rel = -rel
	}

	score := 50 + 50*rel
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}
	return &score
}
