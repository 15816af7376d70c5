package scorers

import "github.com/pkaradimas/factordash/internal/modules/scoring/domain"

// Default policy table. These are the only places in the engine where a
// missing number is replaced by one, applied strictly at the point where a
// number is unavoidably required — never inside a ranking or composite step.

// ratioDefaults substitutes a benchmark instrument's missing metric value in
// the single-benchmark-ratio strategy. An index instrument has beta 1 against
// itself, so a missing benchmark beta defaults to 1.0. No other metric has a
// defensible default.
var ratioDefaults = map[string]float64{
	domain.MetricBeta: 1.0,
}

// metricWeight returns the profile's weight for a metric; a metric absent
// from the profile carries zero weight.
func metricWeight(profile *domain.ScoreWeightProfile, metricID string) float64 {
	if profile == nil {
		return 0
	}
	return profile.MetricWeights[metricID]
}
