package scorers

// PercentileRank scores value against a reference population on a 0-100 scale.
//
// Rank formula:
//
//	rank = (worse + equal/2) / n * 100
//
// where "worse" counts population values strictly worse than value, "equal"
// counts exact duplicates (the half-count keeps ties unbiased), and n is the
// size of the population after nil filtering.
//
// lowerIsBetter declares the metric's direction of goodness: when true, a
// larger population value is worse; when false, a smaller one is.
//
// Returns nil when value is nil or when the filtered population is empty.
// Stateless and deterministic: identical arguments always produce identical
// results.
func PercentileRank(value *float64, population []*float64, lowerIsBetter bool) *float64 {
	if value == nil {
		return nil
	}

	v := *value
	n := 0
	worse := 0
	equal := 0

	for _, p := range population {
		if p == nil {
			continue
		}
		n++
		switch {
		case *p == v:
			equal++
		case lowerIsBetter && *p > v:
			worse++
		case !lowerIsBetter && *p < v:
			worse++
		}
	}

	if n == 0 {
		return nil
	}

	rank := (float64(worse) + float64(equal)/2) / float64(n) * 100
	return &rank
}
