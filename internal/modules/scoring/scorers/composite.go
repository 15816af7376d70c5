package scorers

import (
	"github.com/pkaradimas/factordash/internal/modules/scoring/domain"
)

// CompositeScores folds per-metric scores into the four category composites.
//
// Each composite is the weighted average of the category's non-nil metric
// scores; the weights of nil metrics are excluded from both numerator and
// denominator (renormalization over available weight, not a fixed
// denominator). A category whose metrics are all nil — or whose available
// weight is zero — yields a nil composite. Summation follows the registry's
// canonical metric order so results are bit-reproducible.
func CompositeScores(metricScores map[string]*float64, profile *domain.ScoreWeightProfile) domain.CompositeScores {
	return domain.CompositeScores{
		Value:    categoryComposite(domain.CategoryValue, metricScores, profile),
		Momentum: categoryComposite(domain.CategoryMomentum, metricScores, profile),
		Quality:  categoryComposite(domain.CategoryQuality, metricScores, profile),
		Risk:     categoryComposite(domain.CategoryRisk, metricScores, profile),
	}
}

func categoryComposite(cat domain.Category, metricScores map[string]*float64, profile *domain.ScoreWeightProfile) *float64 {
	var sum, weight float64
	for _, id := range domain.CategoryMetrics[cat] {
		score := metricScores[id]
		if score == nil {
			continue
		}
		w := metricWeight(profile, id)
		sum += *score * w
		weight += w
	}
	if weight == 0 {
		return nil
	}
	v := sum / weight
	return &v
}

// TotalScore combines the four category composites under the profile's
// category weights, with the same nil-exclusion and renormalization rule.
// A zero-weighted category still carries a valid composite; it simply
// contributes nothing here. Nil when every composite is nil or no weight
// remains.
func TotalScore(composites domain.CompositeScores, profile *domain.ScoreWeightProfile) *float64 {
	var sum, weight float64
	for _, cat := range domain.Categories {
		score := composites.Composite(cat)
		if score == nil {
			continue
		}
		w := profile.CategoryWeights[cat]
		sum += *score * w
		weight += w
	}
	if weight == 0 {
		return nil
	}
	v := sum / weight
	return &v
}
