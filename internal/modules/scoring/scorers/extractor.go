package scorers

import (
	"github.com/pkaradimas/factordash/internal/modules/scoring/domain"
)

// ExtractMetrics derives one security's IndividualMetrics from its raw
// fundamental record and price-history snapshot.
//
// Pure function: no I/O, no errors for ordinary missing data. Any absent or
// unusable input yields a nil metric, never a zero. Every metric keeps its
// natural units and natural direction; direction-of-goodness is owned by the
// scorers, not here.
func ExtractMetrics(raw *domain.RawFundamentalRecord, prices *domain.PriceHistorySnapshot) domain.IndividualMetrics {
	m := domain.IndividualMetrics{Ticker: raw.Ticker}

	// Value
	m.PETrailing = raw.PETrailing
	m.EVToEBITDA = raw.EVToEBITDA
	m.EVToSales = raw.EVToSales
	m.TargetUpside = relativeChange(raw.ConsensusTarget, raw.Price)

	// Momentum
	m.Return3M = priceReturn(prices.Current, prices.Price90D)
	m.Return12MEx1M = priceReturn(prices.Price30D, prices.Price365D)
	m.PctOf52WeekHigh = priceReturn(prices.Current, raw.High52Week)
	m.EPSSurprise = raw.EPSSurprise
	m.RevenueSurprise = raw.RevenueSurprise
	m.ForwardEPSChange = estimateRevision(raw.EPSEstimateNTM, raw.EPSEstimateNTMPrior)
	m.ForwardRevenueChange = estimateRevision(raw.RevenueEstimateNTM, raw.RevenueEstimateNTMPrior)

	// Quality
	m.ROICTrailing = raw.ROICTrailing
	m.ROIC3Y = raw.ROIC3Y
	m.GrossProfitability = overBase(raw.GrossProfit, raw.TotalAssets)
	m.AccrualsRatio = overBase(raw.Accruals, raw.TotalAssets)
	m.FCFToAssets = overBase(raw.FreeCashFlow, raw.TotalAssets)
	m.EBITDAMargin = overBase(raw.EBITDA, raw.Revenue)

	// Risk
	m.Beta = raw.Beta
	m.Volatility = raw.Volatility
	m.MaxDrawdown = prices.MaxDrawdown

	return m
}

// relativeChange computes (target - base) / base, requiring a positive base.
func relativeChange(target, base *float64) *float64 {
	if target == nil || base == nil || *base <= 0 {
		return nil
	}
	v := (*target - *base) / *base
	return &v
}

// estimateRevision computes (current - prior) / |prior|. Estimates can be
// negative, so the denominator uses the absolute value; a zero prior has no
// defined revision.
func estimateRevision(current, prior *float64) *float64 {
	if current == nil || prior == nil || *prior == 0 {
		return nil
	}
	p := *prior
	if p < 0 {
		p = -p
	}
	v := (*current - *prior) / p
	return &v
}

// overBase divides a flow figure by its base (total assets, revenue). The
// base must be strictly positive for the ratio to mean anything.
func overBase(num, base *float64) *float64 {
	if num == nil || base == nil || *base <= 0 {
		return nil
	}
	v := *num / *base
	return &v
}

// priceReturn computes (current / past) - 1 for a positive past price.
func priceReturn(current, past *float64) *float64 {
	if current == nil || past == nil || *past <= 0 {
		return nil
	}
	v := *current / *past - 1
	return &v
}
