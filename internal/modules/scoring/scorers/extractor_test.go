package scorers

import (
	"math"
	"testing"

	"github.com/pkaradimas/factordash/internal/modules/scoring/domain"
)

func TestExtractMetricsFormulas(t *testing.T) {
	raw := &domain.RawFundamentalRecord{
		Ticker:                  "ACME",
		Price:                   fp(100),
		ConsensusTarget:         fp(120),
		EPSEstimateNTM:          fp(5.5),
		EPSEstimateNTMPrior:     fp(5.0),
		RevenueEstimateNTM:      fp(950),
		RevenueEstimateNTMPrior: fp(1000),
		EPSSurprise:             fp(0.04),
		RevenueSurprise:         fp(0.01),
		EBITDA:                  fp(250),
		Revenue:                 fp(1000),
		GrossProfit:             fp(400),
		TotalAssets:             fp(2000),
		FreeCashFlow:            fp(150),
		Accruals:                fp(-50),
		ROICTrailing:            fp(0.12),
		ROIC3Y:                  fp(0.10),
		PETrailing:              fp(18),
		EVToEBITDA:              fp(11),
		EVToSales:               fp(2.4),
		Beta:                    fp(1.1),
		High52Week:              fp(125),
		Volatility:              fp(0.22),
	}
	prices := &domain.PriceHistorySnapshot{
		Ticker:      "ACME",
		Current:     fp(100),
		Price30D:    fp(95),
		Price90D:    fp(80),
		Price365D:   fp(76),
		MaxDrawdown: fp(0.18),
	}

	m := ExtractMetrics(raw, prices)

	checks := []struct {
		name string
		got  *float64
		want float64
	}{
		{"target upside", m.TargetUpside, 0.20},
		{"forward EPS change", m.ForwardEPSChange, 0.10},
		{"forward revenue change", m.ForwardRevenueChange, -0.05},
		{"EPS surprise passthrough", m.EPSSurprise, 0.04},
		{"gross profitability", m.GrossProfitability, 0.20},
		{"accruals ratio", m.AccrualsRatio, -0.025},
		{"FCF to assets", m.FCFToAssets, 0.075},
		{"EBITDA margin", m.EBITDAMargin, 0.25},
		{"3-month return", m.Return3M, 0.25},
		{"12-month ex 1-month return", m.Return12MEx1M, 0.25},
		{"pct of 52-week high", m.PctOf52WeekHigh, -0.20},
		{"P/E passthrough", m.PETrailing, 18},
		{"beta passthrough", m.Beta, 1.1},
		{"drawdown from snapshot", m.MaxDrawdown, 0.18},
	}
	for _, c := range checks {
		if c.got == nil {
			t.Errorf("%s = nil, want %v", c.name, c.want)
			continue
		}
		if math.Abs(*c.got-c.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", c.name, *c.got, c.want)
		}
	}
}

func TestExtractMetricsMissingData(t *testing.T) {
	tests := []struct {
		name   string
		raw    domain.RawFundamentalRecord
		prices domain.PriceHistorySnapshot
		check  func(m domain.IndividualMetrics) *float64
	}{
		{
			name:  "no target, no upside",
			raw:   domain.RawFundamentalRecord{Price: fp(100)},
			check: func(m domain.IndividualMetrics) *float64 { return m.TargetUpside },
		},
		{
			name:  "zero price, no upside",
			raw:   domain.RawFundamentalRecord{Price: fp(0), ConsensusTarget: fp(120)},
			check: func(m domain.IndividualMetrics) *float64 { return m.TargetUpside },
		},
		{
			name:  "zero prior estimate, no revision",
			raw:   domain.RawFundamentalRecord{EPSEstimateNTM: fp(5), EPSEstimateNTMPrior: fp(0)},
			check: func(m domain.IndividualMetrics) *float64 { return m.ForwardEPSChange },
		},
		{
			name:  "negative total assets, no profitability",
			raw:   domain.RawFundamentalRecord{GrossProfit: fp(400), TotalAssets: fp(-10)},
			check: func(m domain.IndividualMetrics) *float64 { return m.GrossProfitability },
		},
		{
			name:  "zero revenue, no margin",
			raw:   domain.RawFundamentalRecord{EBITDA: fp(250), Revenue: fp(0)},
			check: func(m domain.IndividualMetrics) *float64 { return m.EBITDAMargin },
		},
		{
			name:   "missing lagged price, no return",
			prices: domain.PriceHistorySnapshot{Current: fp(100)},
			check:  func(m domain.IndividualMetrics) *float64 { return m.Return3M },
		},
		{
			name:   "missing drawdown stays missing",
			prices: domain.PriceHistorySnapshot{Current: fp(100)},
			check:  func(m domain.IndividualMetrics) *float64 { return m.MaxDrawdown },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ExtractMetrics(&tt.raw, &tt.prices)
			if got := tt.check(m); got != nil {
				t.Errorf("metric = %v, want nil", *got)
			}
		})
	}
}

func TestEstimateRevisionNegativePrior(t *testing.T) {
	// A prior estimate of -2 moving to -1 is an upward revision; the absolute
	// denominator keeps the sign meaningful.
	got := estimateRevision(fp(-1), fp(-2))
	if got == nil {
		t.Fatal("estimateRevision() = nil, want a value")
	}
	if math.Abs(*got-0.5) > 1e-9 {
		t.Errorf("estimateRevision(-1, -2) = %v, want 0.5", *got)
	}
}
