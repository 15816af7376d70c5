package domain

import "time"

// Category is one of the four factor categories a metric belongs to.
type Category string

const (
	CategoryValue    Category = "value"
	CategoryMomentum Category = "momentum"
	CategoryQuality  Category = "quality"
	CategoryRisk     Category = "risk"
)

// Categories lists the factor categories in canonical order.
// Composite and total-score summation always follows this order so results
// are bit-reproducible.
var Categories = []Category{CategoryValue, CategoryMomentum, CategoryQuality, CategoryRisk}

// Metric identifiers. These are the only keys that appear in weight profiles,
// per-metric score maps, and the direction/strategy tables below.
const (
	MetricPETrailing           = "pe_trailing"
	MetricEVToEBITDA           = "ev_to_ebitda"
	MetricEVToSales            = "ev_to_sales"
	MetricTargetUpside         = "target_upside"
	MetricReturn3M             = "return_3m"
	MetricReturn12MEx1M        = "return_12m_ex_1m"
	MetricPctOf52WeekHigh      = "pct_of_52w_high"
	MetricEPSSurprise          = "eps_surprise"
	MetricRevenueSurprise      = "revenue_surprise"
	MetricForwardEPSChange     = "forward_eps_change"
	MetricForwardRevenueChange = "forward_revenue_change"
	MetricROICTrailing         = "roic_trailing"
	MetricROIC3Y               = "roic_3y"
	MetricGrossProfitability   = "gross_profitability"
	MetricAccrualsRatio        = "accruals_ratio"
	MetricFCFToAssets          = "fcf_to_assets"
	MetricEBITDAMargin         = "ebitda_margin"
	MetricBeta                 = "beta"
	MetricVolatility           = "volatility"
	MetricMaxDrawdown          = "max_drawdown"
)

// CategoryMetrics maps each category to its metrics in canonical order.
var CategoryMetrics = map[Category][]string{
	CategoryValue: {
		MetricPETrailing,
		MetricEVToEBITDA,
		MetricEVToSales,
		MetricTargetUpside,
	},
	CategoryMomentum: {
		MetricReturn3M,
		MetricReturn12MEx1M,
		MetricPctOf52WeekHigh,
		MetricEPSSurprise,
		MetricRevenueSurprise,
		MetricForwardEPSChange,
		MetricForwardRevenueChange,
	},
	CategoryQuality: {
		MetricROICTrailing,
		MetricROIC3Y,
		MetricGrossProfitability,
		MetricAccrualsRatio,
		MetricFCFToAssets,
		MetricEBITDAMargin,
	},
	CategoryRisk: {
		MetricBeta,
		MetricVolatility,
		MetricMaxDrawdown,
	},
}

// LowerIsBetter declares the direction of goodness per metric. Metrics not
// listed are higher-is-better. Direction is a property of the scorer, never
// of the extracted metric value itself.
var LowerIsBetter = map[string]bool{
	MetricPETrailing:    true,
	MetricEVToEBITDA:    true,
	MetricEVToSales:     true,
	MetricAccrualsRatio: true,
	MetricBeta:          true,
	MetricVolatility:    true,
	MetricMaxDrawdown:   true,
}

// BenchmarkRelative marks the metrics scored against the assigned benchmark's
// constituents (or the benchmark instrument itself on fallback). Everything
// else — earnings surprises, estimate revisions, target upside, and all of
// QUALITY — is ranked against the whole universe, because ETFs and index
// instruments carry no earnings-specific data.
var BenchmarkRelative = map[string]bool{
	MetricPETrailing:      true,
	MetricEVToEBITDA:      true,
	MetricEVToSales:       true,
	MetricReturn3M:        true,
	MetricReturn12MEx1M:   true,
	MetricPctOf52WeekHigh: true,
	MetricBeta:            true,
	MetricVolatility:      true,
	MetricMaxDrawdown:     true,
}

// RawFundamentalRecord is one security's point-in-time fundamental snapshot,
// populated once at the ingestion boundary. Every field is optional: nil means
// the source had no usable number, and nil must propagate rather than default
// to zero.
type RawFundamentalRecord struct {
	Ticker string `json:"ticker"`

	Price           *float64 `json:"price,omitempty"`
	ConsensusTarget *float64 `json:"consensus_target,omitempty"`

	EPSEstimateNTM          *float64 `json:"eps_estimate_ntm,omitempty"`
	EPSEstimateNTMPrior     *float64 `json:"eps_estimate_ntm_prior,omitempty"`
	RevenueEstimateNTM      *float64 `json:"revenue_estimate_ntm,omitempty"`
	RevenueEstimateNTMPrior *float64 `json:"revenue_estimate_ntm_prior,omitempty"`
	EPSSurprise             *float64 `json:"eps_surprise,omitempty"`
	RevenueSurprise         *float64 `json:"revenue_surprise,omitempty"`

	EBITDA       *float64 `json:"ebitda,omitempty"`
	Revenue      *float64 `json:"revenue,omitempty"`
	GrossProfit  *float64 `json:"gross_profit,omitempty"`
	TotalAssets  *float64 `json:"total_assets,omitempty"`
	FreeCashFlow *float64 `json:"free_cash_flow,omitempty"`
	Accruals     *float64 `json:"accruals,omitempty"`
	ROICTrailing *float64 `json:"roic_trailing,omitempty"`
	ROIC3Y       *float64 `json:"roic_3y,omitempty"`

	PETrailing *float64 `json:"pe_trailing,omitempty"`
	EVToEBITDA *float64 `json:"ev_to_ebitda,omitempty"`
	EVToSales  *float64 `json:"ev_to_sales,omitempty"`

	Beta       *float64 `json:"beta,omitempty"`
	High52Week *float64 `json:"high_52w,omitempty"`
	Volatility *float64 `json:"volatility,omitempty"`
}

// PriceHistorySnapshot is the price-lookup contract the scoring core consumes.
// Lagged prices and the drawdown are nil when history is insufficient or the
// lookup failed.
type PriceHistorySnapshot struct {
	Ticker string `json:"ticker"`

	Current     *float64 `json:"current,omitempty"`
	Price30D    *float64 `json:"price_30d,omitempty"`
	Price90D    *float64 `json:"price_90d,omitempty"`
	Price365D   *float64 `json:"price_365d,omitempty"`
	MaxDrawdown *float64 `json:"max_drawdown,omitempty"` // positive fraction over the last 252 sessions
}

// IndividualMetrics is the derived, immutable metric record for one security.
// Values keep their natural units and natural direction; percentile scaling
// and direction handling belong to the scorers.
type IndividualMetrics struct {
	Ticker string `json:"ticker"`

	// Value
	PETrailing   *float64 `json:"pe_trailing,omitempty"`
	EVToEBITDA   *float64 `json:"ev_to_ebitda,omitempty"`
	EVToSales    *float64 `json:"ev_to_sales,omitempty"`
	TargetUpside *float64 `json:"target_upside,omitempty"`

	// Momentum
	Return3M             *float64 `json:"return_3m,omitempty"`
	Return12MEx1M        *float64 `json:"return_12m_ex_1m,omitempty"`
	PctOf52WeekHigh      *float64 `json:"pct_of_52w_high,omitempty"`
	EPSSurprise          *float64 `json:"eps_surprise,omitempty"`
	RevenueSurprise      *float64 `json:"revenue_surprise,omitempty"`
	ForwardEPSChange     *float64 `json:"forward_eps_change,omitempty"`
	ForwardRevenueChange *float64 `json:"forward_revenue_change,omitempty"`

	// Quality
	ROICTrailing       *float64 `json:"roic_trailing,omitempty"`
	ROIC3Y             *float64 `json:"roic_3y,omitempty"`
	GrossProfitability *float64 `json:"gross_profitability,omitempty"`
	AccrualsRatio      *float64 `json:"accruals_ratio,omitempty"`
	FCFToAssets        *float64 `json:"fcf_to_assets,omitempty"`
	EBITDAMargin       *float64 `json:"ebitda_margin,omitempty"`

	// Risk
	Beta        *float64 `json:"beta,omitempty"`
	Volatility  *float64 `json:"volatility,omitempty"`
	MaxDrawdown *float64 `json:"max_drawdown,omitempty"`
}

// Value returns the metric identified by id, or nil for unknown ids.
func (m *IndividualMetrics) Value(id string) *float64 {
	switch id {
	case MetricPETrailing:
		return m.PETrailing
	case MetricEVToEBITDA:
		return m.EVToEBITDA
	case MetricEVToSales:
		return m.EVToSales
	case MetricTargetUpside:
		return m.TargetUpside
	case MetricReturn3M:
		return m.Return3M
	case MetricReturn12MEx1M:
		return m.Return12MEx1M
	case MetricPctOf52WeekHigh:
		return m.PctOf52WeekHigh
	case MetricEPSSurprise:
		return m.EPSSurprise
	case MetricRevenueSurprise:
		return m.RevenueSurprise
	case MetricForwardEPSChange:
		return m.ForwardEPSChange
	case MetricForwardRevenueChange:
		return m.ForwardRevenueChange
	case MetricROICTrailing:
		return m.ROICTrailing
	case MetricROIC3Y:
		return m.ROIC3Y
	case MetricGrossProfitability:
		return m.GrossProfitability
	case MetricAccrualsRatio:
		return m.AccrualsRatio
	case MetricFCFToAssets:
		return m.FCFToAssets
	case MetricEBITDAMargin:
		return m.EBITDAMargin
	case MetricBeta:
		return m.Beta
	case MetricVolatility:
		return m.Volatility
	case MetricMaxDrawdown:
		return m.MaxDrawdown
	}
	return nil
}

// ScoreWeightProfile is a named weight configuration, loaded once per run and
// immutable for its duration. Weights are relative; they need not sum to 1.
type ScoreWeightProfile struct {
	Name            string               `json:"name"`
	CategoryWeights map[Category]float64 `json:"category_weights"`
	MetricWeights   map[string]float64   `json:"metric_weights"`
}

// RelativePath records which benchmark-relative strategy scored a security's
// VALUE/MOMENTUM/RISK metrics.
type RelativePath string

const (
	// PathConstituent means the security was ranked against its benchmark's
	// constituent distribution.
	PathConstituent RelativePath = "constituent"
	// PathBenchmarkRatio means the ratio fallback against the benchmark
	// instrument itself was used.
	PathBenchmarkRatio RelativePath = "benchmark_ratio"
	// PathNone means no benchmark reference was available; benchmark-relative
	// metrics stay nil.
	PathNone RelativePath = "none"
)

// CompositeScores holds the four category composites.
type CompositeScores struct {
	Value    *float64 `json:"value_score,omitempty"`
	Momentum *float64 `json:"momentum_score,omitempty"`
	Quality  *float64 `json:"quality_score,omitempty"`
	Risk     *float64 `json:"risk_score,omitempty"`
}

// Composite returns the composite for one category.
func (c CompositeScores) Composite(cat Category) *float64 {
	switch cat {
	case CategoryValue:
		return c.Value
	case CategoryMomentum:
		return c.Momentum
	case CategoryQuality:
		return c.Quality
	case CategoryRisk:
		return c.Risk
	}
	return nil
}

// ScoreRecord is the per-security output of a scoring run. Every score is on
// a 0-100 percentile scale; nil marks insufficient inputs and must never be
// coerced to zero downstream.
type ScoreRecord struct {
	Ticker       string              `json:"ticker"`
	Metrics      IndividualMetrics   `json:"metrics"`
	MetricScores map[string]*float64 `json:"metric_scores"`
	Composites   CompositeScores     `json:"composites"`
	TotalScore   *float64            `json:"total_score,omitempty"`
	RelativePath RelativePath        `json:"relative_path"`
}

// RunDiagnostics summarizes one scoring run. A security skipped for missing
// fundamentals or price history shows up as a Requested/Scored deficit here
// rather than as an all-nil placeholder record.
type RunDiagnostics struct {
	RunID           string                  `json:"run_id"`
	Profile         string                  `json:"profile"`
	BenchmarkColumn string                  `json:"benchmark_column"`
	Requested       int                     `json:"requested"`
	Scored          int                     `json:"scored"`
	Skipped         int                     `json:"skipped"`
	SkippedTickers  []string                `json:"skipped_tickers,omitempty"`
	BenchmarkPaths  map[string]RelativePath `json:"benchmark_paths,omitempty"`
	Duration        time.Duration           `json:"duration_ns"`
}
