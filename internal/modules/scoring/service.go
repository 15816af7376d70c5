package scoring

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pkaradimas/factordash/internal/modules/scoring/domain"
	"github.com/pkaradimas/factordash/internal/modules/scoring/scorers"
)

// Service orchestrates scoring runs. It is stateless across runs: every run
// rebuilds its reference populations from the sources and discards them at
// the end.
type Service struct {
	fundamentals FundamentalSource
	prices       PriceHistorySource
	assignments  BenchmarkAssignmentSource
	memberships  BenchmarkMembershipSource
	weights      WeightProfileSource
	log          zerolog.Logger
}

// ServiceConfig wires the collaborator sources into a Service.
type ServiceConfig struct {
	Fundamentals FundamentalSource
	Prices       PriceHistorySource
	Assignments  BenchmarkAssignmentSource
	Memberships  BenchmarkMembershipSource
	Weights      WeightProfileSource
	Log          zerolog.Logger
}

// NewService creates a scoring service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		fundamentals: cfg.Fundamentals,
		prices:       cfg.Prices,
		assignments:  cfg.Assignments,
		memberships:  cfg.Memberships,
		weights:      cfg.Weights,
		log:          cfg.Log.With().Str("module", "scoring").Logger(),
	}
}

// RunParams selects what to score and how. Tickers is the universe or one
// page of it — paging is purely a data-selection concern for the caller, the
// scoring pipeline is the same either way.
type RunParams struct {
	Tickers         []string `json:"tickers"`
	Profile         string   `json:"profile"`
	BenchmarkColumn string   `json:"benchmark_column"`
}

// RunResult is the ordered score records plus run metadata.
type RunResult struct {
	Records     []domain.ScoreRecord  `json:"records"`
	Diagnostics domain.RunDiagnostics `json:"diagnostics"`
}

// Run executes one scoring run.
//
// Only configuration problems (unknown profile, unrecognized benchmark
// column) reject the run. Data problems — missing fundamentals, missing price
// history, thin benchmark memberships, unreachable sources — degrade to nil
// metrics or skipped securities and are reported in the diagnostics.
func (s *Service) Run(params RunParams) (*RunResult, error) {
	start := time.Now()

	if !ValidBenchmarkColumn(params.BenchmarkColumn) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBenchmarkColumn, params.BenchmarkColumn)
	}

	profile, err := s.weights.Get(params.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to load weight profile %q: %w", params.Profile, err)
	}

	tickers := normalizeTickers(params.Tickers)

	fundamentals, err := s.fundamentals.GetMany(tickers)
	if err != nil {
		s.log.Warn().Err(err).Msg("Fundamental source unavailable, run degrades to skipped securities")
		fundamentals = nil
	}
	snapshots, err := s.prices.GetMany(tickers)
	if err != nil {
		s.log.Warn().Err(err).Msg("Price history source unavailable, run degrades to skipped securities")
		snapshots = nil
	}

	// Partition the universe: a security missing fundamentals or price
	// history is excluded from the output, not emitted as an all-nil record.
	var scorable []string
	var skipped []string
	for _, ticker := range tickers {
		_, hasFundamentals := fundamentals[ticker]
		_, hasPrices := snapshots[ticker]
		if hasFundamentals && hasPrices {
			scorable = append(scorable, ticker)
		} else {
			skipped = append(skipped, ticker)
		}
	}

	// Universe reference population: extracted once, reused for every
	// security's universe-percentile metrics.
	metricsByTicker := make(map[string]*domain.IndividualMetrics, len(scorable))
	universe := make([]*domain.IndividualMetrics, 0, len(scorable))
	for _, ticker := range scorable {
		raw := fundamentals[ticker]
		snap := snapshots[ticker]
		m := scorers.ExtractMetrics(&raw, &snap)
		metricsByTicker[ticker] = &m
		universe = append(universe, &m)
	}
	universeValues := collectMetricValues(universe)

	assignments, err := s.assignments.Assignments(params.BenchmarkColumn, scorable)
	if err != nil {
		s.log.Warn().Err(err).Msg("Benchmark assignments unavailable, relative metrics degrade to nil")
		assignments = nil
	}

	// Build every distinct benchmark population up front. This is the one
	// barrier of the run: after it the cache is only read, so the scoring
	// pass can fan out without synchronization.
	cache := newPopulationCache(s.fundamentals, s.prices, s.memberships, s.log)
	for _, ticker := range scorable {
		if benchmark := assignments[ticker]; benchmark != "" {
			cache.get(benchmark)
		}
	}

	records := make([]domain.ScoreRecord, len(scorable))
	s.forEachIndex(len(scorable), func(i int) {
		ticker := scorable[i]
		var pop *benchmarkPopulation
		if benchmark := assignments[ticker]; benchmark != "" {
			pop = cache.entries[benchmark]
		}
		records[i] = s.scoreSecurity(metricsByTicker[ticker], universeValues, pop, profile)
	})

	orderRecords(records)

	diag := domain.RunDiagnostics{
		RunID:           uuid.New().String(),
		Profile:         profile.Name,
		BenchmarkColumn: params.BenchmarkColumn,
		Requested:       len(tickers),
		Scored:          len(records),
		Skipped:         len(skipped),
		SkippedTickers:  skipped,
		BenchmarkPaths:  benchmarkPaths(cache),
		Duration:        time.Since(start),
	}

	s.log.Info().
		Str("run_id", diag.RunID).
		Str("profile", diag.Profile).
		Str("benchmark_column", diag.BenchmarkColumn).
		Int("scored", diag.Scored).
		Int("skipped", diag.Skipped).
		Dur("duration_ms", diag.Duration).
		Msg("Scoring run complete")

	return &RunResult{Records: records, Diagnostics: diag}, nil
}

// scoreSecurity runs extractor output through the rankers and composites for
// one security. pop may be nil when the security has no benchmark assignment.
func (s *Service) scoreSecurity(m *domain.IndividualMetrics, universeValues map[string][]*float64, pop *benchmarkPopulation, profile *domain.ScoreWeightProfile) domain.ScoreRecord {
	path := relativePath(pop)

	metricScores := make(map[string]*float64)
	for _, cat := range domain.Categories {
		for _, id := range domain.CategoryMetrics[cat] {
			value := m.Value(id)

			if !domain.BenchmarkRelative[id] {
				metricScores[id] = scorers.PercentileRank(value, universeValues[id], domain.LowerIsBetter[id])
				continue
			}

			switch path {
			case domain.PathConstituent:
				score, ok := scorers.ConstituentPercentile(id, value, pop.constituents)
				if !ok {
					// This one metric is too thin in the membership; it
					// alone falls back, the benchmark path stands.
					score = scorers.BenchmarkRatioScore(id, value, pop.instrument)
				}
				metricScores[id] = score
			case domain.PathBenchmarkRatio:
				metricScores[id] = scorers.BenchmarkRatioScore(id, value, pop.instrument)
			default:
				metricScores[id] = nil
			}
		}
	}

	composites := scorers.CompositeScores(metricScores, profile)

	return domain.ScoreRecord{
		Ticker:       m.Ticker,
		Metrics:      *m,
		MetricScores: metricScores,
		Composites:   composites,
		TotalScore:   scorers.TotalScore(composites, profile),
		RelativePath: path,
	}
}

// relativePath decides the benchmark-relative strategy for a population:
// constituent percentile when the membership is deep enough, the ratio
// fallback when the instrument's own data exists, otherwise none.
func relativePath(pop *benchmarkPopulation) domain.RelativePath {
	switch {
	case pop == nil:
		return domain.PathNone
	case pop.deepEnough():
		return domain.PathConstituent
	case pop.instrument != nil:
		return domain.PathBenchmarkRatio
	default:
		return domain.PathNone
	}
}

// forEachIndex runs fn over [0, n) with a bounded worker pool. Securities are
// scored independently against read-only populations, so correctness does not
// depend on worker count or ordering.
func (s *Service) forEachIndex(n int, fn func(i int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
}

// collectMetricValues pivots the universe population into per-metric value
// slices so each percentile rank scans a ready-made slice.
func collectMetricValues(universe []*domain.IndividualMetrics) map[string][]*float64 {
	values := make(map[string][]*float64)
	for _, cat := range domain.Categories {
		for _, id := range domain.CategoryMetrics[cat] {
			column := make([]*float64, len(universe))
			for i, m := range universe {
				column[i] = m.Value(id)
			}
			values[id] = column
		}
	}
	return values
}

// orderRecords sorts by total score descending with nil totals last; ties
// break on ticker so identical inputs always produce identical output order.
func orderRecords(records []domain.ScoreRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].TotalScore, records[j].TotalScore
		switch {
		case a == nil && b == nil:
			return records[i].Ticker < records[j].Ticker
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a > *b
		default:
			return records[i].Ticker < records[j].Ticker
		}
	})
}

// benchmarkPaths summarizes which strategy each benchmark ended up serving.
func benchmarkPaths(cache *populationCache) map[string]domain.RelativePath {
	if len(cache.entries) == 0 {
		return nil
	}
	paths := make(map[string]domain.RelativePath, len(cache.entries))
	for benchmark, pop := range cache.entries {
		paths[benchmark] = relativePath(pop)
	}
	return paths
}

// normalizeTickers trims, uppercases, and de-duplicates while preserving the
// caller's order.
func normalizeTickers(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
