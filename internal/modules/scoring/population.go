package scoring

import (
	"github.com/rs/zerolog"

	"github.com/pkaradimas/factordash/internal/modules/scoring/domain"
	"github.com/pkaradimas/factordash/internal/modules/scoring/scorers"
)

// benchmarkPopulation is one benchmark's reference data: the extracted
// metrics of its constituents plus the benchmark instrument's own metrics
// for the ratio fallback.
type benchmarkPopulation struct {
	benchmark    string
	constituents []*domain.IndividualMetrics
	instrument   *domain.IndividualMetrics
}

// deepEnough reports whether the constituent population can serve the
// constituent-percentile strategy at all.
func (p *benchmarkPopulation) deepEnough() bool {
	return p != nil && len(p.constituents) >= scorers.MinConstituents
}

// populationCache builds and holds per-benchmark populations for one scoring
// run. Read-through: the first request for a benchmark builds its population,
// later requests reuse it. No eviction; the cache dies with the run, so
// nothing leaks across runs and its lifetime is explicit.
//
// The orchestrator fills the cache in a pre-pass, before any parallel
// scoring reads it, so gets during scoring are lock-free reads.
type populationCache struct {
	fundamentals FundamentalSource
	prices       PriceHistorySource
	memberships  BenchmarkMembershipSource
	entries      map[string]*benchmarkPopulation
	log          zerolog.Logger
}

func newPopulationCache(fundamentals FundamentalSource, prices PriceHistorySource, memberships BenchmarkMembershipSource, log zerolog.Logger) *populationCache {
	return &populationCache{
		fundamentals: fundamentals,
		prices:       prices,
		memberships:  memberships,
		entries:      make(map[string]*benchmarkPopulation),
		log:          log,
	}
}

// get returns the population for a benchmark, building it on first use.
// Upstream data problems degrade to a thinner (possibly empty) population,
// never to a run failure.
func (c *populationCache) get(benchmark string) *benchmarkPopulation {
	if pop, found := c.entries[benchmark]; found {
		return pop
	}

	pop := c.build(benchmark)
	c.entries[benchmark] = pop
	return pop
}

func (c *populationCache) build(benchmark string) *benchmarkPopulation {
	pop := &benchmarkPopulation{benchmark: benchmark}

	tickers, err := c.memberships.Constituents(benchmark)
	if err != nil {
		c.log.Warn().Err(err).Str("benchmark", benchmark).Msg("Constituent lookup failed")
		tickers = nil
	}

	// The benchmark instrument itself is fetched alongside its members so
	// the ratio fallback has a reference even when membership is thin.
	lookup := append([]string{benchmark}, tickers...)

	fundamentals, err := c.fundamentals.GetMany(lookup)
	if err != nil {
		c.log.Warn().Err(err).Str("benchmark", benchmark).Msg("Constituent fundamentals unavailable")
		fundamentals = nil
	}
	snapshots, err := c.prices.GetMany(lookup)
	if err != nil {
		c.log.Warn().Err(err).Str("benchmark", benchmark).Msg("Constituent price history unavailable")
		snapshots = nil
	}

	pop.instrument = extractIfPresent(benchmark, fundamentals, snapshots)
	for _, ticker := range tickers {
		if ticker == benchmark {
			continue
		}
		if m := extractIfPresent(ticker, fundamentals, snapshots); m != nil {
			pop.constituents = append(pop.constituents, m)
		}
	}

	c.log.Debug().
		Str("benchmark", benchmark).
		Int("constituents", len(pop.constituents)).
		Bool("instrument_data", pop.instrument != nil).
		Msg("Benchmark population built")

	return pop
}

// extractIfPresent derives metrics for a ticker when its fundamentals loaded.
// A missing price snapshot is tolerated: the price-based metrics stay nil.
func extractIfPresent(ticker string, fundamentals map[string]domain.RawFundamentalRecord, snapshots map[string]domain.PriceHistorySnapshot) *domain.IndividualMetrics {
	raw, found := fundamentals[ticker]
	if !found {
		return nil
	}
	snap := snapshots[ticker]
	snap.Ticker = ticker
	m := scorers.ExtractMetrics(&raw, &snap)
	return &m
}
