package scoring

import (
	"github.com/pkaradimas/factordash/internal/modules/scoring/domain"
)

// Collaborator contracts. The engine is pure computation over these; it owns
// no retries, timeouts, or caching-table lifecycle. A source must omit tickers
// it has no data for rather than fail the whole batch — the engine does not
// distinguish "asked and got nothing" from "could not be reached", both
// degrade to nil inputs.

// FundamentalSource supplies point-in-time fundamental records.
type FundamentalSource interface {
	GetMany(tickers []string) (map[string]domain.RawFundamentalRecord, error)
}

// PriceHistorySource supplies price-history snapshots.
type PriceHistorySource interface {
	GetMany(tickers []string) (map[string]domain.PriceHistorySnapshot, error)
}

// BenchmarkAssignmentSource resolves each ticker's benchmark for one of the
// recognized assignment columns. Tickers without an assignment are omitted.
type BenchmarkAssignmentSource interface {
	Assignments(column string, tickers []string) (map[string]string, error)
}

// BenchmarkMembershipSource lists a benchmark's constituent tickers; empty
// for an unknown benchmark or one with no recorded membership.
type BenchmarkMembershipSource interface {
	Constituents(benchmark string) ([]string, error)
}

// WeightProfileSource loads a named weight profile. Must fail with
// ErrProfileNotFound when the profile has zero rows.
type WeightProfileSource interface {
	Get(name string) (*domain.ScoreWeightProfile, error)
}
