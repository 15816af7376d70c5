package scoring

import "errors"

// Configuration errors. These are the only failures that reject a whole run;
// every data-level problem degrades to a nil metric or score instead.
var (
	// ErrProfileNotFound means the requested weight profile has no rows at
	// all. A profile whose weights are all zero is valid and is not this.
	ErrProfileNotFound = errors.New("weight profile not found")

	// ErrUnknownBenchmarkColumn means the requested benchmark column is not
	// one of the four recognized assignment columns.
	ErrUnknownBenchmarkColumn = errors.New("unknown benchmark column")
)

// Recognized benchmark assignment columns.
const (
	BenchmarkColumnPrimary   = "benchmark_primary"
	BenchmarkColumnSecondary = "benchmark_secondary"
	BenchmarkColumnTertiary  = "benchmark_tertiary"
	BenchmarkColumnCustom    = "benchmark_custom"
)

// BenchmarkColumns lists the recognized assignment columns.
var BenchmarkColumns = []string{
	BenchmarkColumnPrimary,
	BenchmarkColumnSecondary,
	BenchmarkColumnTertiary,
	BenchmarkColumnCustom,
}

// ValidBenchmarkColumn reports whether column is one of the recognized four.
func ValidBenchmarkColumn(column string) bool {
	for _, c := range BenchmarkColumns {
		if c == column {
			return true
		}
	}
	return false
}
