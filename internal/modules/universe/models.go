package universe

// Security is one row of the scoring universe. Tickers are canonical
// (trimmed, uppercased) everywhere past the repository boundary.
//
// The four benchmark columns hold the ticker of an assigned benchmark
// instrument; empty means no assignment in that column. Exactly one column is
// selected per scoring run.
type Security struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Sector string `json:"sector,omitempty"`
	Active bool   `json:"active"`

	BenchmarkPrimary   string `json:"benchmark_primary,omitempty"`
	BenchmarkSecondary string `json:"benchmark_secondary,omitempty"`
	BenchmarkTertiary  string `json:"benchmark_tertiary,omitempty"`
	BenchmarkCustom    string `json:"benchmark_custom,omitempty"`
}

// Benchmark returns the assignment in the named column, or "" when the column
// is unknown or unassigned.
func (s *Security) Benchmark(column string) string {
	switch column {
	case "benchmark_primary":
		return s.BenchmarkPrimary
	case "benchmark_secondary":
		return s.BenchmarkSecondary
	case "benchmark_tertiary":
		return s.BenchmarkTertiary
	case "benchmark_custom":
		return s.BenchmarkCustom
	}
	return ""
}
