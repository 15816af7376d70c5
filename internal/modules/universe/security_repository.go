package universe

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pkaradimas/factordash/internal/modules/scoring"
)

// SecurityRepository handles universe database operations.
type SecurityRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSecurityRepository creates a new security repository.
func NewSecurityRepository(db *sql.DB, log zerolog.Logger) *SecurityRepository {
	return &SecurityRepository{
		db:  db,
		log: log.With().Str("repo", "security").Logger(),
	}
}

// GetAllActive returns the tickers of every active security, ordered by
// ticker so pagination is stable.
func (r *SecurityRepository) GetAllActive() ([]Security, error) {
	return r.query("SELECT ticker, name, sector, active, benchmark_primary, benchmark_secondary, benchmark_tertiary, benchmark_custom FROM securities WHERE active = 1 ORDER BY ticker")
}

// GetPage returns one page of active securities. Paging is a data-selection
// concern only; the scoring pipeline is identical for a page and the whole
// universe.
func (r *SecurityRepository) GetPage(limit, offset int) ([]Security, error) {
	return r.query(
		"SELECT ticker, name, sector, active, benchmark_primary, benchmark_secondary, benchmark_tertiary, benchmark_custom FROM securities WHERE active = 1 ORDER BY ticker LIMIT ? OFFSET ?",
		limit, offset,
	)
}

// Assignments resolves each ticker's benchmark for the selected column.
// Implements the scoring engine's BenchmarkAssignmentSource: tickers without
// an assignment are omitted from the result.
func (r *SecurityRepository) Assignments(column string, tickers []string) (map[string]string, error) {
	if !scoring.ValidBenchmarkColumn(column) {
		return nil, fmt.Errorf("%w: %q", scoring.ErrUnknownBenchmarkColumn, column)
	}

	securities, err := r.GetAllActive()
	if err != nil {
		return nil, err
	}

	byTicker := make(map[string]Security, len(securities))
	for _, sec := range securities {
		byTicker[sec.Ticker] = sec
	}

	assignments := make(map[string]string, len(tickers))
	for _, ticker := range tickers {
		sec, found := byTicker[canonicalTicker(ticker)]
		if !found {
			continue
		}
		if benchmark := sec.Benchmark(column); benchmark != "" {
			assignments[sec.Ticker] = benchmark
		}
	}
	return assignments, nil
}

// Upsert inserts or replaces a security row.
func (r *SecurityRepository) Upsert(sec Security) error {
	sec.Ticker = canonicalTicker(sec.Ticker)

	_, err := r.db.Exec(`
		INSERT INTO securities
			(ticker, name, sector, active, benchmark_primary, benchmark_secondary, benchmark_tertiary, benchmark_custom)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			name = excluded.name,
			sector = excluded.sector,
			active = excluded.active,
			benchmark_primary = excluded.benchmark_primary,
			benchmark_secondary = excluded.benchmark_secondary,
			benchmark_tertiary = excluded.benchmark_tertiary,
			benchmark_custom = excluded.benchmark_custom
	`,
		sec.Ticker,
		sec.Name,
		nullString(sec.Sector),
		boolToInt(sec.Active),
		nullString(canonicalTicker(sec.BenchmarkPrimary)),
		nullString(canonicalTicker(sec.BenchmarkSecondary)),
		nullString(canonicalTicker(sec.BenchmarkTertiary)),
		nullString(canonicalTicker(sec.BenchmarkCustom)),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert security: %w", err)
	}

	r.log.Debug().Str("ticker", sec.Ticker).Msg("Security saved")
	return nil
}

func (r *SecurityRepository) query(query string, args ...interface{}) ([]Security, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query securities: %w", err)
	}
	defer rows.Close()

	var securities []Security
	for rows.Next() {
		var sec Security
		var sector, primary, secondary, tertiary, custom sql.NullString
		var active sql.NullInt64

		err := rows.Scan(&sec.Ticker, &sec.Name, &sector, &active, &primary, &secondary, &tertiary, &custom)
		if err != nil {
			return nil, fmt.Errorf("failed to scan security: %w", err)
		}

		sec.Ticker = canonicalTicker(sec.Ticker)
		sec.Sector = sector.String
		sec.Active = active.Int64 != 0
		sec.BenchmarkPrimary = canonicalTicker(primary.String)
		sec.BenchmarkSecondary = canonicalTicker(secondary.String)
		sec.BenchmarkTertiary = canonicalTicker(tertiary.String)
		sec.BenchmarkCustom = canonicalTicker(custom.String)

		securities = append(securities, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating securities: %w", err)
	}

	return securities, nil
}

func canonicalTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
