package universe

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// MembershipRepository lists benchmark constituent memberships. Implements
// the scoring engine's BenchmarkMembershipSource.
type MembershipRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewMembershipRepository creates a new membership repository.
func NewMembershipRepository(db *sql.DB, log zerolog.Logger) *MembershipRepository {
	return &MembershipRepository{
		db:  db,
		log: log.With().Str("repo", "membership").Logger(),
	}
}

// Constituents returns the member tickers of a benchmark, empty when the
// benchmark is unknown or has no recorded membership.
func (r *MembershipRepository) Constituents(benchmark string) ([]string, error) {
	rows, err := r.db.Query(
		"SELECT constituent FROM benchmark_constituents WHERE benchmark = ? ORDER BY constituent",
		canonicalTicker(benchmark),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query constituents: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("failed to scan constituent: %w", err)
		}
		tickers = append(tickers, canonicalTicker(ticker))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating constituents: %w", err)
	}

	return tickers, nil
}

// Replace rewrites a benchmark's membership wholesale.
func (r *MembershipRepository) Replace(benchmark string, constituents []string) error {
	benchmark = canonicalTicker(benchmark)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM benchmark_constituents WHERE benchmark = ?", benchmark); err != nil {
		return fmt.Errorf("failed to clear constituents: %w", err)
	}
	for _, ticker := range constituents {
		if _, err := tx.Exec(
			"INSERT INTO benchmark_constituents (benchmark, constituent) VALUES (?, ?)",
			benchmark, canonicalTicker(ticker),
		); err != nil {
			return fmt.Errorf("failed to insert constituent: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit constituents: %w", err)
	}

	r.log.Debug().Str("benchmark", benchmark).Int("count", len(constituents)).Msg("Membership replaced")
	return nil
}
