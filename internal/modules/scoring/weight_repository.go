package scoring

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pkaradimas/factordash/internal/modules/scoring/domain"
)

// WeightRepository loads weight profiles from the score_weight_profiles
// table. One row per weight: category rows leave metric empty, metric rows
// carry the metric id. Implements WeightProfileSource.
type WeightRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewWeightRepository creates a new weight profile repository.
func NewWeightRepository(db *sql.DB, log zerolog.Logger) *WeightRepository {
	return &WeightRepository{
		db:  db,
		log: log.With().Str("repo", "score_weights").Logger(),
	}
}

// Get loads a profile by name. A profile with zero rows does not exist and
// returns ErrProfileNotFound; a profile whose weights are all zero is valid.
func (r *WeightRepository) Get(name string) (*domain.ScoreWeightProfile, error) {
	name = strings.TrimSpace(name)

	rows, err := r.db.Query(
		"SELECT category, metric, weight FROM score_weight_profiles WHERE profile = ?",
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query weight profile: %w", err)
	}
	defer rows.Close()

	profile := &domain.ScoreWeightProfile{
		Name:            name,
		CategoryWeights: make(map[domain.Category]float64),
		MetricWeights:   make(map[string]float64),
	}

	count := 0
	for rows.Next() {
		var category string
		var metric sql.NullString
		var weight float64
		if err := rows.Scan(&category, &metric, &weight); err != nil {
			return nil, fmt.Errorf("failed to scan weight row: %w", err)
		}

		count++
		if metric.Valid && metric.String != "" {
			profile.MetricWeights[metric.String] = weight
		} else {
			profile.CategoryWeights[domain.Category(category)] = weight
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating weight rows: %w", err)
	}

	if count == 0 {
		return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}

	return profile, nil
}

// Upsert replaces a profile's rows wholesale. Used by the ingestion glue when
// a profile configuration is (re)loaded.
func (r *WeightRepository) Upsert(profile *domain.ScoreWeightProfile) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM score_weight_profiles WHERE profile = ?", profile.Name); err != nil {
		return fmt.Errorf("failed to clear weight profile: %w", err)
	}

	for _, cat := range domain.Categories {
		weight, found := profile.CategoryWeights[cat]
		if !found {
			continue
		}
		if _, err := tx.Exec(
			"INSERT INTO score_weight_profiles (profile, category, metric, weight) VALUES (?, ?, NULL, ?)",
			profile.Name, string(cat), weight,
		); err != nil {
			return fmt.Errorf("failed to insert category weight: %w", err)
		}

		for _, id := range domain.CategoryMetrics[cat] {
			w, found := profile.MetricWeights[id]
			if !found {
				continue
			}
			if _, err := tx.Exec(
				"INSERT INTO score_weight_profiles (profile, category, metric, weight) VALUES (?, ?, ?, ?)",
				profile.Name, string(cat), id, w,
			); err != nil {
				return fmt.Errorf("failed to insert metric weight: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit weight profile: %w", err)
	}

	r.log.Info().Str("profile", profile.Name).Msg("Weight profile saved")
	return nil
}
