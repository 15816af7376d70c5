package scheduler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pkaradimas/factordash/internal/modules/scoring"
	"github.com/pkaradimas/factordash/internal/modules/universe"
)

// ScoreRefreshJob recomputes the full-universe scoring run on a schedule so
// the dashboard always has fresh composites after overnight data syncs.
type ScoreRefreshJob struct {
	log        zerolog.Logger
	securities *universe.SecurityRepository
	service    *scoring.Service
	profile    string
	column     string
}

// ScoreRefreshConfig holds configuration for the score refresh job.
type ScoreRefreshConfig struct {
	Log        zerolog.Logger
	Securities *universe.SecurityRepository
	Service    *scoring.Service
	Profile    string
	Column     string
}

// NewScoreRefreshJob creates a new score refresh job.
func NewScoreRefreshJob(cfg ScoreRefreshConfig) *ScoreRefreshJob {
	return &ScoreRefreshJob{
		log:        cfg.Log.With().Str("job", "score_refresh").Logger(),
		securities: cfg.Securities,
		service:    cfg.Service,
		profile:    cfg.Profile,
		column:     cfg.Column,
	}
}

// Name returns the job name.
func (j *ScoreRefreshJob) Name() string {
	return "score_refresh"
}

// Run executes one full-universe scoring run and logs its diagnostics.
func (j *ScoreRefreshJob) Run() error {
	securities, err := j.securities.GetAllActive()
	if err != nil {
		return fmt.Errorf("failed to load universe: %w", err)
	}

	tickers := make([]string, len(securities))
	for i, sec := range securities {
		tickers[i] = sec.Ticker
	}

	result, err := j.service.Run(scoring.RunParams{
		Tickers:         tickers,
		Profile:         j.profile,
		BenchmarkColumn: j.column,
	})
	if err != nil {
		return fmt.Errorf("scoring run failed: %w", err)
	}

	j.log.Info().
		Str("run_id", result.Diagnostics.RunID).
		Int("scored", result.Diagnostics.Scored).
		Int("skipped", result.Diagnostics.Skipped).
		Msg("Score refresh complete")

	return nil
}
