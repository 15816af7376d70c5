package scoring

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkaradimas/factordash/internal/database"
	"github.com/pkaradimas/factordash/internal/modules/scoring/domain"
)

func newTestWeightRepository(t *testing.T) *WeightRepository {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	return NewWeightRepository(db.Conn(), zerolog.Nop())
}

func TestWeightRepositoryRoundTrip(t *testing.T) {
	repo := newTestWeightRepository(t)

	saved := &domain.ScoreWeightProfile{
		Name: "standard",
		CategoryWeights: map[domain.Category]float64{
			domain.CategoryValue:    0.40,
			domain.CategoryMomentum: 0.30,
			domain.CategoryQuality:  0.20,
			domain.CategoryRisk:     0.10,
		},
		MetricWeights: map[string]float64{
			domain.MetricPETrailing:   2,
			domain.MetricEVToEBITDA:   1,
			domain.MetricReturn3M:     1,
			domain.MetricROICTrailing: 1,
			domain.MetricBeta:         1,
		},
	}
	require.NoError(t, repo.Upsert(saved))

	loaded, err := repo.Get("standard")
	require.NoError(t, err)
	assert.Equal(t, saved.CategoryWeights, loaded.CategoryWeights)
	assert.Equal(t, saved.MetricWeights, loaded.MetricWeights)
}

func TestWeightRepositoryProfileNotFound(t *testing.T) {
	repo := newTestWeightRepository(t)

	_, err := repo.Get("no_such_profile")
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestWeightRepositoryZeroWeightsIsValid(t *testing.T) {
	repo := newTestWeightRepository(t)

	require.NoError(t, repo.Upsert(&domain.ScoreWeightProfile{
		Name: "zeroed",
		CategoryWeights: map[domain.Category]float64{
			domain.CategoryValue: 0,
		},
		MetricWeights: map[string]float64{},
	}))

	loaded, err := repo.Get("zeroed")
	require.NoError(t, err)
	assert.Equal(t, 0.0, loaded.CategoryWeights[domain.CategoryValue])
}

func TestWeightRepositoryUpsertReplacesWholesale(t *testing.T) {
	repo := newTestWeightRepository(t)

	require.NoError(t, repo.Upsert(&domain.ScoreWeightProfile{
		Name: "standard",
		CategoryWeights: map[domain.Category]float64{
			domain.CategoryValue: 0.5,
			domain.CategoryRisk:  0.5,
		},
		MetricWeights: map[string]float64{
			domain.MetricPETrailing: 1,
			domain.MetricBeta:       1,
		},
	}))

	// The replacement drops risk entirely; no stale rows may survive.
	require.NoError(t, repo.Upsert(&domain.ScoreWeightProfile{
		Name: "standard",
		CategoryWeights: map[domain.Category]float64{
			domain.CategoryValue: 1.0,
		},
		MetricWeights: map[string]float64{
			domain.MetricPETrailing: 1,
		},
	}))

	loaded, err := repo.Get("standard")
	require.NoError(t, err)
	assert.Equal(t, map[domain.Category]float64{domain.CategoryValue: 1.0}, loaded.CategoryWeights)
	assert.Equal(t, map[string]float64{domain.MetricPETrailing: 1.0}, loaded.MetricWeights)
}

func TestWeightRepositoryIsolatesProfiles(t *testing.T) {
	repo := newTestWeightRepository(t)

	require.NoError(t, repo.Upsert(&domain.ScoreWeightProfile{
		Name:            "aggressive",
		CategoryWeights: map[domain.Category]float64{domain.CategoryMomentum: 1},
		MetricWeights:   map[string]float64{domain.MetricReturn3M: 1},
	}))
	require.NoError(t, repo.Upsert(&domain.ScoreWeightProfile{
		Name:            "defensive",
		CategoryWeights: map[domain.Category]float64{domain.CategoryRisk: 1},
		MetricWeights:   map[string]float64{domain.MetricVolatility: 1},
	}))

	aggressive, err := repo.Get("aggressive")
	require.NoError(t, err)
	assert.NotContains(t, aggressive.MetricWeights, domain.MetricVolatility)

	defensive, err := repo.Get("defensive")
	require.NoError(t, err)
	assert.NotContains(t, defensive.MetricWeights, domain.MetricReturn3M)
}
