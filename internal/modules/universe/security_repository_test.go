package universe

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkaradimas/factordash/internal/database"
	"github.com/pkaradimas/factordash/internal/modules/scoring"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	return db
}

func seedSecurities(t *testing.T, repo *SecurityRepository) {
	t.Helper()
	for _, sec := range []Security{
		{Ticker: "ALFA", Name: "Alfa Corp", Sector: "Industrials", Active: true, BenchmarkPrimary: "SPY", BenchmarkSecondary: "XLI"},
		{Ticker: "BRAV", Name: "Bravo Inc", Active: true, BenchmarkPrimary: "SPY"},
		{Ticker: "CHLY", Name: "Charlie Ltd", Active: true},
		{Ticker: "DORM", Name: "Dormant Plc", Active: false, BenchmarkPrimary: "SPY"},
	} {
		require.NoError(t, repo.Upsert(sec))
	}
}

func TestSecurityRepositoryGetAllActive(t *testing.T) {
	repo := NewSecurityRepository(newTestDB(t).Conn(), zerolog.Nop())
	seedSecurities(t, repo)

	securities, err := repo.GetAllActive()
	require.NoError(t, err)
	require.Len(t, securities, 3, "inactive securities must be excluded")

	// Ordered by ticker for stable paging.
	assert.Equal(t, "ALFA", securities[0].Ticker)
	assert.Equal(t, "BRAV", securities[1].Ticker)
	assert.Equal(t, "CHLY", securities[2].Ticker)

	assert.Equal(t, "Industrials", securities[0].Sector)
	assert.Equal(t, "SPY", securities[0].BenchmarkPrimary)
	assert.Equal(t, "XLI", securities[0].BenchmarkSecondary)
}

func TestSecurityRepositoryGetPage(t *testing.T) {
	repo := NewSecurityRepository(newTestDB(t).Conn(), zerolog.Nop())
	seedSecurities(t, repo)

	page, err := repo.GetPage(2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "ALFA", page[0].Ticker)

	rest, err := repo.GetPage(2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "CHLY", rest[0].Ticker)
}

func TestSecurityRepositoryUpsertCanonicalizes(t *testing.T) {
	repo := NewSecurityRepository(newTestDB(t).Conn(), zerolog.Nop())

	require.NoError(t, repo.Upsert(Security{Ticker: " alfa ", Name: "Alfa Corp", Active: true, BenchmarkPrimary: "spy"}))
	require.NoError(t, repo.Upsert(Security{Ticker: "ALFA", Name: "Alfa Corporation", Active: true, BenchmarkPrimary: "SPY"}))

	securities, err := repo.GetAllActive()
	require.NoError(t, err)
	require.Len(t, securities, 1, "case variants of one ticker must collapse into one row")
	assert.Equal(t, "ALFA", securities[0].Ticker)
	assert.Equal(t, "Alfa Corporation", securities[0].Name)
	assert.Equal(t, "SPY", securities[0].BenchmarkPrimary)
}

func TestSecurityRepositoryAssignments(t *testing.T) {
	repo := NewSecurityRepository(newTestDB(t).Conn(), zerolog.Nop())
	seedSecurities(t, repo)

	assignments, err := repo.Assignments(scoring.BenchmarkColumnPrimary, []string{"alfa", "BRAV", "CHLY", "NOPX"})
	require.NoError(t, err)

	// CHLY has no primary benchmark and NOPX is unknown: both omitted.
	assert.Equal(t, map[string]string{"ALFA": "SPY", "BRAV": "SPY"}, assignments)

	secondary, err := repo.Assignments(scoring.BenchmarkColumnSecondary, []string{"ALFA", "BRAV"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ALFA": "XLI"}, secondary)
}

func TestSecurityRepositoryAssignmentsRejectsUnknownColumn(t *testing.T) {
	repo := NewSecurityRepository(newTestDB(t).Conn(), zerolog.Nop())

	_, err := repo.Assignments("benchmark_quaternary", []string{"ALFA"})
	require.ErrorIs(t, err, scoring.ErrUnknownBenchmarkColumn)
}

func TestMembershipRepositoryReplace(t *testing.T) {
	repo := NewMembershipRepository(newTestDB(t).Conn(), zerolog.Nop())

	require.NoError(t, repo.Replace("spy", []string{"brav", "ALFA"}))

	constituents, err := repo.Constituents("SPY")
	require.NoError(t, err)
	assert.Equal(t, []string{"ALFA", "BRAV"}, constituents)

	// Wholesale replacement drops members not in the new list.
	require.NoError(t, repo.Replace("SPY", []string{"CHLY"}))
	constituents, err = repo.Constituents("SPY")
	require.NoError(t, err)
	assert.Equal(t, []string{"CHLY"}, constituents)
}

func TestMembershipRepositoryUnknownBenchmark(t *testing.T) {
	repo := NewMembershipRepository(newTestDB(t).Conn(), zerolog.Nop())

	constituents, err := repo.Constituents("NOPE")
	require.NoError(t, err)
	assert.Empty(t, constituents)
}
