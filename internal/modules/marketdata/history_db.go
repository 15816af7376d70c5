package marketdata

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver for per-symbol history files
	"github.com/rs/zerolog"
)

// HistoryDB reads the per-symbol price-history databases the market-data
// collaborator maintains (one sqlite file per symbol). This module never
// fetches quotes itself; a missing or unreadable file is simply missing data.
type HistoryDB struct {
	historyDir string
	log        zerolog.Logger
}

// NewHistoryDB creates a new history database accessor.
func NewHistoryDB(historyDir string, log zerolog.Logger) *HistoryDB {
	return &HistoryDB{
		historyDir: historyDir,
		log:        log.With().Str("component", "history_db").Logger(),
	}
}

// DailyPrice is one session's adjusted close.
type DailyPrice struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Close float64 `json:"close"`
}

// GetDailyCloses returns up to limit sessions for a symbol in ascending date
// order. Returns an empty slice when the symbol has no history file.
func (h *HistoryDB) GetDailyCloses(symbol string, limit int) ([]DailyPrice, error) {
	db, err := h.openHistoryDB(symbol)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT date, close_price
		FROM daily_prices
		ORDER BY date DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prices: %w", err)
	}
	defer rows.Close()

	var prices []DailyPrice
	for rows.Next() {
		var p DailyPrice
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily prices: %w", err)
	}

	// Reverse into ascending order; queries read newest-first for the LIMIT.
	for i, j := 0, len(prices)-1; i < j; i, j = i+1, j-1 {
		prices[i], prices[j] = prices[j], prices[i]
	}

	return prices, nil
}

// openHistoryDB opens the history database for a symbol.
// Symbol format on disk: AAPL.US -> AAPL_US.db
func (h *HistoryDB) openHistoryDB(symbol string) (*sql.DB, error) {
	dbSymbol := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(symbol)), ".", "_")
	dbPath := filepath.Join(h.historyDir, dbSymbol+".db")

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database for %s: %w", symbol, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database for %s: %w", symbol, err)
	}

	return db, nil
}
