package marketdata

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/pkaradimas/factordash/internal/modules/scoring/domain"
	"github.com/pkaradimas/factordash/pkg/formulas"
)

// LookbackConvention selects how "price N days ago" is resolved. The two
// conventions coexisted upstream; calendar-day is the canonical one here and
// trading-day stays available as an explicit option.
type LookbackConvention string

const (
	// LookbackCalendar takes the last close on or before the calendar date
	// N days back. Canonical.
	LookbackCalendar LookbackConvention = "calendar"
	// LookbackTrading counts back whole sessions (21/63/252 for 30/90/365).
	LookbackTrading LookbackConvention = "trading"
)

// drawdownWindow is the fixed trailing window for max drawdown, in sessions.
const drawdownWindow = 252

// lookbackSessions maps calendar lookbacks to session counts for the
// trading-day convention.
var lookbackSessions = map[int]int{30: 21, 90: 63, 365: 252}

// historyLimit covers 365 calendar days of sessions plus slack for holidays.
const historyLimit = 550

// CloseSource abstracts the per-symbol history read so the builder is
// testable without database files.
type CloseSource interface {
	GetDailyCloses(symbol string, limit int) ([]DailyPrice, error)
}

// SnapshotBuilder turns cached daily closes into PriceHistorySnapshots.
// Implements the scoring engine's PriceHistorySource.
type SnapshotBuilder struct {
	closes     CloseSource
	convention LookbackConvention
	log        zerolog.Logger
}

// NewSnapshotBuilder creates a snapshot builder. An empty convention means
// calendar-day.
func NewSnapshotBuilder(closes CloseSource, convention LookbackConvention, log zerolog.Logger) *SnapshotBuilder {
	if convention == "" {
		convention = LookbackCalendar
	}
	return &SnapshotBuilder{
		closes:     closes,
		convention: convention,
		log:        log.With().Str("component", "snapshot_builder").Logger(),
	}
}

// GetMany builds snapshots for the given tickers, omitting tickers whose
// history is missing or unreadable. Per-ticker failures never abort the
// batch.
func (b *SnapshotBuilder) GetMany(tickers []string) (map[string]domain.PriceHistorySnapshot, error) {
	snapshots := make(map[string]domain.PriceHistorySnapshot, len(tickers))
	for _, ticker := range tickers {
		snap, found := b.build(ticker)
		if found {
			snapshots[ticker] = snap
		}
	}
	return snapshots, nil
}

func (b *SnapshotBuilder) build(ticker string) (domain.PriceHistorySnapshot, bool) {
	prices, err := b.closes.GetDailyCloses(ticker, historyLimit)
	if err != nil {
		b.log.Debug().Err(err).Str("ticker", ticker).Msg("No price history")
		return domain.PriceHistorySnapshot{}, false
	}
	if len(prices) == 0 {
		return domain.PriceHistorySnapshot{}, false
	}

	current := prices[len(prices)-1].Close
	snap := domain.PriceHistorySnapshot{
		Ticker:  ticker,
		Current: &current,
	}

	snap.Price30D = b.laggedPrice(prices, 30)
	snap.Price90D = b.laggedPrice(prices, 90)
	snap.Price365D = b.laggedPrice(prices, 365)

	window := prices
	if len(window) > drawdownWindow {
		window = window[len(window)-drawdownWindow:]
	}
	closes := make([]float64, len(window))
	for i, p := range window {
		closes[i] = p.Close
	}
	snap.MaxDrawdown = formulas.CalculateMaxDrawdown(closes)

	return snap, true
}

// laggedPrice resolves "price N calendar days ago" under the configured
// convention. nil when the history does not reach back far enough.
func (b *SnapshotBuilder) laggedPrice(prices []DailyPrice, days int) *float64 {
	if b.convention == LookbackTrading {
		sessions := lookbackSessions[days]
		idx := len(prices) - 1 - sessions
		if idx < 0 {
			return nil
		}
		v := prices[idx].Close
		return &v
	}

	latest, err := time.Parse("2006-01-02", prices[len(prices)-1].Date)
	if err != nil {
		return nil
	}
	cutoff := latest.AddDate(0, 0, -days).Format("2006-01-02")

	// Last session on or before the cutoff date.
	for i := len(prices) - 1; i >= 0; i-- {
		if prices[i].Date <= cutoff {
			v := prices[i].Close
			return &v
		}
	}
	return nil
}

// Derived computes backfill figures from cached history for securities whose
// fundamental feed omits them: the 52-week high and the 60-session
// annualized volatility.
func (b *SnapshotBuilder) Derived(ticker string) (high52w, volatility *float64) {
	prices, err := b.closes.GetDailyCloses(ticker, historyLimit)
	if err != nil || len(prices) == 0 {
		return nil, nil
	}
	closes := make([]float64, len(prices))
	for i, p := range prices {
		closes[i] = p.Close
	}
	return formulas.RollingHigh(closes, drawdownWindow), formulas.CalculateCurrentVolatility(closes)
}
