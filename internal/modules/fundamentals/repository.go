package fundamentals

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pkaradimas/factordash/internal/modules/scoring/domain"
)

// Repository stores per-security fundamental snapshots. Rows are replaced
// wholesale on each data refresh; the scoring engine only ever reads them.
// Implements the scoring engine's FundamentalSource.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new fundamentals repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "fundamentals").Logger(),
	}
}

const recordColumns = `ticker, price, consensus_target,
	eps_estimate_ntm, eps_estimate_ntm_prior, revenue_estimate_ntm, revenue_estimate_ntm_prior,
	eps_surprise, revenue_surprise,
	ebitda, revenue, gross_profit, total_assets, free_cash_flow, accruals,
	roic_trailing, roic_3y,
	pe_trailing, ev_to_ebitda, ev_to_sales,
	beta, high_52w, volatility`

// GetMany returns records for the given tickers, omitting tickers with no
// stored data. Individual missing tickers never produce an error.
func (r *Repository) GetMany(tickers []string) (map[string]domain.RawFundamentalRecord, error) {
	records := make(map[string]domain.RawFundamentalRecord, len(tickers))
	if len(tickers) == 0 {
		return records, nil
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(tickers)), ",")
	args := make([]interface{}, len(tickers))
	for i, t := range tickers {
		args[i] = strings.ToUpper(strings.TrimSpace(t))
	}

	rows, err := r.db.Query(
		fmt.Sprintf("SELECT %s FROM fundamentals WHERE ticker IN (%s)", recordColumns, placeholders),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query fundamentals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fundamental record: %w", err)
		}
		records[rec.Ticker] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fundamentals: %w", err)
	}

	return records, nil
}

// Upsert replaces one security's fundamental snapshot.
func (r *Repository) Upsert(rec domain.RawFundamentalRecord) error {
	rec.Ticker = strings.ToUpper(strings.TrimSpace(rec.Ticker))

	_, err := r.db.Exec(fmt.Sprintf(`
		INSERT OR REPLACE INTO fundamentals (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, recordColumns),
		rec.Ticker,
		optional(rec.Price), optional(rec.ConsensusTarget),
		optional(rec.EPSEstimateNTM), optional(rec.EPSEstimateNTMPrior),
		optional(rec.RevenueEstimateNTM), optional(rec.RevenueEstimateNTMPrior),
		optional(rec.EPSSurprise), optional(rec.RevenueSurprise),
		optional(rec.EBITDA), optional(rec.Revenue), optional(rec.GrossProfit),
		optional(rec.TotalAssets), optional(rec.FreeCashFlow), optional(rec.Accruals),
		optional(rec.ROICTrailing), optional(rec.ROIC3Y),
		optional(rec.PETrailing), optional(rec.EVToEBITDA), optional(rec.EVToSales),
		optional(rec.Beta), optional(rec.High52Week), optional(rec.Volatility),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert fundamentals: %w", err)
	}

	r.log.Debug().Str("ticker", rec.Ticker).Msg("Fundamentals saved")
	return nil
}

func scanRecord(rows *sql.Rows) (domain.RawFundamentalRecord, error) {
	var rec domain.RawFundamentalRecord
	var price, target sql.NullFloat64
	var epsNTM, epsNTMPrior, revNTM, revNTMPrior sql.NullFloat64
	var epsSurprise, revSurprise sql.NullFloat64
	var ebitda, revenue, grossProfit, totalAssets, fcf, accruals sql.NullFloat64
	var roicTrailing, roic3y sql.NullFloat64
	var pe, evEBITDA, evSales sql.NullFloat64
	var beta, high52w, volatility sql.NullFloat64

	err := rows.Scan(
		&rec.Ticker, &price, &target,
		&epsNTM, &epsNTMPrior, &revNTM, &revNTMPrior,
		&epsSurprise, &revSurprise,
		&ebitda, &revenue, &grossProfit, &totalAssets, &fcf, &accruals,
		&roicTrailing, &roic3y,
		&pe, &evEBITDA, &evSales,
		&beta, &high52w, &volatility,
	)
	if err != nil {
		return rec, err
	}

	rec.Ticker = strings.ToUpper(strings.TrimSpace(rec.Ticker))
	rec.Price = fromNull(price)
	rec.ConsensusTarget = fromNull(target)
	rec.EPSEstimateNTM = fromNull(epsNTM)
	rec.EPSEstimateNTMPrior = fromNull(epsNTMPrior)
	rec.RevenueEstimateNTM = fromNull(revNTM)
	rec.RevenueEstimateNTMPrior = fromNull(revNTMPrior)
	rec.EPSSurprise = fromNull(epsSurprise)
	rec.RevenueSurprise = fromNull(revSurprise)
	rec.EBITDA = fromNull(ebitda)
	rec.Revenue = fromNull(revenue)
	rec.GrossProfit = fromNull(grossProfit)
	rec.TotalAssets = fromNull(totalAssets)
	rec.FreeCashFlow = fromNull(fcf)
	rec.Accruals = fromNull(accruals)
	rec.ROICTrailing = fromNull(roicTrailing)
	rec.ROIC3Y = fromNull(roic3y)
	rec.PETrailing = fromNull(pe)
	rec.EVToEBITDA = fromNull(evEBITDA)
	rec.EVToSales = fromNull(evSales)
	rec.Beta = fromNull(beta)
	rec.High52Week = fromNull(high52w)
	rec.Volatility = fromNull(volatility)

	return rec, nil
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func optional(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
