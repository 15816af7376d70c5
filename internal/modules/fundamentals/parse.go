package fundamentals

import (
	"strconv"
	"strings"

	"github.com/pkaradimas/factordash/internal/modules/scoring/domain"
)

// Sentinel strings upstream feeds use for "not applicable". Handled once
// here, at the ingestion boundary, so everything past this point works with
// typed optional numbers.
var notApplicable = map[string]bool{
	"":     true,
	"-":    true,
	"--":   true,
	"N/A":  true,
	"NA":   true,
	"#N/A": true,
	"NULL": true,
}

// ParseOptional converts a raw field into an optional number. Sentinel values
// and unparseable input yield nil, never zero.
func ParseOptional(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if notApplicable[strings.ToUpper(raw)] {
		return nil
	}

	// Tolerate thousands separators and percent suffixes from feed exports.
	cleaned := strings.ReplaceAll(raw, ",", "")
	percent := strings.HasSuffix(cleaned, "%")
	cleaned = strings.TrimSuffix(cleaned, "%")

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	if percent {
		v /= 100
	}
	return &v
}

// RecordFromFields builds a typed record from the stringly-typed field map a
// sheet-sync collaborator delivers. Unknown keys are ignored; unparseable
// values stay nil.
func RecordFromFields(ticker string, fields map[string]string) domain.RawFundamentalRecord {
	rec := domain.RawFundamentalRecord{
		Ticker: strings.ToUpper(strings.TrimSpace(ticker)),
	}

	for key, raw := range fields {
		v := ParseOptional(raw)
		switch key {
		case "price":
			rec.Price = v
		case "consensus_target":
			rec.ConsensusTarget = v
		case "eps_estimate_ntm":
			rec.EPSEstimateNTM = v
		case "eps_estimate_ntm_prior":
			rec.EPSEstimateNTMPrior = v
		case "revenue_estimate_ntm":
			rec.RevenueEstimateNTM = v
		case "revenue_estimate_ntm_prior":
			rec.RevenueEstimateNTMPrior = v
		case "eps_surprise":
			rec.EPSSurprise = v
		case "revenue_surprise":
			rec.RevenueSurprise = v
		case "ebitda":
			rec.EBITDA = v
		case "revenue":
			rec.Revenue = v
		case "gross_profit":
			rec.GrossProfit = v
		case "total_assets":
			rec.TotalAssets = v
		case "free_cash_flow":
			rec.FreeCashFlow = v
		case "accruals":
			rec.Accruals = v
		case "roic_trailing":
			rec.ROICTrailing = v
		case "roic_3y":
			rec.ROIC3Y = v
		case "pe_trailing":
			rec.PETrailing = v
		case "ev_to_ebitda":
			rec.EVToEBITDA = v
		case "ev_to_sales":
			rec.EVToSales = v
		case "beta":
			rec.Beta = v
		case "high_52w":
			rec.High52Week = v
		case "volatility":
			rec.Volatility = v
		}
	}

	return rec
}
