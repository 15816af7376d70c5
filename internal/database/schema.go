package database

// schema holds the dashboard tables. Fundamental columns are nullable REALs
// on purpose: a missing number stays NULL all the way into the scoring
// engine, it is never stored as zero.
const schema = `
CREATE TABLE IF NOT EXISTS securities (
    ticker TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    sector TEXT,
    active INTEGER NOT NULL DEFAULT 1,
    benchmark_primary TEXT,
    benchmark_secondary TEXT,
    benchmark_tertiary TEXT,
    benchmark_custom TEXT
);

CREATE TABLE IF NOT EXISTS fundamentals (
    ticker TEXT PRIMARY KEY,
    price REAL,
    consensus_target REAL,
    eps_estimate_ntm REAL,
    eps_estimate_ntm_prior REAL,
    revenue_estimate_ntm REAL,
    revenue_estimate_ntm_prior REAL,
    eps_surprise REAL,
    revenue_surprise REAL,
    ebitda REAL,
    revenue REAL,
    gross_profit REAL,
    total_assets REAL,
    free_cash_flow REAL,
    accruals REAL,
    roic_trailing REAL,
    roic_3y REAL,
    pe_trailing REAL,
    ev_to_ebitda REAL,
    ev_to_sales REAL,
    beta REAL,
    high_52w REAL,
    volatility REAL
);

CREATE TABLE IF NOT EXISTS benchmark_constituents (
    benchmark TEXT NOT NULL,
    constituent TEXT NOT NULL,
    PRIMARY KEY (benchmark, constituent)
);

CREATE INDEX IF NOT EXISTS idx_constituents_benchmark ON benchmark_constituents(benchmark);

CREATE TABLE IF NOT EXISTS score_weight_profiles (
    id INTEGER PRIMARY KEY,
    profile TEXT NOT NULL,
    category TEXT NOT NULL,
    metric TEXT,
    weight REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_weight_profiles_profile ON score_weight_profiles(profile);
`
