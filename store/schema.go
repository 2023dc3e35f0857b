// store/schema.go
package store

const Schema = `
CREATE TABLE IF NOT EXISTS scenarios (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	config TEXT NOT NULL,
	parent_id TEXT,
	branch_day INTEGER,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	scenario_id TEXT NOT NULL REFERENCES scenarios(id),
	final_balance REAL NOT NULL,
	final_nav REAL NOT NULL,
	final_credit_score REAL NOT NULL,
	vibe_tier TEXT NOT NULL,
	compute_time_ms REAL NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
	run_id TEXT NOT NULL REFERENCES runs(id),
	day INTEGER NOT NULL,
	balance REAL NOT NULL,
	balance_p5 REAL NOT NULL,
	balance_p95 REAL NOT NULL,
	nav REAL NOT NULL,
	nav_p5 REAL NOT NULL,
	nav_p95 REAL NOT NULL,
	credit_score REAL NOT NULL,
	PRIMARY KEY (run_id, day)
);

CREATE TABLE IF NOT EXISTS fired_shocks (
	run_id TEXT NOT NULL REFERENCES runs(id),
	day INTEGER NOT NULL,
	shock_id TEXT NOT NULL,
	amount REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS share_tokens (
	token TEXT PRIMARY KEY,
	scenario_id TEXT NOT NULL REFERENCES scenarios(id),
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario_id);
`
