// Package store persists scenarios, weekly run downsamples, branches,
// and share tokens in SQLite. Only the weekly subset of snapshots is
// ever written; full daily trajectories stay in memory with the caller.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/futurewallet/wallet/engine"
	"github.com/futurewallet/wallet/internal/id"
	"github.com/futurewallet/wallet/scenario"
)

// ErrNotFound is returned when a scenario, run, or token does not exist.
var ErrNotFound = errors.New("store: not found")

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// ScenarioRecord is a stored scenario. ParentID and BranchDay are set
// only on branched scenarios.
type ScenarioRecord struct {
	ID        string
	Name      string
	Config    scenario.Scenario
	ParentID  string
	BranchDay int
	CreatedAt time.Time
}

// SaveScenario stores the configuration under a fresh ULID.
func (s *Store) SaveScenario(cfg scenario.Scenario) (ScenarioRecord, error) {
	return s.saveScenario(cfg, "", 0)
}

func (s *Store) saveScenario(cfg scenario.Scenario, parentID string, branchDay int) (ScenarioRecord, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return ScenarioRecord{}, fmt.Errorf("encode scenario: %w", err)
	}

	rec := ScenarioRecord{
		ID:        id.New(),
		Name:      cfg.Name,
		Config:    cfg,
		ParentID:  parentID,
		BranchDay: branchDay,
		CreatedAt: time.Now().UTC(),
	}

	var parent any
	if parentID != "" {
		parent = parentID
	}
	_, err = s.db.Exec(`
		INSERT INTO scenarios (id, name, config, parent_id, branch_day, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, string(raw), parent, rec.BranchDay, rec.CreatedAt,
	)
	if err != nil {
		return ScenarioRecord{}, err
	}
	return rec, nil
}

// GetScenario loads a stored scenario by id.
func (s *Store) GetScenario(scenarioID string) (ScenarioRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, name, config, COALESCE(parent_id, ''), COALESCE(branch_day, 0), created_at
		FROM scenarios WHERE id = ?`, scenarioID)
	return scanScenario(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(row rowScanner) (ScenarioRecord, error) {
	var rec ScenarioRecord
	var raw string
	err := row.Scan(&rec.ID, &rec.Name, &raw, &rec.ParentID, &rec.BranchDay, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ScenarioRecord{}, ErrNotFound
	}
	if err != nil {
		return ScenarioRecord{}, err
	}
	if err := json.Unmarshal([]byte(raw), &rec.Config); err != nil {
		return ScenarioRecord{}, fmt.Errorf("decode scenario %s: %w", rec.ID, err)
	}
	return rec, nil
}

// ListScenarios returns all stored scenarios, oldest first (ULIDs sort
// by creation time).
func (s *Store) ListScenarios() ([]ScenarioRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, name, config, COALESCE(parent_id, ''), COALESCE(branch_day, 0), created_at
		FROM scenarios ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScenarioRecord
	for rows.Next() {
		rec, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Branch creates a new scenario that picks up from a saved run of the
// parent at the given day: starting cash is taken from the parent's
// persisted weekly snapshot at or before branchDay, and the horizon
// shrinks by the days already elapsed.
func (s *Store) Branch(parentID string, branchDay int, newName string) (ScenarioRecord, error) {
	parent, err := s.GetScenario(parentID)
	if err != nil {
		return ScenarioRecord{}, err
	}
	if branchDay < 0 || branchDay > parent.Config.HorizonDays {
		return ScenarioRecord{}, fmt.Errorf("store: branch day %d outside parent horizon", branchDay)
	}

	runID, err := s.latestRunID(parentID)
	if err != nil {
		return ScenarioRecord{}, err
	}

	var balance float64
	row := s.db.QueryRow(`
		SELECT balance FROM snapshots
		WHERE run_id = ? AND day <= ?
		ORDER BY day DESC LIMIT 1`, runID, branchDay)
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ScenarioRecord{}, ErrNotFound
		}
		return ScenarioRecord{}, err
	}

	cfg := parent.Config
	cfg.Name = newName
	cfg.StartingCash = balance
	if remaining := cfg.HorizonDays - branchDay; remaining >= 1 {
		cfg.HorizonDays = remaining
	} else {
		cfg.HorizonDays = 1
	}

	return s.saveScenario(cfg, parentID, branchDay)
}

// RunRecord is a persisted run: summary headline numbers plus the
// weekly snapshots and fired shocks.
type RunRecord struct {
	ID               string
	ScenarioID       string
	FinalBalance     float64
	FinalNAV         float64
	FinalCreditScore float64
	VibeTier         engine.VibeTier
	ComputeTimeMs    float64
	CreatedAt        time.Time
	WeeklySnapshots  []engine.Snapshot
	FiredShocks      []engine.FiredShock
}

// SaveRun persists a result's weekly snapshots and fired shocks for a
// stored scenario and returns the run id.
func (s *Store) SaveRun(scenarioID string, res *engine.Result) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	runID := id.New()
	_, err = tx.Exec(`
		INSERT INTO runs (id, scenario_id, final_balance, final_nav, final_credit_score, vibe_tier, compute_time_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, scenarioID,
		res.Summary.FinalBalance, res.Summary.FinalNAV, res.Summary.FinalCreditScore,
		string(res.Summary.VibeTier), res.ComputeTimeMs, time.Now().UTC(),
	)
	if err != nil {
		return "", err
	}

	for _, snap := range res.WeeklySnapshots {
		_, err = tx.Exec(`
			INSERT INTO snapshots (run_id, day, balance, balance_p5, balance_p95, nav, nav_p5, nav_p95, credit_score)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, snap.Day,
			snap.Balance, snap.BalanceP5, snap.BalanceP95,
			snap.NAV, snap.NAVP5, snap.NAVP95, snap.CreditScore,
		)
		if err != nil {
			return "", err
		}
	}

	for _, f := range res.FiredShocks {
		_, err = tx.Exec(`
			INSERT INTO fired_shocks (run_id, day, shock_id, amount)
			VALUES (?, ?, ?, ?)`,
			runID, f.Day, f.ShockID, f.Amount,
		)
		if err != nil {
			return "", err
		}
	}

	return runID, tx.Commit()
}

func (s *Store) latestRunID(scenarioID string) (string, error) {
	var runID string
	row := s.db.QueryRow(`SELECT id FROM runs WHERE scenario_id = ? ORDER BY id DESC LIMIT 1`, scenarioID)
	if err := row.Scan(&runID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return runID, nil
}

// LatestRun loads the most recent persisted run for a scenario.
func (s *Store) LatestRun(scenarioID string) (RunRecord, error) {
	runID, err := s.latestRunID(scenarioID)
	if err != nil {
		return RunRecord{}, err
	}

	var rec RunRecord
	var tier string
	row := s.db.QueryRow(`
		SELECT id, scenario_id, final_balance, final_nav, final_credit_score, vibe_tier, compute_time_ms, created_at
		FROM runs WHERE id = ?`, runID)
	err = row.Scan(&rec.ID, &rec.ScenarioID, &rec.FinalBalance, &rec.FinalNAV,
		&rec.FinalCreditScore, &tier, &rec.ComputeTimeMs, &rec.CreatedAt)
	if err != nil {
		return RunRecord{}, err
	}
	rec.VibeTier = engine.VibeTier(tier)

	rows, err := s.db.Query(`
		SELECT day, balance, balance_p5, balance_p95, nav, nav_p5, nav_p95, credit_score
		FROM snapshots WHERE run_id = ? ORDER BY day`, runID)
	if err != nil {
		return RunRecord{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var snap engine.Snapshot
		err = rows.Scan(&snap.Day, &snap.Balance, &snap.BalanceP5, &snap.BalanceP95,
			&snap.NAV, &snap.NAVP5, &snap.NAVP95, &snap.CreditScore)
		if err != nil {
			return RunRecord{}, err
		}
		rec.WeeklySnapshots = append(rec.WeeklySnapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return RunRecord{}, err
	}

	shockRows, err := s.db.Query(`
		SELECT day, shock_id, amount FROM fired_shocks WHERE run_id = ? ORDER BY day`, runID)
	if err != nil {
		return RunRecord{}, err
	}
	defer shockRows.Close()
	for shockRows.Next() {
		var f engine.FiredShock
		if err := shockRows.Scan(&f.Day, &f.ShockID, &f.Amount); err != nil {
			return RunRecord{}, err
		}
		rec.FiredShocks = append(rec.FiredShocks, f)
	}
	return rec, shockRows.Err()
}

// CreateShareToken mints a bearer token resolving to the scenario.
func (s *Store) CreateShareToken(scenarioID string) (string, error) {
	if _, err := s.GetScenario(scenarioID); err != nil {
		return "", err
	}
	token := id.New()
	_, err := s.db.Exec(`
		INSERT INTO share_tokens (token, scenario_id, created_at)
		VALUES (?, ?, ?)`,
		token, scenarioID, time.Now().UTC(),
	)
	if err != nil {
		return "", err
	}
	return token, nil
}

// ResolveShareToken returns the scenario a share token points at.
func (s *Store) ResolveShareToken(token string) (ScenarioRecord, error) {
	var scenarioID string
	row := s.db.QueryRow(`SELECT scenario_id FROM share_tokens WHERE token = ?`, token)
	if err := row.Scan(&scenarioID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ScenarioRecord{}, ErrNotFound
		}
		return ScenarioRecord{}, err
	}
	return s.GetScenario(scenarioID)
}
