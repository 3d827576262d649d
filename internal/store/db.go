package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"ngo-campaign-pipeline/internal/model"
)

// ErrBundleNotFound is returned when no bundle is cached for a dataset
var ErrBundleNotFound = errors.New("bundle not found")

// Store is the sqlite result cache and run history
type Store struct {
	db *sql.DB
}

var schema = []string{
	`
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		spec TEXT,
		status TEXT,
		records INTEGER DEFAULT 0,
		error_message TEXT DEFAULT '',
		created_at DATETIME,
		updated_at DATETIME
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS run_stages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		stage TEXT,
		dataset TEXT,
		status TEXT,
		records_processed INTEGER,
		start_time DATETIME,
		end_time DATETIME,
		duration_ms INTEGER
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS bundles (
		dataset TEXT PRIMARY KEY,
		run_id TEXT,
		record_count INTEGER,
		payload TEXT,
		generated_at DATETIME
	);
	`,
}

// Open connects to the sqlite file at dbPath and creates missing tables
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time; sqlite serializes anyway
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRun stores a new preprocessing run
func (s *Store) CreateRun(ctx context.Context, id string, spec model.RunSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `INSERT INTO runs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, string(specJSON), model.RunStatusRunning, now, now)
	return err
}

// UpdateRunStatus updates run status, record count and error message
func (s *Store) UpdateRunStatus(ctx context.Context, id, status string, records int, errMsg string) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `UPDATE runs SET status = ?, records = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		status, records, errMsg, now, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// SaveStage records a finished stage of a run
func (s *Store) SaveStage(ctx context.Context, runID string, stage model.StageMetrics) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO run_stages (run_id, stage, dataset, status, records_processed, start_time, end_time, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, stage.StageName, stage.Dataset, stage.Status, stage.RecordsProcessed,
		stage.StartTime.UTC(), stage.EndTime.UTC(), stage.Duration.Milliseconds())
	return err
}

// SaveBundle replaces the cached bundle of its dataset
func (s *Store) SaveBundle(ctx context.Context, bundle *model.ResultBundle) error {
	payload, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bundles (dataset, run_id, record_count, payload, generated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(dataset) DO UPDATE SET
			run_id = excluded.run_id,
			record_count = excluded.record_count,
			payload = excluded.payload,
			generated_at = excluded.generated_at`,
		bundle.Dataset, bundle.RunID, bundle.RecordCount, string(payload), bundle.GeneratedAt.UTC())
	return err
}

// LoadBundle fetches the cached bundle of dataset
func (s *Store) LoadBundle(ctx context.Context, dataset string) (*model.ResultBundle, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM bundles WHERE dataset = ?`, dataset).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", dataset, ErrBundleNotFound)
	}
	if err != nil {
		return nil, err
	}

	var bundle model.ResultBundle
	if err := json.Unmarshal([]byte(payload), &bundle); err != nil {
		return nil, fmt.Errorf("failed to decode bundle %s: %w", dataset, err)
	}
	return &bundle, nil
}

// LoadBundles returns every cached bundle keyed by dataset
func (s *Store) LoadBundles(ctx context.Context) (map[string]*model.ResultBundle, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT dataset, payload FROM bundles ORDER BY dataset`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bundles := make(map[string]*model.ResultBundle)
	for rows.Next() {
		var dataset, payload string
		if err := rows.Scan(&dataset, &payload); err != nil {
			return nil, err
		}
		var bundle model.ResultBundle
		if err := json.Unmarshal([]byte(payload), &bundle); err != nil {
			return nil, fmt.Errorf("failed to decode bundle %s: %w", dataset, err)
		}
		bundles[dataset] = &bundle
	}
	return bundles, rows.Err()
}

// ListRuns returns runs newest first, each with its stages
func (s *Store) ListRuns(ctx context.Context) ([]model.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, status, records, error_message, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}

	var runs []model.RunSummary
	for rows.Next() {
		var run model.RunSummary
		if err := rows.Scan(&run.ID, &run.Status, &run.Records, &run.Error, &run.CreatedAt, &run.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range runs {
		stages, err := s.listStages(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Stages = stages
	}
	return runs, nil
}

func (s *Store) listStages(ctx context.Context, runID string) ([]model.StageMetrics, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT stage, dataset, status, records_processed, start_time, end_time, duration_ms
		FROM run_stages WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []model.StageMetrics
	for rows.Next() {
		var m model.StageMetrics
		var durationMs int64
		if err := rows.Scan(&m.StageName, &m.Dataset, &m.Status, &m.RecordsProcessed, &m.StartTime, &m.EndTime, &durationMs); err != nil {
			return nil, err
		}
		m.Duration = time.Duration(durationMs) * time.Millisecond
		stages = append(stages, m)
	}
	return stages, rows.Err()
}
