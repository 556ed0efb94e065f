// Package sqlite persists runs and solver results.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"flume/internal/domain"
)

// Repository stores runs and their solver results in SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		input_name TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		repaired_path TEXT NOT NULL DEFAULT '',
		report_path TEXT NOT NULL DEFAULT '',
		link_count INTEGER NOT NULL DEFAULT 0,
		node_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		started_at DATETIME,
		ended_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS link_results (
		run_id TEXT NOT NULL,
		link_id TEXT NOT NULL,
		from_node TEXT NOT NULL,
		to_node TEXT NOT NULL,
		length REAL NOT NULL,
		diameter REAL NOT NULL,
		roughness REAL NOT NULL,
		flow REAL NOT NULL,
		PRIMARY KEY (run_id, link_id),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS node_results (
		run_id TEXT NOT NULL,
		node_id TEXT NOT NULL,
		pressure REAL NOT NULL,
		PRIMARY KEY (run_id, node_id),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Close closes the underlying database
func (r *Repository) Close() error {
	return r.db.Close()
}

// CreateRun inserts a new run record
func (r *Repository) CreateRun(ctx context.Context, run *domain.Run) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (id, input_name, status, error, repaired_path, report_path,
			link_count, node_count, created_at, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.InputName, run.Status, run.Error, run.RepairedPath, run.ReportPath,
		run.LinkCount, run.NodeCount, run.CreatedAt, run.StartedAt, run.EndedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// UpdateRun rewrites the mutable fields of a run
func (r *Repository) UpdateRun(ctx context.Context, run *domain.Run) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE runs
		SET status = ?, error = ?, repaired_path = ?, report_path = ?,
			link_count = ?, node_count = ?, started_at = ?, ended_at = ?
		WHERE id = ?`,
		run.Status, run.Error, run.RepairedPath, run.ReportPath,
		run.LinkCount, run.NodeCount, run.StartedAt, run.EndedAt, run.ID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run not found: %s", run.ID)
	}
	return nil
}

// GetRun loads one run by ID; returns nil if not found
func (r *Repository) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, input_name, status, error, repaired_path, report_path,
			link_count, node_count, created_at, started_at, ended_at
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs ordered newest first
func (r *Repository) ListRuns(ctx context.Context) ([]*domain.Run, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, input_name, status, error, repaired_path, report_path,
			link_count, node_count, created_at, started_at, ended_at
		FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

// DeleteRun removes a run and (via cascade) its results
func (r *Repository) DeleteRun(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// SaveResults stores the solver results for a run in one transaction
func (r *Repository) SaveResults(ctx context.Context, runID string, results domain.RunResults) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, link := range results.Links {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO link_results
				(run_id, link_id, from_node, to_node, length, diameter, roughness, flow)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, link.LinkID, link.FromNode, link.ToNode,
			link.Length, link.Diameter, link.Roughness, link.Flow)
		if err != nil {
			return fmt.Errorf("failed to insert link result: %w", err)
		}
	}
	for _, node := range results.Nodes {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO node_results (run_id, node_id, pressure)
			VALUES (?, ?, ?)`,
			runID, node.NodeID, node.Pressure)
		if err != nil {
			return fmt.Errorf("failed to insert node result: %w", err)
		}
	}

	return tx.Commit()
}

// GetResults loads all solver results stored for a run
func (r *Repository) GetResults(ctx context.Context, runID string) (domain.RunResults, error) {
	results := domain.RunResults{}

	rows, err := r.db.QueryContext(ctx, `
		SELECT run_id, link_id, from_node, to_node, length, diameter, roughness, flow
		FROM link_results WHERE run_id = ? ORDER BY link_id`, runID)
	if err != nil {
		return results, fmt.Errorf("failed to query link results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var link domain.LinkResult
		if err := rows.Scan(&link.RunID, &link.LinkID, &link.FromNode, &link.ToNode,
			&link.Length, &link.Diameter, &link.Roughness, &link.Flow); err != nil {
			return results, fmt.Errorf("failed to scan link result: %w", err)
		}
		results.Links = append(results.Links, link)
	}
	if err := rows.Err(); err != nil {
		return results, fmt.Errorf("error iterating link results: %w", err)
	}

	nodeRows, err := r.db.QueryContext(ctx, `
		SELECT run_id, node_id, pressure
		FROM node_results WHERE run_id = ? ORDER BY node_id`, runID)
	if err != nil {
		return results, fmt.Errorf("failed to query node results: %w", err)
	}
	defer nodeRows.Close()

	for nodeRows.Next() {
		var node domain.NodeResult
		if err := nodeRows.Scan(&node.RunID, &node.NodeID, &node.Pressure); err != nil {
			return results, fmt.Errorf("failed to scan node result: %w", err)
		}
		results.Nodes = append(results.Nodes, node)
	}
	if err := nodeRows.Err(); err != nil {
		return results, fmt.Errorf("error iterating node results: %w", err)
	}

	return results, nil
}

// scanner abstracts sql.Row and sql.Rows for scanRun
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*domain.Run, error) {
	var (
		run       domain.Run
		createdAt time.Time
		startedAt sql.NullTime
		endedAt   sql.NullTime
	)
	err := s.Scan(&run.ID, &run.InputName, &run.Status, &run.Error,
		&run.RepairedPath, &run.ReportPath, &run.LinkCount, &run.NodeCount,
		&createdAt, &startedAt, &endedAt)
	if err != nil {
		return nil, err
	}
	run.CreatedAt = createdAt
	if startedAt.Valid {
		t := startedAt.Time
		run.StartedAt = &t
	}
	if endedAt.Valid {
		t := endedAt.Time
		run.EndedAt = &t
	}
	return &run, nil
}
