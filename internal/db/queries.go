package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/hpungsan/meetcorpus/internal/errors"
)

// RunStatus is the lifecycle state of an export run.
type RunStatus string

const (
	RunRunning     RunStatus = "running"
	RunCompleted   RunStatus = "completed"
	RunPartial     RunStatus = "partial"     // some views failed to write
	RunFailed      RunStatus = "failed"      // assembly failed, nothing written
	RunUnavailable RunStatus = "unavailable" // directory fetch failed, nothing written
	RunCancelled   RunStatus = "cancelled"   // context cancelled during fetch, nothing written
)

// Run is one ledger row.
type Run struct {
	ID          string    `json:"id"`
	StartedAt   int64     `json:"started_at"`
	FinishedAt  *int64    `json:"finished_at,omitempty"`
	Status      RunStatus `json:"status"`
	RecordCount int       `json:"record_count"`
	TokenCount  int       `json:"token_count"`
	OutputDir   string    `json:"output_dir"`
	Error       *string   `json:"error,omitempty"`
	Files       []FileRow `json:"files,omitempty"`
}

// FileRow records one written (or attempted) output file.
type FileRow struct {
	View  string  `json:"view"`
	Path  string  `json:"path"`
	Rows  int     `json:"rows"`
	Bytes int64   `json:"bytes"`
	Error *string `json:"error,omitempty"`
}

// InsertRun stores a new run in the running state.
func InsertRun(ctx context.Context, db *sql.DB, id, outputDir string, startedAt int64) error {
	query := `
		INSERT INTO export_runs (id, started_at, status, output_dir)
		VALUES (?, ?, ?, ?)
	`
	if _, err := db.ExecContext(ctx, query, id, startedAt, RunRunning, outputDir); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// FinishRun sets the terminal status, counts and error message of a run.
func FinishRun(ctx context.Context, db *sql.DB, id string, status RunStatus, records, tokens int, runErr error) error {
	var errText sql.NullString
	if runErr != nil {
		errText = sql.NullString{String: runErr.Error(), Valid: true}
	}

	query := `
		UPDATE export_runs
		SET status = ?, finished_at = ?, record_count = ?, token_count = ?, error = ?
		WHERE id = ?
	`
	result, err := db.ExecContext(ctx, query, status, time.Now().Unix(), records, tokens, errText, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

// InsertFile records one file result for a run. Re-recording a view replaces it.
func InsertFile(ctx context.Context, db *sql.DB, runID string, f FileRow) error {
	query := `
		INSERT OR REPLACE INTO export_files (run_id, view_name, path, row_count, byte_count, error)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := db.ExecContext(ctx, query, runID, f.View, f.Path, f.Rows, f.Bytes, toNullString(f.Error)); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetRun retrieves a run and its files.
func GetRun(ctx context.Context, db *sql.DB, id string) (*Run, error) {
	query := `
		SELECT id, started_at, finished_at, status, record_count, token_count, output_dir, error
		FROM export_runs
		WHERE id = ?
	`
	r, err := scanRun(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	files, err := listFiles(ctx, db, id)
	if err != nil {
		return nil, err
	}
	r.Files = files
	return r, nil
}

// ListRuns returns runs newest first, with the total number of runs in the ledger.
func ListRuns(ctx context.Context, db *sql.DB, limit, offset int) ([]Run, int, error) {
	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM export_runs").Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT id, started_at, finished_at, status, record_count, token_count, output_dir, error
		FROM export_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		runs = append(runs, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return runs, total, nil
}

func listFiles(ctx context.Context, db *sql.DB, runID string) ([]FileRow, error) {
	query := `
		SELECT view_name, path, row_count, byte_count, error
		FROM export_files
		WHERE run_id = ?
		ORDER BY rowid
	`
	rows, err := db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var files []FileRow
	for rows.Next() {
		var (
			f       FileRow
			errText sql.NullString
		)
		if err := rows.Scan(&f.View, &f.Path, &f.Rows, &f.Bytes, &errText); err != nil {
			return nil, errors.NewInternal(err)
		}
		f.Error = fromNullString(errText)
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return files, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		r          Run
		finishedAt sql.NullInt64
		status     string
		errText    sql.NullString
	)
	err := s.Scan(&r.ID, &r.StartedAt, &finishedAt, &status, &r.RecordCount, &r.TokenCount, &r.OutputDir, &errText)
	if err != nil {
		return nil, err
	}
	r.Status = RunStatus(status)
	if finishedAt.Valid {
		r.FinishedAt = &finishedAt.Int64
	}
	r.Error = fromNullString(errText)
	return &r, nil
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
