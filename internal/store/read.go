package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned by GetRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// ListRuns returns up to limit run summaries, newest first. A limit of 0
// or less lists everything.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
		SELECT r.id, r.project, r.created_at,
		       (SELECT COUNT(*) FROM run_modules m WHERE m.run_id = r.id)
		FROM runs r
		ORDER BY r.created_at DESC, r.id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var summary RunSummary
		var createdAt string
		if err := rows.Scan(&summary.ID, &summary.Project, &createdAt, &summary.Modules); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		if summary.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// GetRun loads a full run with its repositories, options, and modules.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	run := &Run{ID: id}

	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT project, outpath, created_at FROM runs WHERE id = ?
	`, id).Scan(&run.Project, &run.OutPath, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %q: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %q: %w", id, err)
	}
	if run.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("get run %q: %w", id, err)
	}

	if run.Repositories, err = s.runRepositories(ctx, id); err != nil {
		return nil, err
	}
	if run.Options, err = s.runOptions(ctx, id); err != nil {
		return nil, err
	}
	if run.Modules, err = s.runModules(ctx, id); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *Store) runRepositories(ctx context.Context, id string) ([]RepositoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, path, modules FROM run_repositories
		WHERE run_id = ? ORDER BY name
	`, id)
	if err != nil {
		return nil, fmt.Errorf("run repositories: %w", err)
	}
	defer rows.Close()

	var out []RepositoryRecord
	for rows.Next() {
		var rec RepositoryRecord
		if err := rows.Scan(&rec.Name, &rec.Path, &rec.Modules); err != nil {
			return nil, fmt.Errorf("run repositories: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) runOptions(ctx context.Context, id string) ([]OptionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, value FROM run_options
		WHERE run_id = ? ORDER BY name
	`, id)
	if err != nil {
		return nil, fmt.Errorf("run options: %w", err)
	}
	defer rows.Close()

	var out []OptionRecord
	for rows.Next() {
		var rec OptionRecord
		if err := rows.Scan(&rec.Name, &rec.Value); err != nil {
			return nil, fmt.Errorf("run options: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) runModules(ctx context.Context, id string) ([]ModuleRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, requested FROM run_modules
		WHERE run_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("run modules: %w", err)
	}
	defer rows.Close()

	var out []ModuleRecord
	for rows.Next() {
		var rec ModuleRecord
		if err := rows.Scan(&rec.Name, &rec.Requested); err != nil {
			return nil, fmt.Errorf("run modules: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_at %q: %w", s, err)
	}
	return t, nil
}
