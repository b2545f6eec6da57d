package store

import (
	"context"
	"fmt"
	"time"
)

// WriteRun records one resolution run and its child records in a single
// transaction. A zero CreatedAt is stamped with the current time; a zero
// ID gets a fresh run ID. The stored run's ID is returned.
func (s *Store) WriteRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, project, outpath, created_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.Project, run.OutPath, run.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}

	for _, repo := range run.Repositories {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_repositories (run_id, name, path, modules)
			VALUES (?, ?, ?, ?)
		`, run.ID, repo.Name, repo.Path, repo.Modules)
		if err != nil {
			return "", fmt.Errorf("write run repository %q: %w", repo.Name, err)
		}
	}

	for _, opt := range run.Options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_options (run_id, name, value)
			VALUES (?, ?, ?)
		`, run.ID, opt.Name, opt.Value)
		if err != nil {
			return "", fmt.Errorf("write run option %q: %w", opt.Name, err)
		}
	}

	for i, mod := range run.Modules {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_modules (run_id, position, name, requested)
			VALUES (?, ?, ?, ?)
		`, run.ID, i, mod.Name, mod.Requested)
		if err != nil {
			return "", fmt.Errorf("write run module %q: %w", mod.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("write run: %w", err)
	}
	return run.ID, nil
}
