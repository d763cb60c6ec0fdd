package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ideprojects/internal/aggregate"
)

var (
	// ErrRunNotFound indicates no stored run matches the requested id prefix.
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousRun indicates an id prefix matches more than one run.
	ErrAmbiguousRun = errors.New("run id prefix is ambiguous")
)

// Snapshot is the input to Record: one finished scan and its global view.
type Snapshot struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Mode       string
	ExportPath string
	Collection *aggregate.Collection
	Entries    []aggregate.Entry
}

const runColumns = "id, started_at, finished_at, mode, roots_json, export_path, source_files, failures, project_count, existing_count"

// Record stores a snapshot and prunes runs beyond the retention limit. An
// empty snapshot ID is replaced by a fresh uuid.
func (s *Store) Record(ctx context.Context, snap Snapshot) (*Run, error) {
	ctx = ensureContext(ctx)
	if snap.Collection == nil {
		return nil, errors.New("snapshot collection is nil")
	}
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.StartedAt.IsZero() {
		snap.StartedAt = time.Now()
	}
	if snap.FinishedAt.IsZero() {
		snap.FinishedAt = time.Now()
	}

	roots := snap.Collection.Roots
	if roots == nil {
		roots = []string{}
	}
	rootsJSON, err := json.Marshal(roots)
	if err != nil {
		return nil, fmt.Errorf("marshal roots: %w", err)
	}

	existing := 0
	for _, e := range snap.Entries {
		if e.Exists {
			existing++
		}
	}

	err = retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin record tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			snap.ID,
			snap.StartedAt.UTC().Format(time.RFC3339Nano),
			snap.FinishedAt.UTC().Format(time.RFC3339Nano),
			snap.Mode,
			string(rootsJSON),
			nullableString(snap.ExportPath),
			snap.Collection.SourceFiles,
			len(snap.Collection.Failures),
			len(snap.Entries),
			existing,
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_projects (
            run_id, position, ide_name, ide_version, project_path, display_name,
            activation_timestamp, is_last_opened, exists_on_disk, source_file
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare project insert: %w", err)
		}
		defer stmt.Close()

		for i, e := range snap.Entries {
			rec := e.Record
			if _, err := stmt.ExecContext(ctx,
				snap.ID,
				i+1,
				rec.Family,
				rec.FamilyVersion,
				rec.Path,
				nullableStringPtr(rec.DisplayName),
				nullableInt64Ptr(rec.ActivationTimestamp),
				boolToInt(rec.IsLastOpened),
				boolToInt(e.Exists),
				nullableString(rec.SourceFile),
			); err != nil {
				return fmt.Errorf("insert project %s: %w", rec.Path, err)
			}
		}

		if s.keepRuns > 0 {
			if err := pruneTx(ctx, tx, s.keepRuns); err != nil {
				return err
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit run: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	run, _, err := s.GetRun(ctx, snap.ID)
	return run, err
}

// ListRuns returns stored runs newest first. limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun resolves an id or unique id prefix and loads its projects.
func (s *Store) GetRun(ctx context.Context, idPrefix string) (*Run, []Project, error) {
	ctx = ensureContext(ctx)
	idPrefix = strings.TrimSpace(idPrefix)
	if idPrefix == "" {
		return nil, nil, fmt.Errorf("%w: empty id", ErrRunNotFound)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE substr(id, 1, ?) = ? ORDER BY seq DESC LIMIT 2`,
		len(idPrefix), idPrefix)
	if err != nil {
		return nil, nil, fmt.Errorf("get run: %w", err)
	}
	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate runs: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, idPrefix)
	case 1:
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, idPrefix)
	}

	run := matches[0]
	projects, err := s.projects(ctx, run.ID)
	if err != nil {
		return nil, nil, err
	}
	return run, projects, nil
}

// Prune removes all but the newest keep runs and returns how many were deleted.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	ctx = ensureContext(ctx)
	if keep <= 0 {
		return 0, nil
	}
	var removed int64
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin prune tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var before int64
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM runs`).Scan(&before); err != nil {
			return fmt.Errorf("count runs: %w", err)
		}
		if err := pruneTx(ctx, tx, keep); err != nil {
			return err
		}
		var after int64
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM runs`).Scan(&after); err != nil {
			return fmt.Errorf("count runs: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit prune: %w", err)
		}
		removed = before - after
		return nil
	})
	return removed, err
}

func pruneTx(ctx context.Context, tx *sql.Tx, keep int) error {
	const keepClause = `SELECT id FROM runs ORDER BY seq DESC LIMIT ?`
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM run_projects WHERE run_id NOT IN (`+keepClause+`)`, keep); err != nil {
		return fmt.Errorf("prune run projects: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (`+keepClause+`)`, keep); err != nil {
		return fmt.Errorf("prune runs: %w", err)
	}
	return nil
}

func (s *Store) projects(ctx context.Context, runID string) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT position, ide_name, ide_version, project_path,
            display_name, activation_timestamp, is_last_opened, exists_on_disk, source_file
        FROM run_projects WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("list run projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var (
			p           Project
			displayName sql.NullString
			activation  sql.NullInt64
			lastOpened  int64
			exists      int64
			sourceFile  sql.NullString
		)
		if err := rows.Scan(&p.Position, &p.Family, &p.Version, &p.Path,
			&displayName, &activation, &lastOpened, &exists, &sourceFile); err != nil {
			return nil, fmt.Errorf("scan run project: %w", err)
		}
		if displayName.Valid {
			v := displayName.String
			p.DisplayName = &v
		}
		if activation.Valid {
			v := activation.Int64
			p.ActivationTimestamp = &v
		}
		p.IsLastOpened = lastOpened != 0
		p.Exists = exists != 0
		p.SourceFile = sourceFile.String
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run projects: %w", err)
	}
	return projects, nil
}
