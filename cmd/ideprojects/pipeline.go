package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ideprojects/internal/aggregate"
	"ideprojects/internal/config"
	"ideprojects/internal/history"
	"ideprojects/internal/logging"
)

// scanRun carries one invocation's scan through report, export, and history.
type scanRun struct {
	id      string
	mode    string
	started time.Time
	cfg     *config.Config
	logger  *slog.Logger
	col     *aggregate.Collection
}

func scan(ctx context.Context, cfg *config.Config, logger *slog.Logger, runID, mode string) (*scanRun, error) {
	run := &scanRun{
		id:      runID,
		mode:    mode,
		started: time.Now(),
		cfg:     cfg,
		logger:  logger,
	}
	scanner := aggregate.NewScanner(cfg, logger)
	col, err := scanner.Scan(ctx, cfg.Scan.Roots)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	run.col = col
	logger.Debug("scan timing",
		logging.Int("missing_roots", len(col.MissingRoots)),
		logging.Duration("elapsed", time.Since(run.started)))
	return run, nil
}

// recordHistory stores the run when history is enabled. Failures are logged
// and never fail the run.
func (r *scanRun) recordHistory(ctx context.Context, entries []aggregate.Entry, exportPath string) {
	if !r.cfg.History.Enabled {
		return
	}
	store, err := history.Open(r.cfg)
	if err != nil {
		if !errors.Is(err, history.ErrDisabled) {
			logging.WarnWithContext(r.logger, "history unavailable", "history_open_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check history.path or disable history"),
				logging.String(logging.FieldImpact, "this run was not recorded"))
		}
		return
	}
	defer store.Close()

	if entries == nil {
		entries = r.col.Global(nil)
	}
	stored, err := store.Record(ctx, history.Snapshot{
		ID:         r.id,
		StartedAt:  r.started,
		FinishedAt: time.Now(),
		Mode:       r.mode,
		ExportPath: exportPath,
		Collection: r.col,
		Entries:    entries,
	})
	if err != nil {
		logging.WarnWithContext(r.logger, "failed to record history", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run was not recorded"))
		return
	}
	r.logger.Debug("run recorded",
		logging.String("history_path", store.Path()),
		logging.Int("projects", stored.Projects))
}
