package aggregate

import (
	"context"
	"errors"
	"log/slog"

	"ideprojects/internal/config"
	"ideprojects/internal/logging"
	"ideprojects/internal/project"
	"ideprojects/internal/recent"
	"ideprojects/internal/resolver"
)

// Failure records a store that could not be parsed.
type Failure struct {
	File string
	Err  error
}

// Collection is the unified result of one scan. Records keep discovery order.
type Collection struct {
	Roots        []string
	MissingRoots []string
	SourceFiles  int
	Failures     []Failure
	Records      []project.Record
}

// Scanner walks configuration roots and parses every recent-project store.
type Scanner struct {
	metadataFiles []string
	home          string
	logger        *slog.Logger
}

// NewScanner builds a scanner from the scan section of cfg.
func NewScanner(cfg *config.Config, logger *slog.Logger) *Scanner {
	s := &Scanner{logger: logging.NewComponentLogger(logger, "scanner")}
	if cfg != nil {
		s.metadataFiles = cfg.Scan.MetadataFiles
		s.home = cfg.Scan.HomeDir
	}
	return s
}

// Scan visits roots in order and concatenates every parsed record. Only
// context cancellation aborts a scan.
func (s *Scanner) Scan(ctx context.Context, roots []string) (*Collection, error) {
	col := &Collection{Roots: append([]string(nil), roots...)}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sources, err := resolver.Resolve(root, s.metadataFiles)
		if err != nil {
			if errors.Is(err, resolver.ErrRootNotFound) {
				col.MissingRoots = append(col.MissingRoots, root)
				logging.WarnWithContext(s.logger, "configuration root not found", "root_missing",
					logging.String("root", root),
					logging.String(logging.FieldErrorHint, "set scan.roots or pass --root"),
					logging.String(logging.FieldImpact, "no projects discovered from this root"))
				continue
			}
			logging.WarnWithContext(s.logger, "configuration root unreadable", "root_unreadable",
				logging.String("root", root),
				logging.Error(err),
				logging.String(logging.FieldImpact, "no projects discovered from this root"))
			continue
		}

		for _, src := range sources {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			col.SourceFiles++
			records, err := recent.ParseFile(src.File, recent.Options{
				Family:  src.Family,
				Version: src.Version,
				Home:    s.home,
			})
			if err != nil {
				col.Failures = append(col.Failures, Failure{File: src.File, Err: err})
				logging.WarnWithContext(s.logger, "skipping unreadable recent projects file", "store_parse_failed",
					logging.String("file", src.File),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "the IDE may be writing the file; rerun after it exits"),
					logging.String(logging.FieldImpact, "projects from this file are missing from the results"))
				continue
			}
			s.logger.Debug("parsed recent projects file",
				logging.String("file", src.File),
				logging.String("family", src.Family),
				logging.String("version", src.Version),
				logging.Int("records", len(records)))
			col.Records = append(col.Records, records...)
		}
	}

	s.logger.Info("scan complete",
		logging.Int("roots", len(roots)),
		logging.Int("files", col.SourceFiles),
		logging.Int("failures", len(col.Failures)),
		logging.Int("projects", len(col.Records)))
	return col, nil
}
