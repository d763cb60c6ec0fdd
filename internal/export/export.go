package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"ideprojects/internal/aggregate"
	"ideprojects/internal/config"
	"ideprojects/internal/logging"
	"ideprojects/internal/project"
)

const (
	isoLayout       = "2006-01-02T15:04:05"
	isoLayoutMicros = "2006-01-02T15:04:05.000000"

	lockRetryDelay = 100 * time.Millisecond
	lockTimeout    = 10 * time.Second
)

// Object is the interchange form of one project record.
type Object struct {
	IDEName              string  `json:"ide_name"`
	IDEVersion           string  `json:"ide_version"`
	ProjectPath          string  `json:"project_path"`
	DisplayName          *string `json:"display_name"`
	FrameTitle           *string `json:"frame_title"`
	ActivationTimestamp  *int64  `json:"activation_timestamp"`
	ProjectOpenTimestamp *int64  `json:"project_open_timestamp"`
	ActivationTime       *string `json:"activation_time"`
	Build                *string `json:"build"`
	Frame                *string `json:"frame"`
	ColorIndex           *string `json:"color_index"`
	Exists               bool    `json:"exists"`
	IsLastOpened         bool    `json:"is_last_opened"`
}

// Build converts records to interchange objects, probing each path now.
func Build(records []project.Record, probe aggregate.Probe) []Object {
	if probe == nil {
		probe = aggregate.PathExists
	}
	objects := make([]Object, 0, len(records))
	for _, rec := range records {
		obj := Object{
			IDEName:              rec.Family,
			IDEVersion:           rec.FamilyVersion,
			ProjectPath:          rec.Path,
			DisplayName:          rec.DisplayName,
			FrameTitle:           rec.FrameTitle,
			ActivationTimestamp:  rec.ActivationTimestamp,
			ProjectOpenTimestamp: rec.OpenTimestamp,
			Build:                rec.BuildTag,
			Frame:                rec.WindowGeometry,
			ColorIndex:           rec.ColorIndex,
			Exists:               probe(rec.Path),
			IsLastOpened:         rec.IsLastOpened,
		}
		if rec.ActivationTimestamp != nil {
			obj.ActivationTime = project.StringPtr(FormatLocalISO(*rec.ActivationTimestamp))
		}
		objects = append(objects, obj)
	}
	return objects
}

// FormatLocalISO renders epoch milliseconds as local ISO-8601 without a zone
// offset. Fractional seconds appear as microseconds only when non-zero.
func FormatLocalISO(ms int64) string {
	ts := time.UnixMilli(ms).In(time.Local)
	if ts.Nanosecond() == 0 {
		return ts.Format(isoLayout)
	}
	return ts.Format(isoLayoutMicros)
}

// Encode renders objects as indented UTF-8 JSON.
func Encode(objects []Object) ([]byte, error) {
	if objects == nil {
		objects = []Object{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(objects); err != nil {
		return nil, fmt.Errorf("encode projects: %w", err)
	}
	return buf.Bytes(), nil
}

// Exporter writes the interchange document to a fixed destination.
type Exporter struct {
	path   string
	lock   bool
	probe  aggregate.Probe
	logger *slog.Logger
}

// New builds an exporter from the export section of cfg. A non-empty
// override replaces the configured destination.
func New(cfg *config.Config, override string, logger *slog.Logger) *Exporter {
	e := &Exporter{
		probe:  aggregate.PathExists,
		logger: logging.NewComponentLogger(logger, "export"),
	}
	if cfg != nil {
		e.path = cfg.Export.Path
		e.lock = cfg.Export.Lock
	}
	if override != "" {
		e.path = override
	}
	return e
}

// WithProbe replaces the existence probe.
func (e *Exporter) WithProbe(probe aggregate.Probe) *Exporter {
	if probe != nil {
		e.probe = probe
	}
	return e
}

// Path returns the destination file.
func (e *Exporter) Path() string {
	return e.path
}

// Export writes every record to the destination and returns the number of
// objects written. Any failure leaves the previous file untouched.
func (e *Exporter) Export(ctx context.Context, records []project.Record) (int, error) {
	if e.path == "" {
		return 0, fmt.Errorf("export: destination path is empty")
	}

	dir := filepath.Dir(e.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create export directory: %w", err)
	}

	if e.lock {
		unlock, err := acquireLock(ctx, e.path+".lock")
		if err != nil {
			return 0, err
		}
		defer unlock()
	}

	objects := Build(records, e.probe)
	data, err := Encode(objects)
	if err != nil {
		return 0, err
	}
	if err := writeAtomic(e.path, data); err != nil {
		return 0, err
	}

	e.logger.Info("exported projects",
		logging.String("path", e.path),
		logging.Int("projects", len(objects)))
	return len(objects), nil
}

func acquireLock(ctx context.Context, lockPath string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	lock := flock.New(lockPath)
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire export lock %s: %w", lockPath, err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire export lock %s: held by another process", lockPath)
	}
	return func() { _ = lock.Unlock() }, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
