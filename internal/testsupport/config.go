package testsupport

import (
	"path/filepath"
	"testing"

	"ideprojects/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test:
// a single scan root, a fake home, and export/history paths under the same
// base directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Scan.Roots = []string{filepath.Join(base, "JetBrains")}
	cfgVal.Scan.HomeDir = filepath.Join(base, "home")
	cfgVal.Export.Path = filepath.Join(base, "export", "projects.json")
	cfgVal.History.Path = filepath.Join(base, "history", "history.db")
	cfgVal.Report.Color = config.ColorNever

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithHistory enables the scan history database.
func WithHistory(keep int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = true
		b.cfg.History.KeepRuns = keep
	}
}

// WithExtraRoot appends another scan root below the base directory.
func WithExtraRoot(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.Roots = append(b.cfg.Scan.Roots, filepath.Join(b.baseDir, name))
	}
}

// Root returns the first scan root of cfg.
func Root(cfg *config.Config) string {
	return cfg.Scan.Roots[0]
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(Root(cfg))
}
