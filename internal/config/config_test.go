package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ideprojects/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	// Keep a stray ideprojects.toml in the package directory from leaking in.
	chdir(t, t.TempDir())
	t.Setenv(config.EnvExportPath, "")
	os.Unsetenv(config.EnvExportPath)
	return home
}

func TestLoadDefaultsExpandPaths(t *testing.T) {
	home := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(home, ".config", "ideprojects", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}

	wantRoots := []string{
		filepath.Join(home, ".config", "JetBrains"),
		filepath.Join(home, ".config", "Google"),
	}
	if len(cfg.Scan.Roots) != len(wantRoots) {
		t.Fatalf("unexpected roots %v", cfg.Scan.Roots)
	}
	for i := range wantRoots {
		if cfg.Scan.Roots[i] != wantRoots[i] {
			t.Fatalf("root %d = %q, want %q", i, cfg.Scan.Roots[i], wantRoots[i])
		}
	}
	if cfg.Scan.HomeDir != home {
		t.Fatalf("expected home dir %q, got %q", home, cfg.Scan.HomeDir)
	}
	if filepath.Base(cfg.Export.Path) != "jetbrains_projects.json" || !filepath.IsAbs(cfg.Export.Path) {
		t.Fatalf("unexpected export path %q", cfg.Export.Path)
	}
	if cfg.SilentMode() {
		t.Fatal("expected interactive mode without env override")
	}
	if cfg.Export.Lock {
		t.Fatal("expected export locking to be opt-in")
	}
	if cfg.History.Enabled {
		t.Fatal("expected history disabled by default")
	}
	if cfg.History.Path != filepath.Join(home, ".local", "share", "ideprojects", "history.db") {
		t.Fatalf("unexpected history path %q", cfg.History.Path)
	}
	if cfg.ColorMode() != config.ColorAuto {
		t.Fatalf("unexpected color mode %q", cfg.ColorMode())
	}
}

func TestLoadEnvOverrideSelectsSilentMode(t *testing.T) {
	isolate(t)
	target := filepath.Join(t.TempDir(), "out.json")
	t.Setenv(config.EnvExportPath, target)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.SilentMode() {
		t.Fatal("expected silent mode")
	}
	if cfg.Export.Path != target {
		t.Fatalf("export path = %q, want %q", cfg.Export.Path, target)
	}
}

func TestLoadEmptyEnvOverrideKeepsDefaultPath(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvExportPath, "")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.SilentMode() {
		t.Fatal("expected silent mode when variable is present")
	}
	if filepath.Base(cfg.Export.Path) != "jetbrains_projects.json" {
		t.Fatalf("unexpected export path %q", cfg.Export.Path)
	}
}

func TestLoadCustomPath(t *testing.T) {
	home := isolate(t)
	configPath := filepath.Join(t.TempDir(), "ideprojects.toml")

	type payload struct {
		Scan struct {
			Roots   []string `toml:"roots"`
			HomeDir string   `toml:"home_dir"`
		} `toml:"scan"`
		History struct {
			Enabled  bool `toml:"enabled"`
			KeepRuns int  `toml:"keep_runs"`
		} `toml:"history"`
		Report struct {
			Color string `toml:"color"`
		} `toml:"report"`
	}
	custom := payload{}
	custom.Scan.Roots = []string{"~/ides", " ", "~/ides"}
	custom.Scan.HomeDir = "/home/u"
	custom.History.Enabled = true
	custom.History.KeepRuns = 5
	custom.Report.Color = "NEVER"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if len(cfg.Scan.Roots) != 1 || cfg.Scan.Roots[0] != filepath.Join(home, "ides") {
		t.Fatalf("expected deduplicated expanded roots, got %v", cfg.Scan.Roots)
	}
	if cfg.Scan.HomeDir != "/home/u" {
		t.Fatalf("unexpected home dir %q", cfg.Scan.HomeDir)
	}
	if !cfg.History.Enabled || cfg.History.KeepRuns != 5 {
		t.Fatalf("unexpected history config %+v", cfg.History)
	}
	if cfg.ColorMode() != config.ColorNever {
		t.Fatalf("expected lower-cased colour mode, got %q", cfg.ColorMode())
	}
	if len(cfg.Scan.MetadataFiles) != 2 {
		t.Fatalf("expected default metadata files to survive, got %v", cfg.Scan.MetadataFiles)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"colour":       "[report]\ncolor = \"sometimes\"\n",
		"empty roots":  "[scan]\nroots = []\n",
		"nested file":  "[scan]\nmetadata_files = [\"options/recentProjects.xml\"]\n",
		"keep runs":    "[history]\nenabled = true\nkeep_runs = 0\n",
		"log format":   "[logging]\nformat = \"xml\"\n",
		"unknown key":  "[scan]\nrootz = [\"/x\"]\n",
		"broken toml":  "[scan\n",
		"log level":    "[logging]\nlevel = \"loud\"\n",
		"level alias":  "[logging]\nlevel = \"warning\"\n",
		"unknown root": "[paths]\nstaging_dir = \"/x\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestCreateSampleRoundTripsThroughLoad(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "JSON_OUTPUT_PATH") {
		t.Fatal("expected sample to document the environment override")
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config failed to load: exists=%v err=%v", exists, err)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore cwd: %v", err)
		}
	})
}
