package export_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"ideprojects/internal/export"
	"ideprojects/internal/logging"
	"ideprojects/internal/project"
	"ideprojects/internal/testsupport"
)

func sampleRecords(existing string) []project.Record {
	return []project.Record{
		{
			Family:              "Rider",
			FamilyVersion:       "2025.1",
			Path:                existing,
			DisplayName:         project.StringPtr("App <web>"),
			FrameTitle:          project.StringPtr("App – Program.cs"),
			ActivationTimestamp: project.Int64Ptr(1717171717123),
			OpenTimestamp:       project.Int64Ptr(1717170000000),
			BuildTag:            project.StringPtr("RD-251.1"),
			ColorIndex:          project.StringPtr("2"),
			WindowGeometry:      project.StringPtr("x=0 y=0 w=10 h=10"),
			IsLastOpened:        true,
		},
		{Family: "CLion", FamilyVersion: "Unknown", Path: "/definitely/not/here"},
		{Family: "Rider", FamilyVersion: "2024.3", Path: existing},
	}
}

func TestBuildEmitsEveryRecordOnceWithFreshExistence(t *testing.T) {
	dir := t.TempDir()
	objects := export.Build(sampleRecords(dir), nil)
	if len(objects) != 3 {
		t.Fatalf("expected 3 objects, got %d", len(objects))
	}
	if !objects[0].Exists || objects[1].Exists || !objects[2].Exists {
		t.Fatalf("unexpected existence flags: %v %v %v", objects[0].Exists, objects[1].Exists, objects[2].Exists)
	}
	if objects[0].ActivationTime == nil || *objects[0].ActivationTime != export.FormatLocalISO(1717171717123) {
		t.Fatalf("unexpected activation time %v", objects[0].ActivationTime)
	}
	if objects[1].ActivationTime != nil || objects[1].DisplayName != nil {
		t.Fatal("absent fields must stay nil")
	}
	if !objects[0].IsLastOpened || objects[2].IsLastOpened {
		t.Fatal("last opened flag not carried over")
	}
}

func TestFormatLocalISO(t *testing.T) {
	whole := time.Date(2024, 5, 31, 18, 8, 37, 0, time.Local).UnixMilli()
	if got := export.FormatLocalISO(whole); got != "2024-05-31T18:08:37" {
		t.Fatalf("FormatLocalISO(whole) = %q", got)
	}
	frac := whole + 123
	if got := export.FormatLocalISO(frac); got != "2024-05-31T18:08:37.123000" {
		t.Fatalf("FormatLocalISO(frac) = %q", got)
	}
}

func TestEncodeUsesNullsAndKeepsHTML(t *testing.T) {
	data, err := export.Encode(export.Build(sampleRecords(t.TempDir()), nil))
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, `"display_name": "App <web>"`) {
		t.Fatalf("expected unescaped HTML characters, got:\n%s", text)
	}
	if !strings.Contains(text, `"frame_title": "App – Program.cs"`) {
		t.Fatalf("expected raw UTF-8, got:\n%s", text)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	fields := []string{
		"ide_name", "ide_version", "project_path", "display_name", "frame_title",
		"activation_timestamp", "project_open_timestamp", "activation_time",
		"build", "frame", "color_index", "exists",
	}
	for _, field := range fields {
		if _, ok := decoded[1][field]; !ok {
			t.Fatalf("field %s missing from object", field)
		}
	}
	if decoded[1]["activation_time"] != nil || decoded[1]["build"] != nil {
		t.Fatalf("expected nulls for absent values: %v", decoded[1])
	}
	if decoded[0]["activation_timestamp"] != float64(1717171717123) {
		t.Fatalf("expected raw integer timestamp, got %v", decoded[0]["activation_timestamp"])
	}
}

func TestEncodeEmptyListIsArray(t *testing.T) {
	data, err := export.Encode(nil)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Fatalf("expected empty array, got %q", data)
	}
}

func TestExportWritesFileAtomically(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	exp := export.New(cfg, "", logging.NewNop())

	count, err := exp.Export(context.Background(), sampleRecords(t.TempDir()))
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 objects written, got %d", count)
	}

	data, err := os.ReadFile(cfg.Export.Path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var decoded []export.Object
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(decoded) != 3 {
		t.Fatalf("expected 3 exported objects, got %d", len(decoded))
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(cfg.Export.Path), "*.tmp"))
	if len(leftovers) != 0 {
		t.Fatalf("temporary files left behind: %v", leftovers)
	}
}

func TestExportOverridePathAndProbe(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	target := filepath.Join(t.TempDir(), "override.json")
	exp := export.New(cfg, target, nil).WithProbe(func(string) bool { return true })
	if exp.Path() != target {
		t.Fatalf("unexpected path %q", exp.Path())
	}
	if _, err := exp.Export(context.Background(), sampleRecords("/nowhere")); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if strings.Contains(string(data), `"exists": false`) {
		t.Fatal("expected probe override to mark every path present")
	}
}

func TestExportSurfacesWriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	cfg := testsupport.NewConfig(t)
	exp := export.New(cfg, filepath.Join(blocker, "out.json"), nil)
	if _, err := exp.Export(context.Background(), nil); err == nil {
		t.Fatal("expected error when destination directory is a file")
	}
}

func TestExportByDefaultWritesOnlyTheArtifact(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := export.New(cfg, "", nil).Export(context.Background(), sampleRecords("/nowhere")); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(cfg.Export.Path))
	if err != nil {
		t.Fatalf("read export dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != filepath.Base(cfg.Export.Path) {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only the export file, got %v", names)
	}
}

func TestExportWithLockLeavesLockFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Export.Lock = true
	if _, err := export.New(cfg, "", nil).Export(context.Background(), nil); err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if _, err := os.Stat(cfg.Export.Path + ".lock"); err != nil {
		t.Fatalf("expected lock file: %v", err)
	}
}

func TestExportFailsWhenLockHeld(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Export.Lock = true
	if err := os.MkdirAll(filepath.Dir(cfg.Export.Path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	holder := flock.New(cfg.Export.Path + ".lock")
	if ok, err := holder.TryLock(); err != nil || !ok {
		t.Fatalf("take lock: ok=%v err=%v", ok, err)
	}
	defer holder.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	if _, err := export.New(cfg, "", nil).Export(ctx, nil); err == nil {
		t.Fatal("expected lock acquisition to fail")
	}
	if _, err := os.Stat(cfg.Export.Path); !os.IsNotExist(err) {
		t.Fatalf("export must not be written without the lock, stat err=%v", err)
	}
}
