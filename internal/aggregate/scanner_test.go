package aggregate_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ideprojects/internal/aggregate"
	"ideprojects/internal/logging"
	"ideprojects/internal/project"
	"ideprojects/internal/testsupport"
)

func TestScanCollectsAcrossVersionsAndSkipsBrokenFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := testsupport.Root(cfg)
	home := cfg.Scan.HomeDir

	testsupport.WriteStore(t, root, "Rider2025.1", "recentSolutions.xml",
		testsupport.Store("RiderRecentProjectsManager", filepath.Join(home, "src", "app"),
			testsupport.Project{Key: "$USER_HOME$/src/app", DisplayName: "App", Activation: 300},
			testsupport.Project{Key: "/srv/legacy", NoMeta: true},
		))
	testsupport.WriteStore(t, root, "GoLand2024.3", "recentProjects.xml",
		testsupport.Store("RecentProjectsManager", "",
			testsupport.Project{Key: "$USER_HOME$/src/app", Activation: 100},
		))
	testsupport.WriteStore(t, root, "CLion", "recentProjects.xml", "<application><component name=\"RecentProjectsManager\">")

	col, err := aggregate.NewScanner(cfg, logging.NewNop()).Scan(context.Background(), cfg.Scan.Roots)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	if col.SourceFiles != 3 {
		t.Fatalf("expected 3 source files, got %d", col.SourceFiles)
	}
	if len(col.Failures) != 1 || filepath.Base(filepath.Dir(filepath.Dir(col.Failures[0].File))) != "CLion" {
		t.Fatalf("expected the CLion store to fail, got %+v", col.Failures)
	}
	if len(col.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(col.Records))
	}

	appPath := filepath.Join(home, "src", "app")
	var sources []string
	for _, rec := range col.Records {
		if rec.Path == appPath {
			sources = append(sources, rec.SourceKey())
		}
	}
	if len(sources) != 2 || sources[0] != "GoLand 2024.3" || sources[1] != "Rider 2025.1" {
		t.Fatalf("expected the shared path to be kept once per source, got %v", sources)
	}

	for _, rec := range col.Records {
		if rec.SourceKey() == "Rider 2025.1" && rec.Path == appPath && !rec.IsLastOpened {
			t.Fatal("expected Rider app to be flagged last opened")
		}
		if rec.SourceKey() == "GoLand 2024.3" && rec.IsLastOpened {
			t.Fatal("GoLand store has no designator")
		}
	}
}

func TestScanMissingRootIsNotFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithExtraRoot("Google"))
	testsupport.WriteStore(t, testsupport.Root(cfg), "PyCharm2024.2", "recentProjects.xml",
		testsupport.Store("RecentProjectsManager", "", testsupport.Project{Key: "/p", NoMeta: true}))

	missing := filepath.Join(testsupport.BaseDir(cfg), "absent")
	roots := append([]string{missing}, cfg.Scan.Roots...)

	col, err := aggregate.NewScanner(cfg, nil).Scan(context.Background(), roots)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(col.MissingRoots) != 2 {
		t.Fatalf("expected two missing roots, got %v", col.MissingRoots)
	}
	if len(col.Records) != 1 || col.Records[0].Family != "PyCharm" {
		t.Fatalf("unexpected records %+v", col.Records)
	}
}

func TestScanHonoursCancellation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := aggregate.NewScanner(cfg, nil).Scan(ctx, cfg.Scan.Roots); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestScanEmptyRootYieldsNoRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.MkdirProject(t, testsupport.Root(cfg))
	col, err := aggregate.NewScanner(cfg, nil).Scan(context.Background(), cfg.Scan.Roots)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(col.Records) != 0 || len(col.MissingRoots) != 0 {
		t.Fatalf("unexpected collection %+v", col)
	}
}

func TestScanCarriesSidecarFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteStore(t, testsupport.Root(cfg), "WebStorm2025.2", "recentProjects.xml",
		testsupport.Store("RecentProjectsManager", "",
			testsupport.Project{
				Key:        "/work/site",
				FrameTitle: "site – index.ts",
				Opened:     1700000000000,
				Build:      "WS-252.1",
				Color:      "3",
				Frame:      testsupport.FullFrame(5, 6, 1440, 900),
				Options:    map[string]string{"projectWorkspaceId": "abc"},
			},
		))

	col, err := aggregate.NewScanner(cfg, nil).Scan(context.Background(), cfg.Scan.Roots)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(col.Records) != 1 {
		t.Fatalf("expected one record, got %d", len(col.Records))
	}
	rec := col.Records[0]
	if rec.WindowGeometry == nil || *rec.WindowGeometry != "x=5 y=6 w=1440 h=900" {
		t.Fatalf("unexpected geometry %v", rec.WindowGeometry)
	}
	if rec.ColorIndex == nil || *rec.ColorIndex != "3" {
		t.Fatalf("unexpected color index %v", rec.ColorIndex)
	}
	if rec.BuildTag == nil || *rec.BuildTag != "WS-252.1" {
		t.Fatalf("unexpected build %v", rec.BuildTag)
	}
	if rec.OpenTimestamp == nil || *rec.OpenTimestamp != 1700000000000 || rec.ActivationTimestamp != nil {
		t.Fatalf("unexpected timestamps open=%v activation=%v", rec.OpenTimestamp, rec.ActivationTimestamp)
	}
	if rec.Extra["projectWorkspaceId"] != "abc" {
		t.Fatalf("expected unknown option in Extra, got %v", rec.Extra)
	}
	if filepath.Base(rec.SourceFile) != "recentProjects.xml" {
		t.Fatalf("unexpected source file %q", rec.SourceFile)
	}
}

func records(recs ...project.Record) *aggregate.Collection {
	return &aggregate.Collection{Records: recs}
}
