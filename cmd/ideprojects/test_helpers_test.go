package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ideprojects/internal/config"
	"ideprojects/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	homeDir    string
	root       string
	configPath string
	exportPath string
}

func setupCLITestEnv(t *testing.T, history bool) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv(config.EnvExportPath, "")
	os.Unsetenv(config.EnvExportPath)
	chdir(t, base)

	env := &cliTestEnv{
		baseDir:    base,
		homeDir:    homeDir,
		root:       filepath.Join(base, "JetBrains"),
		configPath: filepath.Join(base, "config.toml"),
		exportPath: filepath.Join(base, "out", "projects.json"),
	}
	writeTestConfig(t, env, history)

	testsupport.MkdirProject(t, filepath.Join(homeDir, "src", "app"))
	testsupport.WriteStore(t, env.root, "Rider2025.1", "recentSolutions.xml",
		testsupport.Store("RiderRecentProjectsManager", filepath.Join(homeDir, "src", "app"),
			testsupport.Project{Key: "$USER_HOME$/src/app", DisplayName: "App", Activation: 1700000000000},
			testsupport.Project{Key: "/nowhere/legacy", NoMeta: true},
		))
	testsupport.WriteStore(t, env.root, "IntelliJIdea2024.3", "recentProjects.xml",
		testsupport.Store("RecentProjectsManager", "",
			testsupport.Project{Key: "$USER_HOME$/src/app", Activation: 1600000000000},
		))
	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv, history bool) {
	t.Helper()
	content := fmt.Sprintf(`[scan]
roots = [%q]
home_dir = %q

[export]
path = %q

[report]
color = "never"

[history]
enabled = %t
path = %q
keep_runs = 5
`,
		env.root,
		env.homeDir,
		env.exportPath,
		history,
		filepath.Join(env.baseDir, "history.db"),
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
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
