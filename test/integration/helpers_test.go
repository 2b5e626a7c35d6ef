//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/devstrap-labs/devstrap/internal/config"
	"github.com/devstrap-labs/devstrap/internal/gittest"
	"github.com/devstrap-labs/devstrap/internal/prompt"
	"github.com/devstrap-labs/devstrap/internal/setup"
	"github.com/devstrap-labs/devstrap/internal/ui"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir         string // DEVSTRAP_HOME, holds config.yaml
	InstallRoot     string // framework.default_root
	FrameworkOrigin string
	ExtensionOrigin string
	RCFile          string // framework.config_file
}

// setupTestEnv creates local origin repositories and points every devstrap
// setting at temp directories through DEVSTRAP_* environment variables. The
// env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses sh and symlinks")
	}

	origins := t.TempDir()
	env := &testEnv{
		HomeDir:         t.TempDir(),
		InstallRoot:     t.TempDir(),
		FrameworkOrigin: gittest.Init(t, filepath.Join(origins, "framework"), "develop", "release"),
		ExtensionOrigin: gittest.Init(t, filepath.Join(origins, "extension"), "develop"),
	}
	env.RCFile = filepath.Join(t.TempDir(), ".frameworkrc")

	gittest.WriteFile(t, env.FrameworkOrigin, "tools/README", "framework tools\n")
	gittest.WriteFile(t, env.ExtensionOrigin, "build.sh", "echo \"tools=$FRAMEWORK_TOOLS\"\n")
	gittest.WriteFile(t, env.ExtensionOrigin, "test.sh", "echo ok\n")

	t.Setenv("DEVSTRAP_HOME", env.HomeDir)
	t.Setenv("DEVSTRAP_FRAMEWORK_REPO", env.FrameworkOrigin)
	t.Setenv("DEVSTRAP_FRAMEWORK_DEFAULT_ROOT", env.InstallRoot)
	t.Setenv("DEVSTRAP_FRAMEWORK_CONFIG_FILE", env.RCFile)
	t.Setenv("DEVSTRAP_EXTENSION_REPO", env.ExtensionOrigin)
	t.Setenv("DEVSTRAP_BUILD_TOOL", "sh")
	t.Setenv("DEVSTRAP_BUILD_ARGS", "build.sh")
	t.Setenv("DEVSTRAP_BUILD_TEST_ARGS", "test.sh")

	return env
}

// runSetup loads configuration the way the CLI does and runs setup with the
// given answers on stdin. It returns the report and the diagnostics.
func runSetup(t *testing.T, answers string, mutate func(*setup.Options)) (*setup.Report, string, error) {
	t.Helper()
	if err := config.Load(); err != nil {
		t.Fatalf("config.Load: %v", err)
	}

	var diag bytes.Buffer
	opts := setup.Options{
		Settings: config.Current(),
		Prompter: prompt.NewLine(strings.NewReader(answers), &bytes.Buffer{}),
		Out:      ui.New(&diag),
	}
	if mutate != nil {
		mutate(&opts)
	}
	report, err := setup.Run(context.Background(), opts)
	return report, diag.String(), err
}

// writeFile writes content to path, creating parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

// countLines returns how many lines of path start with prefix.
func countLines(t *testing.T, path, prefix string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	n := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}
