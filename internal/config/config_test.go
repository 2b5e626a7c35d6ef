package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func setupHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DEVSTRAP_HOME", dir)
	return dir
}

func TestFilePathHonorsHomeOverride(t *testing.T) {
	dir := setupHome(t)
	want := filepath.Join(dir, "config.yaml")
	if got := FilePath(); got != want {
		t.Errorf("FilePath() = %q, want %q", got, want)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	setupHome(t)
	if err := Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	s := Current()
	if s.Framework.ConfigKey != "DEFAULT_PROJECTDIRS" {
		t.Errorf("ConfigKey = %q, want DEFAULT_PROJECTDIRS", s.Framework.ConfigKey)
	}
	if s.Framework.PluginDir != "plugins" {
		t.Errorf("PluginDir = %q, want plugins", s.Framework.PluginDir)
	}
	if s.Build.Tool != "make" {
		t.Errorf("Build.Tool = %q, want make", s.Build.Tool)
	}
	if len(s.Build.TestArgs) != 1 || s.Build.TestArgs[0] != "test" {
		t.Errorf("Build.TestArgs = %v, want [test]", s.Build.TestArgs)
	}
	if s.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", s.MaxAttempts)
	}
	if s.Framework.ConfigSep != string(os.PathListSeparator) {
		t.Errorf("ConfigSep = %q, want %q", s.Framework.ConfigSep, string(os.PathListSeparator))
	}
}

func TestSetConfigSeparator(t *testing.T) {
	setupHome(t)
	if err := Load(); err != nil {
		t.Fatal(err)
	}
	if err := Set(KeyFrameworkConfigSep, "::"); err == nil {
		t.Error("expected error for a multi-character separator")
	}
	if err := Set(KeyFrameworkConfigSep, ";"); err != nil {
		t.Fatalf("Set config_separator: %v", err)
	}
	if err := Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := Current().Framework.ConfigSep; got != ";" {
		t.Errorf("ConfigSep = %q, want ;", got)
	}
}

func TestSetAndReload(t *testing.T) {
	setupHome(t)
	if err := Load(); err != nil {
		t.Fatal(err)
	}

	if err := Set(KeyBuildTool, "ninja"); err != nil {
		t.Fatalf("Set build.tool: %v", err)
	}
	if err := Set(KeyBuildArgs, "-C out all"); err != nil {
		t.Fatalf("Set build.args: %v", err)
	}
	if err := Set(KeyPromptMaxAttempts, "3"); err != nil {
		t.Fatalf("Set prompt.max_attempts: %v", err)
	}

	if err := Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	s := Current()
	if s.Build.Tool != "ninja" {
		t.Errorf("Build.Tool = %q, want ninja", s.Build.Tool)
	}
	if got := Get(KeyBuildArgs); got != "-C out all" {
		t.Errorf("Get(build.args) = %q, want %q", got, "-C out all")
	}
	if s.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", s.MaxAttempts)
	}
}

func TestSetRejectsUnknownKey(t *testing.T) {
	setupHome(t)
	if err := Set("framework.colour", "blue"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestSetRejectsBadAttempts(t *testing.T) {
	setupHome(t)
	if err := Set(KeyPromptMaxAttempts, "zero"); err == nil {
		t.Error("expected error for non-numeric max_attempts")
	}
}

func TestEnvOverride(t *testing.T) {
	setupHome(t)
	t.Setenv("DEVSTRAP_FRAMEWORK_REPO", "file:///tmp/framework.git")
	if err := Load(); err != nil {
		t.Fatal(err)
	}
	if got := Current().Framework.Repo; got != "file:///tmp/framework.git" {
		t.Errorf("Framework.Repo = %q, want env override", got)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := setupHome(t)
	bad := "build:\n  env_var: \"1-bad\"\nunknown: true\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}

	err := Load()
	var invalid *InvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidError, got %v", err)
	}
	if len(invalid.Issues) < 2 {
		t.Errorf("expected at least 2 issues, got %v", invalid.Issues)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantValid bool
	}{
		{"empty", "", true},
		{"full", "framework:\n  repo: https://example.com/f.git\n  config_key: DEFAULT_PROJECTDIRS\nbuild:\n  args: [all]\n  test_args: check\n", true},
		{"slash in name", "extension:\n  name: a/b\n", false},
		{"bad attempts", "prompt:\n  max_attempts: 0\n", false},
		{"args wrong type", "build:\n  args: 3\n", false},
		{"separator", "framework:\n  config_separator: \";\"\n", true},
		{"empty separator", "framework:\n  config_separator: \"\"\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues, err := Validate([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Validate error: %v", err)
			}
			if valid := len(issues) == 0; valid != tt.wantValid {
				t.Errorf("valid = %v, want %v (issues: %v)", valid, tt.wantValid, issues)
			}
		})
	}
}
