package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestExpand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/work", filepath.Join(home, "work")},
		{"/opt/sims/", "/opt/sims"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if runtime.GOOS == "windows" && tt.in == "/opt/sims/" {
				t.Skip("unix path")
			}
			got, err := Expand(tt.in)
			if err != nil {
				t.Fatalf("Expand(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if _, err := Expand("  "); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("expected ErrEmptyPath for blank input, got %v", err)
	}
}

func TestValidateRoot(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		root string
		want error
	}{
		{"valid", tmp, nil},
		{"missing", filepath.Join(tmp, "missing"), ErrRootMissing},
		{"file", file, ErrNotDirectory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoot(tt.root)
			if tt.want == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("ValidateRoot(%s) = %v, want %v", tt.root, err, tt.want)
			}
		})
	}
}

func TestValidateRootNotWritable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root bypasses directory permissions")
	}

	ro := filepath.Join(t.TempDir(), "ro")
	if err := os.Mkdir(ro, 0555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(ro, 0755) })

	if err := ValidateRoot(ro); !errors.Is(err, ErrNotWritable) {
		t.Errorf("expected ErrNotWritable, got %v", err)
	}
}

func TestValidateTarget(t *testing.T) {
	tmp := t.TempDir()

	got, err := ValidateTarget(tmp, "framework")
	if err != nil {
		t.Fatalf("ValidateTarget failed: %v", err)
	}
	if want := filepath.Join(tmp, "framework"); got != want {
		t.Errorf("ValidateTarget = %q, want %q", got, want)
	}

	if err := os.Mkdir(filepath.Join(tmp, "framework"), 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := ValidateTarget(tmp, "framework"); !errors.Is(err, ErrTargetExists) {
		t.Errorf("expected ErrTargetExists, got %v", err)
	}
}

func TestIsInstalled(t *testing.T) {
	tmp := t.TempDir()
	if IsInstalled(tmp) {
		t.Error("plain directory should not count as installed")
	}
	if err := os.Mkdir(filepath.Join(tmp, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	if !IsInstalled(tmp) {
		t.Error("directory with .git should count as installed")
	}
	if IsInstalled(filepath.Join(tmp, "missing")) {
		t.Error("missing directory should not count as installed")
	}
}
