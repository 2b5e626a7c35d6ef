package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// excludePath returns the repository-local ignore file, which is never
// committed.
func excludePath(dir string) string {
	return filepath.Join(dir, ".git", "info", "exclude")
}

// Exclude adds patterns to dir's .git/info/exclude so files devstrap creates
// inside a checkout do not show up as untracked. Patterns already present are
// skipped.
func Exclude(dir string, patterns ...string) error {
	path := excludePath(dir)
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	present := make(map[string]bool)
	for _, l := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(l)] = true
	}

	var add strings.Builder
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		add.WriteString("\n")
	}
	n := 0
	for _, p := range patterns {
		if present[p] {
			continue
		}
		present[p] = true
		add.WriteString(p + "\n")
		n++
	}
	if n == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s for append: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(add.String()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
