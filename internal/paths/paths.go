package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/devstrap-labs/devstrap/internal/platform"
)

var (
	ErrRootMissing  = errors.New("directory does not exist")
	ErrNotDirectory = errors.New("not a directory")
	ErrNotWritable  = errors.New("directory is not writable")
	ErrTargetExists = errors.New("target directory already exists")
	ErrEmptyPath    = errors.New("path is empty")
)

// Expand replaces a leading ~ with the user's home directory and returns an
// absolute, cleaned path.
func Expand(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", ErrEmptyPath
	}
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		p = filepath.Join(home, p[1:])
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", p, err)
	}
	return abs, nil
}

// ValidateRoot checks that root exists, is a directory and is writable.
func ValidateRoot(root string) error {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", root, ErrRootMissing)
	}
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}
	if !platform.IsWritable(root) {
		return fmt.Errorf("%s: %w", root, ErrNotWritable)
	}
	return nil
}

// ValidateTarget expands root, validates it and checks that root/name does
// not exist yet. It returns the absolute target path.
func ValidateTarget(root, name string) (string, error) {
	abs, err := Expand(root)
	if err != nil {
		return "", err
	}
	if err := ValidateRoot(abs); err != nil {
		return "", err
	}

	target := filepath.Join(abs, name)
	if _, err := os.Lstat(target); err == nil {
		return "", fmt.Errorf("%s: %w", target, ErrTargetExists)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspecting %s: %w", target, err)
	}
	return target, nil
}

// IsInstalled reports whether path holds a git checkout.
func IsInstalled(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	_, err = os.Stat(filepath.Join(path, ".git"))
	return err == nil
}
