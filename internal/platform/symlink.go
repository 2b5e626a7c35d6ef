package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotSymlink is returned when a path exists but is not a symlink.
var ErrNotSymlink = errors.New("path exists and is not a symlink")

// CreateSymlink creates link pointing to target. If link already exists and
// points to target it is left alone. Any other existing entry at link is an
// error wrapping os.ErrExist or ErrNotSymlink.
func CreateSymlink(target, link string) error {
	info, err := os.Lstat(link)
	switch {
	case err == nil && info.Mode()&os.ModeSymlink == 0:
		return fmt.Errorf("%s: %w", link, ErrNotSymlink)
	case err == nil:
		same, err := PointsTo(link, target)
		if err != nil {
			return err
		}
		if same {
			return nil
		}
		existing, _ := os.Readlink(link)
		return fmt.Errorf("%s already links to %s: %w", link, existing, os.ErrExist)
	case !os.IsNotExist(err):
		return fmt.Errorf("inspecting %s: %w", link, err)
	}

	if err := os.Symlink(target, link); err != nil {
		return fmt.Errorf("creating symlink %s -> %s: %w", link, target, err)
	}
	return nil
}

// RemoveSymlink removes link if it is a symlink. A missing link is not an error.
func RemoveSymlink(link string) error {
	info, err := os.Lstat(link)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return fmt.Errorf("%s: %w", link, ErrNotSymlink)
	}
	return os.Remove(link)
}

// ReadSymlinkTarget returns the absolute target of a symlink. Relative
// targets are resolved against the link's directory.
func ReadSymlinkTarget(link string) (string, error) {
	target, err := os.Readlink(link)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(link), target)
	}
	return filepath.Clean(target), nil
}

// PointsTo reports whether link is a symlink whose target resolves to the
// same file as target.
func PointsTo(link, target string) (bool, error) {
	got, err := ReadSymlinkTarget(link)
	if err != nil {
		return false, err
	}
	if got == filepath.Clean(target) {
		return true, nil
	}

	gotInfo, err := os.Stat(got)
	if err != nil {
		return false, nil
	}
	wantInfo, err := os.Stat(target)
	if err != nil {
		return false, nil
	}
	return os.SameFile(gotInfo, wantInfo), nil
}
