package linker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/devstrap-labs/devstrap/internal/platform"
)

// ErrLinkConflict is returned when something other than a link to the
// extension already occupies the link path.
var ErrLinkConflict = errors.New("link path is occupied")

// LinkPath returns where the extension link lives inside the framework.
func LinkPath(frameworkPath, pluginDir, name string) string {
	return filepath.Join(frameworkPath, pluginDir, name)
}

// Link creates <framework>/<pluginDir>/<name> pointing at extensionPath and
// returns the link path. The plugin directory is created if needed. A link
// that already points at the extension is kept; a link whose target no longer
// exists is replaced.
func Link(extensionPath, frameworkPath, pluginDir, name string) (string, error) {
	if _, err := os.Stat(extensionPath); err != nil {
		return "", fmt.Errorf("extension path: %w", err)
	}

	link := LinkPath(frameworkPath, pluginDir, name)
	if err := os.MkdirAll(filepath.Dir(link), 0755); err != nil {
		return "", fmt.Errorf("creating plugin directory: %w", err)
	}

	err := platform.CreateSymlink(extensionPath, link)
	if errors.Is(err, os.ErrExist) && dangling(link) {
		if err := platform.RemoveSymlink(link); err != nil {
			return "", fmt.Errorf("removing stale link: %w", err)
		}
		err = platform.CreateSymlink(extensionPath, link)
	}
	if err != nil {
		if errors.Is(err, os.ErrExist) || errors.Is(err, platform.ErrNotSymlink) {
			return "", fmt.Errorf("%w: %v", ErrLinkConflict, err)
		}
		return "", err
	}
	return link, nil
}

// dangling reports whether link is a symlink to a path that does not exist.
func dangling(link string) bool {
	target, err := platform.ReadSymlinkTarget(link)
	if err != nil {
		return false
	}
	_, err = os.Stat(target)
	return os.IsNotExist(err)
}

// CheckLink verifies that link is a symlink resolving to extensionPath.
func CheckLink(link, extensionPath string) error {
	ok, err := platform.PointsTo(link, extensionPath)
	if err != nil {
		return fmt.Errorf("reading link %s: %w", link, err)
	}
	if !ok {
		target, _ := platform.ReadSymlinkTarget(link)
		return fmt.Errorf("%s points to %s, not %s", link, target, extensionPath)
	}
	return nil
}
