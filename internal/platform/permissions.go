package platform

import (
	"os"
	"runtime"
)

// SetMode applies mode to path. Windows has no Unix permission bits, so it
// does nothing there.
func SetMode(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}
