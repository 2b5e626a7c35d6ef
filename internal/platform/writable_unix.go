//go:build !windows

package platform

import "golang.org/x/sys/unix"

// IsWritable reports whether the current user may create entries in dir.
func IsWritable(dir string) bool {
	return unix.Access(dir, unix.W_OK|unix.X_OK) == nil
}
