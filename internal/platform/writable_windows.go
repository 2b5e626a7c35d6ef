//go:build windows

package platform

import "os"

// IsWritable reports whether the current user may create entries in dir.
func IsWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".devstrap-write-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
