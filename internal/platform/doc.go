// Package platform provides the filesystem primitives setup relies on:
// directory symlinks that tolerate an existing identical link, symlink
// inspection, and a writability check that asks the kernel (access(2))
// on Unix and tries a temporary file on Windows.
package platform
