// Package linker makes an extension visible to the framework. Link places a
// symlink to the extension checkout inside the framework's plugin directory;
// Register records the extension under a key in the framework's KEY=VALUE
// configuration file, touching the file only when the entry is missing.
package linker
