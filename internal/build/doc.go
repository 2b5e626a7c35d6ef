// Package build runs the extension's build and test commands. Output from a
// run is written to a log file rather than the terminal; the caller decides
// what a non-zero exit status means. A run stopped because its context ended
// is reported as an error instead.
package build
