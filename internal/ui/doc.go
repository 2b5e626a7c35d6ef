// Package ui writes user-facing diagnostics. Every line carries the same
// "[devstrap]" prefix so output can be told apart from git and build tool
// output interleaved on the terminal.
package ui
