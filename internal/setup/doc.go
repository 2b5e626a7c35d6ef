// Package setup runs the bootstrap sequence once, top to bottom: place the
// framework (reusing an existing checkout at the default location when the
// user agrees), clone the extension, check out one branch in both, link and
// register the extension, then build and test it.
//
// Failures up to and including the build abort the run with a *StepError.
// A failing test run is reported but does not fail Run unless Strict is set.
package setup
