// Package doctor checks that the tools setup depends on are present and
// reports the state of an existing installation: checkouts, plugin link and
// registration.
package doctor
