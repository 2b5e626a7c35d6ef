// Package cli defines the Cobra command tree for devstrap. The root command
// runs the interactive setup; doctor, config and version are registered as
// subcommands from their own files. Commands only parse flags and format
// output, the work happens in the internal packages.
package cli
