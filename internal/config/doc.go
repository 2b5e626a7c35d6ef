// Package config manages user-level settings stored at ~/.devstrap/config.yaml.
// It provides the repository URLs, directory names, registration key and build
// commands used by setup, with defaults from the embedded branding and
// overrides from DEVSTRAP_* environment variables. The file is validated
// against an embedded JSON schema when loaded.
package config
