// Package branding provides compile-time identity values for the CLI.
//
// Forks edit branding.yaml in this package to point the CLI at a different
// framework/extension pair; Go's //go:embed bakes it into the binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName          string `yaml:"cli_name"`
	DisplayName      string `yaml:"display_name"`
	Description      string `yaml:"description"`
	HomeDir          string `yaml:"home_dir"`
	EnvPrefix        string `yaml:"env_prefix"`
	FrameworkName    string `yaml:"framework_name"`
	FrameworkRepoURL string `yaml:"framework_repo_url"`
	ExtensionName    string `yaml:"extension_name"`
	ExtensionRepoURL string `yaml:"extension_repo_url"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or partial.
		defaults = brand{
			CLIName:          "devstrap",
			DisplayName:      "devstrap",
			Description:      "Bootstrap a framework and extension development environment",
			HomeDir:          ".devstrap",
			EnvPrefix:        "DEVSTRAP",
			FrameworkName:    "framework",
			FrameworkRepoURL: "https://github.com/simforge/framework.git",
			ExtensionName:    "extension",
			ExtensionRepoURL: "https://github.com/simforge/extension.git",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "devstrap").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".devstrap").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "DEVSTRAP").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// FrameworkName returns the default directory name of the framework checkout.
func FrameworkName() string { load(); return defaults.FrameworkName }

// FrameworkRepoURL returns the default git URL of the framework repository.
func FrameworkRepoURL() string { load(); return defaults.FrameworkRepoURL }

// ExtensionName returns the default directory name of the extension checkout.
// It is also the name of the link created in the framework's plugin directory.
func ExtensionName() string { load(); return defaults.ExtensionName }

// ExtensionRepoURL returns the default git URL of the extension repository.
func ExtensionRepoURL() string { load(); return defaults.ExtensionRepoURL }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("home") → "DEVSTRAP_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
