package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/devstrap-labs/devstrap/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Config keys.
const (
	KeyFrameworkRepo        = "framework.repo"
	KeyFrameworkDirName     = "framework.dir_name"
	KeyFrameworkDefaultRoot = "framework.default_root"
	KeyFrameworkPluginDir   = "framework.plugin_dir"
	KeyFrameworkToolsDir    = "framework.tools_dir"
	KeyFrameworkConfigFile  = "framework.config_file"
	KeyFrameworkConfigKey   = "framework.config_key"
	KeyFrameworkConfigSep   = "framework.config_separator"
	KeyExtensionRepo        = "extension.repo"
	KeyExtensionName        = "extension.name"
	KeyBuildTool            = "build.tool"
	KeyBuildArgs            = "build.args"
	KeyBuildTestArgs        = "build.test_args"
	KeyBuildEnvVar          = "build.env_var"
	KeyPromptMaxAttempts    = "prompt.max_attempts"
)

// listKeys hold whitespace-separated argument lists when set from the CLI.
var listKeys = map[string]bool{
	KeyBuildArgs:     true,
	KeyBuildTestArgs: true,
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		KeyFrameworkRepo:        branding.FrameworkRepoURL(),
		KeyFrameworkDirName:     branding.FrameworkName(),
		KeyFrameworkDefaultRoot: "~",
		KeyFrameworkPluginDir:   "plugins",
		KeyFrameworkToolsDir:    "tools",
		KeyFrameworkConfigFile:  "~/." + branding.FrameworkName() + "rc",
		KeyFrameworkConfigKey:   "DEFAULT_PROJECTDIRS",
		KeyFrameworkConfigSep:   string(os.PathListSeparator),
		KeyExtensionRepo:        branding.ExtensionRepoURL(),
		KeyExtensionName:        branding.ExtensionName(),
		KeyBuildTool:            "make",
		KeyBuildArgs:            []string{},
		KeyBuildTestArgs:        []string{"test"},
		KeyBuildEnvVar:          "FRAMEWORK_TOOLS",
		KeyPromptMaxAttempts:    5,
	}
}

// Keys returns all known config keys in sorted order.
func Keys() []string {
	d := defaults()
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKnownKey reports whether key is a recognised config key.
func IsKnownKey(key string) bool {
	_, ok := defaults()[key]
	return ok
}

// Dir returns the path to the devstrap config directory (~/.devstrap/).
// DEVSTRAP_HOME overrides it.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.devstrap/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper with defaults, the config file and the environment.
// A missing config file is not an error; a file that violates the schema is.
func Load() error {
	viper.Reset()
	for k, v := range defaults() {
		viper.SetDefault(k, v)
	}
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	issues, err := ValidateFile(FilePath())
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		return &InvalidError{File: FilePath(), Issues: issues}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(FilePath()); os.IsNotExist(statErr) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}

// Get returns a config value by key. List values are joined with spaces.
func Get(key string) string {
	if listKeys[key] {
		return strings.Join(viper.GetStringSlice(key), " ")
	}
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	switch {
	case listKeys[key]:
		viper.Set(key, strings.Fields(value))
	case key == KeyPromptMaxAttempts:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive integer, got %q", key, value)
		}
		viper.Set(key, n)
	case key == KeyFrameworkConfigSep:
		if utf8.RuneCountInString(value) != 1 {
			return fmt.Errorf("%s must be a single character, got %q", key, value)
		}
		viper.Set(key, value)
	default:
		viper.Set(key, value)
	}

	configFile := FilePath()
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
