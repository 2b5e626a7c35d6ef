package config

import "github.com/spf13/viper"

// Settings is a typed snapshot of the loaded configuration.
type Settings struct {
	Framework   FrameworkSettings
	Extension   ExtensionSettings
	Build       BuildSettings
	MaxAttempts int
}

// FrameworkSettings describes the host framework checkout.
type FrameworkSettings struct {
	Repo        string
	DirName     string
	DefaultRoot string
	PluginDir   string // relative to the framework root
	ToolsDir    string // relative to the framework root
	ConfigFile  string // registration file, may start with ~
	ConfigKey   string
	ConfigSep   string // separates entries listed under ConfigKey
}

// ExtensionSettings describes the extension checkout.
type ExtensionSettings struct {
	Repo string
	Name string
}

// BuildSettings describes how the extension is built and tested.
type BuildSettings struct {
	Tool     string
	Args     []string
	TestArgs []string
	EnvVar   string
}

// Current returns the settings from the most recent Load.
func Current() *Settings {
	maxAttempts := viper.GetInt(KeyPromptMaxAttempts)
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Settings{
		Framework: FrameworkSettings{
			Repo:        viper.GetString(KeyFrameworkRepo),
			DirName:     viper.GetString(KeyFrameworkDirName),
			DefaultRoot: viper.GetString(KeyFrameworkDefaultRoot),
			PluginDir:   viper.GetString(KeyFrameworkPluginDir),
			ToolsDir:    viper.GetString(KeyFrameworkToolsDir),
			ConfigFile:  viper.GetString(KeyFrameworkConfigFile),
			ConfigKey:   viper.GetString(KeyFrameworkConfigKey),
			ConfigSep:   viper.GetString(KeyFrameworkConfigSep),
		},
		Extension: ExtensionSettings{
			Repo: viper.GetString(KeyExtensionRepo),
			Name: viper.GetString(KeyExtensionName),
		},
		Build: BuildSettings{
			Tool:     viper.GetString(KeyBuildTool),
			Args:     viper.GetStringSlice(KeyBuildArgs),
			TestArgs: viper.GetStringSlice(KeyBuildTestArgs),
			EnvVar:   viper.GetString(KeyBuildEnvVar),
		},
		MaxAttempts: maxAttempts,
	}
}
