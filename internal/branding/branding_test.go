package branding

import "testing"

func TestEmbeddedDefaults(t *testing.T) {
	if CLIName() != "devstrap" {
		t.Errorf("CLIName() = %q, want devstrap", CLIName())
	}
	if HomeDir() != ".devstrap" {
		t.Errorf("HomeDir() = %q, want .devstrap", HomeDir())
	}
	if FrameworkRepoURL() == "" || ExtensionRepoURL() == "" {
		t.Error("repository URLs must not be empty")
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("home"); got != "DEVSTRAP_HOME" {
		t.Errorf("EnvVar(home) = %q, want DEVSTRAP_HOME", got)
	}
}
