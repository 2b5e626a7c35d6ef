package doctor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/devstrap-labs/devstrap/internal/config"
	"github.com/devstrap-labs/devstrap/internal/linker"
	"github.com/devstrap-labs/devstrap/internal/paths"
	"github.com/devstrap-labs/devstrap/internal/repo"
	"golang.org/x/sync/errgroup"
)

// MinGitVersion is the oldest git release setup is tested against.
const MinGitVersion = ">= 2.20.0"

// ErrChecksFailed is returned when at least one check failed.
var ErrChecksFailed = errors.New("one or more checks failed")

// Status is the outcome of one check.
type Status string

const (
	StatusOK   Status = " OK "
	StatusMiss Status = "MISS"
	StatusFail Status = "FAIL"
)

// Check is one line of the doctor report.
type Check struct {
	Name   string
	Status Status
	Detail string
}

// Options selects what to inspect. Empty paths fall back to the configured
// default locations.
type Options struct {
	Settings      *config.Settings
	ConfigFile    string // devstrap's own config file to validate
	FrameworkPath string
	ExtensionPath string
}

// Run performs all checks, prints them to w and returns them. It returns
// ErrChecksFailed if any check has StatusFail.
func Run(ctx context.Context, w io.Writer, opts Options) ([]Check, error) {
	// The checks are independent; each group writes only its own slot so
	// the report order is fixed.
	groups := make([][]Check, 4)
	var g errgroup.Group
	g.Go(func() error { groups[0] = []Check{checkGit(ctx)}; return nil })
	g.Go(func() error { groups[1] = []Check{checkTool(opts.Settings.Build.Tool)}; return nil })
	g.Go(func() error { groups[2] = []Check{checkConfig(opts.ConfigFile)}; return nil })
	g.Go(func() error { groups[3] = checkInstallation(opts); return nil })
	_ = g.Wait()

	var checks []Check
	for _, group := range groups {
		checks = append(checks, group...)
	}

	failed := false
	for _, c := range checks {
		fmt.Fprintf(w, "  [%s] %s: %s\n", c.Status, c.Name, c.Detail)
		if c.Status == StatusFail {
			failed = true
		}
	}
	if failed {
		return checks, ErrChecksFailed
	}
	return checks, nil
}

// ParseGitVersion extracts a semantic version from `git --version` output
// such as "2.39.2", "2.39.2 (Apple Git-143)" or "2.39.2.windows.1".
func ParseGitVersion(s string) (*semver.Version, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "git version"))
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty git version")
	}
	parts := strings.Split(fields[0], ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return semver.NewVersion(strings.Join(parts, "."))
}

func checkGit(ctx context.Context) Check {
	raw, err := repo.Version(ctx)
	if err != nil {
		return Check{Name: "git", Status: StatusFail, Detail: err.Error()}
	}
	v, err := ParseGitVersion(raw)
	if err != nil {
		return Check{Name: "git", Status: StatusFail, Detail: fmt.Sprintf("unrecognised version %q: %v", raw, err)}
	}
	constraint, err := semver.NewConstraint(MinGitVersion)
	if err != nil {
		return Check{Name: "git", Status: StatusFail, Detail: err.Error()}
	}
	if !constraint.Check(v) {
		return Check{Name: "git", Status: StatusFail, Detail: fmt.Sprintf("version %s does not satisfy %s", v, MinGitVersion)}
	}
	return Check{Name: "git", Status: StatusOK, Detail: "version " + v.String()}
}

func checkTool(tool string) Check {
	path, err := exec.LookPath(tool)
	if err != nil {
		return Check{Name: "build tool", Status: StatusFail, Detail: fmt.Sprintf("%s not found in PATH", tool)}
	}
	return Check{Name: "build tool", Status: StatusOK, Detail: path}
}

func checkConfig(path string) Check {
	if path == "" {
		return Check{Name: "config", Status: StatusMiss, Detail: "no config file given"}
	}
	issues, err := config.ValidateFile(path)
	if err != nil {
		return Check{Name: "config", Status: StatusFail, Detail: err.Error()}
	}
	if len(issues) > 0 {
		details := make([]string, len(issues))
		for i, issue := range issues {
			details[i] = issue.String()
		}
		return Check{Name: "config", Status: StatusFail, Detail: strings.Join(details, "; ")}
	}
	return Check{Name: "config", Status: StatusOK, Detail: path}
}

func checkInstallation(opts Options) []Check {
	s := opts.Settings
	fw := opts.FrameworkPath
	if fw == "" {
		root, err := paths.Expand(s.Framework.DefaultRoot)
		if err != nil {
			return []Check{{Name: "framework", Status: StatusFail, Detail: err.Error()}}
		}
		fw = filepath.Join(root, s.Framework.DirName)
	}
	ext := opts.ExtensionPath
	if ext == "" {
		ext = filepath.Join(filepath.Dir(fw), s.Extension.Name)
	}

	var checks []Check
	if !paths.IsInstalled(fw) {
		return append(checks, Check{Name: "framework", Status: StatusMiss, Detail: fw + " is not a git checkout"})
	}
	checks = append(checks, Check{Name: "framework", Status: StatusOK, Detail: fw})

	if !paths.IsInstalled(ext) {
		return append(checks, Check{Name: "extension", Status: StatusMiss, Detail: ext + " is not a git checkout"})
	}
	checks = append(checks, Check{Name: "extension", Status: StatusOK, Detail: ext})

	link := linker.LinkPath(fw, s.Framework.PluginDir, s.Extension.Name)
	if err := linker.CheckLink(link, ext); err != nil {
		checks = append(checks, Check{Name: "plugin link", Status: StatusFail, Detail: err.Error()})
	} else {
		checks = append(checks, Check{Name: "plugin link", Status: StatusOK, Detail: link})
	}

	rc, err := paths.Expand(s.Framework.ConfigFile)
	if err != nil {
		return append(checks, Check{Name: "registration", Status: StatusFail, Detail: err.Error()})
	}
	registry := linker.Registry{Path: rc, Key: s.Framework.ConfigKey, Separator: s.Framework.ConfigSep}
	ok, err := registry.IsRegistered(ext)
	switch {
	case err != nil:
		checks = append(checks, Check{Name: "registration", Status: StatusFail, Detail: err.Error()})
	case !ok:
		checks = append(checks, Check{Name: "registration", Status: StatusFail, Detail: fmt.Sprintf("%s does not list %s under %s", rc, ext, s.Framework.ConfigKey)})
	default:
		checks = append(checks, Check{Name: "registration", Status: StatusOK, Detail: rc})
	}
	return checks
}
