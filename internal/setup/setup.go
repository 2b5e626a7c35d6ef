package setup

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/devstrap-labs/devstrap/internal/branch"
	"github.com/devstrap-labs/devstrap/internal/build"
	"github.com/devstrap-labs/devstrap/internal/config"
	"github.com/devstrap-labs/devstrap/internal/linker"
	"github.com/devstrap-labs/devstrap/internal/paths"
	"github.com/devstrap-labs/devstrap/internal/prompt"
	"github.com/devstrap-labs/devstrap/internal/repo"
	"github.com/devstrap-labs/devstrap/internal/ui"
)

// Options configures a setup run.
type Options struct {
	Settings *config.Settings
	Prompter prompt.Prompter
	Out      *ui.Printer

	Branch    string // use this branch without asking
	Strict    bool   // a failing test run fails the whole run
	SkipTests bool
}

// Report summarises a completed run.
type Report struct {
	FrameworkPath   string
	FrameworkCloned bool
	ExtensionPath   string
	Branch          string
	LinkPath        string
	ConfigFile      string
	Registration    linker.Registration
	BuildLog        string
	TestLog         string
	TestsRun        bool
	TestsPassed     bool
}

type runner struct {
	opts  Options
	s     *config.Settings
	out   *ui.Printer
	step  int
	total int
}

func (r *runner) next(title string) {
	r.step++
	r.out.Step(r.step, r.total, title)
}

// Run executes the setup sequence.
func Run(ctx context.Context, opts Options) (*Report, error) {
	r := &runner{opts: opts, s: opts.Settings, out: opts.Out, total: 6}
	if opts.SkipTests {
		r.total = 5
	}
	report := &Report{}

	if err := repo.EnsureGit(); err != nil {
		return report, err
	}

	r.next("Framework")
	if err := r.framework(ctx, report); err != nil {
		return report, err
	}

	r.next("Extension")
	if err := r.extension(ctx, report); err != nil {
		return report, err
	}

	r.next("Branch")
	if err := r.branch(ctx, report); err != nil {
		return report, err
	}

	r.next("Link and register")
	if err := r.link(report); err != nil {
		return report, err
	}

	r.next("Build")
	if err := r.build(ctx, report); err != nil {
		return report, err
	}

	if opts.SkipTests {
		r.out.Info("skipping tests")
		return report, nil
	}

	r.next("Test")
	return report, r.test(ctx, report)
}

func (r *runner) resolver() *paths.Resolver {
	return &paths.Resolver{Prompter: r.opts.Prompter, Out: r.out, MaxAttempts: r.s.MaxAttempts}
}

func (r *runner) framework(ctx context.Context, report *Report) error {
	defaultRoot, err := paths.Expand(r.s.Framework.DefaultRoot)
	if err != nil {
		return &StepError{Step: StepFramework, Target: r.s.Framework.DefaultRoot, Err: err}
	}
	defaultPath := filepath.Join(defaultRoot, r.s.Framework.DirName)

	if paths.IsInstalled(defaultPath) {
		r.out.Info("found framework at %s", defaultPath)
		custom, err := r.opts.Prompter.Confirm("Install the framework to a custom path instead?", false)
		if err != nil {
			return &StepError{Step: StepFramework, Target: defaultPath, Err: err}
		}
		if !custom {
			report.FrameworkPath = defaultPath
			r.out.OK("using existing framework at %s", defaultPath)
			return nil
		}
	}

	target, err := r.resolver().Resolve("framework", defaultRoot, r.s.Framework.DirName)
	if err != nil {
		return &StepError{Step: StepFramework, Target: defaultRoot, Err: err}
	}

	r.out.Info("cloning %s into %s", r.s.Framework.Repo, target)
	if err := repo.Clone(ctx, r.s.Framework.Repo, target); err != nil {
		return &StepError{Step: StepClone, Target: r.s.Framework.Repo, Err: err}
	}
	report.FrameworkPath = target
	report.FrameworkCloned = true
	r.out.OK("framework cloned to %s", target)
	return nil
}

func (r *runner) extension(ctx context.Context, report *Report) error {
	defaultRoot := filepath.Dir(report.FrameworkPath)
	target, err := r.resolver().Resolve("extension", defaultRoot, r.s.Extension.Name)
	if err != nil {
		return &StepError{Step: StepExtension, Target: defaultRoot, Err: err}
	}

	r.out.Info("cloning %s into %s", r.s.Extension.Repo, target)
	if err := repo.Clone(ctx, r.s.Extension.Repo, target); err != nil {
		return &StepError{Step: StepClone, Target: r.s.Extension.Repo, Err: err}
	}
	report.ExtensionPath = target
	r.out.OK("extension cloned to %s", target)
	return nil
}

func (r *runner) branch(ctx context.Context, report *Report) error {
	c := &branch.Coordinator{Prompter: r.opts.Prompter, Out: r.out, MaxAttempts: r.s.MaxAttempts}

	name, err := c.Select(ctx, r.opts.Branch, report.FrameworkPath, report.ExtensionPath)
	if err != nil {
		return &StepError{Step: StepCheckout, Target: report.FrameworkPath, Err: err}
	}
	if err := c.Apply(ctx, name, report.FrameworkPath, report.ExtensionPath); err != nil {
		return &StepError{Step: StepCheckout, Target: name, Err: err}
	}
	report.Branch = name
	return nil
}

func (r *runner) link(report *Report) error {
	fw := r.s.Framework
	link, err := linker.Link(report.ExtensionPath, report.FrameworkPath, fw.PluginDir, r.s.Extension.Name)
	if err != nil {
		return &StepError{Step: StepLink, Target: linker.LinkPath(report.FrameworkPath, fw.PluginDir, r.s.Extension.Name), Err: err}
	}
	report.LinkPath = link
	r.out.OK("linked %s -> %s", link, report.ExtensionPath)
	if err := repo.Exclude(report.FrameworkPath, "/"+filepath.ToSlash(filepath.Join(fw.PluginDir, r.s.Extension.Name))); err != nil {
		r.out.Warn("%v", err)
	}

	configFile, err := paths.Expand(fw.ConfigFile)
	if err != nil {
		return &StepError{Step: StepRegister, Target: fw.ConfigFile, Err: err}
	}
	registry := linker.Registry{Path: configFile, Key: fw.ConfigKey, Separator: fw.ConfigSep}
	reg, err := registry.Register(report.ExtensionPath)
	if err != nil {
		return &StepError{Step: StepRegister, Target: configFile, Err: err}
	}
	report.ConfigFile = configFile
	report.Registration = reg
	if reg == linker.AlreadyRegistered {
		r.out.OK("%s already lists %s", configFile, report.ExtensionPath)
	} else {
		r.out.OK("registered %s in %s (%s)", report.ExtensionPath, configFile, reg)
	}
	return nil
}

func (r *runner) job(name string, args []string, logName string, report *Report) build.Job {
	b := r.s.Build
	return build.Job{
		Name:    name,
		Dir:     report.ExtensionPath,
		Tool:    b.Tool,
		Args:    args,
		Env:     map[string]string{b.EnvVar: filepath.Join(report.FrameworkPath, r.s.Framework.ToolsDir)},
		LogPath: filepath.Join(report.ExtensionPath, logName),
	}
}

func (r *runner) build(ctx context.Context, report *Report) error {
	job := r.job("build", r.s.Build.Args, build.BuildLog, report)
	report.BuildLog = job.LogPath

	if err := repo.Exclude(report.ExtensionPath, "/"+build.BuildLog, "/"+build.TestLog); err != nil {
		r.out.Warn("%v", err)
	}
	r.out.Info("building with %s (log: %s)", job.Tool, job.LogPath)
	res, err := build.Run(ctx, job)
	if err != nil {
		return &StepError{Step: StepBuild, Target: job.Tool, LogPath: job.LogPath, Err: err}
	}
	if !res.OK() {
		return &StepError{Step: StepBuild, Target: job.Tool, LogPath: job.LogPath, Err: fmt.Errorf("exit status %d", res.ExitCode)}
	}
	r.out.OK("build succeeded in %s", res.Duration.Round(time.Millisecond))
	return nil
}

func (r *runner) test(ctx context.Context, report *Report) error {
	job := r.job("test", r.s.Build.TestArgs, build.TestLog, report)
	report.TestLog = job.LogPath
	report.TestsRun = true

	r.out.Info("running tests with %s (log: %s)", job.Tool, job.LogPath)
	res, err := build.Run(ctx, job)
	if err != nil {
		return &StepError{Step: StepTest, Target: job.Tool, LogPath: job.LogPath, Err: err}
	}

	if res.OK() {
		report.TestsPassed = true
		r.out.OK("tests passed; the extension is ready")
		return nil
	}

	r.out.Fail("tests failed with exit status %d; see %s", res.ExitCode, job.LogPath)
	if r.opts.Strict {
		return &StepError{Step: StepTest, Target: job.Tool, LogPath: job.LogPath, Err: fmt.Errorf("exit status %d", res.ExitCode)}
	}
	return nil
}
