package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/devstrap-labs/devstrap/internal/branding"
	"github.com/devstrap-labs/devstrap/internal/config"
	"github.com/devstrap-labs/devstrap/internal/prompt"
	"github.com/devstrap-labs/devstrap/internal/setup"
	"github.com/devstrap-labs/devstrap/internal/ui"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	setupBranch    string
	setupStrict    bool
	setupSkipTests bool
)

func init() {
	rootCmd.Flags().StringVar(&setupBranch, "branch", "", "Check out this branch in both repositories without asking")
	rootCmd.Flags().BoolVar(&setupStrict, "strict", false, "Exit non-zero when the tests fail")
	rootCmd.Flags().BoolVar(&setupSkipTests, "skip-tests", false, "Stop after the build step")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` clones the ` + branding.FrameworkName() + ` framework and the ` + branding.ExtensionName() + ` extension,
checks out a common branch in both, links the extension into the framework's
plugin directory, registers it in the framework configuration file, then builds
and tests it.

Run without arguments for an interactive setup. Defaults come from
~/` + branding.HomeDir() + `/config.yaml and ` + branding.EnvPrefix() + `_* environment variables.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	if err := config.Load(); err != nil {
		return err
	}
	out := ui.Stderr()

	report, err := setup.Run(cmd.Context(), setup.Options{
		Settings:  config.Current(),
		Prompter:  prompt.New(os.Stdin, os.Stderr),
		Out:       out,
		Branch:    setupBranch,
		Strict:    setupStrict,
		SkipTests: setupSkipTests,
	})
	if err != nil {
		return err
	}
	printSummary(out, report)
	return nil
}

func printSummary(out *ui.Printer, r *setup.Report) {
	out.Info("framework:  %s", r.FrameworkPath)
	out.Info("extension:  %s (branch %s)", r.ExtensionPath, r.Branch)
	out.Info("plugin:     %s", r.LinkPath)
	out.Info("registered: %s", r.ConfigFile)
	out.Info("build log:  %s", r.BuildLog)
	switch {
	case !r.TestsRun:
		out.Warn("tests were not run")
	case r.TestsPassed:
		out.OK("setup complete")
	default:
		out.Warn("setup complete, but tests failed; see %s", r.TestLog)
	}
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportError(ui.Stderr(), err)
	}
	return err
}

func reportError(out *ui.Printer, err error) {
	var stepErr *setup.StepError
	switch {
	case errors.Is(err, prompt.ErrAborted):
		out.Warn("setup aborted")
	case errors.Is(err, context.Canceled):
		out.Warn("interrupted")
	case errors.As(err, &stepErr) && stepErr.LogPath != "":
		out.Fail("%s step failed: %v", stepErr.Step, stepErr.Err)
		out.Fail("see %s", stepErr.LogPath)
	default:
		out.Fail("%v", err)
	}
}
