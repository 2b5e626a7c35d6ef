package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/devstrap-labs/devstrap/internal/branding"
	"github.com/spf13/cobra"
)

var versionOutput string

func init() {
	versionCmd.Flags().StringVarP(&versionOutput, "output", "o", "text", "Output format: text, short or json")
	rootCmd.AddCommand(versionCmd)
}

// buildInfo is what `version` reports, including the toolchain and the
// framework repository a default setup clones.
type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go"`
	Platform  string `json:"platform"`
	Framework string `json:"framework_repo"`
}

// currentBuild fills gaps left by a plain `go build` from the module's
// embedded VCS stamp.
func currentBuild() buildInfo {
	info := buildInfo{
		Version:   buildVersion,
		Commit:    buildCommit,
		Date:      buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Framework: branding.FrameworkRepoURL(),
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "" || info.Version == "dev" {
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			info.Version = v
		}
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && (info.Commit == "" || info.Commit == "none"):
			info.Commit = s.Value
		case s.Key == "vcs.time" && (info.Date == "" || info.Date == "unknown"):
			info.Date = s.Value
		}
	}
	return info
}

func (b buildInfo) writeText(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", branding.CLIName(), b.Version)
	fmt.Fprintf(w, "  commit:    %s\n", b.Commit)
	fmt.Fprintf(w, "  built:     %s\n", b.Date)
	fmt.Fprintf(w, "  go:        %s %s\n", b.GoVersion, b.Platform)
	fmt.Fprintf(w, "  framework: %s\n", b.Framework)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentBuild()
		w := cmd.OutOrStdout()

		switch versionOutput {
		case "short":
			fmt.Fprintln(w, info.Version)
		case "json":
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(info); err != nil {
				return fmt.Errorf("encoding version info: %w", err)
			}
		case "text":
			info.writeText(w)
		default:
			return fmt.Errorf("unknown output format %q (want text, short or json)", versionOutput)
		}
		return nil
	},
}
