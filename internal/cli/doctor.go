package cli

import (
	"errors"
	"fmt"

	"github.com/devstrap-labs/devstrap/internal/config"
	"github.com/devstrap-labs/devstrap/internal/doctor"
	"github.com/devstrap-labs/devstrap/internal/paths"
	"github.com/spf13/cobra"
)

var (
	doctorFramework string
	doctorExtension string
)

func init() {
	doctorCmd.Flags().StringVar(&doctorFramework, "framework", "", "Framework checkout to inspect (default: configured location)")
	doctorCmd.Flags().StringVar(&doctorExtension, "extension", "", "Extension checkout to inspect (default: next to the framework)")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check prerequisites and an existing installation",
	Long: `Verify that git and the build tool are available, that the config file
is valid, and that an existing installation is linked and registered.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// An invalid config file is reported as a check rather than aborting.
		if err := config.Load(); err != nil {
			var invalid *config.InvalidError
			if !errors.As(err, &invalid) {
				return err
			}
		}

		opts := doctor.Options{
			Settings:   config.Current(),
			ConfigFile: config.FilePath(),
		}
		var err error
		if doctorFramework != "" {
			if opts.FrameworkPath, err = paths.Expand(doctorFramework); err != nil {
				return err
			}
		}
		if doctorExtension != "" {
			if opts.ExtensionPath, err = paths.Expand(doctorExtension); err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Environment check:")
		_, err = doctor.Run(cmd.Context(), cmd.OutOrStdout(), opts)
		return err
	},
}
