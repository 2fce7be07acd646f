// Package cli wires the sdkbuild command tree: one subcommand per build
// stage, sharing the config override and parallelism flags.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/vppkit/sdkbuild/internal/domain"
)

// Execute runs the CLI and returns the process exit code.
// All fatal pipeline errors map to exit code 1, except a missing shared
// client library which gets its own code so downstream scripts can react
// to it specifically.
func Execute() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		return domain.ExitCode(err)
	}
	return 0
}

type rootFlags struct {
	config string
	jobs   int
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "sdkbuild",
		Short: "sdkbuild — build the client SDK from upstream API definitions and packages",
	}

	cmd.PersistentFlags().StringVar(&flags.config, "config", "", "optional yaml file overriding the built-in defaults")
	cmd.PersistentFlags().IntVar(&flags.jobs, "jobs", 1, "number of versions/architectures processed at the same time")

	cmd.AddCommand(
		newBindingsCmd(&flags),
		newArtifactsCmd(&flags),
	)

	return cmd
}
