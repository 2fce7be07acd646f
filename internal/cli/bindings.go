package cli

import (
	"github.com/spf13/cobra"

	"github.com/vppkit/sdkbuild/internal/bindings"
	"github.com/vppkit/sdkbuild/internal/config"
	"github.com/vppkit/sdkbuild/internal/pipeline"
)

func newBindingsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "bindings",
		Short: "generate source bindings for every discovered API version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// argument validation already passed; from here on a failure is
			// a pipeline error, not a usage mistake
			cmd.SilenceUsage = true

			cfg, err := config.Load(flags.config)
			if err != nil {
				return err
			}

			driver := bindings.NewDriver(cfg.Bindings, nil)
			pipe := pipeline.New(pipeline.WithJobs(flags.jobs))

			return driver.Run(cmd.Context(), pipe)
		},
	}
}
