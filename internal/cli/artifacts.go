package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vppkit/sdkbuild/internal/artifacts"
	"github.com/vppkit/sdkbuild/internal/config"
	"github.com/vppkit/sdkbuild/internal/pipeline"
)

func newArtifactsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "artifacts <release-version> <destination> <distro> <distro-version>",
		Short: "fetch the per-architecture packages and assemble the SDK layout",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := config.Load(flags.config)
			if err != nil {
				return err
			}

			asm, err := artifacts.NewAssembler(cfg.Artifacts)
			if err != nil {
				return err
			}

			req := artifacts.Request{
				Release:       args[0],
				Dest:          args[1],
				Distro:        args[2],
				DistroVersion: args[3],
			}

			pipe := pipeline.New(pipeline.WithJobs(flags.jobs))
			if err := asm.Run(cmd.Context(), pipe, req); err != nil {
				return err
			}

			layout := artifacts.NewLayout(req.Dest)
			fmt.Printf("core API definitions: %s\n", layout.CoreAPI())
			fmt.Printf("plugin API definitions: %s\n", layout.PluginAPI())
			fmt.Printf("client libraries: %s\n", layout.LibRoot())

			return nil
		},
	}
}
