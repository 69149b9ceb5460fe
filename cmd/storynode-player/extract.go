package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storynode/player/internal/workenv"
	"github.com/storynode/player/pkg/snpk"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the embedded archive into the working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := snpk.NewReaderWithLogger(ctx.exePath, ctx.logger)
			defer reader.Close()

			data, err := reader.ReadArchive()
			if err != nil {
				return withExitCode(err)
			}

			target := ctx.workenv
			if to != "" {
				target = workenv.New(workenv.Options{
					Dir:                 to,
					LockTimeout:         ctx.config.LockTimeout(),
					DiskSpaceMultiplier: ctx.config.Player.DiskSpaceMultiplier,
				}, ctx.logger)
			}

			dir, err := target.Extract(data)
			if err != nil {
				return withExitCode(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Extract here instead of the working directory (replaced entirely)")
	return cmd
}
