package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}
	var versionFlag bool

	rootCmd := &cobra.Command{
		Use:           "storynode-player",
		Short:         "Play a StoryNode project packaged into this executable",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if versionFlag {
				return nil
			}
			return ctx.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if versionFlag {
				fmt.Fprintf(cmd.OutOrStdout(), "storynode-player %s\nBuilt: %s\n", version, getBuildTimestamp())
				return nil
			}
			return withExitCode(runPlayer(cmd, ctx, false))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	flags.StringVar(&ctx.logLevelFlag, "log-level", "", "Log level (trace, debug, info, warn, error, json:<level>)")
	flags.StringVar(&ctx.workDirFlag, "work-dir", "", "Working directory for extracted game data")
	flags.StringVar(&ctx.exeFlag, "exe", "", "Inspect this packaged binary instead of the running executable")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newInfoCommand(ctx))
	rootCmd.AddCommand(newVerifyCommand(ctx))
	rootCmd.AddCommand(newExtractCommand(ctx))
	rootCmd.AddCommand(newDataPathCommand(ctx))
	rootCmd.AddCommand(newSettingsCommand(ctx))
	rootCmd.AddCommand(newInvokeCommand(ctx))

	return rootCmd
}
