package main

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/storynode/player/internal/player"
)

func newDataPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "data-path",
		Short: "Print the game data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.player.GameDataPath()
			if err != nil {
				return withExitCode(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Print the resolved startup configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := ctx.player.Startup()
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return withExitCode(enc.Encode(result))
		},
	}
}

func newInvokeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "invoke <command> [json-args]",
		Short: "Run one UI command and print its JSON response",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw json.RawMessage
			if len(args) == 2 {
				if !json.Valid([]byte(args[1])) {
					return &exitError{code: ExitInvalidArgs, err: fmt.Errorf("arguments are not valid JSON: %s", args[1])}
				}
				raw = json.RawMessage(args[1])
			}

			router := player.NewRouter()
			player.RegisterCommands(router, ctx.player, ctx.player.Startup())
			if !slices.Contains(router.Names(), args[0]) {
				return &exitError{code: ExitInvalidArgs, err: fmt.Errorf("unknown command: %s (available: %v)", args[0], router.Names())}
			}
			resp := router.Invoke(args[0], raw)

			if err := json.NewEncoder(cmd.OutOrStdout()).Encode(resp); err != nil {
				return withExitCode(err)
			}
			if !resp.OK {
				return &exitError{code: ExitIOError, err: fmt.Errorf("command %s failed: %s", args[0], resp.Error)}
			}
			return nil
		},
	}
}
