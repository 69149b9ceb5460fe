package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/storynode/player/internal/player"
)

// request is one line read from stdin in --stdio mode
type request struct {
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args,omitempty"`
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var stdio bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Resolve the startup configuration and serve UI commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withExitCode(runPlayer(cmd, ctx, stdio))
		},
	}
	cmd.Flags().BoolVar(&stdio, "stdio", false, "Serve JSON-line commands on stdin/stdout")
	return cmd
}

func runPlayer(cmd *cobra.Command, ctx *commandContext, stdio bool) error {
	result := ctx.player.Startup()

	out := cmd.OutOrStdout()
	if !stdio {
		player.Apply(&consoleWindow{out: out}, result.Settings, ctx.logger)
		fmt.Fprintf(out, "State:    %s\n", result.State)
		fmt.Fprintf(out, "Fallback: %s\n", result.Fallback)
		if result.DataDir != "" {
			fmt.Fprintf(out, "Data:     %s\n", result.DataDir)
		}
		return nil
	}

	// The UI side owns the window here; it reads geometry via get_game_settings
	router := player.NewRouter()
	player.RegisterCommands(router, ctx.player, result)
	ctx.logger.Info("📡 Serving commands", "commands", router.Names())
	return serve(cmd.InOrStdin(), out, router)
}

// serve answers one JSON request per input line until EOF
func serve(in io.Reader, out io.Writer, router *player.Router) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	enc := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		var resp player.Response
		if err := json.Unmarshal(line, &req); err != nil {
			resp = player.Response{Error: fmt.Sprintf("invalid request: %v", err)}
		} else {
			resp = router.Invoke(req.Cmd, req.Args)
		}

		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	return nil
}
