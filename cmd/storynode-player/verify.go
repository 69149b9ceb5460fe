package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storynode/player/pkg/snpk"
	"github.com/storynode/player/pkg/snpk/archive"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that the embedded archive can be read end to end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := snpk.NewReaderWithLogger(ctx.exePath, ctx.logger)
			defer reader.Close()

			data, err := reader.ReadArchive()
			if err != nil {
				return withExitCode(err)
			}
			files, err := verifyArchive(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Archive OK: %d files, %d bytes\n", files, len(data))
			return nil
		},
	}
}

// verifyArchive reports any unreadable archive as a format error, whether
// detection or decompression fails
func verifyArchive(data []byte) (int, error) {
	files, err := archive.Verify(data)
	if err != nil {
		return files, &exitError{code: ExitFormatError, err: fmt.Errorf("verify archive: %w", err)}
	}
	return files, nil
}
