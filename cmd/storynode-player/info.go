package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/storynode/player/pkg/snpk"
	"github.com/storynode/player/pkg/snpk/archive"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var showEntries bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the embedded archive of the executable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withExitCode(showInfo(cmd, ctx, showEntries))
		},
	}
	cmd.Flags().BoolVar(&showEntries, "entries", false, "List archive entries")
	return cmd
}

func showInfo(cmd *cobra.Command, ctx *commandContext, showEntries bool) error {
	reader := snpk.NewReaderWithLogger(ctx.exePath, ctx.logger)
	defer reader.Close()

	size, err := reader.Size()
	if err != nil {
		return err
	}
	trailer, err := reader.ReadTrailer()
	if err != nil {
		return err
	}
	start, end, err := reader.ArchiveRange()
	if err != nil {
		return err
	}
	data, err := reader.ReadArchive()
	if err != nil {
		return err
	}

	format := archive.FormatUnknown
	if codec, err := archive.Detect(data); err == nil {
		format = codec.Format()
	}
	entries, listErr := archive.List(data)

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	rows := [][]string{
		{"Executable", ctx.exePath},
		{"File size", strconv.FormatInt(size, 10)},
		{"Archive size", strconv.FormatUint(trailer.ArchiveSize, 10)},
		{"Archive range", fmt.Sprintf("[%d, %d)", start, end)},
		{"Format", format.String()},
		{"Work dir", ctx.workenv.Path()},
	}
	if listErr != nil {
		rows = append(rows, []string{"Entries", "unreadable: " + listErr.Error()})
	} else {
		rows = append(rows, []string{"Entries", strconv.Itoa(len(entries))})
	}
	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil, colorize))

	if showEntries && listErr == nil {
		entryRows := make([][]string, 0, len(entries))
		for _, e := range entries {
			entryRows = append(entryRows, []string{e.Name, e.Kind.String(), strconv.FormatInt(e.Size, 10)})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Name", "Kind", "Size"},
			entryRows,
			[]columnAlignment{alignLeft, alignLeft, alignRight},
			colorize,
		))
	}
	return nil
}
