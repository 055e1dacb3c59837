package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/pagesim/tracing"
)

func newSummaryCmd() *cobra.Command {
	var faults int

	cmd := &cobra.Command{
		Use:   "summary <database>",
		Short: "Print the runs recorded with --sqlite.",
		Long: `summary reads a database written by --sqlite and prints the ` +
			`counters of every run it holds. The database may be named with ` +
			`or without the .sqlite3 suffix.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if faults < 0 {
				return fmt.Errorf("%w: faults must not be negative, got %d",
					ErrUsage, faults)
			}

			cmd.SilenceUsage = true

			return showSummary(cmd.Context(), cmd.OutOrStdout(), args[0], faults)
		},
	}

	cmd.Flags().IntVar(&faults, "faults", 0,
		"also list the first n page faults")

	return cmd
}

func showSummary(
	ctx context.Context,
	out io.Writer,
	path string,
	faults int,
) error {
	if !strings.HasSuffix(path, ".sqlite3") {
		path += ".sqlite3"
	}

	reader, err := tracing.OpenDBReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	summaries, err := reader.Summaries(ctx)
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		return fmt.Errorf("%w: %s has no summary", tracing.ErrNoRecording, path)
	}

	for _, s := range summaries {
		fmt.Fprintf(out, "Simulation: %s\n", s.Simulation)
		tracing.PrintSummary(out, s.Policy, s.Stats())
	}

	if faults == 0 {
		return nil
	}

	records, total, err := reader.Translations(ctx,
		tracing.TranslationFilter{PageFaultsOnly: true, Limit: faults})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Page Faults Listed: %d of %d\n", len(records), total)

	for _, r := range records {
		fmt.Fprintf(out, "%d: 0x%08X page %d -> frame %d",
			r.Seq, r.VAddr, r.Page, r.Frame)

		if r.Evicted {
			fmt.Fprintf(out, ", evicted page %d", r.Victim)
		}

		fmt.Fprintln(out)
	}

	return nil
}
