package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/krisalay/compute-cache/page"
)

var (
	repeat          int
	invalidateAfter int

	cachedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	computedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	countCmd = &cobra.Command{
		Use:   "count",
		Short: "Count the files, using the cache for repeated lookups",
		Example: "compute-cache count --root ./core --repeat 3\n" +
			"compute-cache count --repeat 4 --invalidate-after 2",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.cache.Close()

			return runCount(cmd.Context(), a.page, cmd.OutOrStdout())
		},
	}
)

func runCount(ctx context.Context, p *page.FileCount, w io.Writer) error {
	if repeat < 1 {
		repeat = 1
	}
	for i := 1; i <= repeat; i++ {
		rep, err := p.Build(ctx)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, render(rep)); err != nil {
			return fmt.Errorf("unable to write to writer: %w", err)
		}

		if invalidateAfter > 0 && i == invalidateAfter {
			res, err := p.Clear(page.ClearRequest{Confirmed: true})
			if err != nil {
				return err
			}
			fmt.Fprintln(w, res.Message) //nolint:errcheck
		}
	}
	return nil
}

// render is Report.Message with a thousands separator and a coloured source.
func render(rep page.Report) string {
	style := computedStyle
	if rep.Hit {
		style = cachedStyle
	}
	return fmt.Sprintf("%s files exist in this installation; %s in %.2f ms. (Source: %s)",
		humanize.Comma(int64(rep.Count)), rep.Retrieval, rep.Millis(), style.Render(rep.Source))
}

func init() {
	countCmd.Flags().IntVarP(&repeat, "repeat", "n", 1, "number of lookups to run")
	countCmd.Flags().IntVar(&invalidateAfter, "invalidate-after", 0, "clear the cached count after this many lookups")
}
