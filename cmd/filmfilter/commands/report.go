package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/filmfilter/filmfilter/internal/aggregate"
	"github.com/filmfilter/filmfilter/internal/observability"
	"github.com/filmfilter/filmfilter/internal/pipeline"
)

// topGenreSummaryCount caps the dataset summary's genre listing.
const topGenreSummaryCount = 5

// NewReportCommand creates the report subcommand.
func NewReportCommand() *cobra.Command {
	var (
		df      datasetFlags
		ff      filterFlags
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print projection tables to the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			}

			a, err := newApp(cmd, observability.ModeCLI, &df, &ff)
			if err != nil {
				return err
			}

			defer a.close(cmd.Context())

			sel := ff.selection(cmd, a.cfg)

			proj, err := a.pipe.Run(sel)
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), a, sel, proj)

			return nil
		},
	}

	addDatasetFlags(cmd, &df)
	addFilterFlags(cmd, &ff)
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}

func printReport(w io.Writer, a *app, sel pipeline.Selection, proj *pipeline.Projections) {
	heading := color.New(color.FgHiYellow, color.Bold)
	muted := color.New(color.FgCyan)

	heading.Fprintln(w, "Dataset")
	fmt.Fprintf(w, "  titles: %s  ratings: %s  tags: %s\n",
		humanize.Comma(int64(a.stats.Titles)),
		humanize.Comma(int64(a.stats.Ratings)),
		humanize.Comma(int64(a.stats.Tags)))

	if a.stats.Skipped() > 0 {
		muted.Fprintf(w, "  skipped malformed rows: %d (titles %d, ratings %d, tags %d)\n",
			a.stats.Skipped(), a.stats.SkippedTitles, a.stats.SkippedRatings, a.stats.SkippedTags)
	}

	if len(a.genres) > 0 {
		muted.Fprintf(w, "  top genres: %s\n", genreSummary(a.genres, topGenreSummaryCount))
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "Selection")
	fmt.Fprintf(w, "  genres: %v  years: %d-%d  scores: %.1f-%.1f\n\n",
		sel.Genres, sel.YearMin, sel.YearMax, sel.ScoreMin, sel.ScoreMax)

	heading.Fprintln(w, "Genre Popularity")
	printGenreTable(w, proj)
	fmt.Fprintln(w)

	heading.Fprintln(w, "Rating Trend")
	printTrendTable(w, proj)
	fmt.Fprintln(w)

	heading.Fprintln(w, "Top Titles")
	printTopTitlesTable(w, proj)
	fmt.Fprintln(w)

	heading.Fprintln(w, "Tag Frequency")
	printTagTable(w, proj)
}

// genreSummary renders the most common genres across the whole dataset as a
// single line, e.g. "Drama (1,234), Comedy (987)".
func genreSummary(genres []aggregate.GenreCount, limit int) string {
	if len(genres) > limit {
		genres = genres[:limit]
	}

	parts := make([]string, len(genres))
	for i, g := range genres {
		parts[i] = fmt.Sprintf("%s (%s)", g.Genre, humanize.Comma(g.Count))
	}

	return strings.Join(parts, ", ")
}

func newTable(w io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false

	return tbl
}

func printGenreTable(w io.Writer, proj *pipeline.Projections) {
	if len(proj.GenrePopularity) == 0 {
		fmt.Fprintln(w, "  (no matching titles)")

		return
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Genre", "Titles"})

	for _, g := range proj.GenrePopularity {
		tbl.AppendRow(table.Row{g.Genre, humanize.Comma(g.Count)})
	}

	tbl.Render()
}

func printTrendTable(w io.Writer, proj *pipeline.Projections) {
	if len(proj.RatingTrend) == 0 {
		fmt.Fprintln(w, "  (no rated titles)")

		return
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Year", "Avg Score", "Ratings"})

	for _, row := range proj.RatingTrend {
		tbl.AppendRow(table.Row{row.Year, fmt.Sprintf("%.2f", row.AvgScore), humanize.Comma(row.Count)})
	}

	tbl.Render()
}

func printTopTitlesTable(w io.Writer, proj *pipeline.Projections) {
	if len(proj.TopTitles) == 0 {
		fmt.Fprintln(w, "  (no titles inside the score bound)")

		return
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"#", "Title", "Year", "Avg", "Ratings", "Std"})

	for i, t := range proj.TopTitles {
		year := "?"
		if t.YearKnown {
			year = fmt.Sprintf("%d", t.Year)
		}

		tbl.AppendRow(table.Row{
			i + 1,
			t.Name,
			year,
			fmt.Sprintf("%.2f", t.AvgScore),
			humanize.Comma(t.RatingCount),
			fmt.Sprintf("%.2f", t.ScoreStdDev),
		})
	}

	tbl.Render()
}

func printTagTable(w io.Writer, proj *pipeline.Projections) {
	if len(proj.TagFrequency) == 0 {
		fmt.Fprintln(w, "  (no tags for matched titles)")

		return
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Tag", "Count"})

	for _, tc := range proj.TagFrequency {
		tbl.AppendRow(table.Row{tc.Tag, humanize.Comma(tc.Count)})
	}

	tbl.Render()
}
