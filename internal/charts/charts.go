// Package charts turns pipeline projections into themed dashboard sections.
package charts

import (
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/filmfilter/filmfilter/internal/aggregate"
	"github.com/filmfilter/filmfilter/internal/alg/stats"
	"github.com/filmfilter/filmfilter/internal/dataset"
	"github.com/filmfilter/filmfilter/internal/pipeline"
	"github.com/filmfilter/filmfilter/internal/plotpage"
)

// Scatter symbol sizing. Symbol area tracks rating count, clamped so a
// single blockbuster cannot dwarf the plot.
const (
	symbolSizeMin = 8
	symbolSizeMax = 40
)

// Builder renders projection sections with a consistent theme.
type Builder struct {
	theme plotpage.Theme
	cOpts *plotpage.ChartOpts
}

// NewBuilder creates a section builder for the given theme.
func NewBuilder(theme plotpage.Theme) *Builder {
	return &Builder{
		theme: theme,
		cOpts: plotpage.NewChartOpts(theme),
	}
}

// DashboardPage assembles the full dashboard page: a summary strip followed
// by the four projection sections.
func (b *Builder) DashboardPage(title, description string, proj *pipeline.Projections, stats []plotpage.Stat) *plotpage.Page {
	page := plotpage.NewPage(title, description).WithTheme(b.theme)

	page.Add(
		b.SummarySection(stats),
		b.GenreSection(proj.GenrePopularity),
		b.TrendSection(proj.RatingTrend),
		b.TopTitlesSection(proj.TopTitles),
		b.TagSection(proj.TagFrequency),
	)

	return page
}

// SummarySection renders the headline figures for the current selection.
func (b *Builder) SummarySection(stats []plotpage.Stat) plotpage.Section {
	return plotpage.Section{
		Title: "Selection Summary",
		Extra: plotpage.StatGrid(stats),
	}
}

// GenreSection renders the genre-popularity bar chart. Bars arrive already
// ordered by count descending.
func (b *Builder) GenreSection(genres []aggregate.GenreCount) plotpage.Section {
	section := plotpage.Section{
		Title:    "Genre Popularity",
		Subtitle: "Matched titles per selected genre; a title carrying several genres counts once per genre.",
	}

	if len(genres) == 0 {
		section.Chart = plotpage.NewText("No titles match the current selection.")

		return section
	}

	labels := make([]string, len(genres))
	data := make([]plotpage.SeriesData, len(genres))

	for i, g := range genres {
		labels[i] = g.Genre
		data[i] = g.Count
	}

	palette := plotpage.GetChartPalette(b.theme)

	section.Chart = plotpage.WrapChart(plotpage.BuildBarChart(b.cOpts, labels, []plotpage.BarSeries{
		{Name: "Titles", Data: data, Color: palette.Primary[0]},
	}, "Titles"))

	return section
}

// TrendSection renders the average score per release year as a line chart.
func (b *Builder) TrendSection(trend []pipeline.YearAverage) plotpage.Section {
	section := plotpage.Section{
		Title:    "Rating Trend",
		Subtitle: "Average score of all ratings, grouped by the matched titles' release year.",
	}

	if len(trend) == 0 {
		section.Chart = plotpage.NewText("No rated titles match the current selection.")

		return section
	}

	labels := make([]string, len(trend))
	data := make([]plotpage.SeriesData, len(trend))

	for i, row := range trend {
		labels[i] = strconv.Itoa(row.Year)
		data[i] = round2(row.AvgScore)
	}

	section.Chart = plotpage.WrapChart(plotpage.BuildLineChart(b.cOpts, labels, []plotpage.LineSeries{
		{Name: "Avg Score", Data: data, Color: b.cOpts.AccentColor(), AreaOpacity: 0.15},
	}, "Avg Score"))

	return section
}

// TopTitlesSection renders the top titles as a year/score scatter, with the
// full ranked list as a table below. Titles without a parsable release year
// appear in the table only.
func (b *Builder) TopTitlesSection(titles []dataset.AggregatedTitle) plotpage.Section {
	section := plotpage.Section{
		Title:    "Top Titles",
		Subtitle: "Highest average scores within the score bound; symbol size tracks rating volume.",
	}

	if len(titles) == 0 {
		section.Chart = plotpage.NewText("No titles fall inside the score bound.")

		return section
	}

	var points []plotpage.ScatterPoint

	maxCount := int64(1)

	for _, t := range titles {
		if t.RatingCount > maxCount {
			maxCount = t.RatingCount
		}
	}

	for _, t := range titles {
		if !t.YearKnown {
			continue
		}

		points = append(points, plotpage.ScatterPoint{
			Name: t.Name,
			X:    t.Year,
			Y:    round2(t.AvgScore),
			Size: symbolSize(t.RatingCount, maxCount),
		})
	}

	if len(points) > 0 {
		palette := plotpage.GetChartPalette(b.theme)
		section.Chart = plotpage.WrapChart(plotpage.BuildScatterChart(b.cOpts, []plotpage.ScatterSeries{
			{Name: "Titles", Points: points, Color: palette.Primary[0]},
		}, "Release Year", "Avg Score"))
	}

	section.Extra = topTitlesTable(titles)

	return section
}

// TagSection renders the tag-frequency word cloud.
func (b *Builder) TagSection(tags []pipeline.TagCount) plotpage.Section {
	section := plotpage.Section{
		Title:    "Tag Frequency",
		Subtitle: "Most applied tags across the matched titles.",
	}

	if len(tags) == 0 {
		section.Chart = plotpage.NewText("No tags recorded for the matched titles.")

		return section
	}

	words := make([]plotpage.WordWeight, len(tags))
	for i, tc := range tags {
		words[i] = plotpage.WordWeight{Word: tc.Tag, Weight: int(tc.Count)}
	}

	section.Chart = plotpage.WrapChart(plotpage.BuildWordCloud(b.cOpts, "Tags", words))

	return section
}

func topTitlesTable(titles []dataset.AggregatedTitle) template.HTML {
	headers := []string{"#", "Title", "Year", "Avg Score", "Ratings", "Std Dev"}

	rows := make([][]template.HTML, len(titles))
	for i, t := range titles {
		year := "unknown"
		if t.YearKnown {
			year = strconv.Itoa(t.Year)
		}

		rows[i] = []template.HTML{
			template.HTML(strconv.Itoa(i + 1)),
			template.HTML(template.HTMLEscapeString(t.Name)),
			template.HTML(year),
			template.HTML(fmt.Sprintf("%.2f", t.AvgScore)),
			template.HTML(humanize.Comma(t.RatingCount)),
			template.HTML(fmt.Sprintf("%.2f", t.ScoreStdDev)),
		}
	}

	return plotpage.Table(headers, rows)
}

// DescribeSelection renders a human-readable filter summary, used as the
// dashboard page subtitle.
func DescribeSelection(sel pipeline.Selection) string {
	genres := "none"
	if len(sel.Genres) > 0 {
		genres = strings.Join(sel.Genres, ", ")
	}

	return fmt.Sprintf("Genres: %s · Years %d-%d · Scores %.1f-%.1f",
		genres, sel.YearMin, sel.YearMax, sel.ScoreMin, sel.ScoreMax)
}

// SummaryStats derives the headline figures shown above the charts.
func SummaryStats(sel pipeline.Selection, proj *pipeline.Projections) []plotpage.Stat {
	genreCounts := make([]int64, len(proj.GenrePopularity))
	for i, g := range proj.GenrePopularity {
		genreCounts[i] = g.Count
	}

	trendCounts := make([]int64, len(proj.RatingTrend))
	for i, row := range proj.RatingTrend {
		trendCounts[i] = row.Count
	}

	genreTotal := stats.Sum(genreCounts)
	ratingTotal := stats.Sum(trendCounts)

	return []plotpage.Stat{
		{Label: "Genres Selected", Value: strconv.Itoa(len(sel.Genres))},
		{Label: "Genre Matches", Value: strconv.FormatInt(genreTotal, 10), Note: "title-genre pairs"},
		{Label: "Ratings in Trend", Value: strconv.FormatInt(ratingTotal, 10)},
		{Label: "Top Titles", Value: strconv.Itoa(len(proj.TopTitles))},
	}
}

// symbolSize maps a rating count onto the symbol size range, linear in the
// share of the largest count.
func symbolSize(count, maxCount int64) int {
	if maxCount <= 0 {
		return symbolSizeMin
	}

	size := symbolSizeMin + int(float64(symbolSizeMax-symbolSizeMin)*float64(count)/float64(maxCount))

	return stats.Clamp(size, symbolSizeMin, symbolSizeMax)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
