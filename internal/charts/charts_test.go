package charts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmfilter/filmfilter/internal/aggregate"
	"github.com/filmfilter/filmfilter/internal/dataset"
	"github.com/filmfilter/filmfilter/internal/pipeline"
	"github.com/filmfilter/filmfilter/internal/plotpage"
)

func sampleProjections() *pipeline.Projections {
	return &pipeline.Projections{
		GenrePopularity: []aggregate.GenreCount{
			{Genre: "Action", Count: 3},
			{Genre: "Comedy", Count: 1},
		},
		RatingTrend: []pipeline.YearAverage{
			{Year: 2001, AvgScore: 4.25, Count: 10},
			{Year: 2002, AvgScore: 3.8, Count: 4},
		},
		TopTitles: []dataset.AggregatedTitle{
			{
				Title:       dataset.Title{ID: 1, Name: "Alpha (2001)", Year: 2001, YearKnown: true},
				AvgScore:    4.5,
				RatingCount: 12,
			},
			{
				Title:       dataset.Title{ID: 2, Name: "Epsilon"},
				AvgScore:    4.0,
				RatingCount: 3,
			},
		},
		TagFrequency: []pipeline.TagCount{
			{Tag: "classic", Count: 7},
			{Tag: "funny", Count: 2},
		},
	}
}

func renderSection(t *testing.T, section plotpage.Section) string {
	t.Helper()

	page := plotpage.NewPage("t", "")
	page.Add(section)

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))

	return buf.String()
}

func TestDashboardPage(t *testing.T) {
	t.Parallel()

	b := NewBuilder(plotpage.ThemeDark)
	proj := sampleProjections()

	page := b.DashboardPage("FilmFilter", "subtitle", proj, SummaryStats(pipeline.Selection{}, proj))

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "Selection Summary")
	assert.Contains(t, html, "Genre Popularity")
	assert.Contains(t, html, "Rating Trend")
	assert.Contains(t, html, "Top Titles")
	assert.Contains(t, html, "Tag Frequency")
}

func TestGenreSectionEmpty(t *testing.T) {
	t.Parallel()

	b := NewBuilder(plotpage.ThemeDark)
	html := renderSection(t, b.GenreSection(nil))

	assert.Contains(t, html, "No titles match")
}

func TestGenreSectionChart(t *testing.T) {
	t.Parallel()

	b := NewBuilder(plotpage.ThemeDark)
	html := renderSection(t, b.GenreSection(sampleProjections().GenrePopularity))

	assert.Contains(t, html, "Action")
	assert.Contains(t, html, "Comedy")
}

func TestTrendSectionChart(t *testing.T) {
	t.Parallel()

	b := NewBuilder(plotpage.ThemeDark)
	html := renderSection(t, b.TrendSection(sampleProjections().RatingTrend))

	assert.Contains(t, html, "2001")
	assert.Contains(t, html, "2002")
}

func TestTopTitlesSectionTableIncludesUnknownYear(t *testing.T) {
	t.Parallel()

	b := NewBuilder(plotpage.ThemeDark)
	html := renderSection(t, b.TopTitlesSection(sampleProjections().TopTitles))

	// Alpha is plotted and tabled; Epsilon has no year, table only.
	assert.Contains(t, html, "Alpha (2001)")
	assert.Contains(t, html, "Epsilon")
	assert.Contains(t, html, "unknown")
}

func TestTagSectionWordCloud(t *testing.T) {
	t.Parallel()

	b := NewBuilder(plotpage.ThemeDark)
	html := renderSection(t, b.TagSection(sampleProjections().TagFrequency))

	assert.Contains(t, html, "classic")
}

func TestDescribeSelection(t *testing.T) {
	t.Parallel()

	sel := pipeline.Selection{
		Genres:   []string{"Action", "Comedy"},
		YearMin:  2000,
		YearMax:  2014,
		ScoreMin: 3,
		ScoreMax: 5,
	}

	desc := DescribeSelection(sel)
	assert.Contains(t, desc, "Action, Comedy")
	assert.Contains(t, desc, "2000-2014")

	assert.Contains(t, DescribeSelection(pipeline.Selection{}), "none")
}

func TestSummaryStats(t *testing.T) {
	t.Parallel()

	proj := sampleProjections()
	stats := SummaryStats(pipeline.Selection{Genres: []string{"Action"}}, proj)

	require.Len(t, stats, 4)
	assert.Equal(t, "1", stats[0].Value)
	assert.Equal(t, "4", stats[1].Value)  // 3 + 1 genre matches.
	assert.Equal(t, "14", stats[2].Value) // 10 + 4 trend ratings.
	assert.Equal(t, "2", stats[3].Value)
}

func TestSymbolSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, symbolSizeMax, symbolSize(100, 100))
	assert.Equal(t, symbolSizeMin, symbolSize(0, 100))
	assert.Equal(t, symbolSizeMin, symbolSize(5, 0))

	mid := symbolSize(50, 100)
	assert.Greater(t, mid, symbolSizeMin)
	assert.Less(t, mid, symbolSizeMax)
}
