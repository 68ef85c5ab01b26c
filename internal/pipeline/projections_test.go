package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmfilter/filmfilter/internal/aggregate"
	"github.com/filmfilter/filmfilter/internal/dataset"
)

func fixtureTitles() []dataset.Title {
	return []dataset.Title{
		{ID: 1, Name: "Alpha (2001)", Year: 2001, YearKnown: true, Genres: []string{"Action", "Comedy"}},
		{ID: 2, Name: "Beta (2005)", Year: 2005, YearKnown: true, Genres: []string{"Action"}},
		{ID: 3, Name: "Gamma (2005)", Year: 2005, YearKnown: true, Genres: []string{"Comedy"}},
		{ID: 4, Name: "Delta (1990)", Year: 1990, YearKnown: true, Genres: []string{"Action"}},
		{ID: 5, Name: "Epsilon", Genres: []string{"Action"}},
		{ID: 6, Name: "Zeta (2003)", Year: 2003, YearKnown: true, Genres: []string{"Horror"}},
	}
}

func fixtureRatings() []dataset.RatingEvent {
	return []dataset.RatingEvent{
		{UserID: 10, TitleID: 1, Score: 4.0},
		{UserID: 11, TitleID: 1, Score: 5.0},
		{UserID: 10, TitleID: 2, Score: 3.5},
		{UserID: 11, TitleID: 2, Score: 3.5},
		{UserID: 12, TitleID: 3, Score: 2.0},
		{UserID: 10, TitleID: 4, Score: 5.0},
		{UserID: 10, TitleID: 5, Score: 4.0},
		{UserID: 10, TitleID: 6, Score: 5.0},
	}
}

func fixtureTags() []dataset.TagEvent {
	return []dataset.TagEvent{
		{UserID: 10, TitleID: 1, Tag: "classic"},
		{UserID: 11, TitleID: 1, Tag: "classic"},
		{UserID: 11, TitleID: 1, Tag: "funny"},
		{UserID: 10, TitleID: 2, Tag: "gritty"},
		{UserID: 10, TitleID: 4, Tag: "eighties"},
		{UserID: 10, TitleID: 6, Tag: "scary"},
	}
}

func fixturePipeline(opts ...Option) *Pipeline {
	ratings := fixtureRatings()
	tags := fixtureTags()
	aggregated := aggregate.Build(fixtureTitles(), ratings, tags)

	return New(aggregated, ratings, tags, opts...)
}

func defaultSelection() Selection {
	return Selection{
		Genres:   []string{"Action", "Comedy"},
		YearMin:  2000,
		YearMax:  2014,
		ScoreMin: 0,
		ScoreMax: 5,
	}
}

func TestRunProjections(t *testing.T) {
	t.Parallel()

	proj, err := fixturePipeline().Run(defaultSelection())
	require.NoError(t, err)

	t.Run("genre_popularity", func(t *testing.T) {
		t.Parallel()

		// Matched titles: 1 (Action, Comedy), 2 (Action), 3 (Comedy).
		// Delta is out of the year bound, Epsilon has no year, Zeta is
		// outside the genre selection.
		require.Len(t, proj.GenrePopularity, 2)
		assert.Equal(t, aggregate.GenreCount{Genre: "Action", Count: 2}, proj.GenrePopularity[0])
		assert.Equal(t, aggregate.GenreCount{Genre: "Comedy", Count: 2}, proj.GenrePopularity[1])
	})

	t.Run("rating_trend_sorted_by_year", func(t *testing.T) {
		t.Parallel()

		require.Len(t, proj.RatingTrend, 2)

		assert.Equal(t, 2001, proj.RatingTrend[0].Year)
		assert.InDelta(t, 4.5, proj.RatingTrend[0].AvgScore, 1e-9)
		assert.Equal(t, int64(2), proj.RatingTrend[0].Count)

		assert.Equal(t, 2005, proj.RatingTrend[1].Year)
		assert.InDelta(t, 3.0, proj.RatingTrend[1].AvgScore, 1e-9)
		assert.Equal(t, int64(3), proj.RatingTrend[1].Count)
	})

	t.Run("top_titles_ordered_by_avg_then_count", func(t *testing.T) {
		t.Parallel()

		require.Len(t, proj.TopTitles, 3)
		assert.Equal(t, "Alpha (2001)", proj.TopTitles[0].Name)
		assert.Equal(t, "Beta (2005)", proj.TopTitles[1].Name)
		assert.Equal(t, "Gamma (2005)", proj.TopTitles[2].Name)
	})

	t.Run("tag_frequency_desc_then_alpha", func(t *testing.T) {
		t.Parallel()

		require.Len(t, proj.TagFrequency, 3)
		assert.Equal(t, TagCount{Tag: "classic", Count: 2}, proj.TagFrequency[0])
		assert.Equal(t, TagCount{Tag: "funny", Count: 1}, proj.TagFrequency[1])
		assert.Equal(t, TagCount{Tag: "gritty", Count: 1}, proj.TagFrequency[2])
	})
}

func TestRunEmptyGenreSelection(t *testing.T) {
	t.Parallel()

	sel := defaultSelection()
	sel.Genres = nil

	proj, err := fixturePipeline().Run(sel)
	require.NoError(t, err)

	assert.Empty(t, proj.GenrePopularity)
	assert.Empty(t, proj.RatingTrend)
	assert.Empty(t, proj.TopTitles)
	assert.Empty(t, proj.TagFrequency)
}

func TestRunInvalidRangeProducesNothing(t *testing.T) {
	t.Parallel()

	sel := defaultSelection()
	sel.YearMin = 2005
	sel.YearMax = 2000

	proj, err := fixturePipeline().Run(sel)
	require.ErrorIs(t, err, ErrInvalidRange)
	assert.Nil(t, proj, "no partial projections on a rejected selection")
}

func TestRunScoreBoundOnlyAffectsTopTitles(t *testing.T) {
	t.Parallel()

	sel := defaultSelection()
	sel.ScoreMin = 4.0

	proj, err := fixturePipeline().Run(sel)
	require.NoError(t, err)

	// Only Alpha (avg 4.5) clears the bound.
	require.Len(t, proj.TopTitles, 1)
	assert.Equal(t, "Alpha (2001)", proj.TopTitles[0].Name)

	// The other projections still cover all matched titles.
	assert.Len(t, proj.GenrePopularity, 2)
	assert.Len(t, proj.RatingTrend, 2)
	assert.Len(t, proj.TagFrequency, 3)
}

func TestRunIncludeUnknownYears(t *testing.T) {
	t.Parallel()

	sel := defaultSelection()
	sel.IncludeUnknownYears = true

	proj, err := fixturePipeline().Run(sel)
	require.NoError(t, err)

	// Epsilon joins the matched set and the top titles, but contributes no
	// trend row because it has no release year.
	names := make([]string, 0, len(proj.TopTitles))
	for _, title := range proj.TopTitles {
		names = append(names, title.Name)
	}

	assert.Contains(t, names, "Epsilon")
	assert.Len(t, proj.RatingTrend, 2)
}

func TestRunTopNTruncation(t *testing.T) {
	t.Parallel()

	proj, err := fixturePipeline(WithTopN(1)).Run(defaultSelection())
	require.NoError(t, err)

	require.Len(t, proj.TopTitles, 1)
	assert.Equal(t, "Alpha (2001)", proj.TopTitles[0].Name)

	require.Len(t, proj.TagFrequency, 1)
	assert.Equal(t, "classic", proj.TagFrequency[0].Tag)
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	pipe := fixturePipeline()
	sel := defaultSelection()

	first, err := pipe.Run(sel)
	require.NoError(t, err)

	for range 5 {
		again, runErr := pipe.Run(sel)
		require.NoError(t, runErr)
		assert.Equal(t, first, again)
	}
}

func TestTopTitlesStableTieBreak(t *testing.T) {
	t.Parallel()

	// Two titles with identical (avg, count); input order must be kept.
	titles := []dataset.Title{
		{ID: 1, Name: "First (2001)", Year: 2001, YearKnown: true, Genres: []string{"Action"}},
		{ID: 2, Name: "Second (2002)", Year: 2002, YearKnown: true, Genres: []string{"Action"}},
	}
	ratings := []dataset.RatingEvent{
		{UserID: 10, TitleID: 1, Score: 4.0},
		{UserID: 10, TitleID: 2, Score: 4.0},
	}

	pipe := New(aggregate.Build(titles, ratings, nil), ratings, nil)

	proj, err := pipe.Run(Selection{Genres: []string{"Action"}, YearMin: 2000, YearMax: 2010, ScoreMax: 5})
	require.NoError(t, err)

	require.Len(t, proj.TopTitles, 2)
	assert.Equal(t, "First (2001)", proj.TopTitles[0].Name)
	assert.Equal(t, "Second (2002)", proj.TopTitles[1].Name)
}
