package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmfilter/filmfilter/internal/dataset"
)

func TestSelectionValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid_bounds", func(t *testing.T) {
		t.Parallel()

		sel := Selection{YearMin: 2000, YearMax: 2014, ScoreMin: 3, ScoreMax: 5}
		require.NoError(t, sel.Validate())
	})

	t.Run("equal_bounds_are_valid", func(t *testing.T) {
		t.Parallel()

		sel := Selection{YearMin: 2005, YearMax: 2005, ScoreMin: 4, ScoreMax: 4}
		require.NoError(t, sel.Validate())
	})

	t.Run("inverted_year_range", func(t *testing.T) {
		t.Parallel()

		sel := Selection{YearMin: 2005, YearMax: 2000, ScoreMin: 3, ScoreMax: 5}
		require.ErrorIs(t, sel.Validate(), ErrInvalidRange)
	})

	t.Run("inverted_score_range", func(t *testing.T) {
		t.Parallel()

		sel := Selection{YearMin: 2000, YearMax: 2014, ScoreMin: 5, ScoreMax: 3}
		require.ErrorIs(t, sel.Validate(), ErrInvalidRange)
	})
}

func TestSelectionMatchesTitle(t *testing.T) {
	t.Parallel()

	known := dataset.Title{Year: 2005, YearKnown: true, Genres: []string{"Action"}}
	unknown := dataset.Title{Genres: []string{"Action"}}

	t.Run("genre_and_year_match", func(t *testing.T) {
		t.Parallel()

		sel := Selection{Genres: []string{"Action"}, YearMin: 2000, YearMax: 2014}
		assert.True(t, sel.MatchesTitle(known))
	})

	t.Run("empty_genre_selection_matches_nothing", func(t *testing.T) {
		t.Parallel()

		sel := Selection{YearMin: 1900, YearMax: 2100}
		assert.False(t, sel.MatchesTitle(known))
	})

	t.Run("year_outside_bound", func(t *testing.T) {
		t.Parallel()

		sel := Selection{Genres: []string{"Action"}, YearMin: 2010, YearMax: 2014}
		assert.False(t, sel.MatchesTitle(known))
	})

	t.Run("unknown_year_excluded_by_default", func(t *testing.T) {
		t.Parallel()

		sel := Selection{Genres: []string{"Action"}, YearMin: 1900, YearMax: 2100}
		assert.False(t, sel.MatchesTitle(unknown))
	})

	t.Run("unknown_year_admitted_when_opted_in", func(t *testing.T) {
		t.Parallel()

		sel := Selection{Genres: []string{"Action"}, YearMin: 1900, YearMax: 2100, IncludeUnknownYears: true}
		assert.True(t, sel.MatchesTitle(unknown))
	})
}

func TestSelectionKey(t *testing.T) {
	t.Parallel()

	a := Selection{Genres: []string{"Comedy", "Action"}, YearMin: 2000, YearMax: 2014, ScoreMin: 3, ScoreMax: 5}
	b := Selection{Genres: []string{"Action", "Comedy"}, YearMin: 2000, YearMax: 2014, ScoreMin: 3, ScoreMax: 5}
	c := Selection{Genres: []string{"Action"}, YearMin: 2000, YearMax: 2014, ScoreMin: 3, ScoreMax: 5}

	assert.Equal(t, a.Key(), b.Key(), "genre order does not matter")
	assert.NotEqual(t, a.Key(), c.Key())

	d := a
	d.IncludeUnknownYears = true
	assert.NotEqual(t, a.Key(), d.Key())
}
