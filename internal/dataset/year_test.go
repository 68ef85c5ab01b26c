package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{"plain_title", "Toy Story (1995)", 1995, true},
		{"title_with_space_before_paren", "Heat (1995)", 1995, true},
		{"year_in_middle_is_not_release_year", "1984 (2020)", 2020, true},
		{"parenthetical_inside_name", "Seven (a.k.a. Se7en) (1995)", 1995, true},
		{"no_year", "Best Documentary Ever", 0, false},
		{"empty_name", "", 0, false},
		{"unclosed_paren", "Broken (199", 0, false},
		{"three_digit_year_rejected", "Oldie (999)", 0, false},
		{"five_digits_rejected", "Future (20015)", 0, false},
		{"letters_inside_parens", "Odd (19a5)", 0, false},
		{"year_not_at_end", "Movie (1999) extra", 0, false},
		{"trailing_whitespace_tolerated", "Trimmed (2001)  ", 2001, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			year, ok := ExtractYear(tc.input)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, year)
		})
	}
}

func TestSplitGenres(t *testing.T) {
	t.Parallel()

	t.Run("pipe_separated_list", func(t *testing.T) {
		t.Parallel()

		got := SplitGenres("Action|Comedy|Sci-Fi")
		assert.Equal(t, []string{"Action", "Comedy", "Sci-Fi"}, got)
	})

	t.Run("single_genre", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"Drama"}, SplitGenres("Drama"))
	})

	t.Run("empty_field_becomes_sentinel", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{NoGenresSentinel}, SplitGenres(""))
	})

	t.Run("sentinel_is_preserved_verbatim", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{NoGenresSentinel}, SplitGenres(NoGenresSentinel))
	})
}

func TestTitleHasGenre(t *testing.T) {
	t.Parallel()

	title := Title{Genres: []string{"Action", "Sci-Fi"}}

	assert.True(t, title.HasGenre("Action"))
	assert.False(t, title.HasGenre("action"), "matching is case sensitive")
	assert.False(t, title.HasGenre("Sci"), "substring is not membership")
	assert.True(t, title.HasAnyGenre([]string{"Comedy", "Sci-Fi"}))
	assert.False(t, title.HasAnyGenre(nil), "empty selection matches nothing")
}
