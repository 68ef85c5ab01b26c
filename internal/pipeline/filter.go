// Package pipeline applies a filter selection to the aggregated title set and
// derives the four chart-ready projections. Every projection of one Run
// reflects the same selection; there is no shared mutable state between runs,
// so concurrent callers may share one Pipeline.
package pipeline

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/filmfilter/filmfilter/internal/dataset"
)

// ErrInvalidRange is returned when a selection's year or score bound has
// minimum greater than maximum. The invocation is rejected before any
// aggregation work; an empty result is never used to mask the mistake.
var ErrInvalidRange = errors.New("pipeline: range minimum exceeds maximum")

// Selection is the transient filter state supplied per query.
type Selection struct {
	// Genres to match; a title qualifies when it carries at least one.
	// An empty set matches nothing (vacuous match), not everything.
	Genres []string

	// Inclusive release-year bound.
	YearMin int
	YearMax int

	// Inclusive average-score bound, applied to the top-titles projection.
	ScoreMin float64
	ScoreMax float64

	// IncludeUnknownYears admits titles whose release year could not be
	// parsed. Defaults to false: an unknown year never silently satisfies
	// a numeric range.
	IncludeUnknownYears bool
}

// Validate rejects selections with inverted bounds.
func (s Selection) Validate() error {
	if s.YearMin > s.YearMax {
		return fmt.Errorf("%w: year %d > %d", ErrInvalidRange, s.YearMin, s.YearMax)
	}

	if s.ScoreMin > s.ScoreMax {
		return fmt.Errorf("%w: score %g > %g", ErrInvalidRange, s.ScoreMin, s.ScoreMax)
	}

	return nil
}

// MatchesTitle reports whether the title passes the genre and year
// constraints. The score bound is not part of the title-level predicate; it
// applies only where an average score exists (see TopTitles).
func (s Selection) MatchesTitle(t dataset.Title) bool {
	if !t.HasAnyGenre(s.Genres) {
		return false
	}

	if !t.YearKnown {
		return s.IncludeUnknownYears
	}

	return t.Year >= s.YearMin && t.Year <= s.YearMax
}

// matchesScore reports whether an average score falls in the inclusive bound.
func (s Selection) matchesScore(avg float64) bool {
	return avg >= s.ScoreMin && avg <= s.ScoreMax
}

// Key returns a canonical string for the selection, usable as a cache key.
// Genre order does not affect the key.
func (s Selection) Key() string {
	genres := slices.Clone(s.Genres)
	slices.Sort(genres)

	var b strings.Builder

	b.WriteString(strings.Join(genres, "|"))
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(s.YearMin))
	b.WriteByte('-')
	b.WriteString(strconv.Itoa(s.YearMax))
	b.WriteByte(';')
	b.WriteString(strconv.FormatFloat(s.ScoreMin, 'g', -1, 64))
	b.WriteByte('-')
	b.WriteString(strconv.FormatFloat(s.ScoreMax, 'g', -1, 64))
	b.WriteByte(';')
	b.WriteString(strconv.FormatBool(s.IncludeUnknownYears))

	return b.String()
}
