// Package dataset defines the movie ratings data model and the CSV loader
// that produces it: titles, per-user rating events, and free-text tag events.
package dataset

import "time"

// Title is one movie entity. Immutable after load.
type Title struct {
	ID     int64    `json:"id"     yaml:"id"`
	Name   string   `json:"name"   yaml:"name"`
	Year   int      `json:"year"   yaml:"year"`
	Genres []string `json:"genres" yaml:"genres"`

	// YearKnown reports whether a release year could be parsed from the
	// display name. When false, Year is zero and must not be compared.
	YearKnown bool `json:"year_known" yaml:"year_known"`
}

// RatingEvent is one user's numeric score for one title.
type RatingEvent struct {
	UserID    int64
	TitleID   int64
	Score     float64
	Timestamp time.Time
}

// TagEvent is one user's free-text label applied to one title.
type TagEvent struct {
	UserID    int64
	TitleID   int64
	Tag       string
	Timestamp time.Time
}

// AggregatedTitle is a Title enriched with derived rating and tag statistics.
// Titles without events carry zeroes, never missing entries.
type AggregatedTitle struct {
	Title `yaml:",inline"`

	AvgScore        float64 `json:"avg_score"        yaml:"avg_score"`
	RatingCount     int64   `json:"rating_count"     yaml:"rating_count"`
	ScoreStdDev     float64 `json:"score_std_dev"    yaml:"score_std_dev"`
	TagCount        int64   `json:"tag_count"        yaml:"tag_count"`
	DistinctTaggers int64   `json:"distinct_taggers" yaml:"distinct_taggers"`
}

// HasGenre reports whether the title carries the exact genre string.
// Matching is case-sensitive list membership, not substring containment.
func (t Title) HasGenre(genre string) bool {
	for _, g := range t.Genres {
		if g == genre {
			return true
		}
	}

	return false
}

// HasAnyGenre reports whether the title carries at least one of the given genres.
func (t Title) HasAnyGenre(genres []string) bool {
	for _, g := range genres {
		if t.HasGenre(g) {
			return true
		}
	}

	return false
}
