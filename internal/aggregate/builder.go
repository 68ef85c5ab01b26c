// Package aggregate derives per-title statistics from the raw record sets and
// merges them into the unified aggregated title set. It runs once per dataset
// load; its output is treated as immutable by everything downstream.
package aggregate

import (
	"slices"
	"strings"

	"github.com/filmfilter/filmfilter/internal/alg/stats"
	"github.com/filmfilter/filmfilter/internal/dataset"
)

// RatingStats holds the grouped rating aggregate for one title.
type RatingStats struct {
	Avg   float64
	Count int64
	Std   float64
}

// TagStats holds the grouped tag aggregate for one title.
type TagStats struct {
	TagCount        int64
	DistinctTaggers int64
}

// GenreCount is one row of the genre-popularity table.
type GenreCount struct {
	Genre string `json:"genre" yaml:"genre"`
	Count int64  `json:"count" yaml:"count"`
}

// BuildRatingStats groups rating events by title and computes the average
// score, event count, and sample standard deviation per title. Titles with
// zero or one event get a standard deviation of 0.
func BuildRatingStats(events []dataset.RatingEvent) map[int64]RatingStats {
	scores := make(map[int64][]float64)

	for _, ev := range events {
		scores[ev.TitleID] = append(scores[ev.TitleID], ev.Score)
	}

	result := make(map[int64]RatingStats, len(scores))

	for titleID, vals := range scores {
		avg, std := stats.MeanStdDev(vals)

		result[titleID] = RatingStats{
			Avg:   avg,
			Count: int64(len(vals)),
			Std:   std,
		}
	}

	return result
}

// BuildTagStats groups tag events by title and counts total tags and distinct
// tagging users per title.
func BuildTagStats(events []dataset.TagEvent) map[int64]TagStats {
	taggers := make(map[int64]map[int64]struct{})
	counts := make(map[int64]int64)

	for _, ev := range events {
		counts[ev.TitleID]++

		users, ok := taggers[ev.TitleID]
		if !ok {
			users = make(map[int64]struct{})
			taggers[ev.TitleID] = users
		}

		users[ev.UserID] = struct{}{}
	}

	result := make(map[int64]TagStats, len(counts))

	for titleID, count := range counts {
		result[titleID] = TagStats{
			TagCount:        count,
			DistinctTaggers: int64(len(taggers[titleID])),
		}
	}

	return result
}

// BuildGenrePopularity explodes each title's genre list into (title, genre)
// pairs and counts occurrences per genre. Rows are ordered by count
// descending, ties by genre name ascending.
func BuildGenrePopularity(titles []dataset.Title) []GenreCount {
	counts := make(map[string]int64)

	for _, t := range titles {
		for _, g := range t.Genres {
			counts[g]++
		}
	}

	return SortGenreCounts(counts)
}

// Merge left-joins titles against the two stats mappings by title id. Titles
// missing from either mapping get zero-filled statistics; no title is ever
// dropped for lack of events.
func Merge(
	titles []dataset.Title,
	ratingStats map[int64]RatingStats,
	tagStats map[int64]TagStats,
) []dataset.AggregatedTitle {
	merged := make([]dataset.AggregatedTitle, len(titles))

	for i, t := range titles {
		rs := ratingStats[t.ID]
		ts := tagStats[t.ID]

		merged[i] = dataset.AggregatedTitle{
			Title:           t,
			AvgScore:        rs.Avg,
			RatingCount:     rs.Count,
			ScoreStdDev:     rs.Std,
			TagCount:        ts.TagCount,
			DistinctTaggers: ts.DistinctTaggers,
		}
	}

	return merged
}

// Build runs the full aggregation pass: rating stats, tag stats, and the
// merged aggregated title set. Empty inputs produce valid empty outputs.
func Build(
	titles []dataset.Title,
	ratings []dataset.RatingEvent,
	tags []dataset.TagEvent,
) []dataset.AggregatedTitle {
	return Merge(titles, BuildRatingStats(ratings), BuildTagStats(tags))
}

// SortGenreCounts flattens a genre count map into rows ordered by count
// descending, ties by genre ascending. Every genre-popularity table uses
// this ordering.
func SortGenreCounts(counts map[string]int64) []GenreCount {
	rows := make([]GenreCount, 0, len(counts))

	for genre, count := range counts {
		rows = append(rows, GenreCount{Genre: genre, Count: count})
	}

	slices.SortFunc(rows, func(a, b GenreCount) int {
		if a.Count != b.Count {
			if a.Count > b.Count {
				return -1
			}

			return 1
		}

		return strings.Compare(a.Genre, b.Genre)
	})

	return rows
}
