package pipeline

import (
	"slices"
	"strings"

	"github.com/filmfilter/filmfilter/internal/aggregate"
	"github.com/filmfilter/filmfilter/internal/dataset"
)

// DefaultTopN is the default length of the top-titles and tag-frequency
// projections.
const DefaultTopN = 20

// YearAverage is one row of the rating-trend projection.
type YearAverage struct {
	Year     int     `json:"year"      yaml:"year"`
	AvgScore float64 `json:"avg_score" yaml:"avg_score"`
	Count    int64   `json:"count"     yaml:"count"`
}

// TagCount is one row of the tag-frequency projection.
type TagCount struct {
	Tag   string `json:"tag"   yaml:"tag"`
	Count int64  `json:"count" yaml:"count"`
}

// Projections holds the four chart-ready tables derived from one selection.
// All four reflect the same filter; a Projections value is never partial.
type Projections struct {
	GenrePopularity []aggregate.GenreCount    `json:"genre_popularity" yaml:"genre_popularity"`
	RatingTrend     []YearAverage             `json:"rating_trend"     yaml:"rating_trend"`
	TopTitles       []dataset.AggregatedTitle `json:"top_titles"       yaml:"top_titles"`
	TagFrequency    []TagCount                `json:"tag_frequency"    yaml:"tag_frequency"`
}

// Pipeline derives projections from an immutable aggregated title set plus
// the raw event sets. Build it once per dataset load and share it.
type Pipeline struct {
	titles  []dataset.AggregatedTitle
	ratings []dataset.RatingEvent
	tags    []dataset.TagEvent
	topN    int
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithTopN overrides the top-N projection length.
func WithTopN(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.topN = n
		}
	}
}

// New creates a Pipeline over the given aggregated titles and raw events.
// The inputs are shared, not copied; callers must not mutate them afterwards.
func New(
	titles []dataset.AggregatedTitle,
	ratings []dataset.RatingEvent,
	tags []dataset.TagEvent,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		titles:  titles,
		ratings: ratings,
		tags:    tags,
		topN:    DefaultTopN,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run validates the selection and computes all four projections from it.
// An invalid range halts this invocation only; no projections are produced.
func (p *Pipeline) Run(sel Selection) (*Projections, error) {
	err := sel.Validate()
	if err != nil {
		return nil, err
	}

	matched := p.matchedTitles(sel)

	return &Projections{
		GenrePopularity: genrePopularity(matched, sel.Genres),
		RatingTrend:     p.ratingTrend(matched),
		TopTitles:       p.topTitles(matched, sel),
		TagFrequency:    p.tagFrequency(matched),
	}, nil
}

// matchedTitles applies the title-level predicate (genres + year bound).
func (p *Pipeline) matchedTitles(sel Selection) []dataset.AggregatedTitle {
	var matched []dataset.AggregatedTitle

	for _, t := range p.titles {
		if sel.MatchesTitle(t.Title) {
			matched = append(matched, t)
		}
	}

	return matched
}

// genrePopularity counts (title, genre) pairs over the matched titles,
// restricted to the display genre set.
func genrePopularity(matched []dataset.AggregatedTitle, displayGenres []string) []aggregate.GenreCount {
	display := make(map[string]struct{}, len(displayGenres))
	for _, g := range displayGenres {
		display[g] = struct{}{}
	}

	counts := make(map[string]int64)

	for _, t := range matched {
		for _, g := range t.Genres {
			if _, ok := display[g]; ok {
				counts[g]++
			}
		}
	}

	return aggregate.SortGenreCounts(counts)
}

// ratingTrend joins the matched titles' release years against all rating
// events for those titles and averages scores per year. The trend reflects
// the raw score distribution for matched titles; the score bound does not
// apply here. Years absent from any matched title are absent from the output.
func (p *Pipeline) ratingTrend(matched []dataset.AggregatedTitle) []YearAverage {
	yearByTitle := make(map[int64]int, len(matched))

	for _, t := range matched {
		if t.YearKnown {
			yearByTitle[t.ID] = t.Year
		}
	}

	sums := make(map[int]float64)
	counts := make(map[int]int64)

	for _, ev := range p.ratings {
		year, ok := yearByTitle[ev.TitleID]
		if !ok {
			continue
		}

		sums[year] += ev.Score
		counts[year]++
	}

	rows := make([]YearAverage, 0, len(sums))
	for year, sum := range sums {
		rows = append(rows, YearAverage{
			Year:     year,
			AvgScore: sum / float64(counts[year]),
			Count:    counts[year],
		})
	}

	slices.SortFunc(rows, func(a, b YearAverage) int {
		return a.Year - b.Year
	})

	return rows
}

// topTitles keeps matched titles whose average score falls in the score
// bound, sorted by average descending then rating count descending. The sort
// is stable: equal (score, count) pairs keep their original relative order.
func (p *Pipeline) topTitles(matched []dataset.AggregatedTitle, sel Selection) []dataset.AggregatedTitle {
	var kept []dataset.AggregatedTitle

	for _, t := range matched {
		if sel.matchesScore(t.AvgScore) {
			kept = append(kept, t)
		}
	}

	slices.SortStableFunc(kept, func(a, b dataset.AggregatedTitle) int {
		switch {
		case a.AvgScore > b.AvgScore:
			return -1
		case a.AvgScore < b.AvgScore:
			return 1
		case a.RatingCount > b.RatingCount:
			return -1
		case a.RatingCount < b.RatingCount:
			return 1
		default:
			return 0
		}
	})

	if len(kept) > p.topN {
		kept = kept[:p.topN]
	}

	return kept
}

// tagFrequency counts tag occurrences over tag events whose title is in the
// matched set, ordered by count descending then tag ascending, truncated to N.
func (p *Pipeline) tagFrequency(matched []dataset.AggregatedTitle) []TagCount {
	matchedIDs := make(map[int64]struct{}, len(matched))
	for _, t := range matched {
		matchedIDs[t.ID] = struct{}{}
	}

	counts := make(map[string]int64)

	for _, ev := range p.tags {
		if _, ok := matchedIDs[ev.TitleID]; ok {
			counts[ev.Tag]++
		}
	}

	rows := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		rows = append(rows, TagCount{Tag: tag, Count: count})
	}

	slices.SortFunc(rows, func(a, b TagCount) int {
		if a.Count != b.Count {
			if a.Count > b.Count {
				return -1
			}

			return 1
		}

		return strings.Compare(a.Tag, b.Tag)
	})

	if len(rows) > p.topN {
		rows = rows[:p.topN]
	}

	return rows
}
