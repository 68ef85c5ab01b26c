package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/filmfilter/filmfilter/internal/aggregate"
	"github.com/filmfilter/filmfilter/internal/dataset"
	"github.com/filmfilter/filmfilter/internal/pipeline"
)

func exportFixture() (pipeline.Selection, *pipeline.Projections) {
	sel := pipeline.Selection{
		Genres:   []string{"Action"},
		YearMin:  2000,
		YearMax:  2010,
		ScoreMin: 0,
		ScoreMax: 5,
	}

	proj := &pipeline.Projections{
		GenrePopularity: []aggregate.GenreCount{{Genre: "Action", Count: 2}},
		RatingTrend: []pipeline.YearAverage{
			{Year: 2001, AvgScore: 4.5, Count: 2},
		},
		TopTitles: []dataset.AggregatedTitle{
			{
				Title:       dataset.Title{ID: 1, Name: "Alpha (2001)", Year: 2001, YearKnown: true},
				AvgScore:    4.5,
				RatingCount: 2,
				ScoreStdDev: 0.7071,
			},
			{
				Title:       dataset.Title{ID: 2, Name: "Epsilon"},
				AvgScore:    4.0,
				RatingCount: 1,
			},
		},
		TagFrequency: []pipeline.TagCount{{Tag: "classic", Count: 3}},
	}

	return sel, proj
}

func TestWriteExportJSON(t *testing.T) {
	t.Parallel()

	sel, proj := exportFixture()

	var buf bytes.Buffer
	require.NoError(t, writeExport(&buf, formatJSON, "", sel, proj))

	var doc exportDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, []string{"Action"}, doc.Selection.Genres)
	assert.Equal(t, 2000, doc.Selection.YearMin)
	require.Len(t, doc.Projections.GenrePopularity, 1)
	assert.Equal(t, "Action", doc.Projections.GenrePopularity[0].Genre)
}

func TestWriteExportYAML(t *testing.T) {
	t.Parallel()

	sel, proj := exportFixture()

	var buf bytes.Buffer
	require.NoError(t, writeExport(&buf, formatYAML, "", sel, proj))

	var doc exportDocument
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, 2010, doc.Selection.YearMax)
	require.Len(t, doc.Projections.TagFrequency, 1)
	assert.Equal(t, "classic", doc.Projections.TagFrequency[0].Tag)
}

func TestWriteExportUnknownFormat(t *testing.T) {
	t.Parallel()

	sel, proj := exportFixture()

	var buf bytes.Buffer
	require.ErrorIs(t, writeExport(&buf, "xml", "", sel, proj), ErrUnknownFormat)
}

func TestWriteExportCSVNeedsProjection(t *testing.T) {
	t.Parallel()

	sel, proj := exportFixture()

	var buf bytes.Buffer
	require.ErrorIs(t, writeExport(&buf, formatCSV, "", sel, proj), ErrCSVNeedsProjection)
}

func TestCSVRecords(t *testing.T) {
	t.Parallel()

	_, proj := exportFixture()

	t.Run("genres", func(t *testing.T) {
		t.Parallel()

		records, err := csvRecords(projGenres, proj)
		require.NoError(t, err)

		require.Len(t, records, 2)
		assert.Equal(t, []string{"genre", "count"}, records[0])
		assert.Equal(t, []string{"Action", "2"}, records[1])
	})

	t.Run("trend", func(t *testing.T) {
		t.Parallel()

		records, err := csvRecords(projTrend, proj)
		require.NoError(t, err)

		require.Len(t, records, 2)
		assert.Equal(t, []string{"year", "avg_score", "count"}, records[0])
		assert.Equal(t, []string{"2001", "4.5000", "2"}, records[1])
	})

	t.Run("top_leaves_unknown_year_blank", func(t *testing.T) {
		t.Parallel()

		records, err := csvRecords(projTop, proj)
		require.NoError(t, err)

		require.Len(t, records, 3)
		assert.Equal(t, []string{"1", "Alpha (2001)", "2001", "4.5000", "2", "0.7071"}, records[1])
		assert.Equal(t, []string{"2", "Epsilon", "", "4.0000", "1", "0.0000"}, records[2])
	})

	t.Run("tags", func(t *testing.T) {
		t.Parallel()

		records, err := csvRecords(projTags, proj)
		require.NoError(t, err)

		require.Len(t, records, 2)
		assert.Equal(t, []string{"classic", "3"}, records[1])
	})

	t.Run("unknown_projection", func(t *testing.T) {
		t.Parallel()

		_, err := csvRecords("directors", proj)
		require.ErrorIs(t, err, ErrUnknownProjection)
	})
}
