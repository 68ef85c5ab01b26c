package commands

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/filmfilter/filmfilter/internal/observability"
	"github.com/filmfilter/filmfilter/internal/pipeline"
)

// Export formats.
const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatCSV  = "csv"
)

// CSV projection selectors.
const (
	projGenres = "genres"
	projTrend  = "trend"
	projTop    = "top"
	projTags   = "tags"
)

var (
	// ErrUnknownFormat is returned for an unsupported --format value.
	ErrUnknownFormat = errors.New("unknown format (want json, yaml, or csv)")

	// ErrUnknownProjection is returned for an unsupported --projection value.
	ErrUnknownProjection = errors.New("unknown projection (want genres, trend, top, or tags)")

	// ErrCSVNeedsProjection is returned when csv output is requested without
	// picking a single projection.
	ErrCSVNeedsProjection = errors.New("csv output requires --projection (genres, trend, top, or tags)")
)

// exportDocument is the serialized shape of a full projection export.
type exportDocument struct {
	Selection   exportSelection       `json:"selection"   yaml:"selection"`
	Projections *pipeline.Projections `json:"projections" yaml:"projections"`
}

type exportSelection struct {
	Genres              []string `json:"genres"                yaml:"genres"`
	YearMin             int      `json:"year_min"              yaml:"year_min"`
	YearMax             int      `json:"year_max"              yaml:"year_max"`
	ScoreMin            float64  `json:"score_min"             yaml:"score_min"`
	ScoreMax            float64  `json:"score_max"             yaml:"score_max"`
	IncludeUnknownYears bool     `json:"include_unknown_years" yaml:"include_unknown_years"`
}

// NewExportCommand creates the export subcommand.
func NewExportCommand() *cobra.Command {
	var (
		df         datasetFlags
		ff         filterFlags
		format     string
		projection string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write projections as JSON, YAML, or CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, observability.ModeCLI, &df, &ff)
			if err != nil {
				return err
			}

			defer a.close(cmd.Context())

			sel := ff.selection(cmd, a.cfg)

			proj, err := a.pipe.Run(sel)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if output != "" && output != "-" {
				f, openErr := os.Create(output)
				if openErr != nil {
					return fmt.Errorf("create output file: %w", openErr)
				}

				defer f.Close()

				out = f
			}

			return writeExport(out, format, projection, sel, proj)
		},
	}

	addDatasetFlags(cmd, &df)
	addFilterFlags(cmd, &ff)
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json, yaml, or csv")
	cmd.Flags().StringVarP(&projection, "projection", "p", "", "projection for csv output: genres, trend, top, or tags")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file; - for stdout")

	return cmd
}

func writeExport(w io.Writer, format, projection string, sel pipeline.Selection, proj *pipeline.Projections) error {
	doc := exportDocument{
		Selection: exportSelection{
			Genres:              sel.Genres,
			YearMin:             sel.YearMin,
			YearMax:             sel.YearMax,
			ScoreMin:            sel.ScoreMin,
			ScoreMax:            sel.ScoreMax,
			IncludeUnknownYears: sel.IncludeUnknownYears,
		},
		Projections: proj,
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(doc)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	case formatYAML:
		enc := yaml.NewEncoder(w)

		err := enc.Encode(doc)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return enc.Close()
	case formatCSV:
		return writeCSV(w, projection, proj)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeCSV(w io.Writer, projection string, proj *pipeline.Projections) error {
	if projection == "" {
		return ErrCSVNeedsProjection
	}

	records, err := csvRecords(projection, proj)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	err = cw.WriteAll(records)
	if err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	return nil
}

func csvRecords(projection string, proj *pipeline.Projections) ([][]string, error) {
	switch projection {
	case projGenres:
		records := [][]string{{"genre", "count"}}
		for _, g := range proj.GenrePopularity {
			records = append(records, []string{g.Genre, strconv.FormatInt(g.Count, 10)})
		}

		return records, nil
	case projTrend:
		records := [][]string{{"year", "avg_score", "count"}}
		for _, row := range proj.RatingTrend {
			records = append(records, []string{
				strconv.Itoa(row.Year),
				strconv.FormatFloat(row.AvgScore, 'f', 4, 64),
				strconv.FormatInt(row.Count, 10),
			})
		}

		return records, nil
	case projTop:
		records := [][]string{{"rank", "title", "year", "avg_score", "rating_count", "score_std_dev"}}
		for i, t := range proj.TopTitles {
			year := ""
			if t.YearKnown {
				year = strconv.Itoa(t.Year)
			}

			records = append(records, []string{
				strconv.Itoa(i + 1),
				t.Name,
				year,
				strconv.FormatFloat(t.AvgScore, 'f', 4, 64),
				strconv.FormatInt(t.RatingCount, 10),
				strconv.FormatFloat(t.ScoreStdDev, 'f', 4, 64),
			})
		}

		return records, nil
	case projTags:
		records := [][]string{{"tag", "count"}}
		for _, tc := range proj.TagFrequency {
			records = append(records, []string{tc.Tag, strconv.FormatInt(tc.Count, 10)})
		}

		return records, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProjection, projection)
	}
}
