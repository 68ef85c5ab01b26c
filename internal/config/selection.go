package config

import "github.com/filmfilter/filmfilter/internal/pipeline"

// Selection converts the configured filter defaults into a pipeline
// selection.
func (f FiltersConfig) Selection() pipeline.Selection {
	return pipeline.Selection{
		Genres:              f.Genres,
		YearMin:             f.YearMin,
		YearMax:             f.YearMax,
		ScoreMin:            f.ScoreMin,
		ScoreMax:            f.ScoreMax,
		IncludeUnknownYears: f.IncludeUnknownYears,
	}
}
