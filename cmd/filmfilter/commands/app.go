// Package commands implements the filmfilter subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/filmfilter/filmfilter/internal/aggregate"
	"github.com/filmfilter/filmfilter/internal/config"
	"github.com/filmfilter/filmfilter/internal/dataset"
	"github.com/filmfilter/filmfilter/internal/observability"
	"github.com/filmfilter/filmfilter/internal/pipeline"
	"github.com/filmfilter/filmfilter/pkg/version"
)

// ErrNoDataset is returned when no dataset paths are configured.
var ErrNoDataset = errors.New(
	"dataset paths are required (set dataset.titles_path and dataset.ratings_path, or pass --titles/--ratings)")

// app bundles the loaded configuration, telemetry providers, and the built
// pipeline shared by all subcommands.
type app struct {
	cfg    *config.Config
	obs    observability.Providers
	pipe   *pipeline.Pipeline
	stats  dataset.LoadStats
	genres []aggregate.GenreCount
}

// datasetFlags carries per-command dataset path overrides.
type datasetFlags struct {
	titles  string
	ratings string
	tags    string
}

func addDatasetFlags(cmd *cobra.Command, df *datasetFlags) {
	cmd.Flags().StringVar(&df.titles, "titles", "", "titles CSV path (overrides config)")
	cmd.Flags().StringVar(&df.ratings, "ratings", "", "ratings CSV path (overrides config)")
	cmd.Flags().StringVar(&df.tags, "tags", "", "tags CSV path (overrides config)")
}

// filterFlags carries per-command filter overrides on top of the configured
// defaults. Only flags the user actually set take effect.
type filterFlags struct {
	genres       []string
	yearMin      int
	yearMax      int
	scoreMin     float64
	scoreMax     float64
	topN         int
	unknownYears bool
}

func addFilterFlags(cmd *cobra.Command, ff *filterFlags) {
	cmd.Flags().StringSliceVar(&ff.genres, "genres", nil, "genres to match (comma separated)")
	cmd.Flags().IntVar(&ff.yearMin, "year-min", 0, "minimum release year (inclusive)")
	cmd.Flags().IntVar(&ff.yearMax, "year-max", 0, "maximum release year (inclusive)")
	cmd.Flags().Float64Var(&ff.scoreMin, "score-min", 0, "minimum average score (inclusive)")
	cmd.Flags().Float64Var(&ff.scoreMax, "score-max", 0, "maximum average score (inclusive)")
	cmd.Flags().IntVar(&ff.topN, "top-n", 0, "length of the top-titles and tag projections")
	cmd.Flags().BoolVar(&ff.unknownYears, "include-unknown-years", false, "admit titles without a parsable release year")
}

// selection merges the configured defaults with the flags the user set.
func (ff *filterFlags) selection(cmd *cobra.Command, cfg *config.Config) pipeline.Selection {
	sel := cfg.Filters.Selection()

	flags := cmd.Flags()

	if flags.Changed("genres") {
		sel.Genres = ff.genres
	}

	if flags.Changed("year-min") {
		sel.YearMin = ff.yearMin
	}

	if flags.Changed("year-max") {
		sel.YearMax = ff.yearMax
	}

	if flags.Changed("score-min") {
		sel.ScoreMin = ff.scoreMin
	}

	if flags.Changed("score-max") {
		sel.ScoreMax = ff.scoreMax
	}

	if flags.Changed("include-unknown-years") {
		sel.IncludeUnknownYears = ff.unknownYears
	}

	return sel
}

// topN returns the effective projection length.
func (ff *filterFlags) effectiveTopN(cmd *cobra.Command, cfg *config.Config) int {
	if cmd.Flags().Changed("top-n") {
		return ff.topN
	}

	return cfg.Filters.TopN
}

// newApp loads configuration, initializes telemetry, loads the dataset, and
// builds the pipeline. Callers must invoke close when done.
func newApp(cmd *cobra.Command, mode observability.AppMode, df *datasetFlags, ff *filterFlags) (*app, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("read config flag: %w", err)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.LogLevel = observability.ParseLevel(cfg.Telemetry.LogLevel)
	obsCfg.LogJSON = cfg.Telemetry.LogJSON

	obs, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	slog.SetDefault(obs.Logger)

	titlesPath := cfg.Dataset.TitlesPath
	if df.titles != "" {
		titlesPath = df.titles
	}

	ratingsPath := cfg.Dataset.RatingsPath
	if df.ratings != "" {
		ratingsPath = df.ratings
	}

	tagsPath := cfg.Dataset.TagsPath
	if df.tags != "" {
		tagsPath = df.tags
	}

	if titlesPath == "" || ratingsPath == "" {
		shutdownErr := obs.Shutdown(context.Background())

		return nil, errors.Join(ErrNoDataset, shutdownErr)
	}

	loader := dataset.NewLoader(obs.Logger)

	titles, ratings, tags, stats, err := loader.Load(titlesPath, ratingsPath, tagsPath)
	if err != nil {
		shutdownErr := obs.Shutdown(context.Background())

		return nil, errors.Join(fmt.Errorf("load dataset: %w", err), shutdownErr)
	}

	aggregated := aggregate.Build(titles, ratings, tags)

	return &app{
		cfg:    cfg,
		obs:    obs,
		pipe:   pipeline.New(aggregated, ratings, tags, pipeline.WithTopN(ff.effectiveTopN(cmd, cfg))),
		stats:  stats,
		genres: aggregate.BuildGenrePopularity(titles),
	}, nil
}

// close flushes telemetry.
func (a *app) close(ctx context.Context) {
	err := a.obs.Shutdown(ctx)
	if err != nil {
		a.obs.Logger.Warn("telemetry shutdown", "error", err)
	}
}
