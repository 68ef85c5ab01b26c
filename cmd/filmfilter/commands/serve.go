package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/filmfilter/filmfilter/internal/cache"
	"github.com/filmfilter/filmfilter/internal/observability"
	"github.com/filmfilter/filmfilter/internal/plotpage"
	"github.com/filmfilter/filmfilter/internal/server"
)

// NewServeCommand creates the serve subcommand.
func NewServeCommand() *cobra.Command {
	var (
		df   datasetFlags
		ff   filterFlags
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and projection API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, observability.ModeServer, &df, &ff)
			if err != nil {
				return err
			}

			defer a.close(cmd.Context())

			listenAddr := a.cfg.Server.Addr
			if cmd.Flags().Changed("addr") {
				listenAddr = addr
			}

			// The Prometheus registry carries its own MeterProvider so the
			// scrape endpoint works with or without an OTLP collector.
			metricsHandler, promMP, err := observability.PrometheusHandler()
			if err != nil {
				return fmt.Errorf("init metrics endpoint: %w", err)
			}

			queryMetrics, err := observability.NewQueryMetrics(promMP.Meter("filmfilter"))
			if err != nil {
				return fmt.Errorf("init query metrics: %w", err)
			}

			srv := server.New(server.Config{
				Addr:           listenAddr,
				Pipeline:       a.pipe,
				Cache:          cache.NewProjectionCache(a.cfg.Server.CacheSize),
				Defaults:       ff.selection(cmd, a.cfg),
				Theme:          plotpage.Theme(a.cfg.Dashboard.Theme),
				DashboardTitle: a.cfg.Dashboard.Title,
				Logger:         a.obs.Logger,
				Tracer:         a.obs.Tracer,
				Metrics:        queryMetrics,
				MetricsHandler: metricsHandler,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Run(ctx)
		},
	}

	addDatasetFlags(cmd, &df)
	addFilterFlags(cmd, &ff)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}
