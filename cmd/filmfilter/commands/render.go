package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/filmfilter/filmfilter/internal/charts"
	"github.com/filmfilter/filmfilter/internal/observability"
	"github.com/filmfilter/filmfilter/internal/plotpage"
)

const renderFilePerm = 0o644

// NewRenderCommand creates the render subcommand.
func NewRenderCommand() *cobra.Command {
	var (
		df     datasetFlags
		ff     filterFlags
		output string
		theme  string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the dashboard as a static HTML page",
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

			pageTheme := a.cfg.Dashboard.Theme
			if cmd.Flags().Changed("theme") {
				pageTheme = theme
			}

			builder := charts.NewBuilder(plotpage.Theme(pageTheme))
			page := builder.DashboardPage(
				a.cfg.Dashboard.Title,
				charts.DescribeSelection(sel),
				proj,
				charts.SummaryStats(sel, proj),
			)

			f, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, renderFilePerm)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}

			renderErr := page.Render(f)

			closeErr := f.Close()
			if renderErr != nil {
				return fmt.Errorf("render dashboard: %w", renderErr)
			}

			if closeErr != nil {
				return fmt.Errorf("close output file: %w", closeErr)
			}

			a.obs.Logger.Info("dashboard written", "path", output)

			return nil
		},
	}

	addDatasetFlags(cmd, &df)
	addFilterFlags(cmd, &ff)
	cmd.Flags().StringVarP(&output, "output", "o", "dashboard.html", "output HTML file")
	cmd.Flags().StringVar(&theme, "theme", "", "page theme: dark or light (overrides config)")

	return cmd
}
