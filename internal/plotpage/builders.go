package plotpage

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// SeriesData represents a single numeric value in a chart series.
// We use any to allow both int and float64 (to map to opts.BarData/opts.LineData).
type SeriesData any

// BarSeries defines the properties and data for a single bar chart series.
type BarSeries struct {
	Name  string
	Data  []SeriesData
	Color string // Optional, uses theme if empty.
}

// LineSeries defines the properties and data for a single line chart series.
type LineSeries struct {
	Name        string
	Data        []SeriesData
	Color       string  // Optional, uses theme if empty.
	AreaOpacity float32 // Optional, area opacity for area charts.
}

// ScatterPoint is a single point in a scatter series. Size controls the
// rendered symbol size per point, so a second measure can be encoded
// alongside the x/y position.
type ScatterPoint struct {
	Name string
	X    any
	Y    any
	Size int
}

// ScatterSeries defines the properties and data for a single scatter series.
type ScatterSeries struct {
	Name   string
	Points []ScatterPoint
	Color  string // Optional, uses theme if empty.
}

// WordWeight is a single weighted word for a word cloud.
type WordWeight struct {
	Word   string
	Weight int
}

// BuildBarChart constructs a fully configured go-echarts Bar chart using ChartOpts.
// If cOpts is nil, DefaultChartOpts() is used.
func BuildBarChart(cOpts *ChartOpts, labels []string, series []BarSeries, yAxisLabel string) *charts.Bar {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init()),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithDataZoomOpts(cOpts.DataZoom()...),
		charts.WithXAxisOpts(cOpts.XAxis("")),
		charts.WithYAxisOpts(cOpts.YAxis(yAxisLabel)),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	bar.SetXAxis(labels)

	for _, s := range series {
		barData := make([]opts.BarData, len(s.Data))
		for i, v := range s.Data {
			barData[i] = opts.BarData{Value: v}
		}

		var seriesOpts []charts.SeriesOpts
		if s.Color != "" {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		}

		bar.AddSeries(s.Name, barData, seriesOpts...)
	}

	return bar
}

// BuildLineChart constructs a fully configured go-echarts Line chart using ChartOpts.
// If cOpts is nil, DefaultChartOpts() is used.
func BuildLineChart(cOpts *ChartOpts, labels []string, series []LineSeries, yAxisLabel string) *charts.Line {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init()),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithDataZoomOpts(cOpts.DataZoom()...),
		charts.WithXAxisOpts(cOpts.XAxis("")),
		charts.WithYAxisOpts(cOpts.YAxis(yAxisLabel)),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	line.SetXAxis(labels)

	for _, s := range series {
		lineData := make([]opts.LineData, len(s.Data))
		for i, v := range s.Data {
			lineData[i] = opts.LineData{Value: v}
		}

		var seriesOpts []charts.SeriesOpts
		if s.Color != "" {
			seriesOpts = append(seriesOpts,
				charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
				charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
			)
		}

		if s.AreaOpacity > 0 {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(s.AreaOpacity)}))
		}

		line.AddSeries(s.Name, lineData, seriesOpts...)
	}

	return line
}

// BuildScatterChart constructs a fully configured go-echarts Scatter chart
// using ChartOpts. Axes are numeric ("value" type) so points land at their
// coordinates rather than at category slots.
func BuildScatterChart(cOpts *ChartOpts, series []ScatterSeries, xAxisLabel, yAxisLabel string) *charts.Scatter {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	xAxis := cOpts.XAxis(xAxisLabel)
	xAxis.Type = "value"

	yAxis := cOpts.YAxis(yAxisLabel)
	yAxis.Type = "value"

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init()),
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(yAxis),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	for _, s := range series {
		scatterData := make([]opts.ScatterData, len(s.Points))
		for i, p := range s.Points {
			scatterData[i] = opts.ScatterData{
				Name:       p.Name,
				Value:      []any{p.X, p.Y},
				SymbolSize: p.Size,
			}
		}

		var seriesOpts []charts.SeriesOpts
		if s.Color != "" {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		}

		scatter.AddSeries(s.Name, scatterData, seriesOpts...)
	}

	return scatter
}

// Word cloud sizing defaults.
var wordCloudSizeRange = []float32{14, 70}

// BuildWordCloud constructs a go-echarts WordCloud chart using ChartOpts.
// If cOpts is nil, DefaultChartOpts() is used.
func BuildWordCloud(cOpts *ChartOpts, seriesName string, words []WordWeight) *charts.WordCloud {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	wc := charts.NewWordCloud()
	wc.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init()),
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
	)

	cloudData := make([]opts.WordCloudData, len(words))
	for i, w := range words {
		cloudData[i] = opts.WordCloudData{Name: w.Word, Value: w.Weight}
	}

	wc.AddSeries(seriesName, cloudData,
		charts.WithWorldCloudChartOpts(opts.WordCloudChart{
			SizeRange: wordCloudSizeRange,
			Shape:     "circle",
		}),
	)

	return wc
}
