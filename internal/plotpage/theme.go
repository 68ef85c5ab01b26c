package plotpage

// Theme represents a color theme for rendered dashboards.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark navy theme matching the FilmFilter palette.
	ThemeDark Theme = "dark"
)

// ThemeConfig holds all theme-specific styling values.
type ThemeConfig struct {
	// Base colors.
	Background string
	Surface    string
	Border     string

	// Text colors.
	TextPrimary   string
	TextSecondary string
	TextMuted     string

	// Accent color for headlines and interactive elements.
	Accent string

	// Chart-specific.
	ChartBackground string
	ChartGrid       string
	ChartAxis       string
	ChartText       string
	ChartTextMuted  string

	// ECharts theme name.
	EChartsTheme string
}

// ChartPalette returns a consistent color palette for chart series.
type ChartPalette struct {
	Primary []string
}

// GetThemeConfig returns the configuration for a given theme.
func GetThemeConfig(theme Theme) ThemeConfig {
	switch theme {
	case ThemeDark:
		return darkTheme
	case ThemeLight:
		return lightTheme
	default:
		return darkTheme
	}
}

// GetChartPalette returns the chart color palette for a given theme.
func GetChartPalette(theme Theme) ChartPalette {
	switch theme {
	case ThemeDark:
		return darkChartPalette
	case ThemeLight:
		return lightChartPalette
	default:
		return darkChartPalette
	}
}

// The dark palette is the dashboard's house style: soft navy background,
// near-white text, gold for highlights, with bright but non-neon series
// colors.
var darkTheme = ThemeConfig{
	Background: "#1E3A5F", // soft navy.
	Surface:    "#24466F",
	Border:     "#3A5A85",

	TextPrimary:   "#f8f9fa", // soft white.
	TextSecondary: "#d8dde2",
	TextMuted:     "#9fb0c3",

	Accent: "#FFC233", // gold.

	ChartBackground: "transparent",
	ChartGrid:       "#3A5A85",
	ChartAxis:       "#5A7BDE",
	ChartText:       "#f8f9fa",
	ChartTextMuted:  "#9fb0c3",

	EChartsTheme: "",
}

var lightTheme = ThemeConfig{
	Background: "#f8f9fa",
	Surface:    "#ffffff",
	Border:     "#d8dde2",

	TextPrimary:   "#1E3A5F",
	TextSecondary: "#34517a",
	TextMuted:     "#6b7f96",

	Accent: "#c28a00",

	ChartBackground: "transparent",
	ChartGrid:       "#d8dde2",
	ChartAxis:       "#9fb0c3",
	ChartText:       "#1E3A5F",
	ChartTextMuted:  "#6b7f96",

	EChartsTheme: "",
}

var darkChartPalette = ChartPalette{
	Primary: []string{
		"#3A7BFF", // bright blue.
		"#FF6B00", // orange.
		"#00AA55", // green.
		"#FFD700", // yellow.
		"#5A7BDE", // muted blue.
		"#FFC233", // gold.
	},
}

var lightChartPalette = ChartPalette{
	Primary: []string{
		"#2563eb",
		"#ea580c",
		"#15803d",
		"#ca8a04",
		"#4338ca",
		"#b45309",
	},
}
