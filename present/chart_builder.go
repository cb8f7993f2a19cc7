package present

import (
	"github.com/spektr-org/bugdash/engine"
	"github.com/spektr-org/bugdash/schema"
)

// ============================================================================
// CHART BUILDER — Produces ChartConfig from engine aggregates
// ============================================================================

const countAxis = "Number of Bug Reports"

// BuildBarChart produces a single-series bar chart from a frequency table.
// Each bar gets its own palette color.
func BuildBarChart(title string, table engine.FrequencyTable, palette string) *ChartConfig {
	points := make([]ChartPoint, 0, len(table))
	for _, e := range table {
		points = append(points, ChartPoint{Label: e.Value, Value: float64(e.Count)})
	}

	return &ChartConfig{
		ChartType: ChartBar,
		Title:     title,
		YAxis:     countAxis,
		Series:    []ChartSeries{{Name: title, Data: points}},
		Colors:    assignColors(palette, len(points)),
		ShowGrid:  true,
	}
}

// BuildStackedChart produces a stacked bar chart from a crosstab: one bar
// per row value, one stacked series per column value.
func BuildStackedChart(title string, ct *engine.CrossTab) *ChartConfig {
	cfg := &ChartConfig{
		ChartType:  ChartStackedBar,
		Title:      title,
		YAxis:      countAxis,
		ShowLegend: true,
		ShowGrid:   true,
	}
	if ct == nil {
		return cfg
	}
	cfg.XAxis = labelFor(ct.RowField)
	cfg.Legend = labelFor(ct.ColumnField)

	colors := assignColors(PaletteDefault, len(ct.Columns))
	cfg.Series = make([]ChartSeries, 0, len(ct.Columns))
	for j, col := range ct.Columns {
		points := make([]ChartPoint, 0, len(ct.Rows))
		for i, row := range ct.Rows {
			points = append(points, ChartPoint{Label: row, Value: float64(ct.Counts[i][j])})
		}
		cfg.Series = append(cfg.Series, ChartSeries{Name: col, Data: points, Color: colors[j]})
	}
	cfg.Colors = colors
	return cfg
}

// ============================================================================
// DASHBOARD CHARTS
// ============================================================================

// Chart names used in URLs and by the report command.
const (
	ChartCategories  = "categories"
	ChartSeverity    = "severity"
	ChartEnvironment = "environment"
)

// ChartNames lists the dashboard charts in display order.
var ChartNames = []string{ChartCategories, ChartSeverity, ChartEnvironment}

// DashboardChart builds one of the named dashboard charts from a result.
// ok is false for an unknown name.
func DashboardChart(name string, r *engine.Result, palette string) (cfg *ChartConfig, ok bool) {
	switch name {
	case ChartCategories:
		cfg = BuildBarChart("Most Common Bug Categories", r.TopCategories, palette)
		cfg.Horizontal = true
		cfg.XAxis = countAxis
		cfg.YAxis = labelFor(engine.FieldCategory)
	case ChartSeverity:
		cfg = BuildBarChart("Bug Severity Distribution", r.SeverityDistribution, PaletteRocket)
		cfg.XAxis = "Severity Level"
	case ChartEnvironment:
		cfg = BuildStackedChart("Bug Severity by Environment", r.EnvironmentSeverity)
	default:
		return nil, false
	}
	return cfg, true
}

func labelFor(field string) string {
	if d, ok := schema.BugReports().Dimension(field); ok {
		return d.DisplayName
	}
	return schema.ToDisplayName(field)
}
