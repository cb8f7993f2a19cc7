// Package present turns engine results into render-ready shapes: chart
// configs, tables, KPI cards and the static report narrative. Colors,
// number formatting and wording live here, never in the engine.
package present

// ============================================================================
// CHART TYPES
// ============================================================================

// Chart types understood by RenderSVG.
const (
	ChartBar        = "bar"
	ChartStackedBar = "stacked_bar"
)

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Legend     string        `json:"legend,omitempty"`
	Horizontal bool          `json:"horizontal"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// IsEmpty reports whether the chart has no data points at all.
func (c *ChartConfig) IsEmpty() bool {
	if c == nil {
		return true
	}
	for _, s := range c.Series {
		if len(s.Data) > 0 {
			return false
		}
	}
	return true
}

// Labels returns the category labels of the first series.
func (c *ChartConfig) Labels() []string {
	if c == nil || len(c.Series) == 0 {
		return nil
	}
	out := make([]string, len(c.Series[0].Data))
	for i, p := range c.Series[0].Data {
		out[i] = p.Label
	}
	return out
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "percent"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary is the footer row of a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// Headers returns the column labels in order.
func (t *TableData) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Label
	}
	return out
}

// ============================================================================
// KPI TYPES
// ============================================================================

// KPICard is one headline number.
type KPICard struct {
	Label string `json:"label"`
	Value string `json:"value"` // locale-formatted
	Raw   int    `json:"raw"`
}
