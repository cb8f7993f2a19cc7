package present

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/bugdash/engine"
)

func sampleResult() *engine.Result {
	return &engine.Result{
		KPIs: engine.KPIs{
			TotalBugs: 12345,
			BySeverity: []engine.SeverityKPI{
				{Severity: "Critical", Count: 1200},
				{Severity: "High", Count: 3400},
			},
			Domains: 6,
		},
		TopCategories: engine.FrequencyTable{
			{Value: "Memory Leak", Count: 4},
			{Value: "Concurrency", Count: 3},
			{Value: "UI Glitch", Count: 2},
		},
		SeverityDistribution: engine.FrequencyTable{
			{Value: "Critical", Count: 3},
			{Value: "High", Count: 3},
			{Value: "Low", Count: 1},
		},
		EnvironmentSeverity: &engine.CrossTab{
			RowField:    engine.FieldEnvironment,
			ColumnField: engine.FieldSeverity,
			Rows:        []string{"Production", "Staging"},
			Columns:     []string{"Critical", "High"},
			Counts:      [][]int{{2, 0}, {1, 3}},
		},
		TotalRows: 12345,
	}
}

func TestBuildKPIs(t *testing.T) {
	cards := BuildKPIs(sampleResult(), NewPrinter("en"))

	require.Len(t, cards, 4)
	assert.Equal(t, KPICard{Label: "Total Bugs", Value: "12,345", Raw: 12345}, cards[0])
	assert.Equal(t, "Critical Bugs", cards[1].Label)
	assert.Equal(t, "1,200", cards[1].Value)
	assert.Equal(t, "High Bugs", cards[2].Label)
	assert.Equal(t, KPICard{Label: "Bug Domains", Value: "6", Raw: 6}, cards[3])
}

func TestNewPrinterFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "1,000", FormatCount(NewPrinter("not a tag!"), 1000))
}

func TestBuildBarChart(t *testing.T) {
	cfg := BuildBarChart("Categories", sampleResult().TopCategories, PaletteViridis)

	assert.Equal(t, ChartBar, cfg.ChartType)
	require.Len(t, cfg.Series, 1)
	assert.Equal(t, []string{"Memory Leak", "Concurrency", "UI Glitch"}, cfg.Labels())
	assert.Equal(t, 4.0, cfg.Series[0].Data[0].Value)
	assert.Equal(t, Palette(PaletteViridis)[:3], cfg.Colors)
}

func TestBuildStackedChart(t *testing.T) {
	cfg := BuildStackedChart("Env", sampleResult().EnvironmentSeverity)

	assert.Equal(t, ChartStackedBar, cfg.ChartType)
	assert.Equal(t, "Environment", cfg.XAxis)
	assert.Equal(t, "Severity", cfg.Legend)
	require.Len(t, cfg.Series, 2)
	assert.Equal(t, "Critical", cfg.Series[0].Name)
	assert.Equal(t, []ChartPoint{{"Production", 2}, {"Staging", 1}}, cfg.Series[0].Data)
	assert.Equal(t, []ChartPoint{{"Production", 0}, {"Staging", 3}}, cfg.Series[1].Data)
	assert.NotEqual(t, cfg.Series[0].Color, cfg.Series[1].Color)
}

func TestBuildStackedChartNil(t *testing.T) {
	cfg := BuildStackedChart("Env", nil)
	assert.True(t, cfg.IsEmpty())
}

func TestDashboardChart(t *testing.T) {
	r := sampleResult()
	for _, name := range ChartNames {
		cfg, ok := DashboardChart(name, r, PaletteViridis)
		require.True(t, ok, name)
		assert.False(t, cfg.IsEmpty(), name)
	}

	cats, _ := DashboardChart(ChartCategories, r, PaletteViridis)
	assert.True(t, cats.Horizontal)
	assert.Equal(t, "Bug Category", cats.YAxis)

	_, ok := DashboardChart("pie", r, PaletteViridis)
	assert.False(t, ok)
}

func TestRenderSVG(t *testing.T) {
	r := sampleResult()
	for _, name := range ChartNames {
		t.Run(name, func(t *testing.T) {
			cfg, _ := DashboardChart(name, r, PaletteDefault)
			var buf bytes.Buffer
			require.NoError(t, RenderSVG(cfg, &buf))
			assert.Contains(t, buf.String(), "<svg")
		})
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	cfg := BuildBarChart("Nothing <here>", nil, PaletteDefault)
	var buf bytes.Buffer
	require.NoError(t, RenderSVG(cfg, &buf))
	assert.Contains(t, buf.String(), "No data")
	assert.Contains(t, buf.String(), "Nothing &lt;here&gt;")
}

func TestRenderSVGUnsupported(t *testing.T) {
	cfg := &ChartConfig{ChartType: "pie", Series: []ChartSeries{{Data: []ChartPoint{{"a", 1}}}}}
	err := RenderSVG(cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnsupportedChart)
}

func TestBuildFrequencyTable(t *testing.T) {
	table := BuildFrequencyTable("Severity", "Severity", sampleResult().SeverityDistribution, NewPrinter("en"))

	assert.Equal(t, []string{"Severity", "Bug Count", "Share"}, table.Headers())
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"Critical", "3", "42.9%"}, table.Rows[0])
	assert.Equal(t, []string{"Total", "7", "100.0%"}, table.SummaryRow())
}

func TestBuildFrequencyTableEmpty(t *testing.T) {
	table := BuildFrequencyTable("Severity", "Severity", nil, NewPrinter("en"))
	assert.Empty(t, table.Rows)
	assert.Nil(t, table.SummaryRow())
}

func TestBuildCrossTabTable(t *testing.T) {
	table := BuildCrossTabTable("Env", sampleResult().EnvironmentSeverity, NewPrinter("en"))

	assert.Equal(t, []string{"Environment", "Critical", "High", "Total"}, table.Headers())
	assert.Equal(t, [][]string{
		{"Production", "2", "0", "2"},
		{"Staging", "1", "3", "4"},
	}, table.Rows)
	assert.Equal(t, []string{"Total", "3", "3", "6"}, table.SummaryRow())
}

func TestBuildCrossTabTableColumnNamedTotal(t *testing.T) {
	ct := &engine.CrossTab{
		RowField:    engine.FieldEnvironment,
		ColumnField: engine.FieldSeverity,
		Rows:        []string{"Production", "Staging"},
		Columns:     []string{"total", "environment"},
		Counts:      [][]int{{1, 2}, {3, 4}},
	}

	table := BuildCrossTabTable("Env", ct, NewPrinter("en"))

	assert.Equal(t, []string{"Environment", "total", "environment", "Total"}, table.Headers())
	assert.Equal(t, []string{"Total", "4", "6", "10"}, table.SummaryRow())
}

func TestBuildReport(t *testing.T) {
	report := BuildReport(50000, NewPrinter("en"))

	require.Len(t, report.Sections, 4)
	assert.Contains(t, report.Sections[0].Body, "50,000 software bug reports")

	var md bytes.Buffer
	require.NoError(t, report.WriteMarkdown(&md))
	assert.True(t, strings.HasPrefix(md.String(), "## Analytical Report Summary\n"))
	assert.Contains(t, md.String(), "### Recommendations")

	var txt bytes.Buffer
	require.NoError(t, report.WriteText(&txt))
	assert.Contains(t, txt.String(), "Key Findings\n------------\n")
}

func TestPaletteFallback(t *testing.T) {
	assert.Equal(t, Palette(PaletteDefault), Palette("neon"))
	assert.Equal(t, Palette(PaletteRocket), Palette("Rocket"))
}
