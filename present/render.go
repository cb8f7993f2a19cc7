package present

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ============================================================================
// SVG RENDERING — ChartConfig → go-chart
// ============================================================================

const (
	chartWidth  = 640
	chartHeight = 400
)

// ErrUnsupportedChart is returned for chart types RenderSVG cannot draw.
var ErrUnsupportedChart = errors.New("unsupported chart type")

// RenderSVG draws cfg as SVG into w. A chart without data renders a
// placeholder rather than failing.
func RenderSVG(cfg *ChartConfig, w io.Writer) error {
	if cfg.IsEmpty() {
		return renderPlaceholder(cfg, w)
	}

	switch cfg.ChartType {
	case ChartBar:
		if cfg.Horizontal {
			return renderHorizontalBars(cfg, w)
		}
		return renderBars(cfg, w)
	case ChartStackedBar:
		return renderStackedBars(cfg, w)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedChart, cfg.ChartType)
	}
}

func renderBars(cfg *ChartConfig, w io.Writer) error {
	series := cfg.Series[0]
	bars := make([]chart.Value, 0, len(series.Data))
	var maxValue float64
	for i, p := range series.Data {
		bars = append(bars, chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: fillStyle(colorAt(cfg.Colors, i)),
		})
		maxValue = max(maxValue, p.Value)
	}

	bc := chart.BarChart{
		Title:      cfg.Title,
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   barWidth(len(bars)),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Name:  cfg.YAxis,
			Range: &chart.ContinuousRange{Min: 0, Max: headroom(maxValue)},
		},
		Bars: bars,
	}
	return bc.Render(chart.SVG, w)
}

// go-chart's BarChart is vertical only; a horizontal stacked chart with one
// segment per bar draws the same thing sideways.
func renderHorizontalBars(cfg *ChartConfig, w io.Writer) error {
	series := cfg.Series[0]
	bars := make([]chart.StackedBar, 0, len(series.Data))
	for i, p := range series.Data {
		bars = append(bars, chart.StackedBar{
			Name: p.Label,
			Values: []chart.Value{{
				Label: p.Label,
				Value: p.Value,
				Style: fillStyle(colorAt(cfg.Colors, i)),
			}},
		})
	}

	sbc := chart.StackedBarChart{
		Title:        cfg.Title,
		Width:        chartWidth,
		Height:       chartHeight,
		IsHorizontal: true,
		Background:   chart.Style{Padding: chart.Box{Top: 40, Left: 140, Right: 16, Bottom: 16}},
		Bars:         bars,
	}
	return sbc.Render(chart.SVG, w)
}

func renderStackedBars(cfg *ChartConfig, w io.Writer) error {
	labels := cfg.Labels()
	bars := make([]chart.StackedBar, 0, len(labels))
	for i, label := range labels {
		bar := chart.StackedBar{Name: label}
		for _, s := range cfg.Series {
			if i >= len(s.Data) || s.Data[i].Value == 0 {
				continue
			}
			bar.Values = append(bar.Values, chart.Value{
				Label: s.Name,
				Value: s.Data[i].Value,
				Style: fillStyle(s.Color),
			})
		}
		if len(bar.Values) > 0 {
			bars = append(bars, bar)
		}
	}
	if len(bars) == 0 {
		return renderPlaceholder(cfg, w)
	}

	sbc := chart.StackedBarChart{
		Title:      cfg.Title,
		Width:      chartWidth,
		Height:     chartHeight,
		BarSpacing: 40,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Bars:       bars,
	}
	return sbc.Render(chart.SVG, w)
}

func renderPlaceholder(cfg *ChartConfig, w io.Writer) error {
	title := ""
	if cfg != nil {
		title = cfg.Title
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`, chartWidth, chartHeight)
	fmt.Fprintf(&b, `<text x="%d" y="30" text-anchor="middle" font-family="sans-serif" font-size="16">%s</text>`,
		chartWidth/2, html.EscapeString(title))
	fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle" font-family="sans-serif" fill="#888">No data for the current filters</text>`,
		chartWidth/2, chartHeight/2)
	b.WriteString(`</svg>`)
	_, err := io.WriteString(w, b.String())
	return err
}

func fillStyle(hex string) chart.Style {
	col := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
	return chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1}
}

func colorAt(colors []string, i int) string {
	if len(colors) == 0 {
		p := Palette(PaletteDefault)
		return p[i%len(p)]
	}
	return colors[i%len(colors)]
}

func barWidth(n int) int {
	if n <= 0 {
		return 40
	}
	return max(12, min(60, (chartWidth-80)/n-10))
}

// headroom pads the axis maximum so the tallest bar does not touch the top.
func headroom(v float64) float64 {
	if v < 1 {
		return 1
	}
	return v * 1.1
}
