package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"github.com/spektr-org/bugdash/engine"
	"github.com/spektr-org/bugdash/present"
)

// ============================================================================
// REPORT — the dashboard as a terminal report
// ============================================================================

// Report output formats.
const (
	formatText     = "text"
	formatJSON     = "json"
	formatCSV      = "csv"
	formatMarkdown = "markdown"
)

var reportFormats = []string{formatText, formatJSON, formatCSV, formatMarkdown}

type reportOptions struct {
	severities []string
	domains    []string
	top        int
	format     string
	out        string
	locale     string
	palette    string
}

func newReportCommand() *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the dashboard as a report",
		Long: `Compute the dashboard for one filter selection and print it.

Without --severity or --domain every value is selected. Passing a flag with
an empty value (--severity=) selects nothing for that field.`,
		Example: `  bugdash report
  bugdash report --severity Critical --severity High --domain Backend
  bugdash report --format markdown --out report.md
  bugdash report --format csv --top 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := getApp(cmd.Context())
			if err != nil {
				return err
			}
			opts.palette = a.cfg.Dashboard.Palette
			opts.locale = a.cfg.Dashboard.Locale

			view, err := a.load()
			if err != nil {
				return err
			}

			sel, err := engine.DefaultSelection(view)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("severity") {
				sel.Severities = opts.severities
			}
			if cmd.Flags().Changed("domain") {
				sel.Domains = opts.domains
			}

			engineOpts := a.engineOptions()
			if opts.top > 0 {
				engineOpts = append(engineOpts, engine.WithTopCategories(opts.top))
			}
			result, err := engine.Execute(view, sel, engineOpts...)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.out != "" {
				f, err := a.fs.Create(opts.out)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			if err := renderReport(w, result, opts); err != nil {
				return err
			}
			if opts.out != "" {
				a.logger.Info("report written", "path", opts.out, "format", opts.format)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&opts.severities, "severity", nil, "Severity to include (repeatable)")
	cmd.Flags().StringSliceVar(&opts.domains, "domain", nil, "Bug domain to include (repeatable)")
	cmd.Flags().IntVar(&opts.top, "top", 0, "Number of bug categories to list (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "Output format (text|json|csv|markdown)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write output to file instead of stdout")
	cmd.Flags().String("locale", "en", "Locale for number formatting")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return reportFormats, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func renderReport(w io.Writer, r *engine.Result, opts *reportOptions) error {
	p := present.NewPrinter(opts.locale)
	switch opts.format {
	case formatText:
		return renderText(w, r, p)
	case formatMarkdown:
		return renderMarkdown(w, r, p)
	case formatJSON:
		return renderJSON(w, r, p, opts.palette)
	case formatCSV:
		return renderCSV(w, r, opts.palette)
	default:
		return fmt.Errorf("unknown format %q (want one of %v)", opts.format, reportFormats)
	}
}

func reportTables(r *engine.Result, p *message.Printer) []*present.TableData {
	return []*present.TableData{
		present.BuildFrequencyTable("Most Common Bug Categories", "Bug Category", r.TopCategories, p),
		present.BuildFrequencyTable("Bug Severity Distribution", "Severity", r.SeverityDistribution, p),
		present.BuildCrossTabTable("Bug Severity by Environment", r.EnvironmentSeverity, p),
	}
}

// ============================================================================
// TEXT
// ============================================================================

var (
	colorBold   = color.New(color.Bold)
	colorRed    = color.New(color.FgRed, color.Bold)
	colorYellow = color.New(color.FgYellow, color.Bold)
	colorGreen  = color.New(color.FgGreen, color.Bold)
	colorDim    = color.New(color.Faint)
)

// colorKPI colors a KPI value by the severity it counts.
func colorKPI(card present.KPICard) string {
	switch card.Label {
	case "Critical Bugs":
		return colorRed.Sprint(card.Value)
	case "High Bugs":
		return colorYellow.Sprint(card.Value)
	default:
		return colorGreen.Sprint(card.Value)
	}
}

func renderText(w io.Writer, r *engine.Result, p *message.Printer) error {
	_, _ = colorBold.Fprintln(w, present.DashboardTitle)
	_, _ = colorDim.Fprintf(w, "Showing %s of %s bug reports\n\n",
		present.FormatCount(p, r.KPIs.TotalBugs), present.FormatCount(p, r.TotalRows))

	for _, card := range present.BuildKPIs(r, p) {
		_, _ = fmt.Fprintf(w, "  %-20s %s\n", card.Label, colorKPI(card))
	}
	_, _ = fmt.Fprintln(w)

	for _, td := range reportTables(r, p) {
		_, _ = colorBold.Fprintln(w, td.Title)
		if len(td.Rows) == 0 {
			_, _ = fmt.Fprintln(w, "(0 rows)")
			_, _ = fmt.Fprintln(w)
			continue
		}
		t := prettyTable(w, td)
		t.SetStyle(table.StyleLight)
		t.Render()
		_, _ = fmt.Fprintln(w)
	}

	return present.BuildReport(r.TotalRows, p).WriteText(w)
}

// ============================================================================
// MARKDOWN
// ============================================================================

func renderMarkdown(w io.Writer, r *engine.Result, p *message.Printer) error {
	_, _ = fmt.Fprintf(w, "# %s\n\n", present.DashboardTitle)
	_, _ = fmt.Fprintf(w, "Showing %s of %s bug reports.\n\n",
		present.FormatCount(p, r.KPIs.TotalBugs), present.FormatCount(p, r.TotalRows))

	for _, card := range present.BuildKPIs(r, p) {
		_, _ = fmt.Fprintf(w, "- **%s:** %s\n", card.Label, card.Value)
	}
	_, _ = fmt.Fprintln(w)

	for _, td := range reportTables(r, p) {
		_, _ = fmt.Fprintf(w, "### %s\n\n", td.Title)
		if len(td.Rows) == 0 {
			_, _ = fmt.Fprintln(w, "_No data._")
			_, _ = fmt.Fprintln(w)
			continue
		}
		prettyTable(w, td).RenderMarkdown()
		_, _ = fmt.Fprintln(w)
	}

	return present.BuildReport(r.TotalRows, p).WriteMarkdown(w)
}

func prettyTable(w io.Writer, td *present.TableData) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, len(td.Columns))
	configs := make([]table.ColumnConfig, 0, len(td.Columns))
	for i, c := range td.Columns {
		header[i] = c.Label
		if c.Align == "right" {
			configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight})
		}
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	for _, row := range td.Rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	if summary := td.SummaryRow(); summary != nil {
		footer := make(table.Row, len(summary))
		for i, v := range summary {
			footer[i] = v
		}
		t.AppendFooter(footer)
	}
	return t
}

// ============================================================================
// JSON
// ============================================================================

type reportOutput struct {
	Selection engine.Selection                `json:"selection"`
	KPIs      []present.KPICard               `json:"kpis"`
	Charts    map[string]*present.ChartConfig `json:"charts"`
	Result    *engine.Result                  `json:"result"`
	Report    present.Report                  `json:"report"`
}

func renderJSON(w io.Writer, r *engine.Result, p *message.Printer, palette string) error {
	out := reportOutput{
		Selection: r.Selection,
		KPIs:      present.BuildKPIs(r, p),
		Charts:    make(map[string]*present.ChartConfig, len(present.ChartNames)),
		Result:    r,
		Report:    present.BuildReport(r.TotalRows, p),
	}
	for _, name := range present.ChartNames {
		out.Charts[name], _ = present.DashboardChart(name, r, palette)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ============================================================================
// CSV — one section per chart, separated by a blank line
// ============================================================================

func renderCSV(w io.Writer, r *engine.Result, palette string) error {
	for i, name := range present.ChartNames {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		cfg, _ := present.DashboardChart(name, r, palette)
		cw := csv.NewWriter(w)
		writeChartCSV(cw, cfg)
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
	}
	return nil
}

func writeChartCSV(cw *csv.Writer, cfg *present.ChartConfig) {
	xLabel := cfg.XAxis
	yLabel := cfg.YAxis
	if cfg.Horizontal {
		xLabel, yLabel = yLabel, xLabel
	}
	if xLabel == "" {
		xLabel = "Label"
	}
	if yLabel == "" {
		yLabel = "Value"
	}

	// Single series → two columns
	if len(cfg.Series) == 1 {
		_ = cw.Write([]string{xLabel, yLabel})
		for _, d := range cfg.Series[0].Data {
			_ = cw.Write([]string{d.Label, fmtNum(d.Value)})
		}
		return
	}

	// Multi-series → label + one column per series
	headers := []string{xLabel}
	for _, s := range cfg.Series {
		headers = append(headers, s.Name)
	}
	_ = cw.Write(headers)

	for i, label := range cfg.Labels() {
		row := []string{label}
		for _, s := range cfg.Series {
			if i < len(s.Data) {
				row = append(row, fmtNum(s.Data[i].Value))
			} else {
				row = append(row, "")
			}
		}
		_ = cw.Write(row)
	}
}

func fmtNum(v float64) string {
	// Whole numbers → no decimals, fractional → 2 decimals
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
