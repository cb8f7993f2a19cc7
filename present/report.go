package present

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/message"
)

// ============================================================================
// REPORT — Static narrative shown under the dashboard
// ============================================================================
// The wording is fixed; only the dataset size is filled in.
// ============================================================================

// Dashboard copy.
const (
	DashboardTitle       = "Bug Reports Analytics Dashboard"
	DashboardDescription = "An interactive dashboard for exploring patterns in software bug reports."
)

// Chart captions keyed by chart name.
var Captions = map[string]string{
	ChartCategories: "Memory, concurrency, and backend-related bugs dominate, " +
		"highlighting persistent challenges in core system stability.",
	ChartSeverity: "A significant proportion of bugs fall under High and Critical severity, " +
		"indicating notable operational risk.",
	ChartEnvironment: "Although most bugs are detected during development and staging, " +
		"critical issues still appear in production, suggesting gaps in pre-deployment testing.",
}

// Section is one heading of the narrative.
type Section struct {
	Heading string   `json:"heading"`
	Body    string   `json:"body,omitempty"`
	Bullets []string `json:"bullets,omitempty"`
}

// Report is the analytical summary.
type Report struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// BuildReport fills the narrative for a dataset of totalRows reports.
func BuildReport(totalRows int, p *message.Printer) Report {
	return Report{
		Title: "Analytical Report Summary",
		Sections: []Section{
			{
				Heading: "Overview",
				Body: fmt.Sprintf("This dashboard analyzed %s software bug reports to identify patterns in bug categories, "+
					"severity levels, affected domains, environments, and risk areas. Interactive filters were used "+
					"to explore how bug behavior changes across different conditions.", FormatCount(p, totalRows)),
			},
			{
				Heading: "Key Findings",
				Bullets: []string{
					"Memory leaks, concurrency issues, and backend logic bugs are the most frequently reported, " +
						"indicating persistent challenges in core system stability.",
					"A significant proportion of bugs are classified as High or Critical severity, highlighting " +
						"non-trivial operational risk.",
					"Although most bugs are detected during development and staging, critical issues still " +
						"appear in production environments.",
					"Backend, cloud, and DevOps-related domains show a higher concentration of severe bugs, " +
						"suggesting greater complexity and risk in infrastructure components.",
				},
			},
			{
				Heading: "Recommendations",
				Bullets: []string{
					"Strengthen pre-production testing and validation, especially for backend and cloud systems.",
					"Introduce automated monitoring and memory profiling tools to reduce recurring bug types.",
					"Prioritize high-risk domains and technologies for code reviews and refactoring.",
					"Use dashboards like this regularly to support data-driven quality improvement decisions.",
				},
			},
			{
				Heading: "Conclusion",
				Body: "This analysis demonstrates how exploratory data analysis and visualization can be used to " +
					"gain actionable insights from bug report data. The findings can help engineering teams improve " +
					"software quality, reduce production risk, and allocate resources more effectively.",
			},
		},
	}
}

// WriteMarkdown writes the report as Markdown.
func (r Report) WriteMarkdown(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", r.Title)
	for _, s := range r.Sections {
		fmt.Fprintf(&b, "\n### %s\n\n", s.Heading)
		if s.Body != "" {
			b.WriteString(s.Body)
			b.WriteString("\n")
		}
		for _, item := range s.Bullets {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteText writes the report as plain text with underlined headings.
func (r Report) WriteText(w io.Writer) error {
	var b strings.Builder
	b.WriteString(r.Title + "\n")
	b.WriteString(strings.Repeat("=", len(r.Title)) + "\n")
	for _, s := range r.Sections {
		b.WriteString("\n" + s.Heading + "\n")
		b.WriteString(strings.Repeat("-", len(s.Heading)) + "\n")
		if s.Body != "" {
			b.WriteString(s.Body + "\n")
		}
		for _, item := range s.Bullets {
			b.WriteString("  * " + item + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
