package present

import (
	"fmt"

	"golang.org/x/text/message"

	"github.com/spektr-org/bugdash/engine"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from engine aggregates
// ============================================================================

// BuildFrequencyTable lists each value with its count and share of the total.
// label names the value column.
func BuildFrequencyTable(title, label string, table engine.FrequencyTable, p *message.Printer) *TableData {
	columns := []Column{
		{Key: "value", Label: label, Type: "text", Align: "left"},
		{Key: "count", Label: "Bug Count", Type: "number", Align: "right"},
		{Key: "share", Label: "Share", Type: "percent", Align: "right"},
	}
	if len(table) == 0 {
		return &TableData{Title: title, Columns: columns, Rows: [][]string{}}
	}

	total := table.Total()
	rows := make([][]string, 0, len(table))
	for _, e := range table {
		rows = append(rows, []string{
			e.Value,
			p.Sprintf("%d", e.Count),
			formatShare(e.Count, total),
		})
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: "Total",
			Values: map[string]string{
				"count": p.Sprintf("%d", total),
				"share": "100.0%",
			},
		},
	}
}

// BuildCrossTabTable lays a crosstab out as a grid with a total column and a
// column-total footer.
func BuildCrossTabTable(title string, ct *engine.CrossTab, p *message.Printer) *TableData {
	if ct == nil {
		return &TableData{Title: title, Columns: []Column{}, Rows: [][]string{}}
	}

	columns := make([]Column, 0, len(ct.Columns)+2)
	columns = append(columns, Column{Key: "row:" + ct.RowField, Label: labelFor(ct.RowField), Type: "text", Align: "left"})
	for _, col := range ct.Columns {
		columns = append(columns, Column{Key: columnKey(col), Label: col, Type: "number", Align: "right"})
	}
	columns = append(columns, Column{Key: "total", Label: "Total", Type: "number", Align: "right"})

	rowTotals := ct.RowTotals()
	rows := make([][]string, 0, len(ct.Rows))
	for i, r := range ct.Rows {
		row := make([]string, 0, len(columns))
		row = append(row, r)
		for _, n := range ct.Counts[i] {
			row = append(row, p.Sprintf("%d", n))
		}
		row = append(row, p.Sprintf("%d", rowTotals[i].Count))
		rows = append(rows, row)
	}

	summary := &Summary{Label: "Total", Values: make(map[string]string, len(ct.Columns)+1)}
	for _, e := range ct.ColumnTotals() {
		summary.Values[columnKey(e.Value)] = p.Sprintf("%d", e.Count)
	}
	summary.Values["total"] = p.Sprintf("%d", ct.Total())

	return &TableData{Title: title, Columns: columns, Rows: rows, Summary: summary}
}

// SummaryRow returns the summary as a row aligned with the table's columns.
// The first column carries the summary label.
func (t *TableData) SummaryRow() []string {
	if t.Summary == nil || len(t.Columns) == 0 {
		return nil
	}
	row := make([]string, len(t.Columns))
	row[0] = t.Summary.Label
	for i, c := range t.Columns[1:] {
		row[i+1] = t.Summary.Values[c.Key]
	}
	return row
}

// columnKey keys a crosstab value column apart from the fixed columns.
func columnKey(value string) string {
	return "col:" + value
}

func formatShare(n, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}
