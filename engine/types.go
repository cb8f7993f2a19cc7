package engine

// ============================================================================
// BUGDASH ENGINE TYPES — Bug Report Analytics
// ============================================================================
// Record carries one CSV row as string dimensions. The core only reads the
// four bug-report fields below; any other column rides along untouched.
//
// Dependency: engine depends on the standard library and log/slog only.
// ============================================================================

// Field keys consumed by the core.
const (
	FieldSeverity    = "severity"
	FieldDomain      = "bug_domain"
	FieldCategory    = "bug_category"
	FieldEnvironment = "environment"
)

// RequiredFields lists the columns every bug-report dataset must carry.
var RequiredFields = []string{FieldSeverity, FieldDomain, FieldCategory, FieldEnvironment}

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row keyed by snake_case column name.
// Record{Dimensions["severity"]="Critical", Dimensions["bug_domain"]="Backend"}
type Record struct {
	Dimensions map[string]string `json:"dimensions"`
}

// BugReport is the typed form of a row. Bind a []BugReport with
// BugReportAdapter to get a RecordView without copying.
type BugReport struct {
	Severity    string `json:"severity"`
	Domain      string `json:"bug_domain"`
	Category    string `json:"bug_category"`
	Environment string `json:"environment"`
}

// BugReportAdapter exposes BugReport fields under the core field keys.
var BugReportAdapter = NewDomainAdapter[BugReport]().
	Dimension(FieldSeverity, func(b BugReport) string { return b.Severity }).
	Dimension(FieldDomain, func(b BugReport) string { return b.Domain }).
	Dimension(FieldCategory, func(b BugReport) string { return b.Category }).
	Dimension(FieldEnvironment, func(b BugReport) string { return b.Environment })

// ============================================================================
// FILTERS
// ============================================================================

// Filters define which records to include.
// Keys are dimension names. Values are allowed values.
// OR within a dimension, AND across dimensions.
//
// A dimension absent from the map is unrestricted. A dimension present with
// an empty value list matches nothing.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
}

// IsEmpty returns true if no dimension is constrained.
func (f Filters) IsEmpty() bool {
	return len(f.Dimensions) == 0
}

// Selection is the dashboard's filter state: which severities and which
// bug domains are selected.
type Selection struct {
	Severities []string `json:"severities"`
	Domains    []string `json:"domains"`
}

// Filters converts a Selection into generic dimension Filters.
// Both fields are always constrained, so an empty list selects nothing.
func (s Selection) Filters() Filters {
	sev := s.Severities
	if sev == nil {
		sev = []string{}
	}
	dom := s.Domains
	if dom == nil {
		dom = []string{}
	}
	return Filters{Dimensions: map[string][]string{
		FieldSeverity: sev,
		FieldDomain:   dom,
	}}
}

// ============================================================================
// AGGREGATE SHAPES
// ============================================================================

// FrequencyEntry is one value and the number of rows holding it.
type FrequencyEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FrequencyTable is ordered by descending count; ties keep first-seen order.
type FrequencyTable []FrequencyEntry

// Total sums every count in the table.
func (t FrequencyTable) Total() int {
	total := 0
	for _, e := range t {
		total += e.Count
	}
	return total
}

// Get returns the count for value, or 0 when the value is not in the table.
func (t FrequencyTable) Get(value string) int {
	for _, e := range t {
		if e.Value == value {
			return e.Count
		}
	}
	return 0
}

// CrossTab is a dense count grid over two fields.
// Rows and Columns hold observed values in first-seen order;
// Counts[i][j] is the number of rows with (Rows[i], Columns[j]).
type CrossTab struct {
	RowField    string   `json:"rowField"`
	ColumnField string   `json:"columnField"`
	Rows        []string `json:"rows"`
	Columns     []string `json:"columns"`
	Counts      [][]int  `json:"counts"`
}

// Get returns the cell count for (row, col). Unobserved pairs are 0.
func (c *CrossTab) Get(row, col string) int {
	i := indexOf(c.Rows, row)
	j := indexOf(c.Columns, col)
	if i < 0 || j < 0 {
		return 0
	}
	return c.Counts[i][j]
}

// RowTotals returns the marginal count for each row value.
func (c *CrossTab) RowTotals() FrequencyTable {
	out := make(FrequencyTable, len(c.Rows))
	for i, r := range c.Rows {
		sum := 0
		for _, n := range c.Counts[i] {
			sum += n
		}
		out[i] = FrequencyEntry{Value: r, Count: sum}
	}
	return out
}

// ColumnTotals returns the marginal count for each column value.
func (c *CrossTab) ColumnTotals() FrequencyTable {
	out := make(FrequencyTable, len(c.Columns))
	for j, col := range c.Columns {
		sum := 0
		for i := range c.Rows {
			sum += c.Counts[i][j]
		}
		out[j] = FrequencyEntry{Value: col, Count: sum}
	}
	return out
}

// Total sums every cell.
func (c *CrossTab) Total() int {
	total := 0
	for _, row := range c.Counts {
		for _, n := range row {
			total += n
		}
	}
	return total
}

// ============================================================================
// RESULT — Render-ready output of the pipeline
// ============================================================================

// KPIs are the scalar headline numbers.
type KPIs struct {
	TotalBugs  int           `json:"totalBugs"`
	BySeverity []SeverityKPI `json:"bySeverity"`
	Domains    int           `json:"domains"`
}

// SeverityKPI is the count of filtered rows with one severity.
type SeverityKPI struct {
	Severity string `json:"severity"`
	Count    int    `json:"count"`
}

// FilterOptions are the values a user may pick from, taken from the full
// relation so that narrowing one filter never hides choices. An empty string
// stands for rows with no value in that field.
type FilterOptions struct {
	Severities []string `json:"severities"`
	Domains    []string `json:"domains"`
}

// Result is the pipeline's output. It holds data shapes only: no colors,
// no locale formatting, no narrative.
type Result struct {
	Selection            Selection      `json:"selection"`
	Options              FilterOptions  `json:"options"`
	KPIs                 KPIs           `json:"kpis"`
	TopCategories        FrequencyTable `json:"topCategories"`
	SeverityDistribution FrequencyTable `json:"severityDistribution"`
	EnvironmentSeverity  *CrossTab      `json:"environmentSeverity"`
	TotalRows            int            `json:"totalRows"`
}

func indexOf(items []string, v string) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return -1
}
