package schema

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ============================================================================
// AUTO-DISCOVERY — Column profiling for `bugdash schema`
// ============================================================================
// Every column gets a profile: value type, distinct count, missing count and
// a handful of sorted samples. The profile decides the column's role:
//
//   - the four bug-report columns are always required dimensions
//   - numeric columns with fractional values are measures
//   - columns unique per row (ids, free text) are skipped
//   - very high cardinality text is skipped but recoverable
//   - everything else is a dimension
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize     int      // Max rows to inspect (0 = all). Default: 1000
	RecoverColumns []string // Force-include columns that were auto-skipped
	Name           string   // Dataset name override
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{SampleSize: 1000}
}

// maxRows bounds how much of a file "all rows" reads.
const maxRows = 100000

// DiscoverFromCSV generates a Config by inspecting CSV data.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	headers, rows, err := readSample(data, opt.SampleSize)
	if err != nil {
		return nil, err
	}

	required := make(map[string]DimensionMeta)
	for _, d := range BugReports().Dimensions {
		required[d.Key] = d
	}
	recovered := make(map[string]bool)
	for _, col := range opt.RecoverColumns {
		recovered[ToSnakeCase(col)] = true
	}

	config := &Config{
		Name:           opt.Name,
		Version:        "1.0",
		DiscoveredFrom: "CSV",
		DiscoveredAt:   time.Now().Format(time.RFC3339),
		RowsSampled:    len(rows),
	}
	if config.Name == "" {
		config.Name = "Auto-discovered Bug Reports"
	}

	for i, header := range headers {
		p := profileColumn(header, i, rows)
		if req, ok := required[p.key]; ok {
			config.Dimensions = append(config.Dimensions, p.dimension(&req))
			continue
		}

		role, reason, recoverable := p.classify(len(rows))
		if role == roleSkipped && recovered[p.key] {
			role = roleDimension
		}
		switch role {
		case roleDimension:
			config.Dimensions = append(config.Dimensions, p.dimension(nil))
		case roleMeasure:
			config.Measures = append(config.Measures, MeasureMeta{
				Key:         p.key,
				DisplayName: ToDisplayName(p.header),
				HasDecimals: p.decimals,
			})
		case roleSkipped:
			config.SkippedColumns = append(config.SkippedColumns, SkippedColumn{
				Column:      p.header,
				Reason:      reason,
				Recoverable: recoverable,
			})
		}
	}

	return config, nil
}

// readSample returns the header and up to limit data rows. Rows the CSV
// reader rejects are skipped.
func readSample(data []byte, limit int) ([]string, [][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) == 0 {
		return nil, nil, errors.New("CSV has no columns")
	}

	if limit <= 0 || limit > maxRows {
		limit = maxRows
	}
	var rows [][]string
	for len(rows) < limit {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("CSV has no data rows")
	}
	return headers, rows, nil
}

// ============================================================================
// COLUMN PROFILE
// ============================================================================

type columnRole int

const (
	roleDimension columnRole = iota
	roleMeasure
	roleSkipped
)

// Value types as reported in DimensionMeta.Type.
const (
	TypeText   = "text"
	TypeNumber = "number"
	TypeDate   = "date"
	TypeBool   = "bool"
)

type columnProfile struct {
	header   string
	key      string
	kind     string
	unique   int
	missing  int
	decimals bool
	samples  []string
}

func profileColumn(header string, index int, rows [][]string) columnProfile {
	p := columnProfile{
		header: strings.TrimSpace(header),
		key:    ToSnakeCase(header),
		kind:   TypeText,
	}

	seen := make(map[string]bool)
	var values []string
	for _, row := range rows {
		if index >= len(row) || isMissing(strings.TrimSpace(row[index])) {
			p.missing++
			continue
		}
		v := strings.TrimSpace(row[index])
		values = append(values, v)
		seen[v] = true
	}
	p.unique = len(seen)
	p.samples = sortedSample(seen, 10)
	if len(values) == 0 {
		return p
	}

	p.kind = valueKind(values)
	if p.kind == TypeNumber {
		for _, v := range values {
			if strings.Contains(v, ".") {
				p.decimals = true
				break
			}
		}
	}
	return p
}

// classify picks the role of a column that is not one of the bug-report
// columns.
func (p columnProfile) classify(rows int) (role columnRole, reason string, recoverable bool) {
	switch {
	case p.unique == 0:
		return roleSkipped, "All values are empty/null", false
	case p.unique == rows && rows > 10:
		return roleSkipped, "Unique per row, likely an identifier", false
	case p.kind == TypeNumber && p.decimals:
		return roleMeasure, "", false
	case p.kind == TypeNumber && (p.unique >= 20 || float64(p.unique)/float64(rows) >= 0.3):
		return roleMeasure, "", false
	case p.kind == TypeText && p.unique > rows/2 && p.unique > 50:
		return roleSkipped, fmt.Sprintf("High cardinality (%d unique values)", p.unique), true
	}
	return roleDimension, "", false
}

// dimension converts the profile. req carries the fixed metadata of a
// required column, or nil.
func (p columnProfile) dimension(req *DimensionMeta) DimensionMeta {
	d := DimensionMeta{
		Key:             p.key,
		DisplayName:     ToDisplayName(p.header),
		SampleValues:    p.samples,
		Filterable:      p.unique <= 10,
		Type:            p.kind,
		UniqueCount:     p.unique,
		MissingCount:    p.missing,
		CardinalityHint: cardinality(p.unique),
	}
	if req != nil {
		d.DisplayName = req.DisplayName
		d.Description = req.Description
		d.Required = true
		d.Filterable = req.Filterable
	}
	return d
}

func cardinality(unique int) string {
	switch {
	case unique <= 10:
		return "low"
	case unique <= 100:
		return "medium"
	}
	return "high"
}

// ============================================================================
// VALUE TYPES
// ============================================================================

func isMissing(v string) bool {
	switch v {
	case "", "null", "NULL", "N/A", "n/a", "NaN", "nan":
		return true
	}
	return false
}

// valueKind returns the type at least 80% of values parse as, text otherwise.
func valueKind(values []string) string {
	counts := make(map[string]int, 3)
	for _, v := range values {
		switch {
		case isBool(v):
			counts[TypeBool]++
		case isNumeric(v):
			counts[TypeNumber]++
		case isDate(v):
			counts[TypeDate]++
		}
	}
	threshold := len(values) * 4 / 5
	for _, kind := range []string{TypeBool, TypeNumber, TypeDate} {
		if counts[kind] > 0 && counts[kind] >= threshold {
			return kind
		}
	}
	return TypeText
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return err == nil
}

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"01/02/2006",
	"Jan 2, 2006",
}

func isDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// ToSnakeCase converts "Column Name" or "columnName" → "column_name".
func ToSnakeCase(s string) string {
	s = strings.TrimSpace(s)
	var result strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}

	s = strings.ToLower(result.String())
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

// ToDisplayName cleans a header for human display.
// "bug_domain" → "Bug Domain", "Environment" → "Environment"
func ToDisplayName(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, " ") {
		return s
	}
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}

// sortedSample returns up to n values of set in sorted order.
func sortedSample(set map[string]bool, n int) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}
