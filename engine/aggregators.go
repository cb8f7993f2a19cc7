package engine

import (
	"sort"
)

// ============================================================================
// AGGREGATORS — Counting, Grouping and Cross-Tabulation via RecordView
// ============================================================================
// All functions operate on RecordView — zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view).
//
// Missing values: an empty cell is "missing". Missing values are not a
// distinct value, never get a frequency entry, and rows missing either field
// are left out of a cross-tab. Count and CountWhere see every row.
// ============================================================================

// Count returns the number of rows in the view.
func Count(view RecordView) int {
	return view.Len()
}

// CountWhere counts rows where field equals value.
func CountWhere(view RecordView, field, value string) (int, error) {
	if err := checkFields(view, field); err != nil {
		return 0, err
	}
	n := 0
	for i := 0; i < view.Len(); i++ {
		if view.Dimension(i, field) == value {
			n++
		}
	}
	return n, nil
}

// DistinctCount returns how many different non-missing values field takes.
func DistinctCount(view RecordView, field string) (int, error) {
	values, err := UniqueValues(view, field)
	if err != nil {
		return 0, err
	}
	return len(values), nil
}

// UniqueValues returns distinct non-missing values of field in first-seen order.
func UniqueValues(view RecordView, field string) ([]string, error) {
	if err := checkFields(view, field); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	result := []string{}
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, field)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result, nil
}

// TopN returns the n most frequent values of field, most frequent first.
// Ties keep the order in which values first appear in the view. n <= 0
// returns every value.
func TopN(view RecordView, field string, n int) (FrequencyTable, error) {
	if err := checkFields(view, field); err != nil {
		return nil, err
	}

	groups := groupBySingle(view, field)
	table := make(FrequencyTable, 0, len(groups))
	for _, g := range groups {
		if g.Key == "" {
			continue
		}
		table = append(table, FrequencyEntry{Value: g.Key, Count: g.View.Len()})
	}

	// Stable: equal counts stay in first-seen order.
	sort.SliceStable(table, func(i, j int) bool { return table[i].Count > table[j].Count })

	if n > 0 && len(table) > n {
		table = table[:n]
	}
	return table, nil
}

// ValueCounts returns the full frequency table of field.
func ValueCounts(view RecordView, field string) (FrequencyTable, error) {
	return TopN(view, field, 0)
}

// CrossTabulate counts rows per (rowField, colField) combination. The grid is
// dense over the observed values of both fields: every pair that never
// occurs together is present with a count of 0.
func CrossTabulate(view RecordView, rowField, colField string) (*CrossTab, error) {
	if err := checkFields(view, rowField, colField); err != nil {
		return nil, err
	}

	ct := &CrossTab{
		RowField:    rowField,
		ColumnField: colField,
		Rows:        []string{},
		Columns:     []string{},
	}

	rowIdx := make(map[string]int)
	colIdx := make(map[string]int)
	type cell struct{ r, c int }
	counts := make(map[cell]int)

	for i := 0; i < view.Len(); i++ {
		rv := view.Dimension(i, rowField)
		cv := view.Dimension(i, colField)
		if rv == "" || cv == "" {
			continue
		}
		r, ok := rowIdx[rv]
		if !ok {
			r = len(ct.Rows)
			rowIdx[rv] = r
			ct.Rows = append(ct.Rows, rv)
		}
		c, ok := colIdx[cv]
		if !ok {
			c = len(ct.Columns)
			colIdx[cv] = c
			ct.Columns = append(ct.Columns, cv)
		}
		counts[cell{r, c}]++
	}

	ct.Counts = make([][]int, len(ct.Rows))
	for r := range ct.Rows {
		ct.Counts[r] = make([]int, len(ct.Columns))
		for c := range ct.Columns {
			ct.Counts[r][c] = counts[cell{r, c}]
		}
	}
	return ct, nil
}

// ============================================================================
// GROUPING
// ============================================================================

// group is one distinct value of a field and the rows that hold it.
type group struct {
	Key  string
	View RecordView
}

// groupBySingle partitions the view by one field, keeping first-seen order.
func groupBySingle(view RecordView, dimension string) []group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]group, 0, len(order))
	for _, key := range order {
		groups = append(groups, group{
			Key:  key,
			View: newSubView(view, grouped[key]),
		})
	}
	return groups
}
