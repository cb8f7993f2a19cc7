package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopNTieBreaksByFirstSeen(t *testing.T) {
	view := BugReportAdapter.Bind([]BugReport{
		{Severity: "Critical"},
		{Severity: "High"},
		{Severity: "High"},
		{Severity: "Low"},
		{Severity: "Critical"},
	})

	top, err := TopN(view, FieldSeverity, 2)
	require.NoError(t, err)
	assert.Equal(t, FrequencyTable{
		{Value: "Critical", Count: 2},
		{Value: "High", Count: 2},
	}, top)
}

func TestTopNOrdering(t *testing.T) {
	top, err := TopN(bugView(), FieldCategory, 0)
	require.NoError(t, err)
	assert.Equal(t, FrequencyTable{
		{Value: "Memory Leak", Count: 4},
		{Value: "Concurrency", Count: 3},
		{Value: "UI Glitch", Count: 2},
		{Value: "Backend Logic", Count: 1},
	}, top)

	top3, err := TopN(bugView(), FieldCategory, 3)
	require.NoError(t, err)
	assert.Equal(t, top[:3], top3)

	big, err := TopN(bugView(), FieldCategory, 100)
	require.NoError(t, err)
	assert.Equal(t, top, big)
}

func TestValueCountsSumToCount(t *testing.T) {
	view := bugView()
	for _, field := range RequiredFields {
		t.Run(field, func(t *testing.T) {
			distinct, err := DistinctCount(view, field)
			require.NoError(t, err)

			table, err := TopN(view, field, distinct)
			require.NoError(t, err)
			assert.Len(t, table, distinct)
			assert.Equal(t, Count(view), table.Total())
		})
	}
}

func TestCountWhere(t *testing.T) {
	view := bugView()
	tests := []struct {
		field, value string
		want         int
	}{
		{FieldSeverity, "Critical", 3},
		{FieldSeverity, "High", 3},
		{FieldSeverity, "Blocker", 0},
		{FieldDomain, "Backend", 6},
		{FieldEnvironment, "Production", 2},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			n, err := CountWhere(view, tt.field, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestMissingValuesExcluded(t *testing.T) {
	view := NewSliceView([]Record{
		rec("High", "Backend", "Memory Leak", "Production"),
		rec("", "Backend", "", "Production"),
		rec("High", "Cloud", "Memory Leak", ""),
	}, RequiredFields...)

	distinct, err := DistinctCount(view, FieldSeverity)
	require.NoError(t, err)
	assert.Equal(t, 1, distinct)

	counts, err := ValueCounts(view, FieldCategory)
	require.NoError(t, err)
	assert.Equal(t, FrequencyTable{{Value: "Memory Leak", Count: 2}}, counts)

	ct, err := CrossTabulate(view, FieldEnvironment, FieldSeverity)
	require.NoError(t, err)
	assert.Equal(t, []string{"Production"}, ct.Rows)
	assert.Equal(t, []string{"High"}, ct.Columns)
	assert.Equal(t, 1, ct.Total())

	// Count still sees every row.
	assert.Equal(t, 3, Count(view))
	n, err := CountWhere(view, FieldSeverity, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCrossTabDense(t *testing.T) {
	ct, err := CrossTabulate(bugView(), FieldEnvironment, FieldSeverity)
	require.NoError(t, err)

	assert.Equal(t, []string{"Production", "Staging", "Development"}, ct.Rows)
	assert.Equal(t, []string{"Critical", "High", "Low", "Medium"}, ct.Columns)
	require.Len(t, ct.Counts, 3)
	for _, row := range ct.Counts {
		assert.Len(t, row, 4)
	}

	assert.Equal(t, 2, ct.Get("Production", "Critical"))
	assert.Equal(t, 0, ct.Get("Production", "Low"))
	assert.Equal(t, 2, ct.Get("Development", "Low"))
	assert.Equal(t, 0, ct.Get("Nowhere", "Low"))
	assert.Equal(t, 10, ct.Total())
}

func TestCrossTabMarginals(t *testing.T) {
	view := bugView()
	ct, err := CrossTabulate(view, FieldEnvironment, FieldSeverity)
	require.NoError(t, err)

	for _, rowTotal := range ct.RowTotals() {
		byEnv, err := ApplyFilters(view, Filters{Dimensions: map[string][]string{
			FieldEnvironment: {rowTotal.Value},
		}})
		require.NoError(t, err)
		n, err := CountWhere(byEnv, FieldEnvironment, rowTotal.Value)
		require.NoError(t, err)
		assert.Equal(t, n, rowTotal.Count, rowTotal.Value)
	}

	sevCounts, err := ValueCounts(view, FieldSeverity)
	require.NoError(t, err)
	for _, colTotal := range ct.ColumnTotals() {
		assert.Equal(t, sevCounts.Get(colTotal.Value), colTotal.Count, colTotal.Value)
	}
}

func TestCrossTabEmptyView(t *testing.T) {
	empty, err := Filter(bugView(), Selection{})
	require.NoError(t, err)

	ct, err := CrossTabulate(empty, FieldEnvironment, FieldSeverity)
	require.NoError(t, err)
	assert.Empty(t, ct.Rows)
	assert.Empty(t, ct.Columns)
	assert.Empty(t, ct.Counts)
}

func TestUnknownField(t *testing.T) {
	view := bugView()

	_, err := CountWhere(view, "priority", "P1")
	assert.True(t, errors.Is(err, ErrUnknownField))

	_, err = DistinctCount(view, "priority")
	assert.True(t, errors.Is(err, ErrUnknownField))

	_, err = TopN(view, "priority", 3)
	assert.True(t, errors.Is(err, ErrUnknownField))

	_, err = CrossTabulate(view, FieldEnvironment, "priority")
	assert.True(t, errors.Is(err, ErrUnknownField))

	_, err = UniqueValues(view, "priority")
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestUnknownFieldOnEmptyFilteredView(t *testing.T) {
	// The schema survives filtering down to zero rows.
	empty, err := Filter(bugView(), Selection{})
	require.NoError(t, err)

	n, err := DistinctCount(empty, FieldDomain)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = DistinctCount(empty, "priority")
	assert.ErrorIs(t, err, ErrUnknownField)
}
