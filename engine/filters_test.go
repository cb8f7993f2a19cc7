package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterByDomain(t *testing.T) {
	view := bugView()
	sel := Selection{
		Severities: []string{"Critical", "High", "Low", "Medium"},
		Domains:    []string{"Backend"},
	}

	filtered, err := Filter(view, sel)
	require.NoError(t, err)
	assert.Equal(t, 6, Count(filtered))

	n, err := DistinctCount(filtered, FieldDomain)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFilterAllReproducesRelation(t *testing.T) {
	view := bugView()
	sel, err := DefaultSelection(view)
	require.NoError(t, err)

	filtered, err := Filter(view, sel)
	require.NoError(t, err)
	assert.Equal(t, Rows(view), Rows(filtered))
}

func TestFilterEmptySelectionMatchesNothing(t *testing.T) {
	view := bugView()
	all, err := DefaultSelection(view)
	require.NoError(t, err)

	tests := []struct {
		name string
		sel  Selection
	}{
		{"no severities", Selection{Severities: []string{}, Domains: all.Domains}},
		{"nil severities", Selection{Domains: all.Domains}},
		{"no domains", Selection{Severities: all.Severities, Domains: []string{}}},
		{"nothing", Selection{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered, err := Filter(view, tt.sel)
			require.NoError(t, err)
			assert.Equal(t, 0, Count(filtered))
		})
	}
}

func TestFilterUnknownValueMatchesNothing(t *testing.T) {
	filtered, err := Filter(bugView(), Selection{
		Severities: []string{"Blocker"},
		Domains:    []string{"Backend"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, Count(filtered))
}

func TestFilterIsCaseSensitive(t *testing.T) {
	filtered, err := Filter(bugView(), Selection{
		Severities: []string{"critical"},
		Domains:    []string{"Backend", "Frontend"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, Count(filtered))
}

func TestFilterPreservesOrder(t *testing.T) {
	view := bugView()
	filtered, err := Filter(view, Selection{
		Severities: []string{"Critical"},
		Domains:    []string{"Backend", "Frontend"},
	})
	require.NoError(t, err)
	require.Equal(t, 3, filtered.Len())

	cats := []string{}
	for i := 0; i < filtered.Len(); i++ {
		cats = append(cats, filtered.Dimension(i, FieldCategory))
	}
	assert.Equal(t, []string{"Memory Leak", "Concurrency", "Concurrency"}, cats)
	assert.Equal(t, "Production", filtered.Dimension(1, FieldEnvironment))
}

func TestFilterNeverGrows(t *testing.T) {
	view := bugView()
	selections := []Selection{
		{Severities: []string{"High"}, Domains: []string{"Frontend"}},
		{Severities: []string{"Low", "Medium"}, Domains: []string{"Backend", "Cloud"}},
		{Severities: []string{"Critical", "High", "Low", "Medium"}, Domains: []string{"Backend", "Frontend"}},
	}
	for _, sel := range selections {
		filtered, err := Filter(view, sel)
		require.NoError(t, err)
		assert.LessOrEqual(t, Count(filtered), Count(view))
	}
}

func TestFilterIdempotent(t *testing.T) {
	view := bugView()
	once, err := Filter(view, Selection{
		Severities: []string{"High", "Critical"},
		Domains:    []string{"Backend"},
	})
	require.NoError(t, err)

	own, err := DefaultSelection(once)
	require.NoError(t, err)
	twice, err := Filter(once, own)
	require.NoError(t, err)

	assert.Equal(t, Rows(once), Rows(twice))
}

func TestApplyFiltersUnknownField(t *testing.T) {
	_, err := ApplyFilters(bugView(), Filters{Dimensions: map[string][]string{"priority": {"P1"}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownField))

	var ufe *UnknownFieldError
	require.True(t, errors.As(err, &ufe))
	assert.Equal(t, "priority", ufe.Field)
}

func TestApplyFiltersNoConstraint(t *testing.T) {
	view := bugView()
	filtered, err := ApplyFilters(view, Filters{})
	require.NoError(t, err)
	assert.Same(t, view, filtered)
}

func TestNormalizeSelection(t *testing.T) {
	sel, err := NormalizeSelection(bugView(), Selection{
		Severities: []string{"Low", "Blocker", "Critical", "Low"},
		Domains:    []string{"Frontend"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Critical", "Low"}, sel.Severities)
	assert.Equal(t, []string{"Frontend"}, sel.Domains)
}

func TestApplyFiltersUnknownFieldBeatsEmptySet(t *testing.T) {
	filters := Filters{Dimensions: map[string][]string{
		FieldSeverity: {},
		"priority":    {"P1"},
	}}
	for i := 0; i < 50; i++ {
		_, err := ApplyFilters(bugView(), filters)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrUnknownField))
	}
}

func TestDefaultSelectionKeepsMissingValues(t *testing.T) {
	view := NewSliceView([]Record{
		rec("High", "Backend", "Memory Leak", "Production"),
		rec("", "Backend", "Concurrency", "Staging"),
		rec("Low", "", "UI Glitch", "Development"),
	}, RequiredFields...)

	sel, err := DefaultSelection(view)
	require.NoError(t, err)
	assert.Equal(t, []string{"High", "", "Low"}, sel.Severities)
	assert.Equal(t, []string{"Backend", ""}, sel.Domains)

	filtered, err := Filter(view, sel)
	require.NoError(t, err)
	assert.Equal(t, Rows(view), Rows(filtered))

	n, err := DistinctCount(view, FieldSeverity)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	only, err := Filter(view, Selection{Severities: []string{""}, Domains: sel.Domains})
	require.NoError(t, err)
	assert.Equal(t, 1, Count(only))
}

func TestNormalizeSelectionKeepsMissingValue(t *testing.T) {
	view := NewSliceView([]Record{
		rec("High", "Backend", "Memory Leak", "Production"),
		rec("", "Backend", "Concurrency", "Staging"),
	}, RequiredFields...)

	sel, err := NormalizeSelection(view, Selection{
		Severities: []string{"", "Blocker"},
		Domains:    []string{"Backend"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{""}, sel.Severities)
	assert.Equal(t, []string{"Backend"}, sel.Domains)
}
