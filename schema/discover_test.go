package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bugsCSV = []byte(`bug_id,severity,bug_domain,bug_category,environment,reported_month,fix_hours
BUG-001,Critical,Backend,Memory Leak,Production,Jan-2026,12.5
BUG-002,High,Backend,Concurrency,Staging,Jan-2026,4
BUG-003,High,Frontend,UI Glitch,Development,Feb-2026,2.25
BUG-004,Low,Backend,Memory Leak,Development,Feb-2026,1
BUG-005,Critical,Frontend,UI Glitch,Production,Feb-2026,9.75
BUG-006,Medium,Cloud,Networking,Staging,Mar-2026,3.5
BUG-007,Low,Frontend,UI Glitch,Development,Mar-2026,0.5
BUG-008,High,Cloud,Networking,Development,Mar-2026,6
BUG-009,Medium,DevOps,Pipeline,Staging,Mar-2026,2
BUG-010,Critical,DevOps,Pipeline,Development,Apr-2026,8
BUG-011,High,Backend,Memory Leak,Production,Apr-2026,5.5
BUG-012,Low,Cloud,Networking,Staging,Apr-2026,4
`)

func TestDiscoverBugCSV(t *testing.T) {
	config, err := DiscoverFromCSV(bugsCSV)
	require.NoError(t, err)

	assert.Equal(t, 12, config.RowsSampled)
	assert.Equal(t, "CSV", config.DiscoveredFrom)

	dims := config.DimensionKeys()
	for _, key := range []string{"severity", "bug_domain", "bug_category", "environment", "reported_month"} {
		assert.Contains(t, dims, key)
	}
	assert.Contains(t, config.MeasureKeys(), "fix_hours")

	skipped := make([]string, 0, len(config.SkippedColumns))
	for _, s := range config.SkippedColumns {
		skipped = append(skipped, s.Column)
		if s.Column == "bug_id" {
			assert.False(t, s.Recoverable)
		}
	}
	assert.Contains(t, skipped, "bug_id")

	sev, ok := config.Dimension("severity")
	require.True(t, ok)
	assert.True(t, sev.Required)
	assert.True(t, sev.Filterable)
	assert.Equal(t, "Severity", sev.DisplayName)
	assert.Equal(t, []string{"Critical", "High", "Low", "Medium"}, sev.SampleValues)
	assert.Equal(t, 4, sev.UniqueCount)

	assert.Equal(t, TypeText, sev.Type)
	assert.Equal(t, "low", sev.CardinalityHint)

	cat, ok := config.Dimension("bug_category")
	require.True(t, ok)
	assert.True(t, cat.Required)
	assert.False(t, cat.Filterable)

	month, ok := config.Dimension("reported_month")
	require.True(t, ok)
	assert.Equal(t, TypeText, month.Type)
	assert.Equal(t, 4, month.UniqueCount)
	assert.False(t, month.Required)
}

func TestDiscoverProfilesMissingAndTypes(t *testing.T) {
	data := []byte(`severity,bug_domain,bug_category,environment,reported_on,regression,notes
Critical,Backend,Memory Leak,Production,2026-01-05,yes,
High,,Concurrency,Staging,2026-01-06,no,N/A
,Frontend,UI Glitch,Development,2026-02-01,no,
Low,Backend,Memory Leak,Development,2026-02-03,yes,null
`)

	config, err := DiscoverFromCSV(data)
	require.NoError(t, err)

	sev, ok := config.Dimension("severity")
	require.True(t, ok)
	assert.Equal(t, 1, sev.MissingCount)
	assert.Equal(t, 3, sev.UniqueCount)

	dom, ok := config.Dimension("bug_domain")
	require.True(t, ok)
	assert.Equal(t, 1, dom.MissingCount)

	day, ok := config.Dimension("reported_on")
	require.True(t, ok)
	assert.Equal(t, TypeDate, day.Type)

	reg, ok := config.Dimension("regression")
	require.True(t, ok)
	assert.Equal(t, TypeBool, reg.Type)
	assert.Equal(t, []string{"no", "yes"}, reg.SampleValues)

	require.Len(t, config.SkippedColumns, 1)
	assert.Equal(t, "notes", config.SkippedColumns[0].Column)
	assert.False(t, config.SkippedColumns[0].Recoverable)
}

func TestDiscoverRecoverColumns(t *testing.T) {
	config, err := DiscoverFromCSV(bugsCSV, DiscoverOptions{RecoverColumns: []string{"bug_id"}})
	require.NoError(t, err)
	assert.Contains(t, config.DimensionKeys(), "bug_id")
	assert.Empty(t, config.SkippedColumns)
}

func TestDiscoverErrors(t *testing.T) {
	_, err := DiscoverFromCSV([]byte(""))
	assert.Error(t, err)

	_, err = DiscoverFromCSV([]byte("severity,bug_domain\n"))
	assert.ErrorContains(t, err, "no data rows")
}
