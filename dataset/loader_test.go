package dataset

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/bugdash/engine"
	"github.com/spektr-org/bugdash/internal/testutil"
)

func TestLoadParsesRelation(t *testing.T) {
	fs := testutil.MemFS(t, map[string]string{"/data/bugs.csv": testutil.BugsCSV})
	loader := NewLoader(fs, WithLogger(testutil.NewTestLogger(t)))

	view, err := loader.Load("/data/bugs.csv")
	require.NoError(t, err)

	assert.Equal(t, 10, view.Len())
	assert.Equal(t, []string{"bug_id", "severity", "bug_domain", "bug_category", "environment"}, view.DimensionKeys())
	assert.Equal(t, "Critical", view.Dimension(0, engine.FieldSeverity))
	assert.Equal(t, "Concurrency", view.Dimension(9, engine.FieldCategory))
}

func TestLoadIsMemoized(t *testing.T) {
	fs := testutil.MemFS(t, map[string]string{"/bugs.csv": testutil.BugsCSV})
	loader := NewLoader(fs)

	first, err := loader.Load("/bugs.csv")
	require.NoError(t, err)

	// Changing the file must not affect an already-loaded relation.
	require.NoError(t, afero.WriteFile(fs, "/bugs.csv", []byte("severity\n"), 0o644))

	second, err := loader.Load("/bugs.csv")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int64(1), loader.Reads())
}

func TestLoadConcurrentFirstUse(t *testing.T) {
	fs := testutil.MemFS(t, map[string]string{"/bugs.csv": testutil.BugsCSV})
	loader := NewLoader(fs)

	var wg sync.WaitGroup
	views := make([]engine.RecordView, 8)
	for i := range views {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := loader.Load("/bugs.csv")
			assert.NoError(t, err)
			views[i] = v
		}(i)
	}
	wg.Wait()

	for _, v := range views[1:] {
		assert.Same(t, views[0], v)
	}
	assert.LessOrEqual(t, loader.Reads(), int64(len(views)))
}

func TestLoadDataUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		wantMsg string
	}{
		{"missing file", nil, ""},
		{"empty file", ptr(""), "empty"},
		{"header only", ptr("severity,bug_domain,bug_category,environment\n"), "no data rows"},
		{"missing columns", ptr("severity,bug_domain\nHigh,Backend\n"), "bug_category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]string{}
			if tt.content != nil {
				files["/bugs.csv"] = *tt.content
			}
			loader := NewLoader(testutil.MemFS(t, files))

			_, err := loader.Load("/bugs.csv")
			require.Error(t, err)
			assert.True(t, errors.Is(err, engine.ErrDataUnavailable))
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadErrorsAreNotCached(t *testing.T) {
	fs := afero.NewMemMapFs()
	loader := NewLoader(fs)

	_, err := loader.Load("/bugs.csv")
	require.ErrorIs(t, err, engine.ErrDataUnavailable)

	require.NoError(t, afero.WriteFile(fs, "/bugs.csv", []byte(testutil.BugsCSV), 0o644))
	view, err := loader.Load("/bugs.csv")
	require.NoError(t, err)
	assert.Equal(t, 10, view.Len())
}

func TestParseCSVNormalisesAndSkips(t *testing.T) {
	data := "\ufeffSeverity, Bug Domain ,bugCategory,Environment\n" +
		" High ,Backend,Memory Leak,Production\n" +
		"Low,Frontend\n" +
		"Critical,Cloud,Networking,Staging\n"

	view, stats, err := ParseCSV(strings.NewReader(data), schemaForTest())
	require.NoError(t, err)

	assert.Equal(t, []string{"severity", "bug_domain", "bug_category", "environment"}, stats.Columns)
	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, 1, stats.SkippedRows)
	assert.Equal(t, "High", view.Dimension(0, engine.FieldSeverity))
	assert.Equal(t, "Cloud", view.Dimension(1, engine.FieldDomain))
}

func ptr(s string) *string { return &s }
