package testutil

import (
	"testing"

	"github.com/spf13/afero"
)

// BugsCSV is a small bug-report dataset: ten rows, six Backend and four
// Frontend, plus an id column the core ignores.
const BugsCSV = `bug_id,severity,bug_domain,bug_category,environment
1,Critical,Backend,Memory Leak,Production
2,High,Backend,Concurrency,Staging
3,High,Frontend,UI Glitch,Development
4,Low,Backend,Memory Leak,Development
5,Critical,Frontend,Concurrency,Production
6,Medium,Backend,Memory Leak,Staging
7,Low,Frontend,UI Glitch,Development
8,High,Backend,Backend Logic,Development
9,Medium,Frontend,Memory Leak,Staging
10,Critical,Backend,Concurrency,Development
`

// MemFS returns an in-memory filesystem holding files (path → content).
func MemFS(t testing.TB, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return fs
}
