// Package dataset loads the bug-report relation and keeps it for the life of
// the process.
package dataset

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"

	"github.com/spektr-org/bugdash/engine"
	"github.com/spektr-org/bugdash/schema"
)

// Loader reads a dataset once per path and hands out the same immutable
// view afterwards. Construct one per process and pass it to whatever needs
// the data. Failed loads are not remembered, so a later call retries.
type Loader struct {
	fs     afero.Fs
	schema schema.Config
	logger *slog.Logger

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]engine.RecordView
	reads atomic.Int64
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for load events.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSchema overrides the schema headers are checked against.
func WithSchema(sch schema.Config) LoaderOption {
	return func(l *Loader) {
		l.schema = sch
	}
}

// NewLoader creates a Loader reading from fs. Pass afero.NewOsFs() in
// production and afero.NewMemMapFs() in tests.
func NewLoader(fs afero.Fs, opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:     fs,
		schema: schema.BugReports(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache:  make(map[string]engine.RecordView),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the relation stored at path, reading it on first use.
// Errors wrap engine.ErrDataUnavailable.
func (l *Loader) Load(path string) (engine.RecordView, error) {
	l.mu.RLock()
	view, ok := l.cache[path]
	l.mu.RUnlock()
	if ok {
		return view, nil
	}

	v, err, _ := l.group.Do(path, func() (interface{}, error) {
		// Another caller may have finished while we waited for the lock.
		l.mu.RLock()
		cached, ok := l.cache[path]
		l.mu.RUnlock()
		if ok {
			return cached, nil
		}

		view, err := l.read(path)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.cache[path] = view
		l.mu.Unlock()
		return view, nil
	})
	if err != nil {
		l.logger.Error("dataset load failed", "path", path, "error", err)
		return nil, err
	}
	return v.(engine.RecordView), nil
}

// Reads reports how many times the loader has opened a file. Cached loads
// do not count.
func (l *Loader) Reads() int64 {
	return l.reads.Load()
}

func (l *Loader) read(path string) (engine.RecordView, error) {
	l.reads.Add(1)

	f, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrDataUnavailable, err)
	}
	defer func() { _ = f.Close() }()

	view, stats, err := ParseCSV(f, l.schema)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	if stats.SkippedRows > 0 {
		l.logger.Warn("skipped malformed rows", "path", path, "skipped", stats.SkippedRows)
	}
	l.logger.Info("dataset loaded", "path", path, "rows", stats.Rows, "columns", len(stats.Columns))
	return view, nil
}
