package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spektr-org/bugdash/engine"
	"github.com/spektr-org/bugdash/schema"
)

// ============================================================================
// CSV PARSER — Turns bug-report CSV into an engine.RecordView
// ============================================================================
// Header names are normalised to snake_case and checked against the schema.
// Every column is kept; the core reads only the required four.
// ============================================================================

// ParseStats reports what the parser saw.
type ParseStats struct {
	Columns     []string // snake_case keys in header order
	Rows        int      // rows kept
	SkippedRows int      // rows with the wrong number of fields
}

// ParseCSV reads CSV from r and returns the rows as a RecordView.
// Any failure that leaves no usable relation wraps engine.ErrDataUnavailable.
func ParseCSV(r io.Reader, sch schema.Config) (engine.RecordView, ParseStats, error) {
	var stats ParseStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // checked per row below

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, fmt.Errorf("%w: file is empty", engine.ErrDataUnavailable)
		}
		return nil, stats, fmt.Errorf("%w: failed to read CSV header: %v", engine.ErrDataUnavailable, err)
	}

	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = schema.ToSnakeCase(strings.TrimPrefix(h, "\ufeff"))
	}
	if err := sch.ValidateHeader(keys); err != nil {
		return nil, stats, err
	}
	stats.Columns = keys

	var records []engine.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				stats.SkippedRows++
				continue
			}
			return nil, stats, fmt.Errorf("%w: %v", engine.ErrDataUnavailable, err)
		}
		if len(row) != len(keys) {
			stats.SkippedRows++
			continue
		}

		rec := engine.Record{Dimensions: make(map[string]string, len(keys))}
		for i, val := range row {
			rec.Dimensions[keys[i]] = strings.TrimSpace(val)
		}
		records = append(records, rec)
	}

	stats.Rows = len(records)
	if stats.Rows == 0 {
		return nil, stats, fmt.Errorf("%w: no data rows", engine.ErrDataUnavailable)
	}

	return engine.NewSliceView(records, keys...), stats, nil
}
