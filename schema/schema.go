package schema

import (
	"fmt"
	"strings"

	"github.com/spektr-org/bugdash/engine"
)

// ============================================================================
// SCHEMA — Describes the shape of a bug-report dataset
// ============================================================================
// BugReports() is the fixed contract the loader checks headers against.
// DiscoverFromCSV() inspects a real file and reports every column, including
// the extra ones the core never reads.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions" yaml:"dimensions"`
	Measures   []MeasureMeta   `json:"measures,omitempty" yaml:"measures,omitempty"`

	// Auto-discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty" yaml:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty" yaml:"discoveredAt,omitempty"`
	RowsSampled    int    `json:"rowsSampled,omitempty" yaml:"rowsSampled,omitempty"`

	// Columns skipped during auto-discovery
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty" yaml:"skippedColumns,omitempty"`
}

// DimensionMeta describes a categorical column.
type DimensionMeta struct {
	Key             string   `json:"key" yaml:"key"`
	DisplayName     string   `json:"displayName" yaml:"displayName"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	SampleValues    []string `json:"sampleValues" yaml:"sampleValues"`
	Required        bool     `json:"required,omitempty" yaml:"required,omitempty"`     // read by the core
	Filterable      bool     `json:"filterable" yaml:"filterable"` // offered as a dashboard filter
	Type            string   `json:"type,omitempty" yaml:"type,omitempty"` // "text", "number", "date", "bool"
	UniqueCount     int      `json:"uniqueCount,omitempty" yaml:"uniqueCount,omitempty"`
	MissingCount    int      `json:"missingCount,omitempty" yaml:"missingCount,omitempty"`
	CardinalityHint string   `json:"cardinalityHint,omitempty" yaml:"cardinalityHint,omitempty"` // "low", "medium", "high"
}

// MeasureMeta describes a numeric column. The dashboard does not aggregate
// measures; discovery reports them so users know what else the file holds.
type MeasureMeta struct {
	Key         string `json:"key" yaml:"key"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	HasDecimals bool   `json:"hasDecimals,omitempty" yaml:"hasDecimals,omitempty"`
}

// SkippedColumn records why a column was excluded during auto-discovery.
type SkippedColumn struct {
	Column      string `json:"column" yaml:"column"`
	Reason      string `json:"reason" yaml:"reason"`
	Recoverable bool   `json:"recoverable" yaml:"recoverable"` // can be restored with RecoverColumns
}

// BugReports returns the schema every dataset must satisfy.
func BugReports() Config {
	return Config{
		Name:        "Bug Reports",
		Version:     "1.0",
		Description: "Software bug reports with severity, domain, category and environment",
		Dimensions: []DimensionMeta{
			requiredDimension(engine.FieldSeverity, "Severity", "Low, Medium, High or Critical", true),
			requiredDimension(engine.FieldDomain, "Bug Domain", "Backend, Frontend, Cloud, DevOps, ...", true),
			requiredDimension(engine.FieldCategory, "Bug Category", "Free-form label such as Memory Leak", false),
			requiredDimension(engine.FieldEnvironment, "Environment", "Development, Staging or Production", false),
		},
	}
}

func requiredDimension(key, name, desc string, filterable bool) DimensionMeta {
	return DimensionMeta{
		Key:         key,
		DisplayName: name,
		Description: desc,
		Required:    true,
		Filterable:  filterable,
	}
}

// RequiredKeys returns the keys of all required dimensions.
func (c Config) RequiredKeys() []string {
	var keys []string
	for _, d := range c.Dimensions {
		if d.Required {
			keys = append(keys, d.Key)
		}
	}
	return keys
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// Dimension looks up a dimension by key.
func (c Config) Dimension(key string) (DimensionMeta, bool) {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d, true
		}
	}
	return DimensionMeta{}, false
}

// ValidateHeader checks that every required column is present in keys
// (already snake_cased). The error wraps engine.ErrDataUnavailable.
func (c Config) ValidateHeader(keys []string) error {
	have := make(map[string]bool, len(keys))
	for _, k := range keys {
		have[k] = true
	}
	var missing []string
	for _, req := range c.RequiredKeys() {
		if !have[req] {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required columns: %s", engine.ErrDataUnavailable, strings.Join(missing, ", "))
	}
	return nil
}
