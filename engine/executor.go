package engine

import (
	"fmt"
)

// ============================================================================
// EXECUTOR — the dashboard pipeline
// ============================================================================
// Entry point: Execute(view, selection, opts...)
//
// Pipeline:
//   1. Filter options from the full relation
//   2. Apply the selection → SubView
//   3. KPIs (row count, per-severity counts, distinct domains)
//   4. Frequency tables (top categories, severity distribution)
//   5. Environment × severity cross-tab
//   6. Return Result
//
// Every filter change re-runs the whole pipeline. Nothing is cached between
// runs and nothing writes to the view.
// ============================================================================

// Execute runs the dashboard pipeline for one selection.
func Execute(view RecordView, sel Selection, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)

	if err := checkFields(view, RequiredFields...); err != nil {
		return nil, err
	}

	// 1. Options come from the unfiltered relation
	options, err := DefaultSelection(view)
	if err != nil {
		return nil, err
	}

	// 2. Filter
	filtered, err := Filter(view, sel)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	cfg.Logger.Debug("pipeline filtered",
		"rows", filtered.Len(), "of", view.Len(),
		"severities", len(sel.Severities), "domains", len(sel.Domains))

	result := &Result{
		Selection: sel,
		Options: FilterOptions{
			Severities: options.Severities,
			Domains:    options.Domains,
		},
		TotalRows: view.Len(),
	}

	// 3. KPIs
	result.KPIs.TotalBugs = Count(filtered)
	for _, sev := range cfg.KPISeverities {
		n, err := CountWhere(filtered, FieldSeverity, sev)
		if err != nil {
			return nil, err
		}
		result.KPIs.BySeverity = append(result.KPIs.BySeverity, SeverityKPI{Severity: sev, Count: n})
	}
	if result.KPIs.Domains, err = DistinctCount(filtered, FieldDomain); err != nil {
		return nil, err
	}

	// 4. Frequency tables
	if result.TopCategories, err = TopN(filtered, FieldCategory, cfg.TopCategories); err != nil {
		return nil, err
	}
	if result.SeverityDistribution, err = ValueCounts(filtered, FieldSeverity); err != nil {
		return nil, err
	}

	// 5. Cross-tab
	if result.EnvironmentSeverity, err = CrossTabulate(filtered, FieldEnvironment, FieldSeverity); err != nil {
		return nil, err
	}

	return result, nil
}

// NormalizeSelection drops values that do not occur in the relation and
// removes duplicates, keeping the relation's order. Unknown values would
// match nothing anyway; this keeps the stored selection tidy.
func NormalizeSelection(view RecordView, sel Selection) (Selection, error) {
	opts, err := DefaultSelection(view)
	if err != nil {
		return Selection{}, err
	}
	return Selection{
		Severities: intersectOrdered(opts.Severities, sel.Severities),
		Domains:    intersectOrdered(opts.Domains, sel.Domains),
	}, nil
}

// intersectOrdered returns the members of universe that appear in picked,
// in universe order.
func intersectOrdered(universe, picked []string) []string {
	set := toSet(picked)
	out := []string{}
	for _, v := range universe {
		if set[v] {
			out = append(out, v)
		}
	}
	return out
}
