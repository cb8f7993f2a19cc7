package engine

import "sort"

// ============================================================================
// FILTERS — Dimension-Based Filtering via RecordView
// ============================================================================
// Single-pass filter: checks ALL dimension constraints per record in one loop.
// Returns a SubView (index list into parent) — zero data copy.
// Matching is exact and case-sensitive; values come straight from the
// dataset's own distinct values.
// ============================================================================

// ApplyFilters returns a view of records matching all dimension filters.
// Dimensions are AND-combined; values within a dimension are OR-combined.
// A dimension present with no values matches nothing. No constrained
// dimension at all returns the original view.
func ApplyFilters(view RecordView, filters Filters) (RecordView, error) {
	if filters.IsEmpty() {
		return view, nil
	}

	dims := make([]string, 0, len(filters.Dimensions))
	for dim := range filters.Dimensions {
		dims = append(dims, dim)
	}
	sort.Strings(dims)
	if err := checkFields(view, dims...); err != nil {
		return nil, err
	}

	sets := make(map[string]map[string]bool, len(filters.Dimensions))
	for _, dim := range dims {
		allowed := filters.Dimensions[dim]
		if len(allowed) == 0 {
			return newSubView(view, []int{}), nil
		}
		sets[dim] = toSet(allowed)
	}

	// Single pass — record passes if it matches ALL dimension filters
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for dim, set := range sets {
			if !set[view.Dimension(i, dim)] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices), nil
}

// Filter keeps rows whose severity is in sel.Severities and whose bug domain
// is in sel.Domains. An empty list for either field yields zero rows.
func Filter(view RecordView, sel Selection) (RecordView, error) {
	return ApplyFilters(view, sel.Filters())
}

// DefaultSelection selects every distinct severity and domain in view,
// including the empty value when some rows lack one. Filtering view with it
// reproduces view.
func DefaultSelection(view RecordView) (Selection, error) {
	sev, err := selectableValues(view, FieldSeverity)
	if err != nil {
		return Selection{}, err
	}
	dom, err := selectableValues(view, FieldDomain)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Severities: sev, Domains: dom}, nil
}

// selectableValues returns the distinct values of field in first-seen order.
// Unlike UniqueValues it keeps the empty value, so missing cells stay
// selectable.
func selectableValues(view RecordView, field string) ([]string, error) {
	if err := checkFields(view, field); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	result := []string{}
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, field)
		if !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result, nil
}

// toSet converts a string slice to a lookup set.
func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
