package engine

import "strings"

// ============================================================================
// FILTERS — Dimension-Based Filtering via RecordView
// ============================================================================
// Single-pass filter: checks ALL dimension constraints per record in one loop.
// Returns a SubView (index list into parent) — zero data copy.
// ============================================================================

// Filters define which records to include.
// Keys are dimension names. Values are allowed values.
// OR within a dimension, AND across dimensions. Empty = all.
type Filters struct {
	Dimensions map[string][]string
	// FoldCase compares values ignoring case. Default is exact match.
	FoldCase bool
}

// Match builds a single-dimension filter.
func Match(dimension string, values ...string) Filters {
	return Filters{Dimensions: map[string][]string{dimension: values}}
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ApplyFilters returns a view of records matching all dimension filters.
// Empty filter = every record, still as a SubView so callers can read
// Indices().
func ApplyFilters(view RecordView, filters Filters) *SubView {
	if filters.FoldCase {
		return applyFoldCase(view, filters.Dimensions)
	}

	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters.Dimensions {
		if len(allowed) > 0 {
			sets[dim] = toSet(allowed)
		}
	}

	return Where(view, func(i int) bool {
		for dim, set := range sets {
			if !set[view.Dimension(i, dim)] {
				return false
			}
		}
		return true
	})
}

// applyFoldCase matches with strings.EqualFold. Lower-casing both sides is
// not equivalent: it misses pairs like "ſ" and "S".
func applyFoldCase(view RecordView, dims map[string][]string) *SubView {
	return Where(view, func(i int) bool {
		for dim, allowed := range dims {
			if len(allowed) > 0 && !containsFold(allowed, view.Dimension(i, dim)) {
				return false
			}
		}
		return true
	})
}

func containsFold(items []string, val string) bool {
	for _, item := range items {
		if strings.EqualFold(item, val) {
			return true
		}
	}
	return false
}

// Where returns the records for which keep reports true, in view order.
func Where(view RecordView, keep func(i int) bool) *SubView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if keep(i) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
