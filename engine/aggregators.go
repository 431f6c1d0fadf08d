package engine

import (
	"sort"
	"strings"
)

// ============================================================================
// AGGREGATORS — Counting, Grouping, and Sorting via RecordView
// ============================================================================
// All functions operate on RecordView — zero-copy access to a year's records.
// Grouping produces SubViews (index lists into parent view).
// ============================================================================

// Sort modes accepted by SortGroups.
const (
	SortCountDesc = "count_desc"
	SortCountAsc  = "count_asc"
	SortLabelAsc  = "label_asc"
	SortLabelDesc = "label_desc"
)

// GroupAndCount groups view by one dimension and counts each group.
// Pipeline: group → count → sort → limit.
func GroupAndCount(view RecordView, dimension string, sortBy string, limit int) []Group {
	if view.Len() == 0 {
		return []Group{}
	}

	groups := groupBySingle(view, dimension)
	total := view.Len()
	for i := range groups {
		groups[i].Count = groups[i].View.Len()
		groups[i].Percent = Percent(groups[i].Count, total)
	}

	SortGroups(groups, sortBy)

	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:  key,
			View: newSubView(view, grouped[key]),
		})
	}
	return groups
}

// SumMeasure sums a named measure across a view. For 0/1 flags this is the
// number of records with the flag set.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += view.Measure(i, measure)
	}
	return total
}

// Percent returns part/total*100, or 0 when total is 0.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return (float64(part) / float64(total)) * 100
}

// SortGroups sorts groups in place. Ties keep grouping (first-seen) order.
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case SortCountDesc:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	case SortCountAsc:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count < groups[j].Count })
	case SortLabelAsc:
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Key) < strings.ToLower(groups[j].Key) })
	case SortLabelDesc:
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Key) > strings.ToLower(groups[j].Key) })
	default:
		// preserve grouping order
	}
}
