package views

import (
	"sort"

	"github.com/de-tools/covid-atlas/pkg/models/domain"
)

// ValueCounts counts distinct values. The result is ordered by descending
// count; equal counts keep the order in which the value was first seen.
func ValueCounts(values []string) []domain.ValueCount {
	position := make(map[string]int)
	var counts []domain.ValueCount
	for _, v := range values {
		i, ok := position[v]
		if !ok {
			position[v] = len(counts)
			counts = append(counts, domain.ValueCount{Value: v, Count: 1})
			continue
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}
