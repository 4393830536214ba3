package stats

import (
	"sort"

	"github.com/verte-zerg/typetest/internal/model"
)

// MostPracticed returns the n aggregates with the most keystrokes.
func MostPracticed(aggs []model.CharAggregate, n int) []model.CharAggregate {
	if n <= 0 || len(aggs) <= n {
		return aggs
	}
	sorted := make([]model.CharAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		ti := sorted[i].Correct + sorted[i].Incorrect
		tj := sorted[j].Correct + sorted[j].Incorrect
		if ti == tj {
			return sorted[i].Char < sorted[j].Char
		}
		return ti > tj
	})
	return sorted[:n]
}
