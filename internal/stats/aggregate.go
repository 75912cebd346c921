// Package stats turns logs and day segments into per-category statistics
// and composes them into week and month rollups.
package stats

import (
	"math"

	"github.com/sadopc/lifelog/internal/model"
)

// Contribution is one completed log, or its share of a single day.
type Contribution struct {
	CategoryIDs []string
	Duration    int64 // seconds
}

// Aggregate splits each contribution evenly across its categories. A log tagged
// with k categories adds duration/k and 1/k units to each of them, so category
// durations always sum to the contributed total.
func Aggregate(items []Contribution, categories []model.Category) []model.CategoryStat {
	acc := make([]model.CategoryStat, len(categories))
	index := make(map[string]int, len(categories))
	for i, c := range categories {
		acc[i].CategoryID = c.ID
		index[c.ID] = i
	}

	for _, it := range items {
		k := len(it.CategoryIDs)
		if k == 0 || it.Duration <= 0 {
			continue
		}
		share := float64(it.Duration) / float64(k)
		unit := 1 / float64(k)
		for _, id := range it.CategoryIDs {
			i, ok := index[id]
			if !ok {
				continue
			}
			acc[i].Duration += share
			acc[i].Units += unit
		}
	}
	return finalize(acc)
}

// finalize drops empty categories and derives Count and Percentage from the
// accumulated Duration and Units. Order is preserved.
func finalize(acc []model.CategoryStat) []model.CategoryStat {
	var total float64
	for _, s := range acc {
		total += s.Duration
	}
	out := make([]model.CategoryStat, 0, len(acc))
	for _, s := range acc {
		if s.Duration <= 0 {
			continue
		}
		s.Count = int(math.Round(s.Units))
		if total > 0 {
			s.Percentage = s.Duration / total * 100
		}
		out = append(out, s)
	}
	return out
}

// Merge sums category stats of several periods, then recomputes Count and
// Percentage from the merged totals. The result follows catalog order.
func Merge(periods [][]model.CategoryStat, categories []model.Category) []model.CategoryStat {
	acc := make([]model.CategoryStat, len(categories))
	index := make(map[string]int, len(categories))
	for i, c := range categories {
		acc[i].CategoryID = c.ID
		index[c.ID] = i
	}
	for _, p := range periods {
		for _, s := range p {
			i, ok := index[s.CategoryID]
			if !ok {
				continue
			}
			acc[i].Duration += s.Duration
			acc[i].Units += s.Units
		}
	}
	return finalize(acc)
}
