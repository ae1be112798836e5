package selection

import (
	"sort"

	"github.com/okian/homespark/internal/domain/model"
)

// Selector picks up to n items from a scored pool.
type Selector interface {
	Select(scored []model.ScoredItem, n int) []model.ScoredItem
}

// DiversitySelector picks the best item of the best populated tier, then
// fills the remaining slots preferring items from other tiers.
type DiversitySelector struct{}

// NewDiversitySelector creates a DiversitySelector.
func NewDiversitySelector() *DiversitySelector {
	return &DiversitySelector{}
}

// Select returns at most n items; the first is the primary pick. The input
// slice is not modified.
func (DiversitySelector) Select(scored []model.ScoredItem, n int) []model.ScoredItem {
	if n <= 0 || len(scored) == 0 {
		return nil
	}

	sorted := make([]model.ScoredItem, len(scored))
	copy(sorted, scored)
	sortByScore(sorted)

	var tiers [tierCount][]model.ScoredItem
	for _, si := range sorted {
		t := TierFor(si.Score)
		tiers[t] = append(tiers[t], si)
	}

	primaryTier := Basic
	for t := Perfect; t < tierCount; t++ {
		if len(tiers[t]) > 0 {
			primaryTier = t
			break
		}
	}
	primary := tiers[primaryTier][0]

	out := make([]model.ScoredItem, 0, min(n, len(sorted)))
	out = append(out, primary)
	if n == 1 {
		return out
	}

	pool := make([]model.ScoredItem, 0, len(sorted)-1)
	for t := primaryTier + 1; t < tierCount; t++ {
		pool = append(pool, tiers[t]...)
	}
	pool = append(pool, tiers[primaryTier][1:]...)
	for t := Perfect; t < primaryTier; t++ {
		pool = append(pool, tiers[t]...)
	}
	sortByScore(pool)

	if len(pool) > n-1 {
		pool = pool[:n-1]
	}
	return append(out, pool...)
}

// sortByScore orders by score descending, then item id ascending.
func sortByScore(items []model.ScoredItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Item.ID < items[j].Item.ID
	})
}
