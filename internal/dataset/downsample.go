package dataset

import (
	"math"
	"math/rand"
	"sort"
)

// DownsampleParams controls popularity debiasing. Items whose interaction
// count exceeds the interquartile-range border (Q3 + IQRCoef * IQR over
// per-item counts) are downsampled to the border, with a seeded RNG
// choosing which interactions survive.
type DownsampleParams struct {
	IQRCoef float64
	Seed    int64
}

// DefaultDownsampleParams returns the standard debiasing parameters.
func DefaultDownsampleParams() DownsampleParams {
	return DownsampleParams{IQRCoef: 1.5, Seed: 32}
}

// Downsample reduces the influence of overly popular items in an
// interaction table. The result is deterministic for a fixed seed and is
// sorted by user then item.
func Downsample(interactions []Interaction, p DownsampleParams) []Interaction {
	groups := make(map[string][]Interaction, 64)
	for _, it := range interactions {
		groups[it.Item] = append(groups[it.Item], it)
	}

	border := popularityBorder(groups, p.IQRCoef)
	maxKeep := keepLimit(border)
	rng := rand.New(rand.NewSource(p.Seed))

	kept := make([]Interaction, 0, len(interactions))
	for _, item := range sortedItemKeys(groups) {
		group := groups[item]
		if float64(len(group)) <= border {
			kept = append(kept, group...)
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].User < group[j].User })
		rng.Shuffle(len(group), func(i, j int) { group[i], group[j] = group[j], group[i] })
		kept = append(kept, group[:maxKeep]...)
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].User != kept[j].User {
			return kept[i].User < kept[j].User
		}
		return kept[i].Item < kept[j].Item
	})
	return kept
}

// DownsampleMerged applies the same popularity cap to a merged table.
// Interactions on over-popular items are dropped; the row itself survives
// without the interaction marker when the item was also recommended, so
// recommendation counting is unaffected.
func DownsampleMerged(merged []MergedRow, p DownsampleParams) []MergedRow {
	groups := make(map[string][]int, 64)
	for i, row := range merged {
		if row.Interacted {
			groups[row.Item] = append(groups[row.Item], i)
		}
	}

	border := popularityBorder(groups, p.IQRCoef)
	maxKeep := keepLimit(border)
	rng := rand.New(rand.NewSource(p.Seed))

	dropInteraction := make(map[int]bool)
	for _, item := range sortedItemKeys(groups) {
		idx := groups[item]
		if float64(len(idx)) <= border {
			continue
		}
		sort.Slice(idx, func(i, j int) bool { return merged[idx[i]].User < merged[idx[j]].User })
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for _, lost := range idx[maxKeep:] {
			dropInteraction[lost] = true
		}
	}

	out := make([]MergedRow, 0, len(merged))
	for i, row := range merged {
		if dropInteraction[i] {
			if !row.Recommended() {
				continue
			}
			row.Interacted = false
		}
		out = append(out, row)
	}
	sortMerged(out)
	return out
}

func popularityBorder[T any](groups map[string][]T, iqrCoef float64) float64 {
	counts := make([]float64, 0, len(groups))
	for _, g := range groups {
		counts = append(counts, float64(len(g)))
	}
	sort.Float64s(counts)

	q1 := quantile(counts, 0.25)
	q3 := quantile(counts, 0.75)
	return q3 + iqrCoef*(q3-q1)
}

func keepLimit(border float64) int {
	limit := int(math.Floor(border))
	if limit < 0 {
		return 0
	}
	return limit
}

func sortedItemKeys[T any](groups map[string][]T) []string {
	items := make([]string, 0, len(groups))
	for item := range groups {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}

// quantile computes the q-th quantile of a sorted sample with linear
// interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
