package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// skewedInteractions: item "pop" has 6 interactions, four rare items have
// one each. The IQR border over [1 1 1 1 6] is 1, so "pop" is capped at a
// single surviving interaction.
func skewedInteractions() []Interaction {
	users := []string{"u1", "u2", "u3", "u4", "u5", "u6"}
	rare := []string{"r1", "r2", "r3", "r4"}

	var interactions []Interaction
	for i, u := range users {
		interactions = append(interactions, Interaction{User: u, Item: "pop"})
		if i < len(rare) {
			interactions = append(interactions, Interaction{User: u, Item: rare[i]})
		}
	}
	return interactions
}

func itemCounts(interactions []Interaction) map[string]int {
	counts := make(map[string]int)
	for _, it := range interactions {
		counts[it.Item]++
	}
	return counts
}

func TestDownsample_CapsPopularItem(t *testing.T) {
	params := DownsampleParams{IQRCoef: 1.5, Seed: 32}

	kept := Downsample(skewedInteractions(), params)
	counts := itemCounts(kept)

	assert.Equal(t, 1, counts["pop"])
	for _, rare := range []string{"r1", "r2", "r3", "r4"} {
		assert.Equal(t, 1, counts[rare], "item %s below the border must be untouched", rare)
	}
}

func TestDownsample_DeterministicForFixedSeed(t *testing.T) {
	params := DownsampleParams{IQRCoef: 1.5, Seed: 32}

	first := Downsample(skewedInteractions(), params)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Downsample(skewedInteractions(), params))
	}
}

func TestDownsample_NoOpWhenNothingIsPopular(t *testing.T) {
	interactions := []Interaction{
		{User: "a", Item: "x"},
		{User: "b", Item: "y"},
		{User: "c", Item: "z"},
	}
	params := DefaultDownsampleParams()

	kept := Downsample(interactions, params)
	assert.ElementsMatch(t, interactions, kept)
}

func TestDownsample_WiderCoefKeepsMore(t *testing.T) {
	interactions := skewedInteractions()

	tight := Downsample(interactions, DownsampleParams{IQRCoef: 1.5, Seed: 32})
	loose := Downsample(interactions, DownsampleParams{IQRCoef: 100, Seed: 32})

	assert.Less(t, len(tight), len(loose))
	assert.Len(t, loose, len(interactions))
}

func TestDownsampleMerged_RecommendedRowsSurvive(t *testing.T) {
	// "pop" is both recommended and interacted for every user; losing the
	// interaction must keep the recommendation row so FP counting still
	// sees k recommendations
	var merged []MergedRow
	users := []string{"u1", "u2", "u3", "u4", "u5", "u6"}
	rare := []string{"r1", "r2", "r3", "r4"}
	for i, u := range users {
		merged = append(merged, MergedRow{User: u, Item: "pop", Rank: 1, Interacted: true})
		if i < len(rare) {
			merged = append(merged, MergedRow{User: u, Item: rare[i], Interacted: true})
		}
	}

	out := DownsampleMerged(merged, DownsampleParams{IQRCoef: 1.5, Seed: 32})

	popRows := 0
	popInteracted := 0
	for _, row := range out {
		if row.Item == "pop" {
			popRows++
			assert.True(t, row.Recommended())
			if row.Interacted {
				popInteracted++
			}
		}
	}
	assert.Equal(t, len(users), popRows, "recommendation rows must never be dropped")
	assert.Equal(t, 1, popInteracted)
}

func TestDownsampleMerged_InteractionOnlyRowsAreDropped(t *testing.T) {
	var merged []MergedRow
	users := []string{"u1", "u2", "u3", "u4", "u5", "u6"}
	rare := []string{"r1", "r2", "r3", "r4"}
	for i, u := range users {
		merged = append(merged, MergedRow{User: u, Item: "pop", Interacted: true})
		if i < len(rare) {
			merged = append(merged, MergedRow{User: u, Item: rare[i], Interacted: true})
		}
	}

	out := DownsampleMerged(merged, DownsampleParams{IQRCoef: 1.5, Seed: 32})

	popRows := 0
	for _, row := range out {
		if row.Item == "pop" {
			popRows++
		}
	}
	assert.Equal(t, 1, popRows)
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		q      float64
		want   float64
	}{
		{"empty", nil, 0.5, 0},
		{"single", []float64{3}, 0.75, 3},
		{"median of pair", []float64{1, 3}, 0.5, 2},
		{"q3 interpolated", []float64{1, 1, 1, 1, 6}, 0.75, 1},
		{"max", []float64{1, 2, 9}, 1.0, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, quantile(tt.sorted, tt.q), 1e-9)
		})
	}
}
