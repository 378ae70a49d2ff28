package metrics

import "github.com/recmetrics/recmetrics/internal/dataset"

// Confusion holds per-user confusion counts at a fixed cutoff k.
//
// Invariants: TP + FP = k and TP + FN = Liked. True negatives are not
// stored; they are derived lazily as catalog_size - k - FN, and only by
// the metrics that need them.
type Confusion struct {
	Liked int
	TP    int
	FP    int
	FN    int
}

// ConfusionTable maps user id to that user's confusion counts. It is the
// shared intermediate artifact every classification metric consumes.
type ConfusionTable map[string]Confusion

// CalcConfusions derives per-user confusion counts from a merged table at
// cutoff k. A user present only in interactions gets TP=0 and FN=liked; a
// user present only in recommendations gets liked=0 and FP=k.
//
// FP is computed as k - TP, which assumes every user received exactly k
// recommendations. For shorter lists FP is overstated (see
// dataset.ShortLists).
func CalcConfusions(merged []dataset.MergedRow, k int) ConfusionTable {
	table := make(ConfusionTable, 64)
	for _, row := range merged {
		c := table[row.User]
		if row.Interacted {
			c.Liked++
			if row.Recommended() && row.Rank <= k {
				c.TP++
			}
		}
		table[row.User] = c
	}

	for user, c := range table {
		c.FP = k - c.TP
		c.FN = c.Liked - c.TP
		table[user] = c
	}
	return table
}

// MakeConfusions joins raw recommendation and interaction tables and
// derives confusion counts at cutoff k. This is the only path from raw
// tables to a confusion table.
func MakeConfusions(reco []dataset.RecoRow, interactions []dataset.Interaction, k int) ConfusionTable {
	merged := dataset.MergeReco(reco, interactions)
	return CalcConfusions(merged, k)
}

// trueNegatives derives TN for a confusion row. The result is negative
// when the catalog cannot hold the user's misses under cutoff k; callers
// must guard that regime.
func trueNegatives(c Confusion, k, catalogSize int) int {
	return catalogSize - k - c.FN
}
