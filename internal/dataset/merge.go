package dataset

import "sort"

type userItem struct {
	user string
	item string
}

// MergeReco joins a recommendation table with an interaction table using
// full outer join semantics on (user, item). Every recommended pair and
// every interacted pair appears exactly once in the result; duplicate
// interactions collapse into a single row. Output is sorted by user then
// item so downstream transforms are deterministic.
func MergeReco(reco []RecoRow, interactions []Interaction) []MergedRow {
	rows := make(map[userItem]MergedRow, len(reco)+len(interactions))

	for _, r := range reco {
		rows[userItem{r.User, r.Item}] = MergedRow{
			User: r.User,
			Item: r.Item,
			Rank: r.Rank,
		}
	}

	for _, it := range interactions {
		key := userItem{it.User, it.Item}
		row, ok := rows[key]
		if !ok {
			row = MergedRow{User: it.User, Item: it.Item}
		}
		row.Interacted = true
		rows[key] = row
	}

	merged := make([]MergedRow, 0, len(rows))
	for _, row := range rows {
		merged = append(merged, row)
	}
	sortMerged(merged)
	return merged
}

func sortMerged(merged []MergedRow) {
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].User != merged[j].User {
			return merged[i].User < merged[j].User
		}
		return merged[i].Item < merged[j].Item
	})
}
