package dataset

import (
	"fmt"
	"sort"

	apperrors "github.com/recmetrics/recmetrics/pkg/errors"
)

// ValidateReco checks the recommendation table invariants: every rank is a
// positive integer and ranks are unique per user.
func ValidateReco(reco []RecoRow) error {
	seen := make(map[string]map[int]string, 64)

	for i, r := range reco {
		if r.User == "" || r.Item == "" {
			return apperrors.NewValidationError(fmt.Sprintf("recommendation row %d: empty user or item id", i))
		}
		if r.Rank < 1 {
			return apperrors.NewValidationError(fmt.Sprintf("recommendation row %d: rank %d for user %q must be positive", i, r.Rank, r.User))
		}
		ranks, ok := seen[r.User]
		if !ok {
			ranks = make(map[int]string, 8)
			seen[r.User] = ranks
		}
		if prev, dup := ranks[r.Rank]; dup {
			return apperrors.NewValidationError(fmt.Sprintf("user %q: duplicate rank %d (items %q and %q)", r.User, r.Rank, prev, r.Item))
		}
		ranks[r.Rank] = r.Item
	}

	return nil
}

// ShortLists returns the users with fewer than k recommendation rows,
// sorted by user id. Confusion counting assumes exactly k recommendations
// per user; for these users FP is overstated.
func ShortLists(reco []RecoRow, k int) []string {
	counts := make(map[string]int, 64)
	for _, r := range reco {
		counts[r.User]++
	}

	var short []string
	for user, n := range counts {
		if n < k {
			short = append(short, user)
		}
	}
	sort.Strings(short)
	return short
}
