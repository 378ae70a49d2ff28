package dataset

// Column names form the external contract for recommendation and
// interaction tables loaded from CSV or Postgres.
const (
	ColUser = "user_id"
	ColItem = "item_id"
	ColRank = "rank"
)

// RecoRow is one entry of a recommendation list: item_id was shown to
// user_id at the given 1-based rank.
type RecoRow struct {
	User string
	Item string
	Rank int
}

// Interaction records that a user interacted with an item after
// recommendations were made. It carries no rank.
type Interaction struct {
	User string
	Item string
}

// MergedRow is the outer join of a recommendation row and an interaction
// on (user, item). Rank is 0 when the item was never recommended;
// Interacted marks ground-truth rows.
type MergedRow struct {
	User       string
	Item       string
	Rank       int
	Interacted bool
}

// Recommended reports whether the row carries a recommendation rank.
func (r MergedRow) Recommended() bool {
	return r.Rank > 0
}

// Catalog is the universe of items eligible for recommendation.
// Only its cardinality matters for classification metrics.
type Catalog interface {
	Size() int
}

// Items is a slice-backed catalog.
type Items []string

// Size returns the number of catalog items.
func (i Items) Size() int {
	return len(i)
}

// CatalogSize is a catalog known only by its cardinality.
type CatalogSize int

// Size returns the catalog cardinality.
func (c CatalogSize) Size() int {
	return int(c)
}
