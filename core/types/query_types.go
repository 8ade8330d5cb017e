package types

import (
	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"
)

// ═══════════════════════════════════════════════════════════════
// SORT KEYS
// ═══════════════════════════════════════════════════════════════

// SortKey selects the ordering of query results. All keys break ties by
// listing ID ascending so that repeated queries over an unchanged snapshot
// are byte-for-byte identical.
type SortKey int

const (
	// SortRecency orders by creation timestamp, newest first.
	SortRecency SortKey = iota
	// SortPriceAscending orders by price, cheapest first.
	SortPriceAscending
	// SortPriceDescending orders by price, most expensive first.
	SortPriceDescending
	// SortPopularity orders by likes+views, highest first.
	SortPopularity
)

func (s SortKey) String() string {
	switch s {
	case SortRecency:
		return "recency"
	case SortPriceAscending:
		return "price-ascending"
	case SortPriceDescending:
		return "price-descending"
	case SortPopularity:
		return "popularity"
	default:
		return "unknown"
	}
}

// Valid reports whether s is a defined sort key.
func (s SortKey) Valid() bool {
	return s >= SortRecency && s <= SortPopularity
}

// ═══════════════════════════════════════════════════════════════
// QUERY SPEC
// ═══════════════════════════════════════════════════════════════

// QuerySpec is the combined filter/search/sort/paginate request against the
// catalog. Nil optional fields are unconstrained; an empty Search matches
// everything (it never excludes).
type QuerySpec struct {
	Search   string       // case-insensitive substring over listing and collection names
	Category *string      // nil = all categories
	PriceMin *apd.Decimal // nil = unbounded below
	PriceMax *apd.Decimal // nil = unbounded above
	Rarities []RarityTier // empty = all tiers
	Sort     SortKey
	Cursor   string // empty = first page; otherwise an opaque cursor from a prior Page
	PageSize int    // positive, bounded by the configured maximum
}

// Validate checks the query's internal consistency. The maximum page size is
// configuration and is enforced by the query engine, not here.
func (q *QuerySpec) Validate() error {
	if q.PageSize <= 0 {
		return errors.Wrapf(ErrInvalidQuery, "page_size must be positive, got %d", q.PageSize)
	}
	if q.PriceMin != nil && q.PriceMin.Sign() < 0 {
		return errors.Wrapf(ErrInvalidQuery, "price_min must be non-negative, got %s", q.PriceMin.Text('f'))
	}
	if q.PriceMin != nil && q.PriceMax != nil && q.PriceMin.Cmp(q.PriceMax) > 0 {
		return errors.Wrapf(ErrInvalidQuery, "price_min %s exceeds price_max %s",
			q.PriceMin.Text('f'), q.PriceMax.Text('f'))
	}
	for _, r := range q.Rarities {
		if !r.Valid() {
			return errors.Wrapf(ErrInvalidQuery, "unknown rarity tier %d", r)
		}
	}
	if !q.Sort.Valid() {
		return errors.Wrapf(ErrInvalidQuery, "unknown sort key %d", q.Sort)
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════
// PAGE
// ═══════════════════════════════════════════════════════════════

// Page is one slice of a query's result set. len(Listings) never exceeds
// the requested page size. NextCursor resumes pagination and is only
// meaningful while HasMore is true.
type Page struct {
	Listings   []Listing
	Total      int // size of the filtered set before pagination
	HasMore    bool
	NextCursor string
}
