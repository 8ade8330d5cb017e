// Package query executes QuerySpecs against catalog snapshots. The pipeline
// runs in a fixed order (category, price range, rarity, search, sort,
// paginate) so pagination over an unchanged snapshot is reproducible.
package query

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cybernft/marketplace-sdk/core/catalog"
	"github.com/cybernft/marketplace-sdk/core/types"
)

// Engine is a stateless query executor. Execute is a pure function of the
// snapshot and spec; the engine itself only carries configuration.
type Engine struct {
	maxPageSize int
	logger      *zap.Logger
}

// NewEngine builds an engine enforcing maxPageSize on every spec.
func NewEngine(maxPageSize int, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{maxPageSize: maxPageSize, logger: logger}
}

// Execute runs the filter → search → sort → paginate pipeline over snap.
// Deterministic for a given snapshot and spec. Fails with
// types.ErrInvalidQuery for malformed specs and types.ErrStaleCursor for
// cursors minted against another snapshot or pointing past the end.
func (e *Engine) Execute(snap *catalog.Snapshot, spec types.QuerySpec) (*types.Page, error) {
	if err := spec.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	if spec.PageSize > e.maxPageSize {
		return nil, errors.Wrapf(types.ErrInvalidQuery,
			"page_size %d exceeds maximum %d", spec.PageSize, e.maxPageSize)
	}

	offset := 0
	if spec.Cursor != "" {
		cur, err := DecodeCursor(spec.Cursor)
		if err != nil {
			return nil, err
		}
		if cur.SnapshotVersion != snap.Version() {
			return nil, errors.Wrapf(types.ErrStaleCursor,
				"cursor minted against snapshot %s, current is %s",
				cur.SnapshotVersion, snap.Version())
		}
		offset = cur.Offset
	}

	working := e.filter(snap, spec)
	sortListings(working, spec.Sort)

	total := len(working)
	if offset > total || (offset == total && offset > 0) {
		return nil, errors.Wrapf(types.ErrStaleCursor,
			"cursor offset %d is beyond the result set of %d", offset, total)
	}

	end := offset + spec.PageSize
	if end > total {
		end = total
	}
	page := &types.Page{
		Listings: working[offset:end],
		Total:    total,
		HasMore:  offset+spec.PageSize < total,
	}
	if page.HasMore {
		page.NextCursor = Cursor{Offset: offset + len(page.Listings), SnapshotVersion: snap.Version()}.Encode()
	}

	e.logger.Debug("query executed",
		zap.String("sort", spec.Sort.String()),
		zap.Int("total", total),
		zap.Int("returned", len(page.Listings)),
		zap.Bool("has_more", page.HasMore))
	return page, nil
}

// filter applies the category, price-range, rarity and search stages.
func (e *Engine) filter(snap *catalog.Snapshot, spec types.QuerySpec) []types.Listing {
	var raritySet map[types.RarityTier]struct{}
	if len(spec.Rarities) > 0 {
		raritySet = make(map[types.RarityTier]struct{}, len(spec.Rarities))
		for _, r := range spec.Rarities {
			raritySet[r] = struct{}{}
		}
	}
	search := strings.ToLower(strings.TrimSpace(spec.Search))

	all := snap.Listings()
	out := make([]types.Listing, 0, len(all))
	for i := range all {
		l := all[i]

		if spec.Category != nil {
			category := l.Category
			if category == "" {
				category = snap.CollectionCategory(l.CollectionID)
			}
			if !strings.EqualFold(category, *spec.Category) {
				continue
			}
		}

		if spec.PriceMin != nil && l.Price.Cmp(spec.PriceMin) < 0 {
			continue
		}
		if spec.PriceMax != nil && l.Price.Cmp(spec.PriceMax) > 0 {
			continue
		}

		if raritySet != nil {
			if _, ok := raritySet[l.Rarity]; !ok {
				continue
			}
		}

		if search != "" {
			name := strings.ToLower(l.Name)
			collName := strings.ToLower(snap.CollectionName(l.CollectionID))
			if !strings.Contains(name, search) && !strings.Contains(collName, search) {
				continue
			}
		}

		out = append(out, l)
	}
	return out
}

// sortListings applies a stable sort for the requested key. Every key
// breaks ties by listing ID ascending so ordering is total.
func sortListings(listings []types.Listing, key types.SortKey) {
	sort.SliceStable(listings, func(i, j int) bool {
		a, b := &listings[i], &listings[j]
		switch key {
		case types.SortRecency:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		case types.SortPriceAscending:
			if cmp := a.Price.Cmp(&b.Price); cmp != 0 {
				return cmp < 0
			}
		case types.SortPriceDescending:
			if cmp := a.Price.Cmp(&b.Price); cmp != 0 {
				return cmp > 0
			}
		case types.SortPopularity:
			if pa, pb := a.Popularity(), b.Popularity(); pa != pb {
				return pa > pb
			}
		}
		return a.ID < b.ID
	})
}
