// Package catalog holds the normalized listing and collection data behind
// immutable snapshots. A query runs against exactly one snapshot; reloading
// swaps the snapshot atomically and invalidates outstanding cursors.
package catalog

import (
	"context"
	"sync"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cybernft/marketplace-sdk/core/types"
)

// Store owns the current catalog snapshot.
type Store struct {
	provider DataProvider
	logger   *zap.Logger

	mu   sync.RWMutex
	snap *Snapshot
}

// Snapshot is an immutable point-in-time view of the catalog. Version
// changes on every reload; cursors embed it so staleness is detectable.
type Snapshot struct {
	version     uuid.UUID
	listings    []types.Listing
	collections map[string]types.Collection
}

// NewStore builds an empty store. Call Reload before querying.
func NewStore(provider DataProvider, logger *zap.Logger) (*Store, error) {
	if provider == nil {
		return nil, errors.New("data provider is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		provider: provider,
		logger:   logger,
		snap: &Snapshot{
			version:     uuid.New(),
			collections: map[string]types.Collection{},
		},
	}, nil
}

// Reload fetches listings and collections from the provider, validates
// them, and atomically installs a new snapshot with a fresh version.
// Records failing validation are dropped with a warning rather than
// poisoning the whole reload; duplicate IDs keep the first occurrence.
func (s *Store) Reload(ctx context.Context) error {
	collections, err := s.provider.Collections(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to fetch collections")
	}
	listings, err := s.provider.Listings(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to fetch listings")
	}

	byID := make(map[string]types.Collection, len(collections))
	for i := range collections {
		c := collections[i]
		if err := c.Validate(); err != nil {
			s.logger.Warn("dropping invalid collection", zap.Error(err))
			continue
		}
		if _, dup := byID[c.ID]; dup {
			s.logger.Warn("dropping duplicate collection", zap.String("collection_id", c.ID))
			continue
		}
		byID[c.ID] = c
	}

	kept := make([]types.Listing, 0, len(listings))
	seen := make(map[string]struct{}, len(listings))
	for i := range listings {
		l := listings[i]
		if err := l.Validate(); err != nil {
			s.logger.Warn("dropping invalid listing", zap.Error(err))
			continue
		}
		if _, dup := seen[l.ID]; dup {
			s.logger.Warn("dropping duplicate listing", zap.String("listing_id", l.ID))
			continue
		}
		if _, ok := byID[l.CollectionID]; !ok {
			s.logger.Warn("dropping listing with unknown collection",
				zap.String("listing_id", l.ID),
				zap.String("collection_id", l.CollectionID))
			continue
		}
		seen[l.ID] = struct{}{}
		kept = append(kept, l)
	}

	next := &Snapshot{
		version:     uuid.New(),
		listings:    kept,
		collections: byID,
	}

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()

	s.logger.Info("catalog snapshot installed",
		zap.String("version", next.version.String()),
		zap.Int("listings", len(kept)),
		zap.Int("collections", len(byID)))
	return nil
}

// Snapshot returns the current immutable view. Callers hold it for the
// duration of one query and must not mutate it.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// CollectionStats computes the aggregate view of one collection over the
// current snapshot. Floor price is the minimum listed price, nil (never
// zero) when the collection has no listings. O(n) over the snapshot.
func (s *Store) CollectionStats(id string) (*types.CollectionStats, error) {
	snap := s.Snapshot()

	coll, ok := snap.collections[id]
	if !ok {
		return nil, errors.Wrapf(types.ErrCollectionNotFound, "collection %s", id)
	}

	var floor *apd.Decimal
	for i := range snap.listings {
		l := &snap.listings[i]
		if l.CollectionID != id {
			continue
		}
		if floor == nil || l.Price.Cmp(floor) < 0 {
			f := new(apd.Decimal)
			f.Set(&l.Price)
			floor = f
		}
	}

	stats := &types.CollectionStats{
		FloorPrice:    floor,
		ChangePercent: coll.ChangePercent,
		ItemCount:     coll.ItemCount,
		OwnerCount:    coll.OwnerCount,
	}
	stats.Volume.Set(&coll.Volume)
	return stats, nil
}

// Version identifies the snapshot; cursors embed it.
func (sn *Snapshot) Version() uuid.UUID {
	return sn.version
}

// Listings returns the snapshot's listings. Read-only.
func (sn *Snapshot) Listings() []types.Listing {
	return sn.listings
}

// Listing looks up a listing by ID.
func (sn *Snapshot) Listing(id string) (types.Listing, bool) {
	for i := range sn.listings {
		if sn.listings[i].ID == id {
			return sn.listings[i], true
		}
	}
	return types.Listing{}, false
}

// Collection looks up a collection by ID.
func (sn *Snapshot) Collection(id string) (types.Collection, bool) {
	c, ok := sn.collections[id]
	return c, ok
}

// CollectionName resolves a collection's display name, empty when unknown.
func (sn *Snapshot) CollectionName(id string) string {
	return sn.collections[id].Name
}

// CollectionCategory resolves a collection's category, empty when unknown.
func (sn *Snapshot) CollectionCategory(id string) string {
	return sn.collections[id].Category
}
