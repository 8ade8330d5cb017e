package types

import (
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"

	"github.com/cybernft/marketplace-sdk/core/util"
)

// ═══════════════════════════════════════════════════════════════
// RARITY & CATEGORY
// ═══════════════════════════════════════════════════════════════

// RarityTier is the ordered rarity enumeration: Common < Rare < Epic <
// Legendary < Mythic.
type RarityTier int

const (
	RarityCommon RarityTier = iota + 1
	RarityRare
	RarityEpic
	RarityLegendary
	RarityMythic
)

var rarityNames = map[RarityTier]string{
	RarityCommon:    "Common",
	RarityRare:      "Rare",
	RarityEpic:      "Epic",
	RarityLegendary: "Legendary",
	RarityMythic:    "Mythic",
}

func (r RarityTier) String() string {
	if name, ok := rarityNames[r]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether r is one of the five defined tiers.
func (r RarityTier) Valid() bool {
	_, ok := rarityNames[r]
	return ok
}

// ParseRarityTier parses a tier name as emitted by String.
func ParseRarityTier(s string) (RarityTier, error) {
	for tier, name := range rarityNames {
		if name == s {
			return tier, nil
		}
	}
	return 0, errors.Errorf("unknown rarity tier %q", s)
}

// Listing categories exposed by the marketplace.
const (
	CategoryArt         = "art"
	CategoryGaming      = "gaming"
	CategoryMusic       = "music"
	CategoryPhotography = "photography"
)

// ═══════════════════════════════════════════════════════════════
// LISTING & COLLECTION
// ═══════════════════════════════════════════════════════════════

// Listing is a single tradable item. Listings are created by the data
// provider and are immutable once loaded into a catalog snapshot.
type Listing struct {
	ID           string // unique across the catalog
	Name         string
	CollectionID string      // owning collection
	Category     string      // empty means "inherit from collection"
	Price        apd.Decimal // base currency units, non-negative
	Rarity       RarityTier
	Verified     bool
	Likes        int64
	Views        int64
	CreatedAt    time.Time
	Creator      util.EthereumAddress // optional
}

// Validate checks listing invariants before snapshot admission.
func (l *Listing) Validate() error {
	if l.ID == "" {
		return errors.New("listing id is required")
	}
	if l.Name == "" {
		return errors.Errorf("listing %s: name is required", l.ID)
	}
	if l.CollectionID == "" {
		return errors.Errorf("listing %s: collection id is required", l.ID)
	}
	if l.Price.Sign() < 0 {
		return errors.Errorf("listing %s: price must be non-negative, got %s", l.ID, l.Price.Text('f'))
	}
	if !l.Rarity.Valid() {
		return errors.Errorf("listing %s: unknown rarity tier %d", l.ID, l.Rarity)
	}
	if l.Likes < 0 || l.Views < 0 {
		return errors.Errorf("listing %s: like and view counts must be non-negative", l.ID)
	}
	return nil
}

// Popularity is the score used by the popularity sort.
func (l *Listing) Popularity() int64 {
	return l.Likes + l.Views
}

// Collection is a named grouping of listings. Volume, change percent, item
// and owner counts come from the data provider's sale ledger, which is
// outside this core; floor price is derived from the snapshot instead.
type Collection struct {
	ID             string
	Name           string
	Description    string
	Category       string
	Volume         apd.Decimal  // externally supplied
	ChangePercent  *apd.Decimal // 24h change, externally supplied, nil when unknown
	ItemCount      int64
	OwnerCount     int64
	RoyaltyPercent apd.Decimal // creator royalty on sales, 0-10
	Verified       bool
	Trending       bool
}

// Validate checks collection invariants before snapshot admission.
func (c *Collection) Validate() error {
	if c.ID == "" {
		return errors.New("collection id is required")
	}
	if c.Name == "" {
		return errors.Errorf("collection %s: name is required", c.ID)
	}
	if c.Volume.Sign() < 0 {
		return errors.Errorf("collection %s: volume must be non-negative", c.ID)
	}
	if c.ItemCount < 0 || c.OwnerCount < 0 {
		return errors.Errorf("collection %s: item and owner counts must be non-negative", c.ID)
	}
	if c.RoyaltyPercent.Sign() < 0 || c.RoyaltyPercent.Cmp(apd.New(10, 0)) > 0 {
		return errors.Errorf("collection %s: royalty percent must be between 0 and 10, got %s",
			c.ID, c.RoyaltyPercent.Text('f'))
	}
	return nil
}

// CollectionStats is the aggregate view served by the catalog store.
type CollectionStats struct {
	FloorPrice    *apd.Decimal // min listing price in the snapshot; nil when the collection has no listings
	Volume        apd.Decimal
	ChangePercent *apd.Decimal
	ItemCount     int64
	OwnerCount    int64
}
