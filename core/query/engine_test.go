package query

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/cybernft/marketplace-sdk/core/catalog"
	"github.com/cybernft/marketplace-sdk/core/types"
)

type staticProvider struct {
	listings    []types.Listing
	collections []types.Collection
}

func (p *staticProvider) Listings(context.Context) ([]types.Listing, error) {
	return p.listings, nil
}

func (p *staticProvider) Collections(context.Context) ([]types.Collection, error) {
	return p.collections, nil
}

func mustDecimal(t *testing.T, s string) apd.Decimal {
	t.Helper()
	d, _, err := apd.NewFromString(s)
	require.NoError(t, err)
	return *d
}

func decimalPtr(t *testing.T, s string) *apd.Decimal {
	t.Helper()
	d := mustDecimal(t, s)
	return &d
}

// fixtureStore mirrors the documented example: listings priced
// {0.3, 0.5, 0.8, 1.2} ETH in collections A, B, A, C.
func fixtureStore(t *testing.T) *catalog.Store {
	t.Helper()

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	provider := &staticProvider{
		collections: []types.Collection{
			{ID: "a", Name: "Cyber Punks", Category: types.CategoryArt},
			{ID: "b", Name: "Neural Networks", Category: types.CategoryGaming},
			{ID: "c", Name: "Digital Cosmos", Category: types.CategoryMusic},
		},
		listings: []types.Listing{
			{
				ID: "nft-1", Name: "Cyber Guardian #1247", CollectionID: "a",
				Price: mustDecimal(t, "0.3"), Rarity: types.RarityLegendary,
				Likes: 342, Views: 1250, CreatedAt: base.Add(1 * time.Hour),
			},
			{
				ID: "nft-2", Name: "Neural Interface #891", CollectionID: "b",
				Price: mustDecimal(t, "0.5"), Rarity: types.RarityEpic,
				Likes: 189, Views: 890, CreatedAt: base.Add(2 * time.Hour),
			},
			{
				ID: "nft-3", Name: "Quantum Portal #3344", CollectionID: "a",
				Price: mustDecimal(t, "0.8"), Rarity: types.RarityRare,
				Likes: 567, Views: 2100, CreatedAt: base.Add(3 * time.Hour),
			},
			{
				ID: "nft-4", Name: "Holographic Dream #555", CollectionID: "c",
				Price: mustDecimal(t, "1.2"), Rarity: types.RarityMythic,
				Likes: 789, Views: 3200, CreatedAt: base.Add(4 * time.Hour),
			},
		},
	}

	store, err := catalog.NewStore(provider, nil)
	require.NoError(t, err)
	require.NoError(t, store.Reload(context.Background()))
	return store
}

func ids(page *types.Page) []string {
	out := make([]string, len(page.Listings))
	for i, l := range page.Listings {
		out[i] = l.ID
	}
	return out
}

func TestExecute_PriceRangeScenario(t *testing.T) {
	store := fixtureStore(t)
	engine := NewEngine(100, nil)

	page, err := engine.Execute(store.Snapshot(), types.QuerySpec{
		PriceMin: decimalPtr(t, "0.4"),
		PriceMax: decimalPtr(t, "1.0"),
		Sort:     types.SortPriceAscending,
		PageSize: 2,
	})
	require.NoError(t, err)

	require.Equal(t, []string{"nft-2", "nft-3"}, ids(page))
	require.Equal(t, "0.5", page.Listings[0].Price.Text('f'))
	require.Equal(t, "0.8", page.Listings[1].Price.Text('f'))
	require.False(t, page.HasMore)
}

func TestExecute_PriceBoundsAreInclusive(t *testing.T) {
	store := fixtureStore(t)
	engine := NewEngine(100, nil)

	page, err := engine.Execute(store.Snapshot(), types.QuerySpec{
		PriceMin: decimalPtr(t, "0.5"),
		PriceMax: decimalPtr(t, "0.8"),
		Sort:     types.SortPriceAscending,
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"nft-2", "nft-3"}, ids(page))
}

func TestExecute_RarityFilter(t *testing.T) {
	store := fixtureStore(t)
	engine := NewEngine(100, nil)

	page, err := engine.Execute(store.Snapshot(), types.QuerySpec{
		Rarities: []types.RarityTier{types.RarityLegendary, types.RarityMythic},
		Sort:     types.SortPriceAscending,
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"nft-1", "nft-4"}, ids(page))
	for _, l := range page.Listings {
		require.Contains(t, []types.RarityTier{types.RarityLegendary, types.RarityMythic}, l.Rarity)
	}
}

func TestExecute_SearchMatchesListingAndCollectionNames(t *testing.T) {
	store := fixtureStore(t)
	engine := NewEngine(100, nil)

	// Case-insensitive match on the listing name.
	page, err := engine.Execute(store.Snapshot(), types.QuerySpec{
		Search: "GUARDIAN", Sort: types.SortRecency, PageSize: 10,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"nft-1"}, ids(page))

	// Match on the collection name reaches both Cyber Punks listings.
	page, err = engine.Execute(store.Snapshot(), types.QuerySpec{
		Search: "cyber punks", Sort: types.SortPriceAscending, PageSize: 10,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"nft-1", "nft-3"}, ids(page))
}

func TestExecute_EmptySearchIsNoOp(t *testing.T) {
	store := fixtureStore(t)
	engine := NewEngine(100, nil)

	page, err := engine.Execute(store.Snapshot(), types.QuerySpec{
		Search: "   ", Sort: types.SortPriceAscending, PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, page.Listings, 4)
}

func TestExecute_CategoryInheritsFromCollection(t *testing.T) {
	store := fixtureStore(t)
	engine := NewEngine(100, nil)
	category := types.CategoryArt

	page, err := engine.Execute(store.Snapshot(), types.QuerySpec{
		Category: &category, Sort: types.SortPriceAscending, PageSize: 10,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"nft-1", "nft-3"}, ids(page))
}

func TestExecute_SortOrders(t *testing.T) {
	store := fixtureStore(t)
	engine := NewEngine(100, nil)

	tests := []struct {
		name string
		sort types.SortKey
		want []string
	}{
		{name: "recency newest first", sort: types.SortRecency, want: []string{"nft-4", "nft-3", "nft-2", "nft-1"}},
		{name: "price ascending", sort: types.SortPriceAscending, want: []string{"nft-1", "nft-2", "nft-3", "nft-4"}},
		{name: "price descending", sort: types.SortPriceDescending, want: []string{"nft-4", "nft-3", "nft-2", "nft-1"}},
		{name: "popularity", sort: types.SortPopularity, want: []string{"nft-4", "nft-3", "nft-1", "nft-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := engine.Execute(store.Snapshot(), types.QuerySpec{
				Sort: tt.sort, PageSize: 10,
			})
			require.NoError(t, err)
			require.Equal(t, tt.want, ids(page))
		})
	}
}

func TestExecute_TieBreakByID(t *testing.T) {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	provider := &staticProvider{
		collections: []types.Collection{{ID: "a", Name: "A"}},
		listings: []types.Listing{
			{ID: "z", Name: "Z", CollectionID: "a", Price: mustDecimal(t, "1"), Rarity: types.RarityCommon, CreatedAt: base},
			{ID: "m", Name: "M", CollectionID: "a", Price: mustDecimal(t, "1"), Rarity: types.RarityCommon, CreatedAt: base},
			{ID: "b", Name: "B", CollectionID: "a", Price: mustDecimal(t, "1"), Rarity: types.RarityCommon, CreatedAt: base},
		},
	}
	store, err := catalog.NewStore(provider, nil)
	require.NoError(t, err)
	require.NoError(t, store.Reload(context.Background()))
	engine := NewEngine(100, nil)

	for _, sort := range []types.SortKey{
		types.SortRecency, types.SortPriceAscending, types.SortPriceDescending, types.SortPopularity,
	} {
		page, err := engine.Execute(store.Snapshot(), types.QuerySpec{Sort: sort, PageSize: 10})
		require.NoError(t, err)
		require.Equal(t, []string{"b", "m", "z"}, ids(page), "sort %s", sort)
	}
}

func TestExecute_Deterministic(t *testing.T) {
	store := fixtureStore(t)
	engine := NewEngine(100, nil)
	spec := types.QuerySpec{Sort: types.SortPopularity, PageSize: 10}

	first, err := engine.Execute(store.Snapshot(), spec)
	require.NoError(t, err)
	second, err := engine.Execute(store.Snapshot(), spec)
	require.NoError(t, err)
	require.Equal(t, ids(first), ids(second))
}

func TestExecute_PaginationIsExhaustiveAndNonOverlapping(t *testing.T) {
	store := fixtureStore(t)
	engine := NewEngine(100, nil)

	var collected []string
	spec := types.QuerySpec{Sort: types.SortPriceAscending, PageSize: 3}
	for {
		page, err := engine.Execute(store.Snapshot(), spec)
		require.NoError(t, err)
		require.LessOrEqual(t, len(page.Listings), spec.PageSize)
		collected = append(collected, ids(page)...)
		if !page.HasMore {
			break
		}
		spec.Cursor = page.NextCursor
	}

	require.Equal(t, []string{"nft-1", "nft-2", "nft-3", "nft-4"}, collected)
}

func TestExecute_StaleCursorAfterReload(t *testing.T) {
	store := fixtureStore(t)
	engine := NewEngine(100, nil)

	page, err := engine.Execute(store.Snapshot(), types.QuerySpec{
		Sort: types.SortPriceAscending, PageSize: 2,
	})
	require.NoError(t, err)
	require.True(t, page.HasMore)

	// A reload supersedes the snapshot the cursor was minted against.
	require.NoError(t, store.Reload(context.Background()))

	_, err = engine.Execute(store.Snapshot(), types.QuerySpec{
		Sort: types.SortPriceAscending, PageSize: 2, Cursor: page.NextCursor,
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, types.ErrStaleCursor))
}

func TestExecute_CursorOffsetBeyondTotal(t *testing.T) {
	store := fixtureStore(t)
	engine := NewEngine(100, nil)
	snap := store.Snapshot()

	cursor := Cursor{Offset: 99, SnapshotVersion: snap.Version()}.Encode()
	_, err := engine.Execute(snap, types.QuerySpec{
		Sort: types.SortPriceAscending, PageSize: 2, Cursor: cursor,
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, types.ErrStaleCursor))
}

func TestExecute_InvalidSpecs(t *testing.T) {
	store := fixtureStore(t)
	engine := NewEngine(10, nil)

	tests := []struct {
		name string
		spec types.QuerySpec
	}{
		{name: "zero page size", spec: types.QuerySpec{PageSize: 0}},
		{name: "page size over maximum", spec: types.QuerySpec{PageSize: 11}},
		{
			name: "min above max",
			spec: types.QuerySpec{
				PriceMin: decimalPtr(t, "2"), PriceMax: decimalPtr(t, "1"), PageSize: 5,
			},
		},
		{name: "garbage cursor", spec: types.QuerySpec{PageSize: 5, Cursor: "!!not-a-cursor!!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Execute(store.Snapshot(), tt.spec)
			require.Error(t, err)
			require.True(t, errors.Is(err, types.ErrInvalidQuery))
		})
	}
}

func TestExecute_EmptyResultFirstPage(t *testing.T) {
	store := fixtureStore(t)
	engine := NewEngine(100, nil)

	page, err := engine.Execute(store.Snapshot(), types.QuerySpec{
		Search: "no such listing", Sort: types.SortRecency, PageSize: 5,
	})
	require.NoError(t, err)
	require.Empty(t, page.Listings)
	require.False(t, page.HasMore)
	require.Zero(t, page.Total)
}

func TestCursor_RoundTrip(t *testing.T) {
	c := Cursor{Offset: 7, SnapshotVersion: uuid.New()}
	decoded, err := DecodeCursor(c.Encode())
	require.NoError(t, err)
	require.Equal(t, c, decoded)
}

func TestDecodeCursor_RejectsNegativeOffset(t *testing.T) {
	c := Cursor{Offset: -1, SnapshotVersion: uuid.New()}
	_, err := DecodeCursor(c.Encode())
	require.Error(t, err)
	require.True(t, errors.Is(err, types.ErrInvalidQuery))
}
