package catalog

import (
	"context"

	"github.com/cybernft/marketplace-sdk/core/types"
)

// DataProvider supplies listing and collection records. The store only
// consumes a read snapshot; persistence, sale ledgers and mutation pipelines
// live behind this interface.
type DataProvider interface {
	Listings(ctx context.Context) ([]types.Listing, error)
	Collections(ctx context.Context) ([]types.Collection, error)
}
