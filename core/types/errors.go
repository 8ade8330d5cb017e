package types

import "github.com/pkg/errors"

// Error taxonomy for the marketplace core. Callers match with errors.Is;
// packages wrap these with context via errors.Wrapf.
var (
	// ErrInvalidQuery indicates a malformed QuerySpec (bad filter bounds,
	// bad page size, unknown sort key, undecodable cursor).
	ErrInvalidQuery = errors.New("invalid query")

	// ErrStaleCursor indicates a cursor minted against a superseded catalog
	// snapshot, or one pointing past the end of the current result set.
	ErrStaleCursor = errors.New("stale cursor")

	// ErrInvalidInput indicates out-of-range pricing inputs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrWalletRejected indicates the user declined the connection prompt.
	ErrWalletRejected = errors.New("wallet connection rejected")

	// ErrProviderTimeout indicates the wallet provider did not answer within
	// the configured deadline. Transient; the session reverts to Disconnected.
	ErrProviderTimeout = errors.New("wallet provider timeout")

	// ErrProviderFailure indicates an unrecoverable wallet provider error.
	// Transient; the session reverts to Disconnected.
	ErrProviderFailure = errors.New("wallet provider failure")

	// ErrWalletNotReady indicates a purchase action was attempted while the
	// session is not Connected on an allow-listed chain.
	ErrWalletNotReady = errors.New("wallet not ready")

	// ErrListingNotFound indicates a listing ID absent from the snapshot.
	ErrListingNotFound = errors.New("listing not found")

	// ErrCollectionNotFound indicates a collection ID absent from the snapshot.
	ErrCollectionNotFound = errors.New("collection not found")
)
