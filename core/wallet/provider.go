package wallet

import (
	"context"

	"github.com/cybernft/marketplace-sdk/core/util"
)

// ConnectResult is a successful outcome of a connection attempt.
type ConnectResult struct {
	Address util.EthereumAddress
	ChainID int64
}

// Provider is the external wallet provider protocol. RequestConnect begins
// an asynchronous connection attempt and later delivers the outcome to
// exactly one of resolve or reject, on any goroutine. The manager tolerates
// late deliveries: outcomes of superseded attempts are discarded, so the
// provider need not support hard cancellation.
//
// Account and chain changes initiated on the provider side are pushed into
// the manager via Manager.AccountsChanged and Manager.ChainChanged.
type Provider interface {
	RequestConnect(ctx context.Context, resolve func(ConnectResult), reject func(error))
}
