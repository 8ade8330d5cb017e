// Package marketclient ties the catalog, query engine, pricing calculator
// and wallet session together behind one client, and enforces the purchase
// gate: buy/mint actions only proceed while the wallet session is connected
// on an allow-listed chain.
package marketclient

import (
	"context"

	"github.com/cockroachdb/apd/v3"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cybernft/marketplace-sdk/core/catalog"
	"github.com/cybernft/marketplace-sdk/core/config"
	"github.com/cybernft/marketplace-sdk/core/pricing"
	"github.com/cybernft/marketplace-sdk/core/query"
	"github.com/cybernft/marketplace-sdk/core/types"
	"github.com/cybernft/marketplace-sdk/core/wallet"
)

// Client is the marketplace front door.
type Client struct {
	cfg    config.Config
	logger *zap.Logger

	dataProvider   catalog.DataProvider `validate:"required"`
	walletProvider wallet.Provider      `validate:"required"`
	listener       wallet.Listener

	store      *catalog.Store      `validate:"required"`
	engine     *query.Engine       `validate:"required"`
	calculator *pricing.Calculator `validate:"required"`
	session    *wallet.Manager     `validate:"required"`
}

// Option customizes a Client before construction completes.
type Option func(*Client)

// WithLogger sets the logger shared by all components.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithDataProvider sets the listing/collection source. Required.
func WithDataProvider(p catalog.DataProvider) Option {
	return func(c *Client) { c.dataProvider = p }
}

// WithWalletProvider sets the wallet provider. Required.
func WithWalletProvider(p wallet.Provider) Option {
	return func(c *Client) { c.walletProvider = p }
}

// WithSessionListener registers an observer of wallet session transitions.
func WithSessionListener(l wallet.Listener) Option {
	return func(c *Client) { c.listener = l }
}

// NewClient validates cfg, wires the components and performs the initial
// catalog load.
func NewClient(ctx context.Context, cfg config.Config, options ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	c := &Client{cfg: cfg, logger: zap.NewNop()}
	for _, option := range options {
		option(c)
	}

	store, err := catalog.NewStore(c.dataProvider, c.logger)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	c.store = store
	c.engine = query.NewEngine(cfg.MaxPageSize, c.logger)
	c.calculator = pricing.NewCalculator(cfg.CurrencyPrecision, c.logger)

	sessionOpts := []wallet.ManagerOption{
		wallet.WithTimeout(cfg.ProviderTimeout),
		wallet.WithLogger(c.logger),
	}
	if c.listener != nil {
		sessionOpts = append(sessionOpts, wallet.WithListener(c.listener))
	}
	session, err := wallet.NewManager(c.walletProvider, cfg.AllowedChains, sessionOpts...)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	c.session = session

	if err := c.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := c.store.Reload(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return c, nil
}

// Validate checks the client wiring.
func (c *Client) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// Browse executes spec against the current catalog snapshot.
func (c *Client) Browse(spec types.QuerySpec) (*types.Page, error) {
	return c.engine.Execute(c.store.Snapshot(), spec)
}

// NewSearchDebouncer returns a debouncer tuned to the configured quiet
// interval, for callers re-running Browse on each keystroke.
func (c *Client) NewSearchDebouncer() *query.Debouncer {
	return query.NewDebouncer(c.cfg.SearchDebounce)
}

// Refresh re-reads the data provider and installs a new snapshot, which
// invalidates outstanding cursors.
func (c *Client) Refresh(ctx context.Context) error {
	return c.store.Reload(ctx)
}

// CollectionStats returns the aggregate view of one collection.
func (c *Client) CollectionStats(id string) (*types.CollectionStats, error) {
	return c.store.CollectionStats(id)
}

// QuoteMint previews the fee breakdown for minting at price with the given
// creator royalty. Pure; does not require a connected wallet.
func (c *Client) QuoteMint(price, royaltyPercent *apd.Decimal) (*types.PriceQuote, error) {
	return c.calculator.Quote(price, royaltyPercent)
}

// Connect begins the wallet connection flow.
func (c *Client) Connect(ctx context.Context) error {
	return c.session.RequestConnect(ctx)
}

// Disconnect tears down the wallet session.
func (c *Client) Disconnect() {
	c.session.Disconnect()
}

// Session returns the current wallet session value.
func (c *Client) Session() types.Session {
	return c.session.Session()
}

// Wallet exposes the session manager for provider-side event delivery
// (chain and account changes).
func (c *Client) Wallet() *wallet.Manager {
	return c.session
}

// BuyNow previews the purchase of a listing: it resolves the listing and
// its collection royalty and returns the quote the confirmation screen
// shows. Fails with types.ErrWalletNotReady unless the session is connected
// on an allow-listed chain; on-chain submission is the wallet provider's
// concern and happens after this preview.
func (c *Client) BuyNow(listingID string) (*types.PriceQuote, error) {
	sess := c.session.Session()
	if !sess.CanTransact() {
		return nil, errors.Wrapf(types.ErrWalletNotReady, "session is %s", sess.State)
	}

	snap := c.store.Snapshot()
	listing, ok := snap.Listing(listingID)
	if !ok {
		return nil, errors.Wrapf(types.ErrListingNotFound, "listing %s", listingID)
	}
	coll, ok := snap.Collection(listing.CollectionID)
	if !ok {
		return nil, errors.Wrapf(types.ErrCollectionNotFound, "collection %s", listing.CollectionID)
	}

	quote, err := c.calculator.Quote(&listing.Price, &coll.RoyaltyPercent)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	c.logger.Info("purchase preview",
		zap.String("listing_id", listing.ID),
		zap.String("buyer", sess.Address.Address()),
		zap.Int64("chain_id", sess.ChainID),
		zap.String("price", quote.Price.Text('f')))
	return quote, nil
}
