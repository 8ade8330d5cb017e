// Package pricing computes the fee breakdown shown before a mint or sale is
// confirmed. All arithmetic uses arbitrary-precision decimals; float64 never
// touches a price.
package pricing

import (
	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cybernft/marketplace-sdk/core/types"
)

// PlatformFeePercent is the marketplace cut, fixed and independent of the
// creator royalty.
const PlatformFeePercent = "2.5"

// Calculator produces deterministic PriceQuotes. Identical inputs yield
// byte-identical output: the fee is quantized with round-half-up to the
// configured currency precision and the net is the exact remainder.
type Calculator struct {
	ctx       apd.Context
	precision uint32
	feeRate   *apd.Decimal // PlatformFeePercent / 100
	feePct    *apd.Decimal
	logger    *zap.Logger
}

// NewCalculator builds a calculator rounding fee amounts to precision
// fractional digits.
func NewCalculator(precision uint32, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx := apd.BaseContext.WithPrecision(34)
	ctx.Rounding = apd.RoundHalfUp

	feePct, _, err := apd.NewFromString(PlatformFeePercent)
	if err != nil {
		panic(err) // constant
	}
	feeRate := new(apd.Decimal)
	if _, err := ctx.Quo(feeRate, feePct, apd.New(100, 0)); err != nil {
		panic(err)
	}

	return &Calculator{
		ctx:       *ctx,
		precision: precision,
		feeRate:   feeRate,
		feePct:    feePct,
		logger:    logger,
	}
}

// Quote computes the platform fee and net proceeds for a sale at price with
// the given creator royalty. The royalty is validated and echoed back; it
// affects secondary-sale distribution, which is settled elsewhere. Fails
// with types.ErrInvalidInput for a negative price or a royalty outside
// [0, 10].
func (c *Calculator) Quote(price, royaltyPercent *apd.Decimal) (*types.PriceQuote, error) {
	input := types.QuoteInput{Price: *price, RoyaltyPercent: *royaltyPercent}
	if err := input.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}

	ctx := c.ctx

	var fee apd.Decimal
	if _, err := ctx.Mul(&fee, price, c.feeRate); err != nil {
		return nil, errors.Wrap(err, "failed to compute platform fee")
	}
	if _, err := ctx.Quantize(&fee, &fee, -int32(c.precision)); err != nil {
		return nil, errors.Wrap(err, "failed to round platform fee")
	}

	var net apd.Decimal
	if _, err := ctx.Sub(&net, price, &fee); err != nil {
		return nil, errors.Wrap(err, "failed to compute net proceeds")
	}

	c.logger.Debug("quote computed",
		zap.String("price", price.Text('f')),
		zap.String("platform_fee", fee.Text('f')),
		zap.String("net_proceeds", net.Text('f')))

	quote := &types.PriceQuote{
		PlatformFee: fee,
		NetProceeds: net,
	}
	quote.Price.Set(price)
	quote.RoyaltyPercent.Set(royaltyPercent)
	quote.PlatformFeePercent.Set(c.feePct)
	return quote, nil
}
