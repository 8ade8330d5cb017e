package types

import (
	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"
)

// QuoteInput contains the inputs to a mint/sale fee quote.
type QuoteInput struct {
	Price          apd.Decimal // base currency units, non-negative
	RoyaltyPercent apd.Decimal // creator royalty, 0-10 inclusive
}

// Validate checks if QuoteInput is valid.
func (q *QuoteInput) Validate() error {
	if q.Price.Sign() < 0 {
		return errors.Wrapf(ErrInvalidInput, "price must be non-negative, got %s", q.Price.Text('f'))
	}
	if q.RoyaltyPercent.Sign() < 0 || q.RoyaltyPercent.Cmp(apd.New(10, 0)) > 0 {
		return errors.Wrapf(ErrInvalidInput, "royalty percent must be between 0 and 10, got %s",
			q.RoyaltyPercent.Text('f'))
	}
	return nil
}

// PriceQuote is the fee breakdown shown before a mint or sale is confirmed.
// PlatformFee + NetProceeds equals Price exactly: the fee is rounded to the
// configured currency precision and the net is the exact remainder.
type PriceQuote struct {
	Price              apd.Decimal
	RoyaltyPercent     apd.Decimal // echoed; secondary-sale distribution is out of scope
	PlatformFeePercent apd.Decimal // fixed at 2.5
	PlatformFee        apd.Decimal
	NetProceeds        apd.Decimal
}
