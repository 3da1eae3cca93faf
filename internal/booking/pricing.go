package booking

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PriceQuote is a server-computed price breakdown. All three figures are
// fixed-point; Tax is rounded to cents before Total is formed, so
// Total = Subtotal + Tax holds exactly.
type PriceQuote struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Quote computes subtotal = price x guests and tax = subtotal x rate/100
// rounded half away from zero to cents. Client-supplied totals are never
// consulted.
func Quote(price string, guests int, taxRate string) (PriceQuote, error) {
	unit, err := decimal.NewFromString(price)
	if err != nil {
		return PriceQuote{}, fmt.Errorf("invalid tour price %q: %w", price, err)
	}
	rate, err := decimal.NewFromString(taxRate)
	if err != nil {
		return PriceQuote{}, fmt.Errorf("invalid tax rate %q: %w", taxRate, err)
	}

	subtotal := unit.Mul(decimal.NewFromInt(int64(guests)))
	tax := subtotal.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
	return PriceQuote{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}, nil
}

func (q PriceQuote) SubtotalString() string { return q.Subtotal.StringFixed(2) }
func (q PriceQuote) TaxString() string      { return q.Tax.StringFixed(2) }
func (q PriceQuote) TotalString() string    { return q.Total.StringFixed(2) }

// Cents converts the total to the provider's minor unit exactly.
func (q PriceQuote) Cents() int64 {
	return q.Total.Shift(2).IntPart()
}

// AmountCents converts a stored decimal amount string to cents exactly.
func AmountCents(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	shifted := d.Shift(2)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has sub-cent precision", amount)
	}
	return shifted.IntPart(), nil
}
