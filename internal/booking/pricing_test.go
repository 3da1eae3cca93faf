package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteStandardScenario(t *testing.T) {
	q, err := Quote("150.00", 3, "8.25")
	require.NoError(t, err)

	assert.Equal(t, "450.00", q.SubtotalString())
	assert.Equal(t, "37.13", q.TaxString())
	assert.Equal(t, "487.13", q.TotalString())
	assert.Equal(t, int64(48713), q.Cents())
}

func TestQuoteHalfCentRoundsAwayFromZero(t *testing.T) {
	// 450.00 * 8.25% = 37.125, which must land on 37.13.
	q, err := Quote("450.00", 1, "8.25")
	require.NoError(t, err)
	assert.Equal(t, "37.13", q.TaxString())
}

func TestQuoteZeroTaxRate(t *testing.T) {
	q, err := Quote("99.50", 2, "0")
	require.NoError(t, err)
	assert.Equal(t, "199.00", q.SubtotalString())
	assert.Equal(t, "0.00", q.TaxString())
	assert.Equal(t, "199.00", q.TotalString())
}

func TestQuoteTotalIsSubtotalPlusRoundedTax(t *testing.T) {
	q, err := Quote("33.33", 3, "4.17")
	require.NoError(t, err)
	assert.True(t, q.Subtotal.Add(q.Tax).Equal(q.Total))
}

func TestQuoteRejectsBadInputs(t *testing.T) {
	_, err := Quote("abc", 1, "8.25")
	assert.Error(t, err)

	_, err = Quote("100.00", 1, "eight")
	assert.Error(t, err)
}

func TestAmountCents(t *testing.T) {
	cents, err := AmountCents("487.13")
	require.NoError(t, err)
	assert.Equal(t, int64(48713), cents)

	cents, err = AmountCents("100")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), cents)

	_, err = AmountCents("10.005")
	assert.Error(t, err)

	_, err = AmountCents("not-a-number")
	assert.Error(t, err)
}
