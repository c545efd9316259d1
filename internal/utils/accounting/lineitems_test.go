package accounting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitrapajak/tax-ledger-backend/internal/apperrors"
)

func TestAggregateLineItems(t *testing.T) {
	base, items, err := AggregateLineItems([]LineInput{
		{Name: "Consulting", Quantity: d("2"), UnitPrice: d("100000")},
		{Name: "Support", Description: "monthly retainer", Quantity: d("1"), UnitPrice: d("50000")},
	})
	require.NoError(t, err)
	assert.True(t, d("250000").Equal(base))
	require.Len(t, items, 2)
	assert.True(t, d("200000").Equal(items[0].Subtotal))
	assert.True(t, d("50000").Equal(items[1].Subtotal))
	assert.Equal(t, "monthly retainer", items[1].Description)
	assert.Empty(t, items[0].LineItemID)
}

func TestAggregateLineItems_FractionalQuantity(t *testing.T) {
	base, items, err := AggregateLineItems([]LineInput{
		{Name: "Hourly work", Quantity: d("2.5"), UnitPrice: d("120000")},
	})
	require.NoError(t, err)
	assert.True(t, d("300000").Equal(base))
	assert.True(t, d("300000").Equal(items[0].Subtotal))
}

func TestAggregateLineItems_ZeroPriceLine(t *testing.T) {
	// Free-of-charge lines are allowed; only negative prices are rejected.
	base, _, err := AggregateLineItems([]LineInput{
		{Name: "Sample", Quantity: d("1"), UnitPrice: d("0")},
	})
	require.NoError(t, err)
	assert.True(t, base.IsZero())
}

func TestAggregateLineItems_Empty(t *testing.T) {
	_, _, err := AggregateLineItems(nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAggregateLineItems_InvalidQuantity(t *testing.T) {
	_, _, err := AggregateLineItems([]LineInput{
		{Name: "Bad", Quantity: d("0"), UnitPrice: d("10")},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, _, err = AggregateLineItems([]LineInput{
		{Name: "Bad", Quantity: d("-1"), UnitPrice: d("10")},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAggregateLineItems_NegativePrice(t *testing.T) {
	_, _, err := AggregateLineItems([]LineInput{
		{Name: "Bad", Quantity: d("1"), UnitPrice: d("-10")},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
