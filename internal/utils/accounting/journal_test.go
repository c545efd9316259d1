package accounting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sideTotal(postings []domain.JournalPosting, side domain.PostingSide) decimal.Decimal {
	total := decimal.Zero
	for _, p := range postings {
		if p.Side == side {
			total = total.Add(p.Amount)
		}
	}
	return total
}

func TestGrandTotal(t *testing.T) {
	assert.True(t, d("222000").Equal(GrandTotal(d("200000"), d("22000"), d("0"))))
	assert.True(t, d("218000").Equal(GrandTotal(d("200000"), d("22000"), d("4000"))))
	assert.True(t, d("200000").Equal(GrandTotal(d("200000"), d("0"), d("0"))))
}

func TestBuildPostings_SaleWithVat(t *testing.T) {
	// 2 units at 100000 with 11% VAT: receivable 222000, revenue 200000, VAT output 22000.
	vat := &ResolvedTax{Amount: d("22000"), AccountID: "2401"}

	postings, grandTotal, err := BuildPostings(domain.Sale, d("200000"), vat, nil, "1201", "4101")
	require.NoError(t, err)
	assert.True(t, d("222000").Equal(grandTotal))
	require.Len(t, postings, 3)

	assert.Equal(t, "1201", postings[0].AccountID)
	assert.Equal(t, domain.Debit, postings[0].Side)
	assert.True(t, d("222000").Equal(postings[0].Amount))

	assert.Equal(t, "4101", postings[1].AccountID)
	assert.Equal(t, domain.Credit, postings[1].Side)
	assert.True(t, d("200000").Equal(postings[1].Amount))

	assert.Equal(t, "2401", postings[2].AccountID)
	assert.Equal(t, domain.Credit, postings[2].Side)
	assert.True(t, d("22000").Equal(postings[2].Amount))

	assert.True(t, sideTotal(postings, domain.Debit).Equal(sideTotal(postings, domain.Credit)))
}

func TestBuildPostings_SaleWithVatAndWithholding(t *testing.T) {
	vat := &ResolvedTax{Amount: d("22000"), AccountID: "2401"}
	wht := &ResolvedTax{Amount: d("4000"), AccountID: "1501"}

	postings, grandTotal, err := BuildPostings(domain.Sale, d("200000"), vat, wht, "1201", "4101")
	require.NoError(t, err)
	assert.True(t, d("218000").Equal(grandTotal))
	require.Len(t, postings, 4)

	// Withholding posts as a debit (prepaid tax) so both sides still sum to base+vat.
	assert.Equal(t, "1501", postings[3].AccountID)
	assert.Equal(t, domain.Debit, postings[3].Side)
	assert.True(t, d("4000").Equal(postings[3].Amount))

	assert.True(t, d("222000").Equal(sideTotal(postings, domain.Debit)))
	assert.True(t, d("222000").Equal(sideTotal(postings, domain.Credit)))
}

func TestBuildPostings_PurchaseWithVatAndWithholding(t *testing.T) {
	vat := &ResolvedTax{Amount: d("11000"), AccountID: "1401"}
	wht := &ResolvedTax{Amount: d("2000"), AccountID: "2501"}

	postings, grandTotal, err := BuildPostings(domain.Purchase, d("100000"), vat, wht, "5101", "2101")
	require.NoError(t, err)
	assert.True(t, d("109000").Equal(grandTotal))
	require.Len(t, postings, 4)

	assert.Equal(t, "2101", postings[0].AccountID)
	assert.Equal(t, domain.Credit, postings[0].Side)
	assert.True(t, d("109000").Equal(postings[0].Amount))

	assert.Equal(t, "5101", postings[1].AccountID)
	assert.Equal(t, domain.Debit, postings[1].Side)
	assert.True(t, d("100000").Equal(postings[1].Amount))

	assert.Equal(t, "1401", postings[2].AccountID)
	assert.Equal(t, domain.Debit, postings[2].Side)

	assert.Equal(t, "2501", postings[3].AccountID)
	assert.Equal(t, domain.Credit, postings[3].Side)

	assert.True(t, sideTotal(postings, domain.Debit).Equal(sideTotal(postings, domain.Credit)))
}

func TestBuildPostings_NoTaxes(t *testing.T) {
	postings, grandTotal, err := BuildPostings(domain.Sale, d("50000"), nil, nil, "1201", "4101")
	require.NoError(t, err)
	assert.True(t, d("50000").Equal(grandTotal))
	require.Len(t, postings, 2)
	assert.True(t, sideTotal(postings, domain.Debit).Equal(sideTotal(postings, domain.Credit)))
}

func TestBuildPostings_ZeroRateTaxOmitted(t *testing.T) {
	// A 0%-rated component (zero-rated export, exempt withholding) keeps its
	// reference on the header but must not produce a zero-amount posting.
	vat := &ResolvedTax{Amount: d("0"), AccountID: "2401"}
	wht := &ResolvedTax{Amount: d("0"), AccountID: "1501"}

	postings, grandTotal, err := BuildPostings(domain.Sale, d("200000"), vat, wht, "1201", "4101")
	require.NoError(t, err)
	assert.True(t, d("200000").Equal(grandTotal))
	require.Len(t, postings, 2)
	assert.True(t, sideTotal(postings, domain.Debit).Equal(sideTotal(postings, domain.Credit)))

	postings, grandTotal, err = BuildPostings(domain.Purchase, d("100000"), vat, wht, "5101", "2101")
	require.NoError(t, err)
	assert.True(t, d("100000").Equal(grandTotal))
	require.Len(t, postings, 2)
}

func TestBuildPostings_UnknownDirection(t *testing.T) {
	_, _, err := BuildPostings(domain.TransactionDirection("TRANSFER"), d("100"), nil, nil, "a", "b")
	assert.Error(t, err)
}

func TestValidateBalance(t *testing.T) {
	balanced := []domain.JournalPosting{
		{AccountID: "a", Side: domain.Debit, Amount: d("100")},
		{AccountID: "b", Side: domain.Credit, Amount: d("100")},
	}
	assert.NoError(t, ValidateBalance(balanced))

	unbalanced := []domain.JournalPosting{
		{AccountID: "a", Side: domain.Debit, Amount: d("100")},
		{AccountID: "b", Side: domain.Credit, Amount: d("99")},
	}
	err := ValidateBalance(unbalanced)
	assert.ErrorIs(t, err, ErrJournalUnbalanced)

	single := []domain.JournalPosting{
		{AccountID: "a", Side: domain.Debit, Amount: d("100")},
	}
	assert.ErrorIs(t, ValidateBalance(single), ErrJournalUnbalanced)

	zeroAmount := []domain.JournalPosting{
		{AccountID: "a", Side: domain.Debit, Amount: d("0")},
		{AccountID: "b", Side: domain.Credit, Amount: d("0")},
	}
	assert.ErrorIs(t, ValidateBalance(zeroAmount), ErrJournalUnbalanced)

	unresolvedSide := []domain.JournalPosting{
		{AccountID: "a", Side: domain.PostingSide(""), Amount: d("100")},
		{AccountID: "b", Side: domain.Credit, Amount: d("100")},
	}
	assert.ErrorIs(t, ValidateBalance(unresolvedSide), ErrJournalUnbalanced)
}
