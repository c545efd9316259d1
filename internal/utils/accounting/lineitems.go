package accounting

import (
	"fmt"

	"github.com/mitrapajak/tax-ledger-backend/internal/apperrors"
	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineInput is one product/service line as supplied by the caller, before
// subtotal derivation.
type LineInput struct {
	Name        string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// AggregateLineItems derives each line's subtotal and sums them into the
// taxable base amount. IDs on the returned items are left empty; the caller
// assigns them when it knows the owning transaction.
func AggregateLineItems(lines []LineInput) (decimal.Decimal, []domain.LineItem, error) {
	if len(lines) == 0 {
		return decimal.Zero, nil, fmt.Errorf("%w: at least one line item is required", apperrors.ErrValidation)
	}

	base := decimal.Zero
	items := make([]domain.LineItem, len(lines))
	for i, line := range lines {
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, nil, fmt.Errorf("%w: quantity must be positive for line %q", apperrors.ErrValidation, line.Name)
		}
		if line.UnitPrice.IsNegative() {
			return decimal.Zero, nil, fmt.Errorf("%w: unit price must not be negative for line %q", apperrors.ErrValidation, line.Name)
		}

		subtotal := line.Quantity.Mul(line.UnitPrice)
		base = base.Add(subtotal)
		items[i] = domain.LineItem{
			Name:        line.Name,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    subtotal,
		}
	}
	return base, items, nil
}
