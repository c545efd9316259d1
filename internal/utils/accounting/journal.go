// Package accounting holds the pure calculation core of the ledger engine:
// line aggregation, journal construction, and the double-entry balance check.
package accounting

import (
	"errors"
	"fmt"

	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrJournalUnbalanced reports that a constructed journal fails the
// double-entry invariant. It is an internal defect: the engine must never
// persist such a journal, and never patch it with a balancing entry.
var ErrJournalUnbalanced = errors.New("journal postings do not balance")

// ResolvedTax is a tax component resolved against a transaction: the computed
// amount and the account the posting targets for the transaction's direction.
type ResolvedTax struct {
	Amount    decimal.Decimal
	AccountID string
}

// GrandTotal computes the net settled amount of a transaction. Withholding
// reduces the settlement in both directions: the counterparty keeps it and
// remits it to the tax authority on the filer's behalf.
func GrandTotal(base, vat, withholding decimal.Decimal) decimal.Decimal {
	return base.Add(vat).Sub(withholding)
}

// BuildPostings constructs the balanced journal for a transaction.
//
// The settlement-side account (debit account on sales, kredit account on
// purchases) carries the grand total; the performance-side account carries the
// base amount; tax components post to their own accounts with the side implied
// by the direction. Each side then sums to base+vat:
//
//	Sale:     Dr user-debit grandTotal | Cr user-kredit base, Cr vat-output vat; Dr wht-sale wht
//	Purchase: Dr user-debit base, Dr vat-input vat | Cr user-kredit grandTotal; Cr wht-purchase wht
//
// The returned postings carry explicit resolved sides; the balance invariant
// is verified before returning and a violation aborts with ErrJournalUnbalanced.
func BuildPostings(
	direction domain.TransactionDirection,
	base decimal.Decimal,
	vat, withholding *ResolvedTax,
	debitAccountID, kreditAccountID string,
) ([]domain.JournalPosting, decimal.Decimal, error) {
	vatAmount := decimal.Zero
	if vat != nil {
		vatAmount = vat.Amount
	}
	whtAmount := decimal.Zero
	if withholding != nil {
		whtAmount = withholding.Amount
	}
	grandTotal := GrandTotal(base, vatAmount, whtAmount)

	// A zero-rate component contributes zero to totals and gets no posting;
	// only positive tax amounts appear in the journal.
	postVat := vat != nil && vat.Amount.IsPositive()
	postWht := withholding != nil && withholding.Amount.IsPositive()

	var postings []domain.JournalPosting
	switch direction {
	case domain.Sale:
		postings = append(postings,
			domain.JournalPosting{AccountID: debitAccountID, Side: domain.Debit, Amount: grandTotal, Memo: "receivable, net of withholding"},
			domain.JournalPosting{AccountID: kreditAccountID, Side: domain.Credit, Amount: base, Memo: "taxable base"},
		)
		if postVat {
			postings = append(postings, domain.JournalPosting{AccountID: vat.AccountID, Side: domain.Credit, Amount: vat.Amount, Memo: "VAT output"})
		}
		if postWht {
			postings = append(postings, domain.JournalPosting{AccountID: withholding.AccountID, Side: domain.Debit, Amount: withholding.Amount, Memo: "withholding prepaid"})
		}
	case domain.Purchase:
		postings = append(postings,
			domain.JournalPosting{AccountID: kreditAccountID, Side: domain.Credit, Amount: grandTotal, Memo: "payable, net of withholding"},
			domain.JournalPosting{AccountID: debitAccountID, Side: domain.Debit, Amount: base, Memo: "taxable base"},
		)
		if postVat {
			postings = append(postings, domain.JournalPosting{AccountID: vat.AccountID, Side: domain.Debit, Amount: vat.Amount, Memo: "VAT input"})
		}
		if postWht {
			postings = append(postings, domain.JournalPosting{AccountID: withholding.AccountID, Side: domain.Credit, Amount: withholding.Amount, Memo: "withholding payable"})
		}
	default:
		return nil, decimal.Zero, fmt.Errorf("unknown transaction direction %q", direction)
	}

	if err := ValidateBalance(postings); err != nil {
		return nil, decimal.Zero, err
	}
	return postings, grandTotal, nil
}

// ValidateBalance checks the double-entry invariant: the sum of debit amounts
// equals the sum of credit amounts, and every amount is positive. Zero-amount
// postings are rejected too; the builder skips zero-rate components instead of
// emitting them.
func ValidateBalance(postings []domain.JournalPosting) error {
	if len(postings) < 2 {
		return fmt.Errorf("%w: journal must have at least two postings", ErrJournalUnbalanced)
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, p := range postings {
		if p.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: posting amount must be positive for account %s", ErrJournalUnbalanced, p.AccountID)
		}
		switch p.Side {
		case domain.Debit:
			debits = debits.Add(p.Amount)
		case domain.Credit:
			credits = credits.Add(p.Amount)
		default:
			return fmt.Errorf("%w: posting for account %s has unresolved side %q", ErrJournalUnbalanced, p.AccountID, p.Side)
		}
	}

	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits sum to %s, credits sum to %s", ErrJournalUnbalanced, debits.String(), credits.String())
	}
	return nil
}
