package mapping

import (
	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	"github.com/mitrapajak/tax-ledger-backend/internal/models"
)

// ToModelTaxTransaction converts a domain transaction header to its model shape
func ToModelTaxTransaction(d domain.TaxTransaction) models.TaxTransaction {
	return models.TaxTransaction{
		TransactionID:     d.TransactionID,
		Direction:         string(d.Direction),
		BookingDate:       d.BookingDate,
		InvoiceDate:       d.InvoiceDate,
		DueDate:           d.DueDate,
		TaxInvoiceNo:      d.TaxInvoiceNo,
		CompanyID:         d.CompanyID,
		PartnerID:         d.PartnerID,
		DebitAccountID:    d.DebitAccountID,
		KreditAccountID:   d.KreditAccountID,
		VatID:             d.VatID,
		WithholdingID:     d.WithholdingID,
		BaseAmount:        d.BaseAmount,
		VatAmount:         d.VatAmount,
		WithholdingAmount: d.WithholdingAmount,
		GrandTotal:        d.GrandTotal,
		PaymentStatus:     int(d.PaymentStatus),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTaxTransaction converts a model transaction header to its domain shape
func ToDomainTaxTransaction(m models.TaxTransaction) domain.TaxTransaction {
	return domain.TaxTransaction{
		TransactionID:     m.TransactionID,
		Direction:         domain.TransactionDirection(m.Direction),
		BookingDate:       m.BookingDate,
		InvoiceDate:       m.InvoiceDate,
		DueDate:           m.DueDate,
		TaxInvoiceNo:      m.TaxInvoiceNo,
		CompanyID:         m.CompanyID,
		PartnerID:         m.PartnerID,
		DebitAccountID:    m.DebitAccountID,
		KreditAccountID:   m.KreditAccountID,
		VatID:             m.VatID,
		WithholdingID:     m.WithholdingID,
		BaseAmount:        m.BaseAmount,
		VatAmount:         m.VatAmount,
		WithholdingAmount: m.WithholdingAmount,
		GrandTotal:        m.GrandTotal,
		PaymentStatus:     domain.PaymentStatus(m.PaymentStatus),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLineItem converts a domain line item to its model shape
func ToModelLineItem(d domain.LineItem) models.LineItem {
	return models.LineItem{
		LineItemID:    d.LineItemID,
		TransactionID: d.TransactionID,
		Name:          d.Name,
		Description:   d.Description,
		Quantity:      d.Quantity,
		UnitPrice:     d.UnitPrice,
		Subtotal:      d.Subtotal,
	}
}

// ToDomainLineItem converts a model line item to its domain shape
func ToDomainLineItem(m models.LineItem) domain.LineItem {
	return domain.LineItem{
		LineItemID:    m.LineItemID,
		TransactionID: m.TransactionID,
		Name:          m.Name,
		Description:   m.Description,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		Subtotal:      m.Subtotal,
	}
}

// ToModelJournalPosting converts a domain posting to its model shape
func ToModelJournalPosting(d domain.JournalPosting) models.JournalPosting {
	return models.JournalPosting{
		PostingID:     d.PostingID,
		TransactionID: d.TransactionID,
		AccountID:     d.AccountID,
		Side:          string(d.Side),
		Amount:        d.Amount,
		Memo:          d.Memo,
	}
}

// ToDomainJournalPosting converts a model posting to its domain shape
func ToDomainJournalPosting(m models.JournalPosting) domain.JournalPosting {
	return domain.JournalPosting{
		PostingID:     m.PostingID,
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		Side:          domain.PostingSide(m.Side),
		Amount:        m.Amount,
		Memo:          m.Memo,
	}
}
