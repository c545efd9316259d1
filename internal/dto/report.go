package dto

import (
	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PeriodSummaryResponse aggregates one month's activity per direction.
type PeriodSummaryResponse struct {
	Month     int                `json:"month"`
	Year      int                `json:"year"`
	Summaries []DirectionSummary `json:"summaries"`
}

type DirectionSummary struct {
	Direction        string          `json:"direction"`
	Count            int64           `json:"count"`
	BaseTotal        decimal.Decimal `json:"baseTotal"`
	VatTotal         decimal.Decimal `json:"vatTotal"`
	WithholdingTotal decimal.Decimal `json:"withholdingTotal"`
	GrandTotal       decimal.Decimal `json:"grandTotal"`
}

func ToDirectionSummary(s domain.PeriodSummary) DirectionSummary {
	return DirectionSummary{
		Direction:        string(s.Direction),
		Count:            s.Count,
		BaseTotal:        s.BaseTotal,
		VatTotal:         s.VatTotal,
		WithholdingTotal: s.WithholdingTotal,
		GrandTotal:       s.GrandTotal,
	}
}
