package services

import (
	"time"

	"github.com/mitrapajak/tax-ledger-backend/internal/core/domain"
)

// clockFunc supplies the current time. Services take it injected so behavior
// around year boundaries and audit timestamps is testable.
type clockFunc func() time.Time

func normalizeClock(clock clockFunc) clockFunc {
	if clock == nil {
		return func() time.Time { return time.Now().UTC() }
	}
	return clock
}

func newAuditFields(now time.Time, userID string) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}

func touchAuditFields(a *domain.AuditFields, now time.Time, userID string) {
	a.LastUpdatedAt = now
	a.LastUpdatedBy = userID
}
