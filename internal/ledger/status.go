package ledger

import (
	"time"

	"avalom-backend/internal/models"
)

// DerivePeriodStatus recomputes the business status of a monthly period
// from its stored fields. Deterministic and side-effect free, so it can be
// re-run at any time without drift.
//
// Gifted overrides every other rule while the period is not fully paid; a
// fully paid period cannot stay gifted and reverts to Paid.
func DerivePeriodStatus(p *models.MonthlyPeriod, now time.Time) models.PeriodStatus {
	if p.AmountPaid >= p.TotalDue {
		return models.PeriodPaid
	}
	if p.Status == models.PeriodGifted {
		return models.PeriodGifted
	}
	if p.EndDate.Before(now) {
		return models.PeriodOverdue
	}
	if p.AmountPaid > 0 {
		return models.PeriodIncomplete
	}
	return models.PeriodPending
}

// GiftStatus computes the status resulting from toggling the gift flag.
// Gifting an already fully paid period is rejected; removing the gift
// recomputes the status from amounts and the current date.
func GiftStatus(p *models.MonthlyPeriod, gifted bool, now time.Time) (models.PeriodStatus, error) {
	if gifted {
		if p.AmountPaid >= p.TotalDue {
			return "", ErrInvalidTransition
		}
		return models.PeriodGifted, nil
	}
	if p.AmountPaid >= p.TotalDue {
		return models.PeriodPaid, nil
	}
	if p.EndDate.Before(now) {
		return models.PeriodOverdue, nil
	}
	if p.AmountPaid > 0 {
		return models.PeriodIncomplete, nil
	}
	return models.PeriodPending, nil
}

// Settled reports whether a period needs no further money: fully paid or
// gifted. Finishing a rental requires every period to be settled.
func Settled(status models.PeriodStatus) bool {
	return status == models.PeriodPaid || status == models.PeriodGifted
}
