package ledger

import (
	"fmt"
	"time"

	"avalom-backend/internal/models"
	"avalom-backend/internal/timeutil"
)

// Period is a candidate billing interval, half-open: [Start, End).
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NextPeriod computes the next contiguous monthly period for a rental.
//
// With no history the first period runs from today until the last day of
// the following calendar month. After that each period starts where the
// previous one ended and runs one calendar month, with the day-of-month
// clamped to min(anchorDay, days in the target month) so that a contract
// anchored on the 31st bills on the 28th of February instead of spilling
// into March.
func NextPeriod(existing []models.MonthlyPeriod, anchorDay int, now time.Time) Period {
	if len(existing) == 0 {
		start := timeutil.StartOfDay(now)
		end := timeutil.EndOfMonth(start.AddDate(0, 1, 0))
		return Period{Start: start, End: end}
	}

	last := existing[len(existing)-1]
	start := timeutil.StartOfDay(last.EndDate)
	return Period{Start: start, End: advanceMonth(start, anchorDay)}
}

// advanceMonth returns the date one calendar month after start, on the
// anchor day clamped to the target month's length.
func advanceMonth(start time.Time, anchorDay int) time.Time {
	s := start.In(timeutil.Location)
	year, month := s.Year(), s.Month()+1
	day := anchorDay
	if max := timeutil.DaysInMonth(year, month); day > max {
		day = max
	}
	return time.Date(year, month, day, 0, 0, 0, 0, timeutil.Location)
}

// HasOverlap reports whether the candidate interval [start, end) overlaps
// any existing period other than excludeID. excludeID 0 excludes nothing;
// pass the period's own id when re-validating an edit against itself.
// Two half-open intervals overlap iff s1 < e2 && s2 < e1.
func HasOverlap(start, end time.Time, existing []models.MonthlyPeriod, excludeID int) bool {
	for _, p := range existing {
		if excludeID != 0 && p.ID == excludeID {
			continue
		}
		if start.Before(p.EndDate) && p.StartDate.Before(end) {
			return true
		}
	}
	return false
}

// MonthsBetween splits [start, end] into monthly draft periods, preserving
// the start date's day-of-month as the billing anchor. The final period is
// capped at end when a whole month does not fit. Drafts are not subject to
// store invariants until saved.
func MonthsBetween(start, end time.Time, monthlyAmount int64) []models.DraftPeriod {
	start = timeutil.StartOfDay(start)
	end = timeutil.StartOfDay(end)
	anchorDay := start.In(timeutil.Location).Day()

	var drafts []models.DraftPeriod
	current := start
	for current.Before(end) {
		next := advanceMonth(current, anchorDay)
		if next.After(end) {
			next = end
		}
		drafts = append(drafts, models.DraftPeriod{
			Label:     fmt.Sprintf("Mes %d", len(drafts)+1),
			StartDate: current,
			EndDate:   next,
			TotalDue:  monthlyAmount,
		})
		current = next
	}
	return drafts
}
