package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avalom-backend/internal/models"
	"avalom-backend/internal/timeutil"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, timeutil.Location)
}

func TestNextPeriodEmptyHistory(t *testing.T) {
	now := time.Date(2025, time.March, 15, 14, 30, 0, 0, timeutil.Location)

	p := NextPeriod(nil, 15, now)

	assert.Equal(t, date(2025, time.March, 15), p.Start, "first period starts today")
	assert.Equal(t, date(2025, time.April, 30), p.End, "first period ends on the last day of the following month")
}

func TestNextPeriodContiguity(t *testing.T) {
	existing := []models.MonthlyPeriod{
		{ID: 1, StartDate: date(2025, time.January, 15), EndDate: date(2025, time.February, 15)},
	}

	p := NextPeriod(existing, 15, date(2025, time.March, 1))

	assert.Equal(t, date(2025, time.February, 15), p.Start, "next period starts where the last ended")
	assert.Equal(t, date(2025, time.March, 15), p.End)
}

func TestNextPeriodAnchorClamping(t *testing.T) {
	tests := []struct {
		name    string
		lastEnd time.Time
		want    time.Time
	}{
		{"31st into February", date(2025, time.January, 31), date(2025, time.February, 28)},
		{"31st into leap February", date(2024, time.January, 31), date(2024, time.February, 29)},
		{"31st into 30-day month", date(2025, time.March, 31), date(2025, time.April, 30)},
		{"anchor recovers after short month", date(2025, time.February, 28), date(2025, time.March, 31)},
		{"December rolls into January", date(2025, time.December, 31), date(2026, time.January, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := []models.MonthlyPeriod{{ID: 1, EndDate: tt.lastEnd}}
			p := NextPeriod(existing, 31, timeutil.Now())

			assert.Equal(t, tt.lastEnd, p.Start)
			assert.Equal(t, tt.want, p.End)
		})
	}
}

func TestHasOverlap(t *testing.T) {
	existing := []models.MonthlyPeriod{
		{ID: 1, StartDate: date(2025, time.January, 1), EndDate: date(2025, time.February, 1)},
		{ID: 2, StartDate: date(2025, time.February, 1), EndDate: date(2025, time.March, 1)},
	}

	tests := []struct {
		name       string
		start, end time.Time
		excludeID  int
		want       bool
	}{
		{"fully inside", date(2025, time.January, 10), date(2025, time.January, 20), 0, true},
		{"straddles boundary", date(2025, time.January, 20), date(2025, time.February, 10), 0, true},
		{"contains existing", date(2024, time.December, 1), date(2025, time.April, 1), 0, true},
		{"adjacent before", date(2024, time.December, 1), date(2025, time.January, 1), 0, false},
		{"adjacent after", date(2025, time.March, 1), date(2025, time.April, 1), 0, false},
		{"disjoint", date(2025, time.June, 1), date(2025, time.July, 1), 0, false},
		{"self excluded on edit", date(2025, time.January, 1), date(2025, time.February, 1), 1, false},
		{"edit collides with sibling", date(2025, time.January, 15), date(2025, time.February, 15), 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasOverlap(tt.start, tt.end, existing, tt.excludeID))
		})
	}
}

func TestMonthsBetweenWholeMonths(t *testing.T) {
	drafts := MonthsBetween(date(2025, time.January, 15), date(2025, time.April, 15), 350000)

	require.Len(t, drafts, 3)
	assert.Equal(t, "Mes 1", drafts[0].Label)
	assert.Equal(t, "Mes 3", drafts[2].Label)
	for i, d := range drafts {
		assert.Equal(t, int64(350000), d.TotalDue)
		if i > 0 {
			assert.Equal(t, drafts[i-1].EndDate, d.StartDate, "drafts must be contiguous")
		}
	}
	assert.Equal(t, date(2025, time.April, 15), drafts[2].EndDate)
}

func TestMonthsBetweenPartialFinalPeriod(t *testing.T) {
	drafts := MonthsBetween(date(2025, time.January, 15), date(2025, time.March, 1), 350000)

	require.Len(t, drafts, 2)
	assert.Equal(t, date(2025, time.February, 15), drafts[0].EndDate)
	assert.Equal(t, date(2025, time.February, 15), drafts[1].StartDate)
	assert.Equal(t, date(2025, time.March, 1), drafts[1].EndDate, "final draft is capped at the contract end")
}

func TestMonthsBetweenPreservesAnchorAcrossShortMonths(t *testing.T) {
	drafts := MonthsBetween(date(2025, time.January, 31), date(2025, time.May, 31), 350000)

	require.Len(t, drafts, 4)
	assert.Equal(t, date(2025, time.February, 28), drafts[0].EndDate)
	assert.Equal(t, date(2025, time.March, 31), drafts[1].EndDate, "anchor day returns once the month is long enough")
	assert.Equal(t, date(2025, time.April, 30), drafts[2].EndDate)
	assert.Equal(t, date(2025, time.May, 31), drafts[3].EndDate)
}

func TestMonthsBetweenEmptyRange(t *testing.T) {
	day := date(2025, time.January, 15)

	assert.Empty(t, MonthsBetween(day, day, 350000))
	assert.Empty(t, MonthsBetween(day, date(2025, time.January, 1), 350000))
}
