package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avalom-backend/internal/ledger"
	"avalom-backend/internal/models"
)

func newTestService(store Store) *AccountingService {
	s := NewAccountingService(store)
	s.now = func() time.Time { return testNow }
	s.processor.now = s.now
	return s
}

func TestComputeNextPeriod(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	rentalID := seedRental(f, 0) // contract anchored on the 15th
	svc := newTestService(f)

	t.Run("no history", func(t *testing.T) {
		next, err := svc.ComputeNextPeriod(ctx, rentalID)
		require.NoError(t, err)
		assert.Equal(t, crDate(2025, time.March, 10), next.Start)
		assert.Equal(t, crDate(2025, time.April, 30), next.End)
	})

	t.Run("continues from the last period", func(t *testing.T) {
		seedPeriod(f, rentalID, "Mes 1",
			crDate(2025, time.January, 15), crDate(2025, time.February, 15), 350000, 0, models.PeriodPending)

		next, err := svc.ComputeNextPeriod(ctx, rentalID)
		require.NoError(t, err)
		assert.Equal(t, crDate(2025, time.February, 15), next.Start)
		assert.Equal(t, crDate(2025, time.March, 15), next.End)
	})

	t.Run("unknown rental", func(t *testing.T) {
		_, err := svc.ComputeNextPeriod(ctx, 999)
		assert.ErrorIs(t, err, ledger.ErrNotFound)
	})
}

func TestValidatePeriod(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	rentalID := seedRental(f, 0)
	periodID := seedPeriod(f, rentalID, "Mes 1",
		crDate(2025, time.January, 15), crDate(2025, time.February, 15), 350000, 0, models.PeriodPending)
	svc := newTestService(f)

	ok, err := svc.ValidatePeriod(ctx, models.ValidatePeriodRequest{
		RentalID: rentalID, StartDate: "2025-02-15", EndDate: "2025-03-15",
	})
	require.NoError(t, err)
	assert.True(t, ok, "adjacent interval is free")

	ok, err = svc.ValidatePeriod(ctx, models.ValidatePeriodRequest{
		RentalID: rentalID, StartDate: "2025-02-01", EndDate: "2025-03-01",
	})
	require.NoError(t, err)
	assert.False(t, ok, "overlapping interval is reported, not errored")

	ok, err = svc.ValidatePeriod(ctx, models.ValidatePeriodRequest{
		RentalID: rentalID, StartDate: "2025-01-15", EndDate: "2025-02-15", ExcludeID: periodID,
	})
	require.NoError(t, err)
	assert.True(t, ok, "a period does not collide with itself on edit")

	_, err = svc.ValidatePeriod(ctx, models.ValidatePeriodRequest{
		RentalID: rentalID, StartDate: "15/01/2025", EndDate: "2025-02-15",
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidDate)

	// An absent rental is an error, not a vacuously free interval.
	_, err = svc.ValidatePeriod(ctx, models.ValidatePeriodRequest{
		RentalID: 999, StartDate: "2025-02-15", EndDate: "2025-03-15",
	})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestBuildDraftPeriods(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	rentalID := seedRental(f, 0) // Jan 15 2025 to Jan 15 2026
	svc := newTestService(f)

	drafts, err := svc.BuildDraftPeriods(ctx, rentalID)
	require.NoError(t, err)
	require.Len(t, drafts, 12)
	assert.Equal(t, crDate(2025, time.January, 15), drafts[0].StartDate)
	assert.Equal(t, crDate(2026, time.January, 15), drafts[11].EndDate)
	for _, d := range drafts {
		assert.Equal(t, int64(350000), d.TotalDue)
	}
}

func TestRegisterPaymentParsesDate(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	rentalID := seedRental(f, 0)
	periodID := seedPeriod(f, rentalID, "Mes 1",
		crDate(2025, time.March, 1), crDate(2025, time.April, 1), 100000, 0, models.PeriodPending)
	svc := newTestService(f)

	payment, err := svc.RegisterPayment(ctx, periodID, models.RegisterPaymentRequest{
		Amount: 50000, Date: "2025-03-05",
	})
	require.NoError(t, err)
	assert.Equal(t, crDate(2025, time.March, 5), payment.Date)

	// Empty date falls back to today.
	payment, err = svc.RegisterPayment(ctx, periodID, models.RegisterPaymentRequest{Amount: 50000})
	require.NoError(t, err)
	assert.Equal(t, crDate(2025, time.March, 10), payment.Date)

	_, err = svc.RegisterPayment(ctx, periodID, models.RegisterPaymentRequest{
		Amount: 1000, Date: "not-a-date",
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidDate)
}

// The reference scenario: a fully paid period whose payment is annulled
// drops back to zero paid with its status re-derived from the calendar.
func TestPaidThenAnnulledScenario(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	rentalID := seedRental(f, 0)
	currentID := seedPeriod(f, rentalID, "Mes actual",
		crDate(2025, time.March, 1), crDate(2025, time.April, 1), 100000, 0, models.PeriodPending)
	expiredID := seedPeriod(f, rentalID, "Mes vencido",
		crDate(2025, time.January, 1), crDate(2025, time.February, 1), 100000, 0, models.PeriodPending)
	svc := newTestService(f)

	for _, periodID := range []int{currentID, expiredID} {
		payment, err := svc.RegisterPayment(ctx, periodID, models.RegisterPaymentRequest{Amount: 100000})
		require.NoError(t, err)
		require.Equal(t, models.PeriodPaid, f.periods[periodID].Status)

		_, err = svc.AnnulPayment(ctx, models.AnnulPaymentRequest{PaymentID: payment.ID, Reason: "error de registro"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), f.periods[periodID].AmountPaid)
	}

	assert.Equal(t, models.PeriodPending, f.periods[currentID].Status, "still inside the period")
	assert.Equal(t, models.PeriodOverdue, f.periods[expiredID].Status, "past its end date")
}

func TestGetRentalLedger(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	rentalID := seedRental(f, 420000)
	seedPeriod(f, rentalID, "Mes 1",
		crDate(2025, time.January, 15), crDate(2025, time.February, 15), 350000, 350000, models.PeriodPaid)
	// Stored status is stale on purpose; the view must re-derive it.
	seedPeriod(f, rentalID, "Mes 2",
		crDate(2025, time.February, 15), crDate(2025, time.March, 1), 350000, 0, models.PeriodPending)
	svc := newTestService(f)

	view, err := svc.GetRentalLedger(ctx, rentalID)
	require.NoError(t, err)
	require.Len(t, view.Periods, 2)
	assert.Equal(t, models.PeriodPaid, view.Periods[0].Status)
	assert.Equal(t, models.PeriodOverdue, view.Periods[1].Status)
	assert.True(t, view.HasPending)
	require.NotNil(t, view.Deposit)
	assert.Equal(t, int64(420000), view.Deposit.Balance)
}

func TestGetRentalLedgerWithoutDeposit(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	f.rentals[1] = models.Rental{ID: 1, StartDate: crDate(2025, time.January, 15), Status: models.RentalActive}
	svc := newTestService(f)

	view, err := svc.GetRentalLedger(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, view.Deposit)
	assert.False(t, view.HasPending)
}

func TestOverview(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	rentalID := seedRental(f, 0)
	seedPeriod(f, rentalID, "Mes 1",
		crDate(2025, time.January, 15), crDate(2025, time.February, 15), 350000, 350000, models.PeriodPaid)
	seedPeriod(f, rentalID, "Mes 2",
		crDate(2025, time.February, 15), crDate(2025, time.March, 15), 350000, 120000, models.PeriodIncomplete)
	svc := newTestService(f)

	summaries, err := svc.Overview(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, rentalID, s.Rental.ID)
	assert.Equal(t, 2, s.PeriodCount)
	assert.Equal(t, 1, s.PendingCount)
	assert.Equal(t, int64(700000), s.TotalDue)
	assert.Equal(t, int64(470000), s.TotalPaid)
}

func TestRentalHasPayments(t *testing.T) {
	ctx := context.Background()
	f := newFakeStore()
	rentalID := seedRental(f, 0)
	periodID := seedPeriod(f, rentalID, "Mes 1",
		crDate(2025, time.March, 1), crDate(2025, time.April, 1), 100000, 0, models.PeriodPending)
	svc := newTestService(f)

	has, err := svc.RentalHasPayments(ctx, rentalID)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = svc.RegisterPayment(ctx, periodID, models.RegisterPaymentRequest{Amount: 1000})
	require.NoError(t, err)

	has, err = svc.RentalHasPayments(ctx, rentalID)
	require.NoError(t, err)
	assert.True(t, has)

	_, err = svc.RentalHasPayments(ctx, 999)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}
