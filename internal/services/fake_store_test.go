package services

import (
	"context"

	"avalom-backend/internal/ledger"
	"avalom-backend/internal/models"
)

// fakeStore is an in-memory Store with transactional semantics: InTx runs
// the callback against a deep copy and only swaps it in on success, so a
// failed operation leaves no partial state behind. failConflicts makes the
// next N transactions fail with ledger.ErrConflict to exercise the retry.
type fakeStore struct {
	rentals       map[int]models.Rental
	periods       map[int]models.MonthlyPeriod
	payments      map[int]models.Payment
	deposits      map[int]models.Deposit
	annulments    []models.PaymentAnnulment
	cancellations []models.RentalCancellation
	nextID        int
	failConflicts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rentals:  make(map[int]models.Rental),
		periods:  make(map[int]models.MonthlyPeriod),
		payments: make(map[int]models.Payment),
		deposits: make(map[int]models.Deposit),
		nextID:   1,
	}
}

func (f *fakeStore) id() int {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	for k, v := range f.rentals {
		c.rentals[k] = v
	}
	for k, v := range f.periods {
		c.periods[k] = v
	}
	for k, v := range f.payments {
		c.payments[k] = v
	}
	for k, v := range f.deposits {
		c.deposits[k] = v
	}
	c.annulments = append([]models.PaymentAnnulment(nil), f.annulments...)
	c.cancellations = append([]models.RentalCancellation(nil), f.cancellations...)
	c.nextID = f.nextID
	c.failConflicts = f.failConflicts
	return c
}

func (f *fakeStore) InTx(ctx context.Context, fn func(Store) error) error {
	if f.failConflicts > 0 {
		f.failConflicts--
		return ledger.ErrConflict
	}
	tx := f.clone()
	if err := fn(tx); err != nil {
		return err
	}
	*f = *tx
	return nil
}

func (f *fakeStore) GetRental(ctx context.Context, id int) (*models.Rental, error) {
	r, ok := f.rentals[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return &r, nil
}

func (f *fakeStore) ListRentals(ctx context.Context) ([]models.Rental, error) {
	var out []models.Rental
	for _, r := range f.rentals {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) UpdateRentalStatus(ctx context.Context, id int, status models.RentalStatus) error {
	r, ok := f.rentals[id]
	if !ok {
		return ledger.ErrNotFound
	}
	r.Status = status
	f.rentals[id] = r
	return nil
}

func (f *fakeStore) GetPeriod(ctx context.Context, id int) (*models.MonthlyPeriod, error) {
	p, ok := f.periods[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return &p, nil
}

func (f *fakeStore) GetPeriodsByRental(ctx context.Context, rentalID int) ([]models.MonthlyPeriod, error) {
	var out []models.MonthlyPeriod
	for _, p := range f.periods {
		if p.RentalID == rentalID {
			out = append(out, p)
		}
	}
	// Keep the scheduler's "last period" assumption valid.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].StartDate.Before(out[j-1].StartDate); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (f *fakeStore) InsertPeriod(ctx context.Context, p *models.MonthlyPeriod) error {
	p.ID = f.id()
	f.periods[p.ID] = *p
	return nil
}

func (f *fakeStore) UpdatePeriod(ctx context.Context, p *models.MonthlyPeriod) error {
	current, ok := f.periods[p.ID]
	if !ok {
		return ledger.ErrNotFound
	}
	current.Label = p.Label
	current.StartDate = p.StartDate
	current.EndDate = p.EndDate
	current.TotalDue = p.TotalDue
	f.periods[p.ID] = current
	return nil
}

func (f *fakeStore) UpdatePeriodBalance(ctx context.Context, p *models.MonthlyPeriod) error {
	current, ok := f.periods[p.ID]
	if !ok {
		return ledger.ErrNotFound
	}
	current.AmountPaid = p.AmountPaid
	current.PaymentDate = p.PaymentDate
	current.Status = p.Status
	f.periods[p.ID] = current
	return nil
}

func (f *fakeStore) DeletePeriod(ctx context.Context, id int) error {
	if _, ok := f.periods[id]; !ok {
		return ledger.ErrNotFound
	}
	delete(f.periods, id)
	return nil
}

func (f *fakeStore) PeriodHasPayments(ctx context.Context, periodID int) (bool, error) {
	for _, pay := range f.payments {
		if pay.PeriodID != nil && *pay.PeriodID == periodID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) RentalHasPayments(ctx context.Context, rentalID int) (bool, error) {
	for _, pay := range f.payments {
		if pay.PeriodID == nil {
			continue
		}
		if p, ok := f.periods[*pay.PeriodID]; ok && p.RentalID == rentalID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) GetPayment(ctx context.Context, id int) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return &p, nil
}

func (f *fakeStore) InsertPayment(ctx context.Context, pay *models.Payment) error {
	pay.ID = f.id()
	f.payments[pay.ID] = *pay
	return nil
}

func (f *fakeStore) UpdatePaymentStatus(ctx context.Context, id int, status models.PaymentStatus) error {
	p, ok := f.payments[id]
	if !ok {
		return ledger.ErrNotFound
	}
	p.Status = status
	f.payments[id] = p
	return nil
}

func (f *fakeStore) GetDeposit(ctx context.Context, id int) (*models.Deposit, error) {
	d, ok := f.deposits[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return &d, nil
}

func (f *fakeStore) GetDepositByRental(ctx context.Context, rentalID int) (*models.Deposit, error) {
	for _, d := range f.deposits {
		if d.RentalID == rentalID {
			deposit := d
			return &deposit, nil
		}
	}
	return nil, ledger.ErrNotFound
}

func (f *fakeStore) UpdateDepositBalance(ctx context.Context, id int, balance int64) error {
	d, ok := f.deposits[id]
	if !ok {
		return ledger.ErrNotFound
	}
	d.Balance = balance
	f.deposits[id] = d
	return nil
}

func (f *fakeStore) InsertAnnulment(ctx context.Context, a *models.PaymentAnnulment) error {
	a.ID = f.id()
	f.annulments = append(f.annulments, *a)
	return nil
}

func (f *fakeStore) InsertCancellation(ctx context.Context, c *models.RentalCancellation) error {
	c.ID = f.id()
	f.cancellations = append(f.cancellations, *c)
	return nil
}
