package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pawhaus/service-boarding/internal/domain"
	bookingDomain "github.com/pawhaus/service-boarding/internal/domain/booking"
	petDomain "github.com/pawhaus/service-boarding/internal/domain/pet"
	"github.com/pawhaus/service-boarding/internal/domain/settings"
	"github.com/pawhaus/service-boarding/internal/domain/storage"
)

// fakeStore is a shared in-memory backing store for the fake repositories.
type fakeStore struct {
	bookings map[uuid.UUID]*bookingDomain.Booking
	pets     map[uuid.UUID]*petDomain.Pet
	settings settings.Settings
	lockHits int
}

func newFakeStore(capacity int, dailyFeeCents int64) *fakeStore {
	return &fakeStore{
		bookings: make(map[uuid.UUID]*bookingDomain.Booking),
		pets:     make(map[uuid.UUID]*petDomain.Pet),
		settings: settings.Settings{CapacityLimit: capacity, DailyFeeCents: dailyFeeCents},
	}
}

// --- booking repository ---

type fakeBookingRepo struct{ store *fakeStore }

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	bk, ok := r.store.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	var out []*bookingDomain.Booking
	for _, bk := range r.store.bookings {
		if bk.OwnerID() == ownerID {
			out = append(out, bk)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	var out []*bookingDomain.Booking
	for _, bk := range r.store.bookings {
		out = append(out, bk)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, bk := range r.store.bookings {
		counts[bk.Status().String()]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) CountActiveOverlapping(_ context.Context, arrival, departure time.Time, excludeID uuid.UUID) (int64, error) {
	candidate := bookingDomain.Period{Arrival: arrival, Departure: departure}
	var count int64
	for _, bk := range r.store.bookings {
		if bk.ID() == excludeID || !bk.Status().IsActive() {
			continue
		}
		if bk.Period().Overlaps(candidate) {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) ExistsForPet(_ context.Context, petID uuid.UUID) (bool, error) {
	for _, bk := range r.store.bookings {
		if bk.PetID() == petID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.store.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	if _, ok := r.store.bookings[bk.ID()]; !ok {
		return domain.NewNotFoundError("booking", bk.ID().String())
	}
	r.store.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.bookings[id]; !ok {
		return domain.NewNotFoundError("booking", id.String())
	}
	delete(r.store.bookings, id)
	return nil
}

// --- pet repository ---

type fakePetRepo struct{ store *fakeStore }

func (r *fakePetRepo) FindByID(_ context.Context, id uuid.UUID) (*petDomain.Pet, error) {
	p, ok := r.store.pets[id]
	if !ok {
		return nil, domain.NewNotFoundError("pet", id.String())
	}
	return p, nil
}

func (r *fakePetRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID) ([]*petDomain.Pet, error) {
	var out []*petDomain.Pet
	for _, p := range r.store.pets {
		if p.OwnerID() == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePetRepo) Save(_ context.Context, p *petDomain.Pet) error {
	r.store.pets[p.ID()] = p
	return nil
}

func (r *fakePetRepo) Update(_ context.Context, p *petDomain.Pet) error {
	if _, ok := r.store.pets[p.ID()]; !ok {
		return domain.NewNotFoundError("pet", p.ID().String())
	}
	r.store.pets[p.ID()] = p
	return nil
}

func (r *fakePetRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.pets[id]; !ok {
		return domain.NewNotFoundError("pet", id.String())
	}
	delete(r.store.pets, id)
	return nil
}

// --- settings provider ---

type fakeSettings struct{ store *fakeStore }

func (s *fakeSettings) FindOrCreateDefault(_ context.Context) (settings.Settings, error) {
	return s.store.settings, nil
}

// --- unit of work ---

type fakeTxRepos struct {
	store    *fakeStore
	bookings *fakeBookingRepo
	pets     *fakePetRepo
}

func (t *fakeTxRepos) Bookings() bookingDomain.BookingRepository { return t.bookings }
func (t *fakeTxRepos) Pets() petDomain.PetRepository             { return t.pets }
func (t *fakeTxRepos) LockBoardingCalendar(context.Context) error {
	t.store.lockHits++
	return nil
}

// fakeUnitOfWork runs the batch against the shared store and restores a
// deep snapshot when the batch fails. Aggregates are mutated in place by
// the service, so the snapshot clones every record.
type fakeUnitOfWork struct {
	store *fakeStore
}

func cloneBooking(bk *bookingDomain.Booking) *bookingDomain.Booking {
	photos := append([]bookingDomain.Photo(nil), bk.Photos()...)
	return bookingDomain.ReconstructBooking(
		bk.ID(), bk.PetID(), bk.OwnerID(), bk.Status(),
		bk.Arrival(), bk.Departure(), bk.FeeCents(),
		bk.EmployeeNotes(), photos, bk.Version(),
		bk.CreatedAt(), bk.UpdatedAt(),
	)
}

func clonePet(p *petDomain.Pet) *petDomain.Pet {
	refs := append([]uuid.UUID(nil), p.BookingRefs()...)
	return petDomain.Reconstruct(
		p.ID(), p.OwnerID(), p.Name(), p.PetType(), p.Breed(), p.Size(),
		refs, p.Version(), p.CreatedAt(), p.UpdatedAt(),
	)
}

func (u *fakeUnitOfWork) Do(_ context.Context, fn func(tx storage.TxRepos) error) error {
	prevBookings := make(map[uuid.UUID]*bookingDomain.Booking, len(u.store.bookings))
	for k, v := range u.store.bookings {
		prevBookings[k] = cloneBooking(v)
	}
	prevPets := make(map[uuid.UUID]*petDomain.Pet, len(u.store.pets))
	for k, v := range u.store.pets {
		prevPets[k] = clonePet(v)
	}

	tx := &fakeTxRepos{
		store:    u.store,
		bookings: &fakeBookingRepo{store: u.store},
		pets:     &fakePetRepo{store: u.store},
	}
	if err := fn(tx); err != nil {
		u.store.bookings = prevBookings
		u.store.pets = prevPets
		return err
	}
	return nil
}

// --- notifier ---

type sentNotification struct {
	Language  string
	BookingID uuid.UUID
	Status    bookingDomain.BookingStatus
	Notes     string
}

type fakeNotifier struct {
	sent []sentNotification
	err  error
}

func (n *fakeNotifier) SendBookingUpdate(_ context.Context, language string, bk *bookingDomain.Booking) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentNotification{
		Language:  language,
		BookingID: bk.ID(),
		Status:    bk.Status(),
		Notes:     bk.EmployeeNotes(),
	})
	return nil
}
