package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pawhaus/service-boarding/internal/domain"
	petDomain "github.com/pawhaus/service-boarding/internal/domain/pet"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fixedNow anchors period validation so the tests never drift.
var fixedNow = day(2026, 3, 1)

type bookingTestEnv struct {
	svc      *BookingService
	store    *fakeStore
	notifier *fakeNotifier
}

func newBookingTestEnv(t *testing.T, capacity int, dailyFeeCents int64) *bookingTestEnv {
	t.Helper()
	store := newFakeStore(capacity, dailyFeeCents)
	notifier := &fakeNotifier{}
	svc := NewBookingService(
		&fakeBookingRepo{store: store},
		&fakePetRepo{store: store},
		&fakeSettings{store: store},
		&fakeUnitOfWork{store: store},
		notifier,
		zap.NewNop(),
	)
	svc.now = func() time.Time { return fixedNow }
	return &bookingTestEnv{svc: svc, store: store, notifier: notifier}
}

func (e *bookingTestEnv) seedPet(t *testing.T, ownerID uuid.UUID) *petDomain.Pet {
	t.Helper()
	p, err := petDomain.NewPet(ownerID, "Biscuit", "dog", "corgi", petDomain.SizeSmall)
	require.NoError(t, err)
	e.store.pets[p.ID()] = p
	return p
}

func ownerOf(p *petDomain.Pet) domain.Actor {
	return domain.Actor{UserID: p.OwnerID(), Role: domain.RoleOwner, Language: "en"}
}

func staff() domain.Actor {
	return domain.Actor{UserID: uuid.New(), Role: domain.RoleEmployee, Language: "en"}
}

func TestBookingService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("owner creates a stay with computed fee", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		p := env.seedPet(t, uuid.New())

		dto, err := env.svc.Create(ctx, ownerOf(p), CreateBookingRequest{
			PetID:     p.ID(),
			Arrival:   day(2026, 3, 10),
			Departure: day(2026, 3, 14),
		})
		require.NoError(t, err)
		assert.Equal(t, "booked", dto.Status)
		assert.Equal(t, p.OwnerID(), dto.OwnerID)
		// 5 calendar days, boundary days inclusive, at 10 cents per day.
		assert.Equal(t, int64(50), dto.FeeCents)
		assert.Equal(t, int64(1), dto.Version)
	})

	t.Run("pet back-reference is synced in the same batch", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		p := env.seedPet(t, uuid.New())

		dto, err := env.svc.Create(ctx, ownerOf(p), CreateBookingRequest{
			PetID:     p.ID(),
			Arrival:   day(2026, 3, 10),
			Departure: day(2026, 3, 14),
		})
		require.NoError(t, err)
		assert.True(t, env.store.pets[p.ID()].HasBookingRef(dto.ID))
	})

	t.Run("owner cannot book someone else's pet", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		p := env.seedPet(t, uuid.New())
		stranger := domain.Actor{UserID: uuid.New(), Role: domain.RoleOwner}

		_, err := env.svc.Create(ctx, stranger, CreateBookingRequest{
			PetID:     p.ID(),
			Arrival:   day(2026, 3, 10),
			Departure: day(2026, 3, 14),
		})
		assert.True(t, domain.IsForbidden(err))
	})

	t.Run("arrival after departure is rejected", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		p := env.seedPet(t, uuid.New())

		_, err := env.svc.Create(ctx, ownerOf(p), CreateBookingRequest{
			PetID:     p.ID(),
			Arrival:   day(2026, 3, 14),
			Departure: day(2026, 3, 10),
		})
		require.Error(t, err)
		assert.Equal(t, domain.CodeInvalidPeriod, domain.AsDomainError(err).Code)
	})

	t.Run("past arrival is rejected", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		p := env.seedPet(t, uuid.New())

		_, err := env.svc.Create(ctx, ownerOf(p), CreateBookingRequest{
			PetID:     p.ID(),
			Arrival:   day(2026, 2, 20),
			Departure: day(2026, 3, 10),
		})
		require.Error(t, err)
		assert.Equal(t, domain.CodePastPeriod, domain.AsDomainError(err).Code)
	})

	t.Run("staff may record a past cancelled stay", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		p := env.seedPet(t, uuid.New())

		dto, err := env.svc.Create(ctx, staff(), CreateBookingRequest{
			PetID:     p.ID(),
			Status:    "cancelled",
			Arrival:   day(2026, 1, 10),
			Departure: day(2026, 1, 12),
		})
		require.NoError(t, err)
		assert.Equal(t, "cancelled", dto.Status)
		// Cancelled stays bypass admission, so the calendar lock is untouched.
		assert.Zero(t, env.store.lockHits)
	})

	t.Run("unknown pet", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		_, err := env.svc.Create(ctx, staff(), CreateBookingRequest{
			PetID:     uuid.New(),
			Arrival:   day(2026, 3, 10),
			Departure: day(2026, 3, 14),
		})
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("unknown status string", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		p := env.seedPet(t, uuid.New())
		_, err := env.svc.Create(ctx, staff(), CreateBookingRequest{
			PetID:     p.ID(),
			Status:    "teleported",
			Arrival:   day(2026, 3, 10),
			Departure: day(2026, 3, 14),
		})
		assert.True(t, domain.IsValidation(err))
	})
}

func TestBookingService_Create_Capacity(t *testing.T) {
	ctx := context.Background()
	env := newBookingTestEnv(t, 2, 10)

	mkStay := func(t *testing.T, arrival, departure time.Time) *BookingDTO {
		t.Helper()
		p := env.seedPet(t, uuid.New())
		dto, err := env.svc.Create(ctx, ownerOf(p), CreateBookingRequest{
			PetID:     p.ID(),
			Arrival:   arrival,
			Departure: departure,
		})
		require.NoError(t, err)
		return dto
	}

	// Fill both kennels for March 10-14.
	mkStay(t, day(2026, 3, 10), day(2026, 3, 14))
	second := mkStay(t, day(2026, 3, 12), day(2026, 3, 16))

	t.Run("overlapping create is refused when full", func(t *testing.T) {
		p := env.seedPet(t, uuid.New())
		_, err := env.svc.Create(ctx, ownerOf(p), CreateBookingRequest{
			PetID:     p.ID(),
			Arrival:   day(2026, 3, 13),
			Departure: day(2026, 3, 15),
		})
		require.Error(t, err)
		assert.Equal(t, domain.CodePeriodFull, domain.AsDomainError(err).Code)
	})

	t.Run("non-overlapping create still fits", func(t *testing.T) {
		mkStay(t, day(2026, 3, 20), day(2026, 3, 22))
	})

	t.Run("cancelling a stay frees its slot", func(t *testing.T) {
		secondOwner := domain.Actor{UserID: second.OwnerID, Role: domain.RoleOwner}
		_, err := env.svc.Update(ctx, secondOwner, second.ID, UpdateBookingRequest{Status: "cancelled"})
		require.NoError(t, err)

		mkStay(t, day(2026, 3, 13), day(2026, 3, 15))
	})

	t.Run("admission serializes on the calendar lock", func(t *testing.T) {
		assert.NotZero(t, env.store.lockHits)
	})
}

func TestBookingService_Update(t *testing.T) {
	ctx := context.Background()

	seedStay := func(t *testing.T, env *bookingTestEnv) (*petDomain.Pet, *BookingDTO) {
		t.Helper()
		p := env.seedPet(t, uuid.New())
		dto, err := env.svc.Create(ctx, ownerOf(p), CreateBookingRequest{
			PetID:     p.ID(),
			Arrival:   day(2026, 3, 10),
			Departure: day(2026, 3, 14),
		})
		require.NoError(t, err)
		return p, dto
	}

	t.Run("owner cancels own stay", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		p, dto := seedStay(t, env)

		updated, err := env.svc.Update(ctx, ownerOf(p), dto.ID, UpdateBookingRequest{Status: "cancelled"})
		require.NoError(t, err)
		assert.Equal(t, "cancelled", updated.Status)
		assert.Equal(t, int64(2), updated.Version)
	})

	t.Run("owner cannot progress a stay", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		p, dto := seedStay(t, env)

		_, err := env.svc.Update(ctx, ownerOf(p), dto.ID, UpdateBookingRequest{Status: "in_progress"})
		assert.True(t, domain.IsForbidden(err))
	})

	t.Run("fee is recomputed when the period moves", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		p, dto := seedStay(t, env)

		newDeparture := day(2026, 3, 19)
		updated, err := env.svc.Update(ctx, ownerOf(p), dto.ID, UpdateBookingRequest{Departure: &newDeparture})
		require.NoError(t, err)
		// Now 10 calendar days at 10 cents per day.
		assert.Equal(t, int64(100), updated.FeeCents)
	})

	t.Run("pet swap moves the back-reference", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		p, dto := seedStay(t, env)
		other := env.seedPet(t, p.OwnerID())

		otherID := other.ID()
		_, err := env.svc.Update(ctx, staff(), dto.ID, UpdateBookingRequest{PetID: &otherID})
		require.NoError(t, err)

		assert.False(t, env.store.pets[p.ID()].HasBookingRef(dto.ID))
		assert.True(t, env.store.pets[other.ID()].HasBookingRef(dto.ID))
	})

	t.Run("unknown booking", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		_, err := env.svc.Update(ctx, staff(), uuid.New(), UpdateBookingRequest{Status: "cancelled"})
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestBookingService_Update_Notification(t *testing.T) {
	ctx := context.Background()

	seedInProgress := func(t *testing.T, env *bookingTestEnv) *BookingDTO {
		t.Helper()
		p := env.seedPet(t, uuid.New())
		dto, err := env.svc.Create(ctx, ownerOf(p), CreateBookingRequest{
			PetID:     p.ID(),
			Arrival:   day(2026, 3, 10),
			Departure: day(2026, 3, 14),
		})
		require.NoError(t, err)
		notes := ""
		updated, err := env.svc.Update(ctx, staff(), dto.ID, UpdateBookingRequest{
			Status:        "in_progress",
			EmployeeNotes: &notes,
		})
		require.NoError(t, err)
		return updated
	}

	t.Run("note change while in progress notifies once", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		dto := seedInProgress(t, env)
		env.notifier.sent = nil

		notes := "settled in, ate dinner"
		actor := domain.Actor{UserID: uuid.New(), Role: domain.RoleEmployee, Language: "ms"}
		_, err := env.svc.Update(ctx, actor, dto.ID, UpdateBookingRequest{EmployeeNotes: &notes})
		require.NoError(t, err)

		require.Len(t, env.notifier.sent, 1)
		assert.Equal(t, dto.ID, env.notifier.sent[0].BookingID)
		assert.Equal(t, "ms", env.notifier.sent[0].Language)
		assert.Equal(t, notes, env.notifier.sent[0].Notes)
	})

	t.Run("new photo while in progress notifies", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		dto := seedInProgress(t, env)
		env.notifier.sent = nil

		photos := []PhotoDTO{{ID: uuid.New(), URL: "https://cdn.example/nap.jpg"}}
		_, err := env.svc.Update(ctx, staff(), dto.ID, UpdateBookingRequest{Photos: &photos})
		require.NoError(t, err)
		assert.Len(t, env.notifier.sent, 1)
	})

	t.Run("unchanged payload does not notify", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		dto := seedInProgress(t, env)
		env.notifier.sent = nil

		_, err := env.svc.Update(ctx, staff(), dto.ID, UpdateBookingRequest{})
		require.NoError(t, err)
		assert.Empty(t, env.notifier.sent)
	})

	t.Run("note change on completion does not notify", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		dto := seedInProgress(t, env)
		env.notifier.sent = nil

		notes := "picked up by owner"
		_, err := env.svc.Update(ctx, staff(), dto.ID, UpdateBookingRequest{
			Status:        "completed",
			EmployeeNotes: &notes,
		})
		require.NoError(t, err)
		assert.Empty(t, env.notifier.sent)
	})

	t.Run("creating a stay never notifies", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		p := env.seedPet(t, uuid.New())
		_, err := env.svc.Create(ctx, staff(), CreateBookingRequest{
			PetID:         p.ID(),
			Status:        "in_progress",
			EmployeeNotes: "walk-in",
			Arrival:       day(2026, 3, 10),
			Departure:     day(2026, 3, 14),
		})
		require.NoError(t, err)
		assert.Empty(t, env.notifier.sent)
	})

	t.Run("notifier failure does not fail the update", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		dto := seedInProgress(t, env)
		env.notifier.err = errors.New("broker down")

		notes := "still happy"
		updated, err := env.svc.Update(ctx, staff(), dto.ID, UpdateBookingRequest{EmployeeNotes: &notes})
		require.NoError(t, err)
		assert.Equal(t, notes, updated.EmployeeNotes)
	})
}

func TestBookingService_DestroyAll(t *testing.T) {
	ctx := context.Background()

	t.Run("staff removes a batch and the back-refs", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		p := env.seedPet(t, uuid.New())

		var ids []uuid.UUID
		for i := 0; i < 2; i++ {
			dto, err := env.svc.Create(ctx, ownerOf(p), CreateBookingRequest{
				PetID:     p.ID(),
				Arrival:   day(2026, 4, 1+10*i),
				Departure: day(2026, 4, 3+10*i),
			})
			require.NoError(t, err)
			ids = append(ids, dto.ID)
		}

		require.NoError(t, env.svc.DestroyAll(ctx, staff(), ids))
		assert.Empty(t, env.store.bookings)
		assert.Empty(t, env.store.pets[p.ID()].BookingRefs())
	})

	t.Run("one bad id aborts the whole batch", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		p := env.seedPet(t, uuid.New())

		dto, err := env.svc.Create(ctx, ownerOf(p), CreateBookingRequest{
			PetID:     p.ID(),
			Arrival:   day(2026, 4, 1),
			Departure: day(2026, 4, 3),
		})
		require.NoError(t, err)

		err = env.svc.DestroyAll(ctx, staff(), []uuid.UUID{dto.ID, uuid.New()})
		assert.True(t, domain.IsNotFound(err))
		assert.Contains(t, env.store.bookings, dto.ID)
		assert.True(t, env.store.pets[p.ID()].HasBookingRef(dto.ID))
	})

	t.Run("owner cannot sneak someone else's stay into the batch", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		mine := env.seedPet(t, uuid.New())
		theirs := env.seedPet(t, uuid.New())

		myStay, err := env.svc.Create(ctx, ownerOf(mine), CreateBookingRequest{
			PetID:     mine.ID(),
			Arrival:   day(2026, 4, 1),
			Departure: day(2026, 4, 3),
		})
		require.NoError(t, err)
		theirStay, err := env.svc.Create(ctx, ownerOf(theirs), CreateBookingRequest{
			PetID:     theirs.ID(),
			Arrival:   day(2026, 4, 5),
			Departure: day(2026, 4, 7),
		})
		require.NoError(t, err)

		err = env.svc.DestroyAll(ctx, ownerOf(mine), []uuid.UUID{myStay.ID, theirStay.ID})
		assert.True(t, domain.IsForbidden(err))
		assert.Len(t, env.store.bookings, 2)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		env := newBookingTestEnv(t, 10, 10)
		assert.NoError(t, env.svc.DestroyAll(ctx, staff(), nil))
	})
}

func TestBookingService_Get(t *testing.T) {
	ctx := context.Background()
	env := newBookingTestEnv(t, 10, 10)
	p := env.seedPet(t, uuid.New())

	dto, err := env.svc.Create(ctx, ownerOf(p), CreateBookingRequest{
		PetID:     p.ID(),
		Arrival:   day(2026, 3, 10),
		Departure: day(2026, 3, 14),
	})
	require.NoError(t, err)

	t.Run("owner sees own stay", func(t *testing.T) {
		got, err := env.svc.Get(ctx, ownerOf(p), dto.ID)
		require.NoError(t, err)
		assert.Equal(t, dto.ID, got.ID)
	})

	t.Run("stranger is refused", func(t *testing.T) {
		stranger := domain.Actor{UserID: uuid.New(), Role: domain.RoleOwner}
		_, err := env.svc.Get(ctx, stranger, dto.ID)
		assert.True(t, domain.IsForbidden(err))
	})

	t.Run("staff sees any stay", func(t *testing.T) {
		_, err := env.svc.Get(ctx, staff(), dto.ID)
		assert.NoError(t, err)
	})
}

func TestBookingService_Stats(t *testing.T) {
	ctx := context.Background()
	env := newBookingTestEnv(t, 10, 10)
	p := env.seedPet(t, uuid.New())

	_, err := env.svc.Create(ctx, ownerOf(p), CreateBookingRequest{
		PetID:     p.ID(),
		Arrival:   day(2026, 3, 10),
		Departure: day(2026, 3, 14),
	})
	require.NoError(t, err)
	_, err = env.svc.Create(ctx, staff(), CreateBookingRequest{
		PetID:     p.ID(),
		Status:    "completed",
		Arrival:   day(2026, 1, 10),
		Departure: day(2026, 1, 12),
	})
	require.NoError(t, err)

	stats, err := env.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.ByStatus["booked"])
	assert.Equal(t, int64(1), stats.ByStatus["completed"])
}
