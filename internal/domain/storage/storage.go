package storage

import (
	"context"

	"github.com/pawhaus/service-boarding/internal/domain/booking"
	"github.com/pawhaus/service-boarding/internal/domain/pet"
)

// TxRepos exposes repositories bound to a single atomic write batch, plus
// the admission serializer for the shared boarding calendar.
type TxRepos interface {
	Bookings() booking.BookingRepository
	Pets() pet.PetRepository

	// LockBoardingCalendar serializes capacity admission for the duration
	// of the enclosing batch, so two concurrent admissions cannot both
	// observe the same free slot. Released when the batch commits or rolls
	// back.
	LockBoardingCalendar(ctx context.Context) error
}

// UnitOfWork runs a function inside one atomic write batch: every write
// issued through the TxRepos commits or fails together. Reads performed
// before Do are outside the batch.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx TxRepos) error) error
}
