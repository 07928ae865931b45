package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByOwnerID retrieves bookings belonging to a specific owner with pagination.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// CountActiveOverlapping counts stays in booked or in_progress whose
	// period intersects [arrival, departure], excluding excludeID when it is
	// not uuid.Nil. This is the admission-control read.
	CountActiveOverlapping(ctx context.Context, arrival, departure time.Time, excludeID uuid.UUID) (int64, error)

	// ExistsForPet reports whether any stay references the pet. Guards pet
	// deletion against the authoritative forward reference.
	ExistsForPet(ctx context.Context, petID uuid.UUID) (bool, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error

	// Delete removes a booking.
	Delete(ctx context.Context, id uuid.UUID) error
}
