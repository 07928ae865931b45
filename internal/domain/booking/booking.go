package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawhaus/service-boarding/internal/domain"
)

// Booking is the aggregate root for a boarding stay. The pet reference on
// the booking is authoritative; the pet's back-reference set is denormalized
// and maintained by the relation synchronizer.
type Booking struct {
	id            uuid.UUID
	petID         uuid.UUID
	ownerID       uuid.UUID
	status        BookingStatus
	arrival       time.Time
	departure     time.Time
	feeCents      int64
	employeeNotes string
	photos        []Photo

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking aggregate. Period validity and admission
// are checked by the orchestrator; this constructor only guards referential
// basics.
func NewBooking(
	petID uuid.UUID,
	ownerID uuid.UUID,
	status BookingStatus,
	arrival, departure time.Time,
	feeCents int64,
	employeeNotes string,
	photos []Photo,
) (*Booking, error) {
	if petID == uuid.Nil {
		return nil, domain.NewValidationError(domain.CodeInvalidInput, "pet ID is required")
	}
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError(domain.CodeInvalidInput, "owner ID is required")
	}
	if !status.IsValid() {
		return nil, domain.NewValidationError(domain.CodeInvalidInput, "invalid booking status: "+string(status))
	}

	now := time.Now().UTC()
	return &Booking{
		id:            uuid.New(),
		petID:         petID,
		ownerID:       ownerID,
		status:        status,
		arrival:       arrival.UTC(),
		departure:     departure.UTC(),
		feeCents:      feeCents,
		employeeNotes: employeeNotes,
		photos:        photos,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, petID, ownerID uuid.UUID,
	status BookingStatus,
	arrival, departure time.Time,
	feeCents int64,
	employeeNotes string,
	photos []Photo,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		petID:         petID,
		ownerID:       ownerID,
		status:        status,
		arrival:       arrival,
		departure:     departure,
		feeCents:      feeCents,
		employeeNotes: employeeNotes,
		photos:        photos,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// PetID returns the boarded pet's identifier (authoritative forward reference).
func (b *Booking) PetID() uuid.UUID { return b.petID }

// OwnerID returns the pet owner's user ID.
func (b *Booking) OwnerID() uuid.UUID { return b.ownerID }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Arrival returns the stay's arrival timestamp.
func (b *Booking) Arrival() time.Time { return b.arrival }

// Departure returns the stay's departure timestamp.
func (b *Booking) Departure() time.Time { return b.departure }

// Period returns the stay interval.
func (b *Booking) Period() Period { return Period{Arrival: b.arrival, Departure: b.departure} }

// FeeCents returns the computed boarding fee in cents.
func (b *Booking) FeeCents() int64 { return b.feeCents }

// EmployeeNotes returns the staff-only notes on the stay.
func (b *Booking) EmployeeNotes() string { return b.employeeNotes }

// Photos returns the ordered photo attachments.
func (b *Booking) Photos() []Photo { return b.photos }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Apply writes the validated change onto the aggregate. Transition legality
// and role gates are checked beforehand by ValidateUpdate; the fee has
// already been recomputed by the orchestrator.
func (b *Booking) Apply(change ChangeRequest, feeCents int64) {
	b.petID = change.PetID
	b.ownerID = change.OwnerID
	b.status = change.Status
	b.arrival = change.Arrival.UTC()
	b.departure = change.Departure.UTC()
	b.employeeNotes = change.EmployeeNotes
	b.photos = change.Photos
	b.feeCents = feeCents
	b.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
