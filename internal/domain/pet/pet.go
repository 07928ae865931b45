package pet

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawhaus/service-boarding/internal/domain"
)

// PetSize buckets a pet for kennel assignment.
type PetSize string

const (
	SizeSmall  PetSize = "small"
	SizeMedium PetSize = "medium"
	SizeLarge  PetSize = "large"
)

// IsValid returns true if the size is recognized. An empty size is allowed.
func (s PetSize) IsValid() bool {
	switch s {
	case "", SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// Pet is the aggregate root for a boarded pet profile. bookingRefs is the
// denormalized reverse side of the pet<->booking relation; the booking's pet
// reference is authoritative and the relation synchronizer keeps this set
// consistent.
type Pet struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	name        string
	petType     string
	breed       string
	size        PetSize
	bookingRefs []uuid.UUID

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewPet creates a new pet profile with validated fields.
func NewPet(ownerID uuid.UUID, name, petType, breed string, size PetSize) (*Pet, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError(domain.CodeInvalidInput, "owner ID is required")
	}
	if name == "" {
		return nil, domain.NewValidationError(domain.CodeInvalidInput, "pet name is required")
	}
	if petType == "" {
		return nil, domain.NewValidationError(domain.CodeInvalidInput, "pet type is required")
	}
	if !size.IsValid() {
		return nil, domain.NewValidationError(domain.CodeInvalidInput, "invalid pet size: "+string(size))
	}

	now := time.Now().UTC()
	return &Pet{
		id:        uuid.New(),
		ownerID:   ownerID,
		name:      name,
		petType:   petType,
		breed:     breed,
		size:      size,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Pet from persistence data (no validation).
func Reconstruct(
	id, ownerID uuid.UUID,
	name, petType, breed string,
	size PetSize,
	bookingRefs []uuid.UUID,
	version int64,
	createdAt, updatedAt time.Time,
) *Pet {
	return &Pet{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		petType:     petType,
		breed:       breed,
		size:        size,
		bookingRefs: bookingRefs,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (p *Pet) ID() uuid.UUID            { return p.id }
func (p *Pet) OwnerID() uuid.UUID       { return p.ownerID }
func (p *Pet) Name() string             { return p.name }
func (p *Pet) PetType() string          { return p.petType }
func (p *Pet) Breed() string            { return p.breed }
func (p *Pet) Size() PetSize            { return p.size }
func (p *Pet) BookingRefs() []uuid.UUID { return p.bookingRefs }
func (p *Pet) Version() int64           { return p.version }
func (p *Pet) CreatedAt() time.Time     { return p.createdAt }
func (p *Pet) UpdatedAt() time.Time     { return p.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the pet belongs to the given owner.
func (p *Pet) IsOwnedBy(ownerID uuid.UUID) bool {
	return p.ownerID == ownerID
}

// HasBookingRef reports whether the denormalized set contains the booking id.
func (p *Pet) HasBookingRef(bookingID uuid.UUID) bool {
	for _, id := range p.bookingRefs {
		if id == bookingID {
			return true
		}
	}
	return false
}

// AddBookingRef adds the booking id to the denormalized set. Idempotent;
// returns true if the set changed.
func (p *Pet) AddBookingRef(bookingID uuid.UUID) bool {
	if p.HasBookingRef(bookingID) {
		return false
	}
	p.bookingRefs = append(p.bookingRefs, bookingID)
	p.updatedAt = time.Now().UTC()
	return true
}

// RemoveBookingRef removes the booking id from the denormalized set.
// Idempotent; returns true if the set changed.
func (p *Pet) RemoveBookingRef(bookingID uuid.UUID) bool {
	for i, id := range p.bookingRefs {
		if id == bookingID {
			p.bookingRefs = append(p.bookingRefs[:i], p.bookingRefs[i+1:]...)
			p.updatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// Update applies partial updates to the pet profile.
func (p *Pet) Update(name, petType, breed string, size PetSize) {
	if name != "" {
		p.name = name
	}
	if petType != "" {
		p.petType = petType
	}
	if breed != "" {
		p.breed = breed
	}
	if size != "" {
		p.size = size
	}
	p.version++
	p.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (p *Pet) IncrementVersion() {
	p.version++
	p.updatedAt = time.Now().UTC()
}
