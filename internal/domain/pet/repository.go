package pet

import (
	"context"

	"github.com/google/uuid"
)

// PetRepository defines the persistence contract for pet aggregates.
type PetRepository interface {
	// FindByID retrieves a pet by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Pet, error)

	// FindByOwnerID retrieves all pets belonging to an owner.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*Pet, error)

	// Save persists a new pet.
	Save(ctx context.Context, pet *Pet) error

	// Update persists changes to an existing pet with optimistic locking.
	Update(ctx context.Context, pet *Pet) error

	// Delete removes a pet. Callers must check the booking guard first.
	Delete(ctx context.Context, id uuid.UUID) error
}
