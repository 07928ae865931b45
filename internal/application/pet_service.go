package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawhaus/service-boarding/internal/domain"
	petDomain "github.com/pawhaus/service-boarding/internal/domain/pet"
	"github.com/pawhaus/service-boarding/internal/domain/storage"
)

// CreatePetRequest is the request DTO for creating a pet profile.
type CreatePetRequest struct {
	OwnerID uuid.UUID `json:"owner_id"`
	Name    string    `json:"name" binding:"required"`
	PetType string    `json:"pet_type" binding:"required"`
	Breed   string    `json:"breed"`
	Size    string    `json:"size"`
}

// UpdatePetRequest is the request DTO for updating a pet profile.
type UpdatePetRequest struct {
	Name    string `json:"name"`
	PetType string `json:"pet_type"`
	Breed   string `json:"breed"`
	Size    string `json:"size"`
}

// PetDTO is the API response representation of a pet profile.
type PetDTO struct {
	ID          uuid.UUID   `json:"id"`
	OwnerID     uuid.UUID   `json:"owner_id"`
	Name        string      `json:"name"`
	PetType     string      `json:"pet_type"`
	Breed       string      `json:"breed,omitempty"`
	Size        string      `json:"size,omitempty"`
	BookingRefs []uuid.UUID `json:"booking_refs"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// PetService implements use cases for pet profile management.
type PetService struct {
	pets   petDomain.PetRepository
	uow    storage.UnitOfWork
	logger *zap.Logger
}

// NewPetService creates a new PetService.
func NewPetService(pets petDomain.PetRepository, uow storage.UnitOfWork, logger *zap.Logger) *PetService {
	return &PetService{pets: pets, uow: uow, logger: logger}
}

// Create creates a new pet profile. Owners create pets for themselves;
// staff may create on another owner's behalf.
func (s *PetService) Create(ctx context.Context, actor domain.Actor, req CreatePetRequest) (*PetDTO, error) {
	ownerID := req.OwnerID
	if actor.Role == domain.RoleOwner || ownerID == uuid.Nil {
		ownerID = actor.UserID
	}

	p, err := petDomain.NewPet(ownerID, req.Name, req.PetType, req.Breed, petDomain.PetSize(req.Size))
	if err != nil {
		return nil, err
	}

	if err := s.pets.Save(ctx, p); err != nil {
		s.logger.Error("failed to create pet", zap.Error(err))
		return nil, err
	}

	s.logger.Info("pet profile created",
		zap.String("pet_id", p.ID().String()),
		zap.String("owner_id", ownerID.String()),
	)
	result := toPetDTO(p)
	return &result, nil
}

// ListForOwner returns all pet profiles for the given owner.
func (s *PetService) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]PetDTO, error) {
	pets, err := s.pets.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	dtos := make([]PetDTO, len(pets))
	for i, p := range pets {
		dtos[i] = toPetDTO(p)
	}
	return dtos, nil
}

// Get returns a single pet profile by ID, verifying ownership for owners.
func (s *PetService) Get(ctx context.Context, actor domain.Actor, petID uuid.UUID) (*PetDTO, error) {
	p, err := s.pets.FindByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleOwner && !p.IsOwnedBy(actor.UserID) {
		return nil, domain.NewForbiddenError("you do not own this pet profile")
	}
	result := toPetDTO(p)
	return &result, nil
}

// Update updates a pet profile, verifying ownership for owners.
func (s *PetService) Update(ctx context.Context, actor domain.Actor, petID uuid.UUID, req UpdatePetRequest) (*PetDTO, error) {
	p, err := s.pets.FindByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleOwner && !p.IsOwnedBy(actor.UserID) {
		return nil, domain.NewForbiddenError("you do not own this pet profile")
	}

	size := petDomain.PetSize(req.Size)
	if !size.IsValid() {
		return nil, domain.NewValidationError(domain.CodeInvalidInput, "invalid pet size: "+req.Size)
	}

	p.Update(req.Name, req.PetType, req.Breed, size)
	if err := s.pets.Update(ctx, p); err != nil {
		s.logger.Error("failed to update pet", zap.Error(err))
		return nil, err
	}

	s.logger.Info("pet profile updated", zap.String("pet_id", petID.String()))
	result := toPetDTO(p)
	return &result, nil
}

// Destroy deletes a pet profile. Blocked while any booking still
// references the pet; the guard checks the authoritative forward reference
// inside the same batch as the delete.
func (s *PetService) Destroy(ctx context.Context, actor domain.Actor, petID uuid.UUID) error {
	p, err := s.pets.FindByID(ctx, petID)
	if err != nil {
		return err
	}
	if actor.Role == domain.RoleOwner && !p.IsOwnedBy(actor.UserID) {
		return domain.NewForbiddenError("you do not own this pet profile")
	}

	err = s.uow.Do(ctx, func(tx storage.TxRepos) error {
		exists, err := tx.Bookings().ExistsForPet(ctx, petID)
		if err != nil {
			return err
		}
		if exists {
			return domain.NewValidationError(domain.CodeBookingExists, "pet still has bookings")
		}
		return tx.Pets().Delete(ctx, petID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("pet profile deleted", zap.String("pet_id", petID.String()))
	return nil
}

func toPetDTO(p *petDomain.Pet) PetDTO {
	refs := p.BookingRefs()
	if refs == nil {
		refs = []uuid.UUID{}
	}
	return PetDTO{
		ID:          p.ID(),
		OwnerID:     p.OwnerID(),
		Name:        p.Name(),
		PetType:     p.PetType(),
		Breed:       p.Breed(),
		Size:        string(p.Size()),
		BookingRefs: refs,
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}
