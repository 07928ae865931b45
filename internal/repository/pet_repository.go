package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawhaus/service-boarding/internal/domain"
	petDomain "github.com/pawhaus/service-boarding/internal/domain/pet"
)

// PetModel is the GORM model for the pets table. BookingRefs holds the
// denormalized reverse side of the pet<->booking relation as a jsonb array
// of booking ids.
type PetModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Name        string          `gorm:"not null;size:100"`
	PetType     string          `gorm:"not null;size:50"`
	Breed       string          `gorm:"size:100"`
	Size        string          `gorm:"size:20"`
	BookingRefs json.RawMessage `gorm:"type:jsonb"`
	Version     int64           `gorm:"not null;default:1"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PetModel) TableName() string {
	return "pets"
}

// GormPetRepository is the GORM-based implementation of PetRepository.
type GormPetRepository struct {
	db *gorm.DB
}

// NewGormPetRepository creates a new GormPetRepository.
func NewGormPetRepository(db *gorm.DB) *GormPetRepository {
	return &GormPetRepository{db: db}
}

// FindByID retrieves a pet by its unique identifier.
func (r *GormPetRepository) FindByID(ctx context.Context, id uuid.UUID) (*petDomain.Pet, error) {
	var model PetModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Pet", id.String())
		}
		return nil, fmt.Errorf("failed to find pet by ID: %w", err)
	}
	return toDomainPet(&model)
}

// FindByOwnerID retrieves all pets belonging to an owner.
func (r *GormPetRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*petDomain.Pet, error) {
	var models []PetModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find owner pets: %w", err)
	}

	pets := make([]*petDomain.Pet, len(models))
	for i, m := range models {
		p, err := toDomainPet(&m)
		if err != nil {
			return nil, err
		}
		pets[i] = p
	}
	return pets, nil
}

// Save persists a new pet.
func (r *GormPetRepository) Save(ctx context.Context, p *petDomain.Pet) error {
	model, err := toPetModel(p)
	if err != nil {
		return fmt.Errorf("failed to convert pet to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save pet: %w", err)
	}
	return nil
}

// Update persists changes to an existing pet with optimistic locking.
func (r *GormPetRepository) Update(ctx context.Context, p *petDomain.Pet) error {
	model, err := toPetModel(p)
	if err != nil {
		return fmt.Errorf("failed to convert pet to model: %w", err)
	}

	expectedVersion := p.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&PetModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"name":         model.Name,
			"pet_type":     model.PetType,
			"breed":        model.Breed,
			"size":         model.Size,
			"booking_refs": model.BookingRefs,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update pet: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("pet was modified by another transaction")
	}

	return nil
}

// Delete removes a pet.
func (r *GormPetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&PetModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete pet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Pet", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toPetModel(p *petDomain.Pet) (*PetModel, error) {
	refs := p.BookingRefs()
	if refs == nil {
		refs = []uuid.UUID{}
	}
	refsJSON, err := json.Marshal(refs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking refs: %w", err)
	}

	return &PetModel{
		ID:          p.ID(),
		OwnerID:     p.OwnerID(),
		Name:        p.Name(),
		PetType:     p.PetType(),
		Breed:       p.Breed(),
		Size:        string(p.Size()),
		BookingRefs: refsJSON,
		Version:     p.Version(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}, nil
}

func toDomainPet(m *PetModel) (*petDomain.Pet, error) {
	var refs []uuid.UUID
	if len(m.BookingRefs) > 0 {
		if err := json.Unmarshal(m.BookingRefs, &refs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal booking refs: %w", err)
		}
	}

	return petDomain.Reconstruct(
		m.ID,
		m.OwnerID,
		m.Name,
		m.PetType,
		m.Breed,
		petDomain.PetSize(m.Size),
		refs,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
