package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawhaus/service-boarding/internal/domain"
	bookingDomain "github.com/pawhaus/service-boarding/internal/domain/booking"
	petDomain "github.com/pawhaus/service-boarding/internal/domain/pet"
	"github.com/pawhaus/service-boarding/internal/domain/settings"
	"github.com/pawhaus/service-boarding/internal/domain/storage"
)

// NotificationSender delivers externally observable booking updates.
// Fire-and-forget from the orchestrator's perspective: a failure never
// rolls back the committed write.
type NotificationSender interface {
	SendBookingUpdate(ctx context.Context, language string, b *bookingDomain.Booking) error
}

// PhotoDTO is the wire representation of a stay photo.
type PhotoDTO struct {
	ID      uuid.UUID `json:"id" binding:"required"`
	URL     string    `json:"url" binding:"required"`
	Caption string    `json:"caption"`
}

// CreateBookingRequest holds the data needed to create a new stay. OwnerID
// is honored for staff actors only; owners always book for themselves. The
// fee is always computed server-side.
type CreateBookingRequest struct {
	PetID         uuid.UUID  `json:"pet_id" binding:"required"`
	OwnerID       uuid.UUID  `json:"owner_id"`
	Status        string     `json:"status"`
	Arrival       time.Time  `json:"arrival" binding:"required"`
	Departure     time.Time  `json:"departure" binding:"required"`
	EmployeeNotes string     `json:"employee_notes"`
	Photos        []PhotoDTO `json:"photos"`
}

// UpdateBookingRequest holds a partial update of a stay. Nil fields keep
// the existing value.
type UpdateBookingRequest struct {
	PetID         *uuid.UUID  `json:"pet_id"`
	OwnerID       *uuid.UUID  `json:"owner_id"`
	Status        string      `json:"status"`
	Arrival       *time.Time  `json:"arrival"`
	Departure     *time.Time  `json:"departure"`
	EmployeeNotes *string     `json:"employee_notes"`
	Photos        *[]PhotoDTO `json:"photos"`
}

// BookingDTO is the response representation of a stay.
type BookingDTO struct {
	ID            uuid.UUID  `json:"id"`
	PetID         uuid.UUID  `json:"pet_id"`
	OwnerID       uuid.UUID  `json:"owner_id"`
	Status        string     `json:"status"`
	Arrival       time.Time  `json:"arrival"`
	Departure     time.Time  `json:"departure"`
	FeeCents      int64      `json:"fee_cents"`
	EmployeeNotes string     `json:"employee_notes,omitempty"`
	Photos        []PhotoDTO `json:"photos"`
	Version       int64      `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// BookingStatsDTO holds stay statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// BookingService orchestrates stay use cases: role and state validation,
// period sanity, capacity admission, fee computation, the atomic write with
// relation sync, and the post-commit notification.
type BookingService struct {
	bookings bookingDomain.BookingRepository
	pets     petDomain.PetRepository
	settings settings.Provider
	uow      storage.UnitOfWork
	notifier NotificationSender
	logger   *zap.Logger

	// now is injectable so period validation stays deterministic in tests.
	now func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	pets petDomain.PetRepository,
	settingsProvider settings.Provider,
	uow storage.UnitOfWork,
	notifier NotificationSender,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		pets:     pets,
		settings: settingsProvider,
		uow:      uow,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create validates and admits a new stay, then persists it together with
// the pet's back-reference in one atomic batch.
func (s *BookingService) Create(ctx context.Context, actor domain.Actor, req CreateBookingRequest) (*BookingDTO, error) {
	status := bookingDomain.StatusBooked
	if req.Status != "" {
		parsed, err := bookingDomain.ParseBookingStatus(req.Status)
		if err != nil {
			return nil, domain.NewValidationError(domain.CodeInvalidInput, err.Error())
		}
		status = parsed
	}

	boarded, err := s.pets.FindByID(ctx, req.PetID)
	if err != nil {
		return nil, err
	}

	// Owners always book for themselves; staff may book on a pet owner's
	// behalf, defaulting to the pet's owner.
	var ownerID uuid.UUID
	switch {
	case actor.Role == domain.RoleOwner:
		ownerID = actor.UserID
	case req.OwnerID != uuid.Nil:
		ownerID = req.OwnerID
	default:
		ownerID = boarded.OwnerID()
	}

	change := bookingDomain.ChangeRequest{
		PetID:         boarded.ID(),
		PetOwnerID:    boarded.OwnerID(),
		OwnerID:       ownerID,
		Status:        status,
		Arrival:       req.Arrival,
		Departure:     req.Departure,
		EmployeeNotes: req.EmployeeNotes,
		Photos:        toDomainPhotos(req.Photos),
	}
	if err := bookingDomain.ValidateCreate(actor, change); err != nil {
		return nil, err
	}
	if status == bookingDomain.StatusBooked {
		if err := bookingDomain.ValidatePeriod(req.Arrival, req.Departure, s.now()); err != nil {
			return nil, err
		}
	}

	cfg, err := s.settings.FindOrCreateDefault(ctx)
	if err != nil {
		return nil, err
	}
	fee := bookingDomain.CalculateFee(req.Arrival, req.Departure, cfg.DailyFeeCents)

	bk, err := bookingDomain.NewBooking(
		change.PetID, change.OwnerID, status,
		req.Arrival, req.Departure,
		fee, req.EmployeeNotes, change.Photos,
	)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(tx storage.TxRepos) error {
		if err := s.admit(ctx, tx, cfg, status, bk.Arrival(), bk.Departure(), uuid.Nil); err != nil {
			return err
		}
		if err := tx.Bookings().Save(ctx, bk); err != nil {
			return err
		}
		return s.syncAddRef(ctx, tx, bk.PetID(), bk.ID())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("pet_id", bk.PetID().String()),
		zap.String("status", bk.Status().String()),
	)

	return s.reread(ctx, bk.ID())
}

// Update validates, admits and persists a stay mutation, then fires the
// progress-update notification when warranted. The existing record is
// always re-fetched fresh; payload-declared previous state is ignored.
func (s *BookingService) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req UpdateBookingRequest) (*BookingDTO, error) {
	existing, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	change, err := s.resolveChange(ctx, actor, existing, req)
	if err != nil {
		return nil, err
	}

	if err := bookingDomain.ValidateUpdate(actor, existing, change); err != nil {
		return nil, err
	}
	if change.Status == bookingDomain.StatusBooked {
		if err := bookingDomain.ValidatePeriod(change.Arrival, change.Departure, s.now()); err != nil {
			return nil, err
		}
	}

	cfg, err := s.settings.FindOrCreateDefault(ctx)
	if err != nil {
		return nil, err
	}
	fee := bookingDomain.CalculateFee(change.Arrival, change.Departure, cfg.DailyFeeCents)

	// Pre-write snapshot for the notification decision.
	prevPetID := existing.PetID()
	prevNotes := existing.EmployeeNotes()
	prevPhotos := existing.Photos()

	err = s.uow.Do(ctx, func(tx storage.TxRepos) error {
		if err := s.admit(ctx, tx, cfg, change.Status, change.Arrival, change.Departure, existing.ID()); err != nil {
			return err
		}

		existing.Apply(change, fee)
		existing.IncrementVersion()
		if err := tx.Bookings().Update(ctx, existing); err != nil {
			return err
		}

		if change.PetID != prevPetID {
			if err := s.syncRemoveRef(ctx, tx, prevPetID, existing.ID()); err != nil {
				return err
			}
		}
		return s.syncAddRef(ctx, tx, change.PetID, existing.ID())
	})
	if err != nil {
		return nil, err
	}

	dto, err := s.reread(ctx, existing.ID())
	if err != nil {
		return nil, err
	}

	// Externally observable progress update: status is in progress and
	// staff notes changed or a new photo id was appended, comparing the
	// pre-write snapshot against the post-write payload.
	if change.Status == bookingDomain.StatusInProgress &&
		(change.EmployeeNotes != prevNotes || bookingDomain.HasNewPhoto(prevPhotos, change.Photos)) {
		if err := s.notifier.SendBookingUpdate(ctx, actor.Language, existing); err != nil {
			s.logger.Error("failed to send booking update notification",
				zap.String("booking_id", existing.ID().String()),
				zap.Error(err),
			)
		}
	}

	return dto, nil
}

// DestroyAll deletes the given stays in one atomic batch. Every id is
// re-validated against the actor; any failure aborts the whole batch.
func (s *BookingService) DestroyAll(ctx context.Context, actor domain.Actor, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	err := s.uow.Do(ctx, func(tx storage.TxRepos) error {
		for _, id := range ids {
			bk, err := tx.Bookings().FindByID(ctx, id)
			if err != nil {
				return err
			}
			if err := bookingDomain.ValidateDestroy(actor, bk); err != nil {
				return err
			}
			if err := s.syncRemoveRef(ctx, tx, bk.PetID(), bk.ID()); err != nil {
				return err
			}
			if err := tx.Bookings().Delete(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("bookings destroyed", zap.Int("count", len(ids)))
	return nil
}

// Get retrieves a single stay. Owners can only see their own.
func (s *BookingService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleOwner && bk.OwnerID() != actor.UserID {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	dto := toBookingDTO(bk)
	return &dto, nil
}

// ListForOwner retrieves paginated stays for a specific owner.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.FindByOwnerID(ctx, ownerID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// ListAll returns a paginated list of all stays (admin).
func (s *BookingService) ListAll(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings), total, nil
}

// Stats returns aggregate stay statistics (admin).
func (s *BookingService) Stats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{TotalBookings: total, ByStatus: counts}, nil
}

// --- Helpers ---

// resolveChange merges the partial update payload onto the fresh existing
// record and resolves the effective owner for the actor.
func (s *BookingService) resolveChange(ctx context.Context, actor domain.Actor, existing *bookingDomain.Booking, req UpdateBookingRequest) (bookingDomain.ChangeRequest, error) {
	change := bookingDomain.ChangeRequest{
		PetID:         existing.PetID(),
		OwnerID:       existing.OwnerID(),
		Status:        existing.Status(),
		Arrival:       existing.Arrival(),
		Departure:     existing.Departure(),
		EmployeeNotes: existing.EmployeeNotes(),
		Photos:        existing.Photos(),
	}

	if req.PetID != nil {
		change.PetID = *req.PetID
	}
	if req.Status != "" {
		parsed, err := bookingDomain.ParseBookingStatus(req.Status)
		if err != nil {
			return change, domain.NewValidationError(domain.CodeInvalidInput, err.Error())
		}
		change.Status = parsed
	}
	if req.Arrival != nil {
		change.Arrival = *req.Arrival
	}
	if req.Departure != nil {
		change.Departure = *req.Departure
	}
	if req.EmployeeNotes != nil {
		change.EmployeeNotes = *req.EmployeeNotes
	}
	if req.Photos != nil {
		change.Photos = toDomainPhotos(*req.Photos)
	}

	// Owners are always forced to themselves.
	if actor.Role == domain.RoleOwner {
		change.OwnerID = actor.UserID
	} else if req.OwnerID != nil {
		change.OwnerID = *req.OwnerID
	}

	boarded, err := s.pets.FindByID(ctx, change.PetID)
	if err != nil {
		return change, err
	}
	change.PetOwnerID = boarded.OwnerID()
	return change, nil
}

// admit enforces the capacity limit inside the write batch. Statuses that
// do not occupy capacity bypass admission entirely.
func (s *BookingService) admit(ctx context.Context, tx storage.TxRepos, cfg settings.Settings, status bookingDomain.BookingStatus, arrival, departure time.Time, excludeID uuid.UUID) error {
	if !status.IsActive() {
		return nil
	}
	if err := tx.LockBoardingCalendar(ctx); err != nil {
		return err
	}
	count, err := tx.Bookings().CountActiveOverlapping(ctx, arrival, departure, excludeID)
	if err != nil {
		return err
	}
	if count >= int64(cfg.CapacityLimit) {
		return domain.NewValidationError(domain.CodePeriodFull, "no kennel capacity left for this period")
	}
	return nil
}

// syncAddRef adds the booking id to the pet's denormalized back-reference
// set inside the batch. Idempotent.
func (s *BookingService) syncAddRef(ctx context.Context, tx storage.TxRepos, petID, bookingID uuid.UUID) error {
	boarded, err := tx.Pets().FindByID(ctx, petID)
	if err != nil {
		return err
	}
	if boarded.AddBookingRef(bookingID) {
		boarded.IncrementVersion()
		return tx.Pets().Update(ctx, boarded)
	}
	return nil
}

// syncRemoveRef removes the booking id from the pet's back-reference set
// inside the batch. A missing pet is tolerated: the forward reference is
// authoritative and already gone or moving.
func (s *BookingService) syncRemoveRef(ctx context.Context, tx storage.TxRepos, petID, bookingID uuid.UUID) error {
	boarded, err := tx.Pets().FindByID(ctx, petID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil
		}
		return err
	}
	if boarded.RemoveBookingRef(bookingID) {
		boarded.IncrementVersion()
		return tx.Pets().Update(ctx, boarded)
	}
	return nil
}

// reread returns the persisted, populated record after a write.
func (s *BookingService) reread(ctx context.Context, id uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toBookingDTO(bk)
	return &dto, nil
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:            bk.ID(),
		PetID:         bk.PetID(),
		OwnerID:       bk.OwnerID(),
		Status:        string(bk.Status()),
		Arrival:       bk.Arrival(),
		Departure:     bk.Departure(),
		FeeCents:      bk.FeeCents(),
		EmployeeNotes: bk.EmployeeNotes(),
		Photos:        toPhotoDTOs(bk.Photos()),
		Version:       bk.Version(),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func toDomainPhotos(photos []PhotoDTO) []bookingDomain.Photo {
	result := make([]bookingDomain.Photo, len(photos))
	for i, p := range photos {
		result[i] = bookingDomain.Photo{ID: p.ID, URL: p.URL, Caption: p.Caption}
	}
	return result
}

func toPhotoDTOs(photos []bookingDomain.Photo) []PhotoDTO {
	result := make([]PhotoDTO, len(photos))
	for i, p := range photos {
		result[i] = PhotoDTO{ID: p.ID, URL: p.URL, Caption: p.Caption}
	}
	return result
}
