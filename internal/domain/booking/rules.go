package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawhaus/service-boarding/internal/domain"
)

// ChangeRequest is the proposed post-write shape of a stay, assembled by the
// orchestrator from the payload with the actor already resolved. PetOwnerID
// is the owner of the referenced pet, fetched fresh.
type ChangeRequest struct {
	PetID         uuid.UUID
	PetOwnerID    uuid.UUID
	OwnerID       uuid.UUID
	Status        BookingStatus
	Arrival       time.Time
	Departure     time.Time
	EmployeeNotes string
	Photos        []Photo
}

// ValidateCreate checks role rules for creating a stay. Owners may only
// book for themselves and only with status booked; staff may create stays
// in any valid status. All creates must reference a pet owned by the
// booking's owner.
func ValidateCreate(actor domain.Actor, req ChangeRequest) error {
	if req.OwnerID != req.PetOwnerID {
		return domain.NewForbiddenError("booking owner must match the pet's owner")
	}

	switch {
	case actor.Role == domain.RoleOwner:
		if req.OwnerID != actor.UserID {
			return domain.NewForbiddenError("owners may only book for themselves")
		}
		if req.Status != StatusBooked {
			return domain.NewForbiddenError("owners may only create booked stays")
		}
	case actor.Role.IsStaff():
		// Staff may create stays in any valid status.
	default:
		return domain.NewForbiddenError("role may not create bookings")
	}
	return nil
}

// ValidateUpdate checks role rules and transition legality for mutating an
// existing stay. The existing record must be fetched fresh by the caller;
// payload-declared previous state is never trusted.
func ValidateUpdate(actor domain.Actor, existing *Booking, req ChangeRequest) error {
	if req.OwnerID != req.PetOwnerID {
		return domain.NewForbiddenError("booking owner must match the pet's owner")
	}

	switch {
	case actor.Role == domain.RoleOwner:
		if existing.OwnerID() != actor.UserID || req.OwnerID != actor.UserID {
			return domain.NewForbiddenError("owners may only change their own bookings")
		}
		if existing.Status() != StatusBooked {
			return domain.NewForbiddenError("only booked stays can be changed by their owner")
		}
		if req.Status != StatusBooked && req.Status != StatusCancelled {
			return domain.NewForbiddenError("owners may keep or cancel a stay, not progress it")
		}
		if req.EmployeeNotes != existing.EmployeeNotes() {
			return domain.NewForbiddenError("employee notes are staff-only")
		}
	case actor.Role.IsStaff():
		if existing.Status().IsTerminal() {
			return domain.NewForbiddenError("completed or cancelled stays cannot be changed")
		}
		if existing.Status() != StatusBooked {
			if req.Status == StatusBooked {
				return domain.NewForbiddenError("a stay cannot return to booked")
			}
			if req.OwnerID != existing.OwnerID() {
				return domain.NewForbiddenError("owner cannot change once a stay has started")
			}
			if req.PetID != existing.PetID() {
				return domain.NewForbiddenError("pet cannot change once a stay has started")
			}
		}
	default:
		return domain.NewForbiddenError("role may not modify bookings")
	}

	// Same-status updates are not transitions.
	if req.Status != existing.Status() && !existing.Status().CanTransitionTo(req.Status) {
		return domain.NewForbiddenError(
			"cannot transition from " + string(existing.Status()) + " to " + string(req.Status))
	}
	return nil
}

// ValidateDestroy checks whether the actor may delete an existing stay.
// Owners may only remove their own stays that are not currently in
// progress; staff may remove any stay.
func ValidateDestroy(actor domain.Actor, existing *Booking) error {
	switch {
	case actor.Role == domain.RoleOwner:
		if existing.OwnerID() != actor.UserID {
			return domain.NewForbiddenError("owners may only delete their own bookings")
		}
		if existing.Status() == StatusInProgress {
			return domain.NewForbiddenError("a stay in progress cannot be deleted by its owner")
		}
	case actor.Role.IsStaff():
		// Staff may delete any stay.
	default:
		return domain.NewForbiddenError("role may not delete bookings")
	}
	return nil
}
