package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pawhaus/service-boarding/internal/domain/booking"
	"github.com/pawhaus/service-boarding/internal/domain/pet"
	"github.com/pawhaus/service-boarding/internal/domain/storage"
)

// boardingCalendarLockKey identifies the single shared boarding calendar in
// pg_advisory_xact_lock. All admissions serialize on it.
const boardingCalendarLockKey = 72015

// GormUnitOfWork implements storage.UnitOfWork on a GORM transaction.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork.
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Do runs fn inside a single database transaction. Repositories obtained
// from the TxRepos are bound to that transaction.
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(tx storage.TxRepos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxRepos{tx: tx})
	})
}

type gormTxRepos struct {
	tx *gorm.DB
}

func (r *gormTxRepos) Bookings() booking.BookingRepository {
	return NewGormBookingRepository(r.tx)
}

func (r *gormTxRepos) Pets() pet.PetRepository {
	return NewGormPetRepository(r.tx)
}

// LockBoardingCalendar takes a transaction-scoped advisory lock on the
// boarding calendar. Postgres releases it at commit or rollback.
func (r *gormTxRepos) LockBoardingCalendar(ctx context.Context) error {
	if err := r.tx.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", boardingCalendarLockKey).Error; err != nil {
		return fmt.Errorf("failed to lock boarding calendar: %w", err)
	}
	return nil
}
