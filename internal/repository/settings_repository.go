package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pawhaus/service-boarding/internal/domain/settings"
)

// SettingsModel is the GORM model for the singleton settings row.
type SettingsModel struct {
	ID            int       `gorm:"primaryKey"`
	CapacityLimit int       `gorm:"not null"`
	DailyFeeCents int64     `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (SettingsModel) TableName() string {
	return "settings"
}

const settingsRowID = 1

// GormSettingsProvider reads the facility settings. It satisfies
// settings.Provider and reads fresh on every call; capacity and rate may
// change between operations.
type GormSettingsProvider struct {
	db *gorm.DB
}

// NewGormSettingsProvider creates a new GormSettingsProvider.
func NewGormSettingsProvider(db *gorm.DB) *GormSettingsProvider {
	return &GormSettingsProvider{db: db}
}

// FindOrCreateDefault returns the current settings, inserting the default
// row on first use.
func (r *GormSettingsProvider) FindOrCreateDefault(ctx context.Context) (settings.Settings, error) {
	model := SettingsModel{
		ID:            settingsRowID,
		CapacityLimit: settings.DefaultCapacityLimit,
		DailyFeeCents: settings.DefaultDailyFeeCents,
	}
	if err := r.db.WithContext(ctx).
		Where("id = ?", settingsRowID).
		FirstOrCreate(&model).Error; err != nil {
		return settings.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	return settings.Settings{
		CapacityLimit: model.CapacityLimit,
		DailyFeeCents: model.DailyFeeCents,
	}, nil
}
