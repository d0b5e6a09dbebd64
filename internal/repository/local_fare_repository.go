package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/metro-cabs/service-booking/internal/domain"
	"github.com/metro-cabs/service-booking/internal/domain/pricing"
)

// LocalFareModel is the GORM model for the local_fares table. One row per
// service area.
type LocalFareModel struct {
	ID                      uuid.UUID `gorm:"type:uuid;primaryKey"`
	ServiceArea             string    `gorm:"uniqueIndex;not null;size:100"`
	Normal4SeaterRatePerKm  float64   `gorm:"column:normal_4_seater_rate_per_km;not null"`
	Normal6SeaterRatePerKm  float64   `gorm:"column:normal_6_seater_rate_per_km;not null"`
	Airport4SeaterRatePerKm float64   `gorm:"column:airport_4_seater_rate_per_km;not null"`
	Airport6SeaterRatePerKm float64   `gorm:"column:airport_6_seater_rate_per_km;not null"`
}

// TableName returns the table name for the GORM model.
func (LocalFareModel) TableName() string {
	return "local_fares"
}

// GormLocalFareRepository is the GORM-based implementation of
// LocalFareRepository.
type GormLocalFareRepository struct {
	db *gorm.DB
}

// NewGormLocalFareRepository creates a new GormLocalFareRepository.
func NewGormLocalFareRepository(db *gorm.DB) *GormLocalFareRepository {
	return &GormLocalFareRepository{db: db}
}

// FindByServiceArea retrieves the rate card for one service area.
func (r *GormLocalFareRepository) FindByServiceArea(ctx context.Context, serviceArea string) (*pricing.LocalFareRate, error) {
	var model LocalFareModel
	if err := r.db.WithContext(ctx).
		Where("service_area = ?", serviceArea).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("LocalFareRate", serviceArea)
		}
		return nil, fmt.Errorf("failed to find local fare rate: %w", err)
	}
	return toDomainLocalFare(&model), nil
}

// Replace overwrites the rate card for its service area, inserting the row
// if it does not exist. The row is replaced wholesale, never patched.
func (r *GormLocalFareRepository) Replace(ctx context.Context, rates *pricing.LocalFareRate) error {
	model := LocalFareModel{
		ID:                      rates.ID,
		ServiceArea:             rates.ServiceArea,
		Normal4SeaterRatePerKm:  rates.Normal4SeaterRatePerKm,
		Normal6SeaterRatePerKm:  rates.Normal6SeaterRatePerKm,
		Airport4SeaterRatePerKm: rates.Airport4SeaterRatePerKm,
		Airport6SeaterRatePerKm: rates.Airport6SeaterRatePerKm,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "service_area"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"normal_4_seater_rate_per_km",
				"normal_6_seater_rate_per_km",
				"airport_4_seater_rate_per_km",
				"airport_6_seater_rate_per_km",
			}),
		}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("failed to replace local fare rate: %w", err)
	}
	return nil
}

func toDomainLocalFare(m *LocalFareModel) *pricing.LocalFareRate {
	return &pricing.LocalFareRate{
		ID:                      m.ID,
		ServiceArea:             m.ServiceArea,
		Normal4SeaterRatePerKm:  m.Normal4SeaterRatePerKm,
		Normal6SeaterRatePerKm:  m.Normal6SeaterRatePerKm,
		Airport4SeaterRatePerKm: m.Airport4SeaterRatePerKm,
		Airport6SeaterRatePerKm: m.Airport6SeaterRatePerKm,
	}
}
