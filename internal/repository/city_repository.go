package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/metro-cabs/service-booking/internal/domain"
	"github.com/metro-cabs/service-booking/internal/domain/pricing"
)

// CityModel is the GORM model for the cities table.
type CityModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"uniqueIndex;not null;size:100"`
}

// TableName returns the table name for the GORM model.
func (CityModel) TableName() string {
	return "cities"
}

// GormCityRepository is the GORM-based implementation of CityRepository.
type GormCityRepository struct {
	db *gorm.DB
}

// NewGormCityRepository creates a new GormCityRepository.
func NewGormCityRepository(db *gorm.DB) *GormCityRepository {
	return &GormCityRepository{db: db}
}

// List retrieves all cities ordered by name.
func (r *GormCityRepository) List(ctx context.Context) ([]pricing.City, error) {
	var models []CityModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}

	cities := make([]pricing.City, len(models))
	for i, m := range models {
		cities[i] = pricing.City{ID: m.ID, Name: m.Name}
	}
	return cities, nil
}

// Insert persists a new city, translating a unique violation into a
// Conflict error.
func (r *GormCityRepository) Insert(ctx context.Context, city *pricing.City) error {
	model := CityModel{ID: city.ID, Name: city.Name}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError(fmt.Sprintf("city %q already exists", city.Name))
		}
		return fmt.Errorf("failed to insert city: %w", err)
	}
	return nil
}

// Delete removes a city by id.
func (r *GormCityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&CityModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete city: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("City", id.String())
	}
	return nil
}
