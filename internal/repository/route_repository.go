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

// RouteModel is the GORM model for the routes table. The composite unique
// index enforces the one-route-per-city-pair invariant.
type RouteModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FromCity     string    `gorm:"uniqueIndex:idx_routes_city_pair;not null;size:100"`
	ToCity       string    `gorm:"uniqueIndex:idx_routes_city_pair;not null;size:100"`
	Price4Seater float64   `gorm:"column:price_4_seater;not null"`
	Price6Seater float64   `gorm:"column:price_6_seater;not null"`
}

// TableName returns the table name for the GORM model.
func (RouteModel) TableName() string {
	return "routes"
}

// GormRouteRepository is the GORM-based implementation of RouteRepository.
type GormRouteRepository struct {
	db *gorm.DB
}

// NewGormRouteRepository creates a new GormRouteRepository.
func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

// List retrieves all routes ordered by from_city, then to_city.
func (r *GormRouteRepository) List(ctx context.Context) ([]pricing.Route, error) {
	var models []RouteModel
	if err := r.db.WithContext(ctx).
		Order("from_city ASC, to_city ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	routes := make([]pricing.Route, len(models))
	for i, m := range models {
		routes[i] = toDomainRoute(&m)
	}
	return routes, nil
}

// Insert persists a new route, translating a pair collision into a
// Conflict error.
func (r *GormRouteRepository) Insert(ctx context.Context, route *pricing.Route) error {
	model := RouteModel{
		ID:           route.ID,
		FromCity:     route.FromCity,
		ToCity:       route.ToCity,
		Price4Seater: route.Price4Seater,
		Price6Seater: route.Price6Seater,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError(
				fmt.Sprintf("route %s to %s already exists", route.FromCity, route.ToCity))
		}
		return fmt.Errorf("failed to insert route: %w", err)
	}
	return nil
}

// UpdatePrices updates only the two price columns and returns the updated
// row. The city pair is never touched.
func (r *GormRouteRepository) UpdatePrices(ctx context.Context, id uuid.UUID, price4, price6 float64) (*pricing.Route, error) {
	result := r.db.WithContext(ctx).
		Model(&RouteModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"price_4_seater": price4,
			"price_6_seater": price6,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update route prices: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.NewNotFoundError("Route", id.String())
	}

	var model RouteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload route: %w", err)
	}
	route := toDomainRoute(&model)
	return &route, nil
}

// Delete removes a route by id.
func (r *GormRouteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&RouteModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete route: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Route", id.String())
	}
	return nil
}

func toDomainRoute(m *RouteModel) pricing.Route {
	return pricing.Route{
		ID:           m.ID,
		FromCity:     m.FromCity,
		ToCity:       m.ToCity,
		Price4Seater: m.Price4Seater,
		Price6Seater: m.Price6Seater,
	}
}
