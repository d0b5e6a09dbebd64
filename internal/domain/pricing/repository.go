package pricing

import (
	"context"

	"github.com/google/uuid"
)

// CityRepository defines the persistence contract for cities.
type CityRepository interface {
	// List retrieves all cities ordered by name.
	List(ctx context.Context) ([]City, error)

	// Insert persists a new city. Returns a Conflict error when the name
	// is already taken.
	Insert(ctx context.Context, city *City) error

	// Delete removes a city by id.
	Delete(ctx context.Context, id uuid.UUID) error
}

// RouteRepository defines the persistence contract for inter-city routes.
type RouteRepository interface {
	// List retrieves all routes ordered by from_city, then to_city.
	List(ctx context.Context) ([]Route, error)

	// Insert persists a new route. Returns a Conflict error when the
	// (from, to) pair already exists.
	Insert(ctx context.Context, route *Route) error

	// UpdatePrices updates only the two price columns and returns the
	// updated row.
	UpdatePrices(ctx context.Context, id uuid.UUID, price4, price6 float64) (*Route, error)

	// Delete removes a route by id.
	Delete(ctx context.Context, id uuid.UUID) error
}

// LocalFareRepository defines the persistence contract for the per-area
// rate card singleton.
type LocalFareRepository interface {
	// FindByServiceArea retrieves the rate card for one service area.
	// Returns a NotFound error when no row exists yet.
	FindByServiceArea(ctx context.Context, serviceArea string) (*LocalFareRate, error)

	// Replace overwrites the rate card for its service area, inserting
	// the row if it does not exist.
	Replace(ctx context.Context, rates *LocalFareRate) error
}
