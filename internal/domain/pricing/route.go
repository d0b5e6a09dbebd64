package pricing

import (
	"strings"

	"github.com/google/uuid"

	"github.com/metro-cabs/service-booking/internal/domain"
)

// Route is a fixed-price inter-city pair. Uniqueness on (FromCity, ToCity)
// is enforced by the backing store; only the two price fields are mutable.
type Route struct {
	ID           uuid.UUID `json:"id"`
	FromCity     string    `json:"from_city"`
	ToCity       string    `json:"to_city"`
	Price4Seater float64   `json:"price_4_seater"`
	Price6Seater float64   `json:"price_6_seater"`
}

// NewRoute validates the pair and prices and builds a Route.
func NewRoute(fromCity, toCity string, price4, price6 float64) (*Route, error) {
	fromCity = strings.TrimSpace(fromCity)
	toCity = strings.TrimSpace(toCity)
	if fromCity == "" || toCity == "" {
		return nil, domain.NewValidationError("both cities are required")
	}
	if strings.EqualFold(fromCity, toCity) {
		return nil, domain.NewValidationError("origin and destination must differ")
	}
	if price4 <= 0 || price6 <= 0 {
		return nil, domain.NewValidationError("route prices must be positive")
	}
	return &Route{
		ID:           uuid.New(),
		FromCity:     fromCity,
		ToCity:       toCity,
		Price4Seater: price4,
		Price6Seater: price6,
	}, nil
}
