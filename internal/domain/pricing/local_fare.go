package pricing

import (
	"strings"

	"github.com/google/uuid"

	"github.com/metro-cabs/service-booking/internal/domain"
)

// LocalFareRate is the per-km rate card for one service area. One row per
// area; it is replaced wholesale, never partially patched.
type LocalFareRate struct {
	ID                      uuid.UUID `json:"id"`
	ServiceArea             string    `json:"service_area"`
	Normal4SeaterRatePerKm  float64   `json:"normal_4_seater_rate_per_km"`
	Normal6SeaterRatePerKm  float64   `json:"normal_6_seater_rate_per_km"`
	Airport4SeaterRatePerKm float64   `json:"airport_4_seater_rate_per_km"`
	Airport6SeaterRatePerKm float64   `json:"airport_6_seater_rate_per_km"`
}

// NewLocalFareRate validates that every rate is positive and builds the
// replacement rate card for the given service area.
func NewLocalFareRate(serviceArea string, normal4, normal6, airport4, airport6 float64) (*LocalFareRate, error) {
	serviceArea = strings.TrimSpace(serviceArea)
	if serviceArea == "" {
		return nil, domain.NewValidationError("service area is required")
	}
	if normal4 <= 0 || normal6 <= 0 || airport4 <= 0 || airport6 <= 0 {
		return nil, domain.NewValidationError("all per-km rates must be positive")
	}
	return &LocalFareRate{
		ID:                      uuid.New(),
		ServiceArea:             serviceArea,
		Normal4SeaterRatePerKm:  normal4,
		Normal6SeaterRatePerKm:  normal6,
		Airport4SeaterRatePerKm: airport4,
		Airport6SeaterRatePerKm: airport6,
	}, nil
}
