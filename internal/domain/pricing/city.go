package pricing

import (
	"strings"

	"github.com/google/uuid"

	"github.com/metro-cabs/service-booking/internal/domain"
)

// City is a destination a fixed inter-city route can start from or end at.
// Cities are insert/delete only; there is no rename.
type City struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NewCity validates the name and builds a City with a fresh identifier.
func NewCity(name string) (*City, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("city name is required")
	}
	return &City{ID: uuid.New(), Name: name}, nil
}
