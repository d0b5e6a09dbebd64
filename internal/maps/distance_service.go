package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"github.com/metro-cabs/service-booking/internal/domain/geo"
)

// DistanceService handles interactions with the Google Maps distance
// matrix API.
type DistanceService struct {
	client *maps.Client
}

// NewDistanceService creates a new DistanceService with the given API key.
func NewDistanceService(apiKey string) (*DistanceService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &DistanceService{client: client}, nil
}

// Estimate returns the driving distance and duration between two points.
// Any error or non-OK element status is returned to the caller, which is
// expected to fall back to a geometric estimate.
func (s *DistanceService) Estimate(ctx context.Context, origin, destination geo.Point) (geo.Estimate, error) {
	r := &maps.DistanceMatrixRequest{
		Origins:      []string{fmt.Sprintf("%f,%f", origin.Lat, origin.Lng)},
		Destinations: []string{fmt.Sprintf("%f,%f", destination.Lat, destination.Lng)},
		Mode:         maps.TravelModeDriving,
	}

	resp, err := s.client.DistanceMatrix(ctx, r)
	if err != nil {
		return geo.Estimate{}, fmt.Errorf("distance matrix error: %w", err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return geo.Estimate{}, fmt.Errorf("distance matrix returned no elements")
	}

	el := resp.Rows[0].Elements[0]
	if el.Status != "OK" {
		return geo.Estimate{}, fmt.Errorf("distance matrix element status %q", el.Status)
	}

	return geo.Estimate{
		DistanceKm:  float64(el.Distance.Meters) / 1000.0,
		DurationMin: el.Duration.Minutes(),
		Source:      geo.SourceDistanceMatrix,
	}, nil
}
