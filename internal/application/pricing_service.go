package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/metro-cabs/service-booking/internal/domain"
	"github.com/metro-cabs/service-booking/internal/domain/pricing"
)

// RateCache is the durable fallback for the local-rate singleton. It is
// written through on every successful replace and read when the remote
// store cannot serve the row.
type RateCache interface {
	SaveLocalRates(ctx context.Context, rates *pricing.LocalFareRate) error
	LoadLocalRates(ctx context.Context, serviceArea string) (*pricing.LocalFareRate, error)
}

// PricingService owns the in-memory pricing aggregate and keeps it
// synchronized with the remote store. The aggregate is only mutated after
// the corresponding remote mutation succeeds; ReplaceLocalRates is the one
// deliberate exception and is local-first.
type PricingService struct {
	mu  sync.RWMutex
	cfg pricing.Config

	serviceArea string
	cities      pricing.CityRepository
	routes      pricing.RouteRepository
	localFares  pricing.LocalFareRepository
	cache       RateCache
	logger      *zap.Logger
}

// NewPricingService creates a PricingService for one service area. Call
// Load before serving estimates.
func NewPricingService(
	serviceArea string,
	cities pricing.CityRepository,
	routes pricing.RouteRepository,
	localFares pricing.LocalFareRepository,
	cache RateCache,
	logger *zap.Logger,
) *PricingService {
	return &PricingService{
		serviceArea: serviceArea,
		cities:      cities,
		routes:      routes,
		localFares:  localFares,
		cache:       cache,
		logger:      logger,
	}
}

// Config returns a copy of the current aggregate.
func (s *PricingService) Config() pricing.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// Load refreshes the aggregate from the remote store. The three fetches
// are independent: a failed one leaves its slice at the previous value and
// is reported in the joined error. The local-rate fetch falls back to the
// cache snapshot before being counted as failed; a missing row is simply
// "absent", not an error.
func (s *PricingService) Load(ctx context.Context) error {
	var errs []error

	cities, err := s.cities.List(ctx)
	if err != nil {
		s.logger.Error("failed to load cities", zap.Error(err))
		errs = append(errs, domain.NewUnavailableError("failed to load cities", err))
	}

	routes, err := s.routes.List(ctx)
	if err != nil {
		s.logger.Error("failed to load routes", zap.Error(err))
		errs = append(errs, domain.NewUnavailableError("failed to load routes", err))
	}

	rates, ratesLoaded, err := s.loadLocalRates(ctx)
	if err != nil {
		errs = append(errs, err)
	}

	s.mu.Lock()
	if cities != nil {
		s.cfg.Cities = cities
	}
	if routes != nil {
		s.cfg.Routes = routes
	}
	if ratesLoaded {
		s.cfg.LocalRates = rates
	}
	s.mu.Unlock()

	return errors.Join(errs...)
}

// loadLocalRates reports ratesLoaded=true when a definitive answer was
// obtained, including "no row exists for this area".
func (s *PricingService) loadLocalRates(ctx context.Context) (rates *pricing.LocalFareRate, ratesLoaded bool, err error) {
	rates, dbErr := s.localFares.FindByServiceArea(ctx, s.serviceArea)
	if dbErr == nil {
		return rates, true, nil
	}
	if domain.IsNotFound(dbErr) {
		return nil, true, nil
	}

	s.logger.Warn("local fare fetch failed, trying cache snapshot", zap.Error(dbErr))
	cached, cacheErr := s.cache.LoadLocalRates(ctx, s.serviceArea)
	if cacheErr == nil && cached != nil {
		return cached, true, nil
	}

	return nil, false, domain.NewUnavailableError("failed to load local fare rates", dbErr)
}

// AddCity inserts a city remotely, then appends it to the aggregate.
// Reports a Conflict error when the name is already taken.
func (s *PricingService) AddCity(ctx context.Context, name string) (*pricing.City, error) {
	city, err := pricing.NewCity(name)
	if err != nil {
		return nil, err
	}

	if err := s.cities.Insert(ctx, city); err != nil {
		if domain.IsConflict(err) {
			return nil, err
		}
		s.logger.Error("failed to add city", zap.String("name", name), zap.Error(err))
		return nil, domain.NewUnavailableError("failed to add city", err)
	}

	s.mu.Lock()
	s.cfg.InsertCity(*city)
	s.mu.Unlock()

	s.logger.Info("city added", zap.String("name", city.Name))
	return city, nil
}

// RemoveCity deletes a city remotely, then drops it from the aggregate.
func (s *PricingService) RemoveCity(ctx context.Context, id uuid.UUID) error {
	if err := s.cities.Delete(ctx, id); err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		s.logger.Error("failed to remove city", zap.String("id", id.String()), zap.Error(err))
		return domain.NewUnavailableError("failed to remove city", err)
	}

	s.mu.Lock()
	s.cfg.RemoveCity(id)
	s.mu.Unlock()
	return nil
}

// AddRoute inserts a route remotely, then appends it to the aggregate.
// Reports a Conflict error when the (from, to) pair already exists.
func (s *PricingService) AddRoute(ctx context.Context, fromCity, toCity string, price4, price6 float64) (*pricing.Route, error) {
	route, err := pricing.NewRoute(fromCity, toCity, price4, price6)
	if err != nil {
		return nil, err
	}

	if err := s.routes.Insert(ctx, route); err != nil {
		if domain.IsConflict(err) {
			return nil, err
		}
		s.logger.Error("failed to add route",
			zap.String("from", fromCity), zap.String("to", toCity), zap.Error(err))
		return nil, domain.NewUnavailableError("failed to add route", err)
	}

	s.mu.Lock()
	s.cfg.InsertRoute(*route)
	s.mu.Unlock()

	s.logger.Info("route added", zap.String("from", route.FromCity), zap.String("to", route.ToCity))
	return route, nil
}

// UpdateRoute changes only the two price fields of an existing route.
func (s *PricingService) UpdateRoute(ctx context.Context, id uuid.UUID, price4, price6 float64) (*pricing.Route, error) {
	if price4 <= 0 || price6 <= 0 {
		return nil, domain.NewValidationError("route prices must be positive")
	}

	updated, err := s.routes.UpdatePrices(ctx, id, price4, price6)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}
		s.logger.Error("failed to update route", zap.String("id", id.String()), zap.Error(err))
		return nil, domain.NewUnavailableError("failed to update route", err)
	}

	s.mu.Lock()
	s.cfg.ReplaceRoute(*updated)
	s.mu.Unlock()
	return updated, nil
}

// DeleteRoute removes a route remotely, then drops it from the aggregate.
func (s *PricingService) DeleteRoute(ctx context.Context, id uuid.UUID) error {
	if err := s.routes.Delete(ctx, id); err != nil {
		if domain.IsNotFound(err) {
			return err
		}
		s.logger.Error("failed to delete route", zap.String("id", id.String()), zap.Error(err))
		return domain.NewUnavailableError("failed to delete route", err)
	}

	s.mu.Lock()
	s.cfg.RemoveRoute(id)
	s.mu.Unlock()
	return nil
}

// ReplaceLocalRates overwrites the rate card for the configured service
// area. This is the one local-first mutation: the aggregate and the cache
// snapshot are updated before the remote write, so a new rate card survives
// a restart even while the remote store is unreachable. A remote failure is
// still reported to the caller.
func (s *PricingService) ReplaceLocalRates(ctx context.Context, normal4, normal6, airport4, airport6 float64) (*pricing.LocalFareRate, error) {
	rates, err := pricing.NewLocalFareRate(s.serviceArea, normal4, normal6, airport4, airport6)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cfg.LocalRates = rates
	s.mu.Unlock()

	if err := s.cache.SaveLocalRates(ctx, rates); err != nil {
		s.logger.Warn("failed to write local rate snapshot", zap.Error(err))
	}

	if err := s.localFares.Replace(ctx, rates); err != nil {
		s.logger.Error("failed to replace local rates in remote store", zap.Error(err))
		return rates, domain.NewUnavailableError(
			fmt.Sprintf("rates for %s saved locally but the remote store is unreachable", s.serviceArea), err)
	}

	s.logger.Info("local rates replaced", zap.String("service_area", s.serviceArea))
	return rates, nil
}
