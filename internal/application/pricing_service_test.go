package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/metro-cabs/service-booking/internal/domain"
	"github.com/metro-cabs/service-booking/internal/domain/pricing"
)

type fakeCityRepo struct {
	cities    []pricing.City
	listErr   error
	insertErr error
	deleteErr error
}

func (f *fakeCityRepo) List(ctx context.Context) ([]pricing.City, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]pricing.City, len(f.cities))
	copy(out, f.cities)
	return out, nil
}

func (f *fakeCityRepo) Insert(ctx context.Context, city *pricing.City) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.cities = append(f.cities, *city)
	return nil
}

func (f *fakeCityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, c := range f.cities {
		if c.ID == id {
			f.cities = append(f.cities[:i], f.cities[i+1:]...)
			return nil
		}
	}
	return domain.NewNotFoundError("city", id.String())
}

type fakeRouteRepo struct {
	routes    []pricing.Route
	listErr   error
	insertErr error
	updateErr error
	deleteErr error
}

func (f *fakeRouteRepo) List(ctx context.Context) ([]pricing.Route, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]pricing.Route, len(f.routes))
	copy(out, f.routes)
	return out, nil
}

func (f *fakeRouteRepo) Insert(ctx context.Context, route *pricing.Route) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.routes = append(f.routes, *route)
	return nil
}

func (f *fakeRouteRepo) UpdatePrices(ctx context.Context, id uuid.UUID, price4, price6 float64) (*pricing.Route, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i, r := range f.routes {
		if r.ID == id {
			f.routes[i].Price4Seater = price4
			f.routes[i].Price6Seater = price6
			updated := f.routes[i]
			return &updated, nil
		}
	}
	return nil, domain.NewNotFoundError("route", id.String())
}

func (f *fakeRouteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, r := range f.routes {
		if r.ID == id {
			f.routes = append(f.routes[:i], f.routes[i+1:]...)
			return nil
		}
	}
	return domain.NewNotFoundError("route", id.String())
}

type fakeLocalFareRepo struct {
	rates      *pricing.LocalFareRate
	findErr    error
	replaceErr error
}

func (f *fakeLocalFareRepo) FindByServiceArea(ctx context.Context, serviceArea string) (*pricing.LocalFareRate, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.rates == nil {
		return nil, domain.NewNotFoundError("local fare rate", serviceArea)
	}
	rates := *f.rates
	return &rates, nil
}

func (f *fakeLocalFareRepo) Replace(ctx context.Context, rates *pricing.LocalFareRate) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	r := *rates
	f.rates = &r
	return nil
}

type fakeRateCache struct {
	snapshot *pricing.LocalFareRate
	saveErr  error
	loadErr  error
	saves    int
}

func (f *fakeRateCache) SaveLocalRates(ctx context.Context, rates *pricing.LocalFareRate) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	r := *rates
	f.snapshot = &r
	f.saves++
	return nil
}

func (f *fakeRateCache) LoadLocalRates(ctx context.Context, serviceArea string) (*pricing.LocalFareRate, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.snapshot == nil {
		return nil, nil
	}
	r := *f.snapshot
	return &r, nil
}

func newTestPricingService(cities *fakeCityRepo, routes *fakeRouteRepo, fares *fakeLocalFareRepo, cache *fakeRateCache) *PricingService {
	return NewPricingService("Mumbai Local", cities, routes, fares, cache, zap.NewNop())
}

func mustRates(t *testing.T) *pricing.LocalFareRate {
	t.Helper()
	rates, err := pricing.NewLocalFareRate("Mumbai Local", 15, 18, 18, 22)
	require.NoError(t, err)
	return rates
}

func TestPricingServiceLoad(t *testing.T) {
	cities := &fakeCityRepo{}
	routes := &fakeRouteRepo{}
	fares := &fakeLocalFareRepo{rates: mustRates(t)}
	svc := newTestPricingService(cities, routes, fares, &fakeRateCache{})

	_, err := svc.AddCity(context.Background(), "Pune")
	require.NoError(t, err)

	require.NoError(t, svc.Load(context.Background()))

	cfg := svc.Config()
	require.Len(t, cfg.Cities, 1)
	require.NotNil(t, cfg.LocalRates)
	assert.Equal(t, float64(15), cfg.LocalRates.Normal4SeaterRatePerKm)
}

func TestPricingServiceLoad_MissingRateCardIsNotAnError(t *testing.T) {
	svc := newTestPricingService(&fakeCityRepo{}, &fakeRouteRepo{}, &fakeLocalFareRepo{}, &fakeRateCache{})

	require.NoError(t, svc.Load(context.Background()))
	assert.Nil(t, svc.Config().LocalRates)
}

func TestPricingServiceLoad_PartialFailureKeepsPreviousValue(t *testing.T) {
	cities := &fakeCityRepo{}
	routes := &fakeRouteRepo{}
	fares := &fakeLocalFareRepo{rates: mustRates(t)}
	svc := newTestPricingService(cities, routes, fares, &fakeRateCache{})

	_, err := svc.AddCity(context.Background(), "Pune")
	require.NoError(t, err)
	require.NoError(t, svc.Load(context.Background()))

	cities.listErr = errors.New("connection refused")
	err = svc.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.KindUnavailable, domain.KindOf(err))

	cfg := svc.Config()
	assert.Len(t, cfg.Cities, 1, "failed fetch must not wipe the previous slice")
	assert.NotNil(t, cfg.LocalRates, "independent fetches still apply")
}

func TestPricingServiceLoad_RatesFallBackToCacheSnapshot(t *testing.T) {
	cache := &fakeRateCache{snapshot: mustRates(t)}
	fares := &fakeLocalFareRepo{findErr: errors.New("connection refused")}
	svc := newTestPricingService(&fakeCityRepo{}, &fakeRouteRepo{}, fares, cache)

	require.NoError(t, svc.Load(context.Background()))

	cfg := svc.Config()
	require.NotNil(t, cfg.LocalRates)
	assert.Equal(t, float64(22), cfg.LocalRates.Airport6SeaterRatePerKm)
}

func TestPricingServiceLoad_RatesUnavailableWithoutSnapshot(t *testing.T) {
	fares := &fakeLocalFareRepo{findErr: errors.New("connection refused")}
	svc := newTestPricingService(&fakeCityRepo{}, &fakeRouteRepo{}, fares, &fakeRateCache{})

	err := svc.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.KindUnavailable, domain.KindOf(err))
	assert.Nil(t, svc.Config().LocalRates)
}

func TestAddCity(t *testing.T) {
	cities := &fakeCityRepo{}
	svc := newTestPricingService(cities, &fakeRouteRepo{}, &fakeLocalFareRepo{}, &fakeRateCache{})

	city, err := svc.AddCity(context.Background(), "Pune")
	require.NoError(t, err)
	assert.Equal(t, "Pune", city.Name)
	assert.Len(t, cities.cities, 1)
	cfg := svc.Config()
	assert.True(t, cfg.HasCity("pune"))
}

func TestAddCity_ConflictLeavesAggregateUntouched(t *testing.T) {
	cities := &fakeCityRepo{insertErr: domain.NewConflictError(`city "Pune" already exists`)}
	svc := newTestPricingService(cities, &fakeRouteRepo{}, &fakeLocalFareRepo{}, &fakeRateCache{})

	_, err := svc.AddCity(context.Background(), "Pune")
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Empty(t, svc.Config().Cities)
}

func TestAddCity_StoreFailureIsUnavailable(t *testing.T) {
	cities := &fakeCityRepo{insertErr: errors.New("connection refused")}
	svc := newTestPricingService(cities, &fakeRouteRepo{}, &fakeLocalFareRepo{}, &fakeRateCache{})

	_, err := svc.AddCity(context.Background(), "Pune")
	require.Error(t, err)
	assert.Equal(t, domain.KindUnavailable, domain.KindOf(err))
	assert.Empty(t, svc.Config().Cities)
}

func TestRemoveCity_NotFoundPassesThrough(t *testing.T) {
	svc := newTestPricingService(&fakeCityRepo{}, &fakeRouteRepo{}, &fakeLocalFareRepo{}, &fakeRateCache{})

	err := svc.RemoveCity(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestAddRoute(t *testing.T) {
	routes := &fakeRouteRepo{}
	svc := newTestPricingService(&fakeCityRepo{}, routes, &fakeLocalFareRepo{}, &fakeRateCache{})

	route, err := svc.AddRoute(context.Background(), "Mumbai", "Pune", 3000, 4200)
	require.NoError(t, err)
	assert.Len(t, routes.routes, 1)
	cfg := svc.Config()
	assert.True(t, cfg.HasRoutePair("Mumbai", "Pune"))
	assert.Equal(t, float64(3000), route.Price4Seater)
}

func TestAddRoute_ConflictLeavesAggregateUntouched(t *testing.T) {
	routes := &fakeRouteRepo{insertErr: domain.NewConflictError("route Mumbai -> Pune already exists")}
	svc := newTestPricingService(&fakeCityRepo{}, routes, &fakeLocalFareRepo{}, &fakeRateCache{})

	_, err := svc.AddRoute(context.Background(), "Mumbai", "Pune", 3000, 4200)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Empty(t, svc.Config().Routes)
}

func TestUpdateRoute_PreservesEndpoints(t *testing.T) {
	routes := &fakeRouteRepo{}
	svc := newTestPricingService(&fakeCityRepo{}, routes, &fakeLocalFareRepo{}, &fakeRateCache{})

	route, err := svc.AddRoute(context.Background(), "Mumbai", "Pune", 3000, 4200)
	require.NoError(t, err)

	updated, err := svc.UpdateRoute(context.Background(), route.ID, 3500, 4800)
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", updated.FromCity)
	assert.Equal(t, "Pune", updated.ToCity)
	assert.Equal(t, float64(3500), updated.Price4Seater)

	cfg := svc.Config()
	require.Len(t, cfg.Routes, 1)
	assert.Equal(t, float64(4800), cfg.Routes[0].Price6Seater)
}

func TestUpdateRoute_RejectsNonPositivePrices(t *testing.T) {
	svc := newTestPricingService(&fakeCityRepo{}, &fakeRouteRepo{}, &fakeLocalFareRepo{}, &fakeRateCache{})

	_, err := svc.UpdateRoute(context.Background(), uuid.New(), 0, 4200)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestDeleteRoute(t *testing.T) {
	routes := &fakeRouteRepo{}
	svc := newTestPricingService(&fakeCityRepo{}, routes, &fakeLocalFareRepo{}, &fakeRateCache{})

	route, err := svc.AddRoute(context.Background(), "Mumbai", "Pune", 3000, 4200)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRoute(context.Background(), route.ID))
	assert.Empty(t, routes.routes)
	assert.Empty(t, svc.Config().Routes)
}

func TestReplaceLocalRates(t *testing.T) {
	fares := &fakeLocalFareRepo{}
	cache := &fakeRateCache{}
	svc := newTestPricingService(&fakeCityRepo{}, &fakeRouteRepo{}, fares, cache)

	rates, err := svc.ReplaceLocalRates(context.Background(), 15, 18, 18, 22)
	require.NoError(t, err)
	assert.Equal(t, "Mumbai Local", rates.ServiceArea)

	require.NotNil(t, fares.rates)
	require.NotNil(t, cache.snapshot)
	require.NotNil(t, svc.Config().LocalRates)
	assert.Equal(t, float64(18), svc.Config().LocalRates.Airport4SeaterRatePerKm)
}

func TestReplaceLocalRates_RemoteFailureStillAppliesLocally(t *testing.T) {
	fares := &fakeLocalFareRepo{replaceErr: errors.New("connection refused")}
	cache := &fakeRateCache{}
	svc := newTestPricingService(&fakeCityRepo{}, &fakeRouteRepo{}, fares, cache)

	rates, err := svc.ReplaceLocalRates(context.Background(), 15, 18, 18, 22)
	require.Error(t, err)
	assert.Equal(t, domain.KindUnavailable, domain.KindOf(err))
	require.NotNil(t, rates, "new card is returned even when the remote write fails")

	cfg := svc.Config()
	require.NotNil(t, cfg.LocalRates, "aggregate carries the new card")
	assert.Equal(t, float64(22), cfg.LocalRates.Airport6SeaterRatePerKm)
	assert.NotNil(t, cache.snapshot, "snapshot is written before the remote store")
}

func TestReplaceLocalRates_InvalidRates(t *testing.T) {
	cache := &fakeRateCache{}
	svc := newTestPricingService(&fakeCityRepo{}, &fakeRouteRepo{}, &fakeLocalFareRepo{}, cache)

	_, err := svc.ReplaceLocalRates(context.Background(), -1, 18, 18, 22)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Zero(t, cache.saves)
	assert.Nil(t, svc.Config().LocalRates)
}
