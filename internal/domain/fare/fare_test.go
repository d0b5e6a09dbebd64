package fare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metro-cabs/service-booking/internal/domain/pricing"
)

func testRates(t *testing.T) *pricing.LocalFareRate {
	t.Helper()
	rates, err := pricing.NewLocalFareRate("Mumbai Local", 15, 18, 18, 22)
	require.NoError(t, err)
	return rates
}

func TestRatePerKm_AllCombinations(t *testing.T) {
	rates := testRates(t)

	tests := []struct {
		name string
		car  CarType
		trip TripType
		want float64
	}{
		{"normal 4-seater", CarFourSeater, TripNormal, 15},
		{"normal 6-seater", CarSixSeater, TripNormal, 18},
		{"airport 4-seater", CarFourSeater, TripAirport, 18},
		{"airport 6-seater", CarSixSeater, TripAirport, 22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RatePerKm(rates, tt.car, tt.trip)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRatePerKm_NilRates(t *testing.T) {
	_, ok := RatePerKm(nil, CarFourSeater, TripNormal)
	assert.False(t, ok)
}

func TestCompute_WorkedExamples(t *testing.T) {
	rates := testRates(t)

	normal, ok := Compute(40, CarFourSeater, TripNormal, rates)
	require.True(t, ok)
	assert.Equal(t, float64(15), normal.RatePerKm)
	assert.Equal(t, int64(600), normal.Total)
	assert.False(t, normal.IsMinimumFare)

	airport, ok := Compute(40, CarFourSeater, TripAirport, rates)
	require.True(t, ok)
	assert.Equal(t, float64(18), airport.RatePerKm)
	assert.Equal(t, int64(720), airport.Total)
	assert.False(t, airport.IsMinimumFare)
}

func TestCompute_MinimumFareClamp(t *testing.T) {
	rates := testRates(t)

	// 2 km x 15 = 30, below the floor.
	q, ok := Compute(2, CarFourSeater, TripNormal, rates)
	require.True(t, ok)
	assert.Equal(t, MinimumFare, q.Total)
	assert.True(t, q.IsMinimumFare)
	assert.Equal(t, float64(15), q.RatePerKm)
}

func TestCompute_FloorBoundary(t *testing.T) {
	rates := testRates(t)

	// Exactly 100 is not a minimum-fare trip.
	q, ok := Compute(100.0/15.0, CarFourSeater, TripNormal, rates)
	require.True(t, ok)
	assert.Equal(t, int64(100), q.Total)
	assert.False(t, q.IsMinimumFare)
}

func TestCompute_RoundsTotal(t *testing.T) {
	rates := testRates(t)

	// 10.03 km x 15 = 150.45 -> 150
	q, ok := Compute(10.03, CarFourSeater, TripNormal, rates)
	require.True(t, ok)
	assert.Equal(t, int64(150), q.Total)

	// 10.05 km x 15 = 150.75 -> 151
	q, ok = Compute(10.05, CarFourSeater, TripNormal, rates)
	require.True(t, ok)
	assert.Equal(t, int64(151), q.Total)
}

func TestCompute_NotReady(t *testing.T) {
	rates := testRates(t)

	_, ok := Compute(0, CarFourSeater, TripNormal, rates)
	assert.False(t, ok, "zero distance must be treated as not ready")

	_, ok = Compute(-3, CarFourSeater, TripNormal, rates)
	assert.False(t, ok)

	_, ok = Compute(40, CarFourSeater, TripNormal, nil)
	assert.False(t, ok, "missing rates must be treated as not ready")
}

func TestParseCarType(t *testing.T) {
	car, err := ParseCarType("4-seater")
	require.NoError(t, err)
	assert.Equal(t, CarFourSeater, car)

	_, err = ParseCarType("8-seater")
	assert.Error(t, err)
}

func TestParseTripType(t *testing.T) {
	trip, err := ParseTripType("airport")
	require.NoError(t, err)
	assert.Equal(t, TripAirport, trip)

	_, err = ParseTripType("outstation")
	assert.Error(t, err)
}
