// Package fare holds the pure fare arithmetic: a 2x2 per-km rate lookup
// and a rounded total with a fixed minimum-fare floor. Nothing here touches
// the network or retains state between calls.
package fare

import (
	"fmt"
	"math"

	"github.com/metro-cabs/service-booking/internal/domain/pricing"
)

// CarType selects the vehicle column of the rate card.
type CarType string

// TripType selects the trip row of the rate card.
type TripType string

const (
	CarFourSeater CarType = "4-seater"
	CarSixSeater  CarType = "6-seater"

	TripNormal  TripType = "normal"
	TripAirport TripType = "airport"
)

// MinimumFare is the floor below which no computed fare is charged.
// Currency minor units are out of scope; the floor is a plain number.
const MinimumFare int64 = 100

// ParseCarType converts a string to a CarType.
func ParseCarType(s string) (CarType, error) {
	switch CarType(s) {
	case CarFourSeater, CarSixSeater:
		return CarType(s), nil
	}
	return "", fmt.Errorf("invalid car type: %q", s)
}

// ParseTripType converts a string to a TripType.
func ParseTripType(s string) (TripType, error) {
	switch TripType(s) {
	case TripNormal, TripAirport:
		return TripType(s), nil
	}
	return "", fmt.Errorf("invalid trip type: %q", s)
}

// Quote is the fare breakdown: the per-km rate that was applied, the
// rounded total and whether the minimum-fare floor kicked in.
type Quote struct {
	RatePerKm     float64 `json:"rate_per_km"`
	Total         int64   `json:"total"`
	IsMinimumFare bool    `json:"is_minimum_fare"`
}

// RatePerKm picks one of the four per-km rates by (trip, car). The second
// return is false when rates are absent or the combination is unknown.
func RatePerKm(rates *pricing.LocalFareRate, car CarType, trip TripType) (float64, bool) {
	if rates == nil {
		return 0, false
	}
	switch {
	case trip == TripNormal && car == CarFourSeater:
		return rates.Normal4SeaterRatePerKm, true
	case trip == TripNormal && car == CarSixSeater:
		return rates.Normal6SeaterRatePerKm, true
	case trip == TripAirport && car == CarFourSeater:
		return rates.Airport4SeaterRatePerKm, true
	case trip == TripAirport && car == CarSixSeater:
		return rates.Airport6SeaterRatePerKm, true
	}
	return 0, false
}

// Compute prices a trip. The second return is false when the inputs are not
// ready (zero distance or rates not yet loaded); callers must treat that as
// "not ready", not as an error.
func Compute(distanceKm float64, car CarType, trip TripType, rates *pricing.LocalFareRate) (Quote, bool) {
	if distanceKm <= 0 {
		return Quote{}, false
	}
	rate, ok := RatePerKm(rates, car, trip)
	if !ok {
		return Quote{}, false
	}

	total := int64(math.Round(distanceKm * rate))
	q := Quote{RatePerKm: rate, Total: total}
	if total < MinimumFare {
		q.Total = MinimumFare
		q.IsMinimumFare = true
	}
	return q, true
}
