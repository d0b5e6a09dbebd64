package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/metro-cabs/service-booking/internal/domain"
	"github.com/metro-cabs/service-booking/internal/domain/fare"
	"github.com/metro-cabs/service-booking/internal/domain/geo"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// StatusRequested is the only lifecycle state a booking takes in this
// service: it is created, priced, handed off and never mutated again.
const StatusRequested = "requested"

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// TripDetails carries the validated customer input a booking is built from.
type TripDetails struct {
	CustomerName  string        `json:"customer_name"`
	CustomerPhone string        `json:"customer_phone"`
	CustomerEmail string        `json:"customer_email,omitempty"`
	PickupAddress string        `json:"pickup_address"`
	DropAddress   string        `json:"drop_address"`
	Pickup        geo.Point     `json:"pickup"`
	Drop          geo.Point     `json:"drop"`
	CarType       fare.CarType  `json:"car_type"`
	TripType      fare.TripType `json:"trip_type"`
	TravelDate    string        `json:"travel_date"`
	TravelTime    string        `json:"travel_time"`
}

// Booking is the aggregate root for a priced customer booking request.
// Immutable after creation.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	details       TripDetails
	distanceKm    float64
	quote         fare.Quote
	status        string
	createdAt     time.Time
}

// generateBookingNumber creates a booking number in the format "TB-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "TB-" + string(result), nil
}

// ValidateDetails checks the customer input without constructing anything,
// so callers can reject a submission before pricing it.
func ValidateDetails(d TripDetails) error {
	if strings.TrimSpace(d.CustomerName) == "" {
		return domain.NewValidationError("customer name is required")
	}
	if !phonePattern.MatchString(d.CustomerPhone) {
		return domain.NewValidationError("phone number must be exactly 10 digits")
	}
	if d.CustomerEmail != "" {
		if _, err := mail.ParseAddress(d.CustomerEmail); err != nil {
			return domain.NewValidationError("email address is malformed")
		}
	}
	if strings.TrimSpace(d.PickupAddress) == "" {
		return domain.NewValidationError("pickup address is required")
	}
	if strings.TrimSpace(d.DropAddress) == "" {
		return domain.NewValidationError("drop address is required")
	}
	if d.TravelDate == "" || d.TravelTime == "" {
		return domain.NewValidationError("travel date and time are required")
	}
	if _, err := fare.ParseCarType(string(d.CarType)); err != nil {
		return domain.NewValidationError(err.Error())
	}
	if _, err := fare.ParseTripType(string(d.TripType)); err != nil {
		return domain.NewValidationError(err.Error())
	}
	return nil
}

// NewBooking validates the details and builds a priced booking with
// status=requested.
func NewBooking(details TripDetails, distanceKm float64, quote fare.Quote) (*Booking, error) {
	if err := ValidateDetails(details); err != nil {
		return nil, err
	}
	if distanceKm <= 0 {
		return nil, domain.NewValidationError("trip distance must be positive")
	}

	number, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	return &Booking{
		id:            uuid.New(),
		bookingNumber: number,
		details:       details,
		distanceKm:    distanceKm,
		quote:         quote,
		status:        StatusRequested,
		createdAt:     time.Now().UTC(),
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	details TripDetails,
	distanceKm float64,
	quote fare.Quote,
	status string,
	createdAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		bookingNumber: bookingNumber,
		details:       details,
		distanceKm:    distanceKm,
		quote:         quote,
		status:        status,
		createdAt:     createdAt,
	}
}

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// Details returns the customer trip details.
func (b *Booking) Details() TripDetails { return b.details }

// DistanceKm returns the estimated trip distance.
func (b *Booking) DistanceKm() float64 { return b.distanceKm }

// Quote returns the fare breakdown this booking was priced with.
func (b *Booking) Quote() fare.Quote { return b.quote }

// Status returns the booking status.
func (b *Booking) Status() string { return b.status }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
