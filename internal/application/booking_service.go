package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/metro-cabs/service-booking/internal/domain"
	bookingDomain "github.com/metro-cabs/service-booking/internal/domain/booking"
	"github.com/metro-cabs/service-booking/internal/domain/fare"
	"github.com/metro-cabs/service-booking/internal/domain/geo"
	"github.com/metro-cabs/service-booking/internal/events"
)

// DistanceEstimator is the live routing/distance provider. A nil estimator
// or any error it returns routes the request to the geometric fallback.
type DistanceEstimator interface {
	Estimate(ctx context.Context, origin, destination geo.Point) (geo.Estimate, error)
}

// Publisher is the outbound event edge.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, event events.CloudEvent) error
}

// EstimateRequest holds the inputs for a fare estimate.
type EstimateRequest struct {
	Pickup   geo.Point `json:"pickup" binding:"required"`
	Drop     geo.Point `json:"drop" binding:"required"`
	CarType  string    `json:"car_type" binding:"required"`
	TripType string    `json:"trip_type" binding:"required"`
}

// EstimateResult is the fare estimate response. Quote is nil while the
// rate card has not been loaded or the distance is zero ("not ready").
type EstimateResult struct {
	DistanceKm  float64     `json:"distance_km"`
	DurationMin float64     `json:"duration_min"`
	Source      string      `json:"source"`
	Quote       *fare.Quote `json:"quote,omitempty"`
}

// CreateBookingRequest holds the booking form submission.
type CreateBookingRequest struct {
	CustomerName  string    `json:"customer_name" binding:"required"`
	CustomerPhone string    `json:"customer_phone" binding:"required"`
	CustomerEmail string    `json:"customer_email"`
	PickupAddress string    `json:"pickup_address" binding:"required"`
	DropAddress   string    `json:"drop_address" binding:"required"`
	Pickup        geo.Point `json:"pickup" binding:"required"`
	Drop          geo.Point `json:"drop" binding:"required"`
	CarType       string    `json:"car_type" binding:"required"`
	TripType      string    `json:"trip_type" binding:"required"`
	TravelDate    string    `json:"travel_date" binding:"required"`
	TravelTime    string    `json:"travel_time" binding:"required"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID            uuid.UUID                 `json:"id"`
	BookingNumber string                    `json:"booking_number"`
	Details       bookingDomain.TripDetails `json:"details"`
	DistanceKm    float64                   `json:"distance_km"`
	Quote         fare.Quote                `json:"quote"`
	Status        string                    `json:"status"`
	CreatedAt     time.Time                 `json:"created_at"`
}

// CreateBookingResult carries the saved booking plus the messaging
// hand-off link.
type CreateBookingResult struct {
	Booking     BookingDTO `json:"booking"`
	WhatsAppURL string     `json:"whatsapp_url"`
}

// BookingService prices and records customer booking requests.
type BookingService struct {
	repo           bookingDomain.Repository
	pricing        *PricingService
	distance       DistanceEstimator
	producer       Publisher
	whatsAppNumber string
	logger         *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.Repository,
	pricing *PricingService,
	distance DistanceEstimator,
	producer Publisher,
	whatsAppNumber string,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:           repo,
		pricing:        pricing,
		distance:       distance,
		producer:       producer,
		whatsAppNumber: whatsAppNumber,
		logger:         logger,
	}
}

// EstimateDistance resolves a trip distance. The live provider is tried
// first; any failure falls back to the great-circle computation. The
// fallback is never surfaced to the caller as an error.
func (s *BookingService) EstimateDistance(ctx context.Context, origin, destination geo.Point) geo.Estimate {
	if s.distance != nil {
		est, err := s.distance.Estimate(ctx, origin, destination)
		if err == nil {
			return est
		}
		s.logger.Warn("distance service failed, using haversine fallback", zap.Error(err))
	}
	return geo.FallbackEstimate(origin, destination)
}

// EstimateTrip computes a fare estimate for the given trip parameters.
func (s *BookingService) EstimateTrip(ctx context.Context, req EstimateRequest) (*EstimateResult, error) {
	carType, err := fare.ParseCarType(req.CarType)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	tripType, err := fare.ParseTripType(req.TripType)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	est := s.EstimateDistance(ctx, req.Pickup, req.Drop)
	result := &EstimateResult{
		DistanceKm:  est.DistanceKm,
		DurationMin: est.DurationMin,
		Source:      est.Source,
	}

	rates := s.pricing.Config().LocalRates
	if quote, ok := fare.Compute(est.DistanceKm, carType, tripType, rates); ok {
		result.Quote = &quote
	}
	return result, nil
}

// CreateBooking validates, prices and durably records a booking, then
// returns the WhatsApp hand-off link. A persist failure blocks the
// hand-off: an unpersisted booking is never handed to the messaging
// channel.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error) {
	details := bookingDomain.TripDetails{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		PickupAddress: req.PickupAddress,
		DropAddress:   req.DropAddress,
		Pickup:        req.Pickup,
		Drop:          req.Drop,
		CarType:       fare.CarType(req.CarType),
		TripType:      fare.TripType(req.TripType),
		TravelDate:    req.TravelDate,
		TravelTime:    req.TravelTime,
	}
	if err := bookingDomain.ValidateDetails(details); err != nil {
		return nil, err
	}

	est := s.EstimateDistance(ctx, req.Pickup, req.Drop)
	if est.DistanceKm <= 0 {
		return nil, domain.NewValidationError("pickup and drop locations are too close to price")
	}

	rates := s.pricing.Config().LocalRates
	quote, ok := fare.Compute(est.DistanceKm, details.CarType, details.TripType, rates)
	if !ok {
		return nil, domain.NewUnavailableError("fare rates are not loaded yet", nil)
	}

	bk, err := bookingDomain.NewBooking(details, est.DistanceKm, quote)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		s.logger.Error("failed to persist booking",
			zap.String("booking_number", bk.BookingNumber()), zap.Error(err))
		return nil, domain.NewUnavailableError("failed to save booking", err)
	}

	s.publishBookingRequested(ctx, bk)

	return &CreateBookingResult{
		Booking:     toBookingDTO(bk),
		WhatsAppURL: bookingDomain.WhatsAppURL(s.whatsAppNumber, bk),
	}, nil
}

// ListBookings retrieves all bookings for the back-office view.
func (s *BookingService) ListBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("failed to list bookings", zap.Error(err))
		return nil, 0, domain.NewUnavailableError("failed to list bookings", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// publishBookingRequested emits the hand-off event. Publish failures are
// logged and swallowed: the booking is already durable and the customer
// already has the hand-off link.
func (s *BookingService) publishBookingRequested(ctx context.Context, bk *bookingDomain.Booking) {
	if s.producer == nil {
		return
	}
	d := bk.Details()
	q := bk.Quote()
	payload := events.BookingRequestedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		CustomerName:  d.CustomerName,
		CustomerPhone: d.CustomerPhone,
		PickupAddress: d.PickupAddress,
		DropAddress:   d.DropAddress,
		CarType:       string(d.CarType),
		TripType:      string(d.TripType),
		TravelDate:    d.TravelDate,
		TravelTime:    d.TravelTime,
		DistanceKm:    bk.DistanceKm(),
		RatePerKm:     q.RatePerKm,
		FareTotal:     q.Total,
		IsMinimumFare: q.IsMinimumFare,
		OccurredAt:    time.Now().UTC(),
	}

	evt, err := events.NewCloudEvent("service-booking", events.BookingRequested, payload)
	if err != nil {
		s.logger.Error("failed to build booking.requested event", zap.Error(err))
		return
	}
	if err := s.producer.Publish(ctx, events.TopicBookingEvents, bk.ID().String(), evt); err != nil {
		s.logger.Error("failed to publish booking.requested event",
			zap.String("booking_number", bk.BookingNumber()), zap.Error(err))
	}
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:            bk.ID(),
		BookingNumber: bk.BookingNumber(),
		Details:       bk.Details(),
		DistanceKm:    bk.DistanceKm(),
		Quote:         bk.Quote(),
		Status:        bk.Status(),
		CreatedAt:     bk.CreatedAt(),
	}
}
