package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/metro-cabs/service-booking/internal/domain/booking"
	"github.com/metro-cabs/service-booking/internal/domain/fare"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BookingNumber string          `gorm:"uniqueIndex;not null;size:20"`
	TripDetails   json.RawMessage `gorm:"type:jsonb;not null"`
	DistanceKm    float64         `gorm:"not null"`
	RatePerKm     float64         `gorm:"not null"`
	FareTotal     int64           `gorm:"not null"`
	IsMinimumFare bool            `gorm:"not null"`
	Status        string          `gorm:"not null;size:30;index"`
	CreatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of the booking
// Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// ListAll retrieves all bookings, newest first, with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	detailsJSON, err := json.Marshal(bk.Details())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trip details: %w", err)
	}
	q := bk.Quote()
	return &BookingModel{
		ID:            bk.ID(),
		BookingNumber: bk.BookingNumber(),
		TripDetails:   detailsJSON,
		DistanceKm:    bk.DistanceKm(),
		RatePerKm:     q.RatePerKm,
		FareTotal:     q.Total,
		IsMinimumFare: q.IsMinimumFare,
		Status:        bk.Status(),
		CreatedAt:     bk.CreatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var details bookingDomain.TripDetails
	if err := json.Unmarshal(m.TripDetails, &details); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trip details: %w", err)
	}
	quote := fare.Quote{
		RatePerKm:     m.RatePerKm,
		Total:         m.FareTotal,
		IsMinimumFare: m.IsMinimumFare,
	}
	return bookingDomain.ReconstructBooking(
		m.ID,
		m.BookingNumber,
		details,
		m.DistanceKm,
		quote,
		m.Status,
		m.CreatedAt,
	), nil
}
