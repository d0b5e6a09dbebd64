package booking

import "context"

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// ListAll retrieves all bookings, newest first, with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)
}
