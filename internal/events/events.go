package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TopicBookingEvents is the topic carrying booking lifecycle events.
const TopicBookingEvents = "booking.events"

// BookingRequested is published after a booking has been durably saved.
const BookingRequested = "booking.requested"

// CloudEvent is the envelope all published events share.
type CloudEvent struct {
	ID     string          `json:"id"`
	Source string          `json:"source"`
	Type   string          `json:"type"`
	Time   time.Time       `json:"time"`
	Data   json.RawMessage `json:"data"`
}

// NewCloudEvent wraps a payload in an envelope.
func NewCloudEvent(source, eventType string, data interface{}) (CloudEvent, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return CloudEvent{}, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return CloudEvent{
		ID:     uuid.NewString(),
		Source: source,
		Type:   eventType,
		Time:   time.Now().UTC(),
		Data:   payload,
	}, nil
}

// ParseData unmarshals the envelope payload into v.
func (e CloudEvent) ParseData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// BookingRequestedEvent is the payload for BookingRequested.
type BookingRequestedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	PickupAddress string    `json:"pickup_address"`
	DropAddress   string    `json:"drop_address"`
	CarType       string    `json:"car_type"`
	TripType      string    `json:"trip_type"`
	TravelDate    string    `json:"travel_date"`
	TravelTime    string    `json:"travel_time"`
	DistanceKm    float64   `json:"distance_km"`
	RatePerKm     float64   `json:"rate_per_km"`
	FareTotal     int64     `json:"fare_total"`
	IsMinimumFare bool      `json:"is_minimum_fare"`
	OccurredAt    time.Time `json:"occurred_at"`
}
