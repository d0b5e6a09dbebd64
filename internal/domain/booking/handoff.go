package booking

import (
	"fmt"
	"net/url"
	"strings"
)

// HandoffMessage renders the plain-text message sent over the messaging
// channel. Literal field labels, not a machine-parseable contract.
func HandoffMessage(b *Booking) string {
	d := b.Details()
	var sb strings.Builder
	sb.WriteString("New Taxi Booking\n")
	fmt.Fprintf(&sb, "Booking No: %s\n", b.BookingNumber())
	fmt.Fprintf(&sb, "Name: %s\n", d.CustomerName)
	fmt.Fprintf(&sb, "Phone: %s\n", d.CustomerPhone)
	if d.CustomerEmail != "" {
		fmt.Fprintf(&sb, "Email: %s\n", d.CustomerEmail)
	}
	fmt.Fprintf(&sb, "Pickup: %s\n", d.PickupAddress)
	fmt.Fprintf(&sb, "Drop: %s\n", d.DropAddress)
	fmt.Fprintf(&sb, "Car: %s\n", d.CarType)
	fmt.Fprintf(&sb, "Trip: %s\n", d.TripType)
	fmt.Fprintf(&sb, "Date: %s\n", d.TravelDate)
	fmt.Fprintf(&sb, "Time: %s\n", d.TravelTime)
	fmt.Fprintf(&sb, "Distance: %.2f km\n", b.DistanceKm())
	q := b.Quote()
	if q.IsMinimumFare {
		fmt.Fprintf(&sb, "Estimated Fare: %d (minimum fare)", q.Total)
	} else {
		fmt.Fprintf(&sb, "Estimated Fare: %d", q.Total)
	}
	return sb.String()
}

// WhatsAppURL builds the wa.me deep link that hands the booking off to the
// operator's WhatsApp number.
func WhatsAppURL(operatorNumber string, b *Booking) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s",
		operatorNumber, url.QueryEscape(HandoffMessage(b)))
}
