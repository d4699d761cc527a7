package notifier

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingConfirmation carries everything the guest-facing confirmation
// message needs. It is assembled after the reservation is confirmed.
type BookingConfirmation struct {
	GuestEmail    string
	GuestName     string
	ReservationID uuid.UUID
	RoomSummary   string
	CheckIn       time.Time
	CheckOut      time.Time
	Total         decimal.Decimal
}

// Notifier delivers guest notifications. Delivery failures never roll back
// the state transition that triggered them; callers log and move on.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, confirmation BookingConfirmation) error
}
