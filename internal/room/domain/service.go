package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AvailabilityRequest struct {
	RoomIDs  []uuid.UUID `json:"room_ids"`
	CheckIn  time.Time   `json:"check_in"`
	CheckOut time.Time   `json:"check_out"`
}

type RoomAvailability struct {
	RoomID        uuid.UUID       `json:"room_id"`
	RoomNumber    string          `json:"room_number"`
	Available     bool            `json:"available"`
	TypeName      string          `json:"type_name"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
}

type AvailabilityResponse struct {
	AllAvailable   bool               `json:"all_available"`
	Rooms          []RoomAvailability `json:"rooms"`
	CheckIn        time.Time          `json:"check_in"`
	CheckOut       time.Time          `json:"check_out"`
	Nights         int64              `json:"nights"`
	EstimatedTotal decimal.Decimal    `json:"estimated_total"`
}

type Service interface {
	// CheckAvailability evaluates the requested rooms (or every room when
	// none are given) against existing stays for the date range.
	CheckAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResponse, error)
	AvailableRooms(ctx context.Context, checkIn, checkOut time.Time) ([]Room, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error
}
