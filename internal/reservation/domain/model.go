package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

type Guest struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FullName string    `json:"full_name" gorm:"type:text;not null"`
	Email    string    `json:"email" gorm:"type:text;not null"`
}

func (Guest) TableName() string { return "guests" }

// Reservation is owned by the booking subsystem; this service reads it and
// advances PENDING -> CONFIRMED as a side effect of successful payment.
type Reservation struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	GuestID     uuid.UUID         `json:"guest_id" gorm:"type:uuid;not null;index"`
	Guest       Guest             `json:"guest" gorm:"foreignKey:GuestID"`
	CheckIn     time.Time         `json:"check_in" gorm:"not null"`
	CheckOut    time.Time         `json:"check_out" gorm:"not null"`
	TotalAmount decimal.Decimal   `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Status      ReservationStatus `json:"status" gorm:"type:text;not null"`
	Rooms       []ReservationRoom `json:"rooms" gorm:"foreignKey:ReservationID"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (Reservation) TableName() string { return "reservations" }

// ReservationRoom associates a reservation with one of its rooms. The stay
// interval lives on the reservation; the pair forms the room-stay interval
// used for conflict detection.
type ReservationRoom struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReservationID uuid.UUID `json:"reservation_id" gorm:"type:uuid;not null;index"`
	RoomID        uuid.UUID `json:"room_id" gorm:"type:uuid;not null;index"`
}

func (ReservationRoom) TableName() string { return "reservation_rooms" }

// Nights returns the billable night count, floored at one so a degenerate
// same-day stay still bills a single night.
func (r *Reservation) Nights() int64 {
	nights := int64(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	return nights
}
