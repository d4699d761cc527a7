package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrRoomNotFound = errors.New("room_not_found")
	ErrRoomInUse    = errors.New("room_in_use")
	ErrInvalidStay  = errors.New("invalid_stay")
)

type RoomType struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Name          string          `json:"name" gorm:"type:text;not null"`
	PricePerNight decimal.Decimal `json:"price_per_night" gorm:"type:decimal(10,2);not null"`
}

func (RoomType) TableName() string { return "room_types" }

type Room struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RoomNumber string    `json:"room_number" gorm:"type:text;not null;uniqueIndex"`
	TypeID     uuid.UUID `json:"type_id" gorm:"type:uuid;not null;index"`
	Type       RoomType  `json:"type" gorm:"foreignKey:TypeID"`
	StatusName string    `json:"status_name" gorm:"type:text;not null;default:Available"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Room) TableName() string { return "rooms" }

// occupiedStatuses are operational states that block deletion.
var occupiedStatuses = map[string]bool{
	"occupied": true,
	"reserved": true,
	"booked":   true,
}

func (r *Room) InUse() bool {
	return occupiedStatuses[strings.ToLower(strings.TrimSpace(r.StatusName))]
}
