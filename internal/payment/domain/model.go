package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Terminal reports whether no further transition is defined for the status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

const (
	MethodCheckout = "CHECKOUT"
	MethodDirect   = "DIRECT"
)

// Payment records one attempt to collect money for a reservation. Rows are
// never deleted, only transitioned; terminal states absorb.
type Payment struct {
	ID                uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	ReservationID     uuid.UUID       `json:"reservation_id" gorm:"type:uuid;not null;index"`
	Status            Status          `json:"status" gorm:"type:text;not null"`
	Amount            decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Method            string          `json:"method" gorm:"type:text;not null"`
	ProviderPaymentID *string         `json:"provider_payment_id,omitempty" gorm:"type:text;uniqueIndex"`
	ProviderSessionID *string         `json:"provider_session_id,omitempty" gorm:"type:text;uniqueIndex"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

// Provider webhook event types this service reacts to. Unknown types are
// acknowledged and ignored.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventPaymentSucceeded  = "payment_intent.succeeded"
	EventPaymentFailed     = "payment_intent.payment_failed"
	EventCheckoutExpired   = "checkout.session.expired"
)

// WebhookEvent is the verified envelope of an inbound provider event.
type WebhookEvent struct {
	ID       string
	Type     string
	ObjectID string
	Raw      []byte
}

// EventRecord is the persisted receipt of a processed webhook delivery,
// kept for audit alongside the redis receipt marker.
type EventRecord struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey"`
	ProviderEventID string       `json:"provider_event_id" gorm:"type:text;not null;uniqueIndex"`
	EventType       string       `json:"event_type" gorm:"type:text;not null"`
	ReceivedAt      time.Time    `json:"received_at" gorm:"not null"`
	ProcessedAt     *time.Time   `json:"processed_at"`
}

func (EventRecord) TableName() string { return "webhook_events" }
