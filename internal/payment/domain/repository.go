package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	Save(ctx context.Context, payment *Payment) error
	// Find methods return (nil, nil) when no payment matches.
	FindByProviderPaymentID(ctx context.Context, providerPaymentID string) (*Payment, error)
	FindBySessionID(ctx context.Context, sessionID string) (*Payment, error)
	// FindActiveByReservation returns the non-terminal payment for the
	// reservation, if one exists.
	FindActiveByReservation(ctx context.Context, reservationID uuid.UUID) (*Payment, error)

	// InsertEvent records a webhook receipt; returns false when the event
	// identifier was already recorded.
	InsertEvent(ctx context.Context, event *EventRecord) (bool, error)
	MarkEventProcessed(ctx context.Context, id snowflake.ID, processedAt time.Time) error
}
