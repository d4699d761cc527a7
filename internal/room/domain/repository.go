package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// FindByID returns (nil, nil) when no room exists.
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)
	FindAll(ctx context.Context) ([]Room, error)
	// HasConflictingStay reports whether any non-cancelled reservation for
	// the room overlaps [checkIn, checkOut) under half-open semantics.
	HasConflictingStay(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error)
	Delete(ctx context.Context, room *Room) error
}
