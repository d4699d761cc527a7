package domain

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// FindByID returns (nil, nil) when no reservation exists.
	FindByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	Save(ctx context.Context, reservation *Reservation) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status ReservationStatus) error
}
