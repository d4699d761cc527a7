package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stayware/stayflow/internal/reservation/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	var item domain.Reservation
	err := r.db.WithContext(ctx).
		Preload("Guest").
		Preload("Rooms").
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repo) Save(ctx context.Context, reservation *domain.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

func (r *repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReservationStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("id = ?", id).
		Update("status", status).Error
}
