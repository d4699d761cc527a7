package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	reservationdomain "github.com/stayware/stayflow/internal/reservation/domain"
	"github.com/stayware/stayflow/internal/room/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	var item domain.Room
	err := r.db.WithContext(ctx).
		Preload("Type").
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repo) FindAll(ctx context.Context) ([]domain.Room, error) {
	var items []domain.Room
	err := r.db.WithContext(ctx).
		Preload("Type").
		Order("room_number").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) HasConflictingStay(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("reservation_rooms").
		Joins("JOIN reservations ON reservations.id = reservation_rooms.reservation_id").
		Where("reservation_rooms.room_id = ?", roomID).
		Where("reservations.status <> ?", reservationdomain.StatusCancelled).
		Where("reservations.check_in < ? AND reservations.check_out > ?", checkOut, checkIn).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) Delete(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Delete(room).Error
}
