package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/stayware/stayflow/internal/payment/domain"
	"github.com/stayware/stayflow/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, payment *domain.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrDuplicateProviderRef
		}
		return err
	}
	return nil
}

func (r *repo) Save(ctx context.Context, payment *domain.Payment) error {
	if err := r.db.WithContext(ctx).Save(payment).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrDuplicateProviderRef
		}
		return err
	}
	return nil
}

func (r *repo) FindByProviderPaymentID(ctx context.Context, providerPaymentID string) (*domain.Payment, error) {
	return r.findOne(ctx, "provider_payment_id = ?", providerPaymentID)
}

func (r *repo) FindBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	return r.findOne(ctx, "provider_session_id = ?", sessionID)
}

func (r *repo) FindActiveByReservation(ctx context.Context, reservationID uuid.UUID) (*domain.Payment, error) {
	return r.findOne(ctx, "reservation_id = ? AND status = ?", reservationID, domain.StatusPending)
}

func (r *repo) findOne(ctx context.Context, query string, args ...interface{}) (*domain.Payment, error) {
	var item domain.Payment
	err := r.db.WithContext(ctx).First(&item, append([]interface{}{query}, args...)...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repo) InsertEvent(ctx context.Context, event *domain.EventRecord) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider_event_id"}},
			DoNothing: true,
		}).
		Create(event)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) MarkEventProcessed(ctx context.Context, id snowflake.ID, processedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.EventRecord{}).
		Where("id = ?", id).
		Update("processed_at", processedAt).Error
}
