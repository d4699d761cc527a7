package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stayware/stayflow/internal/clock"
	"github.com/stayware/stayflow/internal/config"
	"github.com/stayware/stayflow/internal/notifier"
	"github.com/stayware/stayflow/internal/payment/domain"
	"github.com/stayware/stayflow/internal/retry"
	reservationdomain "github.com/stayware/stayflow/internal/reservation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log          *zap.Logger
	Cfg          config.Config
	Clock        clock.Clock
	Repo         domain.Repository
	Reservations reservationdomain.Repository
	Provider     domain.Provider
	Retry        *retry.Executor
	Notifier     notifier.Notifier
}

type service struct {
	log          *zap.Logger
	cfg          config.Config
	clock        clock.Clock
	repo         domain.Repository
	reservations reservationdomain.Repository
	provider     domain.Provider
	retry        *retry.Executor
	notifier     notifier.Notifier
}

func NewService(p Params) domain.Service {
	return &service{
		log:          p.Log.Named("payment.service"),
		cfg:          p.Cfg,
		clock:        p.Clock,
		repo:         p.Repo,
		reservations: p.Reservations,
		provider:     p.Provider,
		retry:        p.Retry,
		notifier:     p.Notifier,
	}
}

func (s *service) CreateCheckout(ctx context.Context, req domain.CheckoutRequest) (*domain.CheckoutResponse, error) {
	reservation, amountMinor, err := s.prepare(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}

	session, err := retry.Do(ctx, s.retry, func(ctx context.Context) (*domain.CheckoutSession, error) {
		return s.provider.CreateCheckoutSession(ctx, domain.CheckoutSessionParams{
			AmountMinor: amountMinor,
			Currency:    s.cfg.Stripe.Currency,
			SuccessURL:  req.SuccessURL,
			CancelURL:   req.CancelURL,
			ProductName: fmt.Sprintf("Reservation %s", reservation.ID),
			Description: stayDescription(reservation),
			Metadata: map[string]string{
				"reservation_id": reservation.ID.String(),
			},
			IdempotencyKey: fmt.Sprintf("checkout-%s-%d", reservation.ID, amountMinor),
		})
	})
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:                uuid.New(),
		ReservationID:     reservation.ID,
		Status:            domain.StatusPending,
		Amount:            reservation.TotalAmount,
		Method:            domain.MethodCheckout,
		ProviderSessionID: &session.ID,
		CreatedAt:         s.clock.Now(),
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.log.Info("checkout session created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("session_id", session.ID),
		zap.Int64("amount_minor", amountMinor),
	)
	return &domain.CheckoutResponse{
		PaymentID:  payment.ID,
		SessionID:  session.ID,
		SessionURL: session.URL,
	}, nil
}

func (s *service) Charge(ctx context.Context, req domain.ChargeRequest) (*domain.ChargeResponse, error) {
	reservation, amountMinor, err := s.prepare(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}

	result, err := retry.Do(ctx, s.retry, func(ctx context.Context) (*domain.ChargeResult, error) {
		return s.provider.CreateCharge(ctx, domain.ChargeParams{
			AmountMinor:    amountMinor,
			Currency:       s.cfg.Stripe.Currency,
			PaymentToken:   req.PaymentToken,
			IdempotencyKey: fmt.Sprintf("charge-%s-%d", reservation.ID, amountMinor),
		})
	})
	if err != nil {
		return nil, err
	}

	status := domain.StatusFromProvider(result.Status)
	payment := &domain.Payment{
		ID:                uuid.New(),
		ReservationID:     reservation.ID,
		Status:            status,
		Amount:            reservation.TotalAmount,
		Method:            domain.MethodDirect,
		ProviderPaymentID: &result.ID,
		CreatedAt:         s.clock.Now(),
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if status == domain.StatusCompleted {
		if err := s.confirmReservation(ctx, reservation); err != nil {
			return nil, err
		}
	}

	s.log.Info("direct charge processed",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("provider_payment_id", result.ID),
		zap.String("status", string(status)),
	)
	return &domain.ChargeResponse{
		PaymentID:         payment.ID,
		Status:            status,
		ProviderPaymentID: result.ID,
	}, nil
}

func (s *service) ReconcileFromProvider(ctx context.Context, providerPaymentID, providerStatus string) error {
	payment, err := s.repo.FindByProviderPaymentID(ctx, providerPaymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		s.log.Warn("provider notification for unknown payment",
			zap.String("provider_payment_id", providerPaymentID))
		return nil
	}
	if payment.Status.Terminal() {
		return nil
	}

	status := domain.StatusFromProvider(providerStatus)
	if status == payment.Status {
		return nil
	}

	payment.Status = status
	if err := s.repo.Save(ctx, payment); err != nil {
		return err
	}

	if status == domain.StatusCompleted {
		reservation, err := s.reservations.FindByID(ctx, payment.ReservationID)
		if err != nil {
			return err
		}
		if reservation != nil {
			if err := s.confirmReservation(ctx, reservation); err != nil {
				return err
			}
		}
	}

	s.log.Info("payment reconciled from provider",
		zap.String("provider_payment_id", providerPaymentID),
		zap.String("status", string(status)),
	)
	return nil
}

func (s *service) ReconcileCheckoutCompletion(ctx context.Context, sessionID string) error {
	payment, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	if payment == nil {
		s.log.Warn("checkout completion for unknown session",
			zap.String("session_id", sessionID))
		return nil
	}

	if payment.Status == domain.StatusPending {
		payment.Status = domain.StatusCompleted
		if err := s.repo.Save(ctx, payment); err != nil {
			return err
		}
	}

	reservation, err := s.reservations.FindByID(ctx, payment.ReservationID)
	if err != nil {
		return err
	}
	if reservation == nil {
		return nil
	}
	if reservation.Status != reservationdomain.StatusPending {
		return nil
	}

	if err := s.reservations.UpdateStatus(ctx, reservation.ID, reservationdomain.StatusConfirmed); err != nil {
		return err
	}

	confirmation := notifier.BookingConfirmation{
		GuestEmail:    reservation.Guest.Email,
		GuestName:     reservation.Guest.FullName,
		ReservationID: reservation.ID,
		RoomSummary:   roomSummary(reservation),
		CheckIn:       reservation.CheckIn,
		CheckOut:      reservation.CheckOut,
		Total:         reservation.TotalAmount,
	}
	if err := s.notifier.SendBookingConfirmation(ctx, confirmation); err != nil {
		s.log.Error("booking confirmation delivery failed",
			zap.String("reservation_id", reservation.ID.String()),
			zap.Error(err),
		)
	}

	s.log.Info("checkout completed",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("session_id", sessionID),
	)
	return nil
}

func (s *service) MarkSessionExpired(ctx context.Context, sessionID string) error {
	payment, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	if payment == nil || payment.Status.Terminal() {
		return nil
	}

	payment.Status = domain.StatusFailed
	if err := s.repo.Save(ctx, payment); err != nil {
		return err
	}

	s.log.Info("checkout session expired",
		zap.String("session_id", sessionID),
		zap.String("reservation_id", payment.ReservationID.String()),
	)
	return nil
}

// prepare loads the reservation, rejects concurrent collection attempts and
// validates the amount before any provider call is made.
func (s *service) prepare(ctx context.Context, reservationID uuid.UUID) (*reservationdomain.Reservation, int64, error) {
	reservation, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return nil, 0, err
	}
	if reservation == nil {
		return nil, 0, domain.ErrReservationNotFound
	}

	active, err := s.repo.FindActiveByReservation(ctx, reservationID)
	if err != nil {
		return nil, 0, err
	}
	if active != nil {
		return nil, 0, domain.ErrPaymentInProgress
	}

	amountMinor := minorUnits(reservation.TotalAmount)
	if amountMinor <= 0 || amountMinor > s.cfg.Stripe.MaxAmountCents {
		return nil, 0, domain.ErrInvalidAmount
	}
	return reservation, amountMinor, nil
}

func (s *service) confirmReservation(ctx context.Context, reservation *reservationdomain.Reservation) error {
	if reservation.Status != reservationdomain.StatusPending {
		return nil
	}
	return s.reservations.UpdateStatus(ctx, reservation.ID, reservationdomain.StatusConfirmed)
}

func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

func stayDescription(r *reservationdomain.Reservation) string {
	return fmt.Sprintf("%d night(s), %s to %s",
		r.Nights(),
		r.CheckIn.Format("2006-01-02"),
		r.CheckOut.Format("2006-01-02"),
	)
}

func roomSummary(r *reservationdomain.Reservation) string {
	return fmt.Sprintf("%d room(s)", len(r.Rooms))
}
