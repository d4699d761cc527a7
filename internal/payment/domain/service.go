package domain

import (
	"context"

	"github.com/google/uuid"
)

type CheckoutRequest struct {
	ReservationID uuid.UUID `json:"reservation_id" binding:"required"`
	SuccessURL    string    `json:"success_url" binding:"required"`
	CancelURL     string    `json:"cancel_url" binding:"required"`
}

type CheckoutResponse struct {
	PaymentID  uuid.UUID `json:"payment_id"`
	SessionID  string    `json:"session_id"`
	SessionURL string    `json:"session_url"`
}

type ChargeRequest struct {
	ReservationID uuid.UUID `json:"reservation_id" binding:"required"`
	PaymentToken  string    `json:"payment_token" binding:"required"`
}

type ChargeResponse struct {
	PaymentID         uuid.UUID `json:"payment_id"`
	Status            Status    `json:"status"`
	ProviderPaymentID string    `json:"provider_payment_id"`
}

// Service orchestrates payment collection and reconciles provider
// notifications back onto payments and reservations.
type Service interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error)
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResponse, error)

	// ReconcileFromProvider applies an asynchronous payment-intent status.
	// Unknown payments and terminal payments are ignored.
	ReconcileFromProvider(ctx context.Context, providerPaymentID, providerStatus string) error

	// ReconcileCheckoutCompletion completes the checkout flow for a session.
	// Both the payment and the reservation transition are guarded so redelivery
	// cannot confirm or notify twice.
	ReconcileCheckoutCompletion(ctx context.Context, sessionID string) error

	// MarkSessionExpired fails the pending payment tied to an abandoned session.
	MarkSessionExpired(ctx context.Context, sessionID string) error
}
