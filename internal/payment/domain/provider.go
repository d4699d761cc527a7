package domain

import (
	"context"
	"fmt"
)

// Provider status vocabulary mapped onto the local three-state machine.
const (
	ProviderStatusSucceeded             = "succeeded"
	ProviderStatusRequiresPaymentMethod = "requires_payment_method"
)

// StatusFromProvider maps a provider charge status to the local vocabulary.
// Anything unrecognized stays PENDING until a webhook or poll resolves it.
func StatusFromProvider(providerStatus string) Status {
	switch providerStatus {
	case ProviderStatusSucceeded:
		return StatusCompleted
	case ProviderStatusRequiresPaymentMethod:
		return StatusFailed
	default:
		return StatusPending
	}
}

type CheckoutSessionParams struct {
	AmountMinor    int64
	Currency       string
	SuccessURL     string
	CancelURL      string
	ProductName    string
	Description    string
	Metadata       map[string]string
	IdempotencyKey string
}

type CheckoutSession struct {
	ID  string
	URL string
}

type ChargeParams struct {
	AmountMinor    int64
	Currency       string
	PaymentToken   string
	IdempotencyKey string
}

type ChargeResult struct {
	ID     string
	Status string
}

// Provider is the outbound payment provider boundary.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
	CreateCharge(ctx context.Context, params ChargeParams) (*ChargeResult, error)
}

// transientCodes is the fixed set of provider error codes worth retrying.
// Every other code, and the absence of one, is permanent.
var transientCodes = map[string]bool{
	"rate_limit":              true,
	"api_connection_error":    true,
	"temporary_service_error": true,
}

// ProviderError is a failure reported by the payment provider.
type ProviderError struct {
	Code       string
	Message    string
	HTTPStatus int
}

func (e *ProviderError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("provider error: %s", e.Message)
	}
	return fmt.Sprintf("provider error %s: %s", e.Code, e.Message)
}

func (e *ProviderError) Transient() bool {
	return transientCodes[e.Code]
}
