package domain

import "errors"

var (
	ErrReservationNotFound  = errors.New("reservation_not_found")
	ErrPaymentNotFound      = errors.New("payment_not_found")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrPaymentInProgress    = errors.New("payment_in_progress")
	ErrDuplicateProviderRef = errors.New("duplicate_provider_reference")
	ErrInvalidSignature     = errors.New("invalid_signature")
	ErrInvalidPayload       = errors.New("invalid_payload")
)
