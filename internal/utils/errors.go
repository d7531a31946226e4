package utils

import "errors"

// Common application errors used across services.
var (
	ErrNotFound           = errors.New("NOT_FOUND")
	ErrForbiddenStore     = errors.New("FORBIDDEN_STORE")
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrInactiveAccount    = errors.New("INACTIVE_ACCOUNT")
	ErrEmailTaken         = errors.New("EMAIL_TAKEN")
	ErrInvalidStatus      = errors.New("INVALID_STATUS")
	ErrInvalidTransition  = errors.New("INVALID_TRANSITION")
	ErrInvalidPayment     = errors.New("INVALID_PAYMENT_STATUS")
	ErrInvalidQuantity    = errors.New("INVALID_QUANTITY")
	ErrWeakPassword       = errors.New("WEAK_PASSWORD")
	ErrInvalidPhone       = errors.New("INVALID_PHONE")
	ErrEmptyOrder         = errors.New("EMPTY_ORDER")
	ErrInsufficientStock  = errors.New("INSUFFICIENT_STOCK")
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrDuplicate          = errors.New("DUPLICATE")
	ErrInvalidInput       = errors.New("INVALID_INPUT")
)
