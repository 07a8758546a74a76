package services

import "errors"

// Workflow errors. All are per-request: a failed workflow performs no
// mutation and the caller (a human admin or the user) decides whether to
// resubmit.
var (
	ErrValidation        = errors.New("invalid input")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyResolved   = errors.New("record already resolved")
	ErrKYCNotApproved    = errors.New("kyc not approved")
	ErrInvalidScheme     = errors.New("unknown scheme type")
	ErrInvalidAmount     = errors.New("amount not allowed for scheme")
	ErrBelowMinimum      = errors.New("amount below minimum withdrawal")
	ErrOTPRequired       = errors.New("otp verification required")
	ErrInvalidStatus     = errors.New("invalid status transition")
	ErrNotFound          = errors.New("record not found")
)
