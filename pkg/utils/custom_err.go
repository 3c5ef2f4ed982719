package utils

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrConflict           = errors.New("conflict with existing state")
	ErrRejected           = errors.New("request rejected by backend")
	ErrCouponInvalid      = errors.New("coupon invalid")
	ErrRescheduleWindow   = errors.New("appointment is less than 24 hours away and cannot be rescheduled")
	ErrCancelWindow       = errors.New("appointment is less than 24 hours away and cannot be cancelled")
	ErrInvalidTransition  = errors.New("invalid flow transition")
	ErrNoPendingAttempt   = errors.New("no pending booking attempt")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrDatabaseError      = errors.New("database error")
	RecordNotFound        = errors.New("record not found")
)

// ValidationError reports a client-side validation failure on one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
