// Package errors provides application-level error types and utilities.
// Every failure of a presale request is reported as an AppError whose Type names
// the error kind and whose Context carries retry hints for the client.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeInvalidInput       ErrorType = "invalid_input"
	ErrorTypeNoActiveSale       ErrorType = "no_active_sale"
	ErrorTypeZeroAllocation     ErrorType = "zero_allocation"
	ErrorTypeSignatureMismatch  ErrorType = "signature_mismatch"
	ErrorTypeAlreadyLocked      ErrorType = "already_locked"
	ErrorTypeAtomicityViolation ErrorType = "atomicity_violation"
	ErrorTypeChainReadFailure   ErrorType = "chain_read_failure"
	ErrorTypeCapExceeded        ErrorType = "cap_exceeded"
	ErrorTypeUnknownMethod      ErrorType = "unknown_method"
	ErrorTypeInternal           ErrorType = "internal_error"
)

// Context keys used by the constructors below.
const (
	ContextExpireAt = "expire_at"
	ContextLockTime = "lock_time"
	ContextDay      = "day"
	ContextChainID  = "chain_id"
	ContextMethod   = "method"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType      `json:"type"`
	Message string         `json:"message"`
	Code    int            `json:"code"`
	Details string         `json:"details,omitempty"`
	Context map[string]any `json:"context,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithContext returns the error with an additional context entry.
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func newAppError(t ErrorType, code int, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    t,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewInvalidInputError reports a missing or malformed request field.
func NewInvalidInputError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInvalidInput, http.StatusBadRequest, message, details)
}

// NewNoActiveSaleError reports a request made before the sale opened.
func NewNoActiveSaleError(day int) *AppError {
	return newAppError(ErrorTypeNoActiveSale, http.StatusForbidden, "No Active Sale", nil).
		WithContext(ContextDay, day)
}

// NewZeroAllocationError reports an address without allocation before the tiered phase.
// reopenAt is the instant the address becomes eligible.
func NewZeroAllocationError(reopenAt time.Time, day int) *AppError {
	return newAppError(ErrorTypeZeroAllocation, http.StatusForbidden, "Allocation is 0 for your address.", nil).
		WithContext(ContextExpireAt, reopenAt.UnixMilli()).
		WithContext(ContextDay, day)
}

// NewSignatureMismatchError reports a consent signature that does not belong to the address.
func NewSignatureMismatchError(details ...string) *AppError {
	return newAppError(ErrorTypeSignatureMismatch, http.StatusUnauthorized, "Request signature mismatch", details)
}

// NewAlreadyLockedError reports an unexpired deposit lock for the address.
func NewAlreadyLockedError(expireAt time.Time, lockTime time.Duration, day int) *AppError {
	return newAppError(ErrorTypeAlreadyLocked, http.StatusConflict, "Your address is locked. Please wait.", nil).
		WithContext(ContextExpireAt, expireAt.UnixMilli()).
		WithContext(ContextLockTime, int64(lockTime/time.Second)).
		WithContext(ContextDay, day)
}

// NewAtomicityViolationError reports a lost acquisition race. The whole request must be resubmitted.
func NewAtomicityViolationError(owners int) *AppError {
	return newAppError(ErrorTypeAtomicityViolation, http.StatusConflict, "Atomic run failed.",
		[]string{fmt.Sprintf("%d concurrent lock owners", owners)})
}

// NewChainReadFailureError reports a failed presale contract read on one chain.
func NewChainReadFailureError(chainID uint64, cause error) *AppError {
	e := newAppError(ErrorTypeChainReadFailure, http.StatusBadGateway, "Failed to read presale balances", nil).
		WithContext(ContextChainID, chainID)
	if cause != nil {
		e.Details = cause.Error()
		e.cause = cause
	}
	return e
}

// NewCapExceededError reports a request that would breach the global or phase ceiling.
func NewCapExceededError(details ...string) *AppError {
	return newAppError(ErrorTypeCapExceeded, http.StatusUnprocessableEntity, "Amount is not valid", details)
}

// NewUnknownMethodError reports an unsupported request method.
func NewUnknownMethodError(method string) *AppError {
	return newAppError(ErrorTypeUnknownMethod, http.StatusNotFound, fmt.Sprintf("Unknown method %s", method), nil).
		WithContext(ContextMethod, method)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}
