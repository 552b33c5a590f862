// Package errors provides application-level error types shared by every layer.
// Each AppError carries the HTTP status it maps to, so handlers never decide codes themselves.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType is the machine-checkable error kind returned to clients.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation_error"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeRateLimited  ErrorType = "rate_limited"
	ErrorTypeCSRFMismatch ErrorType = "csrf_mismatch"
	ErrorTypeInternal     ErrorType = "internal_error"
	ErrorTypeBadRequest   ErrorType = "bad_request"
)

// StatusCSRFMismatch is the non-standard "page expired" status clients treat as a CSRF mismatch.
const StatusCSRFMismatch = 419

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
	// Fields holds per-field validation messages keyed by JSON field name.
	Fields map[string]string `json:"fields,omitempty"`
	// RetryAfter is the number of seconds a rate limited caller should wait.
	RetryAfter int `json:"retry_after,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
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

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details)
}

// NewFieldValidationError creates a validation error that reports problems per field.
func NewFieldValidationError(message string, fields map[string]string) *AppError {
	err := newAppError(ErrorTypeValidation, http.StatusUnprocessableEntity, message, nil)
	err.Fields = fields
	return err
}

// NewPayloadTooLargeError reports a request body above the configured limit.
func NewPayloadTooLargeError(limit int64) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusRequestEntityTooLarge, "request payload too large",
		[]string{fmt.Sprintf("limit is %d bytes", limit)})
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details)
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, details)
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnauthorized, http.StatusUnauthorized, message, details)
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeForbidden, http.StatusForbidden, message, details)
}

// NewRateLimitedError creates a 429 error carrying the retry hint in seconds.
func NewRateLimitedError(message string, retryAfter int) *AppError {
	err := newAppError(ErrorTypeRateLimited, http.StatusTooManyRequests, message, nil)
	err.RetryAfter = retryAfter
	return err
}

// NewCSRFMismatchError creates a 419 error. Clients refresh their token once and retry.
func NewCSRFMismatchError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeCSRFMismatch, StatusCSRFMismatch, message, details)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeBadRequest, http.StatusBadRequest, message, details)
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

func isType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool { return isType(err, ErrorTypeConflict) }

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool { return isType(err, ErrorTypeNotFound) }

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool { return isType(err, ErrorTypeValidation) }

func IsUnauthorizedError(err error) bool { return isType(err, ErrorTypeUnauthorized) }

func IsForbiddenError(err error) bool { return isType(err, ErrorTypeForbidden) }

func IsRateLimitedError(err error) bool { return isType(err, ErrorTypeRateLimited) }

// IsDuplicateError checks if the error is a database duplicate key error
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// MySQL
	if strings.Contains(errStr, "Duplicate entry") || strings.Contains(errStr, "duplicate key") {
		return true
	}
	// SQLite
	return strings.Contains(errStr, "UNIQUE constraint failed")
}
