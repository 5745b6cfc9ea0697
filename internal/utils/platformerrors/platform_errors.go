// Package platformerrors carries typed, layered errors across the service.
// Every error site owns a fixed UUID so log lines and client responses can be
// traced back to the exact origin without stack traces.
package platformerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Layer identifies where in the stack an error originated.
type Layer string

const (
	LayerHandler        Layer = "handler"
	LayerRoute          Layer = "route"
	LayerDomain         Layer = "domain"
	LayerRepository     Layer = "repository"
	LayerInfrastructure Layer = "infrastructure"
)

// ErrorType classifies an error independently of its origin layer.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeInvalidState ErrorType = "invalid_state"
	ErrorTypeExternal     ErrorType = "external"
	ErrorTypeTimeout      ErrorType = "timeout"
	ErrorTypeStorageError ErrorType = "storage_error"
	ErrorTypeInternal     ErrorType = "internal"
)

type requestIDKey struct{}

// WithRequestID stores the request id in the context for error construction.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext extracts the request id, if any.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// PlatformError is the concrete error carried between layers.
type PlatformError struct {
	layer     Layer
	errorType ErrorType
	message   string
	cause     error
	uuid      string
	requestID string
}

// NewError builds a typed error. uuid identifies the call site and stays
// stable across releases.
func NewError(ctx context.Context, layer Layer, errorType ErrorType, message string, cause error, uuid string) *PlatformError {
	return &PlatformError{
		layer:     layer,
		errorType: errorType,
		message:   message,
		cause:     cause,
		uuid:      uuid,
		requestID: RequestIDFromContext(ctx),
	}
}

// AsError wraps err for propagation through layer. When err is already a
// PlatformError its type and uuid are preserved so the original
// classification survives rewrapping.
func AsError(ctx context.Context, layer Layer, err error, message string) *PlatformError {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return &PlatformError{
			layer:     layer,
			errorType: pe.errorType,
			message:   message,
			cause:     err,
			uuid:      pe.uuid,
			requestID: RequestIDFromContext(ctx),
		}
	}
	return &PlatformError{
		layer:     layer,
		errorType: ErrorTypeInternal,
		message:   message,
		cause:     err,
		uuid:      "",
		requestID: RequestIDFromContext(ctx),
	}
}

func (e *PlatformError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s/%s] %s: %v", e.layer, e.errorType, e.message, e.cause)
	}
	return fmt.Sprintf("[%s/%s] %s", e.layer, e.errorType, e.message)
}

func (e *PlatformError) Unwrap() error {
	return e.cause
}

func (e *PlatformError) GetErrorType() ErrorType {
	return e.errorType
}

func (e *PlatformError) GetLayer() Layer {
	return e.layer
}

func (e *PlatformError) GetUUID() string {
	return e.uuid
}

func (e *PlatformError) GetRequestID() string {
	return e.requestID
}

// IsErrorType reports whether err carries the given classification anywhere
// in its chain.
func IsErrorType(err error, errorType ErrorType) bool {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.errorType == errorType
	}
	return false
}

// ErrorTypeToHTTPStatus maps a classification to its response status.
func ErrorTypeToHTTPStatus(errorType ErrorType) int {
	switch errorType {
	case ErrorTypeValidation, ErrorTypeInvalidState:
		return http.StatusBadRequest
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeExternal:
		return http.StatusBadGateway
	case ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	case ErrorTypeStorageError, ErrorTypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryable reports whether the failure class is worth retrying.
func IsRetryable(err error) bool {
	var pe *PlatformError
	if !errors.As(err, &pe) {
		return false
	}
	switch pe.errorType {
	case ErrorTypeTimeout, ErrorTypeStorageError, ErrorTypeExternal:
		return true
	default:
		return false
	}
}
