// errors.go: structured errors for Clessidra
//
// Cache data operations never fail: a missing key or an empty delete are
// ordinary results. The errors below belong to the surfaces around the cache
// (listener registration, loaders, hot reload) and carry go-errors codes so
// callers can branch on them.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package clessidra

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for Clessidra
const (
	// Configuration errors
	ErrCodeInvalidConfig errors.ErrorCode = "CLESSIDRA_INVALID_CONFIG"

	// Listener errors
	ErrCodeInvalidListener errors.ErrorCode = "CLESSIDRA_INVALID_LISTENER"
	ErrCodeUnknownEvent    errors.ErrorCode = "CLESSIDRA_UNKNOWN_EVENT"

	// Loader errors
	ErrCodeLoaderFailed  errors.ErrorCode = "CLESSIDRA_LOADER_FAILED"
	ErrCodeInvalidLoader errors.ErrorCode = "CLESSIDRA_INVALID_LOADER"

	// Internal errors
	ErrCodeInternalError  errors.ErrorCode = "CLESSIDRA_INTERNAL_ERROR"
	ErrCodePanicRecovered errors.ErrorCode = "CLESSIDRA_PANIC_RECOVERED"
)

const (
	msgInvalidConfig   = "invalid configuration"
	msgInvalidListener = "listener function cannot be nil"
	msgUnknownEvent    = "unknown event type"
	msgLoaderFailed    = "loader function failed"
	msgInvalidLoader   = "loader function cannot be nil"
	msgInternalError   = "internal cache error"
	msgPanicRecovered  = "panic recovered in cache operation"
)

// NewErrInvalidConfig creates an error for a rejected configuration field
func NewErrInvalidConfig(field string, reason string) error {
	return errors.NewWithContext(ErrCodeInvalidConfig, msgInvalidConfig, map[string]interface{}{
		"field":  field,
		"reason": reason,
	})
}

// NewErrInvalidListener creates an error when a nil listener is registered
func NewErrInvalidListener(event EventType) error {
	return errors.NewWithField(ErrCodeInvalidListener, msgInvalidListener, "event", event.String())
}

// NewErrUnknownEvent creates an error when registering for an event the cache never emits
func NewErrUnknownEvent(event EventType) error {
	return errors.NewWithField(ErrCodeUnknownEvent, msgUnknownEvent, "event", int(event))
}

// NewErrLoaderFailed wraps an error returned by a loader function
func NewErrLoaderFailed(key string, cause error) error {
	return errors.Wrap(cause, ErrCodeLoaderFailed, msgLoaderFailed).
		WithContext("key", key).
		AsRetryable()
}

// NewErrInvalidLoader creates an error when loader function is nil
func NewErrInvalidLoader(key string) error {
	return errors.NewWithField(ErrCodeInvalidLoader, msgInvalidLoader, "key", key)
}

// NewErrInternal creates a generic internal error
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternalError, msgInternalError).
			WithContext("operation", operation).
			WithSeverity("warning")
	}
	return errors.NewWithField(ErrCodeInternalError, msgInternalError, "operation", operation).
		WithSeverity("warning")
}

// NewErrPanicRecovered creates an error when a panic is recovered
func NewErrPanicRecovered(operation string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"operation":   operation,
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// IsConfigError checks if error is a configuration error
func IsConfigError(err error) bool {
	return GetErrorCode(err) == ErrCodeInvalidConfig
}

// IsListenerError checks if error was returned by listener registration
func IsListenerError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrCodeInvalidListener || code == ErrCodeUnknownEvent
}

// IsLoaderError checks if error is a loader error
func IsLoaderError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrCodeLoaderFailed || code == ErrCodeInvalidLoader
}

// IsRetryable checks if the error can be retried
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var clessidraErr *errors.Error
	if goerrors.As(err, &clessidraErr) {
		return clessidraErr.Context
	}
	return nil
}
