// errors_test.go: tests and benchmarks for error handling in Clessidra
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package clessidra

import (
	"encoding/json"
	goerrors "errors"
	"testing"

	"github.com/agilira/go-errors"
)

// Test error code creation and basic properties
func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name         string
		errFunc      func() error
		expectedCode errors.ErrorCode
		shouldRetry  bool
	}{
		{
			name:         "InvalidConfig",
			errFunc:      func() error { return NewErrInvalidConfig("config_path", "required") },
			expectedCode: ErrCodeInvalidConfig,
		},
		{
			name:         "InvalidListener",
			errFunc:      func() error { return NewErrInvalidListener(EventSet) },
			expectedCode: ErrCodeInvalidListener,
		},
		{
			name:         "UnknownEvent",
			errFunc:      func() error { return NewErrUnknownEvent(EventType(42)) },
			expectedCode: ErrCodeUnknownEvent,
		},
		{
			name:         "LoaderFailed",
			errFunc:      func() error { return NewErrLoaderFailed("k", goerrors.New("timeout")) },
			expectedCode: ErrCodeLoaderFailed,
			shouldRetry:  true,
		},
		{
			name:         "InvalidLoader",
			errFunc:      func() error { return NewErrInvalidLoader("k") },
			expectedCode: ErrCodeInvalidLoader,
		},
		{
			name:         "Internal",
			errFunc:      func() error { return NewErrInternal("op", nil) },
			expectedCode: ErrCodeInternalError,
		},
		{
			name:         "PanicRecovered",
			errFunc:      func() error { return NewErrPanicRecovered("test-op", "panic message") },
			expectedCode: ErrCodePanicRecovered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.errFunc()
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if !errors.HasCode(err, tt.expectedCode) {
				t.Errorf("expected code %s, got %s", tt.expectedCode, GetErrorCode(err))
			}

			if IsRetryable(err) != tt.shouldRetry {
				t.Errorf("expected retryable=%v, got %v", tt.shouldRetry, IsRetryable(err))
			}

			if err.Error() == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}

// Test error wrapping with cause
func TestErrorWrapping(t *testing.T) {
	cause := goerrors.New("upstream unavailable")

	for name, err := range map[string]error{
		"loader":   NewErrLoaderFailed("test-key", cause),
		"internal": NewErrInternal("NewHotConfig", cause),
	} {
		t.Run(name, func(t *testing.T) {
			if goerrors.Unwrap(err) == nil {
				t.Fatal("expected unwrapped error, got nil")
			}
			if rootCause := errors.RootCause(err); rootCause.Error() != cause.Error() {
				t.Errorf("expected root cause %q, got %q", cause.Error(), rootCause.Error())
			}
		})
	}
}

// Test error context extraction
func TestErrorContext(t *testing.T) {
	ctx := GetErrorContext(NewErrInvalidConfig("default_ttl", "expected duration string or seconds"))
	if ctx == nil {
		t.Fatal("expected context, got nil")
	}
	if ctx["field"] != "default_ttl" {
		t.Errorf("expected field=default_ttl, got %v", ctx["field"])
	}
	if ctx["reason"] != "expected duration string or seconds" {
		t.Errorf("unexpected reason %v", ctx["reason"])
	}

	ctx = GetErrorContext(NewErrLoaderFailed("user:42", goerrors.New("boom")))
	if ctx["key"] != "user:42" {
		t.Errorf("expected key=user:42, got %v", ctx["key"])
	}

	ctx = GetErrorContext(NewErrPanicRecovered("GetOrLoad:k", 7))
	if ctx["panic_value"] != "7" {
		t.Errorf("expected panic_value=7, got %v", ctx["panic_value"])
	}

	if GetErrorContext(nil) != nil {
		t.Error("expected nil context for nil error")
	}
	if GetErrorContext(goerrors.New("plain")) != nil {
		t.Error("expected nil context for standard error")
	}
}

// Test error category helpers
func TestErrorCategoryHelpers(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		isConfig   bool
		isListener bool
		isLoader   bool
	}{
		{
			name:     "ConfigError",
			err:      NewErrInvalidConfig("target", "cache is required"),
			isConfig: true,
		},
		{
			name:       "NilListener",
			err:        NewErrInvalidListener(EventExpired),
			isListener: true,
		},
		{
			name:       "UnknownEvent",
			err:        NewErrUnknownEvent(0),
			isListener: true,
		},
		{
			name:     "LoaderFailed",
			err:      NewErrLoaderFailed("key", goerrors.New("x")),
			isLoader: true,
		},
		{
			name:     "InvalidLoader",
			err:      NewErrInvalidLoader("key"),
			isLoader: true,
		},
		{
			name: "Nil",
			err:  nil,
		},
		{
			name: "Standard",
			err:  goerrors.New("standard"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IsConfigError(tt.err) != tt.isConfig {
				t.Errorf("IsConfigError: expected %v, got %v", tt.isConfig, IsConfigError(tt.err))
			}
			if IsListenerError(tt.err) != tt.isListener {
				t.Errorf("IsListenerError: expected %v, got %v", tt.isListener, IsListenerError(tt.err))
			}
			if IsLoaderError(tt.err) != tt.isLoader {
				t.Errorf("IsLoaderError: expected %v, got %v", tt.isLoader, IsLoaderError(tt.err))
			}
		})
	}
}

// Test JSON serialization
func TestErrorJSONSerialization(t *testing.T) {
	err := NewErrInvalidConfig("sweep_interval", "expected duration string or seconds")

	var clessidraErr *errors.Error
	if !goerrors.As(err, &clessidraErr) {
		t.Fatal("expected *errors.Error type")
	}

	data, jsonErr := json.Marshal(clessidraErr)
	if jsonErr != nil {
		t.Fatalf("JSON marshal failed: %v", jsonErr)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("JSON unmarshal failed: %v", err)
	}

	if decoded["code"] != string(ErrCodeInvalidConfig) {
		t.Errorf("expected code %q in JSON, got %v", ErrCodeInvalidConfig, decoded["code"])
	}

	ctx, ok := decoded["context"].(map[string]interface{})
	if !ok {
		t.Fatal("expected context in JSON")
	}
	if ctx["field"] != "sweep_interval" {
		t.Errorf("expected field=sweep_interval in context, got %v", ctx["field"])
	}
}

// Test error severity levels
func TestErrorSeverity(t *testing.T) {
	panicErr := NewErrPanicRecovered("test-op", "panic!")
	var clessidraErr *errors.Error
	if goerrors.As(panicErr, &clessidraErr) {
		if clessidraErr.Severity != "critical" {
			t.Errorf("expected severity=critical, got %s", clessidraErr.Severity)
		}
	}

	internalErr := NewErrInternal("test-op", nil)
	if goerrors.As(internalErr, &clessidraErr) {
		if clessidraErr.Severity != "warning" {
			t.Errorf("expected severity=warning, got %s", clessidraErr.Severity)
		}
	}
}

// Test GetErrorCode with nil and non-clessidra errors
func TestGetErrorCode(t *testing.T) {
	if GetErrorCode(nil) != "" {
		t.Error("expected empty string for nil error")
	}

	if GetErrorCode(goerrors.New("standard error")) != "" {
		t.Error("expected empty string for standard error")
	}

	if code := GetErrorCode(NewErrInvalidLoader("test")); code != ErrCodeInvalidLoader {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidLoader, code)
	}
}

// Benchmark error creation
func BenchmarkErrorCreation(b *testing.B) {
	b.Run("Simple", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = NewErrInvalidLoader("test-key")
		}
	})

	b.Run("WithContext", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = NewErrInvalidConfig("default_ttl", "bad")
		}
	})

	b.Run("Wrapped", func(b *testing.B) {
		cause := goerrors.New("underlying error")
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = NewErrLoaderFailed("test-key", cause)
		}
	})
}
