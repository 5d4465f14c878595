// File: codes.go
// Title: Error Code Definitions
// Description: Error codes used to classify faults of the log viewer. The code decides
//              how a fault is handled: transport faults trigger reconnects, validation
//              faults are shown to the user, persistence faults are only logged.
// Author: Mike Stoffels
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-02 v0.2.0: Codes for streaming, persistence and export

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Storage
	CodeDatabaseError  Code = "DATABASE_ERROR"
	CodeDataCorruption Code = "DATA_CORRUPTION"

	// Service and network
	CodeConnectionFailed   Code = "CONNECTION_FAILED"
	CodeNetworkError       Code = "NETWORK_ERROR"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Validation and decoding
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeInvalidFormat    Code = "INVALID_FORMAT"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsRetryable reports whether a fault with this code may succeed when repeated
func (c Code) IsRetryable() bool {
	switch c {
	case CodeConnectionFailed, CodeNetworkError, CodeServiceUnavailable, CodeTimeout:
		return true
	default:
		return false
	}
}
