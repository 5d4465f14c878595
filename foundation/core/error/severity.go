// File: severity.go
// Title: Error Severity Levels
// Description: Severity levels used to pick the log level of a fault.
// Author: Mike Stoffels
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-02 v0.2.0: Mapping for the log viewer codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow covers faults the user caused, e.g. an empty channel name
	SeverityLow Severity = iota

	// SeverityMedium covers degraded operation, e.g. history not persisted
	SeverityMedium

	// SeverityHigh covers faults that stop a component, e.g. the stream is gone
	SeverityHigh

	// SeverityCritical covers faults that stop the program
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeDataCorruption, CodeConfigError, CodeInvalidConfig:
		return SeverityCritical
	case CodeConnectionFailed, CodeServiceUnavailable:
		return SeverityHigh
	case CodeDatabaseError, CodeNetworkError, CodeTimeout, CodeInternal:
		return SeverityMedium
	case CodeInvalidInput, CodeNotFound, CodeValidationFailed, CodeInvalidFormat:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
