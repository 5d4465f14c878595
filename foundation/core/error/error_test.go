package error

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("something broke")

	if err.Error() != "something broke" {
		t.Errorf("Error() = %v, want something broke", err.Error())
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "nothing") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	base := errors.New("connection refused")
	err := Wrap(base, "failed to subscribe").WithCode(CodeConnectionFailed)

	if err.Error() != "failed to subscribe: connection refused" {
		t.Errorf("Error() = %v", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if err.Severity() != SeverityHigh {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityHigh)
	}
}

func TestWrap_InheritsCode(t *testing.T) {
	inner := New("empty channel").WithCode(CodeValidationFailed).WithDetail("input", "")
	outer := Wrap(inner, "switch rejected")

	if outer.Code() != CodeValidationFailed {
		t.Errorf("Code() = %v, want %v", outer.Code(), CodeValidationFailed)
	}
	if _, ok := outer.Details()["input"]; !ok {
		t.Error("details should be copied from the wrapped error")
	}
}

func TestHasCode(t *testing.T) {
	inner := New("disk full").WithCode(CodeDatabaseError)
	outer := Wrap(inner, "persist history").WithCode(CodeInternal)
	plain := fmt.Errorf("context: %w", outer)

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"outer code", outer, CodeInternal, true},
		{"inner code", outer, CodeDatabaseError, true},
		{"through fmt wrap", plain, CodeDatabaseError, true},
		{"missing code", outer, CodeTimeout, false},
		{"plain error", errors.New("x"), CodeInternal, false},
		{"nil error", nil, CodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCode(tt.err, tt.code); got != tt.want {
				t.Errorf("HasCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(errors.New("x")); got != CodeUnknown {
		t.Errorf("GetCode(plain) = %v, want %v", got, CodeUnknown)
	}
	err := fmt.Errorf("wrapped: %w", New("bad").WithCode(CodeInvalidFormat))
	if got := GetCode(err); got != CodeInvalidFormat {
		t.Errorf("GetCode() = %v, want %v", got, CodeInvalidFormat)
	}
}

func TestGetSeverityFromCode(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeConfigError, SeverityCritical},
		{CodeConnectionFailed, SeverityHigh},
		{CodeDatabaseError, SeverityMedium},
		{CodeValidationFailed, SeverityLow},
		{Code("OTHER"), SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if got := GetSeverityFromCode(tt.code); got != tt.want {
				t.Errorf("GetSeverityFromCode(%v) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestCode_IsRetryable(t *testing.T) {
	if !CodeConnectionFailed.IsRetryable() {
		t.Error("CodeConnectionFailed should be retryable")
	}
	if CodeValidationFailed.IsRetryable() {
		t.Error("CodeValidationFailed should not be retryable")
	}
}

func TestError_String(t *testing.T) {
	err := Wrap(errors.New("eof"), "stream closed").
		WithCode(CodeNetworkError).
		WithOperation("subscribe").
		WithDetail("channel", "logs")

	s := err.String()
	for _, want := range []string{"Code: NETWORK_ERROR", "Operation: subscribe", "channel=logs", "Cause: eof"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q in %q", want, s)
		}
	}
}
