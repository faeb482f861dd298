package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestReportError_Error(t *testing.T) {
	err := &ReportError{
		Category: ErrCategoryMissingInput,
		Message:  "test message",
	}

	if got := err.Error(); got != "test message" {
		t.Errorf("Error() = %q, want %q", got, "test message")
	}
}

func TestReportError_ErrorWithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := &ReportError{
		Category: ErrCategoryMalformedInput,
		Message:  "test message",
		Cause:    cause,
	}

	got := err.Error()
	if !strings.Contains(got, "test message") {
		t.Errorf("Error() = %q, should contain 'test message'", got)
	}
	if !strings.Contains(got, "underlying error") {
		t.Errorf("Error() = %q, should contain 'underlying error'", got)
	}
}

func TestReportError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &ReportError{
		Message: "wrapper",
		Cause:   cause,
	}

	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}
}

func TestReportError_WithCause(t *testing.T) {
	original := ErrMalformedInput
	cause := errors.New("unexpected end of JSON input")

	newErr := original.WithCause(cause)

	if newErr.Cause != cause {
		t.Error("WithCause() did not set cause")
	}
	if newErr.Category != original.Category {
		t.Error("WithCause() changed category")
	}
	if original.Cause != nil {
		t.Error("WithCause() modified original error")
	}
}

func TestReportError_WithPathAndMessage(t *testing.T) {
	newErr := ErrMissingInput.WithPath("test-results/report.json").WithMessage("custom")

	if newErr.Path != "test-results/report.json" {
		t.Errorf("Path = %q", newErr.Path)
	}
	if newErr.Message != "custom" {
		t.Errorf("Message = %q, want 'custom'", newErr.Message)
	}
	if ErrMissingInput.Path != "" || ErrMissingInput.Message == "custom" {
		t.Error("With*() modified original error")
	}
}

func TestReportError_ErrorsIs(t *testing.T) {
	cause := errors.New("root cause")
	err := fmt.Errorf("generate: %w", ErrMissingInput.WithPath("a.json").WithCause(cause))

	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the cause")
	}
	if !errors.Is(err, ErrMissingInput) {
		t.Error("errors.Is() should match the sentinel by category")
	}
	if errors.Is(err, ErrMalformedInput) {
		t.Error("errors.Is() matched the wrong category")
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCategory
	}{
		{"nil", nil, ErrCategoryNone},
		{"plain", errors.New("x"), ErrCategoryNone},
		{"direct", ErrGenerationFailure, ErrCategoryGenerationFailure},
		{"wrapped", fmt.Errorf("ctx: %w", NewReportError(ErrCategoryMalformedInput, "a.json", "bad")), ErrCategoryMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoryOf(tt.err); got != tt.expected {
				t.Errorf("CategoryOf() = %s, want %s", got, tt.expected)
			}
		})
	}
}
