package core

import "testing"

func TestStatus_IsKnown(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusPassed, true},
		{StatusFailed, true},
		{StatusSkipped, true},
		{Status("timedOut"), false},
		{Status("interrupted"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		if got := tt.status.IsKnown(); got != tt.expected {
			t.Errorf("Status(%q).IsKnown() = %v, want %v", tt.status, got, tt.expected)
		}
	}
}

func TestStatus_Outcome(t *testing.T) {
	tests := []struct {
		status   Status
		expected Status
	}{
		{StatusPassed, StatusPassed},
		{StatusFailed, StatusFailed},
		{StatusSkipped, StatusFailed},
		{Status("timedOut"), StatusFailed},
	}

	for _, tt := range tests {
		if got := tt.status.Outcome(); got != tt.expected {
			t.Errorf("Status(%q).Outcome() = %q, want %q", tt.status, got, tt.expected)
		}
	}
}

func TestStatus_IsSuccess(t *testing.T) {
	if !StatusPassed.IsSuccess() {
		t.Error("passed should be success")
	}
	for _, s := range []Status{StatusFailed, StatusSkipped, Status("flaky")} {
		if s.IsSuccess() {
			t.Errorf("Status(%q).IsSuccess() = true, want false", s)
		}
	}
}

func TestErrorCategory_String(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		expected string
	}{
		{ErrCategoryNone, "none"},
		{ErrCategoryMissingInput, "missing_input"},
		{ErrCategoryMalformedInput, "malformed_input"},
		{ErrCategoryGenerationFailure, "generation_failure"},
		{ErrorCategory(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.category.String(); got != tt.expected {
			t.Errorf("ErrorCategory(%d).String() = %q, want %q", tt.category, got, tt.expected)
		}
	}
}
