package core

// Status is the outcome of a single test as reported by the test runner.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// String returns the raw status value
func (s Status) String() string {
	return string(s)
}

// IsKnown returns true if the status is one of passed, failed or skipped.
// Anything else is carried through to the report but never counted.
func (s Status) IsKnown() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}

// IsSuccess returns true if the status is passed
func (s Status) IsSuccess() bool {
	return s == StatusPassed
}

// Outcome collapses any status to passed or failed.
// Step cells in the report only show whether the owning test passed.
func (s Status) Outcome() Status {
	if s == StatusPassed {
		return StatusPassed
	}
	return StatusFailed
}

// ErrorCategory classifies why a report generation run was aborted
type ErrorCategory int

const (
	ErrCategoryNone              ErrorCategory = iota // No error
	ErrCategoryMissingInput                           // Input file absent
	ErrCategoryMalformedInput                         // Input present but not a run document
	ErrCategoryGenerationFailure                      // Anything else while transforming, rendering or writing
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryMissingInput:
		return "missing_input"
	case ErrCategoryMalformedInput:
		return "malformed_input"
	case ErrCategoryGenerationFailure:
		return "generation_failure"
	default:
		return "unknown"
	}
}
