package core

import (
	"errors"
	"fmt"
)

// ReportError is the single terminal error of a generation run.
// None of the categories is retried and none leaves an output file behind.
type ReportError struct {
	Category ErrorCategory
	Path     string // File the failure relates to, if any
	Message  string // Human-readable message
	Cause    error  // Underlying error
}

// Error implements the error interface
func (e *ReportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ReportError) Unwrap() error {
	return e.Cause
}

// Is matches another ReportError by category, so the predefined
// sentinels below work with errors.Is.
func (e *ReportError) Is(target error) bool {
	t, ok := target.(*ReportError)
	if !ok {
		return false
	}
	return t.Category == e.Category && t.Path == "" && t.Cause == nil
}

// WithCause returns a copy of the error with the given cause
func (e *ReportError) WithCause(cause error) *ReportError {
	return &ReportError{
		Category: e.Category,
		Path:     e.Path,
		Message:  e.Message,
		Cause:    cause,
	}
}

// WithPath returns a copy of the error bound to a file path
func (e *ReportError) WithPath(path string) *ReportError {
	return &ReportError{
		Category: e.Category,
		Path:     path,
		Message:  e.Message,
		Cause:    e.Cause,
	}
}

// WithMessage returns a copy of the error with a custom message
func (e *ReportError) WithMessage(msg string) *ReportError {
	return &ReportError{
		Category: e.Category,
		Path:     e.Path,
		Message:  msg,
		Cause:    e.Cause,
	}
}

// Predefined errors
var (
	ErrMissingInput = &ReportError{
		Category: ErrCategoryMissingInput,
		Message:  "report JSON not found",
	}
	ErrMalformedInput = &ReportError{
		Category: ErrCategoryMalformedInput,
		Message:  "report JSON is not a valid run document",
	}
	ErrGenerationFailure = &ReportError{
		Category: ErrCategoryGenerationFailure,
		Message:  "report generation failed",
	}
)

// NewReportError creates a new ReportError with the given parameters
func NewReportError(category ErrorCategory, path, message string) *ReportError {
	return &ReportError{
		Category: category,
		Path:     path,
		Message:  message,
	}
}

// CategoryOf returns the category of the first ReportError in err's chain,
// or ErrCategoryNone.
func CategoryOf(err error) ErrorCategory {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Category
	}
	return ErrCategoryNone
}
