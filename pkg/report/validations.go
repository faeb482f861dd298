package report

import "strings"

// Console markers that turn a log line into a validation.
const (
	PassMarker   = "✅"
	FailMarker   = "❌"
	errorInLabel = "ERROR in"
	errorWord    = "Error"
)

// DefaultFailureMessage is used when a failed test left neither console
// validations nor an error message.
const DefaultFailureMessage = "Test failed"

// extractValidations scans a result's console output for check messages.
//
// stdout lines starting with a marker become pass/fail validations. stderr
// lines that look like errors become fail validations unless a validation
// with the identical message already exists. A failed test with no
// validations gets one synthetic failure.
func extractValidations(result Result) []Validation {
	validations := []Validation{}

	for _, entry := range result.Stdout {
		text := strings.TrimSpace(entry.String())
		switch {
		case strings.HasPrefix(text, PassMarker):
			validations = append(validations, Validation{
				Type:    ValidationPass,
				Message: stripMarker(text, PassMarker),
			})
		case strings.HasPrefix(text, FailMarker):
			validations = append(validations, Validation{
				Type:    ValidationFail,
				Message: stripMarker(text, FailMarker),
			})
		}
	}

	for _, entry := range result.Stderr {
		text := strings.TrimSpace(entry.String())
		if !isErrorLine(text) {
			continue
		}
		msg := strings.TrimPrefix(text, FailMarker+" ")
		msg = strings.TrimPrefix(msg, errorInLabel+" ")
		msg = strings.TrimSuffix(msg, "\n")
		if hasMessage(validations, msg) {
			continue
		}
		validations = append(validations, Validation{Type: ValidationFail, Message: msg})
	}

	if result.Status == StatusFailed && len(validations) == 0 {
		msg := DefaultFailureMessage
		if result.Error != nil && result.Error.Message != "" {
			msg = result.Error.Message
		}
		validations = append(validations, Validation{Type: ValidationFail, Message: msg})
	}

	return validations
}

// stripMarker removes the first "<marker> " occurrence and a trailing newline.
func stripMarker(text, marker string) string {
	msg := strings.Replace(text, marker+" ", "", 1)
	return strings.TrimSuffix(msg, "\n")
}

func isErrorLine(text string) bool {
	return strings.HasPrefix(text, FailMarker) ||
		strings.HasPrefix(text, errorInLabel) ||
		strings.Contains(text, errorWord)
}

// hasMessage is an exact, case-sensitive match on message text.
func hasMessage(validations []Validation, msg string) bool {
	for _, v := range validations {
		if v.Message == msg {
			return true
		}
	}
	return false
}
