// Package validator checks run documents before a report is generated.
// Errors make a document unusable; warnings point at data the report will
// show differently from what the test runner recorded.
package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qa-reports/stakeholder-report/pkg/core"
	"github.com/qa-reports/stakeholder-report/pkg/report"
)

// ValidationError represents a validation finding with context.
type ValidationError struct {
	File    string
	Test    string // Record ID the finding relates to, if any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Test != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Test, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Result contains the validation result.
type Result struct {
	// Files is the list of run documents checked, in walk order.
	Files []string
	// Errors contains documents that cannot be turned into a report.
	Errors []error
	// Warnings contains data the report renders lossily.
	Warnings []error
}

// IsValid returns true if there are no validation errors.
func (r *Result) IsValid() bool {
	return len(r.Errors) == 0
}

// Validator validates run documents.
type Validator struct {
	strict bool
}

// New creates a new Validator. In strict mode warnings count as errors.
func New(strict bool) *Validator {
	return &Validator{strict: strict}
}

// Validate validates a file or every .json file below a directory.
func (v *Validator) Validate(path string) *Result {
	result := &Result{}

	info, err := os.Stat(path)
	if err != nil {
		result.Errors = append(result.Errors, &ValidationError{
			File:    path,
			Message: fmt.Sprintf("cannot access: %v", err),
		})
		return result
	}

	var files []string
	if info.IsDir() {
		files, err = collectRunFiles(path)
		if err != nil {
			result.Errors = append(result.Errors, &ValidationError{
				File:    path,
				Message: fmt.Sprintf("failed to scan directory: %v", err),
			})
			return result
		}
	} else {
		files = []string{path}
	}

	for _, file := range files {
		v.validateFile(file, result)
	}

	if v.strict {
		result.Errors = append(result.Errors, result.Warnings...)
		result.Warnings = nil
	}

	return result
}

// collectRunFiles finds all .json files in a directory.
func collectRunFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) == ".json" {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// validateFile decodes one document and inspects every test in it.
func (v *Validator) validateFile(filePath string, result *Result) {
	result.Files = append(result.Files, filePath)

	run, err := report.ReadRun(filePath)
	if err != nil {
		result.Errors = append(result.Errors, &ValidationError{File: filePath, Message: err.Error()})
		return
	}

	warn := func(test, format string, args ...interface{}) {
		result.Warnings = append(result.Warnings, &ValidationError{
			File:    filePath,
			Test:    test,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if len(run.Suites) == 0 {
		warn("", "run has no suites")
	}

	snap := report.Normalize(run)
	specIDs := make(map[string]string)

	i := 0
	for _, suite := range run.Suites {
		for _, spec := range report.FlattenSpecs(suite) {
			if spec.ID != "" && len(spec.Tests) > 0 {
				id := snap.Records[i].ID
				if prev, ok := specIDs[spec.ID]; ok {
					warn(id, "spec id %q already used by %s", spec.ID, prev)
				} else {
					specIDs[spec.ID] = id
				}
			}
			for _, test := range spec.Tests {
				checkTest(snap.Records[i], test, warn)
				i++
			}
		}
	}
}

// checkTest reports what the report will not show as the runner recorded it.
func checkTest(rec report.TestRecord, test report.Test, warn func(test, format string, args ...interface{})) {
	if len(test.Results) == 0 {
		warn(rec.ID, "no results, shown as skipped")
		return
	}
	if len(test.Results) > 1 {
		warn(rec.ID, "%d attempts, only the first is reported", len(test.Results))
	}
	if !rec.Status.IsKnown() {
		warn(rec.ID, "unrecognized status %q is not counted", rec.Status)
	}
	if rec.StartTime == "" {
		warn(rec.ID, "no start time, deep link will be empty")
	}
	for _, att := range test.Results[0].Attachments {
		if core.IsImageContentType(att.ContentType) && att.Body == "" {
			warn(rec.ID, "screenshot %q is not inline and will not be embedded", att.Name)
		}
	}
}
