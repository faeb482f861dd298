package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/qa-reports/stakeholder-report/pkg/core"
)

// Normalize flattens a run document into a Snapshot.
// It never fails: missing optional fields fall back to zero values.
func Normalize(run *Run) Snapshot {
	var records []TestRecord
	if run != nil {
		for suiteIdx, suite := range run.Suites {
			base := suiteBaseName(suite.File)
			for specIdx, spec := range FlattenSpecs(suite) {
				for testIdx, test := range spec.Tests {
					id := fmt.Sprintf("%s-%d-%d-%d", base, suiteIdx, specIdx, testIdx)
					records = append(records, buildRecord(id, suite.File, spec, test))
				}
			}
		}
	}
	if records == nil {
		records = []TestRecord{}
	}

	return Snapshot{
		Records:     records,
		Aggregates:  aggregate(records),
		StepColumns: stepColumns(records),
	}
}

// FlattenSpecs returns a suite's own specs followed by the specs of its
// nested describe blocks, depth first, in document order.
func FlattenSpecs(suite Suite) []Spec {
	specs := append([]Spec(nil), suite.Specs...)
	for _, child := range suite.Suites {
		specs = append(specs, FlattenSpecs(child)...)
	}
	return specs
}

// buildRecord builds the TestRecord of one test from its first attempt.
func buildRecord(id, suiteFile string, spec Spec, test Test) TestRecord {
	var result Result
	if len(test.Results) > 0 {
		result = test.Results[0]
	} else {
		// Never executed: the runner reports these as skipped.
		result.Status = StatusSkipped
	}

	status := result.Status

	steps := make([]StepOutcome, 0, len(result.Steps))
	for _, step := range result.Steps {
		steps = append(steps, StepOutcome{
			Title:    step.Title,
			Status:   status.Outcome(),
			Duration: int64(step.Duration),
		})
	}

	return TestRecord{
		ID:          id,
		Title:       spec.Title,
		Status:      status,
		Duration:    int64(result.Duration),
		StartTime:   result.StartTime,
		Steps:       steps,
		Validations: extractValidations(result),
		Screenshots: extractScreenshots(result.Attachments),
		Suite:       suiteFile,
		SpecID:      spec.ID,
	}
}

// extractScreenshots keeps image attachments that carry an inline body.
func extractScreenshots(attachments []Attachment) Screenshots {
	shots := Screenshots{}
	for _, att := range attachments {
		if !core.IsImageContentType(att.ContentType) || att.Body == "" {
			continue
		}
		shots = shots.Set(att.Name, core.DataURI(att.ContentType, att.Body))
	}
	return shots
}

// aggregate folds the records into run level counts.
func aggregate(records []TestRecord) Aggregates {
	agg := Aggregates{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case StatusPassed:
			agg.Passed++
		case StatusFailed:
			agg.Failed++
		case StatusSkipped:
			agg.Skipped++
		default:
			agg.Unrecognized++
		}
	}
	agg.SuccessRate = successRate(agg.Passed, agg.Total)
	return agg
}

// successRate returns passed/total as a percentage rounded to one decimal.
func successRate(passed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(passed)/float64(total)*1000) / 10
}

// stepColumns returns the distinct step titles in first-occurrence order.
func stepColumns(records []TestRecord) []string {
	seen := make(map[string]bool)
	columns := []string{}
	for _, r := range records {
		for _, s := range r.Steps {
			if seen[s.Title] {
				continue
			}
			seen[s.Title] = true
			columns = append(columns, s.Title)
		}
	}
	return columns
}

// suiteBaseName strips the extension from a suite file name.
func suiteBaseName(file string) string {
	slash := strings.LastIndexAny(file, `/\`)
	dot := strings.LastIndex(file, ".")
	if dot < 0 || dot <= slash+1 {
		return file
	}
	return file[:dot]
}
