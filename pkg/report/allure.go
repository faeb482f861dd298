package report

import (
	"encoding/base64"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qa-reports/stakeholder-report/pkg/core"
	"github.com/qa-reports/stakeholder-report/pkg/logger"
)

// Allure result schema types.

// AllureResult represents a single test result in Allure format.
type AllureResult struct {
	UUID          string              `json:"uuid"`
	HistoryID     string              `json:"historyId"`
	FullName      string              `json:"fullName"`
	Name          string              `json:"name"`
	Status        string              `json:"status"`
	Stage         string              `json:"stage"`
	Start         int64               `json:"start"`
	Stop          int64               `json:"stop"`
	Labels        []AllureLabel       `json:"labels"`
	StatusDetails AllureStatusDetails `json:"statusDetails"`
	Steps         []AllureStep        `json:"steps"`
	Attachments   []AllureAttachment  `json:"attachments"`
}

// AllureStep represents a step within a test result.
type AllureStep struct {
	Name        string             `json:"name"`
	Status      string             `json:"status"`
	Stage       string             `json:"stage"`
	Start       int64              `json:"start"`
	Stop        int64              `json:"stop"`
	Steps       []AllureStep       `json:"steps"`
	Attachments []AllureAttachment `json:"attachments"`
}

// AllureAttachment represents a file attachment.
type AllureAttachment struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}

// AllureLabel represents a label on a test result.
type AllureLabel struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AllureStatusDetails holds failure message and trace.
type AllureStatusDetails struct {
	Message string `json:"message"`
	Trace   string `json:"trace"`
}

// AllureCategory defines a failure category with regex matching.
type AllureCategory struct {
	Name            string   `json:"name"`
	MatchedStatuses []string `json:"matchedStatuses"`
	MessageRegex    string   `json:"messageRegex"`
}

// AllureExecutor holds executor info.
type AllureExecutor struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	ReportURL  string `json:"reportUrl"`
	ReportName string `json:"reportName"`
}

// allureNamespace seeds the name-based UUIDs of result files, so a record ID
// always maps to the same result file name.
var allureNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("stakeholder-report/allure"))

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// GenerateAllure writes Allure-compatible result files for a snapshot into
// allureDir. reportPath is recorded as the executor report URL when set.
func GenerateAllure(snap Snapshot, allureDir, reportPath string) error {
	if err := ensureDir(allureDir); err != nil {
		return fmt.Errorf("create allure-results dir: %w", err)
	}

	// Write one result file per test, with its screenshots next to it
	for _, rec := range snap.Records {
		result := buildAllureResult(rec)

		attachments, err := writeAllureAttachments(allureDir, result.UUID, rec.Screenshots)
		if err != nil {
			return err
		}
		result.Attachments = attachments

		resultPath := filepath.Join(allureDir, result.UUID+"-result.json")
		if err := atomicWriteJSON(resultPath, result); err != nil {
			return fmt.Errorf("write allure result %s: %w", rec.ID, err)
		}
	}

	if err := writeAllureCategories(allureDir); err != nil {
		return err
	}

	if err := writeAllureEnvironment(allureDir, snap); err != nil {
		return err
	}

	if err := writeAllureExecutor(allureDir, reportPath); err != nil {
		return err
	}

	return nil
}

// buildAllureResult builds an AllureResult from a test record.
func buildAllureResult(rec TestRecord) AllureResult {
	status := mapAllureStatus(rec.Status)

	var startMs, stopMs int64
	if t, err := time.Parse(time.RFC3339Nano, rec.StartTime); err == nil {
		startMs = t.UnixMilli()
		stopMs = startMs + rec.Duration
	}

	labels := []AllureLabel{
		{Name: "suite", Value: rec.Suite},
		{Name: "parentSuite", Value: filepath.Base(rec.Suite)},
		{Name: "framework", Value: "playwright"},
		{Name: "severity", Value: "normal"},
	}

	// Failed checks become the status message, passed checks stay in steps
	var statusDetails AllureStatusDetails
	var failures []string
	for _, v := range rec.Validations {
		if v.Type == ValidationFail {
			failures = append(failures, v.Message)
		}
	}
	if len(failures) > 0 {
		statusDetails.Message = failures[0]
		statusDetails.Trace = strings.Join(failures, "\n")
	}

	return AllureResult{
		UUID:          uuid.NewSHA1(allureNamespace, []byte(rec.ID)).String(),
		HistoryID:     fnv32aHash(rec.Title + ":" + rec.Suite),
		FullName:      rec.Suite + " > " + rec.Title,
		Name:          rec.Title,
		Status:        status,
		Stage:         "finished",
		Start:         startMs,
		Stop:          stopMs,
		Labels:        labels,
		StatusDetails: statusDetails,
		Steps:         buildAllureSteps(rec, startMs),
		Attachments:   []AllureAttachment{},
	}
}

// buildAllureSteps lays the test's steps out back to back from start, then
// appends one step per console validation.
func buildAllureSteps(rec TestRecord, start int64) []AllureStep {
	steps := make([]AllureStep, 0, len(rec.Steps)+len(rec.Validations))

	offset := start
	for _, s := range rec.Steps {
		steps = append(steps, AllureStep{
			Name:        s.Title,
			Status:      mapAllureStatus(s.Status),
			Stage:       "finished",
			Start:       offset,
			Stop:        offset + s.Duration,
			Steps:       []AllureStep{},
			Attachments: []AllureAttachment{},
		})
		offset += s.Duration
	}

	for _, v := range rec.Validations {
		status := "passed"
		if v.Type == ValidationFail {
			status = "failed"
		}
		steps = append(steps, AllureStep{
			Name:        v.Message,
			Status:      status,
			Stage:       "finished",
			Steps:       []AllureStep{},
			Attachments: []AllureAttachment{},
		})
	}

	return steps
}

// writeAllureAttachments decodes a record's screenshots into files next to
// its result file. Screenshots that fail to decode are skipped with a warning.
func writeAllureAttachments(allureDir, resultUUID string, shots Screenshots) ([]AllureAttachment, error) {
	attachments := []AllureAttachment{}
	for i, shot := range shots {
		contentType, payload, ok := core.ParseDataURI(shot.DataURI)
		if !ok {
			logger.Warn("screenshot %q of %s is not a data URI, skipping", shot.Name, resultUUID)
			continue
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			logger.Warn("screenshot %q of %s: %v", shot.Name, resultUUID, err)
			continue
		}

		name := unsafeFileChars.ReplaceAllString(shot.Name, "_")
		source := fmt.Sprintf("%s-%02d-%s-attachment%s", resultUUID, i, name, core.ExtensionFor(contentType))
		if err := atomicWriteFile(filepath.Join(allureDir, source), data); err != nil {
			return nil, fmt.Errorf("write allure attachment %s: %w", source, err)
		}

		attachments = append(attachments, AllureAttachment{
			Name:   shot.Name,
			Source: source,
			Type:   contentType,
		})
	}
	return attachments, nil
}

// mapAllureStatus maps a test status to an Allure status string.
func mapAllureStatus(s Status) string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// fnv32aHash returns a hex-encoded FNV-32a hash of the input string.
func fnv32aHash(s string) string {
	h := fnv.New32a()
	h.Write([]byte(s))
	return fmt.Sprintf("%08x", h.Sum32())
}

// writeAllureCategories writes categories.json for failure categorization.
func writeAllureCategories(allureDir string) error {
	categories := []AllureCategory{
		{Name: "Element Not Found", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*not found.*|.*no element.*"},
		{Name: "Element Not Visible", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*not visible.*|.*hidden.*"},
		{Name: "Timeout", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*timeout.*|.*timed out.*|.*exceeded.*"},
		{Name: "Assertion Failed", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*expect.*|.*assert.*"},
		{Name: "Navigation Error", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*navigation.*|.*net::.*"},
		{Name: "Script Error", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*error in.*|.*typeerror.*|.*referenceerror.*"},
	}

	path := filepath.Join(allureDir, "categories.json")
	if err := atomicWriteJSON(path, categories); err != nil {
		return fmt.Errorf("write categories.json: %w", err)
	}

	return nil
}

// writeAllureEnvironment writes environment.properties with run metadata.
func writeAllureEnvironment(allureDir string, snap Snapshot) error {
	var b strings.Builder
	b.WriteString("framework=playwright\n")
	b.WriteString(fmt.Sprintf("tests.total=%d\n", snap.Aggregates.Total))
	b.WriteString(fmt.Sprintf("tests.passed=%d\n", snap.Aggregates.Passed))
	b.WriteString(fmt.Sprintf("tests.failed=%d\n", snap.Aggregates.Failed))
	b.WriteString(fmt.Sprintf("tests.skipped=%d\n", snap.Aggregates.Skipped))
	b.WriteString(fmt.Sprintf("tests.successRate=%.1f\n", snap.Aggregates.SuccessRate))

	path := filepath.Join(allureDir, "environment.properties")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write environment.properties: %w", err)
	}

	return nil
}

// writeAllureExecutor writes executor.json.
func writeAllureExecutor(allureDir, reportPath string) error {
	executor := AllureExecutor{
		Name:       "stakeholder-report",
		Type:       "local",
		ReportURL:  reportPath,
		ReportName: "Stakeholder Report",
	}

	path := filepath.Join(allureDir, "executor.json")
	if err := atomicWriteJSON(path, executor); err != nil {
		return fmt.Errorf("write executor.json: %w", err)
	}

	return nil
}
