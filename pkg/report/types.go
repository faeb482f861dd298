// Package report turns the JSON result document of a browser test run into a
// single self-contained HTML report.
//
// Architecture:
//   - Run: the raw document as written by the test runner (read-only input)
//   - Normalize: flattens suites/specs/tests into ordered TestRecords plus
//     run aggregates and the step column set (pure)
//   - Render: builds the HTML document from a Snapshot (pure, no I/O)
//   - GenerateHTML: reads the input, runs both and writes the output atomically
//
// Everything is built once per generation call and never mutated afterwards.
package report

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/qa-reports/stakeholder-report/pkg/core"
)

// Status is re-exported from core for callers that only import report.
type Status = core.Status

// Status values.
const (
	StatusPassed  = core.StatusPassed
	StatusFailed  = core.StatusFailed
	StatusSkipped = core.StatusSkipped
)

// ============================================================================
// RUN DOCUMENT (report.json, produced by the test runner)
// ============================================================================

// Run is the raw result document of one complete test-suite execution.
type Run struct {
	Config *RunConfig    `json:"config,omitempty"`
	Suites []Suite       `json:"suites"`
	Errors []ResultError `json:"errors,omitempty"`
	Stats  *RunStats     `json:"stats,omitempty"`
}

// RunConfig holds the subset of runner configuration the report shows.
type RunConfig struct {
	Version  string          `json:"version,omitempty"`
	Workers  int             `json:"workers,omitempty"`
	Projects []ProjectConfig `json:"projects,omitempty"`
}

// ProjectConfig names one browser project.
type ProjectConfig struct {
	Name string `json:"name"`
}

// RunStats is the runner's own summary. It is informational only; the report
// always recomputes its aggregates from the tests.
type RunStats struct {
	StartTime  string  `json:"startTime,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	Expected   int     `json:"expected"`
	Unexpected int     `json:"unexpected"`
	Skipped    int     `json:"skipped"`
	Flaky      int     `json:"flaky"`
}

// Suite is one spec file (or a describe block nested inside it).
type Suite struct {
	Title  string  `json:"title"`
	File   string  `json:"file"`
	Line   int     `json:"line,omitempty"`
	Specs  []Spec  `json:"specs"`
	Suites []Suite `json:"suites,omitempty"`
}

// Spec is one test declaration.
type Spec struct {
	Title string `json:"title"`
	ID    string `json:"id"`
	File  string `json:"file,omitempty"`
	Line  int    `json:"line,omitempty"`
	OK    bool   `json:"ok"`
	Tests []Test `json:"tests"`
}

// Test is one execution of a spec in a project.
type Test struct {
	ProjectName string   `json:"projectName,omitempty"`
	Status      string   `json:"status,omitempty"` // expected, unexpected, flaky, skipped
	Results     []Result `json:"results"`
}

// Result is one attempt. Only the first attempt is used by the report.
type Result struct {
	Status      Status       `json:"status"`
	Duration    Millis       `json:"duration"`
	StartTime   string       `json:"startTime"`
	Retry       int          `json:"retry,omitempty"`
	Steps       []RawStep    `json:"steps,omitempty"`
	Stdout      []LogEntry   `json:"stdout,omitempty"`
	Stderr      []LogEntry   `json:"stderr,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Error       *ResultError `json:"error,omitempty"`
}

// Millis is a duration in milliseconds. The runner writes integers, but
// fractional values and null are accepted and truncated to zero decimals.
type Millis int64

// UnmarshalJSON implements json.Unmarshaler.
func (m *Millis) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*m = Millis(f)
	return nil
}

// RawStep is a named sub-phase of a test as reported by the runner.
type RawStep struct {
	Title    string       `json:"title"`
	Duration Millis       `json:"duration"`
	Error    *ResultError `json:"error,omitempty"`
	Steps    []RawStep    `json:"steps,omitempty"`
}

// LogEntry is one chunk of console output. The runner writes either text or
// base64 encoded bytes.
type LogEntry struct {
	Text   *string `json:"text,omitempty"`
	Buffer *string `json:"buffer,omitempty"`
}

// String returns the entry's text, decoding the buffer form if needed.
// Undecodable buffers yield an empty string.
func (l LogEntry) String() string {
	if l.Text != nil {
		return *l.Text
	}
	if l.Buffer != nil {
		data, err := base64.StdEncoding.DecodeString(*l.Buffer)
		if err != nil {
			return ""
		}
		return string(data)
	}
	return ""
}

// Attachment is a file attached to a result. Body is base64 when inline.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Body        string `json:"body,omitempty"`
	Path        string `json:"path,omitempty"`
}

// ResultError contains error details.
type ResultError struct {
	Message string `json:"message,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// ============================================================================
// NORMALIZED MODEL
// ============================================================================

// ValidationType marks a validation as a passed or failed check.
type ValidationType string

// Validation types.
const (
	ValidationPass ValidationType = "pass"
	ValidationFail ValidationType = "fail"
)

// Validation is a single pass/fail check message taken from console output.
type Validation struct {
	Type    ValidationType `json:"type"`
	Message string         `json:"message"`
}

// StepOutcome is one step of a test. Status is the test's own outcome.
type StepOutcome struct {
	Title    string `json:"title"`
	Status   Status `json:"status"`
	Duration int64  `json:"duration"` // milliseconds
}

// Screenshot is one named image as a data URI.
type Screenshot struct {
	Name    string
	DataURI string
}

// Screenshots is an insertion ordered name → data URI mapping.
type Screenshots []Screenshot

// Set stores uri under name. An existing name keeps its position and takes
// the new value.
func (s Screenshots) Set(name, uri string) Screenshots {
	for i := range s {
		if s[i].Name == name {
			s[i].DataURI = uri
			return s
		}
	}
	return append(s, Screenshot{Name: name, DataURI: uri})
}

// Get returns the data URI stored under name.
func (s Screenshots) Get(name string) (string, bool) {
	for _, shot := range s {
		if shot.Name == name {
			return shot.DataURI, true
		}
	}
	return "", false
}

// MarshalJSON encodes the screenshots as a name → data URI object with keys
// in insertion order.
func (s Screenshots) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, shot := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(shot.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(shot.DataURI)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a name → data URI object, keeping key order.
func (s *Screenshots) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("screenshots: expected object, got %v", tok)
	}

	shots := Screenshots{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		var uri string
		if err := dec.Decode(&uri); err != nil {
			return fmt.Errorf("screenshot %v: %w", keyTok, err)
		}
		shots = shots.Set(keyTok.(string), uri)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = shots
	return nil
}

// TestRecord is the flattened outcome of one leaf test.
type TestRecord struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Status      Status        `json:"status"`
	Duration    int64         `json:"duration"` // milliseconds
	StartTime   string        `json:"startTime"`
	Steps       []StepOutcome `json:"steps"`
	Validations []Validation  `json:"validations"`
	Screenshots Screenshots   `json:"screenshots"`
	Suite       string        `json:"suite"`
	SpecID      string        `json:"specID"`
}

// StepStatus returns the status shown in the step column title, or
// StatusSkipped if the test never ran a step with that title.
func (r *TestRecord) StepStatus(title string) Status {
	for _, s := range r.Steps {
		if s.Title == title {
			return s.Status
		}
	}
	return StatusSkipped
}

// Aggregates contains run level counts.
type Aggregates struct {
	Total        int     `json:"total"`
	Passed       int     `json:"passed"`
	Failed       int     `json:"failed"`
	Skipped      int     `json:"skipped"`
	Unrecognized int     `json:"unrecognized,omitempty"`
	SuccessRate  float64 `json:"successRate"` // percent, one decimal
}

// Snapshot is the immutable result of normalizing one run document.
type Snapshot struct {
	Records     []TestRecord `json:"tests"`
	Aggregates  Aggregates   `json:"aggregates"`
	StepColumns []string     `json:"stepColumns"`
}
