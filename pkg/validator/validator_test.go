package validator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

const cleanRun = `{"suites":[{"file":"home.spec.ts","specs":[{"title":"loads","id":"s1","tests":[{"results":[
  {"status":"passed","startTime":"2024-01-31T10:15:00.000Z",
   "attachments":[{"name":"shot","contentType":"image/png","body":"AAA"}]}
]}]}]}]}`

func TestValidate_SingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	writeFile(t, path, cleanRun)

	result := New(false).Validate(path)

	if !result.IsValid() {
		t.Errorf("expected valid, got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
	if len(result.Files) != 1 || result.Files[0] != path {
		t.Errorf("Files = %v, want [%s]", result.Files, path)
	}
}

func TestValidate_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "run1", "report.json"), cleanRun)
	writeFile(t, filepath.Join(dir, "run2", "report.json"), cleanRun)
	writeFile(t, filepath.Join(dir, "run2", "notes.txt"), "ignored")

	result := New(false).Validate(dir)

	if !result.IsValid() {
		t.Errorf("expected valid, got errors: %v", result.Errors)
	}
	if len(result.Files) != 2 {
		t.Errorf("expected 2 files, got %d: %v", len(result.Files), result.Files)
	}
}

func TestValidate_NonExistentPath(t *testing.T) {
	result := New(false).Validate("/nonexistent/report.json")

	if result.IsValid() {
		t.Error("expected invalid for missing path")
	}
}

func TestValidate_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	writeFile(t, path, `{"suites": [`)

	result := New(false).Validate(path)

	if result.IsValid() {
		t.Fatal("expected invalid for malformed JSON")
	}
	if !strings.Contains(result.Errors[0].Error(), path) {
		t.Errorf("error should name the file: %v", result.Errors[0])
	}
}

func TestValidate_Warnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	writeFile(t, path, `{"suites":[{"file":"x.spec.ts","specs":[
  {"title":"no results","id":"dup","tests":[{"results":[]}]},
  {"title":"retried","id":"dup","tests":[{"results":[
    {"status":"failed","startTime":"2024-01-31T10:15:00Z"},
    {"status":"passed","startTime":"2024-01-31T10:16:00Z"}
  ]}]},
  {"title":"odd","id":"s3","tests":[{"results":[
    {"status":"interrupted","attachments":[{"name":"disk","contentType":"image/png","path":"/tmp/a.png"}]}
  ]}]}
]}]}`)

	result := New(false).Validate(path)

	if !result.IsValid() {
		t.Fatalf("warnings must not make the document invalid: %v", result.Errors)
	}

	var messages []string
	for _, w := range result.Warnings {
		messages = append(messages, w.Error())
	}
	joined := strings.Join(messages, "\n")

	for _, want := range []string{
		"x.spec-0-0-0: no results, shown as skipped",
		`x.spec-0-1-0: spec id "dup" already used by x.spec-0-0-0`,
		"x.spec-0-1-0: 2 attempts, only the first is reported",
		`x.spec-0-2-0: unrecognized status "interrupted" is not counted`,
		"x.spec-0-2-0: no start time, deep link will be empty",
		`x.spec-0-2-0: screenshot "disk" is not inline and will not be embedded`,
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing warning %q in:\n%s", want, joined)
		}
	}
}

func TestValidate_NoSuitesWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	writeFile(t, path, `{"suites":[]}`)

	result := New(false).Validate(path)

	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0].Error(), "no suites") {
		t.Errorf("Warnings = %v", result.Warnings)
	}
}

func TestValidate_StrictPromotesWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	writeFile(t, path, `{"suites":[]}`)

	result := New(true).Validate(path)

	if result.IsValid() {
		t.Error("expected warnings to be errors in strict mode")
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none in strict mode", result.Warnings)
	}
}

func TestResult_IsValid(t *testing.T) {
	r := &Result{}
	if !r.IsValid() {
		t.Error("expected empty result to be valid")
	}

	r.Errors = append(r.Errors, &ValidationError{File: "test.json", Message: "error"})
	if r.IsValid() {
		t.Error("expected result with errors to be invalid")
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{File: "report.json", Message: "something wrong"}
	if err.Error() != "report.json: something wrong" {
		t.Errorf("unexpected error string: %s", err.Error())
	}

	err.Test = "home-0-0-0"
	if err.Error() != "report.json: home-0-0-0: something wrong" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
}
