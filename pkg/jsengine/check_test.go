package jsengine

import (
	"strings"
	"testing"

	"github.com/qa-reports/stakeholder-report/pkg/report"
)

func sampleSnapshot() report.Snapshot {
	shots := report.Screenshots{}.
		Set("homepage", "data:image/png;base64,aGVsbG8=").
		Set("search", "data:image/png;base64,d29ybGQ=")

	return report.Snapshot{
		Records: []report.TestRecord{
			{
				ID:        "home-0-0-0",
				Title:     "Homepage </script><b>loads</b>",
				Status:    report.StatusPassed,
				Duration:  1530,
				StartTime: "2024-01-31T10:15:00.000Z",
				Steps: []report.StepOutcome{
					{Title: "Open page", Status: report.StatusPassed, Duration: 800},
				},
				Validations: []report.Validation{{Type: report.ValidationPass, Message: `Title is "YouTube"`}},
				Screenshots: shots,
			},
			{
				ID:          "home-0-1-0",
				Title:       "Search works",
				Status:      report.StatusFailed,
				Duration:    2000,
				StartTime:   "2024-01-31T10:16:00.000Z",
				Steps:       []report.StepOutcome{},
				Validations: []report.Validation{{Type: report.ValidationFail, Message: "Test failed"}},
				Screenshots: report.Screenshots{},
			},
		},
		Aggregates:  report.Aggregates{Total: 2, Passed: 1, Failed: 1, SuccessRate: 50},
		StepColumns: []string{"Open page"},
	}
}

func TestCheckReport_RenderedReport(t *testing.T) {
	html, err := report.Render(sampleSnapshot(), report.HTMLConfig{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	check, err := CheckReport(html)
	if err != nil {
		t.Fatalf("CheckReport: %v", err)
	}

	if check.Tests != 2 || check.Rows != 2 {
		t.Errorf("Tests/Rows = %d/%d, want 2/2", check.Tests, check.Rows)
	}
	if check.InlineScripts != 2 {
		t.Errorf("InlineScripts = %d, want 2", check.InlineScripts)
	}
	if len(check.ExternalScripts) != 1 || check.ExternalScripts[0] != report.DefaultChartScriptURL {
		t.Errorf("ExternalScripts = %v, want [%s]", check.ExternalScripts, report.DefaultChartScriptURL)
	}
	want := []int64{1, 1, 0}
	if len(check.ChartCounts) != 3 {
		t.Fatalf("ChartCounts = %v, want %v", check.ChartCounts, want)
	}
	for i := range want {
		if check.ChartCounts[i] != want[i] {
			t.Errorf("ChartCounts = %v, want %v", check.ChartCounts, want)
			break
		}
	}
	if strings.Join(check.Listeners, ",") != "click,keydown" {
		t.Errorf("Listeners = %v, want [click keydown]", check.Listeners)
	}
}

func TestCheckReport_EmptyRun(t *testing.T) {
	snap := report.Normalize(&report.Run{Suites: []report.Suite{}})
	html, err := report.Render(snap, report.HTMLConfig{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	check, err := CheckReport(html)
	if err != nil {
		t.Fatalf("CheckReport: %v", err)
	}
	if check.Tests != 0 || check.Rows != 0 {
		t.Errorf("Tests/Rows = %d/%d, want 0/0", check.Tests, check.Rows)
	}
}

func TestCheckReport_RowMismatch(t *testing.T) {
	html := `<table><tr class="test-row"></tr></table>
<script>var allTestsData = [];</script>`

	check, err := CheckReport(html)
	if err == nil {
		t.Fatal("expected mismatch error")
	}
	if check == nil || check.Rows != 1 || check.Tests != 0 {
		t.Errorf("check = %+v, want Rows=1 Tests=0", check)
	}
}

func TestCheckReport_NoData(t *testing.T) {
	if _, err := CheckReport(`<html><body></body></html>`); err == nil {
		t.Error("expected error for report without test data")
	}
}

func TestCheckReport_BrokenScript(t *testing.T) {
	if _, err := CheckReport(`<script>var allTestsData = [;</script>`); err == nil {
		t.Error("expected error for broken script")
	}
}

func TestOpen_ShowScreenshots(t *testing.T) {
	html, err := report.Render(sampleSnapshot(), report.HTMLConfig{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	engine, err := Open(html, "show-screenshots", 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	active, err := engine.Eval(`document.getElementById('screenshotModal').classList.contains('active')`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if active != true {
		t.Error("screenshot modal not opened")
	}

	n, err := engine.EvalInt(`document.getElementById('screenshotsGrid').children.length`)
	if err != nil {
		t.Fatalf("EvalInt: %v", err)
	}
	if n != 2 {
		t.Errorf("grid items = %d, want 2", n)
	}

	src, err := engine.Eval(`document.getElementById('screenshotsGrid').children[1].children[0].src`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if src != "data:image/png;base64,d29ybGQ=" {
		t.Errorf("second image src = %v", src)
	}
}

func TestOpen_NoScreenshotsKeepsModalClosed(t *testing.T) {
	html, err := report.Render(sampleSnapshot(), report.HTMLConfig{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	engine, err := Open(html, "show-screenshots", 1)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	active, err := engine.Eval(`document.getElementById('screenshotModal').classList.contains('active')`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if active != false {
		t.Error("modal opened for a test without screenshots")
	}
}
