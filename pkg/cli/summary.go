package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/qa-reports/stakeholder-report/pkg/report"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// colorsEnabled determines if ANSI colors should be used
var colorsEnabled = true

func init() {
	// Respect NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		colorsEnabled = false
		return
	}
	// Check if stdout is a terminal
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		colorsEnabled = false
	}
}

// color returns the color code if colors are enabled, empty string otherwise
func color(c string) string {
	if colorsEnabled {
		return c
	}
	return ""
}

// printSummary prints the per-test table and run totals.
func printSummary(w io.Writer, title string, snap report.Snapshot) {
	if title == "" {
		title = report.DefaultTitle
	}
	agg := snap.Aggregates

	// Print headline counts
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s%s%s\n", color(colorBold), title, color(colorReset))
	if agg.Passed > 0 {
		fmt.Fprintf(w, "  %s%d passing%s\n", color(colorGreen), agg.Passed, color(colorReset))
	}
	if agg.Failed > 0 {
		fmt.Fprintf(w, "  %s%d failing%s\n", color(colorRed), agg.Failed, color(colorReset))
	}
	if agg.Skipped > 0 {
		fmt.Fprintf(w, "  %s%d skipped%s\n", color(colorCyan), agg.Skipped, color(colorReset))
	}
	fmt.Fprintln(w)

	// Print table
	tableWidth := 92
	fmt.Fprintln(w, strings.Repeat("═", tableWidth))
	fmt.Fprintf(w, "  %-44s %6s %6s %9s %10s\n", "Test", "Status", "Steps", "Checks", "Duration")
	fmt.Fprintln(w, strings.Repeat("─", tableWidth))

	var totalDuration int64
	for _, rec := range snap.Records {
		status, statusColor := statusCell(rec.Status)

		// Truncate name if too long
		name := rec.Title
		if len([]rune(name)) > 44 {
			name = string([]rune(name)[:41]) + "..."
		}

		fmt.Fprintf(w, "  %-44s %s%6s%s %6d %9s %10s\n",
			name, statusColor, status, color(colorReset),
			len(rec.Steps), checksCell(rec.Validations),
			formatDuration(rec.Duration))
		totalDuration += rec.Duration
	}

	// Print totals row
	fmt.Fprintln(w, strings.Repeat("─", tableWidth))
	statusStr := fmt.Sprintf("%d/%d", agg.Passed, agg.Total)
	statusColor := color(colorGreen)
	if agg.Failed > 0 {
		statusColor = color(colorRed)
	}
	fmt.Fprintf(w, "  %s%-44s%s %s%6s%s %6s %9s %10s\n",
		color(colorBold), "TOTAL", color(colorReset),
		statusColor, statusStr, color(colorReset),
		"", "", formatDuration(totalDuration))
	fmt.Fprintf(w, "  %sSuccess rate: %.1f%%%s\n", color(colorGray), agg.SuccessRate, color(colorReset))
	fmt.Fprintln(w, strings.Repeat("═", tableWidth))
}

func statusCell(s report.Status) (string, string) {
	switch s {
	case report.StatusPassed:
		return "✓ PASS", color(colorGreen)
	case report.StatusFailed:
		return "✗ FAIL", color(colorRed)
	case report.StatusSkipped:
		return "- SKIP", color(colorCyan)
	default:
		return "? " + strings.ToUpper(string(s)), color(colorYellow)
	}
}

// checksCell formats validations as passed/total.
func checksCell(validations []report.Validation) string {
	if len(validations) == 0 {
		return "-"
	}
	passed := 0
	for _, v := range validations {
		if v.Type == report.ValidationPass {
			passed++
		}
	}
	return fmt.Sprintf("%d/%d", passed, len(validations))
}

// formatDuration formats milliseconds to a human-readable string.
// Shows milliseconds for values < 1s, seconds otherwise.
func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	if ms < 60000 {
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	}
	mins := ms / 60000
	secs := (ms % 60000) / 1000
	return fmt.Sprintf("%dm %ds", mins, secs)
}
