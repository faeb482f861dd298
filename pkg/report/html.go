package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/qa-reports/stakeholder-report/pkg/core"
)

// Defaults for HTMLConfig.
const (
	DefaultTitle          = "Playwright Stakeholder Report"
	DefaultChartScriptURL = "https://cdn.jsdelivr.net/npm/chart.js@4.4.3/dist/chart.umd.min.js"
	DefaultDeepLinkBase   = "../test-results/index.html"
	DefaultOutputName     = "customReport.html"
)

// HTMLConfig contains configuration for HTML report generation.
type HTMLConfig struct {
	OutputPath     string // Path to write the HTML file (default: customReport.html next to the input)
	Title          string // Report title
	ChartScriptURL string // The one external script the report references
	DeepLinkBase   string // Per-test links point to <DeepLinkBase>?t=<start time>
}

func (cfg HTMLConfig) withDefaults() HTMLConfig {
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if cfg.ChartScriptURL == "" {
		cfg.ChartScriptURL = DefaultChartScriptURL
	}
	if cfg.DeepLinkBase == "" {
		cfg.DeepLinkBase = DefaultDeepLinkBase
	}
	return cfg
}

// GenerateHTML generates an HTML report from a run document on disk.
// Either the whole report is written or nothing is: the output is replaced
// atomically and only after rendering succeeded. The snapshot is returned
// so callers can produce further outputs from it.
func GenerateHTML(inputPath string, cfg HTMLConfig) (snap *Snapshot, err error) {
	run, err := ReadRun(inputPath)
	if err != nil {
		return nil, err
	}

	cfg.OutputPath = OutputPathFor(inputPath, cfg)

	// Unexpected shapes deep in the document must not crash the caller.
	defer func() {
		if r := recover(); r != nil {
			snap = nil
			err = core.ErrGenerationFailure.WithPath(inputPath).WithCause(fmt.Errorf("%v", r))
		}
	}()

	s := Normalize(run)

	html, err := Render(s, cfg)
	if err != nil {
		return nil, core.ErrGenerationFailure.WithPath(inputPath).WithMessage("render html").WithCause(err)
	}

	if err := atomicWriteFile(cfg.OutputPath, []byte(html)); err != nil {
		return nil, core.ErrGenerationFailure.WithPath(cfg.OutputPath).WithMessage("write html").WithCause(err)
	}

	return &s, nil
}

// OutputPathFor returns where GenerateHTML writes the report for inputPath.
func OutputPathFor(inputPath string, cfg HTMLConfig) string {
	if cfg.OutputPath != "" {
		return cfg.OutputPath
	}
	return filepath.Join(filepath.Dir(inputPath), DefaultOutputName)
}

// HTMLData contains all data needed for the HTML template.
type HTMLData struct {
	Title          string
	ChartScriptURL string
	Summary        Aggregates
	SuccessRate    string
	StepColumns    []string
	Rows           []RowHTMLData
	ColSpan        int
	ChartData      template.JS // [passed, failed, skipped]
	JSONData       template.JS // all records, screenshots included
}

// RowHTMLData contains one test row formatted for HTML.
type RowHTMLData struct {
	Index           int
	Record          TestRecord
	StatusClass     string
	StatusLabel     string
	DurationStr     string
	ReportLink      string
	StepCells       []StepCellHTMLData
	ScreenshotCount int
}

// StepCellHTMLData is one step column cell.
type StepCellHTMLData struct {
	Icon  string
	Class string
}

// Render builds the complete HTML document for a snapshot. It performs no
// I/O and its output depends only on its arguments.
func Render(snap Snapshot, cfg HTMLConfig) (string, error) {
	data, err := buildHTMLData(snap, cfg.withDefaults())
	if err != nil {
		return "", err
	}
	return renderHTML(data)
}

func buildHTMLData(snap Snapshot, cfg HTMLConfig) (HTMLData, error) {
	rows := make([]RowHTMLData, len(snap.Records))
	for i, rec := range snap.Records {
		cells := make([]StepCellHTMLData, len(snap.StepColumns))
		for j, title := range snap.StepColumns {
			cells[j] = stepCell(rec.StepStatus(title))
		}

		rows[i] = RowHTMLData{
			Index:           i,
			Record:          rec,
			StatusClass:     "status-" + string(rec.Status),
			StatusLabel:     statusLabel(rec.Status),
			DurationStr:     formatSeconds(rec.Duration),
			ReportLink:      deepLink(cfg.DeepLinkBase, rec.StartTime),
			StepCells:       cells,
			ScreenshotCount: len(rec.Screenshots),
		}
	}

	records := snap.Records
	if records == nil {
		records = []TestRecord{}
	}
	jsonBytes, err := json.Marshal(records)
	if err != nil {
		return HTMLData{}, fmt.Errorf("marshal tests data: %w", err)
	}
	chartBytes, err := json.Marshal([]int{snap.Aggregates.Passed, snap.Aggregates.Failed, snap.Aggregates.Skipped})
	if err != nil {
		return HTMLData{}, fmt.Errorf("marshal chart data: %w", err)
	}

	return HTMLData{
		Title:          cfg.Title,
		ChartScriptURL: cfg.ChartScriptURL,
		Summary:        snap.Aggregates,
		SuccessRate:    fmt.Sprintf("%.1f", snap.Aggregates.SuccessRate),
		StepColumns:    snap.StepColumns,
		Rows:           rows,
		ColSpan:        4 + len(snap.StepColumns) + 2,
		ChartData:      template.JS(chartBytes),
		JSONData:       template.JS(jsonBytes),
	}, nil
}

func stepCell(status Status) StepCellHTMLData {
	switch status {
	case StatusPassed:
		return StepCellHTMLData{Icon: "✅", Class: "step-pass"}
	case StatusFailed:
		return StepCellHTMLData{Icon: "❌", Class: "step-fail"}
	default:
		return StepCellHTMLData{Icon: "⊘", Class: "step-none"}
	}
}

func statusLabel(s Status) string {
	if s == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(string(s))
}

// formatSeconds formats milliseconds as seconds with two decimals.
func formatSeconds(ms int64) string {
	return fmt.Sprintf("%.2f", float64(ms)/1000)
}

// deepLink builds the per-test link from the first 19 characters of the
// ISO-8601 start time with ':' and '-' removed, e.g. 20240131T101500.
func deepLink(base, startTime string) string {
	t := startTime
	if len(t) > 19 {
		t = t[:19]
	}
	t = strings.NewReplacer(":", "", "-", "").Replace(t)
	return base + "?t=" + t
}

func renderHTML(data HTMLData) (string, error) {
	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        :root {
            --passed: #28a745;
            --passed-bg: #d4edda;
            --passed-text: #155724;
            --failed: #dc3545;
            --failed-bg: #f8d7da;
            --failed-text: #721c24;
            --skipped: #ffc107;
            --skipped-bg: #fff3cd;
            --skipped-text: #856404;
            --accent: #007bff;
            --accent-dark: #0056b3;
            --text-muted: #666;
            --border-color: #ddd;
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            padding: 20px;
            background: linear-gradient(135deg, #f5f7fa 0%, #c3cfe2 100%);
            min-height: 100vh;
        }

        .container {
            max-width: 1400px;
            margin: auto;
        }

        h1 {
            color: #333;
            text-align: center;
            margin-bottom: 10px;
            font-size: 2.5em;
        }

        /* Summary */
        .summary-stats {
            text-align: center;
            margin: 20px 0;
            font-size: 1.1em;
        }

        .stat-item {
            display: inline-block;
            margin: 0 20px;
        }

        .stat-label {
            color: var(--text-muted);
            font-weight: 500;
        }

        .stat-value {
            font-size: 1.8em;
            font-weight: bold;
            margin-top: 5px;
        }

        .stat-passed { color: var(--passed); }
        .stat-failed { color: var(--failed); }
        .stat-skipped { color: var(--skipped); }

        /* Chart */
        .charts-container {
            display: flex;
            justify-content: center;
            gap: 50px;
            margin: 40px 0;
            flex-wrap: wrap;
        }

        .chart-box {
            background: white;
            padding: 30px;
            border-radius: 10px;
            box-shadow: 0 4px 15px rgba(0, 0, 0, 0.1);
            flex: 0 1 400px;
        }

        .chart-box h3 {
            text-align: center;
            margin-bottom: 20px;
            color: #333;
        }

        #resultsPieChart {
            max-width: 100%;
        }

        /* Table */
        .table-wrapper {
            background: white;
            border-radius: 10px;
            box-shadow: 0 4px 15px rgba(0, 0, 0, 0.1);
            margin-top: 40px;
            overflow-x: auto;
        }

        .table-title {
            background-color: var(--accent);
            color: white;
            padding: 20px;
            font-size: 1.3em;
            font-weight: bold;
        }

        table {
            width: 100%;
            border-collapse: collapse;
        }

        thead {
            background-color: var(--accent-dark);
            color: white;
        }

        th {
            padding: 15px;
            text-align: left;
            border-bottom: 2px solid var(--border-color);
            font-size: 0.95em;
        }

        th.center {
            text-align: center;
        }

        th.step-header {
            text-align: center;
            min-width: 120px;
        }

        td {
            padding: 15px;
            border-bottom: 1px solid #eee;
        }

        tbody tr.test-row:hover {
            background-color: #f8f9fa;
        }

        .test-id {
            font-family: 'Courier New', monospace;
            font-size: 0.85em;
            color: var(--text-muted);
            word-break: break-all;
        }

        .test-title {
            font-weight: 600;
            color: var(--accent);
            text-decoration: none;
        }

        .test-title:hover {
            text-decoration: underline;
            color: var(--accent-dark);
        }

        .status-cell {
            text-align: center;
        }

        .status-badge {
            display: inline-block;
            padding: 5px 12px;
            border-radius: 20px;
            font-weight: bold;
            font-size: 0.9em;
            text-align: center;
            min-width: 90px;
            background-color: #e9ecef;
            color: #495057;
            border: 1px solid #ced4da;
        }

        .status-passed {
            background-color: var(--passed-bg);
            color: var(--passed-text);
            border-color: #c3e6cb;
        }

        .status-failed {
            background-color: var(--failed-bg);
            color: var(--failed-text);
            border-color: #f5c6cb;
        }

        .status-skipped {
            background-color: var(--skipped-bg);
            color: var(--skipped-text);
            border-color: #ffeaa7;
        }

        .step-column {
            text-align: center;
            font-size: 1.5em;
            min-width: 60px;
        }

        .step-pass { color: var(--passed); }
        .step-fail { color: var(--failed); }
        .step-none { color: #adb5bd; }

        .duration-cell {
            text-align: center;
            color: var(--text-muted);
            font-size: 0.9em;
        }

        .screenshots-cell,
        .details-cell {
            text-align: center;
        }

        .screenshot-btn,
        .details-btn {
            display: inline-block;
            color: white;
            padding: 6px 12px;
            border-radius: 5px;
            cursor: pointer;
            font-size: 0.85em;
            border: none;
            transition: background-color 0.3s ease;
        }

        .screenshot-btn { background-color: #17a2b8; }
        .screenshot-btn:hover { background-color: #138496; }
        .details-btn { background-color: #6c757d; }
        .details-btn:hover { background-color: #5a6268; }

        .screenshot-btn.no-images,
        .screenshot-btn.no-images:hover {
            background-color: #ccc;
            cursor: not-allowed;
        }

        /* Validation rows */
        .validation-row {
            background-color: #f0f8ff;
            border-top: 2px solid var(--accent);
        }

        .validation-details {
            padding: 20px !important;
        }

        .validations-container h4 {
            margin: 0 0 15px 0;
            color: #333;
            font-size: 1.05em;
        }

        .validation-list {
            list-style: none;
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(300px, 1fr));
            gap: 10px;
        }

        .validation-list li {
            padding: 10px 15px;
            border-radius: 5px;
            border-left: 4px solid;
            font-size: 0.9em;
            line-height: 1.4;
        }

        .validation-pass {
            border-left-color: var(--passed);
            color: var(--passed-text);
            background-color: var(--passed-bg);
        }

        .validation-fail {
            border-left-color: var(--failed);
            color: var(--failed-text);
            background-color: var(--failed-bg);
        }

        /* Screenshot modal */
        .modal {
            display: none;
            position: fixed;
            z-index: 1000;
            left: 0;
            top: 0;
            width: 100%;
            height: 100%;
            background-color: rgba(0, 0, 0, 0.7);
        }

        .modal.active {
            display: block;
        }

        .modal-content {
            background-color: white;
            margin: 5% auto;
            padding: 30px;
            border-radius: 10px;
            max-width: 90%;
            max-height: 80vh;
            overflow-y: auto;
            box-shadow: 0 5px 25px rgba(0, 0, 0, 0.3);
        }

        .modal-header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            margin-bottom: 20px;
            padding-bottom: 15px;
            border-bottom: 2px solid var(--border-color);
        }

        .modal-header h2 {
            color: #333;
        }

        .close-btn {
            font-size: 2em;
            font-weight: bold;
            color: #aaa;
            cursor: pointer;
            background: none;
            border: none;
            line-height: 1;
        }

        .close-btn:hover {
            color: #000;
        }

        .screenshots-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(300px, 1fr));
            gap: 20px;
            margin-top: 20px;
        }

        .screenshot-item {
            text-align: center;
            padding: 15px;
            background: #f9f9f9;
            border-radius: 8px;
            border: 1px solid var(--border-color);
        }

        .screenshot-item h4 {
            margin-bottom: 10px;
            color: #333;
            font-size: 0.95em;
            word-break: break-word;
        }

        .screenshot-item img {
            max-width: 100%;
            height: auto;
            border-radius: 5px;
            border: 2px solid var(--border-color);
            cursor: pointer;
            transition: transform 0.3s ease;
        }

        .screenshot-item img:hover {
            transform: scale(1.05);
        }

        /* Fullscreen viewer */
        .screenshot-fullscreen {
            display: none;
            position: fixed;
            z-index: 1001;
            left: 0;
            top: 0;
            width: 100%;
            height: 100%;
            background-color: rgba(0, 0, 0, 0.95);
        }

        .screenshot-fullscreen.active {
            display: flex;
            align-items: center;
            justify-content: center;
        }

        .screenshot-fullscreen img {
            max-width: 90%;
            max-height: 90%;
        }

        .screenshot-fullscreen .close-btn {
            position: absolute;
            top: 20px;
            right: 30px;
            color: white;
            font-size: 3em;
        }

        @media (max-width: 768px) {
            .charts-container {
                flex-direction: column;
                gap: 30px;
            }

            .chart-box {
                flex: 1;
            }

            .stat-item {
                display: block;
                margin: 15px 0;
            }

            h1 {
                font-size: 1.8em;
            }

            th, td {
                padding: 10px;
                font-size: 0.85em;
            }

            .screenshots-grid {
                grid-template-columns: 1fr;
            }
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>🎭 {{.Title}}</h1>

        <div class="summary-stats" id="summaryStats">
            <div class="stat-item">
                <div class="stat-label">Total Tests</div>
                <div class="stat-value" id="stat-total">{{.Summary.Total}}</div>
            </div>
            <div class="stat-item">
                <div class="stat-label">Passed</div>
                <div class="stat-value stat-passed" id="stat-passed">{{.Summary.Passed}}</div>
            </div>
            <div class="stat-item">
                <div class="stat-label">Failed</div>
                <div class="stat-value stat-failed" id="stat-failed">{{.Summary.Failed}}</div>
            </div>
            <div class="stat-item">
                <div class="stat-label">Skipped</div>
                <div class="stat-value stat-skipped" id="stat-skipped">{{.Summary.Skipped}}</div>
            </div>
            <div class="stat-item">
                <div class="stat-label">Success Rate</div>
                <div class="stat-value stat-passed" id="stat-success-rate">{{.SuccessRate}}%</div>
            </div>
        </div>

        <div class="charts-container">
            <div class="chart-box">
                <h3>Test Results Distribution</h3>
                <canvas id="resultsPieChart"></canvas>
            </div>
        </div>

        <div class="table-wrapper">
            <div class="table-title">Test Cases Details</div>
            <table>
                <thead>
                    <tr>
                        <th style="min-width: 200px;">Test ID</th>
                        <th style="min-width: 250px;">Test Title</th>
                        <th class="center" style="width: 100px;">Status</th>
                        <th class="center" style="width: 100px;">Duration (s)</th>
                        {{- range .StepColumns}}
                        <th class="step-header">{{.}}</th>
                        {{- end}}
                        <th class="center" style="width: 120px;">Screenshots</th>
                        <th class="center" style="width: 100px;">Details</th>
                    </tr>
                </thead>
                <tbody>
                    {{- range .Rows}}
                    <tr class="test-row" data-test-index="{{.Index}}">
                        <td class="test-id">{{.Record.ID}}</td>
                        <td><a class="test-title" href="{{.ReportLink}}" target="_blank" title="Open full test report">{{.Record.Title}}</a></td>
                        <td class="status-cell"><span class="status-badge {{.StatusClass}}">{{.StatusLabel}}</span></td>
                        <td class="duration-cell">{{.DurationStr}}s</td>
                        {{- range .StepCells}}
                        <td class="step-column {{.Class}}">{{.Icon}}</td>
                        {{- end}}
                        {{- if gt .ScreenshotCount 0}}
                        <td class="screenshots-cell"><button class="screenshot-btn" data-action="show-screenshots" data-test-index="{{.Index}}">📸 View ({{.ScreenshotCount}})</button></td>
                        {{- else}}
                        <td class="screenshots-cell"><button class="screenshot-btn no-images" disabled>N/A</button></td>
                        {{- end}}
                        <td class="details-cell"><button class="details-btn" data-action="toggle-validations" data-test-index="{{.Index}}">📋 Details</button></td>
                    </tr>
                    {{- if .Record.Validations}}
                    <tr class="validation-row" id="validations-{{.Index}}" style="display:none;">
                        <td colspan="{{$.ColSpan}}" class="validation-details">
                            <div class="validations-container">
                                <h4>Detailed Checks:</h4>
                                <ul class="validation-list">
                                    {{- range .Record.Validations}}
                                    {{- if eq .Type "pass"}}
                                    <li class="validation-pass">✅ {{.Message}}</li>
                                    {{- else}}
                                    <li class="validation-fail">❌ {{.Message}}</li>
                                    {{- end}}
                                    {{- end}}
                                </ul>
                            </div>
                        </td>
                    </tr>
                    {{- end}}
                    {{- end}}
                </tbody>
            </table>
        </div>
    </div>

    <div id="screenshotModal" class="modal">
        <div class="modal-content">
            <div class="modal-header">
                <h2 id="modalTitle">Screenshots</h2>
                <button class="close-btn" data-action="close-screenshots">&times;</button>
            </div>
            <div class="screenshots-grid" id="screenshotsGrid"></div>
        </div>
    </div>

    <div id="fullscreenViewer" class="screenshot-fullscreen">
        <button class="close-btn" data-action="close-fullscreen">&times;</button>
        <img id="fullscreenImage" src="" alt="Fullscreen">
    </div>

    <script src="{{.ChartScriptURL}}"></script>
    <script id="report-data">
        var allTestsData = {{.JSONData}};
        var chartCounts = {{.ChartData}};
    </script>
    <script id="report-behavior">
        function renderChart() {
            var canvas = document.getElementById('resultsPieChart');
            if (!canvas || typeof Chart === 'undefined') {
                return;
            }
            new Chart(canvas.getContext('2d'), {
                type: 'doughnut',
                data: {
                    labels: ['Passed', 'Failed', 'Skipped'],
                    datasets: [{
                        data: chartCounts,
                        backgroundColor: ['#28a745', '#dc3545', '#ffc107'],
                        borderColor: ['#1e7e34', '#bd2130', '#e0a800'],
                        borderWidth: 2,
                        hoverOffset: 10
                    }]
                },
                options: {
                    responsive: true,
                    maintainAspectRatio: true,
                    plugins: {
                        title: {
                            display: true,
                            text: 'Test Execution Summary',
                            font: { size: 16, weight: 'bold' }
                        },
                        legend: {
                            position: 'bottom',
                            labels: { font: { size: 12 }, padding: 15 }
                        }
                    }
                }
            });
        }

        function escapeHtml(text) {
            var div = document.createElement('div');
            div.textContent = text == null ? '' : String(text);
            return div.innerHTML;
        }

        function toggleValidations(testIndex) {
            var row = document.getElementById('validations-' + testIndex);
            if (row) {
                row.style.display = row.style.display === 'none' ? 'table-row' : 'none';
            }
        }

        function showScreenshots(testIndex) {
            var test = allTestsData[testIndex];
            var names = test && test.screenshots ? Object.keys(test.screenshots) : [];
            if (names.length === 0) {
                return;
            }

            var grid = document.getElementById('screenshotsGrid');
            document.getElementById('modalTitle').textContent = 'Screenshots: ' + test.title;
            grid.innerHTML = '';

            names.forEach(function (name) {
                var item = document.createElement('div');
                item.className = 'screenshot-item';
                item.innerHTML = '<h4>' + escapeHtml(name) + '</h4>';

                var img = document.createElement('img');
                img.src = test.screenshots[name];
                img.alt = name;
                img.title = 'Click to view fullscreen';
                img.setAttribute('data-action', 'open-fullscreen');
                item.appendChild(img);

                grid.appendChild(item);
            });

            document.getElementById('screenshotModal').classList.add('active');
        }

        function closeScreenshotModal() {
            document.getElementById('screenshotModal').classList.remove('active');
        }

        function openFullscreen(src) {
            document.getElementById('fullscreenImage').src = src;
            document.getElementById('fullscreenViewer').classList.add('active');
        }

        function closeFullscreen() {
            document.getElementById('fullscreenViewer').classList.remove('active');
        }

        document.addEventListener('click', function (event) {
            var modal = document.getElementById('screenshotModal');
            if (event.target === modal) {
                closeScreenshotModal();
                return;
            }

            var el = event.target.closest('[data-action]');
            if (!el) {
                return;
            }
            var index = parseInt(el.getAttribute('data-test-index'), 10);

            switch (el.getAttribute('data-action')) {
                case 'toggle-validations':
                    toggleValidations(index);
                    break;
                case 'show-screenshots':
                    showScreenshots(index);
                    break;
                case 'close-screenshots':
                    closeScreenshotModal();
                    break;
                case 'open-fullscreen':
                    openFullscreen(el.src);
                    break;
                case 'close-fullscreen':
                    closeFullscreen();
                    break;
            }
        });

        document.addEventListener('keydown', function (event) {
            if (event.key !== 'Escape') {
                return;
            }
            if (document.getElementById('fullscreenViewer').classList.contains('active')) {
                closeFullscreen();
            } else {
                closeScreenshotModal();
            }
        });

        renderChart();
    </script>
</body>
</html>
`
