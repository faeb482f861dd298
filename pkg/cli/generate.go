package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/qa-reports/stakeholder-report/pkg/config"
	"github.com/qa-reports/stakeholder-report/pkg/core"
	"github.com/qa-reports/stakeholder-report/pkg/logger"
	"github.com/qa-reports/stakeholder-report/pkg/report"
)

var generateCommand = &cli.Command{
	Name:      "generate",
	Usage:     "Generate the stakeholder HTML report from a test run",
	ArgsUsage: "[report.json]...",
	Description: `Read the JSON results of a test run and write one self-contained HTML report.

Paths:
  - Input: arguments, else "input" from report.yaml, else test-results/report.json
  - Output: --output, else "output" from report.yaml, else customReport.html
    next to the input

Several inputs are generated concurrently; each report is written next to its
input and --output is not allowed. Inputs sharing a directory get
<name>.customReport.html.

Examples:
  stakeholder-report generate
  stakeholder-report generate results/report.json -o results/stakeholders.html
  stakeholder-report generate --title "Nightly" --no-summary run1.json run2.json`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output HTML file (single input only)",
			EnvVars: []string{"STAKEHOLDER_REPORT_OUTPUT"},
		},
		&cli.StringFlag{
			Name:    "title",
			Usage:   "Report title",
			EnvVars: []string{"STAKEHOLDER_REPORT_TITLE"},
		},
		&cli.StringFlag{
			Name:    "chart-url",
			Usage:   "Chart script URL",
			EnvVars: []string{"STAKEHOLDER_REPORT_CHART_URL"},
		},
		&cli.StringFlag{
			Name:    "deep-link-base",
			Usage:   "Base URL of per-test links",
			EnvVars: []string{"STAKEHOLDER_REPORT_DEEP_LINK_BASE"},
		},
		&cli.StringFlag{
			Name:    "json-out",
			Usage:   "Also write the normalized results as JSON (single input only)",
			EnvVars: []string{"STAKEHOLDER_REPORT_JSON_OUT"},
		},
		&cli.StringFlag{
			Name:    "allure-dir",
			Usage:   "Also write Allure results to this directory",
			EnvVars: []string{"STAKEHOLDER_REPORT_ALLURE_DIR"},
		},
		&cli.IntFlag{
			Name:  "jobs",
			Usage: "Maximum number of reports generated at once",
			Value: 4,
		},
		&cli.BoolFlag{
			Name:  "no-summary",
			Usage: "Don't print the summary table",
		},
	},
	Action: runGenerate,
}

// generateJob is one input → output generation.
type generateJob struct {
	Input     string
	HTML      report.HTMLConfig
	AllureDir string
	JSONOut   string
	Summary   bool
}

func runGenerate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(c, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	jobs, err := buildJobs(c, cfg)
	if err != nil {
		return err
	}

	var (
		g      errgroup.Group
		outMu  sync.Mutex
		stdout = c.App.Writer
		stderr = c.App.ErrWriter
	)
	limit := c.Int("jobs")
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			var out, errOut bytes.Buffer
			err := generate(&out, &errOut, job)

			// Keep each input's console output together
			outMu.Lock()
			defer outMu.Unlock()
			_, _ = io.Copy(stdout, &out)
			_, _ = io.Copy(stderr, &errOut)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return errReported
	}
	return nil
}

// buildJobs resolves inputs and per-input settings from flags, then
// report.yaml, then defaults.
func buildJobs(c *cli.Context, cfg *config.Config) ([]generateJob, error) {
	inputs := c.Args().Slice()
	if len(inputs) == 0 {
		inputs = []string{cfg.InputPath()}
	}

	output := c.String("output")
	if len(inputs) > 1 && output != "" {
		return nil, fmt.Errorf("--output can only be used with a single input")
	}
	jsonOut := firstNonEmpty(c.String("json-out"), cfg.SnapshotJSON)
	if len(inputs) > 1 && jsonOut != "" {
		return nil, fmt.Errorf("--json-out can only be used with a single input")
	}
	if len(inputs) == 1 && output == "" {
		if c.Args().Len() == 0 {
			output = cfg.OutputPath()
		} else {
			output = cfg.Output
		}
	}
	if len(inputs) > 1 && cfg.Output != "" {
		logger.Warn("config output %s ignored for %d inputs", cfg.Output, len(inputs))
		fmt.Fprintf(c.App.ErrWriter, "⚠️  output %q from report.yaml is ignored with several inputs; reports are written next to each input\n", cfg.Output)
	}

	html := report.HTMLConfig{
		OutputPath:     output,
		Title:          firstNonEmpty(c.String("title"), cfg.Title),
		ChartScriptURL: firstNonEmpty(c.String("chart-url"), cfg.ChartScriptURL),
		DeepLinkBase:   firstNonEmpty(c.String("deep-link-base"), cfg.DeepLinkBase),
	}
	allureDir := firstNonEmpty(c.String("allure-dir"), cfg.AllureDir)

	jobs := make([]generateJob, len(inputs))
	for i, input := range inputs {
		job := generateJob{
			Input:     input,
			HTML:      html,
			AllureDir: allureDir,
			JSONOut:   jsonOut,
			Summary:   !c.Bool("no-summary"),
		}
		if len(inputs) > 1 && allureDir != "" {
			job.AllureDir = filepath.Join(allureDir, allureSubdir(i, input))
		}
		jobs[i] = job
	}

	if len(inputs) > 1 {
		if err := assignOutputs(jobs); err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

// assignOutputs gives every job of a multi-input run its own report path.
// Inputs alone in their directory get the default name; inputs sharing a
// directory get <name>.customReport.html.
func assignOutputs(jobs []generateJob) error {
	perDir := make(map[string]int, len(jobs))
	for _, job := range jobs {
		perDir[filepath.Clean(filepath.Dir(job.Input))]++
	}

	owner := make(map[string]string, len(jobs))
	for i := range jobs {
		dir := filepath.Clean(filepath.Dir(jobs[i].Input))
		name := report.DefaultOutputName
		if perDir[dir] > 1 {
			base := strings.TrimSuffix(filepath.Base(jobs[i].Input), filepath.Ext(jobs[i].Input))
			name = base + "." + report.DefaultOutputName
		}
		out := filepath.Join(dir, name)

		if prev, ok := owner[out]; ok {
			return fmt.Errorf("inputs %s and %s would both write %s", prev, jobs[i].Input, out)
		}
		owner[out] = jobs[i].Input
		jobs[i].HTML.OutputPath = out
	}
	return nil
}

// allureSubdir keeps the Allure results of several inputs apart.
func allureSubdir(idx int, input string) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return fmt.Sprintf("%02d-%s", idx, name)
}

// generate runs one job and prints its diagnostics.
func generate(stdout, stderr io.Writer, job generateJob) error {
	logger.Info("generating report from %s", job.Input)

	snap, err := report.GenerateHTML(job.Input, job.HTML)
	if err != nil {
		if errors.Is(err, core.ErrMissingInput) {
			fmt.Fprintf(stderr, "❌ Report JSON not found at %s\n", job.Input)
		} else {
			fmt.Fprintf(stderr, "❌ Error generating custom report: %s\n", err.Error())
		}
		logger.Error("%s: %s: %v", job.Input, core.CategoryOf(err), err)
		return err
	}

	outputPath := report.OutputPathFor(job.Input, job.HTML)
	fmt.Fprintf(stdout, "✅ Custom report generated: %s\n", outputPath)
	logger.WithFields(map[string]interface{}{
		"input":       job.Input,
		"output":      outputPath,
		"total":       snap.Aggregates.Total,
		"passed":      snap.Aggregates.Passed,
		"failed":      snap.Aggregates.Failed,
		"skipped":     snap.Aggregates.Skipped,
		"successRate": snap.Aggregates.SuccessRate,
	}, "report generated")

	if n := snap.Aggregates.Unrecognized; n > 0 {
		fmt.Fprintf(stderr, "⚠️  %d test(s) in %s have an unrecognized status and are not counted\n", n, job.Input)
		for _, rec := range snap.Records {
			if !rec.Status.IsKnown() {
				logger.Warn("%s: unrecognized status %q", rec.ID, rec.Status)
			}
		}
	}

	if job.AllureDir != "" {
		if err := report.GenerateAllure(*snap, job.AllureDir, outputPath); err != nil {
			fmt.Fprintf(stderr, "❌ Error generating Allure results: %s\n", err.Error())
			logger.Error("allure %s: %v", job.AllureDir, err)
			return err
		}
		fmt.Fprintf(stdout, "✅ Allure results written: %s\n", job.AllureDir)
	}

	if job.JSONOut != "" {
		if err := report.WriteSnapshot(job.JSONOut, *snap); err != nil {
			fmt.Fprintf(stderr, "❌ Error writing results JSON: %s\n", err.Error())
			logger.Error("snapshot %s: %v", job.JSONOut, err)
			return err
		}
		fmt.Fprintf(stdout, "✅ Results JSON written: %s\n", job.JSONOut)
	}

	if job.Summary {
		printSummary(stdout, job.HTML.Title, *snap)
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
