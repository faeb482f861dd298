// Package cli provides the command-line interface for stakeholder-report.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/qa-reports/stakeholder-report/pkg/config"
	"github.com/qa-reports/stakeholder-report/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// errReported means the failure was already printed as a diagnostic.
var errReported = errors.New("reported")

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Usage:   "Path to report.yaml (default: report.yaml in the workspace home)",
		EnvVars: []string{"STAKEHOLDER_REPORT_CONFIG"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Write a run log to this file",
		EnvVars: []string{"STAKEHOLDER_REPORT_LOG_FILE"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"STAKEHOLDER_REPORT_VERBOSE"},
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
}

// Execute runs the CLI.
func Execute() {
	// .env is optional; real environment variables take precedence
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "stakeholder-report",
		Usage:   "Stakeholder HTML reports from browser test results",
		Version: Version,
		Description: `stakeholder-report turns the JSON results of a browser test run into a
single self-contained HTML page for non-technical readers: summary counts,
a results chart, a per-test step matrix, console checks and screenshots.

Examples:
  stakeholder-report generate
  stakeholder-report generate test-results/report.json -o out/report.html
  stakeholder-report generate --allure-dir allure-results run1.json run2.json
  stakeholder-report verify test-results/customReport.html
  stakeholder-report lint --strict test-results/`,
		Flags: GlobalFlags,
		Before: func(c *cli.Context) error {
			if c.Bool("no-ansi") {
				colorsEnabled = false
			}
			return nil
		},
		Commands: []*cli.Command{
			generateCommand,
			verifyCommand,
			lintCommand,
		},
	}
}

// loadConfig loads --config, or report.yaml from the workspace home.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.LoadFromDir(config.GetHome())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// setupLogging opens the run log when a log file is configured.
// The returned func closes it.
func setupLogging(c *cli.Context, cfg *config.Config) (func(), error) {
	logPath := c.String("log-file")
	if logPath == "" {
		logPath = cfg.LogFile
	}
	if logPath == "" {
		return func() {}, nil
	}

	if err := logger.Init(logPath); err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if c.Bool("verbose") {
		level = "debug"
	}
	if level != "" {
		if err := logger.SetLevel(level); err != nil {
			logger.Close()
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	logger.Info("stakeholder-report %s", Version)
	return logger.Close, nil
}
