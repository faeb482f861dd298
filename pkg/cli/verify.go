package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/qa-reports/stakeholder-report/pkg/jsengine"
	"github.com/qa-reports/stakeholder-report/pkg/logger"
)

var verifyCommand = &cli.Command{
	Name:      "verify",
	Usage:     "Run a generated report's scripts headlessly and cross-check its data",
	ArgsUsage: "[customReport.html]...",
	Description: `Load each report, run its inline scripts in a JavaScript runtime and check
that the embedded test data matches the table rows.

Without arguments the configured output report is verified.`,
	Action: runVerify,
}

func runVerify(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(c, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	paths := c.Args().Slice()
	if len(paths) == 0 {
		paths = []string{cfg.OutputPath()}
	}

	failed := false
	for _, path := range paths {
		data, err := os.ReadFile(path) //#nosec G304 -- user-provided report file
		if err != nil {
			fmt.Fprintf(c.App.ErrWriter, "❌ %s: %v\n", path, err)
			failed = true
			continue
		}

		check, err := jsengine.CheckReport(string(data))
		if err != nil {
			fmt.Fprintf(c.App.ErrWriter, "❌ %s: %v\n", path, err)
			logger.Error("verify %s: %v", path, err)
			failed = true
			continue
		}

		fmt.Fprintf(c.App.Writer, "✅ %s: %d tests, %d scripts ran, chart %v\n",
			path, check.Tests, check.InlineScripts, check.ChartCounts)
		logger.Info("verified %s: %+v", path, *check)
	}

	if failed {
		return errReported
	}
	return nil
}
