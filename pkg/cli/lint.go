package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/qa-reports/stakeholder-report/pkg/validator"
)

var lintCommand = &cli.Command{
	Name:      "lint",
	Usage:     "Check run documents for data the report cannot show faithfully",
	ArgsUsage: "[report.json-or-dir]...",
	Description: `Decode each run document (or every .json file below a directory) and list
problems: documents that cannot be read, tests without results, retried tests,
unrecognized statuses, duplicate spec ids and screenshots that are not inline.

Without arguments the configured input is checked.`,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "Treat warnings as errors",
		},
	},
	Action: runLint,
}

func runLint(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	paths := c.Args().Slice()
	if len(paths) == 0 {
		paths = []string{cfg.InputPath()}
	}

	v := validator.New(c.Bool("strict"))
	failed := false
	for _, path := range paths {
		result := v.Validate(path)

		for _, w := range result.Warnings {
			fmt.Fprintf(c.App.Writer, "  %s⚠%s %v\n", color(colorYellow), color(colorReset), w)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(c.App.ErrWriter, "  %s✗%s %v\n", color(colorRed), color(colorReset), e)
		}

		if result.IsValid() {
			fmt.Fprintf(c.App.Writer, "%s✓%s %s: %d file(s), %d warning(s)\n",
				color(colorGreen), color(colorReset), path, len(result.Files), len(result.Warnings))
		} else {
			failed = true
		}
	}

	if failed {
		return errReported
	}
	return nil
}
