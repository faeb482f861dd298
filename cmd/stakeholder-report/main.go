// Command stakeholder-report generates stakeholder HTML reports from browser
// test results.
package main

import "github.com/qa-reports/stakeholder-report/pkg/cli"

func main() {
	cli.Execute()
}
