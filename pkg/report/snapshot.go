package report

import "fmt"

// WriteSnapshot writes the normalized records, aggregates and step columns
// as indented JSON, for dashboards that want the data without the HTML.
func WriteSnapshot(path string, snap Snapshot) error {
	if snap.Records == nil {
		snap.Records = []TestRecord{}
	}
	if snap.StepColumns == nil {
		snap.StepColumns = []string{}
	}
	if err := atomicWriteJSON(path, snap); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
