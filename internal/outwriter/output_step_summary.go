package outwriter

import (
	"fmt"
	"os"

	"github.com/huangsam/cigate/schema"
)

// RenderStepSummary renders the markdown block appended to the CI step summary.
func RenderStepSummary(report *schema.RunReport) string {
	t := report.Scan.Totals
	return fmt.Sprintf("### JUnit\n%s\n\n### Coverage\n%s\n",
		FormatJUnitCounts(t), FormatCoverage(t, report.Coverage))
}

// AppendStepSummary appends the markdown block to path, creating the file if needed.
// An empty path discards the block.
func AppendStepSummary(path string, report *schema.RunReport) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open step summary %s: %w", path, err)
	}
	if _, err := f.WriteString(RenderStepSummary(report)); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write step summary %s: %w", path, err)
	}
	return f.Close()
}
