package core

import (
	"fmt"

	"github.com/huangsam/cigate/schema"
)

// CoveragePercent returns the line coverage as a percentage.
// No coverage data means 0%. The value is not clamped when LH exceeds LF.
func CoveragePercent(totals schema.RunTotals) float64 {
	if totals.LinesFound == 0 {
		return 0.0
	}
	return 100.0 * float64(totals.LinesHit) / float64(totals.LinesFound)
}

// EvaluateGate decides whether the run passes. It fails when coverage is below
// minCoverage or when any test failed or errored, recording one reason per violation.
func EvaluateGate(totals schema.RunTotals, coverage, minCoverage float64) schema.GateResult {
	result := schema.GateResult{
		Coverage:    coverage,
		MinCoverage: minCoverage,
		Failures:    totals.Failures,
		Errors:      totals.Errors,
		Reasons:     []string{},
	}

	if coverage < minCoverage {
		result.Reasons = append(result.Reasons, fmt.Sprintf("coverage %s < %s",
			schema.FormatPercent(coverage), schema.FormatPercent(minCoverage)))
	}
	if totals.Failures > 0 {
		result.Reasons = append(result.Reasons, fmt.Sprintf("%d test failure(s)", totals.Failures))
	}
	if totals.Errors > 0 {
		result.Reasons = append(result.Reasons, fmt.Sprintf("%d test error(s)", totals.Errors))
	}

	result.Passed = len(result.Reasons) == 0
	return result
}
