// Package schema has the models and constants shared by all parts of cigate.
package schema

import "time"

// RunTotals is the aggregate of every artifact parsed during one scan.
// All counters start at zero and only ever grow.
type RunTotals struct {
	Tests      int `json:"tests"`
	Failures   int `json:"failures"`
	Errors     int `json:"errors"`
	Skipped    int `json:"skipped"`
	LinesFound int `json:"lines_found"`
	LinesHit   int `json:"lines_hit"`
}

// AddSuite folds the counts of a parsed JUnit report into the totals.
func (t *RunTotals) AddSuite(r TestSuiteRecord) {
	t.Tests += r.Tests
	t.Failures += r.Failures
	t.Errors += r.Errors
	t.Skipped += r.Skipped
}

// AddCoverage folds the counters of a parsed lcov report into the totals.
func (t *RunTotals) AddCoverage(r CoverageRecord) {
	t.LinesFound += r.LinesFound
	t.LinesHit += r.LinesHit
}

// TestSuiteRecord holds the counts of one JUnit suite, or the sum of
// several suites from the same file.
type TestSuiteRecord struct {
	Tests    int
	Failures int
	Errors   int
	Skipped  int
}

// Add returns the element-wise sum of two records.
func (r TestSuiteRecord) Add(o TestSuiteRecord) TestSuiteRecord {
	return TestSuiteRecord{
		Tests:    r.Tests + o.Tests,
		Failures: r.Failures + o.Failures,
		Errors:   r.Errors + o.Errors,
		Skipped:  r.Skipped + o.Skipped,
	}
}

// CoverageRecord holds the LF/LH sums of one lcov file.
type CoverageRecord struct {
	LinesFound int
	LinesHit   int
}

// Diagnostic describes a non-fatal problem found while scanning.
type Diagnostic struct {
	Path    string          `json:"path"`
	Kind    ArtifactKind    `json:"kind"`
	Level   AnnotationLevel `json:"level"`
	Message string          `json:"message"`
}

// ScanResult is the outcome of walking an artifacts directory.
type ScanResult struct {
	Root         string       `json:"root"`
	Totals       RunTotals    `json:"totals"`
	FilesScanned int          `json:"files_scanned"` // recognized artifacts seen
	FilesParsed  int          `json:"files_parsed"`  // recognized artifacts folded into Totals
	Diagnostics  []Diagnostic `json:"diagnostics"`
}

// FilesFailed returns the number of recognized artifacts that could not be parsed.
func (r ScanResult) FilesFailed() int {
	return r.FilesScanned - r.FilesParsed
}

// RunReport bundles everything produced by a single scan run.
type RunReport struct {
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration_ns"`
	Scan      ScanResult    `json:"scan"`
	Coverage  float64       `json:"coverage_percent"`
	Gate      GateResult    `json:"gate"`
}

// ToRunRecord converts the report into a history row.
func (r RunReport) ToRunRecord() RunRecord {
	return RunRecord{
		RunTime:      r.StartTime,
		ArtifactsDir: r.Scan.Root,
		Totals:       r.Scan.Totals,
		Coverage:     r.Coverage,
		MinCoverage:  r.Gate.MinCoverage,
		GatePassed:   r.Gate.Passed,
		FilesScanned: r.Scan.FilesScanned,
		FilesFailed:  r.Scan.FilesFailed(),
		DurationMs:   r.Duration.Milliseconds(),
	}
}
