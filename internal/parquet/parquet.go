// Package parquet provides data structures and functions for exporting cigate
// run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/cigate/schema"
	"github.com/parquet-go/parquet-go"
)

// RunRow represents a single scan run.
// This struct maps to the cigate_runs database table.
type RunRow struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunTime is when the scan started (stored as TIMESTAMP with nanosecond precision)
	RunTime time.Time `parquet:"run_time,snappy"`

	// ArtifactsDir is the directory that was scanned
	ArtifactsDir string `parquet:"artifacts_dir,snappy"`

	Tests      int32 `parquet:"tests,snappy"`
	Failures   int32 `parquet:"failures,snappy"`
	Errors     int32 `parquet:"errors,snappy"`
	Skipped    int32 `parquet:"skipped,snappy"`
	LinesFound int64 `parquet:"lines_found,snappy"`
	LinesHit   int64 `parquet:"lines_hit,snappy"`

	// CoveragePercent is 100*LH/LF, or 0 without coverage data
	CoveragePercent float64 `parquet:"coverage_percent,snappy"`

	// MinCoverage is the gate threshold in effect for the run
	MinCoverage float64 `parquet:"min_coverage,snappy"`

	GatePassed   bool  `parquet:"gate_passed,snappy"`
	FilesScanned int32 `parquet:"files_scanned,snappy"`
	FilesFailed  int32 `parquet:"files_failed,snappy"`

	// DurationMs is the scan duration in milliseconds (nullable for runs recorded without timing)
	DurationMs *int64 `parquet:"duration_ms,optional,snappy"`
}

// ConvertRunRecords converts stored history rows into Parquet rows.
func ConvertRunRecords(records []schema.RunRecord) []RunRow {
	rows := make([]RunRow, len(records))
	for i, r := range records {
		row := RunRow{
			RunID:           r.RunID,
			RunTime:         r.RunTime,
			ArtifactsDir:    r.ArtifactsDir,
			Tests:           int32(r.Totals.Tests),
			Failures:        int32(r.Totals.Failures),
			Errors:          int32(r.Totals.Errors),
			Skipped:         int32(r.Totals.Skipped),
			LinesFound:      int64(r.Totals.LinesFound),
			LinesHit:        int64(r.Totals.LinesHit),
			CoveragePercent: r.Coverage,
			MinCoverage:     r.MinCoverage,
			GatePassed:      r.GatePassed,
			FilesScanned:    int32(r.FilesScanned),
			FilesFailed:     int32(r.FilesFailed),
		}
		if r.DurationMs > 0 {
			d := r.DurationMs
			row.DurationMs = &d
		}
		rows[i] = row
	}
	return rows
}

// WriteRunsParquet writes a slice of RunRow structs to a Parquet file.
func WriteRunsParquet(data []RunRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the RunRow struct tags
	writer := parquet.NewGenericWriter[RunRow](file)

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
