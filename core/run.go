package core

import (
	"fmt"
	"time"

	"github.com/huangsam/cigate/internal/contract"
	"github.com/huangsam/cigate/schema"
)

// ExecuteRun scans the configured artifacts directory, reports the outcome and evaluates the gate.
// It serves as the main entry point for the 'scan' command.
//
// The returned error covers scan and output failures only. A failed gate is
// reported through the RunReport so the caller decides whether to enforce it.
func ExecuteRun(cfg *contract.Config, mgr contract.StoreManager, ow contract.OutputWriter) (*schema.RunReport, error) {
	start := time.Now()

	report, err := BuildRunReport(cfg.ArtifactsDir, cfg.Excludes, cfg.MinCoverage)
	if err != nil {
		return nil, err
	}
	report.StartTime = start

	ow.WriteDiagnostics(report.Scan.Diagnostics, cfg)

	report.Duration = time.Since(start)
	if err := ow.WriteSummary(report, cfg); err != nil {
		return report, fmt.Errorf("failed to write summary: %w", err)
	}

	if !report.Gate.Passed {
		ow.WriteGateFailure(report.Gate, cfg)
	}

	ow.AppendStepSummary(report, cfg)

	if cfg.MetricsFile != "" {
		if err := ow.WriteMetricsFile(report, cfg); err != nil {
			contract.LogWarn("Failed to write metrics file", err)
		}
	}

	recordHistory(report, mgr)
	return report, nil
}

// BuildRunReport scans root and evaluates the gate without producing any output.
func BuildRunReport(root string, excludes []string, minCoverage float64) (*schema.RunReport, error) {
	start := time.Now()

	scan, err := Scan(root, excludes)
	if err != nil {
		return nil, err
	}

	coverage := CoveragePercent(scan.Totals)
	return &schema.RunReport{
		StartTime: start,
		Duration:  time.Since(start),
		Scan:      scan,
		Coverage:  coverage,
		Gate:      EvaluateGate(scan.Totals, coverage, minCoverage),
	}, nil
}

// recordHistory stores the run when a history backend is configured.
// Store errors never fail the run.
func recordHistory(report *schema.RunReport, mgr contract.StoreManager) {
	if mgr == nil {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}
	if _, err := store.RecordRun(report.ToRunRecord()); err != nil {
		contract.LogWarn("Failed to record run history", err)
	}
}
