package schema

import "time"

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	FailedGates   int              `json:"failed_gates"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the cigate_runs table.
type RunRecord struct {
	RunID        int64     `json:"run_id"`
	RunTime      time.Time `json:"run_time"`
	ArtifactsDir string    `json:"artifacts_dir"`
	Totals       RunTotals `json:"totals"`
	Coverage     float64   `json:"coverage_percent"`
	MinCoverage  float64   `json:"min_coverage"`
	GatePassed   bool      `json:"gate_passed"`
	FilesScanned int       `json:"files_scanned"`
	FilesFailed  int       `json:"files_failed"`
	DurationMs   int64     `json:"duration_ms"`
}
