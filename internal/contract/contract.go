// Package contract provides interfaces and shared utilities for the cigate CLI's internal architecture.
package contract

import "github.com/huangsam/cigate/schema"

// HistoryStore defines the interface for tracking scan runs over time.
// This allows the persistence layer to be mocked for testing.
type HistoryStore interface {
	// RecordRun stores a completed run and returns its unique ID.
	RecordRun(record schema.RunRecord) (int64, error)

	// ListRuns returns the most recent runs, newest first. A limit <= 0 returns all runs.
	ListRuns(limit int) ([]schema.RunRecord, error)

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// StoreManager defines the interface for managing persistence stores.
type StoreManager interface {
	GetHistoryStore() HistoryStore
}

// OutputWriter defines the output operations performed during a scan run.
// This allows the core run logic to be tested without writing to real files or stdout.
type OutputWriter interface {
	// WriteDiagnostics emits one CI annotation per scan diagnostic.
	WriteDiagnostics(diags []schema.Diagnostic, cfg *Config)

	// WriteSummary renders the run summary in the configured output format.
	WriteSummary(report *schema.RunReport, cfg *Config) error

	// WriteGateFailure emits the error annotation for a failed gate.
	WriteGateFailure(gate schema.GateResult, cfg *Config)

	// AppendStepSummary appends the markdown summary block to the step summary file.
	// Failures are reported as warnings and never returned.
	AppendStepSummary(report *schema.RunReport, cfg *Config)

	// WriteMetricsFile writes the run metrics as a Prometheus textfile.
	WriteMetricsFile(report *schema.RunReport, cfg *Config) error
}
