// Package outwriter has output and writer logic.
package outwriter

import (
	"errors"
	"io"
	"os"

	"github.com/huangsam/cigate/internal/contract"
	"github.com/huangsam/cigate/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct {
	stdout io.Writer // summary lines and CI annotations
}

var _ contract.OutputWriter = &OutWriter{} // Compile-time check

// NewOutWriter creates a new instance of the output writer bound to stdout.
func NewOutWriter() *OutWriter {
	return &OutWriter{stdout: os.Stdout}
}

// NewOutWriterTo creates an output writer that prints to w instead of stdout.
func NewOutWriterTo(w io.Writer) *OutWriter {
	return &OutWriter{stdout: w}
}

// WriteDiagnostics emits one warning annotation per scan diagnostic.
func (ow *OutWriter) WriteDiagnostics(diags []schema.Diagnostic, cfg *contract.Config) {
	for _, d := range diags {
		if !cfg.Annotations {
			contract.LogWarn(d.Path, errors.New(d.Message))
			continue
		}
		writeAnnotation(ow.stdout, d.Level, map[string]string{"file": d.Path}, d.Message)
	}
}

// WriteSummary prints the run summary using the configured output format.
func (ow *OutWriter) WriteSummary(report *schema.RunReport, cfg *contract.Config) error {
	return PrintRunSummary(ow.stdout, report, cfg)
}

// WriteGateFailure emits the error annotation for a failed gate.
func (ow *OutWriter) WriteGateFailure(gate schema.GateResult, cfg *contract.Config) {
	msg := FormatGateFailure(gate)
	if !cfg.Annotations {
		contract.LogWarn("Gate", errors.New(msg))
		return
	}
	writeAnnotation(ow.stdout, schema.ErrorLevel, nil, msg)
}

// AppendStepSummary appends the markdown summary block to the configured step summary file.
func (ow *OutWriter) AppendStepSummary(report *schema.RunReport, cfg *contract.Config) {
	if err := AppendStepSummary(cfg.SummaryFile, report); err != nil {
		contract.LogWarn("Failed to append step summary", err)
	}
}

// WriteMetricsFile writes the run metrics as a Prometheus textfile.
func (ow *OutWriter) WriteMetricsFile(report *schema.RunReport, cfg *contract.Config) error {
	return WriteMetricsFile(cfg.MetricsFile, report)
}
