package outwriter

import (
	"fmt"

	"github.com/huangsam/cigate/schema"
	"github.com/prometheus/client_golang/prometheus"
)

// metricsNamespace prefixes every exported metric.
const metricsNamespace = "cigate"

// gaugeSpec describes one exported gauge and how to read it from a report.
type gaugeSpec struct {
	name  string
	help  string
	value func(r *schema.RunReport) float64
}

var runGauges = []gaugeSpec{
	{"tests", "Number of tests reported by JUnit artifacts.", func(r *schema.RunReport) float64 { return float64(r.Scan.Totals.Tests) }},
	{"test_failures", "Number of failed tests.", func(r *schema.RunReport) float64 { return float64(r.Scan.Totals.Failures) }},
	{"test_errors", "Number of errored tests.", func(r *schema.RunReport) float64 { return float64(r.Scan.Totals.Errors) }},
	{"tests_skipped", "Number of skipped tests.", func(r *schema.RunReport) float64 { return float64(r.Scan.Totals.Skipped) }},
	{"lines_found", "Instrumented lines reported by lcov artifacts.", func(r *schema.RunReport) float64 { return float64(r.Scan.Totals.LinesFound) }},
	{"lines_hit", "Executed lines reported by lcov artifacts.", func(r *schema.RunReport) float64 { return float64(r.Scan.Totals.LinesHit) }},
	{"coverage_percent", "Line coverage percentage.", func(r *schema.RunReport) float64 { return r.Coverage }},
	{"coverage_min_percent", "Minimum line coverage required by the gate.", func(r *schema.RunReport) float64 { return r.Gate.MinCoverage }},
	{"gate_passed", "1 if the gate passed, 0 otherwise.", func(r *schema.RunReport) float64 {
		if r.Gate.Passed {
			return 1
		}
		return 0
	}},
	{"artifacts_scanned", "Recognized artifact files found.", func(r *schema.RunReport) float64 { return float64(r.Scan.FilesScanned) }},
	{"artifacts_failed", "Recognized artifact files that failed to parse.", func(r *schema.RunReport) float64 { return float64(r.Scan.FilesFailed()) }},
	{"run_timestamp_seconds", "Unix time the run started.", func(r *schema.RunReport) float64 { return float64(r.StartTime.Unix()) }},
}

// newRunRegistry builds a fresh registry holding one gauge per run metric.
func newRunRegistry(report *schema.RunReport) (*prometheus.Registry, error) {
	registry := prometheus.NewRegistry()
	for _, spec := range runGauges {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      spec.name,
			Help:      spec.help,
		})
		if err := registry.Register(gauge); err != nil {
			return nil, fmt.Errorf("register %s: %w", spec.name, err)
		}
		gauge.Set(spec.value(report))
	}
	return registry, nil
}

// WriteMetricsFile writes the run metrics to path in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func WriteMetricsFile(path string, report *schema.RunReport) error {
	registry, err := newRunRegistry(report)
	if err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("failed to write metrics file %s: %w", path, err)
	}
	return nil
}
