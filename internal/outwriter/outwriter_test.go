package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/cigate/internal/contract"
	"github.com/huangsam/cigate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *schema.RunReport {
	return &schema.RunReport{
		StartTime: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Duration:  15 * time.Millisecond,
		Scan: schema.ScanResult{
			Root: "artifacts",
			Totals: schema.RunTotals{
				Tests: 1234, Failures: 1, Errors: 0, Skipped: 2,
				LinesFound: 200, LinesHit: 80,
			},
			FilesScanned: 3,
			FilesParsed:  2,
			Diagnostics: []schema.Diagnostic{
				{Path: "artifacts/bad.xml", Kind: schema.JUnitArtifact, Level: schema.WarningLevel, Message: "Failed to parse JUnit: EOF"},
			},
		},
		Coverage: 40.0,
		Gate: schema.GateResult{
			Passed: false, Coverage: 40.0, MinCoverage: 18.0, Failures: 1,
			Reasons: []string{"1 test failure(s)"},
		},
	}
}

func TestWriteDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	ow := NewOutWriterTo(&buf)

	ow.WriteDiagnostics(sampleReport().Scan.Diagnostics, &contract.Config{Annotations: true})
	assert.Equal(t, "::warning file=artifacts/bad.xml::Failed to parse JUnit: EOF\n", buf.String())
}

func TestWriteDiagnosticsWithoutAnnotations(t *testing.T) {
	var buf bytes.Buffer
	ow := NewOutWriterTo(&buf)

	ow.WriteDiagnostics(sampleReport().Scan.Diagnostics, &contract.Config{Annotations: false})
	assert.Empty(t, buf.String())
}

func TestWriteGateFailure(t *testing.T) {
	var buf bytes.Buffer
	ow := NewOutWriterTo(&buf)

	ow.WriteGateFailure(sampleReport().Gate, &contract.Config{Annotations: true})
	assert.Equal(t, "::error::Gate failed (1 test failure(s))\n", buf.String())
}

func TestWriteSummaryText(t *testing.T) {
	var buf bytes.Buffer
	ow := NewOutWriterTo(&buf)

	err := ow.WriteSummary(sampleReport(), &contract.Config{Output: schema.TextOut})
	require.NoError(t, err)
	assert.Equal(t,
		"JUnit: 1234 tests, 1 failures, 0 errors, 2 skipped\nCoverage: 40.0% (LH=80, LF=200)\n",
		buf.String())
}

func TestWriteSummaryTextZeroTotals(t *testing.T) {
	var buf bytes.Buffer
	report := &schema.RunReport{}

	require.NoError(t, PrintRunSummary(&buf, report, &contract.Config{}))
	assert.Equal(t,
		"JUnit: 0 tests, 0 failures, 0 errors, 0 skipped\nCoverage: 0.0% (LH=0, LF=0)\n",
		buf.String())
}

func TestWriteSummaryJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintRunSummary(&buf, sampleReport(), &contract.Config{Output: schema.JSONOut}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 40.0, decoded["coverage_percent"])

	scan := decoded["scan"].(map[string]any)
	totals := scan["totals"].(map[string]any)
	assert.Equal(t, float64(1234), totals["tests"])

	gate := decoded["gate"].(map[string]any)
	assert.Equal(t, false, gate["passed"])
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintRunSummary(&buf, sampleReport(), &contract.Config{Output: schema.CSVOut}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "tests", records[0][1])
	assert.Equal(t, []string{"artifacts", "1234", "1", "0", "2", "200", "80", "40.0", "18.0", "fail", "3", "1"}, records[1])
}

func TestWriteSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := &contract.Config{Output: schema.TableOut, Width: 120}
	require.NoError(t, PrintRunSummary(&buf, sampleReport(), cfg))

	out := buf.String()
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "40.0%")
	assert.Contains(t, out, contract.FailValue)
	assert.Contains(t, out, "artifacts/bad.xml")
	assert.Contains(t, out, "Scanned 3 artifacts (1 failed)")
}

func TestWriteSummaryToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.txt")
	var buf bytes.Buffer

	require.NoError(t, PrintRunSummary(&buf, sampleReport(), &contract.Config{OutputFile: path}))
	assert.Empty(t, buf.String())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "JUnit: 1234 tests"))
}

func TestRenderStepSummary(t *testing.T) {
	expected := "### JUnit\n1234 tests, 1 failures, 0 errors, 2 skipped\n\n### Coverage\n40.0% (LH=80, LF=200)\n"
	assert.Equal(t, expected, RenderStepSummary(sampleReport()))
}

func TestAppendStepSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "step_summary.md")
	require.NoError(t, os.WriteFile(path, []byte("# Build\n"), 0o644))

	require.NoError(t, AppendStepSummary(path, sampleReport()))
	require.NoError(t, AppendStepSummary(path, sampleReport()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	block := RenderStepSummary(sampleReport())
	assert.Equal(t, "# Build\n"+block+block, string(content))
}

func TestAppendStepSummaryDiscard(t *testing.T) {
	assert.NoError(t, AppendStepSummary("", sampleReport()))
}

func TestAppendStepSummaryUnwritable(t *testing.T) {
	err := AppendStepSummary(filepath.Join(t.TempDir(), "missing", "summary.md"), sampleReport())
	assert.Error(t, err)

	// The OutWriter method only warns.
	ow := NewOutWriterTo(&bytes.Buffer{})
	ow.AppendStepSummary(sampleReport(), &contract.Config{SummaryFile: filepath.Join(t.TempDir(), "missing", "summary.md")})
}

func TestWriteMetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cigate.prom")
	require.NoError(t, WriteMetricsFile(path, sampleReport()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "# TYPE cigate_tests gauge")
	assert.Contains(t, text, "cigate_tests 1234")
	assert.Contains(t, text, "cigate_coverage_percent 40")
	assert.Contains(t, text, "cigate_gate_passed 0")
	assert.Contains(t, text, "cigate_artifacts_failed 1")
}

func TestWriteMetricsFileBadPath(t *testing.T) {
	err := WriteMetricsFile(filepath.Join(t.TempDir(), "missing", "cigate.prom"), sampleReport())
	assert.Error(t, err)
}
