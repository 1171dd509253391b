package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/cigate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanMissingDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist")

	result, err := Scan(root, nil)
	require.NoError(t, err)
	assert.Equal(t, schema.RunTotals{}, result.Totals)
	assert.Empty(t, result.Diagnostics)
	assert.Equal(t, 0.0, CoveragePercent(result.Totals))
}

func TestScanEmptyDirectory(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "notes.txt", "LF:100\nLH:100\n")
	writeArtifact(t, root, "coverage.out", "mode: set\n")

	result, err := Scan(root, nil)
	require.NoError(t, err)
	assert.Equal(t, schema.RunTotals{}, result.Totals)
	assert.Equal(t, 0, result.FilesScanned)
	assert.Equal(t, 0.0, CoveragePercent(result.Totals))
}

func TestScanRootIsFile(t *testing.T) {
	root := writeArtifact(t, t.TempDir(), "artifacts", "not a dir")

	_, err := Scan(root, nil)
	assert.Error(t, err)
}

func TestScanAggregatesAcrossFiles(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "unit/junit.xml", `<testsuite tests="10" failures="1" errors="0" skipped="2"/>`)
	writeArtifact(t, root, "integration/results.xml", `<testsuites><testsuite tests="5" failures="0"/><testsuite tests="3" failures="1"/></testsuites>`)
	writeArtifact(t, root, "coverage/lcov.info", "SF:a.go\nLF:100\nLH:40\nend_of_record\n")
	writeArtifact(t, root, "web/coverage.lcov", "LF:50\nLH:50\n")

	result, err := Scan(root, nil)
	require.NoError(t, err)

	assert.Equal(t, schema.RunTotals{
		Tests:      18,
		Failures:   2,
		Errors:     0,
		Skipped:    2,
		LinesFound: 150,
		LinesHit:   90,
	}, result.Totals)
	assert.Equal(t, 4, result.FilesScanned)
	assert.Equal(t, 4, result.FilesParsed)
	assert.Empty(t, result.Diagnostics)
	assert.InDelta(t, 60.0, CoveragePercent(result.Totals), 1e-9)
}

func TestScanSingleSuite(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "junit.xml", `<testsuite tests="10" failures="1" errors="0" skipped="2"/>`)

	result, err := Scan(root, nil)
	require.NoError(t, err)
	assert.Equal(t, schema.RunTotals{Tests: 10, Failures: 1, Skipped: 2}, result.Totals)
}

func TestScanLcovOnly(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "lcov.info", "TN:\nLF:100\nDA:1,1\nLH:40\n")

	result, err := Scan(root, nil)
	require.NoError(t, err)
	assert.Equal(t, 40.0, CoveragePercent(result.Totals))
}

func TestScanIsolatesBadFiles(t *testing.T) {
	root := t.TempDir()
	badXML := writeArtifact(t, root, "a/broken.xml", `<testsuite tests="99"`)
	writeArtifact(t, root, "b/good.xml", `<testsuite tests="4" failures="1"/>`)
	badLcov := writeArtifact(t, root, "c/partial.info", "LF:1000\nLH:nope\n")
	writeArtifact(t, root, "d/lcov.info", "LF:10\nLH:5\n")

	result, err := Scan(root, nil)
	require.NoError(t, err)

	assert.Equal(t, schema.RunTotals{Tests: 4, Failures: 1, LinesFound: 10, LinesHit: 5}, result.Totals)
	assert.Equal(t, 4, result.FilesScanned)
	assert.Equal(t, 2, result.FilesParsed)
	assert.Equal(t, 2, result.FilesFailed())

	require.Len(t, result.Diagnostics, 2)
	byPath := map[string]schema.Diagnostic{}
	for _, d := range result.Diagnostics {
		byPath[d.Path] = d
	}

	xmlDiag, ok := byPath[badXML]
	require.True(t, ok)
	assert.Equal(t, schema.JUnitArtifact, xmlDiag.Kind)
	assert.Equal(t, schema.WarningLevel, xmlDiag.Level)
	assert.Contains(t, xmlDiag.Message, "Failed to parse JUnit: ")

	lcovDiag, ok := byPath[badLcov]
	require.True(t, ok)
	assert.Equal(t, schema.CoverageArtifact, lcovDiag.Kind)
	assert.Contains(t, lcovDiag.Message, "Failed to read lcov: ")
}

func TestScanExcludes(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "keep/junit.xml", `<testsuite tests="1"/>`)
	writeArtifact(t, root, "vendor/junit.xml", `<testsuite tests="100"/>`)
	writeArtifact(t, root, "keep/old.bak.xml", `<testsuite tests="100"/>`)

	result, err := Scan(root, []string{"vendor/", "*.bak.xml"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Totals.Tests)
	assert.Equal(t, 1, result.FilesScanned)
}

func TestScanIdempotent(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "junit.xml", `<testsuites><testsuite tests="5"/><testsuite tests="3" failures="1"/></testsuites>`)
	writeArtifact(t, root, "broken.xml", `<<<`)
	writeArtifact(t, root, "x.lcov", "LF:3\nLH:2\n")

	first, err := Scan(root, nil)
	require.NoError(t, err)
	second, err := Scan(root, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Totals, second.Totals)
	assert.ElementsMatch(t, first.Diagnostics, second.Diagnostics)
}

func TestScanUnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	root := t.TempDir()
	writeArtifact(t, root, "ok/junit.xml", `<testsuite tests="2"/>`)
	locked := filepath.Join(root, "locked")
	writeArtifact(t, root, "locked/junit.xml", `<testsuite tests="50"/>`)
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	result, err := Scan(root, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Totals.Tests)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, schema.WalkArtifact, result.Diagnostics[0].Kind)
}
