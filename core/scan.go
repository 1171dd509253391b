package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/huangsam/cigate/internal/contract"
	"github.com/huangsam/cigate/schema"
)

// Diagnostic message prefixes.
const (
	junitFailurePrefix = "Failed to parse JUnit"
	lcovFailurePrefix  = "Failed to read lcov"
	walkFailurePrefix  = "Failed to read directory"
)

// Scan walks root recursively and folds every recognized artifact into a fresh RunTotals.
// A missing root is not an error and yields zero totals. Files that fail to parse
// contribute nothing and are reported as diagnostics instead.
func Scan(root string, excludes []string) (schema.ScanResult, error) {
	result := schema.ScanResult{Root: root, Diagnostics: []schema.Diagnostic{}}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, nil
		}
		return result, fmt.Errorf("failed to stat artifacts directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return result, fmt.Errorf("artifacts path %s is not a directory", root)
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			result.Diagnostics = append(result.Diagnostics, newDiagnostic(path, schema.WalkArtifact, walkFailurePrefix, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path != root && contract.ShouldIgnore(relPath(root, path), excludes) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		scanFile(&result, path, Classify(d.Name()))
		return nil
	})
	if walkErr != nil {
		return result, fmt.Errorf("failed to walk artifacts directory %s: %w", root, walkErr)
	}
	return result, nil
}

// scanFile parses a single artifact and folds it into the result on success.
func scanFile(result *schema.ScanResult, path string, kind schema.ArtifactKind) {
	switch kind {
	case schema.JUnitArtifact:
		result.FilesScanned++
		record, err := ParseJUnitFile(path)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, newDiagnostic(path, kind, junitFailurePrefix, err))
			return
		}
		result.Totals.AddSuite(record)
		result.FilesParsed++
	case schema.CoverageArtifact:
		result.FilesScanned++
		record, err := ParseLcovFile(path)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, newDiagnostic(path, kind, lcovFailurePrefix, err))
			return
		}
		result.Totals.AddCoverage(record)
		result.FilesParsed++
	}
}

func newDiagnostic(path string, kind schema.ArtifactKind, prefix string, err error) schema.Diagnostic {
	return schema.Diagnostic{
		Path:    path,
		Kind:    kind,
		Level:   schema.WarningLevel,
		Message: fmt.Sprintf("%s: %v", prefix, err),
	}
}

// relPath returns path relative to root for exclude matching, falling back to path itself.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
