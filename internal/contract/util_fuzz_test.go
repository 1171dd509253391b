package contract

import (
	"strings"
	"testing"
)

// FuzzShouldIgnore fuzzes the ShouldIgnore function with random paths and exclude patterns.
func FuzzShouldIgnore(f *testing.F) {
	seeds := []struct {
		path     string
		excludes string // comma-separated
	}{
		{"artifacts/report.xml", "*.bak"},
		{"node_modules/pkg/junit.xml", "node_modules/"},
		{"artifacts/lcov.info", ".info"},
		{"", ""},
		{"very/long/path/to/coverage.lcov", "**/temp/**"},
		{"artifacts/[weird].xml", "[,"},
	}
	for _, seed := range seeds {
		f.Add(seed.path, seed.excludes)
	}

	f.Fuzz(func(_ *testing.T, path string, excludesStr string) {
		excludes := []string{}
		if excludesStr != "" {
			for ex := range strings.SplitSeq(excludesStr, ",") {
				if trimmed := strings.TrimSpace(ex); trimmed != "" {
					excludes = append(excludes, trimmed)
				}
			}
		}
		_ = ShouldIgnore(path, excludes)
	})
}

// FuzzParseMinCoverage checks that any accepted threshold is non-negative.
func FuzzParseMinCoverage(f *testing.F) {
	for _, s := range []string{"18", "0", "72.5", "-1", "abc", "", " 3 ", "1e2"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		v, err := ParseMinCoverage(s)
		if err == nil && v < 0 {
			t.Fatalf("ParseMinCoverage(%q) = %v, want non-negative", s, v)
		}
	})
}
