// Package core has core logic for scanning, parsing and gating CI artifacts.
package core

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/huangsam/cigate/schema"
)

// Classify decides how a file under the artifacts directory is interpreted,
// based on its base name alone.
func Classify(name string) schema.ArtifactKind {
	base := filepath.Base(name)
	if strings.HasSuffix(base, schema.JUnitExtension) {
		return schema.JUnitArtifact
	}
	if base == schema.LcovSummaryName {
		return schema.CoverageArtifact
	}
	if slices.ContainsFunc(schema.LcovExtensions, func(ext string) bool {
		return strings.HasSuffix(base, ext)
	}) {
		return schema.CoverageArtifact
	}
	return schema.UnknownArtifact
}
