package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// ArtifactKind represents how a file under the artifacts directory is interpreted.
	ArtifactKind string

	// AnnotationLevel represents the severity of a CI annotation.
	AnnotationLevel string

	// GateStatus represents the outcome of the gate.
	GateStatus string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	TableOut   OutputMode = "table"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All artifact kinds recognized by the scanner.
const (
	JUnitArtifact    ArtifactKind = "junit"
	CoverageArtifact ArtifactKind = "lcov"
	WalkArtifact     ArtifactKind = "walk" // directory traversal problems
	UnknownArtifact  ArtifactKind = ""
)

// All annotation levels emitted.
const (
	WarningLevel AnnotationLevel = "warning"
	ErrorLevel   AnnotationLevel = "error"
)

// Gate outcomes.
const (
	GatePass GateStatus = "pass"
	GateFail GateStatus = "fail"
)

// Artifact naming rules.
const (
	JUnitExtension  = ".xml"
	LcovSummaryName = "lcov.info"
)

// LcovExtensions lists the file extensions treated as lcov coverage reports.
var LcovExtensions = []string{".lcov", ".info"}

// Defaults shared by the CLI and the MCP server.
const (
	DefaultArtifactsDir = "artifacts"
	DefaultMinCoverage  = 18.0
	DefaultHistoryLimit = 20
)

// ValidOutputModes lists all valid output modes for the scan command.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:   {},
	TextOut:  {},
	JSONOut:  {},
	TableOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
