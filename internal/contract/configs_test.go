package contract

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/cigate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		input       *ConfigRawInput
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:  "empty input uses defaults",
			input: &ConfigRawInput{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.DefaultArtifactsDir, cfg.ArtifactsDir)
				assert.Equal(t, schema.DefaultMinCoverage, cfg.MinCoverage)
				assert.Equal(t, schema.TextOut, cfg.Output)
				assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
				assert.Equal(t, schema.DefaultHistoryLimit, cfg.HistoryLimit)
				assert.False(t, cfg.Enforce)
				assert.True(t, cfg.Annotations)
				assert.True(t, cfg.UseColors)
				assert.Empty(t, cfg.Excludes)
			},
		},
		{
			name: "explicit values",
			input: &ConfigRawInput{
				ArtifactsDirStr: "./out/artifacts/",
				CovMin:          "72.5",
				Enforce:         "yes",
				Annotations:     "no",
				Output:          "JSON",
				SummaryFile:     "/tmp/summary.md",
				MetricsFile:     "/tmp/cigate.prom",
				Exclude:         "node_modules/, *.bak ,,",
				HistoryBackend:  "SQLite",
				Limit:           5,
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, filepath.Clean("out/artifacts"), cfg.ArtifactsDir)
				assert.Equal(t, 72.5, cfg.MinCoverage)
				assert.True(t, cfg.Enforce)
				assert.False(t, cfg.Annotations)
				assert.Equal(t, schema.JSONOut, cfg.Output)
				assert.Equal(t, "/tmp/summary.md", cfg.SummaryFile)
				assert.Equal(t, "/tmp/cigate.prom", cfg.MetricsFile)
				assert.Equal(t, []string{"node_modules/", "*.bak"}, cfg.Excludes)
				assert.Equal(t, schema.SQLiteBackend, cfg.HistoryBackend)
				assert.Equal(t, 5, cfg.HistoryLimit)
			},
		},
		{
			name:        "invalid coverage threshold",
			input:       &ConfigRawInput{CovMin: "eighteen"},
			expectError: true,
		},
		{
			name:        "negative coverage threshold",
			input:       &ConfigRawInput{CovMin: "-1"},
			expectError: true,
		},
		{
			name:        "invalid enforce value",
			input:       &ConfigRawInput{Enforce: "sometimes"},
			expectError: true,
		},
		{
			name:        "invalid output format",
			input:       &ConfigRawInput{Output: "xml"},
			expectError: true,
		},
		{
			name:        "parquet is not a scan output",
			input:       &ConfigRawInput{Output: "parquet"},
			expectError: true,
		},
		{
			name:        "invalid backend",
			input:       &ConfigRawInput{HistoryBackend: "oracle"},
			expectError: true,
		},
		{
			name:        "mysql without connection string",
			input:       &ConfigRawInput{HistoryBackend: "mysql"},
			expectError: true,
		},
		{
			name:        "limit too large",
			input:       &ConfigRawInput{Limit: MaxHistoryLimit + 1},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := ProcessAndValidate(cfg, tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestParseMinCoverage(t *testing.T) {
	v, err := ParseMinCoverage("")
	require.NoError(t, err)
	assert.Equal(t, 18.0, v)

	v, err = ParseMinCoverage(" 17.9 ")
	require.NoError(t, err)
	assert.Equal(t, 17.9, v)

	v, err = ParseMinCoverage("0")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = ParseMinCoverage("abc")
	assert.ErrorContains(t, err, "expected a number")
}

func TestParseDatabaseBackend(t *testing.T) {
	b, err := ParseDatabaseBackend("")
	require.NoError(t, err)
	assert.Equal(t, schema.NoneBackend, b)

	b, err = ParseDatabaseBackend("PostgreSQL")
	require.NoError(t, err)
	assert.Equal(t, schema.PostgreSQLBackend, b)

	_, err = ParseDatabaseBackend("mongo")
	assert.Error(t, err)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none empty", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/cigate", false},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@localhost/cigate", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=cigate", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{ArtifactsDir: "a", Excludes: []string{"x/"}}
	clone := cfg.Clone()
	clone.Excludes[0] = "y/"
	clone.ArtifactsDir = "b"
	assert.Equal(t, "x/", cfg.Excludes[0])
	assert.Equal(t, "a", cfg.ArtifactsDir)
}
