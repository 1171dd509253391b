package contract

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huangsam/cigate/schema"
)

// Default values for configuration.
const (
	DefaultCovMin      = "18"
	DefaultOutput      = schema.TextOut
	DefaultEnforce     = "no"
	DefaultAnnotations = "yes"
	DefaultColor       = "yes"
	MaxHistoryLimit    = 1000
)

// Config holds the runtime configuration for a scan.
// This struct is the "final, validated" config.
type Config struct {
	ArtifactsDir string
	MinCoverage  float64
	Enforce      bool // Exit non-zero when the gate fails
	Annotations  bool // Emit ::warning / ::error workflow commands
	SummaryFile  string
	MetricsFile  string
	Excludes     []string
	Output       schema.OutputMode
	OutputFile   string
	Width        int // Terminal width override (0 = auto-detect)
	HistoryLimit int

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ArtifactsDirStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from scanCmd.Flags() ---
	CovMin      string `mapstructure:"cov-min"`
	Enforce     string `mapstructure:"enforce"`
	Annotations string `mapstructure:"annotations"`
	SummaryFile string `mapstructure:"summary-file"`
	MetricsFile string `mapstructure:"metrics-file"`
	Exclude     string `mapstructure:"exclude"`

	// --- Fields from historyListCmd.Flags() ---
	Limit int `mapstructure:"limit"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processGateSettings(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return resolveArtifactsDir(cfg, input)
}

// ParseMinCoverage parses a minimum coverage threshold such as "18" or "72.5".
// An empty string yields the default threshold.
func ParseMinCoverage(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return schema.DefaultMinCoverage, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid minimum coverage %q: expected a number", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid minimum coverage %q: must not be negative", s)
	}
	return v, nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseDatabaseBackend normalizes a backend name. An empty name disables history.
func ParseDatabaseBackend(s string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(s) == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// validateSimpleInputs processes and validates output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.SummaryFile = input.SummaryFile
	cfg.MetricsFile = input.MetricsFile

	colors, err := ParseBoolString(defaultString(input.Color, DefaultColor))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	annotations, err := ParseBoolString(defaultString(input.Annotations, DefaultAnnotations))
	if err != nil {
		return fmt.Errorf("invalid --annotations value: %w", err)
	}
	cfg.Annotations = annotations

	cfg.Output = schema.OutputMode(strings.ToLower(defaultString(input.Output, string(DefaultOutput))))
	if cfg.Output == schema.ParquetOut {
		return fmt.Errorf("parquet output is only supported by 'history export'")
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, table, csv, json", input.Output)
	}

	switch {
	case input.Limit == 0:
		cfg.HistoryLimit = schema.DefaultHistoryLimit
	case input.Limit < 0 || input.Limit > MaxHistoryLimit:
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxHistoryLimit, input.Limit)
	default:
		cfg.HistoryLimit = input.Limit
	}

	cfg.Excludes = nil
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			trimmedP := strings.TrimSpace(p)
			if trimmedP != "" {
				cfg.Excludes = append(cfg.Excludes, trimmedP)
			}
		}
	}
	return nil
}

// processGateSettings parses the coverage threshold and the enforcement toggle.
func processGateSettings(cfg *Config, input *ConfigRawInput) error {
	minCov, err := ParseMinCoverage(input.CovMin)
	if err != nil {
		return err
	}
	cfg.MinCoverage = minCov

	enforce, err := ParseBoolString(defaultString(input.Enforce, DefaultEnforce))
	if err != nil {
		return fmt.Errorf("invalid --enforce value: %w", err)
	}
	cfg.Enforce = enforce
	return nil
}

// validateBackendConfig validates the history backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseDatabaseBackend(input.HistoryBackend)
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// resolveArtifactsDir cleans the artifacts directory. The directory does not
// need to exist: a missing directory scans as empty.
func resolveArtifactsDir(cfg *Config, input *ConfigRawInput) error {
	dir := strings.TrimSpace(input.ArtifactsDirStr)
	if dir == "" {
		dir = schema.DefaultArtifactsDir
	}
	cfg.ArtifactsDir = filepath.Clean(dir)
	return nil
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
