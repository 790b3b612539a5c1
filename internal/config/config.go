// =============================================================================
// Dossier Generator - Configuration Module
// =============================================================================
//
// This module loads the main application configuration.
//
// SOURCES (later wins):
//   1. Built-in defaults
//   2. config.yaml (optional; a missing file means "use defaults")
//   3. Environment variables, including those from a .env file
//
// ENVIRONMENT OVERRIDES:
//   DOSSIER_INPUT_DIR, DOSSIER_OUTPUT_DIR, DOSSIER_ARCHIVE_DIR,
//   DOSSIER_LOG_LEVEL, DOSSIER_LOG_FILE
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/dossier-generator/internal/report"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for form files by the process command.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives generated dossiers.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives form files after successful processing.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is an optional log file. Empty logs to stderr only.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// REPORT SETTINGS
	// =========================================================================

	Report ReportConfig `yaml:"report"`
}

// ReportConfig holds the deployment-specific parts of the report.
type ReportConfig struct {
	// Signatories are the two names of the fixed signature block.
	Signatories []string `yaml:"signatories"`

	// ApprovalSignatory signs dossiers whose grand total reaches the
	// approval threshold.
	ApprovalSignatory string `yaml:"approval_signatory"`

	// DateFormat is the Go layout of the generation date.
	// Default: "02/01/2006"
	DateFormat string `yaml:"date_format"`

	// FallbackNetwork names the output file when the form has no network.
	// Default: "sem-rede"
	FallbackNetwork string `yaml:"fallback_network"`

	// Compress enables PDF stream compression.
	// Default: true
	Compress *bool `yaml:"compress"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file. A missing file
//     is not an error.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// .env is optional, and never overrides variables already set.
	_ = godotenv.Load()
	applyEnvOverrides(&config)

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides copies DOSSIER_* environment variables over the file values.
func applyEnvOverrides(config *MainConfig) {
	overrides := map[string]*string{
		"DOSSIER_INPUT_DIR":   &config.InputDir,
		"DOSSIER_OUTPUT_DIR":  &config.OutputDir,
		"DOSSIER_ARCHIVE_DIR": &config.InputArchiveDir,
		"DOSSIER_LOG_LEVEL":   &config.LogLevel,
		"DOSSIER_LOG_FILE":    &config.LogFile,
	}

	for key, field := range overrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*field = v
		}
	}
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	def := report.DefaultOptions()
	if len(config.Report.Signatories) == 0 {
		config.Report.Signatories = def.Signatories[:]
	}
	if config.Report.ApprovalSignatory == "" {
		config.Report.ApprovalSignatory = def.ApprovalSignatory
	}
	if config.Report.DateFormat == "" {
		config.Report.DateFormat = def.DateFormat
	}
	if config.Report.FallbackNetwork == "" {
		config.Report.FallbackNetwork = "sem-rede"
	}
	if config.Report.Compress == nil {
		compress := true
		config.Report.Compress = &compress
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	if len(config.Report.Signatories) != 2 {
		return fmt.Errorf("report.signatories must list exactly 2 names, got %d", len(config.Report.Signatories))
	}

	switch config.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", config.LogLevel)
	}

	return nil
}

// ReportOptions converts the report settings into renderer options.
func (c *MainConfig) ReportOptions() report.Options {
	opts := report.DefaultOptions()
	copy(opts.Signatories[:], c.Report.Signatories)
	opts.ApprovalSignatory = c.Report.ApprovalSignatory
	opts.DateFormat = c.Report.DateFormat
	if c.Report.Compress != nil {
		opts.Compress = *c.Report.Compress
	}
	return opts
}
