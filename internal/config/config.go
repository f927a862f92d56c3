// =============================================================================
// Booking Analytics - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration. Configuration comes from three layers, applied in order:
//
//   1. Built-in defaults (the business parameters of the booking export)
//   2. The YAML configuration file (config.yaml)
//   3. Environment variables prefixed with BOOKINGS_ (a .env file next to the
//      configuration file is loaded first, if present)
//
// A missing configuration file is not an error: the defaults describe the
// standard booking export. A configuration file that exists but cannot be
// parsed is an error.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "BOOKINGS"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// Input describes how uploaded export files are decoded and split.
	Input InputSettings `yaml:"input"`

	// Business holds the fixed business parameters used by the aggregations.
	Business BusinessSettings `yaml:"business"`

	// Logging controls log verbosity and format.
	Logging LoggingSettings `yaml:"logging"`

	// Output controls where report files are written and how they are named.
	Output OutputSettings `yaml:"output"`
}

// =============================================================================
// INPUT SETTINGS
// =============================================================================

// InputSettings contains settings for decoding and parsing export files.
type InputSettings struct {
	// Delimiter is the field separator.
	// Default: ";"
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character encoding of the export.
	// Supported values: "UTF-16LE", "UTF-8", "Windows-1252"
	// Default: "UTF-16LE"
	Encoding string `yaml:"encoding"`
}

// =============================================================================
// BUSINESS SETTINGS
// =============================================================================

// BusinessSettings contains the constants behind the KPI calculations. They
// are business parameters, not values derived from data.
type BusinessSettings struct {
	// ServiceFee is the flat fee added to commission for every booking whose
	// revenue exceeds ServiceFeeThreshold.
	// Default: 25
	ServiceFee float64 `yaml:"service_fee"`

	// ServiceFeeThreshold is the revenue above which the service fee applies.
	// Default: 150
	ServiceFeeThreshold float64 `yaml:"service_fee_threshold"`

	// TopEntities caps the accommodation ranking when no search or source
	// filter is active.
	// Zero disables the cap.
	// Default: 30
	TopEntities int `yaml:"top_entities"`

	// UnspecifiedLabel names blank booking sources and apartment types.
	// Default: "ABC"
	UnspecifiedLabel string `yaml:"unspecified_label"`

	// PhoneCodes maps voucher codes to the staff member who took the booking
	// by phone. Matching is exact after trimming.
	PhoneCodes map[string]string `yaml:"phone_codes"`
}

// =============================================================================
// LOGGING SETTINGS
// =============================================================================

// LoggingSettings controls the logger.
type LoggingSettings struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "console" or "json".
	// Default: "console"
	Format string `yaml:"format"`
}

// =============================================================================
// OUTPUT SETTINGS
// =============================================================================

// OutputSettings controls report file output.
type OutputSettings struct {
	// Dir is the directory report files are written to.
	// Default: "./reports"
	Dir string `yaml:"dir"`

	// FileNameFormat is the report file name pattern.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {kind}      - Report kind (report, export)
	// Default: "{kind}_{timestamp}_{uuid}"
	FileNameFormat string `yaml:"file_name_format"`
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// envOverrides is filled by envconfig. Pointer fields distinguish "unset"
// from an explicit zero.
type envOverrides struct {
	LogLevel            string   `envconfig:"LOG_LEVEL"`
	LogFormat           string   `envconfig:"LOG_FORMAT"`
	Delimiter           string   `envconfig:"DELIMITER"`
	Encoding            string   `envconfig:"ENCODING"`
	ServiceFee          *float64 `envconfig:"SERVICE_FEE"`
	ServiceFeeThreshold *float64 `envconfig:"SERVICE_FEE_THRESHOLD"`
	TopEntities         *int     `envconfig:"TOP_ENTITIES"`
	OutputDir           string   `envconfig:"OUTPUT_DIR"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration of the standard booking export.
func Default() *MainConfig {
	config := &MainConfig{
		Business: BusinessSettings{
			ServiceFee:          25,
			ServiceFeeThreshold: 150,
			TopEntities:         30,
			PhoneCodes: map[string]string{
				"T Ma": "Marquardt",
				"T Ro": "Rohde",
			},
		},
	}
	applyMainConfigDefaults(config)
	return config
}

// LoadMainConfig loads the configuration from a YAML file and the environment.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. May be empty.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file exists but cannot be parsed, or if the resulting
//     configuration is invalid.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	// The file is decoded over the defaults, so an explicit zero such as
	// top_entities: 0 survives. Phone codes are replaced, not merged.
	config := Default()
	defaultPhoneCodes := config.Business.PhoneCodes
	config.Business.PhoneCodes = nil

	if configPath != "" {
		// Load a .env file next to the config file, if there is one.
		envPath := filepath.Join(filepath.Dir(configPath), ".env")
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}

		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// No file: defaults only.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if config.Business.PhoneCodes == nil {
		config.Business.PhoneCodes = defaultPhoneCodes
	}
	applyMainConfigDefaults(config)

	if err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}

	if err := validateMainConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyMainConfigDefaults fills blank text options. Numeric options get their
// defaults in Default, since zero is a valid value for them.
func applyMainConfigDefaults(config *MainConfig) {
	if config.Input.Delimiter == "" {
		config.Input.Delimiter = ";"
	}
	if config.Input.Encoding == "" {
		config.Input.Encoding = "UTF-16LE"
	}
	if config.Business.UnspecifiedLabel == "" {
		config.Business.UnspecifiedLabel = "ABC"
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "console"
	}
	if config.Output.Dir == "" {
		config.Output.Dir = "./reports"
	}
	if config.Output.FileNameFormat == "" {
		config.Output.FileNameFormat = "{kind}_{timestamp}_{uuid}"
	}
}

// applyEnvOverrides applies BOOKINGS_* environment variables on top of the
// file configuration.
func applyEnvOverrides(config *MainConfig) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return err
	}

	if env.LogLevel != "" {
		config.Logging.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		config.Logging.Format = env.LogFormat
	}
	if env.Delimiter != "" {
		config.Input.Delimiter = env.Delimiter
	}
	if env.Encoding != "" {
		config.Input.Encoding = env.Encoding
	}
	if env.ServiceFee != nil {
		config.Business.ServiceFee = *env.ServiceFee
	}
	if env.ServiceFeeThreshold != nil {
		config.Business.ServiceFeeThreshold = *env.ServiceFeeThreshold
	}
	if env.TopEntities != nil {
		config.Business.TopEntities = *env.TopEntities
	}
	if env.OutputDir != "" {
		config.Output.Dir = env.OutputDir
	}
	return nil
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch strings.ToLower(config.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", config.Logging.Level)
	}

	switch strings.ToLower(config.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", config.Logging.Format)
	}

	if config.Business.ServiceFee < 0 {
		return fmt.Errorf("service_fee must not be negative")
	}
	if config.Business.TopEntities < 0 {
		return fmt.Errorf("top_entities must not be negative")
	}

	return nil
}
