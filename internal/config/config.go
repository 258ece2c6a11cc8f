// =============================================================================
// EDI Order Converter - Configuration Module
// =============================================================================
//
// This module loads the converter configuration. Every setting has a default,
// so running without a configuration file reproduces the legacy behavior:
// output.{ext} in the working directory, UTF-8 input, and EDI envelopes with
// the fixed AMAZON / 9622309900 identifiers.
//
// SOURCES (later wins):
//   1. Built-in defaults
//   2. YAML file (config.yaml by default)
//   3. Environment variables (EDICONV_OUTPUT_DIR, EDICONV_EDI_SENDER_ID, ...)
//   4. Command line flags bound through viper
//
// EXAMPLE:
//
//   output_dir: ./out
//   output_name_format: "{base}_{date}.{ext}"
//   input_encoding: windows-1252
//   edi:
//     sender_id: ACME
//     control_numbers: sequence
//     control_start: 100
//     missing_field_policy: skip
//   transformations:
//     - field: PO_Number
//       actions:
//         - type: pad_zeros_to_length
//           value: "10"
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Disha-1203/EDI-parser/pkg/utils"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the converter configuration.
type Config struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where output files are written.
	// Default: "."
	OutputDir string `yaml:"output_dir"`

	// OutputNameFormat is the template for output file names.
	// Placeholders:
	//   {base}      - "output" (multiple mode) or "output_single" (single mode)
	//   {ext}       - extension of the output format
	//   {uuid}      - a random UUID
	//   {timestamp} - current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - current date (YYYYMMDD)
	// Default: "{base}.{ext}"
	OutputNameFormat string `yaml:"output_name_format"`

	// JSONIndent is the number of spaces used to indent JSON output.
	// Default: 2
	JSONIndent int `yaml:"json_indent"`

	// XLSXSheet is the sheet name used for XLSX output.
	// Default: "Orders"
	XLSXSheet string `yaml:"xlsx_sheet"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// InputEncoding is the character encoding of text-based input files.
	// Valid values: "utf-8", "windows-1252", "iso-8859-1"
	// A UTF-8 byte order mark is always stripped.
	// Default: "utf-8"
	InputEncoding string `yaml:"input_encoding"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// FORMAT SETTINGS
	// =========================================================================

	// EDI holds the envelope and policy settings of the EDI writer.
	EDI EDIConfig `yaml:"edi"`

	// Transformations are field rewrite rules applied to every selected
	// order before it is written.
	Transformations []TransformationRule `yaml:"transformations"`
}

// EDIConfig holds EDI writer settings. Empty envelope values keep the
// writer's built-in defaults.
type EDIConfig struct {
	SenderQualifier   string `yaml:"sender_qualifier"`
	SenderID          string `yaml:"sender_id"`
	ReceiverQualifier string `yaml:"receiver_qualifier"`
	ReceiverID        string `yaml:"receiver_id"`
	GroupDate         string `yaml:"group_date"`
	GroupTime         string `yaml:"group_time"`
	UsageIndicator    string `yaml:"usage_indicator"`
	ReleaseNumber     string `yaml:"release_number"`

	// ControlNumbers is "fixed" (every interchange uses ControlStart) or
	// "sequence" (ControlStart, ControlStart+1, ...).
	// Default: "fixed"
	ControlNumbers string `yaml:"control_numbers"`

	// ControlStart is the first control number.
	// Default: 1
	ControlStart int `yaml:"control_start"`

	// MissingFieldPolicy is "abort" or "skip".
	// Default: "abort"
	MissingFieldPolicy string `yaml:"missing_field_policy"`
}

// Control number modes.
const (
	ControlFixed    = "fixed"
	ControlSequence = "sequence"
)

// TransformationRule defines a transformation to apply to a specific field.
type TransformationRule struct {
	// Field is the name of the field to transform.
	Field string `yaml:"field"`

	// Actions are applied in order.
	Actions []TransformationAction `yaml:"actions"`
}

// TransformationAction defines a single transformation action.
type TransformationAction struct {
	// Type is one of:
	//   - "prepend_string"      : add Value to the beginning
	//   - "append_string"       : add Value to the end
	//   - "pad_zeros_to_length" : pad with leading zeros to length Value
	//   - "uppercase"           : convert to uppercase
	//   - "lowercase"           : convert to lowercase
	//   - "trim"                : remove leading and trailing whitespace
	//   - "replace"             : replace Find with Value
	//   - "lookup"              : replace using LookupTable
	Type string `yaml:"type"`

	// Value is the parameter of the transformation.
	Value string `yaml:"value"`

	// Find is used by "replace".
	Find string `yaml:"find,omitempty"`

	// LookupTable is used by "lookup".
	LookupTable map[string]string `yaml:"lookup_table,omitempty"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration from a YAML file.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadOptional behaves like Load but returns the defaults when the file
// does not exist.
func LoadOptional(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.OutputNameFormat == "" {
		cfg.OutputNameFormat = "{base}.{ext}"
	}
	if cfg.JSONIndent == 0 {
		cfg.JSONIndent = 2
	}
	if cfg.InputEncoding == "" {
		cfg.InputEncoding = "utf-8"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.EDI.ControlNumbers == "" {
		cfg.EDI.ControlNumbers = ControlFixed
	}
	if cfg.EDI.ControlStart == 0 {
		cfg.EDI.ControlStart = 1
	}
	if cfg.EDI.MissingFieldPolicy == "" {
		cfg.EDI.MissingFieldPolicy = "abort"
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if _, err := utils.LookupEncoding(c.InputEncoding); err != nil {
		return err
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	if c.JSONIndent < 0 || c.JSONIndent > 8 {
		return fmt.Errorf("json_indent must be between 0 and 8, got %d", c.JSONIndent)
	}

	switch strings.ToLower(c.EDI.ControlNumbers) {
	case ControlFixed, ControlSequence:
	default:
		return fmt.Errorf("unknown control number mode %q (want fixed or sequence)", c.EDI.ControlNumbers)
	}

	if c.EDI.ControlStart < 0 || c.EDI.ControlStart > 999999999 {
		return fmt.Errorf("control_start out of range: %d", c.EDI.ControlStart)
	}

	switch strings.ToLower(c.EDI.MissingFieldPolicy) {
	case "abort", "skip":
	default:
		return fmt.Errorf("unknown missing field policy %q (want abort or skip)", c.EDI.MissingFieldPolicy)
	}

	for i, rule := range c.Transformations {
		if rule.Field == "" {
			return fmt.Errorf("transformation %d has no field", i+1)
		}
	}

	return nil
}

// =============================================================================
// ENVIRONMENT AND FLAG OVERRIDES
// =============================================================================

// overridable lists the keys that environment variables and flags may set.
var overridable = map[string]func(*Config, *viper.Viper, string){
	"output_dir":               func(c *Config, v *viper.Viper, k string) { c.OutputDir = v.GetString(k) },
	"output_name_format":       func(c *Config, v *viper.Viper, k string) { c.OutputNameFormat = v.GetString(k) },
	"input_encoding":           func(c *Config, v *viper.Viper, k string) { c.InputEncoding = v.GetString(k) },
	"log_level":                func(c *Config, v *viper.Viper, k string) { c.LogLevel = v.GetString(k) },
	"json_indent":              func(c *Config, v *viper.Viper, k string) { c.JSONIndent = v.GetInt(k) },
	"xlsx_sheet":               func(c *Config, v *viper.Viper, k string) { c.XLSXSheet = v.GetString(k) },
	"edi.sender_id":            func(c *Config, v *viper.Viper, k string) { c.EDI.SenderID = v.GetString(k) },
	"edi.receiver_id":          func(c *Config, v *viper.Viper, k string) { c.EDI.ReceiverID = v.GetString(k) },
	"edi.usage_indicator":      func(c *Config, v *viper.Viper, k string) { c.EDI.UsageIndicator = v.GetString(k) },
	"edi.control_numbers":      func(c *Config, v *viper.Viper, k string) { c.EDI.ControlNumbers = v.GetString(k) },
	"edi.control_start":        func(c *Config, v *viper.Viper, k string) { c.EDI.ControlStart = v.GetInt(k) },
	"edi.missing_field_policy": func(c *Config, v *viper.Viper, k string) { c.EDI.MissingFieldPolicy = v.GetString(k) },
}

// NewViper returns a viper instance that reads EDICONV_* environment
// variables, with "." in keys mapped to "_".
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("EDICONV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Overlay copies every key set in v onto the configuration and validates
// the result.
func (c *Config) Overlay(v *viper.Viper) error {
	for key, apply := range overridable {
		if v.IsSet(key) {
			apply(c, v, key)
		}
	}
	applyDefaults(c)
	return c.Validate()
}
