// Package config provides configuration management for the datetime
// normalizer. It handles loading TOML configuration files, validating
// settings, and managing named format definitions and filtering rules.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nowwaveradio/datetime-normalizer/internal/constants"
	"github.com/nowwaveradio/datetime-normalizer/internal/errorutil"
	"github.com/nowwaveradio/datetime-normalizer/internal/logger"
	"github.com/nowwaveradio/datetime-normalizer/internal/pattern"
)

// Config represents the main configuration structure
type Config struct {
	Parsing    ParsingConfig           `toml:"parsing"`
	Output     OutputConfig            `toml:"output"`
	Formats    map[string]FormatConfig `toml:"formats"`
	Templates  TemplatesConfig         `toml:"templates"`
	Filtering  FilteringConfig         `toml:"filtering"`
	Processing ProcessingConfig        `toml:"processing"`
	Logging    logger.Config           `toml:"logging"`
}

// ParsingConfig controls how input values are matched against formats
type ParsingConfig struct {
	DefaultFormat string `toml:"default_format"` // format key, alias, or inline pattern
	ResolverStyle string `toml:"resolver_style"` // strict, smart, or lenient
	AutoDetect    bool   `toml:"auto_detect"`    // try all enabled formats in priority order
}

// OutputConfig controls how resolved values are rendered
type OutputConfig struct {
	Format   string `toml:"format"`   // format key, alias, or inline pattern
	Template string `toml:"template"` // report template name, empty for plain lines
}

// FormatConfig represents one named date/time format
type FormatConfig struct {
	Pattern     string   `toml:"pattern"`     // e.g. "MM/dd/uuuu HH:mm:ss"
	Aliases     []string `toml:"aliases"`     // e.g. ["us", "american"]
	Description string   `toml:"description"` // shown in format listings
	Enabled     bool     `toml:"enabled"`
	Priority    int      `toml:"priority"` // higher priority formats are tried first
}

// TemplatesConfig holds report template definitions
type TemplatesConfig struct {
	Default string                    `toml:"default"`
	Config  map[string]TemplateConfig `toml:"config"`
}

// TemplateConfig represents a report template with optional header and footer
type TemplateConfig struct {
	Header string `toml:"header"`
	Line   string `toml:"line"`
	Footer string `toml:"footer"`
}

// FilteringConfig controls which input lines are skipped before parsing
type FilteringConfig struct {
	CommentPrefixes  []string `toml:"comment_prefixes"`
	ExcludedLines    []string `toml:"excluded_lines"`
	ExcludedPatterns []string `toml:"excluded_patterns"`
}

// ProcessingConfig controls file and directory processing
type ProcessingConfig struct {
	InputDirectory  string `toml:"input_directory"`
	OutputDirectory string `toml:"output_directory"`
	BatchSize       int    `toml:"batch_size"`
	WatchDebounceMS int    `toml:"watch_debounce_ms"`
}

// ConfigError represents configuration-related errors
type ConfigError struct {
	Field   string
	Message string
}

func (e ConfigError) Error() string {
	if e.Field != "" {
		return "config." + e.Field + ": " + e.Message
	}
	return e.Message
}

var (
	ErrFileNotFound  = errors.New("configuration file not found")
	ErrInvalidFormat = errors.New("invalid configuration file format")
	ErrMissingField  = errors.New("required field is missing or empty")
	ErrInvalidPath   = errors.New("specified path does not exist or is not accessible")
)

// LoadConfig reads and parses a TOML configuration file, merges it with the
// defaults, and applies environment variable overrides.
func LoadConfig(filepath string) (*Config, error) {
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filepath)
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filepath, err)
	}

	var loadedConfig Config
	if err := toml.Unmarshal(data, &loadedConfig); err != nil {
		return nil, fmt.Errorf("%w: %s - %v", ErrInvalidFormat, filepath, err)
	}

	config := mergeWithDefaults(&loadedConfig, DefaultConfig())
	config.ApplyEnvironmentOverrides()

	return config, nil
}

// Validate checks that the configuration is internally consistent. Every
// configured pattern is compiled here so that malformed patterns surface at
// startup rather than on the first value they are asked to parse.
func (c *Config) Validate() error {
	vb := errorutil.NewValidationBuilder("normalizer")

	vb.OneOf("parsing.resolver_style", c.Parsing.ResolverStyle, []string{"strict", "smart", "lenient"})
	vb.RequiredString("parsing.default_format", c.Parsing.DefaultFormat)

	vb.IntRange("processing.batch_size", c.Processing.BatchSize, 0, constants.MaxBatchSize)
	vb.NonNegativeInt("processing.watch_debounce_ms", c.Processing.WatchDebounceMS)

	for key, format := range c.Formats {
		field := "formats." + key + ".pattern"
		if errorutil.IsEmptyString(format.Pattern) {
			vb.RequiredString(field, format.Pattern)
			continue
		}
		if _, err := pattern.Compile(format.Pattern); err != nil {
			vb.Fail(field, format.Pattern, err.Error())
		}
		vb.NonNegativeInt("formats."+key+".priority", format.Priority)
	}

	// The default format may name a configured format or be an inline pattern.
	if !errorutil.IsEmptyString(c.Parsing.DefaultFormat) {
		if _, named := c.Formats[c.Parsing.DefaultFormat]; !named && !c.hasAlias(c.Parsing.DefaultFormat) {
			if _, err := pattern.Compile(c.Parsing.DefaultFormat); err != nil {
				vb.Fail("parsing.default_format", c.Parsing.DefaultFormat,
					"is neither a configured format nor a valid pattern: "+err.Error())
			}
		}
	}

	for _, excluded := range c.Filtering.ExcludedPatterns {
		vb.RequiredString("filtering.excluded_patterns", excluded)
	}

	return vb.Build()
}

func (c *Config) hasAlias(name string) bool {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, format := range c.Formats {
		for _, alias := range format.Aliases {
			if strings.ToLower(strings.TrimSpace(alias)) == needle {
				return true
			}
		}
	}
	return false
}

// DefaultConfig returns a Config struct with sensible default values: the
// common ISO, US, and compact formats enabled, smart resolution, and
// file logging switched off.
func DefaultConfig() *Config {
	return &Config{
		Parsing: ParsingConfig{
			DefaultFormat: "iso-date",
			ResolverStyle: "smart",
			AutoDetect:    true,
		},
		Output: OutputConfig{
			Format:   "iso-date",
			Template: "",
		},
		Formats: map[string]FormatConfig{
			"iso-date": {
				Pattern:     "uuuu-MM-dd",
				Aliases:     []string{"iso"},
				Description: "ISO-8601 calendar date",
				Enabled:     true,
				Priority:    100,
			},
			"iso-datetime": {
				Pattern:     "uuuu-MM-dd HH:mm:ss",
				Aliases:     []string{"iso-dt"},
				Description: "ISO-8601 date and time",
				Enabled:     true,
				Priority:    90,
			},
			"us-datetime": {
				Pattern:     "MM/dd/uuuu HH:mm:ss",
				Aliases:     []string{"us"},
				Description: "US date and time",
				Enabled:     true,
				Priority:    50,
			},
			"compact": {
				Pattern:     "uuuuMMdd",
				Aliases:     []string{"basic"},
				Description: "Compact ISO date",
				Enabled:     true,
				Priority:    10,
			},
		},
		Templates: TemplatesConfig{
			Default: "classic",
			Config:  make(map[string]TemplateConfig),
		},
		Filtering: FilteringConfig{
			CommentPrefixes:  []string{"#"},
			ExcludedLines:    []string{},
			ExcludedPatterns: []string{},
		},
		Processing: ProcessingConfig{
			InputDirectory:  ".",
			OutputDirectory: "",
			BatchSize:       constants.DefaultBatchSize,
			WatchDebounceMS: int(constants.DefaultWatchDebounce.Milliseconds()),
		},
		Logging: logger.Config{
			Enabled:       false,
			Directory:     "logs",
			Level:         "info",
			MaxFiles:      constants.DefaultMaxLogFiles,
			MaxSizeMB:     constants.DefaultMaxLogSizeMB,
			ConsoleOutput: false,
		},
	}
}

// mergeWithDefaults takes a loaded config and merges it with default values;
// only non-zero values from the loaded config override defaults.
func mergeWithDefaults(loaded, defaults *Config) *Config {
	result := *defaults

	if loaded.Parsing.DefaultFormat != "" {
		result.Parsing.DefaultFormat = loaded.Parsing.DefaultFormat
	}
	if loaded.Parsing.ResolverStyle != "" {
		result.Parsing.ResolverStyle = loaded.Parsing.ResolverStyle
	}
	if loaded.Parsing.AutoDetect {
		result.Parsing.AutoDetect = true
	}

	if loaded.Output.Format != "" {
		result.Output.Format = loaded.Output.Format
	}
	if loaded.Output.Template != "" {
		result.Output.Template = loaded.Output.Template
	}

	if len(loaded.Formats) > 0 {
		if result.Formats == nil {
			result.Formats = make(map[string]FormatConfig)
		}
		for name, format := range loaded.Formats {
			result.Formats[name] = format
		}
	}

	if loaded.Templates.Default != "" {
		result.Templates.Default = loaded.Templates.Default
	}
	if len(loaded.Templates.Config) > 0 {
		if result.Templates.Config == nil {
			result.Templates.Config = make(map[string]TemplateConfig)
		}
		for name, template := range loaded.Templates.Config {
			result.Templates.Config[name] = template
		}
	}

	if len(loaded.Filtering.CommentPrefixes) > 0 {
		result.Filtering.CommentPrefixes = loaded.Filtering.CommentPrefixes
	}
	if len(loaded.Filtering.ExcludedLines) > 0 {
		result.Filtering.ExcludedLines = loaded.Filtering.ExcludedLines
	}
	if len(loaded.Filtering.ExcludedPatterns) > 0 {
		result.Filtering.ExcludedPatterns = loaded.Filtering.ExcludedPatterns
	}

	if loaded.Processing.InputDirectory != "" {
		result.Processing.InputDirectory = loaded.Processing.InputDirectory
	}
	if loaded.Processing.OutputDirectory != "" {
		result.Processing.OutputDirectory = loaded.Processing.OutputDirectory
	}
	if loaded.Processing.BatchSize > 0 {
		result.Processing.BatchSize = loaded.Processing.BatchSize
	}
	if loaded.Processing.WatchDebounceMS > 0 {
		result.Processing.WatchDebounceMS = loaded.Processing.WatchDebounceMS
	}

	if loaded.Logging.Enabled {
		result.Logging.Enabled = true
	}
	if loaded.Logging.Directory != "" {
		result.Logging.Directory = loaded.Logging.Directory
	}
	if loaded.Logging.FilenamePattern != "" {
		result.Logging.FilenamePattern = loaded.Logging.FilenamePattern
	}
	if loaded.Logging.Level != "" {
		result.Logging.Level = loaded.Logging.Level
	}
	if loaded.Logging.MaxFiles > 0 {
		result.Logging.MaxFiles = loaded.Logging.MaxFiles
	}
	if loaded.Logging.MaxSizeMB > 0 {
		result.Logging.MaxSizeMB = loaded.Logging.MaxSizeMB
	}
	if loaded.Logging.ConsoleOutput {
		result.Logging.ConsoleOutput = true
	}

	return &result
}

// ApplyEnvironmentOverrides checks for environment variables and overrides
// config values. Environment variables keep deployment-specific paths and
// levels out of config files.
func (c *Config) ApplyEnvironmentOverrides() {
	if envVal := os.Getenv("NWRDATETIME_PARSING_DEFAULT_FORMAT"); envVal != "" {
		c.Parsing.DefaultFormat = envVal
	}
	if envVal := os.Getenv("NWRDATETIME_PARSING_RESOLVER_STYLE"); envVal != "" {
		c.Parsing.ResolverStyle = envVal
	}
	if envVal := os.Getenv("NWRDATETIME_PARSING_AUTO_DETECT"); envVal != "" {
		c.Parsing.AutoDetect = envVal == "true"
	}

	if envVal := os.Getenv("NWRDATETIME_OUTPUT_FORMAT"); envVal != "" {
		c.Output.Format = envVal
	}

	if envVal := os.Getenv("NWRDATETIME_PROCESSING_INPUT_DIRECTORY"); envVal != "" {
		c.Processing.InputDirectory = envVal
	}
	if envVal := os.Getenv("NWRDATETIME_PROCESSING_OUTPUT_DIRECTORY"); envVal != "" {
		c.Processing.OutputDirectory = envVal
	}
	if envVal := os.Getenv("NWRDATETIME_PROCESSING_BATCH_SIZE"); envVal != "" {
		if parsed, err := strconv.Atoi(envVal); err == nil && parsed > 0 {
			c.Processing.BatchSize = parsed
		}
	}

	if envVal := os.Getenv("NWRDATETIME_LOGGING_DIRECTORY"); envVal != "" {
		c.Logging.Directory = envVal
	}
	if envVal := os.Getenv("NWRDATETIME_LOGGING_LEVEL"); envVal != "" {
		c.Logging.Level = envVal
	}
	if envVal := os.Getenv("NWRDATETIME_LOGGING_ENABLED"); envVal == "true" {
		c.Logging.Enabled = true
	}
}

// SaveConfig writes a Config struct to a TOML file. Used primarily for
// creating the default config on first run.
func SaveConfig(config *Config, filepath string) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to TOML: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", filepath, err)
	}

	return nil
}
