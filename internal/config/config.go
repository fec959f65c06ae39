// Package config handles the settings of the relint command.
//
// Settings are loaded from multiple sources in order of precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables (RELINT_*)
// 3. Settings file (.relint-cli.yaml)
// 4. Default values (lowest priority)
//
// The lint rules themselves live in a separate file (.relint.yml by
// default) loaded by the rules package.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/JNZader/relint/internal/validation"
)

// Config is the main configuration structure for relint.
type Config struct {
	// Rules selects and compiles the rule file
	Rules RulesConfig `mapstructure:"rules" yaml:"rules"`

	// Output configures how matches are rendered
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// Scan configures file scanning
	Scan ScanConfig `mapstructure:"scan" yaml:"scan"`

	// Cache configures the in-memory scan cache used by watch mode
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`
}

// RulesConfig configures rule loading.
type RulesConfig struct {
	// File is the path of the rule file
	File string `mapstructure:"file" yaml:"file" validate:"required"`

	// FailWarnings makes warning rules fail the run
	FailWarnings bool `mapstructure:"fail_warnings" yaml:"fail_warnings"`

	// IgnoreWarnings drops warning rules before compiling
	IgnoreWarnings bool `mapstructure:"ignore_warnings" yaml:"ignore_warnings"`

	// Engine is the regular expression engine: "re2" or "regexp2"
	Engine string `mapstructure:"engine" yaml:"engine" validate:"oneof=re2 regexp2"`
}

// OutputConfig configures output formatting.
type OutputConfig struct {
	// Format is "auto" or one of report.AvailableFormats()
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=auto text panel github json sarif markdown"`

	// MsgTemplate is the text/template used by the text format
	MsgTemplate string `mapstructure:"msg_template" yaml:"msg_template"`

	// Summarize groups panel output by rule
	Summarize bool `mapstructure:"summarize" yaml:"summarize"`

	// CodePadding is the number of context lines around a match in panel
	// output; -1 hides the excerpt
	CodePadding int `mapstructure:"code_padding" yaml:"code_padding" validate:"gte=-1"`

	// Color is "auto", "always" or "never"
	Color string `mapstructure:"color" yaml:"color" validate:"oneof=auto always never"`

	// Verbose enables debug logging
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`

	// Quiet suppresses all logging except errors
	Quiet bool `mapstructure:"quiet" yaml:"quiet"`
}

// ScanConfig configures file scanning.
type ScanConfig struct {
	// Concurrency is the number of files scanned in parallel (0 = auto)
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency" validate:"gte=0"`
}

// CacheConfig configures caching behavior.
type CacheConfig struct {
	// Enabled enables caching
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// TTL is the cache entry time-to-live (0 = no expiry)
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl" validate:"gte=0"`

	// MaxEntries is the maximum number of cached files
	MaxEntries int `mapstructure:"max_entries" yaml:"max_entries" validate:"gte=1"`
}

var validate = validation.New()

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	return &ValidationError{
		Field:   fieldPath(fe.Namespace()),
		Message: describeFailure(fe),
	}
}

// fieldPath turns "Config.output.format" into "output.format".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func describeFailure(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("invalid value %q, must be one of: %s", fmt.Sprint(fe.Value()),
			strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "config validation error: " + e.Field + ": " + e.Message
}
