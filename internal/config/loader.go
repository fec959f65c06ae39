package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const configName = ".relint-cli"

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetConfigName(configName)
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	v.SetEnvPrefix("RELINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// SetConfigFile sets a specific settings file to use.
func (l *Loader) SetConfigFile(path string) {
	l.v.SetConfigFile(path)
}

// Load loads the configuration from all sources.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()
	l.setDefaults(cfg)

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading settings file: %w", err)
		}
	}

	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling settings: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults registers every key so that environment variables and bound
// flags are seen by Unmarshal.
func (l *Loader) setDefaults(cfg *Config) {
	l.v.SetDefault("rules.file", cfg.Rules.File)
	l.v.SetDefault("rules.fail_warnings", cfg.Rules.FailWarnings)
	l.v.SetDefault("rules.ignore_warnings", cfg.Rules.IgnoreWarnings)
	l.v.SetDefault("rules.engine", cfg.Rules.Engine)

	l.v.SetDefault("output.format", cfg.Output.Format)
	l.v.SetDefault("output.msg_template", cfg.Output.MsgTemplate)
	l.v.SetDefault("output.summarize", cfg.Output.Summarize)
	l.v.SetDefault("output.code_padding", cfg.Output.CodePadding)
	l.v.SetDefault("output.color", cfg.Output.Color)
	l.v.SetDefault("output.verbose", cfg.Output.Verbose)
	l.v.SetDefault("output.quiet", cfg.Output.Quiet)

	l.v.SetDefault("scan.concurrency", cfg.Scan.Concurrency)

	l.v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	l.v.SetDefault("cache.ttl", cfg.Cache.TTL)
	l.v.SetDefault("cache.max_entries", cfg.Cache.MaxEntries)
}

// ConfigFileUsed returns the path of the settings file used, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Viper returns the underlying viper instance, for binding flags.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}
