// Package config loads settings for the ec interpreter.
//
// Sources are layered, highest priority first: explicitly set command-line
// flags, EC_* environment variables, a YAML config file, built-in defaults.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	DefaultPrompt     = "EC> "
	DefaultVarsFormat = "plain"
	DefaultColor      = "auto"
	DefaultLogLevel   = "warn"

	// EnvPrefix is stripped from environment variables: EC_MAX_VARS -> max_vars.
	EnvPrefix = "EC_"
)

// configFiles are looked up in the working directory when --config is not set.
var configFiles = []string{"ec.yaml", "ec.yml"}

// Config holds all interpreter and session settings.
type Config struct {
	Prompt      string `koanf:"prompt"`
	HistoryFile string `koanf:"history_file"`
	// MaxVars bounds the number of distinct variables; 0 means unbounded.
	MaxVars    int    `koanf:"max_vars"`
	Strict     bool   `koanf:"strict"`
	Banner     bool   `koanf:"banner"`
	VarsFormat string `koanf:"vars_format"`
	Color      string `koanf:"color"`
	LogLevel   string `koanf:"log_level"`

	// FileUsed is the config file that was read, if any.
	FileUsed string `koanf:"-"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Prompt:     DefaultPrompt,
		Banner:     true,
		VarsFormat: DefaultVarsFormat,
		Color:      DefaultColor,
		LogLevel:   DefaultLogLevel,
	}
}

func defaults() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"prompt":       d.Prompt,
		"history_file": d.HistoryFile,
		"max_vars":     d.MaxVars,
		"strict":       d.Strict,
		"banner":       d.Banner,
		"vars_format":  d.VarsFormat,
		"color":        d.Color,
		"log_level":    d.LogLevel,
	}
}

// findConfigFile returns the explicit path, or the first default file present.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads configuration from defaults, cfgFile (or ec.yaml in the working
// directory), the environment and flags. Only flags marked as changed
// override other sources. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey(flags)), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.FileUsed = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// flagKey maps a changed flag to its config key. Flags that were not set on
// the command line are skipped so they cannot mask file or env values.
func flagKey(flags *pflag.FlagSet) func(f *pflag.Flag) (string, interface{}) {
	return func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		switch f.Name {
		case "config":
			return "", nil
		case "history":
			return "history_file", posflag.FlagVal(flags, f)
		case "no-banner":
			v, _ := flags.GetBool("no-banner")
			return "banner", !v
		}
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.MaxVars < 0 {
		return fmt.Errorf("max_vars must be >= 0, got %d", c.MaxVars)
	}
	switch c.VarsFormat {
	case "plain", "table":
	default:
		return fmt.Errorf("invalid vars_format %q (want plain or table)", c.VarsFormat)
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color %q (want auto, always or never)", c.Color)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
