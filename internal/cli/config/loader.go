package config

import (
	"context"
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

// loggerKey is used to store logger in context.
type loggerKey struct{}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// flagKeys maps flag names to config keys where they differ from the
// snake_case form of the flag name. Inverted flags negate their value.
var flagKeys = map[string]struct {
	key    string
	invert bool
}{
	"out":            {key: "out_dir"},
	"format":         {key: "output_format"},
	"output":         {key: "output_format"},
	"remove-asserts": {key: "token_types.asserts"},
	"type-hints":     {key: "token_types.type_hints"},
	"no-fold":        {key: "optimizations.fold_constants", invert: true},
	"keep-imports":   {key: "optimizations.remove_unused_imports", invert: true},
	"this-machine":   {key: "optimizations.assume_this_machine"},
	"name-eq-main":   {key: "sections.name_equals_main"},
}

// FlagKey returns the configuration key a flag sets and whether a boolean
// flag sets the negation of its value. The key is "" for --config.
func FlagKey(name string) (key string, invert bool) {
	if name == "config" {
		return "", false
	}
	if m, ok := flagKeys[name]; ok {
		return m.key, m.invert
	}
	// Transform kebab-case to snake_case for config keys
	return strings.ReplaceAll(name, "-", "_"), false
}

// findConfigFile finds the config file to use.
// Priority: explicit path > pyshrink.yaml > pyshrink.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{DefaultConfigFile, "pyshrink.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

func defaults() map[string]any {
	return map[string]any{
		"target_version":                      "",
		"verbose":                             false,
		"output_format":                       DefaultOutput,
		"jobs":                                0,
		"token_types.type_hints":              DefaultTypeHints,
		"token_types.dangling_expressions":    true,
		"optimizations.fold_constants":        true,
		"optimizations.remove_unused_imports": true,
	}
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (PYSHRINK_ prefix)
	// Transform: PYSHRINK_TOKEN_TYPES__ASSERTS -> token_types.asserts
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key, invert := FlagKey(f.Name)
			if key == "" {
				return "", nil
			}
			val := posflag.FlagVal(flags, f)
			if b, isBool := val.(bool); isBool && invert {
				val = !b
			}
			return key, val
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	currentConfig = &cfg
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
