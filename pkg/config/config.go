// Package config loads the engine configuration.
//
// Precedence (highest to lowest): flags > CONSTFOLD_* env vars > config
// file > defaults.
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

	"github.com/wildfunctions/constfold/pkg/engine"
)

// EnvPrefix prefixes environment variables that override config keys,
// e.g. CONSTFOLD_LOG_LEVEL.
const EnvPrefix = "CONSTFOLD_"

// DefaultFiles are searched in the working directory when no file is given.
var DefaultFiles = []string{"constfold.yaml", "constfold.yml"}

// skipFlags are flags that are not config keys.
var skipFlags = map[string]bool{"config": true, "set": true}

// findConfigFile returns the explicit path or the first default file that
// exists.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range DefaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load builds the engine config. flags may be nil. It returns the config
// file used, if any.
func Load(cfgFile string, flags *pflag.FlagSet) (engine.Config, string, error) {
	k := koanf.New(".")
	def := engine.DefaultConfig()

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"exact":           def.Exact,
		"precision":       def.Precision,
		"format":          def.Format,
		"workers":         def.Workers,
		"log_level":       def.LogLevel,
		"opaque":          def.Opaque,
		"non_commutative": def.NonCommutative,
		"shape":           def.Shape,
	}, "."), nil); err != nil {
		return engine.Config{}, "", fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return engine.Config{}, "", fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: CONSTFOLD_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return engine.Config{}, "", fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || skipFlags[f.Name] {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return engine.Config{}, "", fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg engine.Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return engine.Config{}, "", fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Opaque = splitList(cfg.Opaque)
	cfg.NonCommutative = splitList(cfg.NonCommutative)

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, used, nil
}

// splitList expands comma-separated entries, as environment variables
// deliver lists as a single string.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ParseLevel maps a log level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", name)
	}
	return l, nil
}
