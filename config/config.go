// Package config resolves the settings shared by the hclparse commands.
//
// Settings are layered, each source overriding the previous one:
// built in defaults, an hclparse.toml found by walking up from the working
// directory, a .env file in the working directory, HCLPARSE_* environment
// variables and finally command line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	FileName  = "hclparse.toml"
	EnvFile   = ".env"
	EnvPrefix = "HCLPARSE_"
)

// Config holds the settings for parsing and reporting.
type Config struct {
	// Sources larger than this are rejected before lexing. 0 => no limit
	MaxInputBytes int `toml:"max_input_bytes"`

	// Diagnostics kept per file. 0 => no limit
	MaxErrors int `toml:"max_errors"`

	// Files parsed at once
	Concurrency int `toml:"concurrency"`

	// "auto", "always" or "never"
	Color string `toml:"color"`

	// "debug", "info", "warn" or "error"
	LogLevel string `toml:"log_level"`

	// Extension of the files picked up when a directory is given
	Extension string `toml:"extension"`
}

// Default returns the built in settings.
func Default() *Config {
	return &Config{
		MaxInputBytes: 8 << 20,
		MaxErrors:     0,
		Concurrency:   runtime.GOMAXPROCS(0),
		Color:         "auto",
		LogLevel:      "warn",
		Extension:     ".hcl",
	}
}

// FindConfigFile walks up from startDir looking for hclparse.toml and returns
// its path, or "" if there is none.
func FindConfigFile(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load decodes the file at path on top of the defaults.  Unknown keys are an
// error so typos do not go unnoticed.
func Load(path string) (*Config, error) {
	config := Default()
	meta, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return config, nil
}

// Resolve builds the configuration for a run in dir from every source except
// flags.  When configPath is empty hclparse.toml is searched for from dir
// upwards.  The returned path is the config file used, or "".
func Resolve(dir, configPath string) (*Config, string, error) {
	config := Default()
	if configPath == "" {
		configPath = FindConfigFile(dir)
	}
	if configPath != "" {
		var err error
		if config, err = Load(configPath); err != nil {
			return nil, "", err
		}
	}

	dotenv, err := godotenv.Read(filepath.Join(dir, EnvFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("reading %s: %w", EnvFile, err)
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := config.ApplyEnv(lookup); err != nil {
		return nil, "", err
	}
	return config, configPath, config.Validate()
}

// ApplyEnv overrides settings from HCLPARSE_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	ints := map[string]*int{
		"MAX_INPUT_BYTES": &c.MaxInputBytes,
		"MAX_ERRORS":      &c.MaxErrors,
		"CONCURRENCY":     &c.Concurrency,
	}
	for name, field := range ints {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*field = n
	}
	strs := map[string]*string{
		"COLOR":     &c.Color,
		"LOG_LEVEL": &c.LogLevel,
		"EXTENSION": &c.Extension,
	}
	for name, field := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*field = strings.TrimSpace(v)
		}
	}
	return nil
}

// Validate checks the ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxInputBytes < 0 {
		errs = append(errs, fmt.Errorf("max_input_bytes must not be negative, got %d", c.MaxInputBytes))
	}
	if c.MaxErrors < 0 {
		errs = append(errs, fmt.Errorf("max_errors must not be negative, got %d", c.MaxErrors))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("color must be auto, always or never, got %q", c.Color))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if !strings.HasPrefix(c.Extension, ".") {
		errs = append(errs, fmt.Errorf("extension must start with '.', got %q", c.Extension))
	}
	return errors.Join(errs...)
}

// SlogLevel converts LogLevel for use with log/slog.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
