// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/pngme/lib/payload"
	"github.com/bureau-foundation/pngme/lib/sealed"
)

// EnvironmentVariable names the configuration file.
const EnvironmentVariable = "PNGME_CONFIG"

// Config is the complete pngme configuration.
type Config struct {
	Log    LogConfig    `yaml:"log" json:"log"`
	Encode EncodeConfig `yaml:"encode" json:"encode"`
	Decode DecodeConfig `yaml:"decode" json:"decode"`
	Output OutputConfig `yaml:"output" json:"output"`

	// Path is the file this configuration was loaded from, or empty
	// for defaults.
	Path string `yaml:"-" json:"-"`
}

// LogConfig configures the command logger.
type LogConfig struct {
	// Level is debug, info, warn, or error. Default: info.
	Level string `yaml:"level" json:"level"`
}

// EncodeConfig holds defaults for "pngme encode".
type EncodeConfig struct {
	// Compression is none, lz4, zstd, or auto. Default: none.
	Compression string `yaml:"compression" json:"compression"`

	// Recipients are age1... public keys. When non-empty, encoded
	// messages are sealed to all of them.
	Recipients []string `yaml:"recipients" json:"recipients"`
}

// DecodeConfig holds defaults for "pngme decode".
type DecodeConfig struct {
	// IdentityFile is an age identity file used to open sealed
	// messages. Supports ${VAR} expansion.
	IdentityFile string `yaml:"identity_file" json:"identity_file"`
}

// OutputConfig controls how modified files are written.
type OutputConfig struct {
	// Backup copies the original to <file>.bak before an in-place
	// rewrite.
	Backup bool `yaml:"backup" json:"backup"`

	// FileMode is the octal permission for newly created output files,
	// e.g. "0644". Existing files keep their mode.
	FileMode string `yaml:"file_mode" json:"file_mode"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info"},
		Encode: EncodeConfig{Compression: "none"},
		Output: OutputConfig{FileMode: "0644"},
	}
}

// Load reads the file named by PNGME_CONFIG, or returns [Default] when
// the variable is unset or empty.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads and validates the configuration at path. Fields the
// file does not mention keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := cfg.decode(path, data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.Path = path
	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(path string, data []byte) error {
	switch extension := strings.ToLower(filepath.Ext(path)); extension {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		return decoder.Decode(c)
	default:
		return fmt.Errorf("unsupported config extension %q (want .yaml, .yml, .json, or .jsonc)", extension)
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func (c *Config) expandVariables() {
	c.Decode.IdentityFile = expandVars(c.Decode.IdentityFile)
}

// expandVars replaces ${VAR} and ${VAR:-default}. An unset or empty
// variable without a default expands to the empty string.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks every field and joins all problems into one error.
func (c *Config) Validate() error {
	var errs []error

	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := payload.ParseCompression(c.Encode.Compression); err != nil {
		errs = append(errs, fmt.Errorf("encode.compression: %w", err))
	}
	for index, recipient := range c.Encode.Recipients {
		if err := sealed.ParsePublicKey(recipient); err != nil {
			errs = append(errs, fmt.Errorf("encode.recipients[%d]: %w", index, err))
		}
	}
	if _, err := ParseFileMode(c.Output.FileMode); err != nil {
		errs = append(errs, fmt.Errorf("output.file_mode: %w", err))
	}

	return errors.Join(errs...)
}

// ParseLevel parses debug, info, warn, or error. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown level %q (want debug, info, warn, or error)", name)
	}
	return level, nil
}

// ParseFileMode parses an octal permission string such as "0644" or
// "600". Empty means 0644. Only permission bits are allowed.
func ParseFileMode(text string) (fs.FileMode, error) {
	if text == "" {
		return 0o644, nil
	}
	value, err := strconv.ParseUint(strings.TrimPrefix(text, "0o"), 8, 32)
	if err != nil {
		return 0, fmt.Errorf("%q is not an octal mode", text)
	}
	if value&^uint64(fs.ModePerm) != 0 {
		return 0, fmt.Errorf("%q has bits outside 0777", text)
	}
	return fs.FileMode(value), nil
}

// LogLevel returns the validated log level.
func (c *Config) LogLevel() slog.Level {
	level, _ := ParseLevel(c.Log.Level)
	return level
}

// Compression returns the validated default compression choice.
func (c *Config) Compression() payload.Compression {
	choice, _ := payload.ParseCompression(c.Encode.Compression)
	return choice
}

// FileMode returns the validated output file mode.
func (c *Config) FileMode() fs.FileMode {
	mode, _ := ParseFileMode(c.Output.FileMode)
	return mode
}
