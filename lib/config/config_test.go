// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/pngme/lib/payload"
	"github.com/bureau-foundation/pngme/lib/sealed"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func generatedRecipient(t *testing.T) string {
	t.Helper()
	keypair, err := sealed.GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair failed: %v", err)
	}
	defer keypair.Close()
	return keypair.PublicKey
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() does not validate: %v", err)
	}
	if cfg.LogLevel() != slog.LevelInfo {
		t.Errorf("LogLevel() = %v, want info", cfg.LogLevel())
	}
	if cfg.Compression() != (payload.Compression{Tag: payload.CompressionNone}) {
		t.Errorf("Compression() = %v, want none", cfg.Compression())
	}
	if cfg.FileMode() != 0o644 {
		t.Errorf("FileMode() = %v, want 0644", cfg.FileMode())
	}
	if cfg.Output.Backup {
		t.Error("Backup defaults to true")
	}
}

func TestLoadWithoutVariableUsesDefaults(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty", cfg.Path)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadFromVariable(t *testing.T) {
	path := writeConfig(t, "pngme.yaml", "log:\n  level: debug\n")
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel() = %v, want debug", cfg.LogLevel())
	}
}

func TestLoadFileYAML(t *testing.T) {
	recipient := generatedRecipient(t)
	path := writeConfig(t, "pngme.yml", `
log:
  level: warn
encode:
  compression: auto
  recipients:
    - `+recipient+`
decode:
  identity_file: /keys/identity.txt
output:
  backup: true
  file_mode: "0600"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.LogLevel() != slog.LevelWarn {
		t.Errorf("LogLevel() = %v, want warn", cfg.LogLevel())
	}
	if !cfg.Compression().Auto {
		t.Errorf("Compression() = %v, want auto", cfg.Compression())
	}
	if len(cfg.Encode.Recipients) != 1 || cfg.Encode.Recipients[0] != recipient {
		t.Errorf("Recipients = %v", cfg.Encode.Recipients)
	}
	if cfg.Decode.IdentityFile != "/keys/identity.txt" {
		t.Errorf("IdentityFile = %q", cfg.Decode.IdentityFile)
	}
	if !cfg.Output.Backup {
		t.Error("Backup = false, want true")
	}
	if cfg.FileMode() != 0o600 {
		t.Errorf("FileMode() = %v, want 0600", cfg.FileMode())
	}
}

func TestLoadFileJSONC(t *testing.T) {
	path := writeConfig(t, "pngme.jsonc", `{
  // Compress everything.
  "encode": {"compression": "zstd"},
  /* keep the rest default */
  "output": {"backup": true,},
}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Compression().Tag != payload.CompressionZstd {
		t.Errorf("Compression() = %v, want zstd", cfg.Compression())
	}
	if !cfg.Output.Backup {
		t.Error("Backup = false, want true")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("unmentioned Log.Level = %q, want default info", cfg.Log.Level)
	}
}

func TestLoadFileEmptyYAML(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "empty.yaml", ""))
	if err != nil {
		t.Fatalf("LoadFile(empty) failed: %v", err)
	}
	if cfg.Encode.Compression != "none" {
		t.Errorf("Compression = %q, want default", cfg.Encode.Compression)
	}
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	for name, content := range map[string]string{
		"typo.yaml": "encode:\n  compresion: zstd\n",
		"typo.json": `{"output": {"bakup": true}}`,
	} {
		if _, err := LoadFile(writeConfig(t, name, content)); err == nil {
			t.Errorf("LoadFile(%s) accepted an unknown key", name)
		}
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error = %v, want fs.ErrNotExist", err)
	}
	if _, err := LoadFile(writeConfig(t, "pngme.toml", "")); err == nil {
		t.Error("LoadFile accepted a .toml file")
	}
	if _, err := LoadFile(writeConfig(t, "bad.yaml", "log: [unterminated\n")); err == nil {
		t.Error("LoadFile accepted malformed YAML")
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	cfg.Encode.Compression = "gzip"
	cfg.Encode.Recipients = []string{"age1bogus"}
	cfg.Output.FileMode = "rw-r--r--"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate accepted an invalid config")
	}
	for _, field := range []string{"log.level", "encode.compression", "encode.recipients[0]", "output.file_mode"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error does not mention %s: %v", field, err)
		}
	}
}

func TestExpandVariables(t *testing.T) {
	t.Setenv("PNGME_TEST_KEYS", "/secure/keys")
	t.Setenv("PNGME_TEST_UNSET", "")

	tests := []struct {
		input string
		want  string
	}{
		{"${PNGME_TEST_KEYS}/id.txt", "/secure/keys/id.txt"},
		{"${PNGME_TEST_UNSET:-/fallback}/id.txt", "/fallback/id.txt"},
		{"${PNGME_TEST_UNSET}/id.txt", "/id.txt"},
		{"/plain/path", "/plain/path"},
	}
	for _, test := range tests {
		if got := expandVars(test.input); got != test.want {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestLoadFileExpandsIdentityFile(t *testing.T) {
	t.Setenv("PNGME_TEST_HOME", "/home/tester")
	path := writeConfig(t, "pngme.yaml", "decode:\n  identity_file: ${PNGME_TEST_HOME}/.age/key.txt\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Decode.IdentityFile != "/home/tester/.age/key.txt" {
		t.Errorf("IdentityFile = %q", cfg.Decode.IdentityFile)
	}
}

func TestParseFileMode(t *testing.T) {
	tests := []struct {
		text    string
		want    fs.FileMode
		wantErr bool
	}{
		{"", 0o644, false},
		{"0644", 0o644, false},
		{"600", 0o600, false},
		{"0o755", 0o755, false},
		{"0888", 0, true},
		{"4755", 0, true},
		{"abc", 0, true},
	}
	for _, test := range tests {
		got, err := ParseFileMode(test.text)
		if (err != nil) != test.wantErr {
			t.Errorf("ParseFileMode(%q) error = %v, wantErr %v", test.text, err, test.wantErr)
			continue
		}
		if got != test.want {
			t.Errorf("ParseFileMode(%q) = %v, want %v", test.text, got, test.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for text, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(text)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", text, got, err, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("ParseLevel(verbose) succeeded")
	}
}
