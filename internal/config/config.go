// Package config provides the YAML configuration schema and loader for the
// chime command and tagging server.
package config

import "github.com/verselabs/chime/pkg/rhyme"

// Config is the root configuration structure, typically loaded from a YAML
// file with [Load] or [LoadFromReader].
type Config struct {
	Server     ServerConfig   `yaml:"server"`
	Transcribe EspeakConfig   `yaml:"transcribe"`
	Model      rhyme.Settings `yaml:"model"`

	// ModelPath is the persisted model read by `chime serve` and written
	// by `chime train` when no explicit -out flag is given.
	ModelPath string `yaml:"model_path"`

	// ModelDir resolves bare model names (names without a .json suffix).
	ModelDir string `yaml:"model_dir"`
}

// ServerConfig holds network and logging settings for the tagging server.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g. ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity. Valid values: "debug", "info", "warn",
	// "error".
	LogLevel LogLevel `yaml:"log_level"`

	// AllowedOrigins restricts CORS. Empty means allow all origins, which
	// suits the service's read-mostly API.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// EspeakConfig configures the espeak-ng transcriber subprocess.
type EspeakConfig struct {
	// Binary is the espeak-ng executable; looked up on PATH when it holds
	// no path separator.
	Binary string `yaml:"binary"`

	// Substitutions are ordered IPA rewrites applied to every
	// transcription, useful for collapsing sounds a model should not
	// distinguish.
	Substitutions []Substitution `yaml:"substitutions"`
}

// Substitution is one ordered IPA rewrite.
type Substitution struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// LogLevel is the configured slog verbosity.
type LogLevel string

// Valid log levels.
const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l names a known level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}
