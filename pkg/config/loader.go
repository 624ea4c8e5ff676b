package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// EnvConfig names the variable that overrides the config file path.
const EnvConfig = "FEIGNBRIDGE_CONFIG"

// Common errors for configuration loading.
var (
	ErrNoConfig     = errors.New("configuration file not found")
	ErrInvalidValue = errors.New("invalid configuration value")
)

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return e.Path + " (line " + strconv.Itoa(e.Line) + "): " + e.Message
	}
	return e.Path + ": " + e.Message
}

// ValidationError reports a field that holds an unusable value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap lets callers match ErrInvalidValue.
func (e *ValidationError) Unwrap() error { return ErrInvalidValue }

// Override adjusts a loaded configuration; command-line flags use it.
type Override func(*Config)

// FindLocal returns the path of DefaultFileName in dir, or "" when absent.
// FEIGNBRIDGE_CONFIG takes precedence when set.
func FindLocal(dir string) string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	p := filepath.Join(dir, DefaultFileName)
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// Load builds a configuration from defaults, the file at path, the
// environment and overrides, in that order, and validates it. An empty path
// skips the file layer.
func Load(path string, overrides ...Override) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrNoConfig, path)
			}
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := decodeYAML(path, data, cfg); err != nil {
			return nil, err
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays FEIGNBRIDGE_* variables onto cfg. Unset variables leave
// fields untouched; list values are separated by ";".
func ApplyEnv(cfg *Config) error {
	err := envdecode.Decode(cfg)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

func decodeYAML(path string, data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty file: defaults stand.
			return nil
		}
		ce := &ConfigError{Path: path, Message: err.Error()}
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			ce.Line, _ = strconv.Atoi(m[1])
		}
		return ce
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
