package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	validBackends   = map[string]bool{BackendMemory: true, BackendRedis: true}
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	validLogFormats = map[string]bool{"text": true, "json": true}
)

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if p := c.Agent.Port; p != DefaultAgentPort && (p < 1 || p > 65535) {
		add("agent.port", "must be -1 or between 1 and 65535, got %d", p)
	}
	if c.Agent.DialTimeout <= 0 {
		add("agent.dialTimeout", "must be positive")
	}
	if c.Agent.HeaderTimeout <= 0 {
		add("agent.headerTimeout", "must be positive")
	}
	if c.Agent.Timeout <= 0 {
		add("agent.timeout", "must be positive")
	}
	if c.Monitor.MaxAttempts < 1 {
		add("monitor.maxAttempts", "must be at least 1, got %d", c.Monitor.MaxAttempts)
	}
	if c.Monitor.Interval < 0 {
		add("monitor.interval", "must not be negative")
	}
	if c.Monitor.ReloadEvery < 0 {
		add("monitor.reloadEvery", "must not be negative")
	}
	if c.Control.Listen == "" {
		add("control.listen", "is required")
	}
	if !validBackends[strings.ToLower(c.Store.Backend)] {
		add("store.backend", "must be %q or %q, got %q", BackendMemory, BackendRedis, c.Store.Backend)
	}
	if strings.EqualFold(c.Store.Backend, BackendRedis) && c.Store.RedisAddr == "" {
		add("store.redisAddr", "is required for the redis backend")
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		add("log.level", "unknown level %q", c.Log.Level)
	}
	if !validLogFormats[strings.ToLower(c.Log.Format)] {
		add("log.format", "unknown format %q", c.Log.Format)
	}
	if d := c.Synth.MaxDepth; d < 0 || d > MaxDepthLimit {
		add("synth.maxDepth", "must be between 0 and %d, got %d", MaxDepthLimit, d)
	}

	return errors.Join(errs...)
}
