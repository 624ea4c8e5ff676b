package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/getmockd/feignbridge/pkg/logging"
)

// Holder owns the current configuration. Reads are lock-free.
type Holder struct {
	path      string
	overrides []Override
	log       *slog.Logger

	cur atomic.Pointer[Config]

	mu        sync.Mutex // serializes Reload
	listeners []func(*Config)
}

// Open loads path and returns a Holder for it. An empty path holds defaults
// plus environment and overrides; Reload then re-reads only the environment.
func Open(path string, log *slog.Logger, overrides ...Override) (*Holder, error) {
	cfg, err := Load(path, overrides...)
	if err != nil {
		return nil, err
	}
	return NewHolder(path, cfg, log, overrides...), nil
}

// NewHolder wraps an already loaded configuration.
func NewHolder(path string, cfg *Config, log *slog.Logger, overrides ...Override) *Holder {
	if log == nil {
		log = logging.Nop()
	}
	if cfg == nil {
		cfg = Default()
	}
	h := &Holder{path: path, overrides: overrides, log: log}
	h.cur.Store(cfg)
	return h
}

// Path returns the file backing the holder, or "".
func (h *Holder) Path() string { return h.path }

// Current returns the current configuration. Callers must not modify it.
func (h *Holder) Current() *Config { return h.cur.Load() }

// Endpoint returns the agent host and port of the current configuration.
func (h *Holder) Endpoint() (string, int) {
	c := h.Current()
	return c.Agent.Host, c.Agent.Port
}

// OnChange registers fn to run after every successful Reload or Set.
func (h *Holder) OnChange(fn func(*Config)) {
	h.mu.Lock()
	h.listeners = append(h.listeners, fn)
	h.mu.Unlock()
}

// Set replaces the configuration without touching disk.
func (h *Holder) Set(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.swap(cfg)
	return nil
}

// Reload re-reads the configuration. On error the previous configuration
// stays in place.
func (h *Holder) Reload() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	cfg, err := Load(h.path, h.overrides...)
	if err != nil {
		return err
	}
	h.swap(cfg)
	return nil
}

func (h *Holder) swap(cfg *Config) {
	prev := h.cur.Swap(cfg)
	if prev != nil && prev.Agent.Port != cfg.Agent.Port {
		h.log.Info("agent port changed", "from", prev.Agent.Port, "to", cfg.Agent.Port)
	}
	for _, fn := range h.listeners {
		fn(cfg)
	}
}

// Watch reloads the configuration whenever its file is written, until ctx is
// done. Bursts of events within debounce are coalesced. Reload failures are
// logged and the previous configuration kept.
func (h *Holder) Watch(ctx context.Context, debounce time.Duration) error {
	if h.path == "" {
		return errors.New("watch: no config file")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer func() { _ = w.Close() }()

	// Watch the directory: editors often replace the file by rename.
	abs, err := filepath.Abs(h.path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	h.log.Debug("watching config", "path", abs)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounce)
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			h.log.Warn("config watcher error", "error", err)
		case <-fire:
			fire = nil
			if err := h.Reload(); err != nil {
				h.log.Warn("config reload failed", "path", abs, "error", err)
				continue
			}
			h.log.Info("config reloaded", "path", abs)
		}
	}
}
