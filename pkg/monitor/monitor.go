package monitor

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getmockd/feignbridge/pkg/agentclient"
	"github.com/getmockd/feignbridge/pkg/dispatch"
	"github.com/getmockd/feignbridge/pkg/logging"
	"github.com/getmockd/feignbridge/pkg/store"
)

// Defaults.
const (
	DefaultMaxAttempts = 200
	DefaultInterval    = 1500 * time.Millisecond
	DefaultReloadEvery = 5
)

// Commander sends probes and updates. *dispatch.Dispatcher implements it.
type Commander interface {
	SendPing(ctx context.Context) string
	SendUpdate(ctx context.Context, signature, json string) string
}

// Reloader re-reads configuration.
type Reloader interface {
	Reload() error
}

// ReloadFunc adapts a function to Reloader.
type ReloadFunc func() error

// Reload calls f.
func (f ReloadFunc) Reload() error { return f() }

// Monitor owns the connection status of one target.
type Monitor struct {
	status atomic.Int32

	cmd      Commander
	store    store.Reader
	reloader Reloader
	log      *slog.Logger

	maxAttempts int
	interval    time.Duration
	reloadEvery int
	token       string

	mu      sync.Mutex
	current *Run
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithMaxAttempts sets the probe budget. Values below 1 are ignored.
func WithMaxAttempts(n int) Option {
	return func(m *Monitor) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithInterval sets the pause between probes.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d >= 0 {
			m.interval = d
		}
	}
}

// WithReloadEvery sets how often, in attempts, configuration is reloaded.
// Zero disables reloading.
func WithReloadEvery(n int) Option {
	return func(m *Monitor) {
		if n >= 0 {
			m.reloadEvery = n
		}
	}
}

// WithReloader sets the configuration reloader.
func WithReloader(r Reloader) Option {
	return func(m *Monitor) { m.reloader = r }
}

// WithLivenessToken sets the probe reply that means "up".
func WithLivenessToken(token string) Option {
	return func(m *Monitor) {
		if token != "" {
			m.token = token
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Monitor) {
		if log != nil {
			m.log = log
		}
	}
}

// New creates a Monitor in the STOPPED state.
func New(cmd Commander, r store.Reader, opts ...Option) *Monitor {
	m := &Monitor{
		cmd:         cmd,
		store:       r,
		log:         logging.Nop(),
		maxAttempts: DefaultMaxAttempts,
		interval:    DefaultInterval,
		reloadEvery: DefaultReloadEvery,
		token:       agentclient.ReplyPong,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Status returns the current status.
func (m *Monitor) Status() Status {
	return Status(m.status.Load())
}

func (m *Monitor) setStatus(s Status) {
	if prev := Status(m.status.Swap(int32(s))); prev != s {
		m.log.Info("status changed", "from", prev, "to", s)
	}
}

// Run is a handle on a monitoring loop started with Start.
type Run struct {
	cancel context.CancelFunc
	done   chan struct{}
	final  Status
}

// Done is closed when the loop has exited.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the loop exits and returns the status it left behind.
func (r *Run) Wait() Status {
	<-r.done
	return r.final
}

// Start begins monitoring in the background. A loop that is already running
// is cancelled and waited for first. The status is STARTING when Start
// returns.
func (m *Monitor) Start(ctx context.Context) *Run {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev := m.current; prev != nil {
		prev.cancel()
		<-prev.done
	}

	runCtx, cancel := context.WithCancel(ctx)
	r := &Run{cancel: cancel, done: make(chan struct{})}
	m.current = r
	m.setStatus(StatusStarting)

	go func() {
		defer close(r.done)
		defer cancel()
		r.final = m.loop(runCtx)
	}()
	return r
}

// Run starts monitoring and blocks until the loop exits. It returns the
// final status.
func (m *Monitor) Run(ctx context.Context) Status {
	return m.Start(ctx).Wait()
}

// Stop moves the monitor to STOPPED. The loop, if any, exits at its next
// check without probing again. Stop is idempotent.
func (m *Monitor) Stop() {
	m.setStatus(StatusStopped)
	m.mu.Lock()
	if m.current != nil {
		m.current.cancel()
	}
	m.mu.Unlock()
}

func (m *Monitor) loop(ctx context.Context) Status {
	for i := 0; i < m.maxAttempts; i++ {
		if ctx.Err() != nil {
			m.setStatus(StatusStopped)
			return StatusStopped
		}
		if m.Status() == StatusStopped {
			return StatusStopped
		}

		if m.reloader != nil && m.reloadEvery > 0 && i%m.reloadEvery == 0 {
			if err := m.reloader.Reload(); err != nil {
				m.log.Warn("config reload failed", "error", err)
			}
		}

		m.log.Info("waiting for target", "attempt", i+1, "of", m.maxAttempts)
		reply := m.cmd.SendPing(ctx)
		m.log.Debug("probe reply", "reply", reply)

		if reply == m.token {
			if !m.status.CompareAndSwap(int32(StatusStarting), int32(StatusRunning)) {
				return m.Status()
			}
			m.log.Info("status changed", "from", StatusStarting, "to", StatusRunning)
			m.Push(ctx)
			return StatusRunning
		}

		select {
		case <-ctx.Done():
			m.setStatus(StatusStopped)
			return StatusStopped
		case <-time.After(m.interval):
		}
	}

	m.log.Info("target did not come up", "attempts", m.maxAttempts)
	m.setStatus(StatusStopped)
	return StatusStopped
}

// PushReport summarizes a full push.
type PushReport struct {
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
	Suspended int `json:"suspended"`
	Skipped   int `json:"skipped"`
}

// Push sends every non-blank mock in the store, one at a time in signature
// order. Blank entries are skipped.
func (m *Monitor) Push(ctx context.Context) PushReport {
	var report PushReport
	all, err := m.store.All(ctx)
	if err != nil {
		m.log.Warn("push aborted, store read failed", "error", err)
		return report
	}

	sigs := make([]string, 0, len(all))
	for sig := range all {
		sigs = append(sigs, sig)
	}
	sort.Strings(sigs)

	for _, sig := range sigs {
		text := all[sig]
		if !store.HasMock(text) {
			report.Skipped++
			continue
		}
		m.log.Debug("pushing mock", "signature", sig)
		reply := m.cmd.SendUpdate(ctx, sig, text)
		switch dispatch.Classify(reply, dispatch.ExpectUpdate) {
		case dispatch.OutcomeSuccess:
			report.Sent++
		case dispatch.OutcomeSuspended:
			report.Suspended++
		default:
			report.Failed++
			m.log.Debug("push reply", "signature", sig, "reply", reply)
		}
	}
	m.log.Info("pushed mocks", "sent", report.Sent, "failed", report.Failed,
		"suspended", report.Suspended, "skipped", report.Skipped)
	return report
}
