// Package debugstate tracks whether the target application is paused at a
// breakpoint and tells interested parties when it runs again.
//
// Each debug session is tracked separately. The target counts as suspended
// while any session is paused; resume listeners fire when the last paused
// session resumes.
package debugstate

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/getmockd/feignbridge/pkg/logging"
)

// DefaultSession names the session used by Suspend and Resume.
const DefaultSession = "default"

// Tracker records paused debug sessions.
type Tracker struct {
	mu        sync.Mutex
	paused    map[string]struct{}
	listeners []func()
	log       *slog.Logger
}

// New creates a Tracker with no paused sessions.
func New(log *slog.Logger) *Tracker {
	if log == nil {
		log = logging.Nop()
	}
	return &Tracker{paused: make(map[string]struct{}), log: log}
}

// Suspended reports whether any session is paused.
func (t *Tracker) Suspended() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.paused) > 0
}

// Sessions returns the paused session IDs, sorted.
func (t *Tracker) Sessions() []string {
	t.mu.Lock()
	ids := make([]string, 0, len(t.paused))
	for id := range t.paused {
		ids = append(ids, id)
	}
	t.mu.Unlock()
	sort.Strings(ids)
	return ids
}

// OnResume registers fn to run each time the target goes from suspended to
// running. Listeners run synchronously on the resuming goroutine and must
// not block.
func (t *Tracker) OnResume(fn func()) {
	t.mu.Lock()
	t.listeners = append(t.listeners, fn)
	t.mu.Unlock()
}

// Suspend marks the default session paused.
func (t *Tracker) Suspend() { t.SuspendSession(DefaultSession) }

// Resume marks the default session running.
func (t *Tracker) Resume() { t.ResumeSession(DefaultSession) }

// SuspendSession marks session paused. Pausing a paused session is a no-op.
func (t *Tracker) SuspendSession(session string) {
	t.mu.Lock()
	_, already := t.paused[session]
	t.paused[session] = struct{}{}
	t.mu.Unlock()

	if !already {
		t.log.Info("debug session paused", "session", session)
	}
}

// ResumeSession marks session running. Listeners fire only if this was the
// last paused session; resuming a running session does nothing.
func (t *Tracker) ResumeSession(session string) {
	t.mu.Lock()
	if _, ok := t.paused[session]; !ok {
		t.mu.Unlock()
		return
	}
	delete(t.paused, session)
	running := len(t.paused) == 0
	var listeners []func()
	if running {
		listeners = make([]func(), len(t.listeners))
		copy(listeners, t.listeners)
	}
	t.mu.Unlock()

	t.log.Info("debug session resumed", "session", session, "running", running)
	for _, fn := range listeners {
		fn()
	}
}

// EndSession forgets session, as when the debugger detaches. It behaves like
// ResumeSession.
func (t *Tracker) EndSession(session string) { t.ResumeSession(session) }
