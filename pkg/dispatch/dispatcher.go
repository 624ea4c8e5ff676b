package dispatch

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getmockd/feignbridge/internal/id"
	"github.com/getmockd/feignbridge/pkg/logging"
	"github.com/getmockd/feignbridge/pkg/store"
)

// Transport sends commands to the agent. Results are literal reply strings.
type Transport interface {
	Ping(ctx context.Context) string
	Update(ctx context.Context, signature, json string) string
	Clear(ctx context.Context, signature string) string
}

// SuspensionOracle reports whether the target is paused. It is queried on
// every call and must be cheap.
type SuspensionOracle interface {
	Suspended() bool
}

// Dispatcher sends commands or parks them while the target is suspended.
// It is safe for concurrent use.
type Dispatcher struct {
	transport Transport
	oracle    SuspensionOracle
	store     store.Reader
	log       *slog.Logger

	// pending maps signature -> generation (uint64).
	pending sync.Map
	gen     atomic.Uint64

	// replayMu serializes replays so two resume events do not send the
	// same signature twice.
	replayMu sync.Mutex
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// New creates a Dispatcher. A nil oracle means "never suspended".
func New(t Transport, oracle SuspensionOracle, r store.Reader, opts ...Option) *Dispatcher {
	if oracle == nil {
		oracle = running{}
	}
	d := &Dispatcher{
		transport: t,
		oracle:    oracle,
		store:     r,
		log:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SendUpdate installs json for signature, or parks signature if the target
// is suspended.
func (d *Dispatcher) SendUpdate(ctx context.Context, signature, json string) string {
	if d.park(signature) {
		return Suspended
	}
	return d.transport.Update(ctx, signature, json)
}

// SendClear removes the mock for signature, or parks signature if the
// target is suspended.
func (d *Dispatcher) SendClear(ctx context.Context, signature string) string {
	if d.park(signature) {
		return Suspended
	}
	return d.transport.Clear(ctx, signature)
}

// SendPing probes the agent. Pings are never parked.
func (d *Dispatcher) SendPing(ctx context.Context) string {
	if d.oracle.Suspended() {
		return Suspended
	}
	return d.transport.Ping(ctx)
}

// Apply forwards a store change as the matching command.
func (d *Dispatcher) Apply(ctx context.Context, c store.Change) string {
	if c.Kind == store.ChangePut && store.HasMock(c.JSON) {
		return d.SendUpdate(ctx, c.Signature, c.JSON)
	}
	return d.SendClear(ctx, c.Signature)
}

func (d *Dispatcher) park(signature string) bool {
	if !d.oracle.Suspended() {
		return false
	}
	_, existed := d.pending.Swap(signature, d.gen.Add(1))
	if !existed {
		d.log.Info("target suspended, command deferred", "signature", signature)
	}
	return true
}

// Pending returns the parked signatures, sorted.
func (d *Dispatcher) Pending() []string {
	var sigs []string
	d.pending.Range(func(k, _ any) bool {
		sigs = append(sigs, k.(string))
		return true
	})
	sort.Strings(sigs)
	return sigs
}

// ReplayReport summarizes one ProcessPending call.
type ReplayReport struct {
	Batch     string        `json:"batch"`
	Attempted int           `json:"attempted"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Remaining int           `json:"remaining"`
	Elapsed   time.Duration `json:"elapsed"`
}

type pendingItem struct {
	signature  string
	generation uint64
}

// ProcessPending replays every signature parked at the time of the call.
// Each is sent at most once and removed afterwards whatever the reply.
// Replay stops early, leaving the rest parked, if ctx is cancelled or the
// target is suspended again. A signature whose store read fails stays
// parked.
func (d *Dispatcher) ProcessPending(ctx context.Context) ReplayReport {
	d.replayMu.Lock()
	defer d.replayMu.Unlock()

	var report ReplayReport
	items := d.snapshot()
	if len(items) == 0 {
		return report
	}

	start := time.Now()
	report.Batch = id.Short()
	log := d.log.With("batch", report.Batch)
	log.Info("replaying deferred commands", "count", len(items))

	for _, it := range items {
		if ctx.Err() != nil {
			log.Info("replay cancelled", "error", ctx.Err())
			break
		}
		if d.oracle.Suspended() {
			log.Info("target suspended again, replay paused")
			break
		}

		text, ok, err := store.Lookup(ctx, d.store, it.signature)
		if err != nil {
			log.Warn("replay skipped, store read failed", "signature", it.signature, "error", err)
			continue
		}

		var reply, expected, command string
		if ok {
			command, expected = "update", ExpectUpdate
			reply = d.transport.Update(ctx, it.signature, text)
		} else {
			command, expected = "clear", ExpectClear
			reply = d.transport.Clear(ctx, it.signature)
		}
		d.pending.CompareAndDelete(it.signature, it.generation)

		report.Attempted++
		outcome := Classify(reply, expected)
		if outcome == OutcomeSuccess {
			report.Succeeded++
			log.Info("replayed", "signature", it.signature, "command", command)
		} else {
			report.Failed++
			log.Warn("replay failed, dropping", "signature", it.signature, "command", command, "reply", reply)
		}
	}

	report.Remaining = len(d.Pending())
	report.Elapsed = time.Since(start)
	log.Info("replay finished",
		"attempted", report.Attempted,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"remaining", report.Remaining,
	)
	return report
}

// ProcessPendingAsync runs ProcessPending on its own goroutine. The returned
// channel receives the report and is then closed.
func (d *Dispatcher) ProcessPendingAsync(ctx context.Context) <-chan ReplayReport {
	done := make(chan ReplayReport, 1)
	go func() {
		defer close(done)
		done <- d.ProcessPending(ctx)
	}()
	return done
}

func (d *Dispatcher) snapshot() []pendingItem {
	var items []pendingItem
	d.pending.Range(func(k, v any) bool {
		items = append(items, pendingItem{signature: k.(string), generation: v.(uint64)})
		return true
	})
	sort.Slice(items, func(i, j int) bool { return items[i].signature < items[j].signature })
	return items
}

type running struct{}

func (running) Suspended() bool { return false }
