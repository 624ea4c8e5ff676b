package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/getmockd/feignbridge/pkg/agentclient"
	"github.com/getmockd/feignbridge/pkg/config"
	"github.com/getmockd/feignbridge/pkg/debugstate"
	"github.com/getmockd/feignbridge/pkg/dispatch"
	"github.com/getmockd/feignbridge/pkg/httputil"
	"github.com/getmockd/feignbridge/pkg/logging"
	"github.com/getmockd/feignbridge/pkg/monitor"
	"github.com/getmockd/feignbridge/pkg/store"
	"github.com/getmockd/feignbridge/pkg/synth"
	"github.com/getmockd/feignbridge/pkg/typedesc"
)

// Server owns one monitored target and its control API.
type Server struct {
	holder     *config.Holder
	store      *store.Notifying
	registry   *typedesc.Registry
	synth      *synth.Synthesizer
	transport  dispatch.Transport
	dispatcher *dispatch.Dispatcher
	tracker    *debugstate.Tracker
	monitor    *monitor.Monitor
	metrics    *bridgeMetrics
	log        *slog.Logger

	agentURL  func() string
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTransport replaces the agent HTTP client.
func WithTransport(t dispatch.Transport) Option {
	return func(s *Server) { s.transport = t }
}

// WithRegistry sets the type descriptors used by /clients and /synthesize.
func WithRegistry(r *typedesc.Registry) Option {
	return func(s *Server) {
		if r != nil {
			s.registry = r
		}
	}
}

// New wires a Server around holder and st. Every later write to the store
// is forwarded to the agent through the dispatcher.
func New(holder *config.Holder, st store.MockStore, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		holder:    holder,
		store:     store.NewNotifying(st),
		log:       logging.Nop(),
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry, _ = typedesc.NewRegistry()
	}

	cfg := holder.Current()
	if s.transport == nil {
		s.transport = agentclient.New(holder.Endpoint,
			agentclient.WithHTTPClient(agentclient.NewHTTPClient(
				cfg.Agent.DialTimeout, cfg.Agent.HeaderTimeout, cfg.Agent.Timeout)),
			agentclient.WithLogger(logging.Component(s.log, "agentclient")),
		)
	}

	s.metrics = newBridgeMetrics(s)
	agentTransport := s.transport
	s.transport = &instrumentedTransport{next: s.transport, commands: s.metrics.commands}

	s.synth = synth.New(s.registry, synth.WithMaxDepth(cfg.Synth.MaxDepth))
	s.tracker = debugstate.New(logging.Component(s.log, "debugstate"))
	s.dispatcher = dispatch.New(s.transport, s.tracker, s.store,
		dispatch.WithLogger(logging.Component(s.log, "dispatch")))
	s.monitor = monitor.New(s.dispatcher, s.store,
		monitor.WithMaxAttempts(cfg.Monitor.MaxAttempts),
		monitor.WithInterval(cfg.Monitor.Interval),
		monitor.WithReloadEvery(cfg.Monitor.ReloadEvery),
		monitor.WithReloader(holder),
		monitor.WithLogger(logging.Component(s.log, "monitor")),
	)

	s.store.Subscribe(s.forward)
	s.tracker.OnResume(func() {
		done := s.dispatcher.ProcessPendingAsync(s.ctx)
		go func() { s.metrics.recordReplay(<-done) }()
	})
	s.agentURL = func() string {
		if c, ok := agentTransport.(*agentclient.Client); ok {
			return c.BaseURL()
		}
		return ""
	}
	return s
}

// forward sends a store change to the agent and records the reply for the
// request that caused it. The store already holds the change, so the
// command is sent even if the caller goes away.
func (s *Server) forward(ctx context.Context, c store.Change) {
	reply := s.dispatcher.Apply(context.WithoutCancel(ctx), c)
	if slot, ok := ctx.Value(replyKey{}).(*replySlot); ok {
		slot.reply = reply
		slot.set = true
	}
}

type replyKey struct{}

type replySlot struct {
	reply string
	set   bool
}

func withReplySlot(ctx context.Context) (context.Context, *replySlot) {
	slot := &replySlot{}
	return context.WithValue(ctx, replyKey{}, slot), slot
}

// Store returns the change-notifying store.
func (s *Server) Store() store.MockStore { return s.store }

// Dispatcher returns the command dispatcher.
func (s *Server) Dispatcher() *dispatch.Dispatcher { return s.dispatcher }

// Monitor returns the connection monitor.
func (s *Server) Monitor() *monitor.Monitor { return s.monitor }

// Tracker returns the debugger state tracker.
func (s *Server) Tracker() *debugstate.Tracker { return s.tracker }

// Handler returns the control API with request IDs attached.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return httputil.WithRequestID(mux, logging.Component(s.log, "control"))
}

// Serve runs the control API on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("control API shutdown", "error", err)
		}
	}()

	s.log.Info("control API listening", "addr", ln.Addr().String())
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-stopped
		return nil
	}
	return err
}

// ListenAndServe listens on the configured control address.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.holder.Current().Control.Listen
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Close stops monitoring and background replays.
func (s *Server) Close() {
	s.monitor.Stop()
	s.cancel()
}
