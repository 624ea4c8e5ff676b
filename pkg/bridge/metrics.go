package bridge

import (
	"context"

	"github.com/getmockd/feignbridge/pkg/dispatch"
	"github.com/getmockd/feignbridge/pkg/metrics"
)

// bridgeMetrics are exposed on GET /metrics.
type bridgeMetrics struct {
	registry *metrics.Registry
	commands *metrics.Counter
	replays  *metrics.Counter
}

func newBridgeMetrics(s *Server) *bridgeMetrics {
	r := metrics.NewRegistry()
	m := &bridgeMetrics{
		registry: r,
		commands: r.NewCounter("feignbridge_agent_commands_total",
			"Commands sent to the agent, by command and outcome.", "command", "outcome"),
		replays: r.NewCounter("feignbridge_replayed_commands_total",
			"Deferred commands replayed after resume, by result.", "result"),
	}
	r.NewGaugeFunc("feignbridge_pending_commands", "Commands deferred while the target is suspended.",
		func() float64 { return float64(len(s.dispatcher.Pending())) })
	r.NewGaugeFunc("feignbridge_connection_status", "Connection status: 0 stopped, 1 starting, 2 running.",
		func() float64 { return float64(s.monitor.Status()) })
	r.NewGaugeFunc("feignbridge_target_suspended", "1 while any debug session is paused.",
		func() float64 {
			if s.tracker.Suspended() {
				return 1
			}
			return 0
		})
	r.NewGaugeFunc("feignbridge_descriptor_classes", "Classes known to the synthesizer.",
		func() float64 { return float64(s.registry.Len()) })
	return m
}

func (m *bridgeMetrics) recordReplay(report dispatch.ReplayReport) {
	m.replays.With("success").Add(float64(report.Succeeded))
	m.replays.With("failure").Add(float64(report.Failed))
}

// instrumentedTransport counts every command that reaches the agent.
type instrumentedTransport struct {
	next     dispatch.Transport
	commands *metrics.Counter
}

func (t *instrumentedTransport) record(command, reply, expected string) string {
	t.commands.With(command, dispatch.Classify(reply, expected).String()).Inc()
	return reply
}

func (t *instrumentedTransport) Ping(ctx context.Context) string {
	return t.record("ping", t.next.Ping(ctx), dispatch.ExpectPing)
}

func (t *instrumentedTransport) Update(ctx context.Context, signature, json string) string {
	return t.record("update", t.next.Update(ctx, signature, json), dispatch.ExpectUpdate)
}

func (t *instrumentedTransport) Clear(ctx context.Context, signature string) string {
	return t.record("clear", t.next.Clear(ctx, signature), dispatch.ExpectClear)
}
