package metrics

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ErrLabelCountMismatch is returned when the number of label values doesn't match the defined labels.
var ErrLabelCountMismatch = errors.New("label count mismatch")

// ErrDuplicateMetric is returned when registering a metric with a name that is already registered.
var ErrDuplicateMetric = errors.New("duplicate metric name")

// Type is the Prometheus metric type.
type Type string

// Metric types.
const (
	TypeCounter Type = "counter"
	TypeGauge   Type = "gauge"
)

// Sample is one exposed value.
type Sample struct {
	Labels map[string]string
	Value  float64
}

// Metric is anything a Registry can expose.
type Metric interface {
	Name() string
	Help() string
	Type() Type
	Collect() []Sample
}

// series holds the values of a labelled metric keyed by label values.
type series struct {
	name       string
	help       string
	labelNames []string

	mu     sync.Mutex
	values map[string]*value
}

type value struct {
	labels []string
	v      float64
}

func newSeries(name, help string, labelNames []string) *series {
	return &series{name: name, help: help, labelNames: labelNames, values: make(map[string]*value)}
}

func (s *series) get(labels []string) (*value, error) {
	if len(labels) != len(s.labelNames) {
		return nil, fmt.Errorf("%w: %s wants %d, got %d", ErrLabelCountMismatch, s.name, len(s.labelNames), len(labels))
	}
	key := strings.Join(labels, "\xff")
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		v = &value{labels: append([]string(nil), labels...)}
		s.values[key] = v
	}
	return v, nil
}

func (s *series) update(labels []string, fn func(float64) float64) {
	v, err := s.get(labels)
	if err != nil {
		return
	}
	s.mu.Lock()
	v.v = fn(v.v)
	s.mu.Unlock()
}

func (s *series) collect() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Sample, 0, len(s.values))
	for _, v := range s.values {
		labels := make(map[string]string, len(v.labels))
		for i, name := range s.labelNames {
			labels[name] = v.labels[i]
		}
		out = append(out, Sample{Labels: labels, Value: v.v})
	}
	sort.Slice(out, func(i, j int) bool {
		return formatLabels(out[i].Labels) < formatLabels(out[j].Labels)
	})
	return out
}

// Counter is a monotonically increasing metric.
type Counter struct{ s *series }

func (c *Counter) Name() string      { return c.s.name }
func (c *Counter) Help() string      { return c.s.help }
func (c *Counter) Type() Type        { return TypeCounter }
func (c *Counter) Collect() []Sample { return c.s.collect() }

// With returns the child for the given label values. A wrong number of
// values yields a child whose updates are dropped.
func (c *Counter) With(labels ...string) CounterChild {
	return CounterChild{s: c.s, labels: labels}
}

// Inc increments an unlabelled counter.
func (c *Counter) Inc() { c.With().Inc() }

// CounterChild is one labelled counter series.
type CounterChild struct {
	s      *series
	labels []string
}

// Inc adds one.
func (c CounterChild) Inc() { c.Add(1) }

// Add adds delta. Negative deltas are ignored.
func (c CounterChild) Add(delta float64) {
	if delta < 0 {
		return
	}
	c.s.update(c.labels, func(v float64) float64 { return v + delta })
}

// Gauge is a metric that can go up and down.
type Gauge struct{ s *series }

func (g *Gauge) Name() string      { return g.s.name }
func (g *Gauge) Help() string      { return g.s.help }
func (g *Gauge) Type() Type        { return TypeGauge }
func (g *Gauge) Collect() []Sample { return g.s.collect() }

// With returns the child for the given label values.
func (g *Gauge) With(labels ...string) GaugeChild {
	return GaugeChild{s: g.s, labels: labels}
}

// Set sets an unlabelled gauge.
func (g *Gauge) Set(v float64) { g.With().Set(v) }

// GaugeChild is one labelled gauge series.
type GaugeChild struct {
	s      *series
	labels []string
}

// Set replaces the value.
func (g GaugeChild) Set(v float64) {
	g.s.update(g.labels, func(float64) float64 { return v })
}

// Add adds delta, which may be negative.
func (g GaugeChild) Add(delta float64) {
	g.s.update(g.labels, func(v float64) float64 { return v + delta })
}

// GaugeFunc is an unlabelled gauge whose value is read at scrape time.
type GaugeFunc struct {
	name string
	help string
	fn   func() float64
}

func (g *GaugeFunc) Name() string { return g.name }
func (g *GaugeFunc) Help() string { return g.help }
func (g *GaugeFunc) Type() Type   { return TypeGauge }
func (g *GaugeFunc) Collect() []Sample {
	return []Sample{{Value: g.fn()}}
}

// Registry holds metrics and serves them.
type Registry struct {
	mu      sync.RWMutex
	metrics map[string]Metric
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{metrics: make(map[string]Metric)}
}

// NewCounter registers a counter. It panics if name is taken.
func (r *Registry) NewCounter(name, help string, labels ...string) *Counter {
	c := &Counter{s: newSeries(name, help, labels)}
	r.MustRegister(c)
	return c
}

// NewGauge registers a gauge. It panics if name is taken.
func (r *Registry) NewGauge(name, help string, labels ...string) *Gauge {
	g := &Gauge{s: newSeries(name, help, labels)}
	r.MustRegister(g)
	return g
}

// NewGaugeFunc registers a gauge sampled from fn. It panics if name is taken.
func (r *Registry) NewGaugeFunc(name, help string, fn func() float64) *GaugeFunc {
	g := &GaugeFunc{name: name, help: help, fn: fn}
	r.MustRegister(g)
	return g
}

// Register adds m.
func (r *Registry) Register(m Metric) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.metrics[m.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateMetric, m.Name())
	}
	r.metrics[m.Name()] = m
	return nil
}

// MustRegister adds m and panics on error.
func (r *Registry) MustRegister(m Metric) {
	if err := r.Register(m); err != nil {
		panic(err)
	}
}

// Write renders every metric in name order.
func (r *Registry) Write(w io.Writer) error {
	r.mu.RLock()
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	metrics := make([]Metric, 0, len(names))
	sort.Strings(names)
	for _, name := range names {
		metrics = append(metrics, r.metrics[name])
	}
	r.mu.RUnlock()

	var b strings.Builder
	for _, m := range metrics {
		fmt.Fprintf(&b, "# HELP %s %s\n", m.Name(), escapeHelp(m.Help()))
		fmt.Fprintf(&b, "# TYPE %s %s\n", m.Name(), m.Type())
		for _, s := range m.Collect() {
			fmt.Fprintf(&b, "%s%s %s\n", m.Name(), formatLabels(s.Labels), formatFloat(s.Value))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Handler serves the registry in text exposition format.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_ = r.Write(w)
	})
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + `="` + escapeLabelValue(labels[name]) + `"`
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case math.IsNaN(v):
		return "NaN"
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}

var (
	helpEscaper  = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
	labelEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`, `"`, `\"`)
)

func escapeHelp(s string) string       { return helpEscaper.Replace(s) }
func escapeLabelValue(s string) string { return labelEscaper.Replace(s) }
