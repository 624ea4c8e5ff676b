package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	r := NewRegistry()
	c := r.NewCounter("sent_total", "Sent commands.", "command", "outcome")

	c.With("update", "success").Inc()
	c.With("update", "success").Add(2)
	c.With("clear", "failure").Inc()
	c.With("clear", "failure").Add(-5) // ignored
	c.With("too", "many", "labels").Inc()

	samples := c.Collect()
	require.Len(t, samples, 2)
	assert.Equal(t, map[string]string{"command": "clear", "outcome": "failure"}, samples[0].Labels)
	assert.Equal(t, 1.0, samples[0].Value)
	assert.Equal(t, 3.0, samples[1].Value)
}

func TestGauge(t *testing.T) {
	r := NewRegistry()
	g := r.NewGauge("depth", "Depth.")
	g.Set(4)
	g.With().Add(-1.5)
	assert.Equal(t, []Sample{{Labels: map[string]string{}, Value: 2.5}}, g.Collect())
}

func TestGaugeFunc(t *testing.T) {
	r := NewRegistry()
	n := 0.0
	r.NewGaugeFunc("pending", "Pending.", func() float64 { return n })
	n = 7

	var b strings.Builder
	require.NoError(t, r.Write(&b))
	assert.Contains(t, b.String(), "pending 7\n")
}

func TestRegistry_Duplicate(t *testing.T) {
	r := NewRegistry()
	r.NewCounter("x", "")
	err := r.Register(&GaugeFunc{name: "x", fn: func() float64 { return 0 }})
	assert.True(t, errors.Is(err, ErrDuplicateMetric))
	assert.Panics(t, func() { r.NewGauge("x", "") })
}

func TestHandler_Exposition(t *testing.T) {
	r := NewRegistry()
	r.NewCounter("b_total", "Second \\ metric\nwith newline.", "sig").With(`a"b`).Inc()
	r.NewGauge("a_status", "First metric.").Set(2)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "text/plain; version=0.0.4; charset=utf-8", rec.Header().Get("Content-Type"))

	want := `# HELP a_status First metric.
# TYPE a_status gauge
a_status 2
# HELP b_total Second \\ metric\nwith newline.
# TYPE b_total counter
b_total{sig="a\"b"} 1
`
	assert.Equal(t, want, rec.Body.String())
}

func TestCounter_Concurrent(t *testing.T) {
	c := NewRegistry().NewCounter("n", "", "k")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.With("v").Inc()
		}()
	}
	wg.Wait()
	assert.Equal(t, 50.0, c.Collect()[0].Value)
}
