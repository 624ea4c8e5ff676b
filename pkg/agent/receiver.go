// Package agent is a reference implementation of the in-process agent's HTTP
// surface. It installs mocks keyed by method signature and answers the
// bridge's probes, so the bridge can be run and tested without a real target
// application.
//
// Update and delete are idempotent: repeating an update with the same JSON,
// or deleting a signature that has no mock, succeeds with the same reply.
package agent

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/getmockd/feignbridge/pkg/agentclient"
	"github.com/getmockd/feignbridge/pkg/httputil"
	"github.com/getmockd/feignbridge/pkg/logging"
)

// Receiver holds the mocks installed by the bridge.
type Receiver struct {
	mu    sync.RWMutex
	mocks map[string]string
	ready atomic.Bool
	log   *slog.Logger
}

// New creates a ready Receiver.
func New(log *slog.Logger) *Receiver {
	if log == nil {
		log = logging.Nop()
	}
	r := &Receiver{mocks: make(map[string]string), log: log}
	r.ready.Store(true)
	return r
}

// SetReady controls whether /ping answers pong. A receiver that is not ready
// behaves like an application that is still starting.
func (r *Receiver) SetReady(ready bool) { r.ready.Store(ready) }

// Mock returns the JSON installed for signature.
func (r *Receiver) Mock(signature string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	text, ok := r.mocks[signature]
	return text, ok
}

// Signatures returns the signatures with an installed mock, sorted.
func (r *Receiver) Signatures() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.mocks))
	for sig := range r.mocks {
		out = append(out, sig)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Handler returns the agent's HTTP routes.
func (r *Receiver) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", r.handlePing)
	mux.HandleFunc("POST /update", r.handleUpdate)
	mux.HandleFunc("POST /delete", r.handleDelete)
	mux.HandleFunc("GET /mocks", r.handleList)
	return mux
}

func (r *Receiver) handlePing(w http.ResponseWriter, _ *http.Request) {
	if !r.ready.Load() {
		httputil.WriteText(w, http.StatusServiceUnavailable, "starting")
		return
	}
	httputil.WriteText(w, http.StatusOK, agentclient.ReplyPong)
}

func (r *Receiver) handleUpdate(w http.ResponseWriter, req *http.Request) {
	p, ok := r.decode(w, req)
	if !ok {
		return
	}
	r.mu.Lock()
	r.mocks[p.MethodSignature] = p.JSON
	r.mu.Unlock()
	r.log.Info("mock installed", "signature", p.MethodSignature)
	httputil.WriteText(w, http.StatusOK, agentclient.ReplyOK)
}

func (r *Receiver) handleDelete(w http.ResponseWriter, req *http.Request) {
	p, ok := r.decode(w, req)
	if !ok {
		return
	}
	r.mu.Lock()
	_, existed := r.mocks[p.MethodSignature]
	delete(r.mocks, p.MethodSignature)
	r.mu.Unlock()
	r.log.Info("mock removed", "signature", p.MethodSignature, "existed", existed)
	httputil.WriteText(w, http.StatusOK, agentclient.ReplyDeleted)
}

func (r *Receiver) handleList(w http.ResponseWriter, _ *http.Request) {
	r.mu.RLock()
	out := make(map[string]string, len(r.mocks))
	for k, v := range r.mocks {
		out[k] = v
	}
	r.mu.RUnlock()
	httputil.WriteOK(w, out)
}

func (r *Receiver) decode(w http.ResponseWriter, req *http.Request) (agentclient.Payload, bool) {
	var p agentclient.Payload
	body, err := io.ReadAll(io.LimitReader(req.Body, httputil.MaxBodyBytes))
	if err == nil {
		err = json.Unmarshal(body, &p)
	}
	if err != nil {
		httputil.WriteText(w, http.StatusBadRequest, agentclient.ErrorPrefix+"invalid payload: "+err.Error())
		return p, false
	}
	if p.MethodSignature == "" {
		httputil.WriteText(w, http.StatusBadRequest, agentclient.ErrorPrefix+"methodSignature is required")
		return p, false
	}
	return p, true
}
