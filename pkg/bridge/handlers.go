package bridge

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/getmockd/feignbridge/pkg/agentclient"
	"github.com/getmockd/feignbridge/pkg/dispatch"
	"github.com/getmockd/feignbridge/pkg/httputil"
	"github.com/getmockd/feignbridge/pkg/signature"
	"github.com/getmockd/feignbridge/pkg/store"
	"github.com/getmockd/feignbridge/pkg/synth"
	"github.com/getmockd/feignbridge/pkg/typedesc"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.All(r.Context())
	if err != nil {
		s.storeError(w, "list mocks", err)
		return
	}
	resp := StatusResponse{
		Status:            s.monitor.Status(),
		Suspended:         s.tracker.Suspended(),
		SuspendedSessions: s.tracker.Sessions(),
		Pending:           nonNil(s.dispatcher.Pending()),
		Mocks:             len(all),
		Classes:           s.registry.Len(),
		Uptime:            time.Since(s.startTime).Round(time.Second).String(),
	}
	resp.AgentURL = s.agentURL()
	httputil.WriteOK(w, resp)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	reply := s.dispatcher.SendPing(r.Context())
	httputil.WriteOK(w, commandResponse("", reply, dispatch.ExpectPing))
}

// --- Mocks ---

func (s *Server) handleListMocks(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.All(r.Context())
	if err != nil {
		s.storeError(w, "list mocks", err)
		return
	}
	sigs := make([]string, 0, len(all))
	for sig := range all {
		sigs = append(sigs, sig)
	}
	sort.Strings(sigs)

	out := make([]MockEntry, 0, len(sigs))
	for _, sig := range sigs {
		out = append(out, MockEntry{Signature: sig, JSON: all[sig], Configured: store.HasMock(all[sig])})
	}
	httputil.WriteOK(w, out)
}

func (s *Server) handleGetMock(w http.ResponseWriter, r *http.Request) {
	sig, ok := s.signatureParam(w, r)
	if !ok {
		return
	}
	text, err := s.store.Get(r.Context(), sig)
	if errors.Is(err, store.ErrNotFound) {
		httputil.WriteNotFound(w, "not_found", "no mock for "+sig)
		return
	}
	if err != nil {
		s.storeError(w, "get mock", err)
		return
	}
	httputil.WriteOK(w, MockEntry{Signature: sig, JSON: text, Configured: store.HasMock(text)})
}

func (s *Server) handleSetMock(w http.ResponseWriter, r *http.Request) {
	var req SetMockRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "invalid_json", err.Error())
		return
	}
	sig, err := signature.Normalize(req.Signature)
	if err != nil {
		httputil.WriteBadRequest(w, "invalid_signature", err.Error())
		return
	}
	if err := agentclient.Validate(req.JSON); err != nil {
		httputil.WriteBadRequest(w, "invalid_mock", "mock is not valid JSON: "+err.Error())
		return
	}

	ctx, slot := withReplySlot(r.Context())
	if err := s.store.Put(ctx, sig, req.JSON); err != nil {
		s.storeError(w, "put mock", err)
		return
	}
	expected := dispatch.ExpectUpdate
	if !store.HasMock(req.JSON) {
		expected = dispatch.ExpectClear
	}
	httputil.WriteOK(w, commandResponse(sig, slot.reply, expected))
}

func (s *Server) handleDeleteMock(w http.ResponseWriter, r *http.Request) {
	sig, ok := s.signatureParam(w, r)
	if !ok {
		return
	}
	ctx, slot := withReplySlot(r.Context())
	if _, err := s.store.Remove(ctx, sig); err != nil {
		s.storeError(w, "remove mock", err)
		return
	}
	httputil.WriteOK(w, commandResponse(sig, slot.reply, dispatch.ExpectClear))
}

// --- Monitor ---

func (s *Server) handleMonitorStart(w http.ResponseWriter, _ *http.Request) {
	s.monitor.Start(s.ctx)
	httputil.WriteAccepted(w, MonitorResponse{Status: s.monitor.Status()})
}

func (s *Server) handleMonitorStop(w http.ResponseWriter, _ *http.Request) {
	s.monitor.Stop()
	httputil.WriteOK(w, MonitorResponse{Status: s.monitor.Status()})
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	httputil.WriteOK(w, s.monitor.Push(r.Context()))
}

// --- Deferred commands ---

func (s *Server) handleListPending(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, nonNil(s.dispatcher.Pending()))
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	if s.tracker.Suspended() {
		httputil.WriteError(w, http.StatusConflict, "suspended", "target is suspended")
		return
	}
	report := s.dispatcher.ProcessPending(r.Context())
	s.metrics.recordReplay(report)
	httputil.WriteOK(w, report)
}

func (s *Server) handleSuspend(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.tracker.SuspendSession(id)
	httputil.WriteOK(w, SessionResponse{Session: id, Suspended: s.tracker.Suspended()})
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.tracker.ResumeSession(id)
	httputil.WriteOK(w, SessionResponse{Session: id, Suspended: s.tracker.Suspended()})
}

// --- Type descriptors ---

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.All(r.Context())
	if err != nil {
		s.storeError(w, "list mocks", err)
		return
	}
	clients := s.registry.Clients()
	out := make([]ClientInfo, 0, len(clients))
	for _, c := range clients {
		info := ClientInfo{Name: c.Name, Methods: make([]MethodInfo, 0, len(c.Methods))}
		for _, m := range c.Methods {
			sig := signature.Of(c, m)
			info.Methods = append(info.Methods, MethodInfo{
				Name:       m.Name,
				Signature:  sig,
				Returns:    m.Returns.String(),
				Configured: store.HasMock(all[sig]),
			})
		}
		out = append(out, info)
	}
	httputil.WriteOK(w, out)
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var req SynthesizeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteBadRequest(w, "invalid_json", err.Error())
		return
	}

	var ref typedesc.TypeRef
	switch {
	case req.Type != "" && req.Signature != "":
		httputil.WriteBadRequest(w, "invalid_request", "set either type or signature, not both")
		return
	case req.Type != "":
		var err error
		if ref, err = typedesc.ParseTypeRef(req.Type); err != nil {
			httputil.WriteBadRequest(w, "invalid_type", err.Error())
			return
		}
	case req.Signature != "":
		var ok bool
		if ref, ok = s.returnType(req.Signature); !ok {
			httputil.WriteNotFound(w, "not_found", "no client method with signature "+req.Signature)
			return
		}
	default:
		httputil.WriteBadRequest(w, "invalid_request", "type or signature is required")
		return
	}

	gen := s.synth
	if req.MaxDepth != nil {
		if d := *req.MaxDepth; d < 0 || d > synth.MaxDepthLimit {
			httputil.WriteBadRequest(w, "invalid_request",
				fmt.Sprintf("maxDepth must be between 0 and %d", synth.MaxDepthLimit))
			return
		}
		gen = synth.New(s.registry, synth.WithMaxDepth(*req.MaxDepth))
	}
	value := gen.Synthesize(ref)

	switch strings.ToLower(req.Format) {
	case "", "json":
		out, err := synth.Render(value)
		if err != nil {
			httputil.WriteInternalError(w, "render_failed", err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(out)
	case "yaml":
		out, err := synth.RenderYAML(value)
		if err != nil {
			httputil.WriteInternalError(w, "render_failed", err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(out)
	default:
		httputil.WriteBadRequest(w, "invalid_format", "format must be json or yaml")
	}
}

// returnType finds the declared return type of the client method sig.
func (s *Server) returnType(sig string) (typedesc.TypeRef, bool) {
	norm, err := signature.Normalize(sig)
	if err != nil {
		return typedesc.TypeRef{}, false
	}
	for _, c := range s.registry.Clients() {
		for _, m := range c.Methods {
			if signature.Of(c, m) == norm {
				return m.Returns, true
			}
		}
	}
	return typedesc.TypeRef{}, false
}

// --- Helpers ---

func (s *Server) signatureParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := r.URL.Query().Get("signature")
	if raw == "" {
		httputil.WriteBadRequest(w, "invalid_signature", "signature query parameter is required")
		return "", false
	}
	sig, err := signature.Normalize(raw)
	if err != nil {
		httputil.WriteBadRequest(w, "invalid_signature", err.Error())
		return "", false
	}
	return sig, true
}

func (s *Server) storeError(w http.ResponseWriter, op string, err error) {
	s.log.Error("store operation failed", "operation", op, "error", err)
	httputil.WriteInternalError(w, "store_error", "mock store unavailable")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
