package bridge

import "net/http"

// registerRoutes sets up all control API routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("POST /ping", s.handlePing)
	mux.Handle("GET /metrics", s.metrics.registry.Handler())

	// Mocks
	mux.HandleFunc("GET /mocks", s.handleListMocks)
	mux.HandleFunc("PUT /mocks", s.handleSetMock)
	mux.HandleFunc("GET /mocks/entry", s.handleGetMock)
	mux.HandleFunc("DELETE /mocks/entry", s.handleDeleteMock)

	// Connection monitor
	mux.HandleFunc("POST /monitor/start", s.handleMonitorStart)
	mux.HandleFunc("POST /monitor/stop", s.handleMonitorStop)
	mux.HandleFunc("POST /push", s.handlePush)

	// Deferred commands and debugger state
	mux.HandleFunc("GET /pending", s.handleListPending)
	mux.HandleFunc("POST /replay", s.handleReplay)
	mux.HandleFunc("POST /debug/sessions/{id}/suspend", s.handleSuspend)
	mux.HandleFunc("POST /debug/sessions/{id}/resume", s.handleResume)

	// Type descriptors
	mux.HandleFunc("GET /clients", s.handleListClients)
	mux.HandleFunc("POST /synthesize", s.handleSynthesize)
}
