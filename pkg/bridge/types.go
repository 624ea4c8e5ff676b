package bridge

import (
	"github.com/getmockd/feignbridge/pkg/dispatch"
	"github.com/getmockd/feignbridge/pkg/monitor"
)

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	Status            monitor.Status `json:"status"`
	AgentURL          string         `json:"agentUrl,omitempty"`
	Suspended         bool           `json:"suspended"`
	SuspendedSessions []string       `json:"suspendedSessions"`
	Pending           []string       `json:"pending"`
	Mocks             int            `json:"mocks"`
	Classes           int            `json:"classes"`
	Uptime            string         `json:"uptime"`
}

// MockEntry is one configured mock.
type MockEntry struct {
	Signature  string `json:"signature"`
	JSON       string `json:"json"`
	Configured bool   `json:"configured"`
}

// SetMockRequest is the body of PUT /mocks.
type SetMockRequest struct {
	Signature string `json:"signature"`
	JSON      string `json:"json"`
}

// CommandResponse reports what happened to a command sent to the agent.
type CommandResponse struct {
	Signature string           `json:"signature,omitempty"`
	Reply     string           `json:"reply"`
	Outcome   dispatch.Outcome `json:"-"`
	Result    string           `json:"outcome"`
}

func commandResponse(sig, reply, expected string) CommandResponse {
	o := dispatch.Classify(reply, expected)
	return CommandResponse{Signature: sig, Reply: reply, Outcome: o, Result: o.String()}
}

// MonitorResponse is returned by the monitor routes.
type MonitorResponse struct {
	Status monitor.Status `json:"status"`
}

// SessionResponse is returned by the debug session routes.
type SessionResponse struct {
	Session   string `json:"session"`
	Suspended bool   `json:"suspended"`
}

// ClientInfo describes a remote client interface.
type ClientInfo struct {
	Name    string       `json:"name"`
	Methods []MethodInfo `json:"methods"`
}

// MethodInfo describes one client method.
type MethodInfo struct {
	Name       string `json:"name"`
	Signature  string `json:"signature"`
	Returns    string `json:"returns"`
	Configured bool   `json:"configured"`
}

// SynthesizeRequest is the body of POST /synthesize. Exactly one of Type and
// Signature must be set; a signature selects the method's return type.
type SynthesizeRequest struct {
	Type      string `json:"type,omitempty"`
	Signature string `json:"signature,omitempty"`
	Format    string `json:"format,omitempty"`
	MaxDepth  *int   `json:"maxDepth,omitempty"`
}
