// Package bridge wires the mock store, the command dispatcher, the debugger
// state tracker and the connection monitor together, and exposes them to the
// editor through a small HTTP control API.
//
// Routes:
//
//	GET    /health                      liveness of the bridge itself
//	GET    /status                      monitor status, agent URL, pending commands
//	POST   /ping                        probe the agent through the dispatcher
//	GET    /metrics                     Prometheus text exposition
//	GET    /mocks                       all configured mocks
//	GET    /mocks/entry?signature=S     one mock
//	PUT    /mocks                       set a mock: {"signature": S, "json": "..."}
//	DELETE /mocks/entry?signature=S     remove a mock
//	POST   /monitor/start               start waiting for the target
//	POST   /monitor/stop                stop waiting
//	POST   /push                        send every configured mock now
//	GET    /pending                     commands deferred while suspended
//	POST   /replay                      replay deferred commands now
//	POST   /debug/sessions/{id}/suspend a debug session paused
//	POST   /debug/sessions/{id}/resume  a debug session resumed
//	GET    /clients                     known remote clients and their methods
//	POST   /synthesize                  example value for a type
//
// Signatures contain characters that are awkward in paths, so single-mock
// routes take them as a query parameter.
package bridge
