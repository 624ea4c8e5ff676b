// Package agentclient is the HTTP transport to the agent running inside the
// target application.
//
// The agent exposes three endpoints:
//
//	GET  /ping    answers "pong" once the application is up
//	POST /update  installs a mock: {"methodSignature": "...", "json": "..."}
//	POST /delete  removes a mock; same body with an empty "json"
//
// Every call returns the agent's reply body as a literal string. Transport
// failures never surface as Go errors: they come back as "Error: <msg>", and
// a call made while no port is known returns ReplyNotStarted. Callers that
// want a structured outcome classify the string.
package agentclient
