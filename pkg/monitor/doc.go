// Package monitor waits for the target application to come up and pushes
// the configured mocks once it does.
//
// A Monitor moves through three states:
//
//	STOPPED --Start--> STARTING --pong--> RUNNING
//	   ^                  |
//	   +--Stop/cancel/attempts exhausted--+
//
// While STARTING it probes the agent every Interval, up to MaxAttempts
// times, reloading configuration every ReloadEvery attempts so a port
// written by the launcher is picked up. The first exact liveness reply moves
// it to RUNNING and triggers a full push of every non-blank mock.
package monitor
