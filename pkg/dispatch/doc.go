// Package dispatch routes mock commands to the agent while respecting the
// target's debugger state.
//
// While the target is paused at a breakpoint, update and clear commands are
// not sent. Their signatures are parked in a pending set and the call
// returns the Suspended sentinel. When the target resumes, ProcessPending
// replays each parked signature once, reading the current mock text from the
// store: non-blank text is sent as an update, blank or absent text as a
// clear. A replay that fails is logged and dropped.
//
// The pending set tolerates inserts while a replay is running. Each insert
// stamps the signature with a fresh generation, and a replay only removes
// the exact generation it snapshotted, so an edit that lands mid-replay is
// kept for the next one.
package dispatch
