package cli

import "errors"

// Common CLI errors
var (
	ErrAgentNotReady = errors.New("agent did not answer pong")
	ErrPushFailed    = errors.New("one or more mocks were not accepted")
	ErrNoType        = errors.New("a type argument or --signature is required")
)
