package dispatch

import "github.com/getmockd/feignbridge/pkg/agentclient"

// Suspended is returned instead of contacting the agent while the target is
// paused.
const Suspended = "Suspended"

// Outcome classifies a literal reply.
type Outcome int

// Outcomes.
const (
	OutcomeFailure Outcome = iota
	OutcomeSuccess
	OutcomeSuspended
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeSuspended:
		return "suspended"
	default:
		return "failure"
	}
}

// Classify maps reply onto an Outcome. Only an exact match with expected is
// a success; the Suspended sentinel is its own outcome; anything else fails.
func Classify(reply, expected string) Outcome {
	switch reply {
	case expected:
		return OutcomeSuccess
	case Suspended:
		return OutcomeSuspended
	default:
		return OutcomeFailure
	}
}

// Expected replies per command.
const (
	ExpectPing   = agentclient.ReplyPong
	ExpectUpdate = agentclient.ReplyOK
	ExpectClear  = agentclient.ReplyDeleted
)
