package monitor

import "fmt"

// Status is the connection state.
type Status int32

// Statuses. The zero value is StatusStopped.
const (
	StatusStopped Status = iota
	StatusStarting
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "STOPPED"
	case StatusStarting:
		return "STARTING"
	case StatusRunning:
		return "RUNNING"
	default:
		return fmt.Sprintf("Status(%d)", int32(s))
	}
}

// MarshalText renders the status name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name.
func (s *Status) UnmarshalText(text []byte) error {
	for _, c := range []Status{StatusStopped, StatusStarting, StatusRunning} {
		if c.String() == string(text) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}
