// Package detect provides buffer and title analysis for classifying the
// activity state of a monitored CLI session. It analyzes a console window's
// title and visible text buffer against a configurable marker table to
// determine whether the CLI is idle, working, ready, waiting on the user,
// or rate limited.
package detect

// State represents the classified activity state of a monitored instance.
// Title markers win over buffer markers because titles update more reliably
// at state boundaries, while the buffer can still show stale output.
type State int

const (
	// StateUnknown is the initial state and the result of classifying
	// content with no recognizable markers at all.
	StateUnknown State = iota

	// StateIdle means the session shows output but no activity markers.
	// Idle is not alert-worthy; it exists so a later significant state
	// re-fires correctly after the session goes quiet.
	StateIdle

	// StateWorking means the CLI is actively processing a task.
	StateWorking

	// StateReady means the CLI finished its task and is ready for a new one.
	StateReady

	// StateActionRequired means the CLI is waiting on the user: an
	// interactive shell prompt, a permission request, or an explicit
	// "Action Required" banner.
	StateActionRequired

	// StateRateLimited means the CLI hit a rate limit or high-demand
	// condition and the task stalled.
	StateRateLimited
)

// String returns a human-readable string for the state.
func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateIdle:
		return "idle"
	case StateWorking:
		return "working"
	case StateReady:
		return "ready"
	case StateActionRequired:
		return "action_required"
	case StateRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// IsSignificant returns true if the state warrants a user-facing
// notification. Working, Idle, and Unknown are background states.
func (s State) IsSignificant() bool {
	return s == StateReady || s == StateActionRequired || s == StateRateLimited
}

// bufferPriority is the fixed order in which buffer markers are checked.
// A buffer containing multiple stale markers resolves deterministically to
// the most urgent one.
var bufferPriority = []State{
	StateActionRequired,
	StateRateLimited,
	StateReady,
	StateWorking,
}

// titlePriority mirrors bufferPriority for title markers.
var titlePriority = []State{
	StateActionRequired,
	StateRateLimited,
	StateWorking,
	StateReady,
}
