package detect

import "testing"

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUnknown, "unknown"},
		{StateIdle, "idle"},
		{StateWorking, "working"},
		{StateReady, "ready"},
		{StateActionRequired, "action_required"},
		{StateRateLimited, "rate_limited"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestIsSignificant(t *testing.T) {
	significant := []State{StateReady, StateActionRequired, StateRateLimited}
	for _, s := range significant {
		if !s.IsSignificant() {
			t.Errorf("%s.IsSignificant() = false, want true", s)
		}
	}

	background := []State{StateUnknown, StateIdle, StateWorking}
	for _, s := range background {
		if s.IsSignificant() {
			t.Errorf("%s.IsSignificant() = true, want false", s)
		}
	}
}
