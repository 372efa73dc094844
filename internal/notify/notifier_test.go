package notify

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Misadov/gemini-cli-notify/internal/detect"
	"github.com/Misadov/gemini-cli-notify/internal/errors"
)

func TestMessagesCoverSignificantStates(t *testing.T) {
	for _, state := range []detect.State{
		detect.StateReady,
		detect.StateActionRequired,
		detect.StateRateLimited,
	} {
		format, ok := messages[state]
		if !ok {
			t.Errorf("no message for significant state %s", state)
			continue
		}
		if !strings.Contains(format, "%s") {
			t.Errorf("message for %s has no label placeholder: %q", state, format)
		}
		body := fmt.Sprintf(format, "PID 4120")
		if !strings.Contains(body, "PID 4120") {
			t.Errorf("label missing from formatted message: %q", body)
		}
	}
}

func TestMessagesOmitBackgroundStates(t *testing.T) {
	for _, state := range []detect.State{
		detect.StateUnknown,
		detect.StateIdle,
		detect.StateWorking,
	} {
		if _, ok := messages[state]; ok {
			t.Errorf("background state %s has a notification message", state)
		}
	}
}

func TestNotifyRejectsUnmappedState(t *testing.T) {
	n := NewDesktopNotifier("Gemini CLI")

	err := n.Notify(detect.StateWorking, "PID 1")
	if err == nil {
		t.Fatal("Notify accepted a state with no message mapping")
	}
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestNopNotifier(t *testing.T) {
	var n NopNotifier
	if err := n.Notify(detect.StateReady, "PID 1"); err != nil {
		t.Errorf("NopNotifier.Notify returned %v", err)
	}
}
