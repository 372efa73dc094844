// Package notify delivers desktop notifications for significant state
// transitions. Delivery is fire-and-forget: a failed dispatch is reported
// to the caller but never retried, so a state entry produces at most one
// delivery attempt.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/Misadov/gemini-cli-notify/internal/detect"
	"github.com/Misadov/gemini-cli-notify/internal/errors"
)

// messages maps each significant state to its notification body format.
// The single %s verb receives the instance label.
var messages = map[detect.State]string{
	detect.StateReady:          "Task Finished (%s) ✅",
	detect.StateActionRequired: "Action Required (%s)! ✋",
	detect.StateRateLimited:    "Task Failed - High Demand (%s) ⚠️",
}

// DesktopNotifier raises native desktop notifications.
type DesktopNotifier struct {
	appName string
}

// NewDesktopNotifier creates a DesktopNotifier. appName is used as the
// notification title.
func NewDesktopNotifier(appName string) *DesktopNotifier {
	return &DesktopNotifier{appName: appName}
}

// Notify raises a desktop notification for the given state. States with
// no message mapping are rejected with ErrInvalidInput.
func (n *DesktopNotifier) Notify(state detect.State, label string) error {
	format, ok := messages[state]
	if !ok {
		return errors.Wrapf(errors.ErrInvalidInput, "no notification message for state %s", state)
	}

	body := fmt.Sprintf(format, label)
	if err := beeep.Notify(n.appName, body, ""); err != nil {
		return errors.NewDispatchError(fmt.Sprintf("desktop notification for %s", label), err)
	}
	return nil
}

// NopNotifier discards all notifications. Used when notifications are
// disabled in configuration and in tests.
type NopNotifier struct{}

func (NopNotifier) Notify(state detect.State, label string) error {
	return nil
}
