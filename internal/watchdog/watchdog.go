// Package watchdog drives the polling loop that discovers candidate
// processes, snapshots their consoles, classifies their activity state,
// and dispatches desktop notifications on significant state transitions.
//
// The loop is single-threaded and cycle-atomic: each cycle runs to
// completion before the next begins, and all registry mutation happens on
// the loop's thread of control. Collaborators (process inventory, console
// snapshots, focus, notification dispatch) are injected as interfaces so
// tests can drive synthetic cycles without an OS.
package watchdog

import (
	"context"
	"fmt"
	"time"

	"github.com/Misadov/gemini-cli-notify/internal/detect"
	"github.com/Misadov/gemini-cli-notify/internal/errors"
	"github.com/Misadov/gemini-cli-notify/internal/logging"
	"github.com/Misadov/gemini-cli-notify/internal/registry"
)

// Process identifies one candidate process from the inventory.
type Process struct {
	PID            int
	ExecutableName string
	CommandLine    string
}

// Snapshot is a non-destructive read of a process's console window.
type Snapshot struct {
	// Handle is the console window handle owning the session.
	Handle uintptr
	// Title is the console window title.
	Title string
	// Buffer is the visible text read from the bottom of the screen buffer.
	Buffer string
}

// ProcessInventory enumerates live processes matching known shell/runtime
// executable names. The result is a best-effort snapshot and may include
// false positives; classification decides what is actually monitored.
type ProcessInventory interface {
	ListCandidates() ([]Process, error)
}

// SnapshotProvider reads a target process's console window title and
// visible text buffer without altering the target's state. It must fail
// fast on permission or attach errors rather than hang.
type SnapshotProvider interface {
	Snapshot(pid int) (Snapshot, error)
}

// FocusResolver reports whether a console window currently has the user's
// input focus. Implementations carry any host-specific quirks (a terminal
// multiplexer hosting many sessions in one OS window) behind this contract.
type FocusResolver interface {
	IsFocused(handle uintptr) bool
}

// Notifier dispatches a best-effort desktop notification for a state.
// Failure is non-fatal to the watchdog.
type Notifier interface {
	Notify(state detect.State, label string) error
}

// Options configures a Watchdog.
type Options struct {
	// PollInterval is the delay between cycle starts.
	PollInterval time.Duration
	// NotificationsEnabled controls whether transitions dispatch at all.
	NotificationsEnabled bool
	// SuppressWhenFocused skips notifications for the focused instance.
	SuppressWhenFocused bool
	// SelfPID is this process's own PID, excluded from candidates.
	SelfPID int
}

// Watchdog owns one registry and coordinates the collaborators for the
// polling loop.
type Watchdog struct {
	opts       Options
	classifier *detect.Classifier
	registry   *registry.Registry
	inventory  ProcessInventory
	snapshots  SnapshotProvider
	focus      FocusResolver
	notifier   Notifier
	logger     *logging.Logger
}

// New creates a Watchdog. All collaborators are required; pass
// logging.NopLogger() to discard logs.
func New(
	opts Options,
	classifier *detect.Classifier,
	reg *registry.Registry,
	inventory ProcessInventory,
	snapshots SnapshotProvider,
	focus FocusResolver,
	notifier Notifier,
	logger *logging.Logger,
) *Watchdog {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Watchdog{
		opts:       opts,
		classifier: classifier,
		registry:   reg,
		inventory:  inventory,
		snapshots:  snapshots,
		focus:      focus,
		notifier:   notifier,
		logger:     logger,
	}
}

// Registry returns the watchdog's instance registry.
func (w *Watchdog) Registry() *registry.Registry {
	return w.registry
}

// Tick runs one full polling cycle: discover candidates, snapshot and
// classify them, update the registry, and dispatch notifications for
// qualifying transitions. A single candidate's failure never aborts the
// cycle for other candidates.
func (w *Watchdog) Tick(cycle uint64) error {
	log := w.logger.WithCycle(cycle)

	procs, err := w.inventory.ListCandidates()
	if err != nil {
		return errors.NewInventoryError("listing candidate processes", err)
	}

	candidates := w.collect(log, procs)
	transitions := w.registry.Update(cycle, candidates)

	for _, t := range transitions {
		w.handleTransition(log, t)
	}

	log.Debug("cycle complete",
		"candidates", len(candidates),
		"transitions", len(transitions),
		"tracked", w.registry.Len())
	return nil
}

// collect snapshots every candidate process and returns the tuples the
// registry consumes. Untracked windows whose title carries no identity
// marker are filtered out here; a tracked instance's failed snapshot is
// passed through so the registry can freeze it.
func (w *Watchdog) collect(log *logging.Logger, procs []Process) []registry.Candidate {
	candidates := make([]registry.Candidate, 0, len(procs))

	for _, proc := range procs {
		if proc.PID == w.opts.SelfPID {
			continue
		}

		snap, err := w.snapshots.Snapshot(proc.PID)
		if err != nil {
			// Attach/read failures are isolated: log and let the
			// registry decide whether a tracked instance freezes.
			log.Debug("snapshot failed",
				"pid", proc.PID,
				"executable", proc.ExecutableName,
				"error", err.Error())
			candidates = append(candidates, registry.Candidate{PID: proc.PID, Err: err})
			continue
		}

		if _, tracked := w.registry.Get(snap.Handle); !tracked && !w.classifier.MatchesIdentity(snap.Title) {
			continue
		}

		candidates = append(candidates, registry.Candidate{
			PID:    proc.PID,
			Handle: snap.Handle,
			Title:  snap.Title,
			Buffer: snap.Buffer,
		})
	}

	return candidates
}

// handleTransition dispatches a notification for a significant transition
// unless the instance is focused or the state was already notified.
// LastNotifiedState advances on every transition, including suppressed and
// failed dispatches, so a state entry alerts at most once and a later
// re-entry re-fires.
func (w *Watchdog) handleTransition(log *logging.Logger, t registry.Transition) {
	inst, ok := w.registry.Get(t.Handle)
	if !ok {
		return
	}

	defer w.registry.MarkNotified(t.Handle, t.New)

	if !t.New.IsSignificant() || !w.opts.NotificationsEnabled {
		return
	}
	if t.New == inst.LastNotifiedState {
		return
	}

	if w.opts.SuppressWhenFocused && w.focus.IsFocused(t.Handle) {
		log.Debug("notification suppressed, window focused",
			"handle", t.Handle,
			"pid", t.PID,
			"state", t.New.String())
		return
	}

	label := fmt.Sprintf("PID %d", t.PID)
	if err := w.notifier.Notify(t.New, label); err != nil {
		// Best-effort: the notified state still advances so the same
		// transition is not re-attempted every cycle.
		log.Warn("notification dispatch failed",
			"handle", t.Handle,
			"pid", t.PID,
			"state", t.New.String(),
			"error", err.Error())
		return
	}

	log.Info("notification dispatched",
		"handle", t.Handle,
		"pid", t.PID,
		"old_state", t.Old.String(),
		"new_state", t.New.String())
}

// Run drives the polling loop until the context is cancelled. The first
// cycle runs immediately; subsequent cycles start at the configured
// interval. An inventory failure on the first cycle is fatal (the loop
// cannot make progress); later failures skip the cycle and retry.
func (w *Watchdog) Run(ctx context.Context) error {
	var cycle uint64 = 1

	if err := w.Tick(cycle); err != nil {
		return errors.Wrap(err, "watchdog cannot start")
	}

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watchdog stopped", "cycles", cycle)
			return nil
		case <-ticker.C:
			cycle++
			if err := w.Tick(cycle); err != nil {
				if errors.IsFatal(err) {
					return err
				}
				w.logger.WithCycle(cycle).Warn("cycle failed",
					"error", err.Error())
			}
		}
	}
}
